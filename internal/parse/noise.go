package parse

import "strings"

// garbageTokens is the set of release junk that terminates the title region:
// resolutions, codecs, sources, and common release-tag noise.
var garbageTokens = buildGarbageSet(
	// Video codecs
	[]string{"x264", "x265", "h264", "h265", "hevc", "avc", "xvid", "divx", "av1", "vp9", "10bit", "8bit", "hi10p"},
	// Audio codecs and channel layouts
	[]string{"aac", "ac3", "dts", "dts-hd", "truehd", "atmos", "flac", "mp3", "opus", "eac3", "dd5", "5.1", "7.1", "2.0"},
	// Resolutions
	[]string{"480p", "576p", "720p", "1080p", "1080i", "2160p", "4k", "uhd"},
	// Sources
	[]string{"bluray", "blu-ray", "bdrip", "brrip", "bdremux", "remux", "hdrip",
		"dvd", "dvdrip", "webrip", "web-dl", "webdl", "web", "hdtv", "pdtv", "tvrip", "cam", "screener"},
	// Release tags
	[]string{"proper", "repack", "rerip", "internal", "limited", "extended", "unrated",
		"remastered", "multi", "dubbed", "subbed", "subs", "complete", "batch"},
)

func buildGarbageSet(groups ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, group := range groups {
		for _, token := range group {
			set[token] = struct{}{}
		}
	}
	return set
}

func isGarbageToken(token string) bool {
	_, ok := garbageTokens[strings.ToLower(token)]
	return ok
}
