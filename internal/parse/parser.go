package parse

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"relink/internal/media"
)

// ErrUnparsable is returned when no title-bearing token can be isolated from
// a raw name. All other partial results are returned with reduced confidence.
var ErrUnparsable = errors.New("no title could be extracted")

// Hint carries context the scanner knows about an entry, such as whether it
// came from an anime directory. Hints are advisory; the resolver may override.
type Hint struct {
	AnimeDir bool
}

// Episode patterns, tried in priority order: the most specific season/episode
// markers first, the bare anime dash-number convention last.
var episodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bs(\d{1,2})[. _-]?e(\d{1,3})\b`),
	regexp.MustCompile(`\b(\d{1,2})x(\d{2,3})\b`),
	regexp.MustCompile(`(?i)\bseason[. _]?(\d{1,2})[. _]?episode[. _]?(\d{1,3})\b`),
}

// animeEpisodePattern matches the fansub " - NN" episode convention. It
// carries no season component.
var animeEpisodePattern = regexp.MustCompile(`\s-\s(\d{2,3})(?:\s|$|\[|\()`)

// seasonPattern matches a season-pack marker without an episode component,
// as directory names of complete seasons carry.
var seasonPattern = regexp.MustCompile(`(?i)\bs(?:eason[. _]?)?(\d{1,2})\b`)

// yearPattern requires delimiters around the year so episode numbers and
// dates are not mistaken for release years.
var yearPattern = regexp.MustCompile(`(?:^|[(\[. _,-])((?:19|20)\d{2})(?:[)\]. _,-]|$)`)

// leadingGroupPattern matches a bracketed release-group prefix, the usual
// fansub naming convention.
var leadingGroupPattern = regexp.MustCompile(`^\[[^\]]*\]\s*`)

var videoExtensions = map[string]struct{}{
	".mkv": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".wmv": {},
}

var titleCaser = cases.Title(language.Und)

// IsVideoFile reports whether name carries a recognized video extension.
func IsVideoFile(name string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Parser extracts candidate metadata from raw torrent and media names.
// Parse is a pure function of its inputs: no I/O, deterministic output.
type Parser struct{}

// New constructs a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse turns a raw path element into a scored candidate. The title is always
// required; year, season, and episode are optional and lower the confidence
// when missing.
func (p *Parser) Parse(raw string, hint Hint) (media.Candidate, error) {
	name := trimVideoExtension(strings.TrimSpace(raw))

	fansub := leadingGroupPattern.MatchString(name)
	name = leadingGroupPattern.ReplaceAllString(name, "")

	season, episode, episodeIdx, seasonMarker := findEpisode(name)
	if episode == 0 {
		if s, idx := findSeason(name); s > 0 {
			season, episodeIdx, seasonMarker = s, idx, true
		}
	}
	year, yearIdx := findYear(name)

	boundary := len(name)
	if episodeIdx >= 0 && episodeIdx < boundary {
		boundary = episodeIdx
	}
	if yearIdx >= 0 && yearIdx < boundary {
		boundary = yearIdx
	}

	title := cleanTitle(name[:boundary])
	if title == "" {
		return media.Candidate{}, fmt.Errorf("%w: %q", ErrUnparsable, raw)
	}

	kind := media.KindUnknown
	switch {
	case episode > 0 || seasonMarker:
		kind = media.KindShow
	case year > 0:
		kind = media.KindMovie
	}

	anime := hint.AnimeDir || (fansub && episode > 0 && !seasonMarker)

	cand := media.Candidate{
		Raw:       raw,
		Title:     title,
		Year:      year,
		Season:    season,
		Episode:   episode,
		Anime:     anime,
		KindGuess: kind,
	}
	cand.Confidence = confidence(cand)
	return cand, nil
}

// ParseEpisode extracts just season and episode numbers from a file name,
// for per-file numbering inside an already-parsed torrent directory.
func (p *Parser) ParseEpisode(raw string) (season, episode int) {
	name := trimVideoExtension(strings.TrimSpace(raw))
	name = leadingGroupPattern.ReplaceAllString(name, "")
	season, episode, _, _ = findEpisode(name)
	return season, episode
}

// confidence scores a candidate by how many expected fields were extracted.
// A bare title scores 0.4; year, a determined kind, and season numbering add
// the rest.
func confidence(c media.Candidate) float64 {
	score := 0.4
	if c.Year > 0 {
		score += 0.3
	}
	if c.KindGuess != media.KindUnknown {
		score += 0.2
	}
	if c.KindGuess == media.KindShow && c.Season > 0 {
		score += 0.1
	} else if c.KindGuess == media.KindMovie {
		score += 0.1
	}
	return score
}

func findEpisode(name string) (season, episode, index int, seasonMarker bool) {
	for _, pattern := range episodePatterns {
		loc := pattern.FindStringSubmatchIndex(name)
		if loc == nil {
			continue
		}
		season, _ = strconv.Atoi(name[loc[2]:loc[3]])
		episode, _ = strconv.Atoi(name[loc[4]:loc[5]])
		return season, episode, loc[0], true
	}
	if loc := animeEpisodePattern.FindStringSubmatchIndex(name); loc != nil {
		episode, _ = strconv.Atoi(name[loc[2]:loc[3]])
		return 0, episode, loc[0], false
	}
	return 0, 0, -1, false
}

// findSeason matches a season-only marker, for complete-season directories.
func findSeason(name string) (season, index int) {
	loc := seasonPattern.FindStringSubmatchIndex(name)
	if loc == nil {
		return 0, -1
	}
	season, _ = strconv.Atoi(name[loc[2]:loc[3]])
	return season, loc[0]
}

// findYear returns the last delimited year in the name, so titles that start
// with a year ("2001 A Space Odyssey 1968") still pick up the release year.
func findYear(name string) (year, index int) {
	matches := yearPattern.FindAllStringSubmatchIndex(name, -1)
	if len(matches) == 0 {
		return 0, -1
	}
	last := matches[len(matches)-1]
	year, _ = strconv.Atoi(name[last[2]:last[3]])
	return year, last[0]
}

func trimVideoExtension(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		if _, ok := videoExtensions[strings.ToLower(name[idx:])]; ok {
			return name[:idx]
		}
	}
	return name
}

// cleanTitle strips noise tokens and separator characters from the title
// region, stopping at the first recognized garbage token.
func cleanTitle(region string) string {
	region = strings.NewReplacer(".", " ", "_", " ").Replace(region)
	fields := strings.Fields(region)

	kept := make([]string, 0, len(fields))
	for _, field := range fields {
		trimmed := strings.Trim(field, "-–[]()")
		if trimmed == "" {
			continue
		}
		if isGarbageToken(trimmed) {
			break
		}
		kept = append(kept, trimmed)
	}
	if len(kept) == 0 {
		return ""
	}
	return titleCaser.String(strings.Join(kept, " "))
}
