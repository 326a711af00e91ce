// Package parse turns raw torrent and file names into scored metadata
// candidates.
//
// Extraction is rule-ordered and deterministic: noise tokens are stripped,
// season/episode markers are matched most-specific first, the release year
// must be delimiter-bound, and the remaining prefix becomes the title. Anime
// detection is heuristic (directory hints, fansub naming) and may be
// overridden during resolution.
package parse
