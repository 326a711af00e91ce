package media

import (
	"fmt"

	"relink/internal/textutil"
)

// Kind identifies whether a title is a movie or an episodic show.
type Kind string

const (
	KindMovie   Kind = "movie"
	KindShow    Kind = "show"
	KindUnknown Kind = "unknown"
)

// Category names one of the four library roots a link can live under.
type Category string

const (
	CategoryMovies      Category = "movies"
	CategoryShows       Category = "shows"
	CategoryAnimeMovies Category = "anime_movies"
	CategoryAnimeShows  Category = "anime_shows"
)

// Categories lists every library category in a stable order.
var Categories = []Category{CategoryMovies, CategoryShows, CategoryAnimeMovies, CategoryAnimeShows}

// CategoryFor routes an identity to its library category. Anime titles go to
// the anime categories only when separateAnime is enabled.
func CategoryFor(kind Kind, anime, separateAnime bool) Category {
	if kind == KindMovie {
		if anime && separateAnime {
			return CategoryAnimeMovies
		}
		return CategoryMovies
	}
	if anime && separateAnime {
		return CategoryAnimeShows
	}
	return CategoryShows
}

// Identity is the canonical media record confirmed via external lookup.
// Instances are shared read-only across every file that resolved to them.
type Identity struct {
	TMDBID int64
	Title  string
	Year   int
	Kind   Kind
	Anime  bool
}

// Key returns the normalized (title, year) cache key for an identity lookup.
func Key(title string, year int) string {
	return fmt.Sprintf("%s|%d", textutil.NormalizeTitle(title), year)
}

// DirName is the library directory name for this identity:
// "Title (Year) {tmdb-ID}".
func (id Identity) DirName() string {
	return textutil.SanitizeFileName(fmt.Sprintf("%s (%d) {tmdb-%d}", id.Title, id.Year, id.TMDBID))
}

func (id Identity) String() string {
	return fmt.Sprintf("%s: %s (%d) {tmdb-%d}", id.Kind, id.Title, id.Year, id.TMDBID)
}

// Candidate holds parsed-but-unconfirmed metadata extracted from a raw name.
// Immutable once produced by the parser.
type Candidate struct {
	Raw        string
	Title      string
	Year       int
	Season     int
	Episode    int
	Anime      bool
	KindGuess  Kind
	Confidence float64
}

// HasEpisode reports whether the candidate carries episode numbering.
func (c Candidate) HasEpisode() bool {
	return c.Episode > 0
}

// File is one scanned filesystem entry from the torrent tree, possibly
// resolved to an identity.
type File struct {
	SourcePath string
	Size       int64
	Candidate  Candidate
	Identity   *Identity
	Season     int
	Episode    int
}

// Resolved reports whether the file has been matched to a canonical identity.
func (f *File) Resolved() bool {
	return f != nil && f.Identity != nil
}

// LinkEntry represents one library symlink, desired or observed.
type LinkEntry struct {
	LibraryPath string
	TargetPath  string
	Category    Category
}
