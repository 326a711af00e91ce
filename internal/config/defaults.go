package config

const (
	defaultTorrentsDir  = "~/torrents"
	defaultLibraryDir   = "~/library"
	defaultLogDir       = "~/.local/share/relink/logs"
	defaultDatabasePath = "~/.local/share/relink/relink.db"

	defaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	defaultTMDBLanguage = "en-US"

	defaultMoviesDir      = "movies"
	defaultShowsDir       = "shows"
	defaultAnimeMoviesDir = "anime_movies"
	defaultAnimeShowsDir  = "anime_shows"

	defaultAcceptThreshold = 0.85
	defaultAmbiguityMargin = 0.05
	defaultConcurrency     = 4
	defaultRetryAttempts   = 3

	defaultLogFormat = "text"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TorrentsDir:  defaultTorrentsDir,
			LibraryDir:   defaultLibraryDir,
			LogDir:       defaultLogDir,
			DatabasePath: defaultDatabasePath,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		Library: Library{
			MoviesDir:      defaultMoviesDir,
			ShowsDir:       defaultShowsDir,
			AnimeMoviesDir: defaultAnimeMoviesDir,
			AnimeShowsDir:  defaultAnimeShowsDir,
			SeparateAnime:  true,
		},
		Resolver: Resolver{
			AcceptThreshold: defaultAcceptThreshold,
			AmbiguityMargin: defaultAmbiguityMargin,
			Concurrency:     defaultConcurrency,
			RetryAttempts:   defaultRetryAttempts,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
