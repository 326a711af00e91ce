package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeLibrary()
	c.normalizeResolver()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.TorrentsDir, err = expandPath(c.Paths.TorrentsDir); err != nil {
		return fmt.Errorf("paths.torrents_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
}

func (c *Config) normalizeLibrary() {
	trim := func(value, fallback string) string {
		value = strings.TrimSpace(value)
		if value == "" {
			return fallback
		}
		return value
	}
	c.Library.MoviesDir = trim(c.Library.MoviesDir, defaultMoviesDir)
	c.Library.ShowsDir = trim(c.Library.ShowsDir, defaultShowsDir)
	c.Library.AnimeMoviesDir = trim(c.Library.AnimeMoviesDir, defaultAnimeMoviesDir)
	c.Library.AnimeShowsDir = trim(c.Library.AnimeShowsDir, defaultAnimeShowsDir)
}

func (c *Config) normalizeResolver() {
	if c.Resolver.AcceptThreshold == 0 {
		c.Resolver.AcceptThreshold = defaultAcceptThreshold
	}
	if c.Resolver.AmbiguityMargin == 0 {
		c.Resolver.AmbiguityMargin = defaultAmbiguityMargin
	}
	if c.Resolver.Concurrency <= 0 {
		c.Resolver.Concurrency = defaultConcurrency
	}
	if c.Resolver.RetryAttempts <= 0 {
		c.Resolver.RetryAttempts = defaultRetryAttempts
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
