package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.TorrentsDir) == "" {
		return errors.New("paths.torrents_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if c.Paths.TorrentsDir == c.Paths.LibraryDir {
		return errors.New("paths.torrents_dir and paths.library_dir must differ")
	}
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		return errors.New("paths.database_path must be set")
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/relink/config.toml"
		}
		return fmt.Errorf("tmdb.api_key is required. Set TMDB_API_KEY env var or edit %s (create with 'relink config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateLibrary() error {
	names := map[string]string{
		"library.movies_dir":       c.Library.MoviesDir,
		"library.shows_dir":        c.Library.ShowsDir,
		"library.anime_movies_dir": c.Library.AnimeMoviesDir,
		"library.anime_shows_dir":  c.Library.AnimeShowsDir,
	}
	seen := make(map[string]string, len(names))
	for key, name := range names {
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%s must be a bare directory name, got %q", key, name)
		}
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("%s and %s both use directory %q", prev, key, name)
		}
		seen[name] = key
	}
	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.AcceptThreshold < 0 || c.Resolver.AcceptThreshold > 1 {
		return errors.New("resolver.accept_threshold must be between 0 and 1")
	}
	if c.Resolver.AmbiguityMargin < 0 || c.Resolver.AmbiguityMargin > 1 {
		return errors.New("resolver.ambiguity_margin must be between 0 and 1")
	}
	if c.Resolver.Concurrency < 1 {
		return errors.New("resolver.concurrency must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
