package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"relink/internal/media"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	TorrentsDir  string `toml:"torrents_dir"`
	LibraryDir   string `toml:"library_dir"`
	LogDir       string `toml:"log_dir"`
	DatabasePath string `toml:"database_path"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`
}

// Library contains configuration for the media library structure.
type Library struct {
	MoviesDir      string `toml:"movies_dir"`
	ShowsDir       string `toml:"shows_dir"`
	AnimeMoviesDir string `toml:"anime_movies_dir"`
	AnimeShowsDir  string `toml:"anime_shows_dir"`
	SeparateAnime  bool   `toml:"separate_anime"`
}

// Resolver contains tuning for external identity resolution.
type Resolver struct {
	// AcceptThreshold is the minimum similarity score the top-ranked search
	// result must reach before it is accepted.
	AcceptThreshold float64 `toml:"accept_threshold"`
	// AmbiguityMargin is the minimum lead the top result must hold over the
	// runner-up; a smaller lead classifies the lookup as ambiguous.
	AmbiguityMargin float64 `toml:"ambiguity_margin"`
	// Concurrency bounds how many external lookups run in parallel.
	Concurrency int `toml:"concurrency"`
	// RetryAttempts is how many times a transient lookup failure is retried
	// within one resolution before being reported.
	RetryAttempts int `toml:"retry_attempts"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for relink.
type Config struct {
	Paths    Paths    `toml:"paths"`
	TMDB     TMDB     `toml:"tmdb"`
	Library  Library  `toml:"library"`
	Resolver Resolver `toml:"resolver"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/relink/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("relink.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// CategoryRoots maps each library category to its full root directory.
func (c *Config) CategoryRoots() map[media.Category]string {
	return map[media.Category]string{
		media.CategoryMovies:      filepath.Join(c.Paths.LibraryDir, c.Library.MoviesDir),
		media.CategoryShows:       filepath.Join(c.Paths.LibraryDir, c.Library.ShowsDir),
		media.CategoryAnimeMovies: filepath.Join(c.Paths.LibraryDir, c.Library.AnimeMoviesDir),
		media.CategoryAnimeShows:  filepath.Join(c.Paths.LibraryDir, c.Library.AnimeShowsDir),
	}
}

// LockPath is the flock path that guards against concurrent reconciliation runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "relink.lock")
}

// EnsureDirectories creates the directories a run writes to. The torrent tree
// is read-only and intentionally not created here.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Paths.DatabasePath)}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		dirs = append(dirs, c.Paths.LibraryDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path.
func WriteSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves a user-supplied path: tilde expansion plus conversion
// to an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
