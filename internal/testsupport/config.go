// Package testsupport provides shared fixtures for package tests: configs
// seeded with per-test temp directories and filesystem scaffolding for
// torrent and library trees.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"relink/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The torrents, library, and log directories exist when it returns.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.TMDB.APIKey = "test"
	cfg.Paths.TorrentsDir = filepath.Join(base, "torrents")
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DatabasePath = filepath.Join(base, "relink.db")

	for _, opt := range opts {
		opt(&cfg)
	}

	for _, dir := range []string{cfg.Paths.TorrentsDir, cfg.Paths.LibraryDir, cfg.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return &cfg
}

// WithSeparateAnime toggles anime category routing on the test config.
func WithSeparateAnime(enabled bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Library.SeparateAnime = enabled
	}
}

// WithResolverThresholds overrides the acceptance tuning on the test config.
func WithResolverThresholds(accept, margin float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Resolver.AcceptThreshold = accept
		cfg.Resolver.AmbiguityMargin = margin
	}
}
