package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"relink/internal/logging"
	"relink/internal/media"
)

func TestLibraryScanCollectsSymlinksByCategory(t *testing.T) {
	library := t.TempDir()
	roots := map[media.Category]string{
		media.CategoryMovies: filepath.Join(library, "movies"),
		media.CategoryShows:  filepath.Join(library, "shows"),
	}

	movieDir := filepath.Join(roots[media.CategoryMovies], "Heat (1995) {949}")
	if err := os.MkdirAll(movieDir, 0o755); err != nil {
		t.Fatal(err)
	}
	linkPath := filepath.Join(movieDir, "Heat (1995) {949}.mkv")
	if err := os.Symlink("/torrents/heat.mkv", linkPath); err != nil {
		t.Fatal(err)
	}
	// Regular files in the library are never part of the observed set.
	writeFile(t, filepath.Join(roots[media.CategoryMovies], "poster.jpg"), 16)

	links, err := NewLibraryScanner(roots, logging.NewNop()).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	got := links[0]
	if got.LibraryPath != linkPath || got.TargetPath != "/torrents/heat.mkv" || got.Category != media.CategoryMovies {
		t.Fatalf("unexpected link entry: %+v", got)
	}
}

func TestLibraryScanToleratesMissingRoots(t *testing.T) {
	library := t.TempDir()
	roots := map[media.Category]string{
		media.CategoryMovies: filepath.Join(library, "movies"),
		media.CategoryShows:  filepath.Join(library, "does-not-exist"),
	}
	if err := os.MkdirAll(roots[media.CategoryMovies], 0o755); err != nil {
		t.Fatal(err)
	}

	links, err := NewLibraryScanner(roots, logging.NewNop()).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("expected no links, got %d", len(links))
	}
}

func TestLibraryScanIncludesDanglingSymlinks(t *testing.T) {
	library := t.TempDir()
	roots := map[media.Category]string{media.CategoryMovies: filepath.Join(library, "movies")}
	if err := os.MkdirAll(roots[media.CategoryMovies], 0o755); err != nil {
		t.Fatal(err)
	}
	linkPath := filepath.Join(roots[media.CategoryMovies], "gone.mkv")
	if err := os.Symlink("/torrents/removed.mkv", linkPath); err != nil {
		t.Fatal(err)
	}

	links, err := NewLibraryScanner(roots, logging.NewNop()).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(links) != 1 || links[0].TargetPath != "/torrents/removed.mkv" {
		t.Fatalf("expected the dangling link to be observed, got %+v", links)
	}
}
