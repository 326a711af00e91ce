package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"relink/internal/logging"
	"relink/internal/media"
	"relink/internal/parse"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newTorrentScanner(root string) *TorrentScanner {
	return NewTorrentScanner(root, parse.New(), logging.NewNop())
}

func TestScanMovieDirectoryPicksLargestVideo(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "The.Matrix.1999.1080p.BluRay.x264")
	writeFile(t, filepath.Join(dir, "the.matrix.1999.mkv"), 4096)
	writeFile(t, filepath.Join(dir, "sample", "sample.mkv"), 64)
	writeFile(t, filepath.Join(dir, "info.nfo"), 10)

	files, skipped, err := newTorrentScanner(root).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %+v", skipped)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	f := files[0]
	if filepath.Base(f.SourcePath) != "the.matrix.1999.mkv" {
		t.Fatalf("expected largest video, got %s", f.SourcePath)
	}
	if f.Size != 4096 {
		t.Fatalf("Size = %d, want 4096", f.Size)
	}
	if f.Candidate.Title != "The Matrix" || f.Candidate.Year != 1999 {
		t.Fatalf("unexpected candidate: %+v", f.Candidate)
	}
}

func TestScanEpisodicDirectoryEmitsPerFileSnapshots(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Severance.S01.2160p.WEB-DL")
	writeFile(t, filepath.Join(dir, "Severance.S01E01.2160p.mkv"), 100)
	writeFile(t, filepath.Join(dir, "Severance.S01E02.2160p.mkv"), 200)
	writeFile(t, filepath.Join(dir, "behind.the.scenes.mkv"), 50)

	files, skipped, err := newTorrentScanner(root).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 episode files, got %d", len(files))
	}
	for i, want := range []int{1, 2} {
		if files[i].Candidate.Episode != want || files[i].Candidate.Season != 1 {
			t.Fatalf("file %d: season/episode = %d/%d", i, files[i].Candidate.Season, files[i].Candidate.Episode)
		}
		if files[i].Candidate.KindGuess != media.KindShow {
			t.Fatalf("file %d: kind = %q", i, files[i].Candidate.KindGuess)
		}
	}
	if len(skipped) != 1 || skipped[0].Reason != "no_episode_number" {
		t.Fatalf("expected the extras file to be skipped, got %+v", skipped)
	}
}

func TestScanTopLevelVideoFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Heat.1995.720p.mkv"), 128)
	writeFile(t, filepath.Join(root, "notes.txt"), 10)

	files, skipped, err := newTorrentScanner(root).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 1 || len(skipped) != 0 {
		t.Fatalf("files=%d skipped=%d", len(files), len(skipped))
	}
	if files[0].Candidate.Title != "Heat" || files[0].Candidate.Year != 1995 {
		t.Fatalf("unexpected candidate: %+v", files[0].Candidate)
	}
}

func TestScanSkipsDirectoryWithoutVideos(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Some.Release.2020", "readme.txt"), 10)

	files, skipped, err := newTorrentScanner(root).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %d", len(files))
	}
	if len(skipped) != 1 || skipped[0].Reason != "no_video_files" {
		t.Fatalf("expected no_video_files skip, got %+v", skipped)
	}
}

func TestScanFansubDirectoryMarksAnime(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "[SubGroup] Frieren - 01 [1080p]")
	writeFile(t, filepath.Join(dir, "[SubGroup] Frieren - 01 [1080p].mkv"), 300)

	files, _, err := newTorrentScanner(root).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if !files[0].Candidate.Anime {
		t.Fatalf("expected anime hint, got %+v", files[0].Candidate)
	}
	if files[0].Candidate.Episode != 1 {
		t.Fatalf("episode = %d, want 1", files[0].Candidate.Episode)
	}
}
