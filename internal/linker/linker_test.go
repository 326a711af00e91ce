package linker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"relink/internal/logging"
	"relink/internal/media"
	"relink/internal/reconcile"
)

func entry(library, target string) media.LinkEntry {
	return media.LinkEntry{LibraryPath: library, TargetPath: target, Category: media.CategoryMovies}
}

func mustReadlink(t *testing.T, path string) string {
	t.Helper()
	target, err := os.Readlink(path)
	if err != nil {
		t.Fatalf("readlink %s: %v", path, err)
	}
	return target
}

func TestApplyCreatesLinkWithParents(t *testing.T) {
	dir := t.TempDir()
	library := filepath.Join(dir, "movies", "Heat (1995) {949}", "Heat (1995) {949}.mkv")
	target := filepath.Join(dir, "torrents", "heat.mkv")

	report := New(false, logging.NewNop()).Apply(&reconcile.Changeset{
		Create: []media.LinkEntry{entry(library, target)},
	})

	if len(report.Applied) != 1 || len(report.Failed) != 0 {
		t.Fatalf("report = %+v", report)
	}
	if got := mustReadlink(t, library); got != target {
		t.Fatalf("link target = %q, want %q", got, target)
	}
}

func TestApplyNeverDeletesRegularFiles(t *testing.T) {
	dir := t.TempDir()
	library := filepath.Join(dir, "movies", "keep.mkv")
	if err := os.MkdirAll(filepath.Dir(library), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(library, []byte("real data"), 0o644); err != nil {
		t.Fatal(err)
	}

	report := New(false, logging.NewNop()).Apply(&reconcile.Changeset{
		Remove: []media.LinkEntry{entry(library, "/torrents/whatever.mkv")},
	})

	if len(report.Skipped) != 1 {
		t.Fatalf("expected unsafe removal skip, got %+v", report)
	}
	if !errors.Is(report.Skipped[0].Err, ErrUnsafeRemoval) {
		t.Fatalf("err = %v, want ErrUnsafeRemoval", report.Skipped[0].Err)
	}
	if _, err := os.Stat(library); err != nil {
		t.Fatalf("regular file must survive: %v", err)
	}
}

func TestApplySkipsRemovalWhenTargetChanged(t *testing.T) {
	dir := t.TempDir()
	library := filepath.Join(dir, "movies", "moved.mkv")
	if err := os.MkdirAll(filepath.Dir(library), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("/torrents/other.mkv", library); err != nil {
		t.Fatal(err)
	}

	report := New(false, logging.NewNop()).Apply(&reconcile.Changeset{
		Remove: []media.LinkEntry{entry(library, "/torrents/recorded.mkv")},
	})

	if len(report.Skipped) != 1 || !errors.Is(report.Skipped[0].Err, ErrUnsafeRemoval) {
		t.Fatalf("report = %+v", report)
	}
	if got := mustReadlink(t, library); got != "/torrents/other.mkv" {
		t.Fatalf("link must survive, points at %q", got)
	}
}

func TestApplyRemovesMatchingSymlinkAndPrunesDir(t *testing.T) {
	dir := t.TempDir()
	identityDir := filepath.Join(dir, "movies", "Gone (2010) {1}")
	library := filepath.Join(identityDir, "Gone (2010) {1}.mkv")
	if err := os.MkdirAll(identityDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("/torrents/gone.mkv", library); err != nil {
		t.Fatal(err)
	}

	report := New(false, logging.NewNop()).Apply(&reconcile.Changeset{
		Remove: []media.LinkEntry{entry(library, "/torrents/gone.mkv")},
	})

	if len(report.Applied) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if _, err := os.Lstat(library); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("link must be gone, got %v", err)
	}
	if _, err := os.Stat(identityDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("empty identity dir must be pruned, got %v", err)
	}
}

func TestApplyRelinksAtomically(t *testing.T) {
	dir := t.TempDir()
	library := filepath.Join(dir, "movies", "swap.mkv")
	if err := os.MkdirAll(filepath.Dir(library), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("/torrents/old.mkv", library); err != nil {
		t.Fatal(err)
	}

	report := New(false, logging.NewNop()).Apply(&reconcile.Changeset{
		Relink: []media.LinkEntry{entry(library, "/torrents/new.mkv")},
	})

	if len(report.Applied) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if got := mustReadlink(t, library); got != "/torrents/new.mkv" {
		t.Fatalf("link target = %q, want repointed", got)
	}
	if _, err := os.Lstat(library + ".relink-tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temp link must not remain: %v", err)
	}
}

func TestApplyCreateRepairsExistingLink(t *testing.T) {
	dir := t.TempDir()
	library := filepath.Join(dir, "movies", "repair.mkv")
	if err := os.MkdirAll(filepath.Dir(library), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("/torrents/stale.mkv", library); err != nil {
		t.Fatal(err)
	}

	report := New(false, logging.NewNop()).Apply(&reconcile.Changeset{
		Create: []media.LinkEntry{entry(library, "/torrents/fresh.mkv")},
	})

	if len(report.Applied) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if got := mustReadlink(t, library); got != "/torrents/fresh.mkv" {
		t.Fatalf("link target = %q", got)
	}
}

func TestApplyDryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	library := filepath.Join(dir, "movies", "dry.mkv")
	existing := filepath.Join(dir, "movies", "existing.mkv")
	if err := os.MkdirAll(filepath.Dir(existing), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("/torrents/existing.mkv", existing); err != nil {
		t.Fatal(err)
	}

	report := New(true, logging.NewNop()).Apply(&reconcile.Changeset{
		Create: []media.LinkEntry{entry(library, "/torrents/dry.mkv")},
		Remove: []media.LinkEntry{entry(existing, "/torrents/existing.mkv")},
	})

	if len(report.Applied) != 2 || len(report.Failed) != 0 {
		t.Fatalf("report = %+v", report)
	}
	if _, err := os.Lstat(library); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run must not create links: %v", err)
	}
	if _, err := os.Lstat(existing); err != nil {
		t.Fatalf("dry run must not remove links: %v", err)
	}
}

func TestApplyIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "movies", "good.mkv")
	// A regular file where a symlink should go makes the removal unsafe,
	// but the create after it still runs.
	blocked := filepath.Join(dir, "movies", "blocked.mkv")
	if err := os.MkdirAll(filepath.Dir(blocked), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	report := New(false, logging.NewNop()).Apply(&reconcile.Changeset{
		Remove: []media.LinkEntry{entry(blocked, "/torrents/blocked.mkv")},
		Create: []media.LinkEntry{entry(good, "/torrents/good.mkv")},
	})

	if len(report.Skipped) != 1 || len(report.Applied) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if got := mustReadlink(t, good); got != "/torrents/good.mkv" {
		t.Fatalf("create after skip must still apply, got %q", got)
	}
}
