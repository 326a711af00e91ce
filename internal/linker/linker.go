package linker

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"relink/internal/fileutil"
	"relink/internal/logging"
	"relink/internal/media"
	"relink/internal/reconcile"
)

var (
	// ErrUnsafeRemoval marks a removal that was skipped because the library
	// path is not a symlink pointing at the recorded target. Regular files
	// are never deleted.
	ErrUnsafeRemoval = errors.New("unsafe removal")
	// ErrApplyFailure marks a filesystem operation that failed for one entry.
	ErrApplyFailure = errors.New("apply failure")
)

// Outcome describes what happened to a single changeset entry.
type Outcome struct {
	Action      string
	LibraryPath string
	TargetPath  string
	Err         error
}

// Report itemizes the result of applying a changeset. Partial success is
// the normal case; one bad entry never aborts the rest.
type Report struct {
	Applied []Outcome
	Skipped []Outcome
	Failed  []Outcome
}

// Symlinker applies changesets to the library tree. With DryRun set it
// reports what it would do without touching the filesystem.
type Symlinker struct {
	dryRun bool
	logger *slog.Logger
}

func New(dryRun bool, logger *slog.Logger) *Symlinker {
	return &Symlinker{dryRun: dryRun, logger: logging.NewComponentLogger(logger, "linker")}
}

// Apply executes the changeset entry by entry. Failures are recorded in the
// report and never propagate across entries.
func (l *Symlinker) Apply(cs *reconcile.Changeset) *Report {
	report := &Report{}
	for _, entry := range cs.Remove {
		report.add(l.remove(entry))
	}
	for _, entry := range cs.Relink {
		report.add(l.relink(entry))
	}
	for _, entry := range cs.Create {
		report.add(l.create(entry))
	}
	l.logger.Info("changeset applied",
		logging.Int("applied", len(report.Applied)),
		logging.Int("skipped", len(report.Skipped)),
		logging.Int("failed", len(report.Failed)),
		logging.Bool("dry_run", l.dryRun))
	return report
}

func (r *Report) add(o Outcome) {
	switch {
	case o.Err == nil:
		r.Applied = append(r.Applied, o)
	case errors.Is(o.Err, ErrUnsafeRemoval):
		r.Skipped = append(r.Skipped, o)
	default:
		r.Failed = append(r.Failed, o)
	}
}

// create links a new entry. A path that already exists is handed to relink,
// so a link left behind by an earlier partial run is repaired rather than
// reported as an error.
func (l *Symlinker) create(entry media.LinkEntry) Outcome {
	o := Outcome{Action: "create", LibraryPath: entry.LibraryPath, TargetPath: entry.TargetPath}
	exists, err := fileutil.LinkExists(entry.LibraryPath)
	if err != nil {
		o.Err = fmt.Errorf("%w: stat %s: %w", ErrApplyFailure, entry.LibraryPath, err)
		return o
	}
	if exists {
		o = l.relink(entry)
		o.Action = "create"
		return o
	}
	if l.dryRun {
		return o
	}
	if err := fileutil.EnsureDir(filepath.Dir(entry.LibraryPath)); err != nil {
		o.Err = fmt.Errorf("%w: %w", ErrApplyFailure, err)
		return o
	}
	if err := os.Symlink(entry.TargetPath, entry.LibraryPath); err != nil {
		o.Err = fmt.Errorf("%w: symlink %s: %w", ErrApplyFailure, entry.LibraryPath, err)
	}
	return o
}

// remove deletes the entry's symlink, but only a symlink that still points
// at the recorded target. Anything else is skipped as unsafe.
func (l *Symlinker) remove(entry media.LinkEntry) Outcome {
	o := Outcome{Action: "remove", LibraryPath: entry.LibraryPath, TargetPath: entry.TargetPath}
	isLink, err := fileutil.IsSymlink(entry.LibraryPath)
	if err != nil {
		o.Err = fmt.Errorf("%w: lstat %s: %w", ErrApplyFailure, entry.LibraryPath, err)
		return o
	}
	if !isLink {
		exists, existsErr := fileutil.LinkExists(entry.LibraryPath)
		if existsErr == nil && !exists {
			// Already gone; removing it is a no-op, not a failure.
			return o
		}
		o.Err = fmt.Errorf("%w: %s is not a symlink", ErrUnsafeRemoval, entry.LibraryPath)
		return o
	}
	target, err := fileutil.SymlinkTarget(entry.LibraryPath)
	if err != nil {
		o.Err = fmt.Errorf("%w: readlink %s: %w", ErrApplyFailure, entry.LibraryPath, err)
		return o
	}
	if target != entry.TargetPath {
		o.Err = fmt.Errorf("%w: %s points at %s, not the recorded target", ErrUnsafeRemoval, entry.LibraryPath, target)
		return o
	}
	if l.dryRun {
		return o
	}
	if err := os.Remove(entry.LibraryPath); err != nil {
		o.Err = fmt.Errorf("%w: remove %s: %w", ErrApplyFailure, entry.LibraryPath, err)
		return o
	}
	l.pruneEmptyParent(entry.LibraryPath)
	return o
}

// relink swaps the entry's target atomically: a temporary symlink is created
// next to the destination and renamed into place, so no reader observes a
// missing link.
func (l *Symlinker) relink(entry media.LinkEntry) Outcome {
	o := Outcome{Action: "relink", LibraryPath: entry.LibraryPath, TargetPath: entry.TargetPath}
	isLink, err := fileutil.IsSymlink(entry.LibraryPath)
	if err != nil {
		o.Err = fmt.Errorf("%w: lstat %s: %w", ErrApplyFailure, entry.LibraryPath, err)
		return o
	}
	exists, err := fileutil.LinkExists(entry.LibraryPath)
	if err != nil {
		o.Err = fmt.Errorf("%w: stat %s: %w", ErrApplyFailure, entry.LibraryPath, err)
		return o
	}
	if exists && !isLink {
		o.Err = fmt.Errorf("%w: %s is not a symlink", ErrUnsafeRemoval, entry.LibraryPath)
		return o
	}
	if l.dryRun {
		return o
	}
	if err := fileutil.EnsureDir(filepath.Dir(entry.LibraryPath)); err != nil {
		o.Err = fmt.Errorf("%w: %w", ErrApplyFailure, err)
		return o
	}
	tmp := entry.LibraryPath + ".relink-tmp"
	_ = os.Remove(tmp)
	if err := os.Symlink(entry.TargetPath, tmp); err != nil {
		o.Err = fmt.Errorf("%w: symlink %s: %w", ErrApplyFailure, tmp, err)
		return o
	}
	if err := os.Rename(tmp, entry.LibraryPath); err != nil {
		_ = os.Remove(tmp)
		o.Err = fmt.Errorf("%w: rename %s: %w", ErrApplyFailure, entry.LibraryPath, err)
	}
	return o
}

// pruneEmptyParent removes the identity directory once its last link is
// gone. Failures are ignored; a non-empty directory simply stays.
func (l *Symlinker) pruneEmptyParent(path string) {
	parent := filepath.Dir(path)
	if err := os.Remove(parent); err == nil {
		l.logger.Info("empty directory pruned", logging.String("path", parent))
	}
}
