package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"relink/internal/config"
	"relink/internal/fault"
	"relink/internal/linker"
	"relink/internal/logging"
	"relink/internal/media"
	"relink/internal/parse"
	"relink/internal/preflight"
	"relink/internal/reconcile"
	"relink/internal/resolve"
	"relink/internal/resolve/tmdb"
	"relink/internal/scan"
	"relink/internal/store"
)

// ErrAlreadyRunning indicates another reconciliation run holds the lock.
var ErrAlreadyRunning = errors.New("another run is already in progress")

// RunOptions adjusts a single run.
type RunOptions struct {
	// DryRun reports the changeset without touching the library tree.
	DryRun bool
	// Refresh drops the persisted identity cache before resolving, forcing
	// every candidate back through TMDB.
	Refresh bool
}

// Result summarizes one reconciliation run.
type Result struct {
	RunID      string
	Files      int
	Skipped    []scan.Skipped
	Unresolved map[string]int
	Changeset  *reconcile.Changeset
	Report     *linker.Report
}

// Runner executes one reconciliation run end to end: scan, resolve,
// reconcile, apply, persist. A file lock enforces a single run at a time.
type Runner struct {
	cfg    *config.Config
	store  *store.Store
	client tmdb.Searcher
	logger *slog.Logger
	lock   *flock.Flock
}

// NewRunner constructs a Runner over an opened store and TMDB client.
func NewRunner(cfg *config.Config, st *store.Store, client tmdb.Searcher, logger *slog.Logger) (*Runner, error) {
	if cfg == nil || st == nil || client == nil || logger == nil {
		return nil, errors.New("runner requires config, store, tmdb client, and logger")
	}
	return &Runner{
		cfg:    cfg,
		store:  st,
		client: client,
		logger: logger,
		lock:   flock.New(cfg.LockPath()),
	}, nil
}

// Run performs a full reconciliation. Partial failures inside the changeset
// are reported in the result; only environmental problems (lock, preflight,
// scan, persistence) abort the run.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	ok, err := r.lock.TryLock()
	if err != nil {
		return nil, fault.Wrap(nil, "workflow", "lock", r.cfg.LockPath(), err)
	}
	if !ok {
		return nil, ErrAlreadyRunning
	}
	defer func() { _ = r.lock.Unlock() }()

	runID := uuid.NewString()
	logger := r.logger.With(logging.FieldRunID, runID)
	logger.Info("reconciliation run starting",
		logging.Bool("dry_run", opts.DryRun),
		logging.Bool("refresh", opts.Refresh))

	if err := r.preflight(); err != nil {
		return nil, err
	}

	if opts.Refresh {
		if err := r.store.ClearIdentities(ctx); err != nil {
			return nil, fault.Wrap(nil, "workflow", "refresh", "clear identity cache", err)
		}
		logger.Info("identity cache cleared")
	}

	torrents := scan.NewTorrentScanner(r.cfg.Paths.TorrentsDir, parse.New(), logger)
	files, skipped, err := torrents.Scan(ctx)
	if err != nil {
		return nil, fault.Wrap(nil, "workflow", "scan", "torrent tree", err)
	}

	library := scan.NewLibraryScanner(r.cfg.CategoryRoots(), logger)
	observed, err := library.Scan(ctx)
	if err != nil {
		return nil, fault.Wrap(nil, "workflow", "scan", "library tree", err)
	}

	resolver := resolve.New(r.client, r.store, resolve.Options{
		AcceptThreshold: r.cfg.Resolver.AcceptThreshold,
		AmbiguityMargin: r.cfg.Resolver.AmbiguityMargin,
		Concurrency:     r.cfg.Resolver.Concurrency,
	}, logger)

	unresolved := make(map[string]int)
	for i, resolveErr := range resolver.ResolveAll(ctx, files) {
		if resolveErr == nil {
			continue
		}
		reason := resolve.Reason(resolveErr)
		unresolved[reason]++
		logger.Warn("file left unresolved",
			logging.String("source", files[i].SourcePath),
			logging.String("reason", reason),
			logging.Error(resolveErr))
	}

	reconciler := reconcile.New(r.cfg.CategoryRoots(), r.cfg.Library.SeparateAnime, logger)
	changeset := reconciler.Reconcile(observed, files)
	for _, conflict := range changeset.Conflicts {
		logger.Warn("naming conflict excluded",
			logging.String("library_path", conflict.LibraryPath),
			logging.Any("sources", conflict.SourcePaths))
	}

	report := linker.New(opts.DryRun, logger).Apply(changeset)

	result := &Result{
		RunID:      runID,
		Files:      len(files),
		Skipped:    skipped,
		Unresolved: unresolved,
		Changeset:  changeset,
		Report:     report,
	}

	if !opts.DryRun {
		if err := r.persist(ctx, library, files); err != nil {
			return result, err
		}
	}

	logger.Info("reconciliation run finished",
		logging.Int("files", result.Files),
		logging.Int("applied", len(report.Applied)),
		logging.Int("skipped", len(report.Skipped)),
		logging.Int("failed", len(report.Failed)))
	return result, nil
}

// persist records the torrent snapshot and the post-apply link set. The
// library is rescanned so the stored links reflect what actually exists,
// including entries the apply step could not touch.
func (r *Runner) persist(ctx context.Context, library *scan.LibraryScanner, files []*media.File) error {
	if err := r.store.SaveFiles(ctx, files); err != nil {
		return fault.Wrap(nil, "workflow", "persist", "media files", err)
	}
	links, err := library.Scan(ctx)
	if err != nil {
		return fault.Wrap(nil, "workflow", "persist", "rescan library", err)
	}
	if err := r.store.SaveLinks(ctx, links); err != nil {
		return fault.Wrap(nil, "workflow", "persist", "link entries", err)
	}
	return nil
}

func (r *Runner) preflight() error {
	checks := []preflight.Result{
		preflight.CheckReadAccess("torrents directory", r.cfg.Paths.TorrentsDir),
		preflight.CheckDirectoryAccess("library directory", r.cfg.Paths.LibraryDir),
	}
	if failures := preflight.Failures(checks); len(failures) > 0 {
		details := make([]string, 0, len(failures))
		for _, f := range failures {
			details = append(details, fmt.Sprintf("%s: %s", f.Name, f.Detail))
		}
		return fault.Wrap(fault.ErrValidation, "workflow", "preflight", fmt.Sprintf("%v", details), nil)
	}
	return nil
}
