package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"relink/internal/logging"
	"relink/internal/media"
	"relink/internal/resolve/tmdb"
)

// Unresolved classifications. Ambiguous and not-found entries stay out of the
// desired link set until the underlying data improves; lookup failures are
// transient and eligible for retry on a later run.
var (
	ErrAmbiguous    = errors.New("ambiguous match")
	ErrNotFound     = errors.New("no match found")
	ErrLookupFailed = errors.New("lookup failed")
)

// Reason maps a resolution error to its report label.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrAmbiguous):
		return "ambiguous"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrLookupFailed):
		return "lookup_failed"
	default:
		return "error"
	}
}

// IdentityStore is the persistence collaborator for resolved identities,
// keyed by the normalized (title, year) cache key.
type IdentityStore interface {
	GetIdentity(ctx context.Context, key string) (*media.Identity, bool, error)
	PutIdentity(ctx context.Context, key string, id media.Identity) error
}

// Options tunes acceptance and parallelism.
type Options struct {
	// AcceptThreshold is the minimum combined score the top result needs.
	AcceptThreshold float64
	// AmbiguityMargin is the minimum lead over the runner-up; a closer
	// second place classifies the lookup as ambiguous.
	AmbiguityMargin float64
	// Concurrency bounds parallel external lookups in ResolveAll.
	Concurrency int
}

// Resolver maps parsed candidates to canonical media identities via TMDB,
// caching results by normalized (title, year).
type Resolver struct {
	client    tmdb.Searcher
	store     IdentityStore
	threshold float64
	margin    float64
	workers   int
	logger    *slog.Logger

	cache *identityCache
}

// New constructs a Resolver. store may be nil, in which case resolutions are
// cached in memory for the lifetime of the Resolver only.
func New(client tmdb.Searcher, store IdentityStore, opts Options, logger *slog.Logger) *Resolver {
	if opts.AcceptThreshold <= 0 {
		opts.AcceptThreshold = 0.85
	}
	if opts.AmbiguityMargin <= 0 {
		opts.AmbiguityMargin = 0.05
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Resolver{
		client:    client,
		store:     store,
		threshold: opts.AcceptThreshold,
		margin:    opts.AmbiguityMargin,
		workers:   opts.Concurrency,
		logger:    logging.NewComponentLogger(logger, "resolver"),
		cache:     newIdentityCache(),
	}
}

// Resolve maps a candidate to a canonical identity or an unresolved
// classification. Resolving the same candidate twice against the same cache
// state and external data yields the same outcome.
func (r *Resolver) Resolve(ctx context.Context, cand media.Candidate) (*media.Identity, error) {
	if strings.TrimSpace(cand.Title) == "" {
		return nil, fmt.Errorf("%w: empty title", ErrNotFound)
	}
	key := media.Key(cand.Title, cand.Year)

	return r.cache.resolve(key, func() (*media.Identity, error) {
		if r.store != nil {
			if id, ok, err := r.store.GetIdentity(ctx, key); err != nil {
				r.logger.Warn("identity store read failed", logging.String("key", key), logging.Error(err))
			} else if ok {
				return id, nil
			}
		}

		id, err := r.lookup(ctx, cand)
		if err != nil {
			return nil, err
		}

		if r.store != nil {
			if err := r.store.PutIdentity(ctx, key, *id); err != nil {
				r.logger.Warn("identity store write failed", logging.String("key", key), logging.Error(err))
			}
		}
		return id, nil
	})
}

// ResolveAll resolves every file's candidate with bounded parallelism,
// attaching identities in place. The returned slice is aligned with files:
// a nil entry means the file resolved. Ordering between unrelated candidates
// is not guaranteed; the per-key cache guarantees at most one external call
// per (title, year) even under concurrency.
func (r *Resolver) ResolveAll(ctx context.Context, files []*media.File) []error {
	errs := make([]error, len(files))

	p := pool.New().WithMaxGoroutines(r.workers)
	for i, file := range files {
		p.Go(func() {
			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("%w: %w", ErrLookupFailed, err)
				return
			}
			id, err := r.Resolve(ctx, file.Candidate)
			if err != nil {
				errs[i] = err
				return
			}
			file.Identity = id
			file.Season = file.Candidate.Season
			file.Episode = file.Candidate.Episode
		})
	}
	p.Wait()
	return errs
}

func (r *Resolver) lookup(ctx context.Context, cand media.Candidate) (*media.Identity, error) {
	response, kind, err := r.search(ctx, cand)
	if err != nil {
		r.logger.Warn("external lookup failed",
			logging.String("title", cand.Title),
			logging.Int("year", cand.Year),
			logging.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	ranked := rank(cand, response.Results)
	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: %q (%d)", ErrNotFound, cand.Title, cand.Year)
	}

	best := ranked[0]
	if best.score < r.threshold {
		r.logger.Info("best match below acceptance threshold",
			logging.String("title", cand.Title),
			logging.String("match", best.result.BestTitle()),
			logging.Float64("score", best.score),
			logging.Float64("threshold", r.threshold))
		return nil, fmt.Errorf("%w: best score %.2f for %q", ErrNotFound, best.score, cand.Title)
	}
	if len(ranked) > 1 && best.score-ranked[1].score < r.margin {
		r.logger.Info("near-equal matches rejected as ambiguous",
			logging.String("title", cand.Title),
			logging.Float64("best", best.score),
			logging.Float64("second", ranked[1].score),
			logging.Float64("margin", r.margin))
		return nil, fmt.Errorf("%w: %q scored %.2f vs %.2f", ErrAmbiguous, cand.Title, best.score, ranked[1].score)
	}

	resultKind := kind
	if resultKind == media.KindUnknown {
		resultKind = kindFromMediaType(best.result.MediaType)
	}
	if resultKind == media.KindUnknown {
		return nil, fmt.Errorf("%w: %q matched a non-video result", ErrNotFound, cand.Title)
	}

	year := best.result.Year()
	if year == 0 {
		year = cand.Year
	}

	id := &media.Identity{
		TMDBID: best.result.ID,
		Title:  strings.TrimSpace(best.result.BestTitle()),
		Year:   year,
		Kind:   resultKind,
		// External genre/origin data is authoritative when present; the
		// parser hint fills in when the search payload carries neither.
		Anime: best.result.IsAnime() || (cand.Anime && len(best.result.GenreIDs) == 0),
	}
	r.logger.Info("candidate resolved",
		logging.String("title", cand.Title),
		logging.String("resolved_title", id.Title),
		logging.Int64("tmdb_id", id.TMDBID),
		logging.String("kind", string(id.Kind)),
		logging.Bool("anime", id.Anime),
		logging.Float64("score", best.score))
	return id, nil
}

func (r *Resolver) search(ctx context.Context, cand media.Candidate) (*tmdb.Response, media.Kind, error) {
	switch cand.KindGuess {
	case media.KindMovie:
		resp, err := r.client.SearchMovie(ctx, cand.Title, cand.Year)
		return resp, media.KindMovie, err
	case media.KindShow:
		resp, err := r.client.SearchTV(ctx, cand.Title, cand.Year)
		return resp, media.KindShow, err
	default:
		resp, err := r.client.SearchMulti(ctx, cand.Title)
		return resp, media.KindUnknown, err
	}
}

func kindFromMediaType(mediaType string) media.Kind {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "movie":
		return media.KindMovie
	case "tv":
		return media.KindShow
	default:
		return media.KindUnknown
	}
}
