package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"relink/internal/media"
)

// GetIdentity returns the cached identity for a normalized (title, year)
// cache key, if one has been resolved before.
func (s *Store) GetIdentity(ctx context.Context, key string) (*media.Identity, bool, error) {
	var (
		id    media.Identity
		kind  string
		anime int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT tmdb_id, title, year, kind, anime FROM media_identities WHERE cache_key = ?`,
		key,
	).Scan(&id.TMDBID, &id.Title, &id.Year, &kind, &anime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get identity %q: %w", key, err)
	}
	id.Kind = media.Kind(kind)
	id.Anime = anime != 0
	return &id, true, nil
}

// PutIdentity stores or replaces the resolved identity for a cache key.
func (s *Store) PutIdentity(ctx context.Context, key string, id media.Identity) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO media_identities (cache_key, tmdb_id, title, year, kind, anime, resolved_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(cache_key) DO UPDATE SET
             tmdb_id = excluded.tmdb_id,
             title = excluded.title,
             year = excluded.year,
             kind = excluded.kind,
             anime = excluded.anime,
             resolved_at = excluded.resolved_at`,
		key, id.TMDBID, id.Title, id.Year, string(id.Kind), boolToInt(id.Anime),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put identity %q: %w", key, err)
	}
	return nil
}

// ClearIdentities drops all cached resolutions, forcing the next run to
// re-resolve everything against TMDB.
func (s *Store) ClearIdentities(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM media_identities`); err != nil {
		return fmt.Errorf("clear identities: %w", err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
