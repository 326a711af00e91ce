package store

import (
	"context"
	"fmt"
	"time"

	"relink/internal/media"
)

// SaveFiles replaces the recorded torrent snapshot with the given files.
// Resolved files record their identity cache key; unresolved ones keep a
// NULL identity so status output can count them.
func (s *Store) SaveFiles(ctx context.Context, files []*media.File) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin files tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM media_files`); err != nil {
		return fmt.Errorf("clear media files: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, f := range files {
		var identityKey any
		if f.Resolved() {
			// The resolver caches under the candidate's key, not the
			// canonical title, so reference the same key here.
			identityKey = media.Key(f.Candidate.Title, f.Candidate.Year)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO media_files (source_path, size, raw_name, identity_key, season, episode, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			f.SourcePath, f.Size, f.Candidate.Raw, identityKey, f.Season, f.Episode, now,
		); err != nil {
			return fmt.Errorf("insert media file %q: %w", f.SourcePath, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit files: %w", err)
	}
	return nil
}
