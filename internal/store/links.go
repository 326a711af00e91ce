package store

import (
	"context"
	"fmt"
	"time"

	"relink/internal/media"
)

// SaveLinks replaces the recorded link set with the entries that currently
// exist in the library.
func (s *Store) SaveLinks(ctx context.Context, links []media.LinkEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin links tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM link_entries`); err != nil {
		return fmt.Errorf("clear link entries: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, link := range links {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO link_entries (library_path, target_path, category, updated_at)
             VALUES (?, ?, ?, ?)`,
			link.LibraryPath, link.TargetPath, string(link.Category), now,
		); err != nil {
			return fmt.Errorf("insert link entry %q: %w", link.LibraryPath, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit links: %w", err)
	}
	return nil
}

// Summary aggregates store contents for status output.
type Summary struct {
	Identities      int
	Files           int
	UnresolvedFiles int
	LinksByCategory map[media.Category]int
}

// Summarize reads the row counts that the status command reports.
func (s *Store) Summarize(ctx context.Context) (*Summary, error) {
	summary := &Summary{LinksByCategory: make(map[media.Category]int)}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM media_identities`).Scan(&summary.Identities); err != nil {
		return nil, fmt.Errorf("count identities: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM media_files`).Scan(&summary.Files); err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM media_files WHERE identity_key IS NULL`,
	).Scan(&summary.UnresolvedFiles); err != nil {
		return nil, fmt.Errorf("count unresolved files: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(1) FROM link_entries GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("count link entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			category string
			count    int
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scan link count: %w", err)
		}
		summary.LinksByCategory[media.Category(category)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate link counts: %w", err)
	}
	return summary, nil
}
