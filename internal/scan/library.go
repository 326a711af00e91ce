package scan

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"

	"relink/internal/fileutil"
	"relink/internal/logging"
	"relink/internal/media"
)

// LibraryScanner walks the category roots of the library tree and collects
// the symlinks that exist there. Regular files are ignored; the library is
// never treated as owning anything but links.
type LibraryScanner struct {
	roots  map[media.Category]string
	logger *slog.Logger
}

func NewLibraryScanner(roots map[media.Category]string, logger *slog.Logger) *LibraryScanner {
	return &LibraryScanner{
		roots:  roots,
		logger: logging.NewComponentLogger(logger, "library-scan"),
	}
}

// Scan returns the observed link set: every symlink under every category
// root, with its current target. Missing category roots are not an error;
// they simply contribute nothing.
func (s *LibraryScanner) Scan(ctx context.Context) ([]media.LinkEntry, error) {
	var links []media.LinkEntry
	for _, category := range media.Categories {
		root, ok := s.roots[category]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		categoryLinks, err := s.scanRoot(root, category)
		if err != nil {
			return nil, err
		}
		links = append(links, categoryLinks...)
	}
	s.logger.Info("library tree scanned", logging.Int("links", len(links)))
	return links, nil
}

func (s *LibraryScanner) scanRoot(root string, category media.Category) ([]media.LinkEntry, error) {
	var links []media.LinkEntry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		target, err := fileutil.SymlinkTarget(path)
		if err != nil {
			s.logger.Warn("unreadable symlink skipped", logging.String("path", path), logging.Error(err))
			return nil
		}
		links = append(links, media.LinkEntry{
			LibraryPath: path,
			TargetPath:  target,
			Category:    category,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}
