package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"relink/internal/logging"
	"relink/internal/media"
	"relink/internal/parse"
)

// Skipped records a torrent entry that produced no media files, with the
// reason it was passed over.
type Skipped struct {
	Path   string
	Reason string
	Err    error
}

// TorrentScanner walks the top level of the torrents directory and turns
// each entry into parsed media file snapshots. Directories are treated as
// one release: episode-numbered video files each become a snapshot, and a
// directory without episode numbering contributes its largest video file.
type TorrentScanner struct {
	root   string
	parser *parse.Parser
	logger *slog.Logger
}

func NewTorrentScanner(root string, parser *parse.Parser, logger *slog.Logger) *TorrentScanner {
	return &TorrentScanner{
		root:   root,
		parser: parser,
		logger: logging.NewComponentLogger(logger, "torrent-scan"),
	}
}

// Scan reads the torrents directory and returns media file snapshots plus
// the entries it skipped. Entries are processed in directory order, so the
// result is deterministic for an unchanged tree.
func (s *TorrentScanner) Scan(ctx context.Context) ([]*media.File, []Skipped, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, nil, fmt.Errorf("read torrents directory: %w", err)
	}

	var files []*media.File
	var skipped []Skipped
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		path := filepath.Join(s.root, entry.Name())
		if entry.IsDir() {
			dirFiles, skip := s.scanRelease(path, entry.Name())
			files = append(files, dirFiles...)
			skipped = append(skipped, skip...)
			continue
		}
		if !parse.IsVideoFile(entry.Name()) {
			continue
		}
		file, skip := s.snapshotFile(path, entry.Name(), parse.Hint{})
		if skip != nil {
			skipped = append(skipped, *skip)
			continue
		}
		files = append(files, file)
	}
	s.logger.Info("torrent tree scanned",
		logging.Int("files", len(files)),
		logging.Int("skipped", len(skipped)))
	return files, skipped, nil
}

func (s *TorrentScanner) snapshotFile(path, name string, hint parse.Hint) (*media.File, *Skipped) {
	cand, err := s.parser.Parse(name, hint)
	if err != nil {
		return nil, &Skipped{Path: path, Reason: "unparsable", Err: err}
	}
	info, err := os.Lstat(path)
	if err != nil {
		return nil, &Skipped{Path: path, Reason: "stat_failed", Err: err}
	}
	return &media.File{SourcePath: path, Size: info.Size(), Candidate: cand}, nil
}

// scanRelease handles one top-level torrent directory.
func (s *TorrentScanner) scanRelease(dir, name string) ([]*media.File, []Skipped) {
	cand, err := s.parser.Parse(name, parse.Hint{})
	if err != nil {
		return nil, []Skipped{{Path: dir, Reason: "unparsable", Err: err}}
	}

	videos, err := collectVideos(dir)
	if err != nil {
		return nil, []Skipped{{Path: dir, Reason: "walk_failed", Err: err}}
	}
	if len(videos) == 0 {
		return nil, []Skipped{{Path: dir, Reason: "no_video_files"}}
	}

	episodic := cand.Episode > 0
	if !episodic {
		for _, v := range videos {
			if _, episode := s.parser.ParseEpisode(filepath.Base(v.path)); episode > 0 {
				episodic = true
				break
			}
		}
	}
	if episodic {
		return s.episodeSnapshots(cand, videos)
	}

	// A release without episode numbering is a movie; samples and extras
	// lose to the main feature on size.
	largest := videos[0]
	for _, v := range videos[1:] {
		if v.size > largest.size {
			largest = v
		}
	}
	return []*media.File{{SourcePath: largest.path, Size: largest.size, Candidate: cand}}, nil
}

func (s *TorrentScanner) episodeSnapshots(dirCand media.Candidate, videos []videoFile) ([]*media.File, []Skipped) {
	var files []*media.File
	var skipped []Skipped
	for _, v := range videos {
		season, episode := s.parser.ParseEpisode(filepath.Base(v.path))
		if episode == 0 {
			if dirCand.Episode == 0 {
				skipped = append(skipped, Skipped{Path: v.path, Reason: "no_episode_number"})
				continue
			}
			season, episode = dirCand.Season, dirCand.Episode
		}
		cand := dirCand
		cand.Season = season
		cand.Episode = episode
		cand.KindGuess = media.KindShow
		files = append(files, &media.File{SourcePath: v.path, Size: v.size, Candidate: cand})
	}
	return files, skipped
}

type videoFile struct {
	path string
	size int64
}

func collectVideos(dir string) ([]videoFile, error) {
	var videos []videoFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !parse.IsVideoFile(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		videos = append(videos, videoFile{path: path, size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return videos, nil
}
