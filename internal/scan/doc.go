// Package scan provides the filesystem collaborators of a reconciliation
// run: the torrent-tree scanner that produces parsed media file snapshots,
// and the library-tree scanner that collects the existing symlinks.
package scan
