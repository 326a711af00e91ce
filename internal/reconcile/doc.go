// Package reconcile computes the changeset between the library's existing
// symlinks and the link set the resolved torrent files call for.
package reconcile
