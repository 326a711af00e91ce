// Package linker applies reconciliation changesets to the library tree,
// creating, repointing, and removing symlinks with per-entry isolation.
// It never deletes anything that is not a symlink to the recorded target.
package linker
