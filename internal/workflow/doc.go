// Package workflow drives one reconciliation run end to end: scan the
// torrent and library trees, resolve candidates, diff, apply, and persist,
// under a single-instance file lock.
package workflow
