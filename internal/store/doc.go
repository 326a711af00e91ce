// Package store persists resolved identities, scanned media files, and the
// applied link set between reconciliation runs, backed by SQLite.
package store
