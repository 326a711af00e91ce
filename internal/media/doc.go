// Package media defines the shared data model: parsed candidates, canonical
// identities, scanned files, library link entries, and the deterministic
// naming scheme that maps an identity onto library paths.
package media
