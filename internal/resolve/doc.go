// Package resolve maps parsed filename candidates to canonical media
// identities using TMDB search, with per-run caching and bounded concurrency.
package resolve
