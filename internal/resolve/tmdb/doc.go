// Package tmdb is a minimal client for The Movie Database search API,
// covering the movie, TV, and multi search endpoints used during resolution.
// Transient failures (network errors, 429, 5xx) are retried and tagged with
// ErrTransient so callers can classify them.
package tmdb
