// Package textutil provides text fingerprinting, title similarity scoring,
// and filename sanitization shared by the parser and resolver.
package textutil
