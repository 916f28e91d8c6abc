// Package codeowners implements CODEOWNERS parsing and ownership resolution
// for the files of a pull request. Everything in this package is pure: it
// works on already-fetched data and performs no I/O beyond reading a supplied
// io.Reader.
package codeowners

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// Matches reports whether filename is matched by a CODEOWNERS pattern, using
// gitignore-style rules:
//
//   - a pattern without a slash matches the basename at any depth;
//   - a pattern containing a slash is anchored at the repository root;
//   - a pattern that matches a directory also matches everything below it;
//   - a trailing slash restricts the pattern to directories.
//
// Callers strip a leading "/" before calling Matches. Malformed patterns never
// match.
func Matches(filename, pattern string) bool {
	if filename == "" || pattern == "" {
		return false
	}

	dirOnly := strings.HasSuffix(pattern, "/")
	pattern = strings.TrimRight(pattern, "/")
	if pattern == "" {
		return false
	}
	if !strings.Contains(pattern, "/") {
		pattern = "**/" + pattern
	}

	if !dirOnly && MatchGlob(pattern, filename) {
		return true
	}
	return MatchGlob(pattern+"/**", filename)
}

// MatchGlob matches filename against pattern as a plain glob, without the
// CODEOWNERS rewriting done by Matches. "*" stops at "/", "**" spans
// directories.
func MatchGlob(pattern, filename string) bool {
	ok, err := doublestar.Match(pattern, filename)
	if err != nil {
		return false
	}
	return ok
}

// validPattern rejects patterns with malformed bracket expressions or
// dangling escapes.
func validPattern(pattern string) bool {
	for _, segment := range strings.Split(strings.Trim(pattern, "/"), "/") {
		if segment == "" || segment == "**" {
			continue
		}
		if _, err := path.Match(segment, ""); err != nil {
			return false
		}
	}
	return true
}
