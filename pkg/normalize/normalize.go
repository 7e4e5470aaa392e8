// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

// Package normalize produces accent-insensitive match keys from arbitrary
// Unicode strings.
//
// # Usage
//
// List endpoints accept a free-text `search` parameter that must match
// names like "São José" when the operator types "sao jose". Both sides of
// the comparison are reduced to a canonical key before matching.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key converts a Unicode string into a lowercase, accent-free match key.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Collapses runs of whitespace into single spaces and trims the ends.
func Key(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)

	return strings.Join(strings.Fields(result), " ")
}

// Matches reports whether the candidate contains the query, ignoring case,
// accents, and whitespace differences. An empty query matches everything.
func Matches(candidate, query string) bool {
	key := Key(query)
	if key == "" {
		return true
	}
	return strings.Contains(Key(candidate), key)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
