// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil provides small text helpers shared across stages:
// fuzzy name matching, output truncation, and filename slugs.
package textutil

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultMaxNameDistance is the edit-distance tolerance used when matching
// upstream display names against a queried name. Per prd003-normalize R3.3.
const DefaultMaxNameDistance = 2

// Similar reports whether a and b are within maxDist edits of each other,
// case-insensitively. A maxDist of 0 or less uses DefaultMaxNameDistance.
func Similar(a, b string, maxDist int) bool {
	if maxDist <= 0 {
		maxDist = DefaultMaxNameDistance
	}
	return levenshtein.ComputeDistance(strings.ToLower(a), strings.ToLower(b)) <= maxDist
}

// truncationSuffix marks output that was cut at a character budget. The
// marker text is part of the evidence format and must stay stable across
// runs of the same item.
const truncationSuffix = "\n... <truncated>"

// Truncate cuts s to at most limit bytes and appends the truncation
// marker. A limit of 0 or less returns s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + truncationSuffix
}

// Slug returns a filesystem-safe version of name: every character outside
// [a-zA-Z0-9._-] becomes an underscore. Deterministic, so the same name
// always maps to the same file.
func Slug(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
