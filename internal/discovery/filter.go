package discovery

import (
	"path/filepath"
	"strings"

	"tat/internal/domain"
)

// Filter selects which cases take part in a run
type Filter struct {
	reservedPrefixes []string
	reservedIDs      map[string]bool
}

// NewFilter creates a new Filter.
// Ids matching a reserved prefix or a reserved id belong to hand-authored scenarios.
func NewFilter(reservedPrefixes, reservedIDs []string) *Filter {
	ids := make(map[string]bool, len(reservedIDs))
	for _, id := range reservedIDs {
		ids[id] = true
	}
	return &Filter{
		reservedPrefixes: reservedPrefixes,
		reservedIDs:      ids,
	}
}

// Reserved reports whether id is owned by a hand-authored scenario
func (f *Filter) Reserved(id string) bool {
	if f.reservedIDs[id] {
		return true
	}
	for _, prefix := range f.reservedPrefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// Runnable drops cases with empty input and reserved ids
func (f *Filter) Runnable(cases []domain.TestCase) []domain.TestCase {
	var runnable []domain.TestCase
	for _, tc := range cases {
		if !tc.Runnable() || f.Reserved(tc.ID) {
			continue
		}
		runnable = append(runnable, tc)
	}
	return runnable
}

// OnlyIDs keeps the cases whose id is in ids
func (f *Filter) OnlyIDs(cases []domain.TestCase, ids map[string]bool) []domain.TestCase {
	var kept []domain.TestCase
	for _, tc := range cases {
		if ids[tc.ID] {
			kept = append(kept, tc)
		}
	}
	return kept
}

// FilterByID filters cases by id pattern using wildcard matching
// Supports patterns like "Pos_Fun_*" or "*_00*"
func (f *Filter) FilterByID(cases []domain.TestCase, pattern string) []domain.TestCase {
	if pattern == "" {
		return cases
	}

	var filtered []domain.TestCase
	for _, tc := range cases {
		if MatchID(tc.ID, pattern) {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}

// MatchID reports whether id matches pattern.
// Patterns without wildcards match as substrings.
func MatchID(id, pattern string) bool {
	if pattern == "" {
		return true
	}

	if matched, err := filepath.Match(pattern, id); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") {
		// Fall back to ordered parts for patterns like "*Fun*00*"
		rest := id
		hasPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasPart = true
			idx := strings.Index(rest, part)
			if idx < 0 {
				return false
			}
			rest = rest[idx+len(part):]
		}
		return hasPart
	}

	if !strings.Contains(pattern, "?") {
		return strings.Contains(id, pattern)
	}
	return false
}
