package view

import (
	"cmp"
	"slices"
	"strings"
)

// MatchesSearch reports whether any field contains query, ignoring case.
// A blank query matches everything.
func MatchesSearch(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// FilterSlice keeps the items whose fields match query
func FilterSlice[T any](items []T, query string, fields func(T) []string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if MatchesSearch(query, fields(item)...) {
			out = append(out, item)
		}
	}
	return out
}

// SortSlice stable-sorts a copy of items by key
func SortSlice[T any, K cmp.Ordered](items []T, key func(T) K, desc bool) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		c := cmp.Compare(key(a), key(b))
		if desc {
			return -c
		}
		return c
	})
	return out
}
