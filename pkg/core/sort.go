package core

import (
	"cmp"
	"slices"
	"strings"
)

// SortKey selects the ordering of a note listing.
type SortKey string

const (
	SortLastEdited SortKey = "edited"
	SortCreated    SortKey = "created"
	SortTitle      SortKey = "title"
)

// ParseSortKey converts user input into a SortKey. Empty means SortLastEdited.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortLastEdited, nil
	case SortLastEdited, SortCreated, SortTitle:
		return k, nil
	default:
		return "", &ValidationError{Field: "sort", Value: s, Reason: "expected edited, created or title"}
	}
}

// Sort orders notes in place by key. Ties keep their insertion order.
func Sort(notes []Note, key SortKey) {
	switch key {
	case SortCreated:
		SortByCreated(notes)
	case SortTitle:
		SortByTitle(notes)
	default:
		SortByLastEdited(notes)
	}
}

// SortByLastEdited orders notes most recently edited first.
func SortByLastEdited(notes []Note) {
	slices.SortStableFunc(notes, func(a, b Note) int {
		return b.LastEditedAt.Compare(a.LastEditedAt)
	})
}

// SortByCreated orders notes newest first.
func SortByCreated(notes []Note) {
	slices.SortStableFunc(notes, func(a, b Note) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// SortByTitle orders notes alphabetically, ignoring case.
func SortByTitle(notes []Note) {
	slices.SortStableFunc(notes, func(a, b Note) int {
		return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})
}

// PinnedFirst moves pinned notes ahead of the others, keeping relative order.
func PinnedFirst(notes []Note) {
	slices.SortStableFunc(notes, func(a, b Note) int {
		switch {
		case a.Pinned == b.Pinned:
			return 0
		case a.Pinned:
			return -1
		default:
			return 1
		}
	})
}
