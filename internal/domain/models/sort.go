package models

import (
	"fmt"
	"strings"
)

// SortOption is the combined sort selector for folder listings, in the
// "<field>-<order>" form the listing endpoint splits into sortBy/sortOrder.
type SortOption string

// Recognized sort selectors.
const (
	SortNameAsc  SortOption = "name-asc"
	SortNameDesc SortOption = "name-desc"
	SortDateAsc  SortOption = "date-asc"
	SortDateDesc SortOption = "date-desc"
)

// DefaultSort is the sort applied when none has been chosen.
const DefaultSort = SortNameAsc

// ParseSortOption validates a selector string.
func ParseSortOption(s string) (SortOption, error) {
	switch opt := SortOption(s); opt {
	case SortNameAsc, SortNameDesc, SortDateAsc, SortDateDesc:
		return opt, nil
	default:
		return "", fmt.Errorf("unknown sort option %q", s)
	}
}

// Split returns the sortBy and sortOrder query values for the selector.
// Unrecognized selectors fall back to the default.
func (s SortOption) Split() (sortBy, sortOrder string) {
	field, order, ok := strings.Cut(string(s), "-")
	if !ok || field == "" || order == "" {
		field, order, _ = strings.Cut(string(DefaultSort), "-")
	}
	return field, order
}
