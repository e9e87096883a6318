package filter

import (
	"sort"
	"strings"

	"plexrr/internal/media"
)

// SortKey selects the comparator applied to the filtered set.
type SortKey string

const (
	// SortByTitle orders case-insensitively by title.
	SortByTitle SortKey = "title"
	// SortByDate orders by last activity, most recent first, with a
	// title tie-break.
	SortByDate SortKey = "date"
)

// ParseSortKey validates a CLI sort flag value.
func ParseSortKey(value string) (SortKey, bool) {
	switch SortKey(value) {
	case SortByTitle, "":
		return SortByTitle, true
	case SortByDate:
		return SortByDate, true
	default:
		return SortByTitle, false
	}
}

// Sort orders entities in place. The sort is stable: entities with
// equal keys keep their relative input order.
func Sort(entities []media.Entity, key SortKey) {
	switch key {
	case SortByDate:
		sort.SliceStable(entities, func(i, j int) bool {
			left, right := entities[i], entities[j]
			if !left.LastActivityAt.Equal(right.LastActivityAt) {
				return left.LastActivityAt.After(right.LastActivityAt)
			}
			return lessTitle(left, right)
		})
	default:
		sort.SliceStable(entities, func(i, j int) bool {
			return lessTitle(entities[i], entities[j])
		})
	}
}

func lessTitle(left, right media.Entity) bool {
	return strings.ToLower(left.Title) < strings.ToLower(right.Title)
}
