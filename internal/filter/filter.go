package filter

import (
	"strings"
	"time"

	"plexrr/internal/media"
)

// Spec is the conjunction of optional predicates. Nil pointer fields
// and zero values impose no constraint.
type Spec struct {
	HasSize      *bool
	Availability *media.Availability
	Status       *media.WatchStatus
	Watchlist    *bool
	// MinAgeDays keeps entities whose last activity is at least this
	// many days old. Zero means no age constraint.
	MinAgeDays int
	Tag        string
	MediaType  media.Type
	// Now anchors age computation; the zero value means time.Now().
	Now time.Time
}

// Matches reports whether the entity passes every configured predicate.
func (s Spec) Matches(entity media.Entity) bool {
	if s.HasSize != nil {
		if *s.HasSize != (entity.FileSizeBytes > 0) {
			return false
		}
	}
	if s.Availability != nil && entity.Availability != *s.Availability {
		return false
	}
	if s.Status != nil && entity.WatchStatus != *s.Status {
		return false
	}
	if s.Watchlist != nil && entity.OnWatchlist != *s.Watchlist {
		return false
	}
	if s.MinAgeDays > 0 {
		now := s.Now
		if now.IsZero() {
			now = time.Now()
		}
		if entity.LastActivityAt.IsZero() {
			return false
		}
		if now.Sub(entity.LastActivityAt) < time.Duration(s.MinAgeDays)*24*time.Hour {
			return false
		}
	}
	if s.Tag != "" && !hasTag(entity, s.Tag) {
		return false
	}
	if s.MediaType != "" && entity.Type != s.MediaType {
		return false
	}
	return true
}

// Apply returns the entities passing the spec, preserving input order.
func Apply(entities []media.Entity, spec Spec) []media.Entity {
	kept := make([]media.Entity, 0, len(entities))
	for _, entity := range entities {
		if spec.Matches(entity) {
			kept = append(kept, entity)
		}
	}
	return kept
}

func hasTag(entity media.Entity, tag string) bool {
	for _, candidate := range entity.Tags {
		if strings.EqualFold(candidate, tag) {
			return true
		}
	}
	return false
}

// BoolPtr is a convenience for building Specs from CLI flag pairs.
func BoolPtr(v bool) *bool { return &v }
