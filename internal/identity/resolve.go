package identity

import (
	"fmt"

	"plexrr/internal/media"
)

// Key is the canonical join key for one title. Year is zero when the
// title matched on name alone.
type Key struct {
	Title string
	Year  int
}

func (k Key) String() string {
	if k.Year == 0 {
		return k.Title
	}
	return fmt.Sprintf("%s (%d)", k.Title, k.Year)
}

// Dropped describes a record that could not participate in identity
// resolution. Dropped records never abort a run.
type Dropped struct {
	Source     media.SourceKind
	ExternalID string
	Reason     string
}

// Resolution is the output of a single resolve pass: every usable
// record grouped under exactly one canonical key.
type Resolution struct {
	Groups  map[Key][]media.RawRecord
	Dropped []Dropped

	// cohortYears remembers, per normalized title, the single year to
	// adopt for year-less lookups. Zero when the cohort is ambiguous.
	cohortYears map[string]int
}

// Resolve groups records by canonical identity. Each record receives
// exactly one key, which makes grouping symmetric and transitive by
// construction, and resolving the same input twice yields identical
// groupings.
//
// Year policy: records whose normalized titles match but whose years
// differ are distinct entities. A record without a year adopts the
// cohort's year when every dated record under that title agrees on a
// single year; otherwise it keys on title alone.
func Resolve(records []media.RawRecord) Resolution {
	res := Resolution{
		Groups:      make(map[Key][]media.RawRecord),
		cohortYears: make(map[string]int),
	}

	type normalized struct {
		record media.RawRecord
		title  string
	}

	usable := make([]normalized, 0, len(records))
	seenYears := make(map[string]map[int]struct{})
	for _, record := range records {
		title := NormalizeTitle(record.Title)
		if title == "" {
			res.Dropped = append(res.Dropped, Dropped{
				Source:     record.Source,
				ExternalID: record.ExternalID,
				Reason:     "missing title",
			})
			continue
		}
		usable = append(usable, normalized{record: record, title: title})
		if record.Year > 0 {
			years, ok := seenYears[title]
			if !ok {
				years = make(map[int]struct{})
				seenYears[title] = years
			}
			years[record.Year] = struct{}{}
		}
	}

	for title, years := range seenYears {
		if len(years) == 1 {
			for year := range years {
				res.cohortYears[title] = year
			}
		}
	}

	for _, item := range usable {
		key := res.keyFor(item.title, item.record.Year)
		res.Groups[key] = append(res.Groups[key], item.record)
	}
	return res
}

// KeyFor computes the canonical key a watchlist entry (or any external
// title reference) would resolve to within this pass.
func (r Resolution) KeyFor(title string, year int) Key {
	return r.keyFor(NormalizeTitle(title), year)
}

// MatchKey finds the resolved group an external title reference belongs
// to, honoring the loose year policy: a year-less reference matches a
// dated group and vice versa, while two conflicting years never match.
func (r Resolution) MatchKey(title string, year int) (Key, bool) {
	normalized := NormalizeTitle(title)
	if normalized == "" {
		return Key{}, false
	}
	if key := r.keyFor(normalized, year); len(r.Groups[key]) > 0 {
		return key, true
	}
	// A dated reference can still match a title-only group.
	if year > 0 {
		if key := (Key{Title: normalized}); len(r.Groups[key]) > 0 {
			return key, true
		}
	}
	return Key{}, false
}

func (r Resolution) keyFor(normalizedTitle string, year int) Key {
	if year > 0 {
		return Key{Title: normalizedTitle, Year: year}
	}
	return Key{Title: normalizedTitle, Year: r.cohortYears[normalizedTitle]}
}
