// Package filter applies the predicate conjunction and sort order to a
// reconciled entity set. Every predicate is optional; an absent filter
// means no constraint. Sorting is stable so identical inputs always
// render identically.
package filter
