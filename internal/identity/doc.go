// Package identity computes the join key that lines up the same title
// across Plex, Radarr, and Sonarr catalogs.
//
// Matching is exact normalized-string equality only: titles are case
// folded, stripped of diacritics and punctuation, leading articles are
// removed, and whitespace is collapsed. Release year participates when
// both records carry one, keeping sequels and remakes apart; a record
// without a year falls back to a looser title-only match. There is no
// fuzzy or edit-distance matching.
package identity
