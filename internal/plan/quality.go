package plan

import "strings"

// defaultQualityOrder lists common quality labels best-first, matching
// the ranking Radarr applies to its standard definitions.
var defaultQualityOrder = []string{
	"Remux-2160p",
	"Bluray-2160p",
	"WEBDL-2160p",
	"WEBRip-2160p",
	"HDTV-2160p",
	"Remux-1080p",
	"Bluray-1080p",
	"WEBDL-1080p",
	"WEBRip-1080p",
	"HDTV-1080p",
	"Bluray-720p",
	"WEBDL-720p",
	"WEBRip-720p",
	"HDTV-720p",
	"DVD",
	"WEBDL-480p",
	"SDTV",
}

// resolutionFallbacks rank bare resolution markers for labels missing
// from the ordering table.
var resolutionFallbacks = []string{"2160p", "1080p", "720p", "576p", "480p"}

// QualityRanking orders quality labels so the clean planner can pick
// the version worth keeping.
type QualityRanking struct {
	rank map[string]int
}

// NewQualityRanking builds a ranking from labels listed best-first. An
// empty list falls back to the built-in default ordering.
func NewQualityRanking(order []string) QualityRanking {
	if len(order) == 0 {
		order = defaultQualityOrder
	}
	rank := make(map[string]int, len(order))
	for i, label := range order {
		rank[strings.ToLower(label)] = len(order) - i
	}
	return QualityRanking{rank: rank}
}

// Rank scores a quality label; higher is better. Labels absent from
// the table fall back to their resolution marker, and fully unknown
// labels rank lowest.
func (q QualityRanking) Rank(label string) int {
	if score, ok := q.rank[strings.ToLower(label)]; ok {
		return score
	}
	lowered := strings.ToLower(label)
	for i, marker := range resolutionFallbacks {
		if strings.Contains(lowered, marker) {
			return -(i + 1)
		}
	}
	return -len(resolutionFallbacks) - 1
}
