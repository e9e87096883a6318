package plan

import (
	"fmt"
	"sort"

	"plexrr/internal/media"
)

// DuplicateGroup is one manager record holding multiple file versions
// of the same title.
type DuplicateGroup struct {
	Title     string
	ManagerID string
	Files     []media.FileVersion
}

// Clean plans deletion of every duplicate version except the single
// highest-ranked one. Rank is the quality ordering first, then larger
// file size as tie-break. Groups with fewer than two files produce no
// actions.
func Clean(groups []DuplicateGroup, ranking QualityRanking) Plan {
	var p Plan
	for _, group := range groups {
		if len(group.Files) < 2 {
			continue
		}
		files := make([]media.FileVersion, len(group.Files))
		copy(files, group.Files)
		sort.SliceStable(files, func(i, j int) bool {
			left, right := ranking.Rank(files[i].Quality), ranking.Rank(files[j].Quality)
			if left != right {
				return left > right
			}
			return files[i].SizeBytes > files[j].SizeBytes
		})

		keep := files[0]
		for _, file := range files[1:] {
			p.Actions = append(p.Actions, Action{
				Kind:        KindDeleteFile,
				Source:      media.SourceRadarr,
				TargetID:    file.ID,
				Title:       group.Title,
				Description: fmt.Sprintf("%s: delete %s (%s), keeping %s (%s)", group.Title, file.RelativePath, file.Quality, keep.RelativePath, keep.Quality),
			})
		}
	}
	return p
}
