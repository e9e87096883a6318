package plan

import (
	"fmt"

	"plexrr/internal/media"
)

// SyncPolicy carries the caller-supplied parameters for adding library
// titles to the acquisition manager.
type SyncPolicy struct {
	QualityProfileID int
	// RootFolder is optional; the executor falls back to the manager's
	// first configured root folder when empty.
	RootFolder string
}

// Sync plans "add to manager" operations for every entity present in
// the library but absent from its acquisition manager. Watchlist-only
// entities are left alone: there is nothing on disk to sync.
func Sync(entities []media.Entity, policy SyncPolicy) Plan {
	var p Plan
	for _, entity := range entities {
		if entity.Availability != media.AvailabilityPlex {
			continue
		}
		p.Actions = append(p.Actions, Action{
			Kind:             KindAddToManager,
			Source:           entity.ManagerSource(),
			TargetID:         entity.SourceIDs[media.SourcePlex],
			Title:            entity.Title,
			Year:             entity.Year,
			QualityProfileID: policy.QualityProfileID,
			RootFolder:       policy.RootFolder,
			Description:      fmt.Sprintf("add %q to %s", entity.Title, entity.ManagerSource()),
		})
	}
	return p
}
