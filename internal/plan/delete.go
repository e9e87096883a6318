package plan

import (
	"fmt"

	"plexrr/internal/media"
)

// Delete plans removal of manager-side records (and their files) for
// the filtered entities. Entities with no manager record are reported
// as skipped, never touched: there is nothing to delete from.
func Delete(entities []media.Entity, deleteFiles bool) Plan {
	var p Plan
	for _, entity := range entities {
		managerID := entity.ManagerID()
		if managerID == "" {
			p.Skipped = append(p.Skipped, Skipped{
				Title:  entity.Title,
				Reason: fmt.Sprintf("no %s record", entity.ManagerSource()),
			})
			continue
		}
		p.Actions = append(p.Actions, Action{
			Kind:        KindDeleteRecord,
			Source:      entity.ManagerSource(),
			TargetID:    managerID,
			Title:       entity.Title,
			DeleteFiles: deleteFiles,
			Description: fmt.Sprintf("delete %q from %s", entity.Title, entity.ManagerSource()),
		})
	}
	return p
}
