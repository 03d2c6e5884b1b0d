package core

import (
	"context"
	"fmt"

	"dwellacore/pkg/domain"
)

// NewMaintenanceTransitionRule blocks backwards movement through the
// maintenance workflow. Requests move new -> in_progress -> resolved, and a
// resolved request carries its resolution timestamp.
func NewMaintenanceTransitionRule() domain.Rule {
	return maintenanceTransitionRule{}
}

type maintenanceTransitionRule struct{}

var maintenanceRank = map[domain.MaintenanceStatus]int{
	domain.MaintenanceStatusNew:        0,
	domain.MaintenanceStatusInProgress: 1,
	domain.MaintenanceStatusResolved:   2,
}

func (maintenanceTransitionRule) Name() string { return "maintenance_transition" }

func (maintenanceTransitionRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	for _, change := range changes {
		if change.Entity != domain.EntityMaintenance || change.After == nil {
			continue
		}
		after, ok := change.After.(domain.MaintenanceRequest)
		if !ok {
			continue
		}
		afterRank, known := maintenanceRank[after.Status]
		if !known {
			res.Violations = append(res.Violations, maintenanceViolation(after.ID,
				fmt.Sprintf("maintenance request %s has unknown status %s", after.ID, after.Status)))
			continue
		}
		if change.Action == domain.ActionUpdate && change.Before != nil {
			if before, ok := change.Before.(domain.MaintenanceRequest); ok {
				if beforeRank, known := maintenanceRank[before.Status]; known && afterRank < beforeRank {
					res.Violations = append(res.Violations, maintenanceViolation(after.ID,
						fmt.Sprintf("maintenance request %s cannot move from %s back to %s", after.ID, before.Status, after.Status)))
				}
			}
		}
		if after.Status == domain.MaintenanceStatusResolved && after.ResolvedDate == nil {
			res.Violations = append(res.Violations, maintenanceViolation(after.ID,
				fmt.Sprintf("maintenance request %s is resolved without a resolution date", after.ID)))
		}
	}

	return res, nil
}

func maintenanceViolation(entityID, message string) domain.Violation {
	return domain.Violation{
		Rule:     "maintenance_transition",
		Severity: domain.SeverityBlock,
		Message:  message,
		Entity:   domain.EntityMaintenance,
		EntityID: entityID,
	}
}
