package core

import (
	"context"
	"fmt"

	"dwellacore/pkg/domain"
)

// NewManagerScopeRule blocks manager assignments that reach outside the
// inviting landlord's portfolio.
func NewManagerScopeRule() domain.Rule {
	return managerScopeRule{}
}

type managerScopeRule struct{}

func (managerScopeRule) Name() string { return "manager_scope" }

func (managerScopeRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	for _, manager := range view.ListManagers() {
		for _, propertyID := range manager.AssignedPropertyIDs {
			property, ok := view.FindProperty(propertyID)
			if !ok {
				res.Violations = append(res.Violations, managerScopeViolation(manager.ID,
					fmt.Sprintf("manager %s is assigned missing property %s", manager.ID, propertyID)))
				continue
			}
			if property.LandlordID != manager.LandlordID {
				res.Violations = append(res.Violations, managerScopeViolation(manager.ID,
					fmt.Sprintf("manager %s is assigned property %s owned by a different landlord", manager.ID, propertyID)))
			}
		}
	}

	return res, nil
}

func managerScopeViolation(managerID, message string) domain.Violation {
	return domain.Violation{
		Rule:     "manager_scope",
		Severity: domain.SeverityBlock,
		Message:  message,
		Entity:   domain.EntityManager,
		EntityID: managerID,
	}
}
