package core

import (
	"context"
	"fmt"

	"dwellacore/pkg/domain"
)

// NewTenancyLinkRule blocks commits where the unit/tenant relationship is
// linked from only one side. An occupied unit must name a tenant whose UnitID
// points back, and a tenant with active tenancy must be named by its unit.
func NewTenancyLinkRule() domain.Rule {
	return tenancyLinkRule{}
}

type tenancyLinkRule struct{}

func (tenancyLinkRule) Name() string { return "tenancy_link" }

func (tenancyLinkRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	for _, unit := range view.ListUnits() {
		if unit.TenantID == nil {
			if unit.Status == domain.UnitStatusOccupied {
				res.Violations = append(res.Violations, tenancyViolation(domain.EntityUnit, unit.ID,
					fmt.Sprintf("unit %s is occupied but has no tenant", unit.ID)))
			}
			continue
		}
		tenant, ok := view.FindTenant(*unit.TenantID)
		if !ok {
			res.Violations = append(res.Violations, tenancyViolation(domain.EntityUnit, unit.ID,
				fmt.Sprintf("unit %s references missing tenant %s", unit.ID, *unit.TenantID)))
			continue
		}
		if tenant.UnitID != unit.ID {
			res.Violations = append(res.Violations, tenancyViolation(domain.EntityUnit, unit.ID,
				fmt.Sprintf("unit %s names tenant %s but that tenant lives in unit %s", unit.ID, tenant.ID, tenant.UnitID)))
		}
	}

	for _, tenant := range view.ListTenants() {
		if tenant.Status != domain.TenancyStatusOccupied {
			continue
		}
		unit, ok := view.FindUnit(tenant.UnitID)
		if !ok {
			continue // reference_integrity reports the missing unit
		}
		if unit.TenantID == nil || *unit.TenantID != tenant.ID {
			res.Violations = append(res.Violations, tenancyViolation(domain.EntityTenant, tenant.ID,
				fmt.Sprintf("tenant %s occupies unit %s but the unit does not name them", tenant.ID, unit.ID)))
		}
	}

	return res, nil
}

func tenancyViolation(entity domain.EntityType, entityID, message string) domain.Violation {
	return domain.Violation{
		Rule:     "tenancy_link",
		Severity: domain.SeverityBlock,
		Message:  message,
		Entity:   entity,
		EntityID: entityID,
	}
}
