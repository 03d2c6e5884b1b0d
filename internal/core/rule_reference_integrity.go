package core

import (
	"context"
	"fmt"

	"dwellacore/pkg/domain"
)

// NewReferenceIntegrityRule blocks commits that would leave a record pointing
// at a property, unit, or tenant that does not exist.
func NewReferenceIntegrityRule() domain.Rule {
	return referenceIntegrityRule{}
}

type referenceIntegrityRule struct{}

func (referenceIntegrityRule) Name() string { return "reference_integrity" }

func (referenceIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	for _, unit := range view.ListUnits() {
		if _, ok := view.FindProperty(unit.PropertyID); !ok {
			res.Violations = append(res.Violations, referenceViolation(domain.EntityUnit, unit.ID,
				fmt.Sprintf("unit %s references missing property %s", unit.ID, unit.PropertyID)))
		}
	}

	for _, tenant := range view.ListTenants() {
		unit, ok := view.FindUnit(tenant.UnitID)
		if !ok {
			res.Violations = append(res.Violations, referenceViolation(domain.EntityTenant, tenant.ID,
				fmt.Sprintf("tenant %s references missing unit %s", tenant.ID, tenant.UnitID)))
			continue
		}
		if tenant.PropertyID != unit.PropertyID {
			res.Violations = append(res.Violations, referenceViolation(domain.EntityTenant, tenant.ID,
				fmt.Sprintf("tenant %s property %s does not match unit %s property %s", tenant.ID, tenant.PropertyID, unit.ID, unit.PropertyID)))
		}
	}

	for _, payment := range view.ListPayments() {
		if _, ok := view.FindProperty(payment.PropertyID); !ok {
			res.Violations = append(res.Violations, referenceViolation(domain.EntityPayment, payment.ID,
				fmt.Sprintf("payment %s references missing property %s", payment.ID, payment.PropertyID)))
		}
		if payment.UnitID != "" {
			if _, ok := view.FindUnit(payment.UnitID); !ok {
				res.Violations = append(res.Violations, referenceViolation(domain.EntityPayment, payment.ID,
					fmt.Sprintf("payment %s references missing unit %s", payment.ID, payment.UnitID)))
			}
		}
	}

	for _, request := range view.ListMaintenanceRequests() {
		if _, ok := view.FindProperty(request.PropertyID); !ok {
			res.Violations = append(res.Violations, referenceViolation(domain.EntityMaintenance, request.ID,
				fmt.Sprintf("maintenance request %s references missing property %s", request.ID, request.PropertyID)))
		}
		if request.UnitID != "" {
			if _, ok := view.FindUnit(request.UnitID); !ok {
				res.Violations = append(res.Violations, referenceViolation(domain.EntityMaintenance, request.ID,
					fmt.Sprintf("maintenance request %s references missing unit %s", request.ID, request.UnitID)))
			}
		}
	}

	for _, doc := range view.ListDocuments() {
		if _, ok := view.FindProperty(doc.PropertyID); !ok {
			res.Violations = append(res.Violations, referenceViolation(domain.EntityDocument, doc.ID,
				fmt.Sprintf("document %s references missing property %s", doc.ID, doc.PropertyID)))
		}
		if doc.TenantID != nil {
			if _, ok := view.FindTenant(*doc.TenantID); !ok {
				res.Violations = append(res.Violations, referenceViolation(domain.EntityDocument, doc.ID,
					fmt.Sprintf("document %s references missing tenant %s", doc.ID, *doc.TenantID)))
			}
		}
	}

	return res, nil
}

func referenceViolation(entity domain.EntityType, entityID, message string) domain.Violation {
	return domain.Violation{
		Rule:     "reference_integrity",
		Severity: domain.SeverityBlock,
		Message:  message,
		Entity:   entity,
		EntityID: entityID,
	}
}
