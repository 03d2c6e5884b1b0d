package dashboard

import (
	"errors"
	"testing"

	"dwellacore/pkg/domain"
)

func scopeFixture() EntityStore {
	tenantID := "t1"
	u1 := fixtureUnit("u1", "p1", domain.UnitStatusOccupied)
	u1.TenantID = &tenantID
	u1.MonthlyRent = 500_000

	tenant := domain.Tenant{
		Base:       domain.Base{ID: tenantID, CreatedAt: fixtureEpoch, UpdatedAt: fixtureEpoch},
		PropertyID: "p1",
		UnitID:     "u1",
		Name:       "Ada",
		Status:     domain.TenancyStatusOccupied,
	}
	manager := domain.Manager{
		Base:                domain.Base{ID: "m1", CreatedAt: fixtureEpoch, UpdatedAt: fixtureEpoch},
		LandlordID:          "l1",
		Status:              domain.ManagerStatusActive,
		AssignedPropertyIDs: []string{"p1"},
	}
	docTenant := tenantID
	return EntityStore{
		Properties: []domain.Property{
			fixtureProperty("p1", "l1", "Acacia Court", 500_000),
			fixtureProperty("p2", "l1", "Baobab Villas", 400_000),
			fixtureProperty("p3", "l2", "Cedar Heights", 300_000),
		},
		Units: []domain.Unit{
			u1,
			fixtureUnit("u2", "p2", domain.UnitStatusVacant),
			fixtureUnit("u3", "p3", domain.UnitStatusOccupied),
		},
		Tenants:  []domain.Tenant{tenant},
		Managers: []domain.Manager{manager},
		Payments: []domain.PaymentRecord{
			fixturePayment("pay1", "p1", "t1", 100, fixtureEpoch, domain.PaymentStatusSuccess),
			fixturePayment("pay2", "p3", "t9", 200, fixtureEpoch, domain.PaymentStatusSuccess),
		},
		MaintenanceRequests: []domain.MaintenanceRequest{
			fixtureRequest("mr1", "p1", "u1", domain.MaintenanceStatusNew),
			fixtureRequest("mr2", "p3", "u3", domain.MaintenanceStatusNew),
		},
		Documents: []domain.Document{
			{Base: domain.Base{ID: "d1"}, PropertyID: "p1", TenantID: &docTenant, Title: "lease", Category: domain.DocumentLease},
			{Base: domain.Base{ID: "d2"}, PropertyID: "p3", Title: "inspection", Category: domain.DocumentInspection},
		},
		Conversations: []domain.Conversation{
			{Base: domain.Base{ID: "c1"}, OwnerID: "l1", CounterpartID: "t1", CounterpartRole: domain.RoleTenant},
			{Base: domain.Base{ID: "c2"}, OwnerID: "l2", CounterpartID: "t9", CounterpartRole: domain.RoleTenant},
		},
		Notifications: []domain.Notification{fixtureNotification("n1", false)},
	}
}

func TestScopeLandlordSeesOwnPortfolio(t *testing.T) {
	store := scopeFixture()
	scoped, err := Scope(store, domain.ActingContext{Role: domain.RoleLandlord, UserID: "l1"})
	if err != nil {
		t.Fatalf("scope landlord: %v", err)
	}
	if len(scoped.Properties) != 2 {
		t.Fatalf("expected 2 properties for l1, got %d", len(scoped.Properties))
	}
	for _, p := range scoped.Properties {
		if p.LandlordID != "l1" {
			t.Fatalf("foreign property leaked: %+v", p)
		}
	}
	if len(scoped.Units) != 2 || len(scoped.Payments) != 1 || len(scoped.MaintenanceRequests) != 1 {
		t.Fatalf("scoping leaked rows: units=%d payments=%d requests=%d",
			len(scoped.Units), len(scoped.Payments), len(scoped.MaintenanceRequests))
	}
	if len(scoped.Conversations) != 1 || scoped.Conversations[0].ID != "c1" {
		t.Fatalf("unexpected conversations: %+v", scoped.Conversations)
	}
}

func TestScopeManagerRequiresSelectedLandlord(t *testing.T) {
	store := scopeFixture()
	_, err := Scope(store, domain.ActingContext{Role: domain.RoleManager, UserID: "m1"})
	var noLandlord domain.NoLandlordSelectedError
	if !errors.As(err, &noLandlord) {
		t.Fatalf("expected NoLandlordSelectedError, got %v", err)
	}
	if noLandlord.ManagerID != "m1" {
		t.Fatalf("error must name the manager, got %+v", noLandlord)
	}
}

func TestScopeManagerIsolation(t *testing.T) {
	store := scopeFixture()
	scoped, err := Scope(store, domain.ActingContext{
		Role: domain.RoleManager, UserID: "m1", SelectedLandlordID: "l1",
	})
	if err != nil {
		t.Fatalf("scope manager: %v", err)
	}
	// m1 is assigned only p1, so p2 (same landlord) and p3 (l2) are out.
	if len(scoped.Properties) != 1 || scoped.Properties[0].ID != "p1" {
		t.Fatalf("expected only p1, got %+v", scoped.Properties)
	}
	for _, p := range scoped.Properties {
		if p.LandlordID == "l2" {
			t.Fatalf("l2 property visible to manager scoped to l1: %+v", p)
		}
	}
}

func TestScopeUnknownManagerSeesWholePortfolio(t *testing.T) {
	store := scopeFixture()
	scoped, err := Scope(store, domain.ActingContext{
		Role: domain.RoleManager, UserID: "m-unlisted", SelectedLandlordID: "l1",
	})
	if err != nil {
		t.Fatalf("scope manager: %v", err)
	}
	if len(scoped.Properties) != 2 {
		t.Fatalf("manager without assignment record falls back to portfolio, got %d", len(scoped.Properties))
	}
}

func TestScopeTenantRedaction(t *testing.T) {
	store := scopeFixture()
	scoped, err := Scope(store, domain.ActingContext{Role: domain.RoleTenant, UserID: "t1"})
	if err != nil {
		t.Fatalf("scope tenant: %v", err)
	}
	if len(scoped.Units) != 1 || scoped.Units[0].ID != "u1" {
		t.Fatalf("tenant must see only own unit, got %+v", scoped.Units)
	}
	if len(scoped.Properties) != 1 {
		t.Fatalf("expected 1 redacted property, got %d", len(scoped.Properties))
	}
	p := scoped.Properties[0]
	if p.Name == "" || p.Address == "" {
		t.Fatalf("redaction removed allowed fields: %+v", p)
	}
	if p.LandlordID != "" || p.MonthlyRent != 0 || !p.NextDueDate.IsZero() {
		t.Fatalf("redaction leaked landlord fields: %+v", p)
	}
	if len(scoped.Tenants) != 1 || scoped.Tenants[0].ID != "t1" {
		t.Fatalf("tenant must not see other tenants, got %+v", scoped.Tenants)
	}
	if len(scoped.Payments) != 1 || scoped.Payments[0].TenantID != "t1" {
		t.Fatalf("unexpected payments: %+v", scoped.Payments)
	}
	if len(scoped.Documents) != 1 || scoped.Documents[0].ID != "d1" {
		t.Fatalf("unexpected documents: %+v", scoped.Documents)
	}
}

func TestScopeTenantDanglingUnit(t *testing.T) {
	store := scopeFixture()
	store.Tenants[0].UnitID = "u-missing"
	_, err := Scope(store, domain.ActingContext{Role: domain.RoleTenant, UserID: "t1"})
	var dangling domain.DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("expected DanglingReferenceError, got %v", err)
	}
}

func TestScopeIsPure(t *testing.T) {
	store := scopeFixture()
	actx := domain.ActingContext{Role: domain.RoleManager, UserID: "m1", SelectedLandlordID: "l1"}
	first, err := Scope(store, actx)
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	second, err := Scope(store, actx)
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	if len(first.Properties) != len(second.Properties) || first.Properties[0].ID != second.Properties[0].ID {
		t.Fatalf("repeated scoping diverged: %+v vs %+v", first.Properties, second.Properties)
	}
	if len(store.Properties) != 3 {
		t.Fatalf("scope mutated its input")
	}
}
