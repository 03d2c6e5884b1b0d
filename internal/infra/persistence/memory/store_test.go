package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"dwellacore/pkg/domain"
)

func fixedClock(t *testing.T, store *Store) time.Time {
	t.Helper()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return at })
	return at
}

func seedPortfolio(t *testing.T, store *Store) (domain.Property, domain.Unit) {
	t.Helper()
	var property domain.Property
	var unit domain.Unit
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		var err error
		property, err = tx.CreateProperty(domain.Property{LandlordID: "l1", Name: "Harbor View", Address: "12 Quay"})
		if err != nil {
			return err
		}
		unit, err = tx.CreateUnit(domain.Unit{PropertyID: property.ID, UnitLabel: "A1", MonthlyRent: 120_000})
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return property, unit
}

func TestCreateDefaultsAndTimestamps(t *testing.T) {
	store := NewStore(nil)
	at := fixedClock(t, store)
	property, unit := seedPortfolio(t, store)

	if property.Status != domain.PropertyStatusActive {
		t.Fatalf("property default status: %s", property.Status)
	}
	if !property.CreatedAt.Equal(at) || !property.UpdatedAt.Equal(at) {
		t.Fatalf("timestamps not from clock: %+v", property.Base)
	}
	if unit.Status != domain.UnitStatusVacant || unit.RentStatus != domain.RentStatusPaid {
		t.Fatalf("unit defaults: %+v", unit)
	}
}

func TestUnitLabelUniquePerProperty(t *testing.T) {
	store := NewStore(nil)
	property, _ := seedPortfolio(t, store)

	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateUnit(domain.Unit{PropertyID: property.ID, UnitLabel: "A1"})
		return err
	})
	if err == nil {
		t.Fatalf("duplicate label in same property must fail")
	}

	// The same label under another property is fine.
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		other, err := tx.CreateProperty(domain.Property{LandlordID: "l1", Name: "Second", Address: "2 Way"})
		if err != nil {
			return err
		}
		_, err = tx.CreateUnit(domain.Unit{PropertyID: other.ID, UnitLabel: "A1"})
		return err
	})
	if err != nil {
		t.Fatalf("same label in other property: %v", err)
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	store := NewStore(nil)
	boom := errors.New("boom")
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateProperty(domain.Property{LandlordID: "l1", Name: "P", Address: "1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected staged error, got %v", err)
	}
	if got := len(store.ListProperties()); got != 0 {
		t.Fatalf("failed transaction leaked %d properties", got)
	}
}

type blockAllRule struct{}

func (blockAllRule) Name() string { return "block_all" }
func (blockAllRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	if len(changes) == 0 {
		return domain.Result{}, nil
	}
	return domain.Result{Violations: []domain.Violation{{Rule: "block_all", Severity: domain.SeverityBlock, Message: "blocked"}}}, nil
}

func TestBlockingViolationAbortsCommit(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(blockAllRule{})
	store := NewStore(engine)

	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateProperty(domain.Property{LandlordID: "l1", Name: "P", Address: "1"})
		return err
	})
	var violation domain.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected RuleViolationError, got %v", err)
	}
	if len(store.ListProperties()) != 0 {
		t.Fatalf("blocked transaction must not commit")
	}
}

func TestListOrderIsStableByCreation(t *testing.T) {
	store := NewStore(nil)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	step := 0
	store.SetNowFunc(func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	})

	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("P%d", i)
		if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
			_, err := tx.CreateProperty(domain.Property{LandlordID: "l1", Name: name, Address: name})
			return err
		}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	properties := store.ListProperties()
	if len(properties) != 3 {
		t.Fatalf("expected 3 properties")
	}
	for i := 1; i < len(properties); i++ {
		if properties[i].CreatedAt.Before(properties[i-1].CreatedAt) {
			t.Fatalf("listing not ordered by creation: %+v", properties)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := NewStore(nil)
	property, unit := seedPortfolio(t, store)

	snapshot := store.ExportState()
	restored := NewStore(nil)
	restored.ImportState(snapshot)

	if got, ok := restored.GetProperty(property.ID); !ok || got.Name != property.Name {
		t.Fatalf("property lost in round trip: %+v", got)
	}
	if got, ok := restored.GetUnit(unit.ID); !ok || got.UnitLabel != unit.UnitLabel {
		t.Fatalf("unit lost in round trip: %+v", got)
	}
}

func TestImportPrunesDanglingReferences(t *testing.T) {
	tenantID := "t-ghost"
	snapshot := Snapshot{
		Properties: map[string]domain.Property{"p1": {Base: domain.Base{ID: "p1"}, LandlordID: "l1", Name: "P1"}},
		Units: map[string]domain.Unit{
			"u1": {Base: domain.Base{ID: "u1"}, PropertyID: "p1", UnitLabel: "A", Status: domain.UnitStatusOccupied, TenantID: &tenantID},
			"u2": {Base: domain.Base{ID: "u2"}, PropertyID: "p-missing", UnitLabel: "B"},
		},
		Tenants:  map[string]domain.Tenant{"t1": {Base: domain.Base{ID: "t1"}, PropertyID: "p1", UnitID: "u-missing", Name: "T"}},
		Managers: map[string]domain.Manager{"m1": {Base: domain.Base{ID: "m1"}, LandlordID: "l1", AssignedPropertyIDs: []string{"p1", "p-missing"}}},
	}

	store := NewStore(nil)
	store.ImportState(snapshot)

	if _, ok := store.GetUnit("u2"); ok {
		t.Fatalf("unit without property must be pruned")
	}
	unit, ok := store.GetUnit("u1")
	if !ok {
		t.Fatalf("valid unit pruned")
	}
	if unit.TenantID != nil || unit.Status != domain.UnitStatusVacant {
		t.Fatalf("dangling tenant reference not cleared: %+v", unit)
	}
	if _, ok := store.GetTenant("t1"); ok {
		t.Fatalf("tenant without unit must be pruned")
	}
	manager, _ := store.GetManager("m1")
	if len(manager.AssignedPropertyIDs) != 1 || manager.AssignedPropertyIDs[0] != "p1" {
		t.Fatalf("manager assignments not filtered: %+v", manager.AssignedPropertyIDs)
	}
}

func TestReturnedRecordsAreIsolatedCopies(t *testing.T) {
	store := NewStore(nil)
	property, _ := seedPortfolio(t, store)

	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.UpdateProperty(property.ID, func(p *domain.Property) error {
			p.Amenities = []string{"parking"}
			return nil
		})
		return err
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := store.GetProperty(property.ID)
	got.Amenities[0] = "mutated"
	again, _ := store.GetProperty(property.ID)
	if again.Amenities[0] != "parking" {
		t.Fatalf("store state mutated through returned copy")
	}
}

func TestViewSeesCommittedStateOnly(t *testing.T) {
	store := NewStore(nil)
	seedPortfolio(t, store)

	staged := errors.New("abort")
	_, _ = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateProperty(domain.Property{LandlordID: "l1", Name: "Staged", Address: "X"}); err != nil {
			return err
		}
		return staged
	})

	err := store.View(context.Background(), func(view domain.TransactionView) error {
		if len(view.ListProperties()) != 1 {
			t.Fatalf("view leaked uncommitted state")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}
