package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"dwellacore/pkg/domain"
)

func TestStatePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	var property domain.Property
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		var err error
		property, err = tx.CreateProperty(domain.Property{LandlordID: "l1", Name: "Harbor View", Address: "12 Quay"})
		if err != nil {
			return err
		}
		_, err = tx.CreateUnit(domain.Unit{PropertyID: property.ID, UnitLabel: "A1"})
		return err
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if err := store.DB().Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := reopened.GetProperty(property.ID)
	if !ok || got.Name != "Harbor View" {
		t.Fatalf("property lost across reopen: %+v", got)
	}
	if len(reopened.ListUnits()) != 1 {
		t.Fatalf("units lost across reopen")
	}
}

func TestFreshDatabaseStartsEmpty(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "fresh.db"), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(store.ListProperties()) != 0 {
		t.Fatalf("fresh database must start empty")
	}
	if store.Path() == "" {
		t.Fatalf("expected configured path")
	}
}

func TestNestedDirectoryIsCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.db")
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open with nested dir: %v", err)
	}
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateProperty(domain.Property{LandlordID: "l1", Name: "P", Address: "1"})
		return err
	}); err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

func TestFailedTransactionDoesNotPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		// Missing property id forces the create to fail.
		_, err := tx.CreateUnit(domain.Unit{UnitLabel: "A1"})
		return err
	})
	if err == nil {
		t.Fatalf("expected failure")
	}
	if err := store.DB().Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if len(reopened.ListUnits()) != 0 {
		t.Fatalf("failed transaction persisted state")
	}
}
