package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInternalImportForbidden(t *testing.T) {
	cases := map[string]bool{
		"dwellacore/internal/core":   true,
		"dwellacore/pkg/domain":      false,
		"example.com/internal/other": true,
		"fmt":                        false,
	}
	for path, want := range cases {
		if got := InternalImportForbidden(path); got != want {
			t.Fatalf("InternalImportForbidden(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestInfraImportForbidden(t *testing.T) {
	pred := InfraImportForbidden("dwellacore/internal/infra/blob")
	if !pred("dwellacore/internal/infra/blob") || !pred("dwellacore/internal/infra/blob/s3") {
		t.Fatalf("infra paths must match")
	}
	if pred("dwellacore/internal/blob") {
		t.Fatalf("facade path must not match")
	}
}

func TestDirectImportViolationsFindsMatches(t *testing.T) {
	dir := t.TempDir()
	src := `package fake

import (
	"fmt"
	"dwellacore/internal/core"
)

var _ = fmt.Sprint(core.ActionCreate)
`
	if err := os.WriteFile(filepath.Join(dir, "fake.go"), []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Test files are skipped by the scanner.
	if err := os.WriteFile(filepath.Join(dir, "fake_test.go"), []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	violations, err := directImportViolations(dir, InternalImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("expected one violation, got %v", violations)
	}
}

func TestDirectImportViolationsCleanDir(t *testing.T) {
	dir := t.TempDir()
	src := "package fake\n\nimport \"fmt\"\n\nvar _ = fmt.Sprint(1)\n"
	if err := os.WriteFile(filepath.Join(dir, "fake.go"), []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	violations, err := directImportViolations(dir, InternalImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
}
