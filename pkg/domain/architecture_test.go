package domain

import (
	"testing"

	"dwellacore/testutil"
)

// The domain layer is the dependency root of the repository and must not
// reach into implementation packages.
func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden,
		"domain must not import internal packages")
}
