package blob

import (
	memorystore "dwellacore/internal/infra/blob/memory"
)

// NewMemory returns an in-memory attachment Store suitable for tests.
func NewMemory() Store { return memorystore.New() }
