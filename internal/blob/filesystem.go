package blob

import (
	"dwellacore/internal/infra/blob/fs"
)

// NewFilesystem constructs a filesystem-backed attachment Store rooted at
// the provided path. The return type is the interface so call sites never
// depend on the concrete implementation.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}
