// Package blob re-exports the attachment storage abstractions and the
// constructors for the available backends.
package blob

import (
	"path"

	"dwellacore/internal/blob/core"
)

type (
	// Driver identifies an attachment backend driver.
	Driver = core.Driver
	// PutOptions configures an attachment write.
	PutOptions = core.PutOptions
	// SignedURLOptions configures URL pre-signing.
	SignedURLOptions = core.SignedURLOptions
	// Info describes stored attachment metadata.
	Info = core.Info
	// Store is the interface for attachment storage backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

var (
	// ErrUnsupported indicates an operation isn't supported by a driver.
	ErrUnsupported = core.ErrUnsupported
	// ErrExists indicates a create-only write hit an existing key.
	ErrExists = core.ErrExists
	// ErrNotFound indicates no attachment is stored under the key.
	ErrNotFound = core.ErrNotFound
)

// DocumentKey builds the canonical attachment key for a document, grouping
// objects by the property they belong to.
func DocumentKey(propertyID, documentID, filename string) string {
	return path.Join("documents", propertyID, documentID, filename)
}
