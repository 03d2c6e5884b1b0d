package domain

import "fmt"

// DanglingReferenceError reports a foreign key pointing at a record that does
// not exist in the snapshot. It indicates the upstream snapshot is corrupt;
// callers must propagate it rather than computing a view from broken data.
type DanglingReferenceError struct {
	Entity   EntityType
	EntityID string
	Field    string
	Target   EntityType
	TargetID string
}

func (e DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s %s: field %s references missing %s %s", e.Entity, e.EntityID, e.Field, e.Target, e.TargetID)
}

// NoLandlordSelectedError is returned when a manager requests a scoped view
// before selecting a landlord portfolio. It is expected control flow: the UI
// catches it and routes to the landlord-selection step.
type NoLandlordSelectedError struct {
	ManagerID string
}

func (e NoLandlordSelectedError) Error() string {
	return fmt.Sprintf("manager %s has no landlord selected", e.ManagerID)
}

// InvalidPageRequestError reports a page request with a non-positive index or
// size. This is a caller bug, not bad data.
type InvalidPageRequestError struct {
	Index int
	Size  int
}

func (e InvalidPageRequestError) Error() string {
	return fmt.Sprintf("invalid page request: index=%d size=%d (both must be >= 1)", e.Index, e.Size)
}

// StaleMutationError is returned by strict-mode mark-read when the apiId was
// never received locally. Default mode ignores unknown ids silently, since
// the remote source of truth may already have pruned them.
type StaleMutationError struct {
	APIID string
}

func (e StaleMutationError) Error() string {
	return fmt.Sprintf("notification %s not known locally", e.APIID)
}
