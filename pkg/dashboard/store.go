package dashboard

import "dwellacore/pkg/domain"

// EntityStore bundles one immutable snapshot of every entity collection the
// dashboard renders from. Slice order is the snapshot provider's insertion
// order; the query pipeline preserves it for unsorted views and for ties
// under stable sorts.
//
// Consumers treat the store as copy-on-read: no function in this package
// mutates a store in place, and scoping produces a new narrowed value.
type EntityStore struct {
	Properties          []domain.Property
	Units               []domain.Unit
	Tenants             []domain.Tenant
	Managers            []domain.Manager
	Payments            []domain.PaymentRecord
	MaintenanceRequests []domain.MaintenanceRequest
	Documents           []domain.Document
	Conversations       []domain.Conversation
	Notifications       []domain.Notification
}
