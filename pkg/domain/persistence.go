package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope. There are no delete operations:
// properties, units, tenants, and managers deactivate via status flags, and
// payment and maintenance records are append-only logs.
type Transaction interface {
	Snapshot() TransactionView
	CreateProperty(Property) (Property, error)
	UpdateProperty(id string, mutator func(*Property) error) (Property, error)
	CreateUnit(Unit) (Unit, error)
	UpdateUnit(id string, mutator func(*Unit) error) (Unit, error)
	CreateTenant(Tenant) (Tenant, error)
	UpdateTenant(id string, mutator func(*Tenant) error) (Tenant, error)
	CreateManager(Manager) (Manager, error)
	UpdateManager(id string, mutator func(*Manager) error) (Manager, error)
	CreatePayment(PaymentRecord) (PaymentRecord, error)
	CreateMaintenanceRequest(MaintenanceRequest) (MaintenanceRequest, error)
	UpdateMaintenanceRequest(id string, mutator func(*MaintenanceRequest) error) (MaintenanceRequest, error)
	CreateDocument(Document) (Document, error)
	CreateConversation(Conversation) (Conversation, error)
	UpdateConversation(id string, mutator func(*Conversation) error) (Conversation, error)
	CreateNotification(Notification) (Notification, error)
	UpdateNotification(id string, mutator func(*Notification) error) (Notification, error)
}

// TransactionView provides read-only access to snapshot data.
type TransactionView interface {
	RuleView
}

// PersistentStore is a minimal abstraction over storage backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetProperty(id string) (Property, bool)
	ListProperties() []Property
	GetUnit(id string) (Unit, bool)
	ListUnits() []Unit
	GetTenant(id string) (Tenant, bool)
	ListTenants() []Tenant
	GetManager(id string) (Manager, bool)
	ListManagers() []Manager
	ListPayments() []PaymentRecord
	ListMaintenanceRequests() []MaintenanceRequest
	ListDocuments() []Document
	ListConversations() []Conversation
	ListNotifications() []Notification
}
