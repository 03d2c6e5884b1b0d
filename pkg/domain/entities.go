// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by dwellacore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityProperty identifies a property record.
	EntityProperty EntityType = "property"
	// EntityUnit identifies a rentable unit record.
	EntityUnit EntityType = "unit"
	// EntityTenant identifies a tenant record.
	EntityTenant EntityType = "tenant"
	// EntityManager identifies a property manager record.
	EntityManager EntityType = "manager"
	// EntityPayment identifies a payment record.
	EntityPayment EntityType = "payment_record"
	// EntityMaintenance identifies a maintenance request record.
	EntityMaintenance EntityType = "maintenance_request"
	// EntityDocument identifies a document metadata record.
	EntityDocument EntityType = "document"
	// EntityConversation identifies a conversation record.
	EntityConversation EntityType = "conversation"
	// EntityNotification identifies a notification record.
	EntityNotification EntityType = "notification"
)

// Role identifies the acting user's role in a session.
type Role string

// Dashboard roles. A manager operates on behalf of a selected landlord.
const (
	RoleLandlord Role = "landlord"
	RoleManager  Role = "manager"
	RoleTenant   Role = "tenant"
)

// PropertyStatus enumerates property lifecycle states.
type PropertyStatus string

// Canonical property statuses. Deactivation is a flag; properties are never hard-deleted.
const (
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusInactive PropertyStatus = "inactive"
	PropertyStatusPending  PropertyStatus = "pending"
)

// UnitStatus enumerates unit occupancy states.
type UnitStatus string

// Canonical unit statuses used for occupancy derivation.
const (
	UnitStatusOccupied    UnitStatus = "occupied"
	UnitStatusVacant      UnitStatus = "vacant"
	UnitStatusMaintenance UnitStatus = "maintenance"
)

// RentStatus flags whether a successful payment covers the unit's current due cycle.
type RentStatus string

// Canonical rent statuses.
const (
	RentStatusPaid    RentStatus = "paid"
	RentStatusOverdue RentStatus = "overdue"
)

// TenancyStatus enumerates tenant lease states.
type TenancyStatus string

// A tenant is occupied while the lease is active, former afterwards.
const (
	TenancyStatusOccupied TenancyStatus = "occupied"
	TenancyStatusFormer   TenancyStatus = "former"
)

// ManagerStatus enumerates manager account states.
type ManagerStatus string

// Canonical manager statuses.
const (
	ManagerStatusActive   ManagerStatus = "active"
	ManagerStatusInactive ManagerStatus = "inactive"
)

// Permission enumerates capabilities a landlord grants a manager.
type Permission string

// Manager permissions.
const (
	PermissionMaintenance Permission = "maintenance"
	PermissionChat        Permission = "chat"
	PermissionPayments    Permission = "payments"
)

// PaymentStatus enumerates terminal payment outcomes.
type PaymentStatus string

// Payment records are append-only; status never changes after recording.
const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// MaintenancePriority enumerates request urgency levels.
type MaintenancePriority string

// Maintenance priorities.
const (
	PriorityLow    MaintenancePriority = "low"
	PriorityMedium MaintenancePriority = "medium"
	PriorityHigh   MaintenancePriority = "high"
)

// MaintenanceStatus enumerates the maintenance workflow states.
type MaintenanceStatus string

// Requests move new -> in_progress -> resolved and never backwards.
const (
	MaintenanceStatusNew        MaintenanceStatus = "new"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusResolved   MaintenanceStatus = "resolved"
)

// NotificationType categorizes notifications for badge grouping.
type NotificationType string

// Notification categories delivered by the external event source.
const (
	NotificationPayment     NotificationType = "payment"
	NotificationMaintenance NotificationType = "maintenance"
	NotificationMessage     NotificationType = "message"
	NotificationOverdue     NotificationType = "overdue"
	NotificationOther       NotificationType = "other"
)

// DocumentCategory groups attached documents for listing.
type DocumentCategory string

// Document categories.
const (
	DocumentLease      DocumentCategory = "lease"
	DocumentReceipt    DocumentCategory = "receipt"
	DocumentInspection DocumentCategory = "inspection"
	DocumentOther      DocumentCategory = "other"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Property represents a building in a landlord's portfolio. Unit count and
// occupancy percent are intentionally absent: both are derived from Unit
// records on every read and never stored.
type Property struct {
	Base
	LandlordID  string         `json:"landlord_id"`
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	MonthlyRent int64          `json:"monthly_rent"` // minor currency units
	NextDueDate time.Time      `json:"next_due_date"`
	Status      PropertyStatus `json:"status"`
	Amenities   []string       `json:"amenities"`
}

// Unit represents a rentable unit within a property. TenantID is set only
// while the unit is occupied, and must mirror the tenant's UnitID.
type Unit struct {
	Base
	PropertyID  string     `json:"property_id"`
	UnitLabel   string     `json:"unit_label"` // unique within the property
	Bedrooms    int        `json:"bedrooms"`
	Bathrooms   int        `json:"bathrooms"`
	SizeSqft    int        `json:"size_sqft"`
	Floor       string     `json:"floor"`
	MonthlyRent int64      `json:"monthly_rent"` // minor currency units
	CautionFee  int64      `json:"caution_fee"`  // minor currency units
	Status      UnitStatus `json:"status"`
	RentStatus  RentStatus `json:"rent_status"`
	Amenities   []string   `json:"amenities"`
	TenantID    *string    `json:"tenant_id"`
	NextDueDate time.Time  `json:"next_due_date"`
}

// Tenant represents a lease holder assigned to exactly one unit.
type Tenant struct {
	Base
	PropertyID      string        `json:"property_id"`
	UnitID          string        `json:"unit_id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	LeaseStart      time.Time     `json:"lease_start"`
	LeaseEnd        time.Time     `json:"lease_end"`
	NextPaymentDate time.Time     `json:"next_payment_date"`
	Status          TenancyStatus `json:"status"`
}

// Manager represents a property manager invited by a landlord. Assigned
// properties must be a subset of the inviting landlord's portfolio.
type Manager struct {
	Base
	LandlordID          string        `json:"landlord_id"`
	Name                string        `json:"name"`
	Email               string        `json:"email"`
	Phone               string        `json:"phone"`
	Status              ManagerStatus `json:"status"`
	AssignedPropertyIDs []string      `json:"assigned_property_ids"`
	Permissions         []Permission  `json:"permissions"`
	LastActiveAt        time.Time     `json:"last_active_at"`
}

// PaymentRecord is an append-only log entry for a rent or fee payment.
type PaymentRecord struct {
	Base
	TransactionID string        `json:"transaction_id"`
	PropertyID    string        `json:"property_id"`
	UnitID        string        `json:"unit_id"`
	TenantID      string        `json:"tenant_id"`
	Amount        int64         `json:"amount"` // minor currency units
	Date          time.Time     `json:"date"`
	Method        string        `json:"method"`
	Status        PaymentStatus `json:"status"`
}

// MaintenanceRequest is an append-only log entry for reported issues,
// transitioned through status but never deleted.
type MaintenanceRequest struct {
	Base
	PropertyID       string              `json:"property_id"`
	UnitID           string              `json:"unit_id"`
	TenantID         string              `json:"tenant_id"`
	Type             string              `json:"type"`
	SubType          string              `json:"sub_type"`
	Priority         MaintenancePriority `json:"priority"`
	Status           MaintenanceStatus   `json:"status"`
	ReportedDate     time.Time           `json:"reported_date"`
	ResolvedDate     *time.Time          `json:"resolved_date"`
	AdditionalDetail *string             `json:"additional_detail,omitempty"`
}

// Document records metadata for an attached file. Content lives behind the
// blob store under BlobKey; this core never holds file bytes.
type Document struct {
	Base
	PropertyID  string           `json:"property_id"`
	TenantID    *string          `json:"tenant_id"`
	Title       string           `json:"title"`
	Category    DocumentCategory `json:"category"`
	ContentType string           `json:"content_type"`
	BlobKey     string           `json:"blob_key"`
	UploadedBy  string           `json:"uploaded_by"`
}

// Message is a single chat message within a conversation.
type Message struct {
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"is_read"`
}

// Conversation is a message thread between an owner (the user whose inbox
// holds the thread) and a counterpart. The unread count is never stored; use
// UnreadCount with the viewing user's id.
type Conversation struct {
	Base
	OwnerID         string    `json:"owner_id"`
	CounterpartID   string    `json:"counterpart_id"`
	CounterpartRole Role      `json:"counterpart_role"`
	Messages        []Message `json:"messages"`
}

// UnreadCount returns the number of unread messages sent by someone other
// than the viewer. Deriving it here keeps the count consistent with the
// message log by construction.
func (c Conversation) UnreadCount(viewerID string) int {
	n := 0
	for _, m := range c.Messages {
		if !m.IsRead && m.SenderID != viewerID {
			n++
		}
	}
	return n
}

// Involves reports whether the user participates in the conversation.
func (c Conversation) Involves(userID string) bool {
	return c.OwnerID == userID || c.CounterpartID == userID
}

// Notification is delivered by an external event source. APIID is the remote
// identity used for dedupe and mark-read round trips; IsRead only mutates
// locally until synchronized.
type Notification struct {
	Base
	APIID       string           `json:"api_id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Time        time.Time        `json:"time"`
	IsRead      bool             `json:"is_read"`
}

// ActingContext captures the session's current identity. It is supplied by
// the auth layer and read-only to this core.
type ActingContext struct {
	Role   Role   `json:"role"`
	UserID string `json:"user_id"`
	// SelectedLandlordID is set only when Role is RoleManager; scoped views
	// cannot be computed for a manager until a landlord is selected.
	SelectedLandlordID string `json:"selected_landlord_id,omitempty"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions captured in the audit trail. There is no delete action:
// this core models deactivation as a status flag.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
