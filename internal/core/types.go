package core

import "dwellacore/pkg/domain"

type (
	EntityType          = domain.EntityType
	Role                = domain.Role
	Severity            = domain.Severity
	Base                = domain.Base
	Property            = domain.Property
	Unit                = domain.Unit
	Tenant              = domain.Tenant
	Manager             = domain.Manager
	PaymentRecord       = domain.PaymentRecord
	MaintenanceRequest  = domain.MaintenanceRequest
	Document            = domain.Document
	Message             = domain.Message
	Conversation        = domain.Conversation
	Notification        = domain.Notification
	ActingContext       = domain.ActingContext
	Change              = domain.Change
	Action              = domain.Action
	Violation           = domain.Violation
	Result              = domain.Result
	RuleViolationError  = domain.RuleViolationError
	Rule                = domain.Rule
	RulesEngine         = domain.RulesEngine
	RuleView            = domain.RuleView
	Transaction         = domain.Transaction
	TransactionView     = domain.TransactionView
	PersistentStore     = domain.PersistentStore
	PropertyStatus      = domain.PropertyStatus
	UnitStatus          = domain.UnitStatus
	RentStatus          = domain.RentStatus
	TenancyStatus       = domain.TenancyStatus
	ManagerStatus       = domain.ManagerStatus
	Permission          = domain.Permission
	PaymentStatus       = domain.PaymentStatus
	MaintenancePriority = domain.MaintenancePriority
	MaintenanceStatus   = domain.MaintenanceStatus
	NotificationType    = domain.NotificationType
	DocumentCategory    = domain.DocumentCategory
)

const (
	EntityProperty     = domain.EntityProperty
	EntityUnit         = domain.EntityUnit
	EntityTenant       = domain.EntityTenant
	EntityManager      = domain.EntityManager
	EntityPayment      = domain.EntityPayment
	EntityMaintenance  = domain.EntityMaintenance
	EntityDocument     = domain.EntityDocument
	EntityConversation = domain.EntityConversation
	EntityNotification = domain.EntityNotification
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
)

// NewRulesEngine constructs an empty rules engine.
func NewRulesEngine() *RulesEngine { return domain.NewRulesEngine() }
