package domain

import "context"

// RuleView provides read-only access to domain entities for rule evaluation.
type RuleView interface {
	ListProperties() []Property
	ListUnits() []Unit
	ListTenants() []Tenant
	ListManagers() []Manager
	ListPayments() []PaymentRecord
	ListMaintenanceRequests() []MaintenanceRequest
	ListDocuments() []Document
	ListConversations() []Conversation
	ListNotifications() []Notification
	FindProperty(id string) (Property, bool)
	FindUnit(id string) (Unit, bool)
	FindTenant(id string) (Tenant, bool)
	FindManager(id string) (Manager, bool)
	FindMaintenanceRequest(id string) (MaintenanceRequest, bool)
	FindConversation(id string) (Conversation, bool)
}

// Rule defines an evaluation executed within a transaction boundary.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
