// Package memory provides an in-memory implementation of the persistence
// store used for tests and ephemeral environments.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"dwellacore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Property aliases domain.Property for in-memory persistence operations.
	Property = domain.Property
	// Unit aliases domain.Unit.
	Unit = domain.Unit
	// Tenant aliases domain.Tenant.
	Tenant = domain.Tenant
	// Manager aliases domain.Manager.
	Manager = domain.Manager
	// PaymentRecord aliases domain.PaymentRecord.
	PaymentRecord = domain.PaymentRecord
	// MaintenanceRequest aliases domain.MaintenanceRequest.
	MaintenanceRequest = domain.MaintenanceRequest
	// Document aliases domain.Document.
	Document = domain.Document
	// Conversation aliases domain.Conversation.
	Conversation = domain.Conversation
	// Notification aliases domain.Notification.
	Notification = domain.Notification
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
	// PersistentStore aliases domain.PersistentStore abstraction.
	PersistentStore = domain.PersistentStore
)

type memoryState struct {
	properties    map[string]Property
	units         map[string]Unit
	tenants       map[string]Tenant
	managers      map[string]Manager
	payments      map[string]PaymentRecord
	requests      map[string]MaintenanceRequest
	documents     map[string]Document
	conversations map[string]Conversation
	notifications map[string]Notification
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Properties    map[string]Property           `json:"properties"`
	Units         map[string]Unit               `json:"units"`
	Tenants       map[string]Tenant             `json:"tenants"`
	Managers      map[string]Manager            `json:"managers"`
	Payments      map[string]PaymentRecord      `json:"payments"`
	Requests      map[string]MaintenanceRequest `json:"maintenance_requests"`
	Documents     map[string]Document           `json:"documents"`
	Conversations map[string]Conversation       `json:"conversations"`
	Notifications map[string]Notification       `json:"notifications"`
}

func newMemoryState() memoryState {
	return memoryState{
		properties:    make(map[string]Property),
		units:         make(map[string]Unit),
		tenants:       make(map[string]Tenant),
		managers:      make(map[string]Manager),
		payments:      make(map[string]PaymentRecord),
		requests:      make(map[string]MaintenanceRequest),
		documents:     make(map[string]Document),
		conversations: make(map[string]Conversation),
		notifications: make(map[string]Notification),
	}
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	s := Snapshot{
		Properties:    make(map[string]Property, len(state.properties)),
		Units:         make(map[string]Unit, len(state.units)),
		Tenants:       make(map[string]Tenant, len(state.tenants)),
		Managers:      make(map[string]Manager, len(state.managers)),
		Payments:      make(map[string]PaymentRecord, len(state.payments)),
		Requests:      make(map[string]MaintenanceRequest, len(state.requests)),
		Documents:     make(map[string]Document, len(state.documents)),
		Conversations: make(map[string]Conversation, len(state.conversations)),
		Notifications: make(map[string]Notification, len(state.notifications)),
	}
	for k, v := range state.properties {
		s.Properties[k] = cloneProperty(v)
	}
	for k, v := range state.units {
		s.Units[k] = cloneUnit(v)
	}
	for k, v := range state.tenants {
		s.Tenants[k] = cloneTenant(v)
	}
	for k, v := range state.managers {
		s.Managers[k] = cloneManager(v)
	}
	for k, v := range state.payments {
		s.Payments[k] = clonePayment(v)
	}
	for k, v := range state.requests {
		s.Requests[k] = cloneRequest(v)
	}
	for k, v := range state.documents {
		s.Documents[k] = cloneDocument(v)
	}
	for k, v := range state.conversations {
		s.Conversations[k] = cloneConversation(v)
	}
	for k, v := range state.notifications {
		s.Notifications[k] = cloneNotification(v)
	}
	return s
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range s.Properties {
		state.properties[k] = cloneProperty(v)
	}
	for k, v := range s.Units {
		state.units[k] = cloneUnit(v)
	}
	for k, v := range s.Tenants {
		state.tenants[k] = cloneTenant(v)
	}
	for k, v := range s.Managers {
		state.managers[k] = cloneManager(v)
	}
	for k, v := range s.Payments {
		state.payments[k] = clonePayment(v)
	}
	for k, v := range s.Requests {
		state.requests[k] = cloneRequest(v)
	}
	for k, v := range s.Documents {
		state.documents[k] = cloneDocument(v)
	}
	for k, v := range s.Conversations {
		state.conversations[k] = cloneConversation(v)
	}
	for k, v := range s.Notifications {
		state.notifications[k] = cloneNotification(v)
	}
	return state
}

// migrateSnapshot normalizes snapshots produced by earlier builds: missing
// maps become empty and records whose required foreign keys no longer resolve
// are pruned so imports never seed a dangling reference.
func migrateSnapshot(snapshot Snapshot) Snapshot {
	if snapshot.Properties == nil {
		snapshot.Properties = map[string]Property{}
	}
	if snapshot.Units == nil {
		snapshot.Units = map[string]Unit{}
	}
	if snapshot.Tenants == nil {
		snapshot.Tenants = map[string]Tenant{}
	}
	if snapshot.Managers == nil {
		snapshot.Managers = map[string]Manager{}
	}
	if snapshot.Payments == nil {
		snapshot.Payments = map[string]PaymentRecord{}
	}
	if snapshot.Requests == nil {
		snapshot.Requests = map[string]MaintenanceRequest{}
	}
	if snapshot.Documents == nil {
		snapshot.Documents = map[string]Document{}
	}
	if snapshot.Conversations == nil {
		snapshot.Conversations = map[string]Conversation{}
	}
	if snapshot.Notifications == nil {
		snapshot.Notifications = map[string]Notification{}
	}

	propertyExists := func(id string) bool {
		_, ok := snapshot.Properties[id]
		return ok
	}
	unitExists := func(id string) bool {
		_, ok := snapshot.Units[id]
		return ok
	}
	tenantExists := func(id string) bool {
		_, ok := snapshot.Tenants[id]
		return ok
	}

	for id, unit := range snapshot.Units {
		if unit.PropertyID == "" || !propertyExists(unit.PropertyID) {
			delete(snapshot.Units, id)
			continue
		}
		if unit.TenantID != nil && !tenantExists(*unit.TenantID) {
			unit.TenantID = nil
			if unit.Status == domain.UnitStatusOccupied {
				unit.Status = domain.UnitStatusVacant
			}
		}
		snapshot.Units[id] = unit
	}

	for id, tenant := range snapshot.Tenants {
		if tenant.UnitID == "" || !unitExists(tenant.UnitID) {
			delete(snapshot.Tenants, id)
			continue
		}
		snapshot.Tenants[id] = tenant
	}

	for id, manager := range snapshot.Managers {
		if filtered, changed := filterIDs(manager.AssignedPropertyIDs, propertyExists); changed {
			manager.AssignedPropertyIDs = filtered
		}
		snapshot.Managers[id] = manager
	}

	for id, payment := range snapshot.Payments {
		if payment.PropertyID == "" || !propertyExists(payment.PropertyID) {
			delete(snapshot.Payments, id)
		}
	}
	for id, request := range snapshot.Requests {
		if request.PropertyID == "" || !propertyExists(request.PropertyID) {
			delete(snapshot.Requests, id)
		}
	}
	for id, doc := range snapshot.Documents {
		if doc.PropertyID == "" || !propertyExists(doc.PropertyID) {
			delete(snapshot.Documents, id)
			continue
		}
		if doc.TenantID != nil && !tenantExists(*doc.TenantID) {
			doc.TenantID = nil
			snapshot.Documents[id] = doc
		}
	}
	return snapshot
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.properties {
		cloned.properties[k] = cloneProperty(v)
	}
	for k, v := range s.units {
		cloned.units[k] = cloneUnit(v)
	}
	for k, v := range s.tenants {
		cloned.tenants[k] = cloneTenant(v)
	}
	for k, v := range s.managers {
		cloned.managers[k] = cloneManager(v)
	}
	for k, v := range s.payments {
		cloned.payments[k] = clonePayment(v)
	}
	for k, v := range s.requests {
		cloned.requests[k] = cloneRequest(v)
	}
	for k, v := range s.documents {
		cloned.documents[k] = cloneDocument(v)
	}
	for k, v := range s.conversations {
		cloned.conversations[k] = cloneConversation(v)
	}
	for k, v := range s.notifications {
		cloned.notifications[k] = cloneNotification(v)
	}
	return cloned
}

func cloneProperty(p Property) Property {
	cp := p
	cp.Amenities = append([]string(nil), p.Amenities...)
	return cp
}

func cloneUnit(u Unit) Unit {
	cp := u
	cp.Amenities = append([]string(nil), u.Amenities...)
	if u.TenantID != nil {
		id := *u.TenantID
		cp.TenantID = &id
	}
	return cp
}

func cloneTenant(t Tenant) Tenant { return t }

func cloneManager(m Manager) Manager {
	cp := m
	cp.AssignedPropertyIDs = append([]string(nil), m.AssignedPropertyIDs...)
	cp.Permissions = append([]domain.Permission(nil), m.Permissions...)
	return cp
}

func clonePayment(p PaymentRecord) PaymentRecord { return p }

func cloneRequest(r MaintenanceRequest) MaintenanceRequest {
	cp := r
	if r.ResolvedDate != nil {
		t := *r.ResolvedDate
		cp.ResolvedDate = &t
	}
	if r.AdditionalDetail != nil {
		d := *r.AdditionalDetail
		cp.AdditionalDetail = &d
	}
	return cp
}

func cloneDocument(d Document) Document {
	cp := d
	if d.TenantID != nil {
		id := *d.TenantID
		cp.TenantID = &id
	}
	return cp
}

func cloneConversation(c Conversation) Conversation {
	cp := c
	cp.Messages = append([]domain.Message(nil), c.Messages...)
	return cp
}

func cloneNotification(n Notification) Notification { return n }

func filterIDs(values []string, exists func(string) bool) ([]string, bool) {
	if len(values) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	changed := false
	for _, v := range values {
		if _, ok := seen[v]; ok {
			changed = true
			continue
		}
		seen[v] = struct{}{}
		if !exists(v) {
			changed = true
			continue
		}
		out = append(out, v)
	}
	if !changed && len(out) == len(values) {
		return values, false
	}
	return out, true
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(migrateSnapshot(snapshot))
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// SetNowFunc overrides the time provider. Intended for tests that need
// deterministic timestamps.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		s.nowFn = fn
	}
}

type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

func sortedByBase[T any](items []T, base func(T) domain.Base) []T {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := base(items[i]), base(items[j])
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return items
}

// ListProperties returns all properties in the snapshot, oldest first.
func (v transactionView) ListProperties() []Property {
	out := make([]Property, 0, len(v.state.properties))
	for _, p := range v.state.properties {
		out = append(out, cloneProperty(p))
	}
	return sortedByBase(out, func(p Property) domain.Base { return p.Base })
}

// ListUnits returns all units in the snapshot, oldest first.
func (v transactionView) ListUnits() []Unit {
	out := make([]Unit, 0, len(v.state.units))
	for _, u := range v.state.units {
		out = append(out, cloneUnit(u))
	}
	return sortedByBase(out, func(u Unit) domain.Base { return u.Base })
}

// ListTenants returns all tenants in the snapshot, oldest first.
func (v transactionView) ListTenants() []Tenant {
	out := make([]Tenant, 0, len(v.state.tenants))
	for _, t := range v.state.tenants {
		out = append(out, cloneTenant(t))
	}
	return sortedByBase(out, func(t Tenant) domain.Base { return t.Base })
}

// ListManagers returns all managers in the snapshot, oldest first.
func (v transactionView) ListManagers() []Manager {
	out := make([]Manager, 0, len(v.state.managers))
	for _, m := range v.state.managers {
		out = append(out, cloneManager(m))
	}
	return sortedByBase(out, func(m Manager) domain.Base { return m.Base })
}

// ListPayments returns all payment records, oldest first.
func (v transactionView) ListPayments() []PaymentRecord {
	out := make([]PaymentRecord, 0, len(v.state.payments))
	for _, p := range v.state.payments {
		out = append(out, clonePayment(p))
	}
	return sortedByBase(out, func(p PaymentRecord) domain.Base { return p.Base })
}

// ListMaintenanceRequests returns all maintenance requests, oldest first.
func (v transactionView) ListMaintenanceRequests() []MaintenanceRequest {
	out := make([]MaintenanceRequest, 0, len(v.state.requests))
	for _, r := range v.state.requests {
		out = append(out, cloneRequest(r))
	}
	return sortedByBase(out, func(r MaintenanceRequest) domain.Base { return r.Base })
}

// ListDocuments returns all document metadata records, oldest first.
func (v transactionView) ListDocuments() []Document {
	out := make([]Document, 0, len(v.state.documents))
	for _, d := range v.state.documents {
		out = append(out, cloneDocument(d))
	}
	return sortedByBase(out, func(d Document) domain.Base { return d.Base })
}

// ListConversations returns all conversations, oldest first.
func (v transactionView) ListConversations() []Conversation {
	out := make([]Conversation, 0, len(v.state.conversations))
	for _, c := range v.state.conversations {
		out = append(out, cloneConversation(c))
	}
	return sortedByBase(out, func(c Conversation) domain.Base { return c.Base })
}

// ListNotifications returns all notifications, oldest first.
func (v transactionView) ListNotifications() []Notification {
	out := make([]Notification, 0, len(v.state.notifications))
	for _, n := range v.state.notifications {
		out = append(out, cloneNotification(n))
	}
	return sortedByBase(out, func(n Notification) domain.Base { return n.Base })
}

// FindProperty retrieves a property by ID from the snapshot.
func (v transactionView) FindProperty(id string) (Property, bool) {
	p, ok := v.state.properties[id]
	if !ok {
		return Property{}, false
	}
	return cloneProperty(p), true
}

// FindUnit retrieves a unit by ID from the snapshot.
func (v transactionView) FindUnit(id string) (Unit, bool) {
	u, ok := v.state.units[id]
	if !ok {
		return Unit{}, false
	}
	return cloneUnit(u), true
}

// FindTenant retrieves a tenant by ID from the snapshot.
func (v transactionView) FindTenant(id string) (Tenant, bool) {
	t, ok := v.state.tenants[id]
	if !ok {
		return Tenant{}, false
	}
	return cloneTenant(t), true
}

// FindManager retrieves a manager by ID from the snapshot.
func (v transactionView) FindManager(id string) (Manager, bool) {
	m, ok := v.state.managers[id]
	if !ok {
		return Manager{}, false
	}
	return cloneManager(m), true
}

// FindMaintenanceRequest retrieves a maintenance request by ID from the snapshot.
func (v transactionView) FindMaintenanceRequest(id string) (MaintenanceRequest, bool) {
	r, ok := v.state.requests[id]
	if !ok {
		return MaintenanceRequest{}, false
	}
	return cloneRequest(r), true
}

// FindConversation retrieves a conversation by ID from the snapshot.
func (v transactionView) FindConversation(id string) (Conversation, bool) {
	c, ok := v.state.conversations[id]
	if !ok {
		return Conversation{}, false
	}
	return cloneConversation(c), true
}

// RunInTransaction executes fn within a transactional copy of the store state.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// CreateProperty stores a new property within the transaction.
func (tx *transaction) CreateProperty(p Property) (Property, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.properties[p.ID]; exists {
		return Property{}, fmt.Errorf("property %q already exists", p.ID)
	}
	if p.LandlordID == "" {
		return Property{}, errors.New("property requires landlord id")
	}
	if p.Status == "" {
		p.Status = domain.PropertyStatusActive
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.properties[p.ID] = cloneProperty(p)
	tx.recordChange(Change{Entity: domain.EntityProperty, Action: domain.ActionCreate, After: cloneProperty(p)})
	return cloneProperty(p), nil
}

// UpdateProperty mutates a property using the provided mutator function.
func (tx *transaction) UpdateProperty(id string, mutator func(*Property) error) (Property, error) {
	current, ok := tx.state.properties[id]
	if !ok {
		return Property{}, fmt.Errorf("property %q not found", id)
	}
	before := cloneProperty(current)
	if err := mutator(&current); err != nil {
		return Property{}, err
	}
	if current.LandlordID == "" {
		return Property{}, errors.New("property requires landlord id")
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.properties[id] = cloneProperty(current)
	tx.recordChange(Change{Entity: domain.EntityProperty, Action: domain.ActionUpdate, Before: before, After: cloneProperty(current)})
	return cloneProperty(current), nil
}

// CreateUnit stores a new unit within the transaction.
func (tx *transaction) CreateUnit(u Unit) (Unit, error) {
	if u.ID == "" {
		u.ID = tx.store.newID()
	}
	if _, exists := tx.state.units[u.ID]; exists {
		return Unit{}, fmt.Errorf("unit %q already exists", u.ID)
	}
	if u.PropertyID == "" {
		return Unit{}, errors.New("unit requires property id")
	}
	if _, ok := tx.state.properties[u.PropertyID]; !ok {
		return Unit{}, fmt.Errorf("property %q not found", u.PropertyID)
	}
	for _, existing := range tx.state.units {
		if existing.PropertyID == u.PropertyID && existing.UnitLabel == u.UnitLabel {
			return Unit{}, fmt.Errorf("unit label %q already used in property %q", u.UnitLabel, u.PropertyID)
		}
	}
	if u.Status == "" {
		u.Status = domain.UnitStatusVacant
	}
	if u.RentStatus == "" {
		u.RentStatus = domain.RentStatusPaid
	}
	u.CreatedAt = tx.now
	u.UpdatedAt = tx.now
	tx.state.units[u.ID] = cloneUnit(u)
	tx.recordChange(Change{Entity: domain.EntityUnit, Action: domain.ActionCreate, After: cloneUnit(u)})
	return cloneUnit(u), nil
}

// UpdateUnit mutates a unit using the provided mutator function.
func (tx *transaction) UpdateUnit(id string, mutator func(*Unit) error) (Unit, error) {
	current, ok := tx.state.units[id]
	if !ok {
		return Unit{}, fmt.Errorf("unit %q not found", id)
	}
	before := cloneUnit(current)
	if err := mutator(&current); err != nil {
		return Unit{}, err
	}
	if current.PropertyID == "" {
		return Unit{}, errors.New("unit requires property id")
	}
	if _, ok := tx.state.properties[current.PropertyID]; !ok {
		return Unit{}, fmt.Errorf("property %q not found", current.PropertyID)
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.units[id] = cloneUnit(current)
	tx.recordChange(Change{Entity: domain.EntityUnit, Action: domain.ActionUpdate, Before: before, After: cloneUnit(current)})
	return cloneUnit(current), nil
}

// CreateTenant stores a new tenant record.
func (tx *transaction) CreateTenant(t Tenant) (Tenant, error) {
	if t.ID == "" {
		t.ID = tx.store.newID()
	}
	if _, exists := tx.state.tenants[t.ID]; exists {
		return Tenant{}, fmt.Errorf("tenant %q already exists", t.ID)
	}
	if t.UnitID == "" {
		return Tenant{}, errors.New("tenant requires unit id")
	}
	if _, ok := tx.state.units[t.UnitID]; !ok {
		return Tenant{}, fmt.Errorf("unit %q not found", t.UnitID)
	}
	if t.Status == "" {
		t.Status = domain.TenancyStatusOccupied
	}
	t.CreatedAt = tx.now
	t.UpdatedAt = tx.now
	tx.state.tenants[t.ID] = cloneTenant(t)
	tx.recordChange(Change{Entity: domain.EntityTenant, Action: domain.ActionCreate, After: cloneTenant(t)})
	return cloneTenant(t), nil
}

// UpdateTenant mutates a tenant record.
func (tx *transaction) UpdateTenant(id string, mutator func(*Tenant) error) (Tenant, error) {
	current, ok := tx.state.tenants[id]
	if !ok {
		return Tenant{}, fmt.Errorf("tenant %q not found", id)
	}
	before := cloneTenant(current)
	if err := mutator(&current); err != nil {
		return Tenant{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.tenants[id] = cloneTenant(current)
	tx.recordChange(Change{Entity: domain.EntityTenant, Action: domain.ActionUpdate, Before: before, After: cloneTenant(current)})
	return cloneTenant(current), nil
}

// CreateManager stores a new manager record.
func (tx *transaction) CreateManager(m Manager) (Manager, error) {
	if m.ID == "" {
		m.ID = tx.store.newID()
	}
	if _, exists := tx.state.managers[m.ID]; exists {
		return Manager{}, fmt.Errorf("manager %q already exists", m.ID)
	}
	if m.LandlordID == "" {
		return Manager{}, errors.New("manager requires landlord id")
	}
	if m.Status == "" {
		m.Status = domain.ManagerStatusActive
	}
	m.CreatedAt = tx.now
	m.UpdatedAt = tx.now
	tx.state.managers[m.ID] = cloneManager(m)
	tx.recordChange(Change{Entity: domain.EntityManager, Action: domain.ActionCreate, After: cloneManager(m)})
	return cloneManager(m), nil
}

// UpdateManager mutates a manager record.
func (tx *transaction) UpdateManager(id string, mutator func(*Manager) error) (Manager, error) {
	current, ok := tx.state.managers[id]
	if !ok {
		return Manager{}, fmt.Errorf("manager %q not found", id)
	}
	before := cloneManager(current)
	if err := mutator(&current); err != nil {
		return Manager{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.managers[id] = cloneManager(current)
	tx.recordChange(Change{Entity: domain.EntityManager, Action: domain.ActionUpdate, Before: before, After: cloneManager(current)})
	return cloneManager(current), nil
}

// CreatePayment appends a payment record. Payments are append-only; there is
// no update.
func (tx *transaction) CreatePayment(p PaymentRecord) (PaymentRecord, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.payments[p.ID]; exists {
		return PaymentRecord{}, fmt.Errorf("payment %q already exists", p.ID)
	}
	if p.PropertyID == "" {
		return PaymentRecord{}, errors.New("payment requires property id")
	}
	if _, ok := tx.state.properties[p.PropertyID]; !ok {
		return PaymentRecord{}, fmt.Errorf("property %q not found", p.PropertyID)
	}
	if p.Date.IsZero() {
		p.Date = tx.now
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.payments[p.ID] = clonePayment(p)
	tx.recordChange(Change{Entity: domain.EntityPayment, Action: domain.ActionCreate, After: clonePayment(p)})
	return clonePayment(p), nil
}

// CreateMaintenanceRequest stores a new maintenance request.
func (tx *transaction) CreateMaintenanceRequest(r MaintenanceRequest) (MaintenanceRequest, error) {
	if r.ID == "" {
		r.ID = tx.store.newID()
	}
	if _, exists := tx.state.requests[r.ID]; exists {
		return MaintenanceRequest{}, fmt.Errorf("maintenance request %q already exists", r.ID)
	}
	if r.PropertyID == "" {
		return MaintenanceRequest{}, errors.New("maintenance request requires property id")
	}
	if _, ok := tx.state.properties[r.PropertyID]; !ok {
		return MaintenanceRequest{}, fmt.Errorf("property %q not found", r.PropertyID)
	}
	if r.Status == "" {
		r.Status = domain.MaintenanceStatusNew
	}
	if r.ReportedDate.IsZero() {
		r.ReportedDate = tx.now
	}
	r.CreatedAt = tx.now
	r.UpdatedAt = tx.now
	tx.state.requests[r.ID] = cloneRequest(r)
	tx.recordChange(Change{Entity: domain.EntityMaintenance, Action: domain.ActionCreate, After: cloneRequest(r)})
	return cloneRequest(r), nil
}

// UpdateMaintenanceRequest mutates a maintenance request.
func (tx *transaction) UpdateMaintenanceRequest(id string, mutator func(*MaintenanceRequest) error) (MaintenanceRequest, error) {
	current, ok := tx.state.requests[id]
	if !ok {
		return MaintenanceRequest{}, fmt.Errorf("maintenance request %q not found", id)
	}
	before := cloneRequest(current)
	if err := mutator(&current); err != nil {
		return MaintenanceRequest{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.requests[id] = cloneRequest(current)
	tx.recordChange(Change{Entity: domain.EntityMaintenance, Action: domain.ActionUpdate, Before: before, After: cloneRequest(current)})
	return cloneRequest(current), nil
}

// CreateDocument stores document metadata.
func (tx *transaction) CreateDocument(d Document) (Document, error) {
	if d.ID == "" {
		d.ID = tx.store.newID()
	}
	if _, exists := tx.state.documents[d.ID]; exists {
		return Document{}, fmt.Errorf("document %q already exists", d.ID)
	}
	if d.PropertyID == "" {
		return Document{}, errors.New("document requires property id")
	}
	if _, ok := tx.state.properties[d.PropertyID]; !ok {
		return Document{}, fmt.Errorf("property %q not found", d.PropertyID)
	}
	d.CreatedAt = tx.now
	d.UpdatedAt = tx.now
	tx.state.documents[d.ID] = cloneDocument(d)
	tx.recordChange(Change{Entity: domain.EntityDocument, Action: domain.ActionCreate, After: cloneDocument(d)})
	return cloneDocument(d), nil
}

// CreateConversation stores a new conversation thread.
func (tx *transaction) CreateConversation(c Conversation) (Conversation, error) {
	if c.ID == "" {
		c.ID = tx.store.newID()
	}
	if _, exists := tx.state.conversations[c.ID]; exists {
		return Conversation{}, fmt.Errorf("conversation %q already exists", c.ID)
	}
	if c.OwnerID == "" || c.CounterpartID == "" {
		return Conversation{}, errors.New("conversation requires owner and counterpart ids")
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	tx.state.conversations[c.ID] = cloneConversation(c)
	tx.recordChange(Change{Entity: domain.EntityConversation, Action: domain.ActionCreate, After: cloneConversation(c)})
	return cloneConversation(c), nil
}

// UpdateConversation mutates a conversation thread.
func (tx *transaction) UpdateConversation(id string, mutator func(*Conversation) error) (Conversation, error) {
	current, ok := tx.state.conversations[id]
	if !ok {
		return Conversation{}, fmt.Errorf("conversation %q not found", id)
	}
	before := cloneConversation(current)
	if err := mutator(&current); err != nil {
		return Conversation{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.conversations[id] = cloneConversation(current)
	tx.recordChange(Change{Entity: domain.EntityConversation, Action: domain.ActionUpdate, Before: before, After: cloneConversation(current)})
	return cloneConversation(current), nil
}

// CreateNotification stores a notification delivered by the event source.
func (tx *transaction) CreateNotification(n Notification) (Notification, error) {
	if n.ID == "" {
		n.ID = tx.store.newID()
	}
	if _, exists := tx.state.notifications[n.ID]; exists {
		return Notification{}, fmt.Errorf("notification %q already exists", n.ID)
	}
	if n.Time.IsZero() {
		n.Time = tx.now
	}
	n.CreatedAt = tx.now
	n.UpdatedAt = tx.now
	tx.state.notifications[n.ID] = cloneNotification(n)
	tx.recordChange(Change{Entity: domain.EntityNotification, Action: domain.ActionCreate, After: cloneNotification(n)})
	return cloneNotification(n), nil
}

// UpdateNotification mutates a notification, typically its read flag.
func (tx *transaction) UpdateNotification(id string, mutator func(*Notification) error) (Notification, error) {
	current, ok := tx.state.notifications[id]
	if !ok {
		return Notification{}, fmt.Errorf("notification %q not found", id)
	}
	before := cloneNotification(current)
	if err := mutator(&current); err != nil {
		return Notification{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.notifications[id] = cloneNotification(current)
	tx.recordChange(Change{Entity: domain.EntityNotification, Action: domain.ActionUpdate, Before: before, After: cloneNotification(current)})
	return cloneNotification(current), nil
}

// Read helpers ---------------------------------------------------------------

// GetProperty retrieves a property by ID from committed state.
func (s *Store) GetProperty(id string) (Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.properties[id]
	if !ok {
		return Property{}, false
	}
	return cloneProperty(p), true
}

// ListProperties returns all properties from committed state.
func (s *Store) ListProperties() []Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Property, 0, len(s.state.properties))
	for _, p := range s.state.properties {
		out = append(out, cloneProperty(p))
	}
	return sortedByBase(out, func(p Property) domain.Base { return p.Base })
}

// GetUnit retrieves a unit by ID.
func (s *Store) GetUnit(id string) (Unit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.state.units[id]
	if !ok {
		return Unit{}, false
	}
	return cloneUnit(u), true
}

// ListUnits returns all units.
func (s *Store) ListUnits() []Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Unit, 0, len(s.state.units))
	for _, u := range s.state.units {
		out = append(out, cloneUnit(u))
	}
	return sortedByBase(out, func(u Unit) domain.Base { return u.Base })
}

// GetTenant retrieves a tenant by ID.
func (s *Store) GetTenant(id string) (Tenant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.tenants[id]
	if !ok {
		return Tenant{}, false
	}
	return cloneTenant(t), true
}

// ListTenants returns all tenants.
func (s *Store) ListTenants() []Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tenant, 0, len(s.state.tenants))
	for _, t := range s.state.tenants {
		out = append(out, cloneTenant(t))
	}
	return sortedByBase(out, func(t Tenant) domain.Base { return t.Base })
}

// GetManager retrieves a manager by ID.
func (s *Store) GetManager(id string) (Manager, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.state.managers[id]
	if !ok {
		return Manager{}, false
	}
	return cloneManager(m), true
}

// ListManagers returns all managers.
func (s *Store) ListManagers() []Manager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Manager, 0, len(s.state.managers))
	for _, m := range s.state.managers {
		out = append(out, cloneManager(m))
	}
	return sortedByBase(out, func(m Manager) domain.Base { return m.Base })
}

// ListPayments returns all payment records.
func (s *Store) ListPayments() []PaymentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PaymentRecord, 0, len(s.state.payments))
	for _, p := range s.state.payments {
		out = append(out, clonePayment(p))
	}
	return sortedByBase(out, func(p PaymentRecord) domain.Base { return p.Base })
}

// ListMaintenanceRequests returns all maintenance requests.
func (s *Store) ListMaintenanceRequests() []MaintenanceRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]MaintenanceRequest, 0, len(s.state.requests))
	for _, r := range s.state.requests {
		out = append(out, cloneRequest(r))
	}
	return sortedByBase(out, func(r MaintenanceRequest) domain.Base { return r.Base })
}

// ListDocuments returns all document metadata records.
func (s *Store) ListDocuments() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, 0, len(s.state.documents))
	for _, d := range s.state.documents {
		out = append(out, cloneDocument(d))
	}
	return sortedByBase(out, func(d Document) domain.Base { return d.Base })
}

// ListConversations returns all conversations.
func (s *Store) ListConversations() []Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Conversation, 0, len(s.state.conversations))
	for _, c := range s.state.conversations {
		out = append(out, cloneConversation(c))
	}
	return sortedByBase(out, func(c Conversation) domain.Base { return c.Base })
}

// ListNotifications returns all notifications.
func (s *Store) ListNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Notification, 0, len(s.state.notifications))
	for _, n := range s.state.notifications {
		out = append(out, cloneNotification(n))
	}
	return sortedByBase(out, func(n Notification) domain.Base { return n.Base })
}
