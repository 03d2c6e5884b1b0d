// Package core exposes the transactional service layer over the persistent
// store. Every operation runs inside a rules-checked transaction and is
// instrumented through the configured logger, metrics recorder, tracer, and
// audit recorder.
package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"dwellacore/internal/blob"
	"dwellacore/internal/infra/persistence/memory"
	"dwellacore/pkg/dashboard"
	"dwellacore/pkg/domain"
)

// AttachmentStore is the document content backend used by AttachDocument.
type AttachmentStore = blob.Store

// Service exposes higher-level transactional operations for the portfolio schema.
type Service struct {
	store       PersistentStore
	attachments AttachmentStore
	logger      Logger
	clock       Clock
	metrics     MetricsRecorder
	tracer      Tracer
	audit       AuditRecorder
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: noopLogger{},
		clock:  systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store with the
// given rules engine.
func NewInMemoryService(engine *RulesEngine, opts ...Option) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore { return s.store }

// EntitySnapshot captures the current state of every collection as a
// dashboard store, ready for view derivation.
func (s *Service) EntitySnapshot(ctx context.Context) (dashboard.EntityStore, error) {
	var out dashboard.EntityStore
	err := s.store.View(ctx, func(view TransactionView) error {
		out = dashboard.EntityStore{
			Properties:          view.ListProperties(),
			Units:               view.ListUnits(),
			Tenants:             view.ListTenants(),
			Managers:            view.ListManagers(),
			Payments:            view.ListPayments(),
			MaintenanceRequests: view.ListMaintenanceRequests(),
			Documents:           view.ListDocuments(),
			Conversations:       view.ListConversations(),
			Notifications:       view.ListNotifications(),
		}
		return nil
	})
	return out, err
}

// run wraps a transaction with tracing, metrics, audit, and logging. The
// entityID pointer is read after the transaction so operations can report
// server-assigned identifiers.
func (s *Service) run(ctx context.Context, op string, entity EntityType, entityID *string, fn func(Transaction) error) (Result, error) {
	if s.tracer != nil {
		var span TraceSpan
		ctx, span = s.tracer.Start(ctx, op)
		res, err := s.execute(ctx, op, entity, entityID, fn)
		span.End(err)
		return res, err
	}
	return s.execute(ctx, op, entity, entityID, fn)
}

func (s *Service) execute(ctx context.Context, op string, entity EntityType, entityID *string, fn func(Transaction) error) (Result, error) {
	started := s.clock.Now()
	res, err := s.store.RunInTransaction(ctx, fn)
	elapsed := s.clock.Now().Sub(started)

	var id string
	if entityID != nil {
		id = *entityID
	}
	if s.metrics != nil {
		s.metrics.Observe(ctx, op, err == nil, elapsed)
	}
	if s.audit != nil {
		entry := AuditEntry{
			Operation:  op,
			Status:     AuditStatusSuccess,
			EntityType: entity,
			EntityID:   id,
			OccurredAt: s.clock.Now(),
		}
		if err != nil {
			entry.Status = AuditStatusError
			entry.Error = err.Error()
		}
		s.audit.Record(ctx, entry)
	}
	if err != nil {
		s.logger.Error("operation failed", "operation", op, "entity", string(entity), "entity_id", id, "error", err)
		return res, err
	}
	s.logger.Info("operation completed", "operation", op, "entity", string(entity), "entity_id", id, "violations", len(res.Violations))
	return res, nil
}

// CreateProperty persists a new property in the landlord's portfolio.
func (s *Service) CreateProperty(ctx context.Context, property Property) (Property, Result, error) {
	var created Property
	res, err := s.run(ctx, "create_property", EntityProperty, &created.ID, func(tx Transaction) error {
		var err error
		created, err = tx.CreateProperty(property)
		return err
	})
	return created, res, err
}

// UpdateProperty mutates a property using the provided mutator.
func (s *Service) UpdateProperty(ctx context.Context, id string, mutator func(*Property) error) (Property, Result, error) {
	var updated Property
	res, err := s.run(ctx, "update_property", EntityProperty, &id, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateProperty(id, mutator)
		return err
	})
	return updated, res, err
}

// DeactivateProperty flags a property inactive. Properties are never deleted;
// historical payments and requests keep resolving against them.
func (s *Service) DeactivateProperty(ctx context.Context, id string) (Property, Result, error) {
	return s.UpdateProperty(ctx, id, func(p *Property) error {
		p.Status = domain.PropertyStatusInactive
		return nil
	})
}

// AddUnit persists a new unit under an existing property.
func (s *Service) AddUnit(ctx context.Context, unit Unit) (Unit, Result, error) {
	var created Unit
	res, err := s.run(ctx, "add_unit", EntityUnit, &created.ID, func(tx Transaction) error {
		var err error
		created, err = tx.CreateUnit(unit)
		return err
	})
	return created, res, err
}

// UpdateUnit mutates a unit using the provided mutator.
func (s *Service) UpdateUnit(ctx context.Context, id string, mutator func(*Unit) error) (Unit, Result, error) {
	var updated Unit
	res, err := s.run(ctx, "update_unit", EntityUnit, &id, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateUnit(id, mutator)
		return err
	})
	return updated, res, err
}

// AssignTenant creates a tenant on a vacant unit and links both sides of the
// relationship in one transaction, so a reader never observes a unit marked
// occupied without its tenant or the reverse.
func (s *Service) AssignTenant(ctx context.Context, tenant Tenant) (Tenant, Result, error) {
	var created Tenant
	res, err := s.run(ctx, "assign_tenant", EntityTenant, &created.ID, func(tx Transaction) error {
		unit, ok := tx.Snapshot().FindUnit(tenant.UnitID)
		if !ok {
			return ErrNotFound{Entity: EntityUnit, ID: tenant.UnitID}
		}
		if unit.TenantID != nil {
			return fmt.Errorf("unit %s already has tenant %s", unit.ID, *unit.TenantID)
		}
		tenant.PropertyID = unit.PropertyID
		var err error
		created, err = tx.CreateTenant(tenant)
		if err != nil {
			return err
		}
		_, err = tx.UpdateUnit(unit.ID, func(u *Unit) error {
			u.TenantID = &created.ID
			u.Status = domain.UnitStatusOccupied
			if !created.NextPaymentDate.IsZero() {
				u.NextDueDate = created.NextPaymentDate
			}
			return nil
		})
		return err
	})
	return created, res, err
}

// EndLease marks the tenant former and vacates the unit in one transaction.
func (s *Service) EndLease(ctx context.Context, tenantID string) (Tenant, Result, error) {
	var updated Tenant
	res, err := s.run(ctx, "end_lease", EntityTenant, &tenantID, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateTenant(tenantID, func(t *Tenant) error {
			t.Status = domain.TenancyStatusFormer
			t.LeaseEnd = s.clock.Now()
			return nil
		})
		if err != nil {
			return err
		}
		_, err = tx.UpdateUnit(updated.UnitID, func(u *Unit) error {
			u.TenantID = nil
			u.Status = domain.UnitStatusVacant
			return nil
		})
		return err
	})
	return updated, res, err
}

// InviteManager persists a manager record for a landlord.
func (s *Service) InviteManager(ctx context.Context, manager Manager) (Manager, Result, error) {
	var created Manager
	res, err := s.run(ctx, "invite_manager", EntityManager, &created.ID, func(tx Transaction) error {
		var err error
		created, err = tx.CreateManager(manager)
		return err
	})
	return created, res, err
}

// SetManagerStatus activates or deactivates a manager account.
func (s *Service) SetManagerStatus(ctx context.Context, id string, status ManagerStatus) (Manager, Result, error) {
	var updated Manager
	res, err := s.run(ctx, "set_manager_status", EntityManager, &id, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateManager(id, func(m *Manager) error {
			m.Status = status
			return nil
		})
		return err
	})
	return updated, res, err
}

// AssignManagerProperties replaces a manager's property assignments. The
// scope rule blocks assignments outside the inviting landlord's portfolio.
func (s *Service) AssignManagerProperties(ctx context.Context, id string, propertyIDs []string) (Manager, Result, error) {
	var updated Manager
	res, err := s.run(ctx, "assign_manager_properties", EntityManager, &id, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateManager(id, func(m *Manager) error {
			m.AssignedPropertyIDs = append([]string(nil), propertyIDs...)
			return nil
		})
		return err
	})
	return updated, res, err
}

// RecordPayment appends a payment record. A successful payment also flips the
// unit's rent status to paid and advances its due date by one month.
func (s *Service) RecordPayment(ctx context.Context, payment PaymentRecord) (PaymentRecord, Result, error) {
	var created PaymentRecord
	res, err := s.run(ctx, "record_payment", EntityPayment, &created.ID, func(tx Transaction) error {
		var err error
		created, err = tx.CreatePayment(payment)
		if err != nil {
			return err
		}
		if created.Status != domain.PaymentStatusSuccess || created.UnitID == "" {
			return nil
		}
		_, err = tx.UpdateUnit(created.UnitID, func(u *Unit) error {
			u.RentStatus = domain.RentStatusPaid
			if !u.NextDueDate.IsZero() {
				u.NextDueDate = u.NextDueDate.AddDate(0, 1, 0)
			}
			return nil
		})
		return err
	})
	return created, res, err
}

// FileMaintenanceRequest appends a new maintenance request.
func (s *Service) FileMaintenanceRequest(ctx context.Context, request MaintenanceRequest) (MaintenanceRequest, Result, error) {
	var created MaintenanceRequest
	res, err := s.run(ctx, "file_maintenance_request", EntityMaintenance, &created.ID, func(tx Transaction) error {
		var err error
		created, err = tx.CreateMaintenanceRequest(request)
		return err
	})
	return created, res, err
}

// StartMaintenance moves a request into the in-progress state.
func (s *Service) StartMaintenance(ctx context.Context, id string) (MaintenanceRequest, Result, error) {
	var updated MaintenanceRequest
	res, err := s.run(ctx, "start_maintenance", EntityMaintenance, &id, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateMaintenanceRequest(id, func(r *MaintenanceRequest) error {
			r.Status = domain.MaintenanceStatusInProgress
			return nil
		})
		return err
	})
	return updated, res, err
}

// ResolveMaintenance moves a request to resolved and stamps the resolution time.
func (s *Service) ResolveMaintenance(ctx context.Context, id string) (MaintenanceRequest, Result, error) {
	var updated MaintenanceRequest
	res, err := s.run(ctx, "resolve_maintenance", EntityMaintenance, &id, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateMaintenanceRequest(id, func(r *MaintenanceRequest) error {
			r.Status = domain.MaintenanceStatusResolved
			resolved := s.clock.Now()
			r.ResolvedDate = &resolved
			return nil
		})
		return err
	})
	return updated, res, err
}

// AttachDocument uploads the document content to the attachment store and
// persists its metadata. The content is uploaded before the transaction and
// removed best-effort when the transaction fails.
func (s *Service) AttachDocument(ctx context.Context, doc Document, filename string, content io.Reader) (Document, Result, error) {
	if s.attachments == nil {
		return Document{}, Result{}, fmt.Errorf("no attachment store configured")
	}
	key := blob.DocumentKey(doc.PropertyID, newAttachmentID(), filename)
	info, err := s.attachments.Put(ctx, key, content, blob.PutOptions{
		ContentType: doc.ContentType,
		Metadata:    map[string]string{"category": string(doc.Category), "uploaded_by": doc.UploadedBy},
	})
	if err != nil {
		return Document{}, Result{}, fmt.Errorf("store attachment: %w", err)
	}
	doc.BlobKey = info.Key

	var created Document
	res, err := s.run(ctx, "attach_document", EntityDocument, &created.ID, func(tx Transaction) error {
		var err error
		created, err = tx.CreateDocument(doc)
		return err
	})
	if err != nil {
		_, _ = s.attachments.Delete(ctx, info.Key)
		return Document{}, res, err
	}
	return created, res, nil
}

// DocumentURL returns a time-limited download URL for a stored document.
func (s *Service) DocumentURL(ctx context.Context, documentID string) (string, error) {
	if s.attachments == nil {
		return "", fmt.Errorf("no attachment store configured")
	}
	var key string
	err := s.store.View(ctx, func(view TransactionView) error {
		for _, doc := range view.ListDocuments() {
			if doc.ID == documentID {
				key = doc.BlobKey
				return nil
			}
		}
		return ErrNotFound{Entity: EntityDocument, ID: documentID}
	})
	if err != nil {
		return "", err
	}
	return s.attachments.PresignURL(ctx, key, blob.SignedURLOptions{})
}

// StartConversation persists a new message thread.
func (s *Service) StartConversation(ctx context.Context, conversation Conversation) (Conversation, Result, error) {
	var created Conversation
	res, err := s.run(ctx, "start_conversation", EntityConversation, &created.ID, func(tx Transaction) error {
		var err error
		created, err = tx.CreateConversation(conversation)
		return err
	})
	return created, res, err
}

// AppendMessage adds a message to an existing conversation.
func (s *Service) AppendMessage(ctx context.Context, conversationID string, message Message) (Conversation, Result, error) {
	var updated Conversation
	res, err := s.run(ctx, "append_message", EntityConversation, &conversationID, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateConversation(conversationID, func(c *Conversation) error {
			if message.Timestamp.IsZero() {
				message.Timestamp = s.clock.Now()
			}
			c.Messages = append(c.Messages, message)
			return nil
		})
		return err
	})
	return updated, res, err
}

// MarkConversationRead flags every message from the other participant as
// read. Messages sent by the viewer are untouched.
func (s *Service) MarkConversationRead(ctx context.Context, conversationID, viewerID string) (Conversation, Result, error) {
	var updated Conversation
	res, err := s.run(ctx, "mark_conversation_read", EntityConversation, &conversationID, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateConversation(conversationID, func(c *Conversation) error {
			for i := range c.Messages {
				if c.Messages[i].SenderID != viewerID {
					c.Messages[i].IsRead = true
				}
			}
			return nil
		})
		return err
	})
	return updated, res, err
}

// IngestNotification upserts a delivered notification by its remote APIID.
// Redelivery never resets a locally read notification back to unread.
func (s *Service) IngestNotification(ctx context.Context, notification Notification) (Notification, Result, error) {
	var stored Notification
	res, err := s.run(ctx, "ingest_notification", EntityNotification, &stored.ID, func(tx Transaction) error {
		var existingID string
		for _, n := range tx.Snapshot().ListNotifications() {
			if n.APIID == notification.APIID {
				existingID = n.ID
				break
			}
		}
		var err error
		if existingID == "" {
			stored, err = tx.CreateNotification(notification)
			return err
		}
		stored, err = tx.UpdateNotification(existingID, func(n *Notification) error {
			read := n.IsRead || notification.IsRead
			n.Type = notification.Type
			n.Title = notification.Title
			n.Description = notification.Description
			n.Time = notification.Time
			n.IsRead = read
			return nil
		})
		return err
	})
	return stored, res, err
}

// MarkNotificationRead flags the notification with the given remote id read.
func (s *Service) MarkNotificationRead(ctx context.Context, apiID string) (Notification, Result, error) {
	var updated Notification
	res, err := s.run(ctx, "mark_notification_read", EntityNotification, &updated.ID, func(tx Transaction) error {
		var targetID string
		for _, n := range tx.Snapshot().ListNotifications() {
			if n.APIID == apiID {
				targetID = n.ID
				break
			}
		}
		if targetID == "" {
			return ErrNotFound{Entity: EntityNotification, ID: apiID}
		}
		var err error
		updated, err = tx.UpdateNotification(targetID, func(n *Notification) error {
			n.IsRead = true
			return nil
		})
		return err
	})
	return updated, res, err
}

// ErrNotFound is returned when reference validation fails within transactional helpers.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func newAttachmentID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "att-fallback"
	}
	return hex.EncodeToString(buf)
}
