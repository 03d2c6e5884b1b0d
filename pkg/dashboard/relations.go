package dashboard

import "dwellacore/pkg/domain"

// Resolver answers foreign-key joins over one snapshot. Indexes are built
// once at construction; all accessors are read-only. Relations with no rows
// return empty slices, while a foreign key that points at a record absent
// from the snapshot surfaces a DanglingReferenceError so integrity bugs are
// caught instead of silently dropped.
type Resolver struct {
	store EntityStore

	propertyIdx map[string]int
	unitIdx     map[string]int
	tenantIdx   map[string]int
	managerIdx  map[string]int

	unitsByProperty    map[string][]int
	tenantsByProperty  map[string][]int
	paymentsByProperty map[string][]int
	paymentsByTenant   map[string][]int
	requestsByProperty map[string][]int
	requestsByUnit     map[string][]int
	documentsByProp    map[string][]int
}

// NewResolver indexes the snapshot for foreign-key lookups.
func NewResolver(store EntityStore) *Resolver {
	r := &Resolver{
		store:              store,
		propertyIdx:        make(map[string]int, len(store.Properties)),
		unitIdx:            make(map[string]int, len(store.Units)),
		tenantIdx:          make(map[string]int, len(store.Tenants)),
		managerIdx:         make(map[string]int, len(store.Managers)),
		unitsByProperty:    make(map[string][]int),
		tenantsByProperty:  make(map[string][]int),
		paymentsByProperty: make(map[string][]int),
		paymentsByTenant:   make(map[string][]int),
		requestsByProperty: make(map[string][]int),
		requestsByUnit:     make(map[string][]int),
		documentsByProp:    make(map[string][]int),
	}
	for i, p := range store.Properties {
		r.propertyIdx[p.ID] = i
	}
	for i, u := range store.Units {
		r.unitIdx[u.ID] = i
		r.unitsByProperty[u.PropertyID] = append(r.unitsByProperty[u.PropertyID], i)
	}
	for i, tn := range store.Tenants {
		r.tenantIdx[tn.ID] = i
		r.tenantsByProperty[tn.PropertyID] = append(r.tenantsByProperty[tn.PropertyID], i)
	}
	for i, m := range store.Managers {
		r.managerIdx[m.ID] = i
	}
	for i, pay := range store.Payments {
		r.paymentsByProperty[pay.PropertyID] = append(r.paymentsByProperty[pay.PropertyID], i)
		r.paymentsByTenant[pay.TenantID] = append(r.paymentsByTenant[pay.TenantID], i)
	}
	for i, req := range store.MaintenanceRequests {
		r.requestsByProperty[req.PropertyID] = append(r.requestsByProperty[req.PropertyID], i)
		r.requestsByUnit[req.UnitID] = append(r.requestsByUnit[req.UnitID], i)
	}
	for i, d := range store.Documents {
		r.documentsByProp[d.PropertyID] = append(r.documentsByProp[d.PropertyID], i)
	}
	return r
}

// PropertyOf resolves a unit's parent property.
func (r *Resolver) PropertyOf(unit domain.Unit) (domain.Property, error) {
	i, ok := r.propertyIdx[unit.PropertyID]
	if !ok {
		return domain.Property{}, domain.DanglingReferenceError{
			Entity: domain.EntityUnit, EntityID: unit.ID, Field: "property_id",
			Target: domain.EntityProperty, TargetID: unit.PropertyID,
		}
	}
	return r.store.Properties[i], nil
}

// UnitsOf returns the units of a property in snapshot order.
func (r *Resolver) UnitsOf(propertyID string) []domain.Unit {
	return pick(r.store.Units, r.unitsByProperty[propertyID])
}

// TenantsOf returns the tenants of a property in snapshot order.
func (r *Resolver) TenantsOf(propertyID string) []domain.Tenant {
	return pick(r.store.Tenants, r.tenantsByProperty[propertyID])
}

// TenantOf resolves a unit's tenant. The relation is optional 1:1: a vacant
// unit yields (nil, nil). A tenant id that resolves nowhere, or a tenant
// whose back-reference does not point at the unit, is reported as dangling.
func (r *Resolver) TenantOf(unit domain.Unit) (*domain.Tenant, error) {
	if unit.TenantID == nil {
		return nil, nil
	}
	i, ok := r.tenantIdx[*unit.TenantID]
	if !ok {
		return nil, domain.DanglingReferenceError{
			Entity: domain.EntityUnit, EntityID: unit.ID, Field: "tenant_id",
			Target: domain.EntityTenant, TargetID: *unit.TenantID,
		}
	}
	tenant := r.store.Tenants[i]
	if tenant.UnitID != unit.ID {
		return nil, domain.DanglingReferenceError{
			Entity: domain.EntityTenant, EntityID: tenant.ID, Field: "unit_id",
			Target: domain.EntityUnit, TargetID: tenant.UnitID,
		}
	}
	return &tenant, nil
}

// UnitOf resolves the unit a tenant leases.
func (r *Resolver) UnitOf(tenant domain.Tenant) (domain.Unit, error) {
	i, ok := r.unitIdx[tenant.UnitID]
	if !ok {
		return domain.Unit{}, domain.DanglingReferenceError{
			Entity: domain.EntityTenant, EntityID: tenant.ID, Field: "unit_id",
			Target: domain.EntityUnit, TargetID: tenant.UnitID,
		}
	}
	return r.store.Units[i], nil
}

// PaymentsOfProperty returns the payment log scoped to a property.
func (r *Resolver) PaymentsOfProperty(propertyID string) []domain.PaymentRecord {
	return pick(r.store.Payments, r.paymentsByProperty[propertyID])
}

// PaymentsOfTenant returns the payment log scoped to a tenant.
func (r *Resolver) PaymentsOfTenant(tenantID string) []domain.PaymentRecord {
	return pick(r.store.Payments, r.paymentsByTenant[tenantID])
}

// RequestsOfProperty returns maintenance requests scoped to a property.
func (r *Resolver) RequestsOfProperty(propertyID string) []domain.MaintenanceRequest {
	return pick(r.store.MaintenanceRequests, r.requestsByProperty[propertyID])
}

// RequestsOfUnit returns maintenance requests scoped to a unit.
func (r *Resolver) RequestsOfUnit(unitID string) []domain.MaintenanceRequest {
	return pick(r.store.MaintenanceRequests, r.requestsByUnit[unitID])
}

// DocumentsOfProperty returns document metadata scoped to a property.
func (r *Resolver) DocumentsOfProperty(propertyID string) []domain.Document {
	return pick(r.store.Documents, r.documentsByProp[propertyID])
}

// PropertiesOf resolves a manager's assigned properties. Any assignment
// pointing at a property absent from the snapshot is dangling.
func (r *Resolver) PropertiesOf(manager domain.Manager) ([]domain.Property, error) {
	out := make([]domain.Property, 0, len(manager.AssignedPropertyIDs))
	for _, id := range manager.AssignedPropertyIDs {
		i, ok := r.propertyIdx[id]
		if !ok {
			return nil, domain.DanglingReferenceError{
				Entity: domain.EntityManager, EntityID: manager.ID, Field: "assigned_property_ids",
				Target: domain.EntityProperty, TargetID: id,
			}
		}
		out = append(out, r.store.Properties[i])
	}
	return out, nil
}

func pick[T any](items []T, idx []int) []T {
	out := make([]T, 0, len(idx))
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}
