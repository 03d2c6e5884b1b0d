package dashboard

import "dwellacore/pkg/domain"

// Scope narrows a full snapshot to what the acting user may see. The result
// is a fresh EntityStore; the input is never mutated. Scoping is pure: given
// the same snapshot and context it always produces the same store.
//
// Landlords see their own portfolio. Managers see the selected landlord's
// portfolio, further narrowed to their assigned properties when an assignment
// list exists; calling before a landlord is selected returns
// NoLandlordSelectedError. Tenants see their own unit, a redacted view of its
// property, and their own payments, requests, and documents.
func Scope(store EntityStore, actx domain.ActingContext) (EntityStore, error) {
	switch actx.Role {
	case domain.RoleLandlord:
		return scopePortfolio(store, actx.UserID, nil, actx.UserID), nil
	case domain.RoleManager:
		if actx.SelectedLandlordID == "" {
			return EntityStore{}, domain.NoLandlordSelectedError{ManagerID: actx.UserID}
		}
		var assigned []string
		for _, m := range store.Managers {
			if m.ID == actx.UserID && m.LandlordID == actx.SelectedLandlordID {
				assigned = m.AssignedPropertyIDs
				break
			}
		}
		return scopePortfolio(store, actx.SelectedLandlordID, assigned, actx.UserID), nil
	case domain.RoleTenant:
		return scopeTenant(store, actx.UserID)
	default:
		return EntityStore{}, nil
	}
}

// scopePortfolio narrows the snapshot to one landlord's properties. A non-nil
// assigned list intersects further; a manager with an explicit empty
// assignment sees no properties, while a missing manager record (nil list)
// falls back to the whole portfolio.
func scopePortfolio(store EntityStore, landlordID string, assigned []string, viewerID string) EntityStore {
	var assignedSet map[string]struct{}
	if assigned != nil {
		assignedSet = make(map[string]struct{}, len(assigned))
		for _, id := range assigned {
			assignedSet[id] = struct{}{}
		}
	}

	out := EntityStore{}
	visible := make(map[string]struct{})
	for _, p := range store.Properties {
		if p.LandlordID != landlordID {
			continue
		}
		if assignedSet != nil {
			if _, ok := assignedSet[p.ID]; !ok {
				continue
			}
		}
		out.Properties = append(out.Properties, p)
		visible[p.ID] = struct{}{}
	}
	for _, u := range store.Units {
		if _, ok := visible[u.PropertyID]; ok {
			out.Units = append(out.Units, u)
		}
	}
	for _, t := range store.Tenants {
		if _, ok := visible[t.PropertyID]; ok {
			out.Tenants = append(out.Tenants, t)
		}
	}
	for _, m := range store.Managers {
		if m.LandlordID == landlordID {
			out.Managers = append(out.Managers, m)
		}
	}
	for _, p := range store.Payments {
		if _, ok := visible[p.PropertyID]; ok {
			out.Payments = append(out.Payments, p)
		}
	}
	for _, r := range store.MaintenanceRequests {
		if _, ok := visible[r.PropertyID]; ok {
			out.MaintenanceRequests = append(out.MaintenanceRequests, r)
		}
	}
	for _, d := range store.Documents {
		if _, ok := visible[d.PropertyID]; ok {
			out.Documents = append(out.Documents, d)
		}
	}
	for _, c := range store.Conversations {
		if c.Involves(viewerID) {
			out.Conversations = append(out.Conversations, c)
		}
	}
	out.Notifications = append(out.Notifications, store.Notifications...)
	return out
}

// scopeTenant narrows the snapshot to a tenant's own lease. The property is
// redacted to the fields a tenant may see; financial and ownership fields are
// zeroed. A tenant whose unit or property is absent from the snapshot
// surfaces a DanglingReferenceError.
func scopeTenant(store EntityStore, tenantID string) (EntityStore, error) {
	out := EntityStore{}
	var self *domain.Tenant
	for i, t := range store.Tenants {
		if t.ID == tenantID {
			self = &store.Tenants[i]
			break
		}
	}
	if self == nil {
		return out, nil
	}
	out.Tenants = append(out.Tenants, *self)

	r := NewResolver(store)
	unit, err := r.UnitOf(*self)
	if err != nil {
		return EntityStore{}, err
	}
	out.Units = append(out.Units, unit)

	property, err := r.PropertyOf(unit)
	if err != nil {
		return EntityStore{}, err
	}
	out.Properties = append(out.Properties, redactProperty(property))

	for _, p := range store.Payments {
		if p.TenantID == tenantID {
			out.Payments = append(out.Payments, p)
		}
	}
	for _, req := range store.MaintenanceRequests {
		if req.TenantID == tenantID {
			out.MaintenanceRequests = append(out.MaintenanceRequests, req)
		}
	}
	for _, d := range store.Documents {
		if d.TenantID != nil && *d.TenantID == tenantID {
			out.Documents = append(out.Documents, d)
		}
	}
	for _, c := range store.Conversations {
		if c.Involves(tenantID) {
			out.Conversations = append(out.Conversations, c)
		}
	}
	out.Notifications = append(out.Notifications, store.Notifications...)
	return out, nil
}

// redactProperty strips the fields a tenant must not see: ownership,
// portfolio rent, and the due-date schedule belong to the landlord view.
func redactProperty(p domain.Property) domain.Property {
	return domain.Property{
		Base:      p.Base,
		Name:      p.Name,
		Address:   p.Address,
		Status:    p.Status,
		Amenities: p.Amenities,
	}
}
