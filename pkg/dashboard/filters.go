package dashboard

import (
	"strings"
	"time"

	"dwellacore/pkg/domain"
)

// Named predicates and comparators for the dashboard's list screens. These
// compose into Spec values; none of them closes over mutable state, so a
// built Spec stays valid for the lifetime of the snapshot it targets.

// PropertyStatusIs matches properties in the given lifecycle state.
func PropertyStatusIs(status domain.PropertyStatus) Predicate[domain.Property] {
	return func(p domain.Property) bool { return p.Status == status }
}

// PropertyNameContains matches properties whose name or address contains the
// query, case-insensitively. An empty query matches everything.
func PropertyNameContains(query string) Predicate[domain.Property] {
	q := strings.ToLower(query)
	return func(p domain.Property) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Address), q)
	}
}

// UnitStatusIs matches units in the given occupancy state.
func UnitStatusIs(status domain.UnitStatus) Predicate[domain.Unit] {
	return func(u domain.Unit) bool { return u.Status == status }
}

// UnitRentStatusIs matches units by rent status.
func UnitRentStatusIs(status domain.RentStatus) Predicate[domain.Unit] {
	return func(u domain.Unit) bool { return u.RentStatus == status }
}

// UnitHasAmenity matches units listing the amenity. Comparison is exact; the
// amenity vocabulary is controlled upstream.
func UnitHasAmenity(amenity string) Predicate[domain.Unit] {
	return func(u domain.Unit) bool {
		for _, a := range u.Amenities {
			if a == amenity {
				return true
			}
		}
		return false
	}
}

// UnitInProperty matches units belonging to the property.
func UnitInProperty(propertyID string) Predicate[domain.Unit] {
	return func(u domain.Unit) bool { return u.PropertyID == propertyID }
}

// PaymentSucceeded matches successful payments.
func PaymentSucceeded() Predicate[domain.PaymentRecord] {
	return func(p domain.PaymentRecord) bool { return p.Status == domain.PaymentStatusSuccess }
}

// PaymentInPeriod matches payments dated within the half-open period.
func PaymentInPeriod(period Period) Predicate[domain.PaymentRecord] {
	return func(p domain.PaymentRecord) bool { return period.Contains(p.Date) }
}

// RequestStatusIs matches maintenance requests in the given workflow state.
func RequestStatusIs(status domain.MaintenanceStatus) Predicate[domain.MaintenanceRequest] {
	return func(r domain.MaintenanceRequest) bool { return r.Status == status }
}

// RequestPriorityIs matches maintenance requests by priority.
func RequestPriorityIs(priority domain.MaintenancePriority) Predicate[domain.MaintenanceRequest] {
	return func(r domain.MaintenanceRequest) bool { return r.Priority == priority }
}

// DocumentCategoryIs matches documents by category.
func DocumentCategoryIs(category domain.DocumentCategory) Predicate[domain.Document] {
	return func(d domain.Document) bool { return d.Category == category }
}

// NotificationTypeIs matches notifications by category.
func NotificationTypeIs(t domain.NotificationType) Predicate[domain.Notification] {
	return func(n domain.Notification) bool { return n.Type == t }
}

// NotificationUnread matches notifications not yet marked read.
func NotificationUnread() Predicate[domain.Notification] {
	return func(n domain.Notification) bool { return !n.IsRead }
}

// PropertiesByName orders properties alphabetically by name.
func PropertiesByName() Comparator[domain.Property] {
	return func(a, b domain.Property) int { return strings.Compare(a.Name, b.Name) }
}

// PropertiesByRentDesc orders properties by monthly rent, highest first.
func PropertiesByRentDesc() Comparator[domain.Property] {
	return func(a, b domain.Property) int { return compareInt64(b.MonthlyRent, a.MonthlyRent) }
}

// PropertiesByOccupancy orders properties by derived occupancy, highest
// first. Occupancy comes from the unit snapshot at comparator construction,
// so the comparator and the snapshot it sorts must match.
func PropertiesByOccupancy(units []domain.Unit) Comparator[domain.Property] {
	occupancy := OccupancyByProperty(units)
	return func(a, b domain.Property) int { return occupancy[b.ID] - occupancy[a.ID] }
}

// PropertiesByUnitCount orders properties by derived unit count, highest first.
func PropertiesByUnitCount(units []domain.Unit) Comparator[domain.Property] {
	counts := UnitCountByProperty(units)
	return func(a, b domain.Property) int { return counts[b.ID] - counts[a.ID] }
}

// UnitsByLabel orders units alphabetically by label.
func UnitsByLabel() Comparator[domain.Unit] {
	return func(a, b domain.Unit) int { return strings.Compare(a.UnitLabel, b.UnitLabel) }
}

// UnitsByRentDesc orders units by monthly rent, highest first.
func UnitsByRentDesc() Comparator[domain.Unit] {
	return func(a, b domain.Unit) int { return compareInt64(b.MonthlyRent, a.MonthlyRent) }
}

// PaymentsByDateDesc orders payments newest first.
func PaymentsByDateDesc() Comparator[domain.PaymentRecord] {
	return func(a, b domain.PaymentRecord) int { return compareTimeDesc(a.Date, b.Date) }
}

// RequestsByReportedDesc orders maintenance requests newest first.
func RequestsByReportedDesc() Comparator[domain.MaintenanceRequest] {
	return func(a, b domain.MaintenanceRequest) int { return compareTimeDesc(a.ReportedDate, b.ReportedDate) }
}

// NotificationsByTimeDesc orders notifications newest first.
func NotificationsByTimeDesc() Comparator[domain.Notification] {
	return func(a, b domain.Notification) int { return compareTimeDesc(a.Time, b.Time) }
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTimeDesc(a, b time.Time) int {
	switch {
	case a.After(b):
		return -1
	case b.After(a):
		return 1
	default:
		return 0
	}
}
