package dashboard

import (
	"time"

	"dwellacore/pkg/domain"
)

// Period is a half-open date range: Start is inclusive, End exclusive.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// PortfolioStats summarizes a landlord's whole portfolio for the overview
// screen. Currency fields are minor units; formatting to major units is the
// presentation layer's job.
type PortfolioStats struct {
	TotalProperties       int   `json:"total_properties"`
	TotalUnits            int   `json:"total_units"`
	UnitsUnderMaintenance int   `json:"units_under_maintenance"`
	OccupancyPercent      int   `json:"occupancy_percent"`
	RentCollected         int64 `json:"rent_collected"`
	OverdueAmount         int64 `json:"overdue_amount"`
	OverdueCount          int   `json:"overdue_count"`
}

// PropertyStats carries the same aggregates scoped to a single property.
type PropertyStats struct {
	TotalUnits            int   `json:"total_units"`
	UnitsUnderMaintenance int   `json:"units_under_maintenance"`
	OccupancyPercent      int   `json:"occupancy_percent"`
	RentCollected         int64 `json:"rent_collected"`
	OverdueAmount         int64 `json:"overdue_amount"`
	OverdueCount          int   `json:"overdue_count"`
}

// ComputePortfolioStats derives portfolio aggregates from raw collections.
// Rent collected sums successful payments dated within the period. Overdue
// figures come from unit rent status, not from the payment log: overdue is a
// unit-level flag meaning no successful payment covered the current cycle.
func ComputePortfolioStats(properties []domain.Property, units []domain.Unit, payments []domain.PaymentRecord, requests []domain.MaintenanceRequest, period Period) PortfolioStats {
	agg := aggregateUnits(units, payments, requests, period)
	return PortfolioStats{
		TotalProperties:       len(properties),
		TotalUnits:            agg.totalUnits,
		UnitsUnderMaintenance: agg.underMaintenance,
		OccupancyPercent:      agg.occupancyPercent,
		RentCollected:         agg.rentCollected,
		OverdueAmount:         agg.overdueAmount,
		OverdueCount:          agg.overdueCount,
	}
}

// ComputePropertyStats derives the same aggregates scoped to one property.
func ComputePropertyStats(propertyID string, units []domain.Unit, payments []domain.PaymentRecord, requests []domain.MaintenanceRequest, period Period) PropertyStats {
	scopedUnits := make([]domain.Unit, 0, len(units))
	for _, u := range units {
		if u.PropertyID == propertyID {
			scopedUnits = append(scopedUnits, u)
		}
	}
	scopedPayments := make([]domain.PaymentRecord, 0, len(payments))
	for _, p := range payments {
		if p.PropertyID == propertyID {
			scopedPayments = append(scopedPayments, p)
		}
	}
	scopedRequests := make([]domain.MaintenanceRequest, 0, len(requests))
	for _, r := range requests {
		if r.PropertyID == propertyID {
			scopedRequests = append(scopedRequests, r)
		}
	}
	agg := aggregateUnits(scopedUnits, scopedPayments, scopedRequests, period)
	return PropertyStats{
		TotalUnits:            agg.totalUnits,
		UnitsUnderMaintenance: agg.underMaintenance,
		OccupancyPercent:      agg.occupancyPercent,
		RentCollected:         agg.rentCollected,
		OverdueAmount:         agg.overdueAmount,
		OverdueCount:          agg.overdueCount,
	}
}

// OccupancyPercent derives occupancy from unit statuses, rounded half-up.
// Occupancy is never read from a stored field; unit status counts are the
// source of truth.
func OccupancyPercent(units []domain.Unit) int {
	occupied := 0
	for _, u := range units {
		if u.Status == domain.UnitStatusOccupied {
			occupied++
		}
	}
	return roundPercent(occupied, len(units))
}

// OccupancyByProperty derives per-property occupancy for list sorting.
func OccupancyByProperty(units []domain.Unit) map[string]int {
	occupied := make(map[string]int)
	total := make(map[string]int)
	for _, u := range units {
		total[u.PropertyID]++
		if u.Status == domain.UnitStatusOccupied {
			occupied[u.PropertyID]++
		}
	}
	out := make(map[string]int, len(total))
	for id, n := range total {
		out[id] = roundPercent(occupied[id], n)
	}
	return out
}

// UnitCountByProperty derives per-property unit counts.
func UnitCountByProperty(units []domain.Unit) map[string]int {
	out := make(map[string]int)
	for _, u := range units {
		out[u.PropertyID]++
	}
	return out
}

type unitAggregates struct {
	totalUnits       int
	underMaintenance int
	occupancyPercent int
	rentCollected    int64
	overdueAmount    int64
	overdueCount     int
}

func aggregateUnits(units []domain.Unit, payments []domain.PaymentRecord, requests []domain.MaintenanceRequest, period Period) unitAggregates {
	agg := unitAggregates{totalUnits: len(units)}
	occupied := 0
	for _, u := range units {
		if u.Status == domain.UnitStatusOccupied {
			occupied++
		}
		if u.RentStatus == domain.RentStatusOverdue {
			agg.overdueCount++
			agg.overdueAmount += u.MonthlyRent
		}
	}
	agg.occupancyPercent = roundPercent(occupied, len(units))

	for _, p := range payments {
		if p.Status == domain.PaymentStatusSuccess && period.Contains(p.Date) {
			agg.rentCollected += p.Amount
		}
	}

	// A unit with several concurrent in-progress requests counts once.
	inProgress := make(map[string]struct{})
	for _, r := range requests {
		if r.Status == domain.MaintenanceStatusInProgress {
			inProgress[r.UnitID] = struct{}{}
		}
	}
	agg.underMaintenance = len(inProgress)
	return agg
}

// roundPercent computes part/whole as a percentage rounded half-up using
// integer arithmetic only, avoiding float drift.
func roundPercent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return (part*100*2 + whole) / (2 * whole)
}
