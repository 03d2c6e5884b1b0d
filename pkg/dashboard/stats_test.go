package dashboard

import (
	"testing"
	"time"

	"dwellacore/pkg/domain"
)

func TestComputePortfolioStatsOccupancy(t *testing.T) {
	properties := []domain.Property{
		fixtureProperty("p1", "l1", "Acacia Court", 500_000),
		fixtureProperty("p2", "l1", "Baobab Villas", 400_000),
		fixtureProperty("p3", "l1", "Cedar Heights", 300_000),
	}
	var units []domain.Unit
	units = append(units, fixtureUnits("p1", 20, 17)...)
	units = append(units, fixtureUnits("p2", 8, 7)...)
	units = append(units, fixtureUnits("p3", 6, 5)...)

	period := Period{Start: fixtureEpoch, End: fixtureEpoch.AddDate(0, 1, 0)}
	stats := ComputePortfolioStats(properties, units, nil, nil, period)
	if stats.TotalProperties != 3 {
		t.Fatalf("expected 3 properties, got %d", stats.TotalProperties)
	}
	if stats.TotalUnits != 34 {
		t.Fatalf("expected 34 units, got %d", stats.TotalUnits)
	}
	if stats.OccupancyPercent != 85 {
		t.Fatalf("29/34 must round to 85, got %d", stats.OccupancyPercent)
	}
}

func TestPeriodIsHalfOpen(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	period := Period{Start: start, End: end}

	payments := []domain.PaymentRecord{
		fixturePayment("pay1", "p1", "t1", 100, start, domain.PaymentStatusSuccess),
		fixturePayment("pay2", "p1", "t1", 200, end.Add(-time.Nanosecond), domain.PaymentStatusSuccess),
		fixturePayment("pay3", "p1", "t1", 400, end, domain.PaymentStatusSuccess),
		fixturePayment("pay4", "p1", "t1", 800, start.Add(-time.Nanosecond), domain.PaymentStatusSuccess),
		fixturePayment("pay5", "p1", "t1", 1600, start.AddDate(0, 0, 10), domain.PaymentStatusFailed),
	}
	stats := ComputePortfolioStats(nil, nil, payments, nil, period)
	// Start inclusive, end exclusive, failed payments excluded.
	if stats.RentCollected != 300 {
		t.Fatalf("expected 300 collected, got %d", stats.RentCollected)
	}
}

func TestUnitsUnderMaintenanceDedupes(t *testing.T) {
	requests := []domain.MaintenanceRequest{
		fixtureRequest("m1", "p1", "u1", domain.MaintenanceStatusInProgress),
		fixtureRequest("m2", "p1", "u1", domain.MaintenanceStatusInProgress),
		fixtureRequest("m3", "p1", "u2", domain.MaintenanceStatusInProgress),
		fixtureRequest("m4", "p1", "u3", domain.MaintenanceStatusNew),
		fixtureRequest("m5", "p1", "u4", domain.MaintenanceStatusResolved),
	}
	period := Period{Start: fixtureEpoch, End: fixtureEpoch.AddDate(0, 1, 0)}
	stats := ComputePortfolioStats(nil, nil, nil, requests, period)
	if stats.UnitsUnderMaintenance != 2 {
		t.Fatalf("two units have in-progress work, got %d", stats.UnitsUnderMaintenance)
	}
}

func TestComputePortfolioStatsOverdue(t *testing.T) {
	units := []domain.Unit{
		fixtureUnit("u1", "p1", domain.UnitStatusOccupied),
		fixtureUnit("u2", "p1", domain.UnitStatusOccupied),
		fixtureUnit("u3", "p1", domain.UnitStatusVacant),
	}
	units[0].RentStatus = domain.RentStatusOverdue
	units[0].MonthlyRent = 250_000
	units[1].RentStatus = domain.RentStatusOverdue
	units[1].MonthlyRent = 150_000

	period := Period{Start: fixtureEpoch, End: fixtureEpoch.AddDate(0, 1, 0)}
	stats := ComputePortfolioStats(nil, units, nil, nil, period)
	if stats.OverdueCount != 2 {
		t.Fatalf("expected 2 overdue units, got %d", stats.OverdueCount)
	}
	if stats.OverdueAmount != 400_000 {
		t.Fatalf("expected 400000 overdue, got %d", stats.OverdueAmount)
	}
}

func TestComputePropertyStatsScopes(t *testing.T) {
	var units []domain.Unit
	units = append(units, fixtureUnits("p1", 4, 2)...)
	units = append(units, fixtureUnits("p2", 10, 10)...)
	payments := []domain.PaymentRecord{
		fixturePayment("pay1", "p1", "t1", 100, fixtureEpoch, domain.PaymentStatusSuccess),
		fixturePayment("pay2", "p2", "t2", 999, fixtureEpoch, domain.PaymentStatusSuccess),
	}
	requests := []domain.MaintenanceRequest{
		fixtureRequest("m1", "p1", "p1-u00", domain.MaintenanceStatusInProgress),
		fixtureRequest("m2", "p2", "p2-u00", domain.MaintenanceStatusInProgress),
	}
	period := Period{Start: fixtureEpoch, End: fixtureEpoch.AddDate(0, 1, 0)}

	stats := ComputePropertyStats("p1", units, payments, requests, period)
	if stats.TotalUnits != 4 || stats.OccupancyPercent != 50 {
		t.Fatalf("expected 4 units at 50%%, got %+v", stats)
	}
	if stats.RentCollected != 100 {
		t.Fatalf("payments from other properties leaked in: %d", stats.RentCollected)
	}
	if stats.UnitsUnderMaintenance != 1 {
		t.Fatalf("requests from other properties leaked in: %d", stats.UnitsUnderMaintenance)
	}
}

func TestRoundPercent(t *testing.T) {
	cases := []struct {
		part, whole, want int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{10, 10, 100},
		{29, 34, 85},
		{1, 8, 13},  // 12.5 rounds half up
		{1, 3, 33},  // 33.33 rounds down
		{2, 3, 67},  // 66.67 rounds up
		{5, 200, 3}, // 2.5 rounds half up
	}
	for _, tc := range cases {
		if got := roundPercent(tc.part, tc.whole); got != tc.want {
			t.Errorf("roundPercent(%d, %d) = %d, want %d", tc.part, tc.whole, got, tc.want)
		}
	}
}

func TestOccupancyByProperty(t *testing.T) {
	var units []domain.Unit
	units = append(units, fixtureUnits("p1", 3, 3)...)
	units = append(units, fixtureUnits("p2", 4, 1)...)

	occ := OccupancyByProperty(units)
	if occ["p1"] != 100 || occ["p2"] != 25 {
		t.Fatalf("unexpected occupancy map: %v", occ)
	}
	counts := UnitCountByProperty(units)
	if counts["p1"] != 3 || counts["p2"] != 4 {
		t.Fatalf("unexpected count map: %v", counts)
	}
}
