package dashboard

import (
	"fmt"
	"time"

	"dwellacore/pkg/domain"
)

var fixtureEpoch = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func fixtureProperty(id, landlordID, name string, rent int64) domain.Property {
	return domain.Property{
		Base:        domain.Base{ID: id, CreatedAt: fixtureEpoch, UpdatedAt: fixtureEpoch},
		LandlordID:  landlordID,
		Name:        name,
		Address:     name + " street",
		MonthlyRent: rent,
		Status:      domain.PropertyStatusActive,
	}
}

func fixtureUnit(id, propertyID string, status domain.UnitStatus) domain.Unit {
	return domain.Unit{
		Base:       domain.Base{ID: id, CreatedAt: fixtureEpoch, UpdatedAt: fixtureEpoch},
		PropertyID: propertyID,
		UnitLabel:  id,
		Status:     status,
		RentStatus: domain.RentStatusPaid,
	}
}

// fixtureUnits builds n units for a property with the first occupied of them
// occupied and the rest vacant.
func fixtureUnits(propertyID string, n, occupied int) []domain.Unit {
	units := make([]domain.Unit, 0, n)
	for i := 0; i < n; i++ {
		status := domain.UnitStatusVacant
		if i < occupied {
			status = domain.UnitStatusOccupied
		}
		units = append(units, fixtureUnit(fmt.Sprintf("%s-u%02d", propertyID, i), propertyID, status))
	}
	return units
}

func fixturePayment(id, propertyID, tenantID string, amount int64, date time.Time, status domain.PaymentStatus) domain.PaymentRecord {
	return domain.PaymentRecord{
		Base:          domain.Base{ID: id, CreatedAt: date, UpdatedAt: date},
		TransactionID: "txn-" + id,
		PropertyID:    propertyID,
		TenantID:      tenantID,
		Amount:        amount,
		Date:          date,
		Method:        "transfer",
		Status:        status,
	}
}

func fixtureRequest(id, propertyID, unitID string, status domain.MaintenanceStatus) domain.MaintenanceRequest {
	return domain.MaintenanceRequest{
		Base:         domain.Base{ID: id, CreatedAt: fixtureEpoch, UpdatedAt: fixtureEpoch},
		PropertyID:   propertyID,
		UnitID:       unitID,
		TenantID:     "t-unknown",
		Type:         "plumbing",
		Priority:     domain.PriorityMedium,
		Status:       status,
		ReportedDate: fixtureEpoch,
	}
}

func fixtureNotification(apiID string, read bool) domain.Notification {
	return domain.Notification{
		Base:   domain.Base{ID: "local-" + apiID, CreatedAt: fixtureEpoch, UpdatedAt: fixtureEpoch},
		APIID:  apiID,
		Type:   domain.NotificationPayment,
		Title:  "payment received",
		Time:   fixtureEpoch,
		IsRead: read,
	}
}
