package finance

import (
	"fmt"
	"time"

	"github.com/alioucisse7/truck-management/internal/models"
)

// BuildTripLedger derives the finance records a trip produces on creation:
// one "trip-expenses" entry when the expense total is positive, one "fuel"
// entry when the fuel bucket is positive, and one "trip-revenue" income
// entry when amountET is non-zero.
//
// The fuel amount is counted twice on purpose: once inside "trip-expenses"
// and once as its own record. Summaries exclude the "fuel" category so it
// does not distort profit, and the dashboard reports it separately.
func BuildTripLedger(trip models.Trip, now time.Time) []models.FinanceRecord {
	var records []models.FinanceRecord

	tripID := trip.ID
	truckID := trip.TruckID
	driverID := trip.DriverID

	if total := TotalTripExpenses(trip); total > 0 {
		records = append(records, models.FinanceRecord{
			CompanyID:   trip.CompanyID,
			Type:        models.FinanceExpense,
			Category:    models.CategoryTripExpenses,
			Amount:      total,
			Date:        now,
			Description: fmt.Sprintf("Expenses for trip: %s to %s", trip.StartLocation, trip.Destination),
			TripID:      &tripID,
			TruckID:     &truckID,
			DriverID:    &driverID,
		})
	}

	if trip.Expenses.Fuel > 0 {
		records = append(records, models.FinanceRecord{
			CompanyID:   trip.CompanyID,
			Type:        models.FinanceExpense,
			Category:    models.CategoryFuel,
			Amount:      trip.Expenses.Fuel,
			Date:        now,
			Description: fmt.Sprintf("Expenses for fuel trip: %s to %s", trip.StartLocation, trip.Destination),
			TripID:      &tripID,
			TruckID:     &truckID,
			DriverID:    &driverID,
		})
	}

	if trip.AmountET != 0 {
		records = append(records, models.FinanceRecord{
			CompanyID:   trip.CompanyID,
			Type:        models.FinanceIncome,
			Category:    models.CategoryTripRevenue,
			Amount:      trip.AmountET,
			Date:        now,
			Description: fmt.Sprintf("Revenue from trip: %s to %s", trip.StartLocation, trip.Destination),
			TripID:      &tripID,
			TruckID:     &truckID,
			DriverID:    &driverID,
		})
	}

	return records
}
