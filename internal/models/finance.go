package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// FinanceType distinguishes ledger entries.
type FinanceType string

const (
	FinanceIncome  FinanceType = "income"
	FinanceExpense FinanceType = "expense"
)

// IsValidFinanceType checks if a finance type is valid
func IsValidFinanceType(t FinanceType) bool {
	return t == FinanceIncome || t == FinanceExpense
}

// Ledger categories written as side effects of trip mutations. Category is
// otherwise free text for manually created records.
const (
	CategoryTripExpenses   = "trip-expenses"
	CategoryFuel           = "fuel"
	CategoryTripRevenue    = "trip-revenue"
	CategoryManagementFees = "Management Fees"
)

// FinanceRecord is one income or expense entry in the company ledger.
// Trip-derived records keep links back to the trip, truck and driver so they
// can be cascade-deleted with the trip.
type FinanceRecord struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CompanyID   primitive.ObjectID  `bson:"company_id" json:"companyId"`
	Type        FinanceType         `bson:"type" json:"type"`
	Category    string              `bson:"category" json:"category"`
	Amount      float64             `bson:"amount" json:"amount"`
	Date        time.Time           `bson:"date" json:"date"`
	Description string              `bson:"description" json:"description"`
	TripID      *primitive.ObjectID `bson:"trip_id,omitempty" json:"tripId,omitempty"`
	TruckID     *primitive.ObjectID `bson:"truck_id,omitempty" json:"truckId,omitempty"`
	DriverID    *primitive.ObjectID `bson:"driver_id,omitempty" json:"driverId,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`
}

// CategoryTotal is one row of the per-category finance breakdown.
type CategoryTotal struct {
	Type     FinanceType `bson:"type" json:"type"`
	Category string      `bson:"category" json:"category"`
	Total    float64     `bson:"total" json:"total"`
	Count    int         `bson:"count" json:"count"`
}

// FinanceSummary is the aggregate income/expense/profit view for a period.
type FinanceSummary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}
