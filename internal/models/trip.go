package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripPlanned    TripStatus = "planned"
	TripInProgress TripStatus = "in-progress"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
)

// IsValidTripStatus checks if a trip status is valid
func IsValidTripStatus(s TripStatus) bool {
	switch s {
	case TripPlanned, TripInProgress, TripCompleted, TripCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further status transition is allowed.
func (s TripStatus) IsTerminal() bool {
	return s == TripCompleted || s == TripCancelled
}

// CargoType is the kind of liquid cargo hauled on a trip.
type CargoType string

const (
	CargoFuel   CargoType = "fuel"
	CargoDiesel CargoType = "diesel"
	CargoMazout CargoType = "mazout"
)

// IsValidCargoType checks if a cargo type is valid
func IsValidCargoType(c CargoType) bool {
	switch c {
	case CargoFuel, CargoDiesel, CargoMazout:
		return true
	default:
		return false
	}
}

// TripExpenses groups the direct expense buckets of a trip.
type TripExpenses struct {
	Fuel        float64 `bson:"fuel" json:"fuel"`
	Tolls       float64 `bson:"tolls" json:"tolls"`
	Maintenance float64 `bson:"maintenance" json:"maintenance"`
	Other       float64 `bson:"other" json:"other"`
}

// Trip represents a haul from a start location to a destination, with the
// billing fields the finance calculations derive from.
type Trip struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID     primitive.ObjectID `bson:"company_id" json:"companyId"`
	StartLocation string             `bson:"start_location" json:"startLocation"`
	Destination   string             `bson:"destination" json:"destination"`
	StartDate     time.Time          `bson:"start_date" json:"startDate"`
	EndDate       *time.Time         `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Status        TripStatus         `bson:"status" json:"status"`
	TruckID       primitive.ObjectID `bson:"truck_id" json:"truckId"`
	DriverID      primitive.ObjectID `bson:"driver_id" json:"driverId"`
	CargoType     CargoType          `bson:"cargo_type" json:"cargoType"`
	Distance      float64            `bson:"distance" json:"distance"` // in kilometers
	FuelConsumed  float64            `bson:"fuel_consumed" json:"fuelConsumed"`
	Revenue       float64            `bson:"revenue" json:"revenue"`
	Expenses      TripExpenses       `bson:"expenses" json:"expenses"`

	// Billing fields. AmountET and Mtqs are stored but derivable: amountET
	// from truck capacity x equalization, mtqs from liters x price per liter.
	NumBL                 int     `bson:"num_bl" json:"numBL"`
	Equalization          float64 `bson:"equalization" json:"equalization"`
	AmountET              float64 `bson:"amount_et" json:"amountET"`
	Mtqs                  float64 `bson:"mtqs" json:"mtqs"`
	MtqsLiters            float64 `bson:"mtqs_liters" json:"mtqsLiters"`
	PricePerLiter         float64 `bson:"price_per_liter" json:"pricePerLiter"`
	MissionFees           float64 `bson:"mission_fees" json:"missionFees"`
	ManagementFeesPercent float64 `bson:"management_fees_percent" json:"managementFeesPercent"` // 0-100

	Observ    string    `bson:"observ" json:"observ"`
	Notes     string    `bson:"notes" json:"notes"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
