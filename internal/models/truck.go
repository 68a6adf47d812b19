package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// TruckStatus is the availability state of a truck.
type TruckStatus string

const (
	TruckAvailable   TruckStatus = "available"
	TruckOnTrip      TruckStatus = "on-trip"
	TruckMaintenance TruckStatus = "maintenance"
)

// IsValidTruckStatus checks if a truck status is valid
func IsValidTruckStatus(s TruckStatus) bool {
	switch s {
	case TruckAvailable, TruckOnTrip, TruckMaintenance:
		return true
	default:
		return false
	}
}

// MonthlyExtraCosts groups the recurring per-truck cost buckets that are not
// tied to a single trip.
type MonthlyExtraCosts struct {
	LoadingCosts        float64 `bson:"loading_costs" json:"loadingCosts"`
	Challenge           float64 `bson:"challenge" json:"challenge"`
	OtherManagementFees float64 `bson:"other_management_fees" json:"otherManagementFees"`
	OtherFees           float64 `bson:"other_fees" json:"otherFees"`
}

// Truck represents a fleet truck.
type Truck struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CompanyID         primitive.ObjectID  `bson:"company_id" json:"companyId"`
	PlateNumber       string              `bson:"plate_number" json:"plateNumber"`
	Model             string              `bson:"model" json:"model"`
	Status            TruckStatus         `bson:"status" json:"status"`
	FuelLevel         float64             `bson:"fuel_level" json:"fuelLevel"` // 0-100
	Capacity          float64             `bson:"capacity" json:"capacity"`    // in liters
	LastMaintenance   time.Time           `bson:"last_maintenance" json:"lastMaintenance"`
	CurrentLocation   Location            `bson:"current_location" json:"currentLocation"`
	AssignedDriverID  *primitive.ObjectID `bson:"assigned_driver_id,omitempty" json:"assignedDriverId,omitempty"`
	MonthlyExtraCosts MonthlyExtraCosts   `bson:"monthly_extra_costs" json:"monthlyExtraCosts"`
	CreatedAt         time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updated_at" json:"updatedAt"`
}
