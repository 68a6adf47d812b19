package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// DriverStatus is the availability state of a driver.
type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverOnTrip    DriverStatus = "on-trip"
	DriverOffDuty   DriverStatus = "off-duty"
)

// IsValidDriverStatus checks if a driver status is valid
func IsValidDriverStatus(s DriverStatus) bool {
	switch s {
	case DriverAvailable, DriverOnTrip, DriverOffDuty:
		return true
	default:
		return false
	}
}

// Driver represents a truck driver.
type Driver struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CompanyID  primitive.ObjectID  `bson:"company_id" json:"companyId"`
	Name       string              `bson:"name" json:"name"`
	Phone      string              `bson:"phone" json:"phone"`
	License    string              `bson:"license" json:"license"`
	Experience float64             `bson:"experience" json:"experience"` // in years
	Status     DriverStatus        `bson:"status" json:"status"`
	Avatar     string              `bson:"avatar" json:"avatar"`
	Salary     float64             `bson:"salary" json:"salary"`
	UserID     *primitive.ObjectID `bson:"user_id,omitempty" json:"userId,omitempty"`
	CreatedAt  time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updatedAt"`
}
