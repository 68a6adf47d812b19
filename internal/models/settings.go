package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// NotificationSettings are the per-company notification toggles.
type NotificationSettings struct {
	Email bool `bson:"email" json:"email"`
	SMS   bool `bson:"sms" json:"sms"`
}

// Settings is the per-company preference record. Created with defaults on
// first access when a company has none yet.
type Settings struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CompanyID            primitive.ObjectID   `bson:"company_id" json:"companyId"`
	DefaultCurrency      string               `bson:"default_currency" json:"defaultCurrency"`
	Language             string               `bson:"language" json:"language"`
	NotificationSettings NotificationSettings `bson:"notification_settings" json:"notificationSettings"`
	FuelUnit             string               `bson:"fuel_unit" json:"fuelUnit"`         // "gallon" or "liter"
	DistanceUnit         string               `bson:"distance_unit" json:"distanceUnit"` // "km" or "mile"
	UpdatedAt            time.Time            `bson:"updated_at" json:"updatedAt"`
}

// DefaultSettings returns the settings a company starts with.
func DefaultSettings(companyID primitive.ObjectID) Settings {
	return Settings{
		CompanyID:            companyID,
		DefaultCurrency:      "USD",
		Language:             "en",
		NotificationSettings: NotificationSettings{Email: true, SMS: false},
		FuelUnit:             "liter",
		DistanceUnit:         "km",
		UpdatedAt:            time.Now(),
	}
}
