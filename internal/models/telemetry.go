package models

import "time"

// TruckTelemetry is the payload trucks publish over MQTT. It carries only
// the fields the ingest is allowed to write back onto a truck.
type TruckTelemetry struct {
	TruckID   string    `json:"truckId"`
	Timestamp time.Time `json:"timestamp"`
	Location  Location  `json:"location"`
	FuelLevel float64   `json:"fuelLevel"` // 0-100
	Speed     float64   `json:"speed"`
}
