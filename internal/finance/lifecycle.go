package finance

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/models"
)

// TruckUpdate is one pending truck availability write.
type TruckUpdate struct {
	ID     primitive.ObjectID
	Status models.TruckStatus
}

// DriverUpdate is one pending driver availability write.
type DriverUpdate struct {
	ID     primitive.ObjectID
	Status models.DriverStatus
}

// Plan lists the truck and driver availability writes a trip mutation
// requires. The caller applies them as individual store writes, in order.
type Plan struct {
	Trucks  []TruckUpdate
	Drivers []DriverUpdate
}

func (p *Plan) occupy(truckID, driverID primitive.ObjectID) {
	p.Trucks = append(p.Trucks, TruckUpdate{ID: truckID, Status: models.TruckOnTrip})
	p.Drivers = append(p.Drivers, DriverUpdate{ID: driverID, Status: models.DriverOnTrip})
}

func (p *Plan) release(truckID, driverID primitive.ObjectID) {
	p.Trucks = append(p.Trucks, TruckUpdate{ID: truckID, Status: models.TruckAvailable})
	p.Drivers = append(p.Drivers, DriverUpdate{ID: driverID, Status: models.DriverAvailable})
}

// ValidateTransition rejects transitions out of terminal states. prev is
// empty for trip creation.
func ValidateTransition(prev, next models.TripStatus) error {
	if !models.IsValidTripStatus(next) {
		return apperr.Validation("Invalid trip status: %s", next)
	}
	if prev != "" && prev.IsTerminal() && next != prev {
		return apperr.Validation("Cannot change status of a %s trip", prev)
	}
	return nil
}

// TransitionPlan decides the truck/driver availability writes a status
// change requires. truckID and driverID are the trip's current assignments.
// For creation pass prev = "".
func TransitionPlan(prev, next models.TripStatus, truckID, driverID primitive.ObjectID) Plan {
	var plan Plan
	if next == prev {
		return plan
	}
	// Entering in-progress occupies both; leaving it into a terminal state
	// releases both. Every other transition has no side effect.
	if next == models.TripInProgress {
		plan.occupy(truckID, driverID)
	}
	if prev == models.TripInProgress && next.IsTerminal() {
		plan.release(truckID, driverID)
	}
	return plan
}

// ReassignmentPlan decides the writes required when a trip already
// in-progress swaps its truck and/or driver: the previous one is released
// and the replacement occupied. Outside in-progress a swap has no
// availability side effect.
func ReassignmentPlan(status models.TripStatus, oldTruckID, newTruckID, oldDriverID, newDriverID primitive.ObjectID) Plan {
	var plan Plan
	if status != models.TripInProgress {
		return plan
	}
	if newTruckID != oldTruckID && !newTruckID.IsZero() {
		plan.Trucks = append(plan.Trucks,
			TruckUpdate{ID: oldTruckID, Status: models.TruckAvailable},
			TruckUpdate{ID: newTruckID, Status: models.TruckOnTrip})
	}
	if newDriverID != oldDriverID && !newDriverID.IsZero() {
		plan.Drivers = append(plan.Drivers,
			DriverUpdate{ID: oldDriverID, Status: models.DriverAvailable},
			DriverUpdate{ID: newDriverID, Status: models.DriverOnTrip})
	}
	return plan
}

// ReleasePlan frees a trip's truck and driver, used when an in-progress
// trip is deleted.
func ReleasePlan(status models.TripStatus, truckID, driverID primitive.ObjectID) Plan {
	var plan Plan
	if status == models.TripInProgress {
		plan.release(truckID, driverID)
	}
	return plan
}
