package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/finance"
	"github.com/alioucisse7/truck-management/internal/models"
)

// TripHandler handles trip requests and the availability and ledger side
// effects of trip mutations.
type TripHandler struct {
	tripCollection    db.TripCollection
	truckCollection   db.TruckCollection
	driverCollection  db.DriverCollection
	financeCollection db.FinanceCollection
}

// NewTripHandler creates a new trip handler
func NewTripHandler(trips db.TripCollection, trucks db.TruckCollection, drivers db.DriverCollection, finances db.FinanceCollection) *TripHandler {
	return &TripHandler{
		tripCollection:    trips,
		truckCollection:   trucks,
		driverCollection:  drivers,
		financeCollection: finances,
	}
}

// parseDateParam accepts RFC 3339 or plain yyyy-mm-dd values.
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, apperr.Validation("Invalid date: %s", value)
	}
	return &t, nil
}

// applyPlan writes the pending truck and driver availability flips.
func (h *TripHandler) applyPlan(ctx context.Context, plan finance.Plan) error {
	for _, update := range plan.Trucks {
		if err := h.truckCollection.UpdateTruckStatus(ctx, update.ID, update.Status); err != nil {
			return err
		}
	}
	for _, update := range plan.Drivers {
		if err := h.driverCollection.UpdateDriverStatus(ctx, update.ID, update.Status); err != nil {
			return err
		}
	}
	return nil
}

// List returns the company's trips. Drivers only see their own; managers can
// filter by ?status=, ?truckId=, ?driverId=, ?from= and ?to=.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	query := db.TripQuery{}
	query.Status = models.TripStatus(r.URL.Query().Get("status"))
	if query.Status != "" && !models.IsValidTripStatus(query.Status) {
		writeError(w, r, apperr.Validation("Invalid trip status: %s", query.Status))
		return
	}

	if truckID := r.URL.Query().Get("truckId"); truckID != "" {
		objectID, err := primitive.ObjectIDFromHex(truckID)
		if err != nil {
			writeError(w, r, apperr.Validation("Invalid truck ID"))
			return
		}
		query.TruckID = &objectID
	}
	if driverID := r.URL.Query().Get("driverId"); driverID != "" {
		objectID, err := primitive.ObjectIDFromHex(driverID)
		if err != nil {
			writeError(w, r, apperr.Validation("Invalid driver ID"))
			return
		}
		query.DriverID = &objectID
	}

	if query.From, err = parseDateParam(r.URL.Query().Get("from")); err != nil {
		writeError(w, r, err)
		return
	}
	if query.To, err = parseDateParam(r.URL.Query().Get("to")); err != nil {
		writeError(w, r, err)
		return
	}

	// A driver-role account is restricted to its own assignments
	if claims.Role == models.RoleDriver {
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			writeError(w, r, apperr.Validation("Invalid user ID"))
			return
		}
		driver, err := h.driverCollection.FindDriverByUserID(r.Context(), companyID, userID)
		if err != nil {
			writeJSON(w, http.StatusOK, []models.Trip{})
			return
		}
		query.DriverID = &driver.ID
	}

	trips, err := h.tripCollection.FindTrips(r.Context(), companyID, query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// Get returns one trip.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	trip, err := h.tripCollection.FindTripByID(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// validateRefs checks the assigned truck and driver exist inside the
// company and returns the truck for capacity-based derivations.
func (h *TripHandler) validateRefs(ctx context.Context, companyID primitive.ObjectID, trip models.Trip) (*models.Truck, error) {
	if trip.TruckID.IsZero() || trip.DriverID.IsZero() {
		return nil, apperr.Validation("Truck and driver are required")
	}
	truck, err := h.truckCollection.FindTruckByID(ctx, companyID, trip.TruckID.Hex())
	if err != nil {
		return nil, err
	}
	if _, err := h.driverCollection.FindDriverByID(ctx, companyID, trip.DriverID.Hex()); err != nil {
		return nil, err
	}
	return truck, nil
}

// Create plans a new trip. Entering in-progress marks the truck and driver
// on-trip, and the trip's derived ledger records are written alongside.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var trip models.Trip
	if err := decodeJSON(r, &trip); err != nil {
		writeError(w, r, err)
		return
	}

	if trip.StartLocation == "" || trip.Destination == "" {
		writeError(w, r, apperr.Validation("Start location and destination are required"))
		return
	}
	if trip.Status == "" {
		trip.Status = models.TripPlanned
	}
	if err := finance.ValidateTransition("", trip.Status); err != nil {
		writeError(w, r, err)
		return
	}
	if trip.CargoType != "" && !models.IsValidCargoType(trip.CargoType) {
		writeError(w, r, apperr.Validation("Invalid cargo type: %s", trip.CargoType))
		return
	}
	if trip.StartDate.IsZero() {
		trip.StartDate = time.Now()
	}

	truck, err := h.validateRefs(r.Context(), companyID, trip)
	if err != nil {
		writeError(w, r, err)
		return
	}

	trip.CompanyID = companyID
	finance.ResolveDerived(&trip, truck.Capacity)
	// Revenue starts as the billed amount; expenses are netted off on update
	trip.Revenue = trip.AmountET

	tripID, err := h.tripCollection.InsertTrip(r.Context(), trip)
	if err != nil {
		writeError(w, r, err)
		return
	}
	trip.ID = tripID

	if err := h.applyPlan(r.Context(), finance.TransitionPlan("", trip.Status, trip.TruckID, trip.DriverID)); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.financeCollection.InsertFinanceRecords(r.Context(), finance.BuildTripLedger(trip, time.Now())); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, trip)
}

// Update changes a trip. Status transitions flip truck and driver
// availability and reassignment while in-progress swaps them. Ledger records
// are written on creation and removed on deletion only; edits never touch
// them.
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	existing, err := h.tripCollection.FindTripByID(r.Context(), companyID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var trip models.Trip
	if err := decodeJSON(r, &trip); err != nil {
		writeError(w, r, err)
		return
	}

	if trip.Status == "" {
		trip.Status = existing.Status
	}
	if err := finance.ValidateTransition(existing.Status, trip.Status); err != nil {
		writeError(w, r, err)
		return
	}
	if trip.CargoType != "" && !models.IsValidCargoType(trip.CargoType) {
		writeError(w, r, apperr.Validation("Invalid cargo type: %s", trip.CargoType))
		return
	}
	if trip.TruckID.IsZero() {
		trip.TruckID = existing.TruckID
	}
	if trip.DriverID.IsZero() {
		trip.DriverID = existing.DriverID
	}
	if trip.StartLocation == "" {
		trip.StartLocation = existing.StartLocation
	}
	if trip.Destination == "" {
		trip.Destination = existing.Destination
	}
	if trip.StartDate.IsZero() {
		trip.StartDate = existing.StartDate
	}

	truck, err := h.validateRefs(r.Context(), companyID, trip)
	if err != nil {
		writeError(w, r, err)
		return
	}

	trip.CompanyID = companyID
	trip.CreatedAt = existing.CreatedAt
	finance.ResolveDerived(&trip, truck.Capacity)

	// Revenue is never client-settable: it becomes the trip's net result, or
	// keeps its stored value when the figures net out to zero
	trip.Revenue = existing.Revenue
	if profit := finance.TripProfit(trip); profit != 0 {
		trip.Revenue = profit
	}

	if err := h.tripCollection.UpdateTrip(r.Context(), companyID, id, trip); err != nil {
		writeError(w, r, err)
		return
	}
	trip.ID = existing.ID

	// Reassignment swaps the released and occupied pair before the status
	// transition applies its own flips
	reassign := finance.ReassignmentPlan(existing.Status, existing.TruckID, trip.TruckID, existing.DriverID, trip.DriverID)
	if err := h.applyPlan(r.Context(), reassign); err != nil {
		writeError(w, r, err)
		return
	}
	transition := finance.TransitionPlan(existing.Status, trip.Status, trip.TruckID, trip.DriverID)
	if err := h.applyPlan(r.Context(), transition); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// Delete removes a trip, releasing its truck and driver if it was running
// and cascading to its derived ledger records.
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	trip, err := h.tripCollection.FindTripByID(r.Context(), companyID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.tripCollection.DeleteTrip(r.Context(), companyID, id); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.applyPlan(r.Context(), finance.ReleasePlan(trip.Status, trip.TruckID, trip.DriverID)); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.financeCollection.DeleteFinanceRecordsByTrip(r.Context(), companyID, trip.ID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Trip deleted successfully"})
}
