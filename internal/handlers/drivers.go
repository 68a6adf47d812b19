package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/models"
)

// DriverHandler handles driver requests.
type DriverHandler struct {
	driverCollection db.DriverCollection
	tripCollection   db.TripCollection
}

// NewDriverHandler creates a new driver handler
func NewDriverHandler(drivers db.DriverCollection, trips db.TripCollection) *DriverHandler {
	return &DriverHandler{driverCollection: drivers, tripCollection: trips}
}

// List returns the company's drivers, optionally filtered by ?status=.
func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := models.DriverStatus(r.URL.Query().Get("status"))
	if status != "" && !models.IsValidDriverStatus(status) {
		writeError(w, r, apperr.Validation("Invalid driver status: %s", status))
		return
	}

	drivers, err := h.driverCollection.FindDrivers(r.Context(), companyID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, drivers)
}

// Get returns one driver.
func (h *DriverHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	driver, err := h.driverCollection.FindDriverByID(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, driver)
}

// Create adds a driver.
func (h *DriverHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var driver models.Driver
	if err := decodeJSON(r, &driver); err != nil {
		writeError(w, r, err)
		return
	}

	if driver.Name == "" {
		writeError(w, r, apperr.Validation("Name is required"))
		return
	}
	if driver.Status == "" {
		driver.Status = models.DriverAvailable
	}
	if !models.IsValidDriverStatus(driver.Status) {
		writeError(w, r, apperr.Validation("Invalid driver status: %s", driver.Status))
		return
	}

	driver.CompanyID = companyID
	id, err := h.driverCollection.InsertDriver(r.Context(), driver)
	if err != nil {
		writeError(w, r, err)
		return
	}
	driver.ID = id

	writeJSON(w, http.StatusCreated, driver)
}

// Update replaces a driver's fields.
func (h *DriverHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	existing, err := h.driverCollection.FindDriverByID(r.Context(), companyID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var driver models.Driver
	if err := decodeJSON(r, &driver); err != nil {
		writeError(w, r, err)
		return
	}

	if driver.Status == "" {
		driver.Status = existing.Status
	}
	if !models.IsValidDriverStatus(driver.Status) {
		writeError(w, r, apperr.Validation("Invalid driver status: %s", driver.Status))
		return
	}
	driver.CreatedAt = existing.CreatedAt

	if err := h.driverCollection.UpdateDriver(r.Context(), companyID, id, driver); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.driverCollection.FindDriverByID(r.Context(), companyID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a driver.
func (h *DriverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.driverCollection.DeleteDriver(r.Context(), companyID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Driver deleted successfully"})
}

// Trips returns the trips assigned to one driver, newest first.
func (h *DriverHandler) Trips(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	driver, err := h.driverCollection.FindDriverByID(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	trips, err := h.tripCollection.FindTrips(r.Context(), companyID, db.TripQuery{DriverID: &driver.ID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}
