package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/models"
)

// TruckHandler handles fleet truck requests.
type TruckHandler struct {
	truckCollection db.TruckCollection
}

// NewTruckHandler creates a new truck handler
func NewTruckHandler(trucks db.TruckCollection) *TruckHandler {
	return &TruckHandler{truckCollection: trucks}
}

// List returns the company's trucks, optionally filtered by ?status=.
func (h *TruckHandler) List(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := models.TruckStatus(r.URL.Query().Get("status"))
	if status != "" && !models.IsValidTruckStatus(status) {
		writeError(w, r, apperr.Validation("Invalid truck status: %s", status))
		return
	}

	trucks, err := h.truckCollection.FindTrucks(r.Context(), companyID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trucks)
}

// Get returns one truck.
func (h *TruckHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	truck, err := h.truckCollection.FindTruckByID(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, truck)
}

// Create adds a truck to the fleet.
func (h *TruckHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var truck models.Truck
	if err := decodeJSON(r, &truck); err != nil {
		writeError(w, r, err)
		return
	}

	if truck.PlateNumber == "" {
		writeError(w, r, apperr.Validation("Plate number is required"))
		return
	}
	if truck.Status == "" {
		truck.Status = models.TruckAvailable
	}
	if !models.IsValidTruckStatus(truck.Status) {
		writeError(w, r, apperr.Validation("Invalid truck status: %s", truck.Status))
		return
	}

	truck.CompanyID = companyID
	id, err := h.truckCollection.InsertTruck(r.Context(), truck)
	if err != nil {
		writeError(w, r, err)
		return
	}
	truck.ID = id

	writeJSON(w, http.StatusCreated, truck)
}

// Update replaces a truck's fields.
func (h *TruckHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	existing, err := h.truckCollection.FindTruckByID(r.Context(), companyID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var truck models.Truck
	if err := decodeJSON(r, &truck); err != nil {
		writeError(w, r, err)
		return
	}

	if truck.Status == "" {
		truck.Status = existing.Status
	}
	if !models.IsValidTruckStatus(truck.Status) {
		writeError(w, r, apperr.Validation("Invalid truck status: %s", truck.Status))
		return
	}
	truck.CreatedAt = existing.CreatedAt

	if err := h.truckCollection.UpdateTruck(r.Context(), companyID, id, truck); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.truckCollection.FindTruckByID(r.Context(), companyID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a truck from the fleet.
func (h *TruckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.truckCollection.DeleteTruck(r.Context(), companyID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Truck deleted successfully"})
}
