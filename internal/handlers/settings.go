package handlers

import (
	"errors"
	"net/http"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/models"
)

// SettingsHandler handles per-company preference requests.
type SettingsHandler struct {
	settingsCollection db.SettingsCollection
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings db.SettingsCollection) *SettingsHandler {
	return &SettingsHandler{settingsCollection: settings}
}

// Get returns the company's settings, creating the defaults on first access.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	settings, err := h.settingsCollection.FindSettings(r.Context(), companyID)
	if errors.Is(err, db.ErrSettingsNotFound) {
		settings, err = h.settingsCollection.InsertSettings(r.Context(), models.DefaultSettings(companyID))
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Update replaces the company's settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var settings models.Settings
	if err := decodeJSON(r, &settings); err != nil {
		writeError(w, r, err)
		return
	}

	if settings.FuelUnit != "" && settings.FuelUnit != "liter" && settings.FuelUnit != "gallon" {
		writeError(w, r, apperr.Validation("Invalid fuel unit: %s", settings.FuelUnit))
		return
	}
	if settings.DistanceUnit != "" && settings.DistanceUnit != "km" && settings.DistanceUnit != "mile" {
		writeError(w, r, apperr.Validation("Invalid distance unit: %s", settings.DistanceUnit))
		return
	}

	updated, err := h.settingsCollection.UpdateSettings(r.Context(), companyID, settings)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
