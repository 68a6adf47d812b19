package handlers

import (
	"net/http"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/models"
)

// CompanyHandler handles company profile requests.
type CompanyHandler struct {
	companyCollection db.CompanyCollection
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companies db.CompanyCollection) *CompanyHandler {
	return &CompanyHandler{companyCollection: companies}
}

// Get returns the caller's company profile.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	company, err := h.companyCollection.FindCompanyByID(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

// Update replaces the caller's company profile.
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	existing, err := h.companyCollection.FindCompanyByID(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var company models.Company
	if err := decodeJSON(r, &company); err != nil {
		writeError(w, r, err)
		return
	}

	if company.Name == "" {
		writeError(w, r, apperr.Validation("Company name is required"))
		return
	}
	company.CreatedAt = existing.CreatedAt

	if err := h.companyCollection.UpdateCompany(r.Context(), companyID, company); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.companyCollection.FindCompanyByID(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
