package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/export"
	"github.com/alioucisse7/truck-management/internal/models"
)

// FinanceHandler handles ledger requests and the summary views over them.
type FinanceHandler struct {
	financeCollection db.FinanceCollection
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(finances db.FinanceCollection) *FinanceHandler {
	return &FinanceHandler{financeCollection: finances}
}

func financeQueryFromRequest(r *http.Request) (db.FinanceQuery, error) {
	query := db.FinanceQuery{}

	query.Type = models.FinanceType(r.URL.Query().Get("type"))
	if query.Type != "" && !models.IsValidFinanceType(query.Type) {
		return query, apperr.Validation("Invalid finance type: %s", query.Type)
	}
	query.Category = r.URL.Query().Get("category")

	var err error
	if query.From, err = parseDateParam(r.URL.Query().Get("from")); err != nil {
		return query, err
	}
	if query.To, err = parseDateParam(r.URL.Query().Get("to")); err != nil {
		return query, err
	}
	return query, nil
}

// List returns the company's ledger records, optionally filtered by ?type=,
// ?category=, ?from= and ?to=.
func (h *FinanceHandler) List(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	query, err := financeQueryFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	records, err := h.financeCollection.FindFinanceRecords(r.Context(), companyID, query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Get returns one ledger record.
func (h *FinanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	record, err := h.financeCollection.FindFinanceRecordByID(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Create adds a manual ledger record.
func (h *FinanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var record models.FinanceRecord
	if err := decodeJSON(r, &record); err != nil {
		writeError(w, r, err)
		return
	}

	if !models.IsValidFinanceType(record.Type) {
		writeError(w, r, apperr.Validation("Invalid finance type: %s", record.Type))
		return
	}
	if record.Category == "" {
		writeError(w, r, apperr.Validation("Category is required"))
		return
	}
	if record.Date.IsZero() {
		record.Date = time.Now()
	}

	record.CompanyID = companyID
	id, err := h.financeCollection.InsertFinanceRecord(r.Context(), record)
	if err != nil {
		writeError(w, r, err)
		return
	}
	record.ID = id

	writeJSON(w, http.StatusCreated, record)
}

// Update replaces a ledger record.
func (h *FinanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	existing, err := h.financeCollection.FindFinanceRecordByID(r.Context(), companyID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var record models.FinanceRecord
	if err := decodeJSON(r, &record); err != nil {
		writeError(w, r, err)
		return
	}

	if record.Type == "" {
		record.Type = existing.Type
	}
	if !models.IsValidFinanceType(record.Type) {
		writeError(w, r, apperr.Validation("Invalid finance type: %s", record.Type))
		return
	}
	if record.Category == "" {
		record.Category = existing.Category
	}
	if record.Date.IsZero() {
		record.Date = existing.Date
	}
	record.CreatedAt = existing.CreatedAt

	if err := h.financeCollection.UpdateFinanceRecord(r.Context(), companyID, id, record); err != nil {
		writeError(w, r, err)
		return
	}
	record.ID = existing.ID
	record.CompanyID = companyID

	writeJSON(w, http.StatusOK, record)
}

// Delete removes a ledger record.
func (h *FinanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.financeCollection.DeleteFinanceRecord(r.Context(), companyID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Finance record deleted successfully"})
}

// Summary returns income, expenses and profit for the period. Fuel records
// are excluded from expenses: the fuel spend is already inside the
// trip-expenses records and would otherwise be counted twice.
func (h *FinanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	query, err := financeQueryFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	incomeQuery := query
	incomeQuery.Type = models.FinanceIncome
	income, err := h.financeCollection.SumAmounts(r.Context(), companyID, incomeQuery)
	if err != nil {
		writeError(w, r, err)
		return
	}

	expenseQuery := query
	expenseQuery.Type = models.FinanceExpense
	expenseQuery.ExcludeCategories = []string{models.CategoryFuel}
	expenses, err := h.financeCollection.SumAmounts(r.Context(), companyID, expenseQuery)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.FinanceSummary{
		Income:   income,
		Expenses: expenses,
		Profit:   income - expenses,
	})
}

// Categories returns the per-category totals for the period.
func (h *FinanceHandler) Categories(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	query, err := financeQueryFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	totals, err := h.financeCollection.CategoryTotals(r.Context(), companyID, query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// Export streams the period's ledger as an xlsx workbook.
func (h *FinanceHandler) Export(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	query, err := financeQueryFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	records, err := h.financeCollection.FindFinanceRecords(r.Context(), companyID, query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	workbook, err := export.FinanceWorkbook(records)
	if err != nil {
		writeError(w, r, apperr.Persistence(err))
		return
	}

	filename := fmt.Sprintf("finances-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := workbook.Write(w); err != nil {
		writeError(w, r, apperr.Persistence(err))
	}
}
