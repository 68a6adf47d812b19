package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/models"
)

// expenseExclusions keeps the dashboard expense figures free of the
// categories that would double-count trip costs.
var expenseExclusions = []string{models.CategoryFuel, models.CategoryManagementFees}

// DashboardHandler aggregates the overview figures for the landing page.
type DashboardHandler struct {
	truckCollection   db.TruckCollection
	driverCollection  db.DriverCollection
	tripCollection    db.TripCollection
	financeCollection db.FinanceCollection
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(trucks db.TruckCollection, drivers db.DriverCollection, trips db.TripCollection, finances db.FinanceCollection) *DashboardHandler {
	return &DashboardHandler{
		truckCollection:   trucks,
		driverCollection:  drivers,
		tripCollection:    trips,
		financeCollection: finances,
	}
}

// Stats returns the fleet and finance headline numbers.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	truckCounts, err := h.truckCollection.CountTrucksByStatus(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	driverCounts, err := h.driverCollection.CountDriversByStatus(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tripCounts, err := h.tripCollection.CountTripsByStatus(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	income, err := h.financeCollection.SumAmounts(r.Context(), companyID, db.FinanceQuery{
		Type: models.FinanceIncome,
		From: &monthStart,
		To:   &monthEnd,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	expenses, err := h.financeCollection.SumAmounts(r.Context(), companyID, db.FinanceQuery{
		Type:              models.FinanceExpense,
		ExcludeCategories: expenseExclusions,
		From:              &monthStart,
		To:                &monthEnd,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	totalTrucks := 0
	for _, count := range truckCounts {
		totalTrucks += count
	}
	totalDrivers := 0
	for _, count := range driverCounts {
		totalDrivers += count
	}
	totalTrips := 0
	for _, count := range tripCounts {
		totalTrips += count
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"totalTrucks":      totalTrucks,
		"availableTrucks":  truckCounts[models.TruckAvailable],
		"trucksOnTrip":     truckCounts[models.TruckOnTrip],
		"trucksInMaintenance": truckCounts[models.TruckMaintenance],
		"totalDrivers":     totalDrivers,
		"availableDrivers": driverCounts[models.DriverAvailable],
		"totalTrips":       totalTrips,
		"activeTrips":      tripCounts[models.TripInProgress],
		"plannedTrips":     tripCounts[models.TripPlanned],
		"completedTrips":   tripCounts[models.TripCompleted],
		"monthlyIncome":    income,
		"monthlyExpenses":  expenses,
		"monthlyProfit":    income - expenses,
	})
}

// RecentTrips returns the latest created trips.
func (h *DashboardHandler) RecentTrips(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	limit := int64(5)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	trips, err := h.tripCollection.FindRecentTrips(r.Context(), companyID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

func yearParam(r *http.Request) int {
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil && year > 2000 && year < 3000 {
			return year
		}
	}
	return time.Now().Year()
}

// RevenueOverview returns the per-month income and expense totals of one
// year, twelve rows with zeroes for empty months.
func (h *DashboardHandler) RevenueOverview(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	year := yearParam(r)
	income, err := h.financeCollection.MonthlyTotals(r.Context(), companyID, year, db.FinanceQuery{
		Type: models.FinanceIncome,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	expenses, err := h.financeCollection.MonthlyTotals(r.Context(), companyID, year, db.FinanceQuery{
		Type:              models.FinanceExpense,
		ExcludeCategories: expenseExclusions,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	type monthRow struct {
		Month    int     `json:"month"`
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
	}
	overview := make([]monthRow, 0, 12)
	for month := 1; month <= 12; month++ {
		overview = append(overview, monthRow{
			Month:    month,
			Income:   income[month],
			Expenses: expenses[month],
		})
	}
	writeJSON(w, http.StatusOK, overview)
}

// FuelData returns the per-month fuel spend of one year.
func (h *DashboardHandler) FuelData(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	year := yearParam(r)
	fuel, err := h.financeCollection.MonthlyTotals(r.Context(), companyID, year, db.FinanceQuery{
		Type:     models.FinanceExpense,
		Category: models.CategoryFuel,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	type monthRow struct {
		Month int     `json:"month"`
		Fuel  float64 `json:"fuel"`
	}
	rows := make([]monthRow, 0, 12)
	for month := 1; month <= 12; month++ {
		rows = append(rows, monthRow{Month: month, Fuel: fuel[month]})
	}
	writeJSON(w, http.StatusOK, rows)
}
