package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alioucisse7/truck-management/internal/models"
)

func setupInvoiceHandler(t *testing.T) (*InvoiceHandler, *MockInvoiceCollection, *MockTripCollection, *MockCompanyCollection) {
	t.Helper()

	invoices := new(MockInvoiceCollection)
	trips := new(MockTripCollection)
	companies := new(MockCompanyCollection)
	return NewInvoiceHandler(invoices, trips, companies), invoices, trips, companies
}

func TestInvoiceCreate_ClaimsNumberAndRecomputesTotals(t *testing.T) {
	handler, invoices, _, _ := setupInvoiceHandler(t)

	companyID := primitive.NewObjectID()
	invoiceID := primitive.NewObjectID()
	year := time.Now().Year()

	invoices.On("NextInvoiceSequence", mock.Anything, companyID, year).Return(7, nil)
	invoices.On("InsertInvoice", mock.Anything, mock.MatchedBy(func(inv models.Invoice) bool {
		return inv.CompanyID == companyID &&
			inv.Subtotal == 200000 && inv.TaxAmount == 36000 && inv.TotalAmount == 236000
	})).Return(invoiceID, nil)

	body := models.Invoice{
		ClientName: "SOGEL SA",
		TaxRate:    18,
		Items: []models.InvoiceItem{
			{Description: "Transport service", Quantity: 1, UnitPrice: 200000, Amount: 200000},
		},
		// Client-sent totals must be ignored
		Subtotal:    1,
		TotalAmount: 1,
	}
	req := authedRequest(t, http.MethodPost, "/api/invoices", body, managerClaims(companyID))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Invoice
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, invoiceID, created.ID)
	assert.Regexp(t, `^\d{4}-0007$`, created.InvoiceNumber)
	assert.Equal(t, models.InvoiceDraft, created.Status)
	assert.False(t, created.DueDate.IsZero())
	invoices.AssertExpectations(t)
}

func TestInvoiceCreate_RequiresItems(t *testing.T) {
	handler, invoices, _, _ := setupInvoiceHandler(t)

	body := models.Invoice{ClientName: "SOGEL SA"}
	req := authedRequest(t, http.MethodPost, "/api/invoices", body, managerClaims(primitive.NewObjectID()))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	invoices.AssertNotCalled(t, "NextInvoiceSequence", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceUpdate_NumberIsImmutable(t *testing.T) {
	handler, invoices, _, _ := setupInvoiceHandler(t)

	companyID := primitive.NewObjectID()
	invoiceID := primitive.NewObjectID()

	invoices.On("FindInvoiceByID", mock.Anything, companyID, invoiceID.Hex()).Return(&models.Invoice{
		ID:            invoiceID,
		CompanyID:     companyID,
		InvoiceNumber: "2026-0003",
		ClientName:    "SOGEL SA",
		IssueDate:     time.Now(),
		DueDate:       time.Now().AddDate(0, 1, 0),
		Items:         []models.InvoiceItem{{Description: "Transport service", Quantity: 1, UnitPrice: 100000, Amount: 100000}},
		Status:        models.InvoiceDraft,
	}, nil)
	invoices.On("UpdateInvoice", mock.Anything, companyID, invoiceID.Hex(), mock.MatchedBy(func(inv models.Invoice) bool {
		return inv.InvoiceNumber == "2026-0003" && inv.Status == models.InvoiceSent
	})).Return(nil)

	body := map[string]any{"status": "sent", "invoiceNumber": "9999-0001"}
	req := withURLParam(
		authedRequest(t, http.MethodPut, "/api/invoices/"+invoiceID.Hex(), body, managerClaims(companyID)),
		"id", invoiceID.Hex())
	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Invoice
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.Equal(t, "2026-0003", updated.InvoiceNumber)
	invoices.AssertExpectations(t)
}

func TestGenerateFromTrips_NoCompletedTrips(t *testing.T) {
	handler, invoices, trips, _ := setupInvoiceHandler(t)

	companyID := primitive.NewObjectID()
	trips.On("FindCompletedTrips", mock.Anything, companyID, mock.Anything, mock.Anything).
		Return([]models.Trip{}, nil)

	body := map[string]any{
		"startDate":  "2026-01-01",
		"endDate":    "2026-01-31",
		"clientName": "SOGEL SA",
	}
	req := authedRequest(t, http.MethodPost, "/api/invoices/generate-from-trips", body, managerClaims(companyID))
	rec := httptest.NewRecorder()
	handler.GenerateFromTrips(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No completed trips found")
	invoices.AssertNotCalled(t, "InsertInvoice", mock.Anything, mock.Anything)
}

func TestGenerateFromTrips_OneItemPerTrip(t *testing.T) {
	handler, invoices, trips, _ := setupInvoiceHandler(t)

	companyID := primitive.NewObjectID()
	invoiceID := primitive.NewObjectID()
	year := time.Now().Year()

	completed := []models.Trip{
		{ID: primitive.NewObjectID(), StartLocation: "Conakry", Destination: "Kankan", AmountET: 500000},
		{ID: primitive.NewObjectID(), StartLocation: "Conakry", Destination: "Labé", AmountET: 300000},
	}
	trips.On("FindCompletedTrips", mock.Anything, companyID, mock.Anything, mock.Anything).Return(completed, nil)
	invoices.On("NextInvoiceSequence", mock.Anything, companyID, year).Return(1, nil)
	invoices.On("InsertInvoice", mock.Anything, mock.MatchedBy(func(inv models.Invoice) bool {
		return len(inv.Items) == 2 && inv.Subtotal == 800000 && inv.Status == models.InvoiceDraft
	})).Return(invoiceID, nil)

	body := map[string]any{
		"startDate":  "2026-01-01",
		"endDate":    "2026-01-31",
		"clientName": "SOGEL SA",
		"taxRate":    0,
	}
	req := authedRequest(t, http.MethodPost, "/api/invoices/generate-from-trips", body, managerClaims(companyID))
	rec := httptest.NewRecorder()
	handler.GenerateFromTrips(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	invoices.AssertExpectations(t)
	trips.AssertExpectations(t)
}
