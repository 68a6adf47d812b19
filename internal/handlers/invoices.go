package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/finance"
	"github.com/alioucisse7/truck-management/internal/models"
)

// InvoiceHandler handles invoice requests.
type InvoiceHandler struct {
	invoiceCollection db.InvoiceCollection
	tripCollection    db.TripCollection
	companyCollection db.CompanyCollection
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices db.InvoiceCollection, trips db.TripCollection, companies db.CompanyCollection) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceCollection: invoices,
		tripCollection:    trips,
		companyCollection: companies,
	}
}

// List returns the company's invoices, optionally filtered by ?status=.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := models.InvoiceStatus(r.URL.Query().Get("status"))
	if status != "" && !models.IsValidInvoiceStatus(status) {
		writeError(w, r, apperr.Validation("Invalid invoice status: %s", status))
		return
	}

	invoices, err := h.invoiceCollection.FindInvoices(r.Context(), companyID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// Get returns one invoice.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	invoice, err := h.invoiceCollection.FindInvoiceByID(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// Create issues a new invoice. The invoice number is claimed atomically per
// company and year, and the totals are always recomputed from the items.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var invoice models.Invoice
	if err := decodeJSON(r, &invoice); err != nil {
		writeError(w, r, err)
		return
	}

	if invoice.ClientName == "" {
		writeError(w, r, apperr.Validation("Client name is required"))
		return
	}
	if len(invoice.Items) == 0 {
		writeError(w, r, apperr.Validation("At least one invoice item is required"))
		return
	}
	if invoice.Status == "" {
		invoice.Status = models.InvoiceDraft
	}
	if !models.IsValidInvoiceStatus(invoice.Status) {
		writeError(w, r, apperr.Validation("Invalid invoice status: %s", invoice.Status))
		return
	}
	if invoice.IssueDate.IsZero() {
		invoice.IssueDate = time.Now()
	}
	if invoice.DueDate.IsZero() {
		invoice.DueDate = invoice.IssueDate.AddDate(0, 1, 0)
	}

	year := invoice.IssueDate.Year()
	seq, err := h.invoiceCollection.NextInvoiceSequence(r.Context(), companyID, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	invoice.InvoiceNumber = finance.FormatInvoiceNumber(year, seq)
	invoice.Subtotal, invoice.TaxAmount, invoice.TotalAmount = finance.ComputeInvoiceTotals(invoice.Items, invoice.TaxRate)

	invoice.CompanyID = companyID
	id, err := h.invoiceCollection.InsertInvoice(r.Context(), invoice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	invoice.ID = id

	writeJSON(w, http.StatusCreated, invoice)
}

// Update replaces an invoice's fields. The invoice number is immutable and
// the totals are recomputed server-side.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	existing, err := h.invoiceCollection.FindInvoiceByID(r.Context(), companyID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var invoice models.Invoice
	if err := decodeJSON(r, &invoice); err != nil {
		writeError(w, r, err)
		return
	}

	if invoice.Status == "" {
		invoice.Status = existing.Status
	}
	if !models.IsValidInvoiceStatus(invoice.Status) {
		writeError(w, r, apperr.Validation("Invalid invoice status: %s", invoice.Status))
		return
	}
	if len(invoice.Items) == 0 {
		invoice.Items = existing.Items
	}
	if invoice.ClientName == "" {
		invoice.ClientName = existing.ClientName
	}
	if invoice.IssueDate.IsZero() {
		invoice.IssueDate = existing.IssueDate
	}
	if invoice.DueDate.IsZero() {
		invoice.DueDate = existing.DueDate
	}

	invoice.InvoiceNumber = existing.InvoiceNumber
	invoice.CreatedAt = existing.CreatedAt
	invoice.Subtotal, invoice.TaxAmount, invoice.TotalAmount = finance.ComputeInvoiceTotals(invoice.Items, invoice.TaxRate)

	if err := h.invoiceCollection.UpdateInvoice(r.Context(), companyID, id, invoice); err != nil {
		writeError(w, r, err)
		return
	}
	invoice.ID = existing.ID
	invoice.CompanyID = companyID

	writeJSON(w, http.StatusOK, invoice)
}

// Delete removes an invoice.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.invoiceCollection.DeleteInvoice(r.Context(), companyID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Invoice deleted successfully"})
}

// GenerateFromTrips builds a draft invoice from the completed trips of a
// date range, one line per trip.
func (h *InvoiceHandler) GenerateFromTrips(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req struct {
		StartDate     string  `json:"startDate"`
		EndDate       string  `json:"endDate"`
		ClientName    string  `json:"clientName"`
		ClientAddress string  `json:"clientAddress"`
		ClientEmail   string  `json:"clientEmail"`
		TaxRate       float64 `json:"taxRate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if req.ClientName == "" {
		writeError(w, r, apperr.Validation("Client name is required"))
		return
	}
	from, err := parseDateParam(req.StartDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseDateParam(req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if from == nil || to == nil {
		writeError(w, r, apperr.Validation("Start date and end date are required"))
		return
	}

	trips, err := h.tripCollection.FindCompletedTrips(r.Context(), companyID, *from, *to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(trips) == 0 {
		writeError(w, r, apperr.NotFound("No completed trips found in the given period"))
		return
	}

	invoice := models.Invoice{
		CompanyID:     companyID,
		ClientName:    req.ClientName,
		ClientAddress: req.ClientAddress,
		ClientEmail:   req.ClientEmail,
		IssueDate:     time.Now(),
		DueDate:       time.Now().AddDate(0, 1, 0),
		Items:         finance.BuildInvoiceItemsFromTrips(trips),
		TaxRate:       req.TaxRate,
		Status:        models.InvoiceDraft,
	}

	year := invoice.IssueDate.Year()
	seq, err := h.invoiceCollection.NextInvoiceSequence(r.Context(), companyID, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	invoice.InvoiceNumber = finance.FormatInvoiceNumber(year, seq)
	invoice.Subtotal, invoice.TaxAmount, invoice.TotalAmount = finance.ComputeInvoiceTotals(invoice.Items, invoice.TaxRate)

	id, err := h.invoiceCollection.InsertInvoice(r.Context(), invoice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	invoice.ID = id

	writeJSON(w, http.StatusCreated, invoice)
}

// QRCode renders a PNG QR code carrying the invoice's payment reference, for
// printing on the paper copy.
func (h *InvoiceHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	invoice, err := h.invoiceCollection.FindInvoiceByID(r.Context(), companyID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	company, err := h.companyCollection.FindCompanyByID(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	payload := fmt.Sprintf("invoice:%s;company:%s;total:%.2f;due:%s",
		invoice.InvoiceNumber, company.Name, invoice.TotalAmount,
		invoice.DueDate.Format("2006-01-02"))

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		writeError(w, r, apperr.Persistence(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
