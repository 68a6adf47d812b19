package finance

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/models"
)

// FormatInvoiceNumber renders a sequence as the human-readable invoice
// number, e.g. (2024, 7) -> "2024-0007".
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("%d-%04d", year, seq)
}

// ParseInvoiceNumber splits an invoice number back into year and sequence.
func ParseInvoiceNumber(number string) (year, seq int, err error) {
	parts := strings.SplitN(number, "-", 2)
	if len(parts) != 2 {
		return 0, 0, apperr.Validation("Invalid invoice number: %s", number)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, apperr.Validation("Invalid invoice number year: %s", number)
	}
	seq, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, apperr.Validation("Invalid invoice number sequence: %s", number)
	}
	return year, seq, nil
}

// NextInvoiceNumber increments from the highest existing number for a year.
// last is empty when the company has no invoices in that year yet, in which
// case the sequence starts at 1.
func NextInvoiceNumber(last string, year int) (string, error) {
	if last == "" {
		return FormatInvoiceNumber(year, 1), nil
	}
	lastYear, seq, err := ParseInvoiceNumber(last)
	if err != nil {
		return "", err
	}
	if lastYear != year {
		return FormatInvoiceNumber(year, 1), nil
	}
	return FormatInvoiceNumber(year, seq+1), nil
}

// ComputeInvoiceTotals recomputes subtotal, tax amount and total from the
// line items and tax rate. Pure: the same inputs always yield the same
// totals, and client-supplied totals are never trusted.
func ComputeInvoiceTotals(items []models.InvoiceItem, taxRate float64) (subtotal, taxAmount, total float64) {
	for _, item := range items {
		subtotal += num(item.Amount)
	}
	taxAmount = subtotal * num(taxRate) / 100
	total = subtotal + taxAmount
	return subtotal, taxAmount, total
}

// BuildInvoiceItemsFromTrips synthesizes one line item per completed trip:
// quantity 1 at the trip's amountET.
func BuildInvoiceItemsFromTrips(trips []models.Trip) []models.InvoiceItem {
	items := make([]models.InvoiceItem, 0, len(trips))
	for _, trip := range trips {
		tripID := trip.ID
		items = append(items, models.InvoiceItem{
			TripID:      &tripID,
			Description: fmt.Sprintf("Transport service from %s to %s", trip.StartLocation, trip.Destination),
			Quantity:    1,
			UnitPrice:   num(trip.AmountET),
			Amount:      num(trip.AmountET),
		})
	}
	return items
}
