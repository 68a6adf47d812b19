package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// InvoiceStatus is the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// IsValidInvoiceStatus checks if an invoice status is valid
func IsValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceCancelled:
		return true
	default:
		return false
	}
}

// InvoiceItem is one billed line. Trip-generated items keep a reference to
// the trip they were synthesized from.
type InvoiceItem struct {
	TripID      *primitive.ObjectID `bson:"trip_id,omitempty" json:"tripId,omitempty"`
	Description string              `bson:"description" json:"description"`
	Quantity    float64             `bson:"quantity" json:"quantity"`
	UnitPrice   float64             `bson:"unit_price" json:"unitPrice"`
	Amount      float64             `bson:"amount" json:"amount"`
}

// Invoice is a client invoice. InvoiceNumber is sequential per company per
// calendar year, formatted "{year}-{0001}". Subtotal, tax amount and total
// are always recomputed server-side from the items and tax rate.
type Invoice struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID     primitive.ObjectID `bson:"company_id" json:"companyId"`
	InvoiceNumber string             `bson:"invoice_number" json:"invoiceNumber"`
	ClientName    string             `bson:"client_name" json:"clientName"`
	ClientAddress string             `bson:"client_address" json:"clientAddress"`
	ClientEmail   string             `bson:"client_email" json:"clientEmail"`
	IssueDate     time.Time          `bson:"issue_date" json:"issueDate"`
	DueDate       time.Time          `bson:"due_date" json:"dueDate"`
	Items         []InvoiceItem      `bson:"items" json:"items"`
	Subtotal      float64            `bson:"subtotal" json:"subtotal"`
	TaxRate       float64            `bson:"tax_rate" json:"taxRate"`
	TaxAmount     float64            `bson:"tax_amount" json:"taxAmount"`
	TotalAmount   float64            `bson:"total_amount" json:"totalAmount"`
	Status        InvoiceStatus      `bson:"status" json:"status"`
	Notes         string             `bson:"notes" json:"notes"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}
