package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/models"
)

// InvoiceCollection defines the interface for invoice database operations
type InvoiceCollection interface {
	InsertInvoice(ctx context.Context, invoice models.Invoice) (primitive.ObjectID, error)
	FindInvoices(ctx context.Context, companyID primitive.ObjectID, status models.InvoiceStatus) ([]models.Invoice, error)
	FindInvoiceByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.Invoice, error)
	UpdateInvoice(ctx context.Context, companyID primitive.ObjectID, id string, invoice models.Invoice) error
	DeleteInvoice(ctx context.Context, companyID primitive.ObjectID, id string) error
	NextInvoiceSequence(ctx context.Context, companyID primitive.ObjectID, year int) (int, error)
}

// MongoInvoiceCollection implements InvoiceCollection for MongoDB. Counters
// holds one document per company and year for atomic invoice numbering.
type MongoInvoiceCollection struct {
	Collection *mongo.Collection
	Counters   *mongo.Collection
}

// InsertInvoice inserts a new invoice and returns its generated ID.
func (c *MongoInvoiceCollection) InsertInvoice(ctx context.Context, invoice models.Invoice) (primitive.ObjectID, error) {
	invoice.ID = primitive.NewObjectID()
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = time.Now()

	if _, err := c.Collection.InsertOne(ctx, invoice); err != nil {
		return primitive.NilObjectID, apperr.Persistence(err)
	}
	return invoice.ID, nil
}

// FindInvoices lists a company's invoices, newest issue date first,
// optionally filtered by status.
func (c *MongoInvoiceCollection) FindInvoices(ctx context.Context, companyID primitive.ObjectID, status models.InvoiceStatus) ([]models.Invoice, error) {
	filter := bson.M{"company_id": companyID}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "issue_date", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer cursor.Close(ctx)

	invoices := []models.Invoice{}
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, apperr.Persistence(err)
	}
	return invoices, nil
}

// FindInvoiceByID finds an invoice by ID within a company.
func (c *MongoInvoiceCollection) FindInvoiceByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.Invoice, error) {
	objectID, err := parseObjectID(id, "invoice")
	if err != nil {
		return nil, err
	}

	var invoice models.Invoice
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID, "company_id": companyID}).Decode(&invoice)
	if err != nil {
		return nil, lookupErr(err, "Invoice")
	}
	return &invoice, nil
}

// UpdateInvoice replaces an invoice within a company.
func (c *MongoInvoiceCollection) UpdateInvoice(ctx context.Context, companyID primitive.ObjectID, id string, invoice models.Invoice) error {
	objectID, err := parseObjectID(id, "invoice")
	if err != nil {
		return err
	}

	invoice.ID = objectID
	invoice.CompanyID = companyID
	invoice.UpdatedAt = time.Now()

	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID, "company_id": companyID}, invoice)
	if err != nil {
		return apperr.Persistence(err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("Invoice not found")
	}
	return nil
}

// DeleteInvoice deletes an invoice within a company.
func (c *MongoInvoiceCollection) DeleteInvoice(ctx context.Context, companyID primitive.ObjectID, id string) error {
	objectID, err := parseObjectID(id, "invoice")
	if err != nil {
		return err
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID, "company_id": companyID})
	if err != nil {
		return apperr.Persistence(err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("Invoice not found")
	}
	return nil
}

// NextInvoiceSequence atomically claims the next sequence number for one
// company and year. Concurrent callers never receive the same value.
func (c *MongoInvoiceCollection) NextInvoiceSequence(ctx context.Context, companyID primitive.ObjectID, year int) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int `bson:"seq"`
	}
	err := c.Counters.FindOneAndUpdate(
		ctx,
		bson.M{"company_id": companyID, "year": year},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	return counter.Seq, nil
}
