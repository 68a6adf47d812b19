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

// FinanceQuery narrows ledger listings and aggregations. Zero values mean no
// constraint.
type FinanceQuery struct {
	Type              models.FinanceType
	Category          string
	ExcludeCategories []string
	From              *time.Time
	To                *time.Time
}

func (q FinanceQuery) filter(companyID primitive.ObjectID) bson.M {
	filter := bson.M{"company_id": companyID}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if len(q.ExcludeCategories) > 0 {
		filter["category"] = bson.M{"$nin": q.ExcludeCategories}
	}
	if q.From != nil || q.To != nil {
		dateRange := bson.M{}
		if q.From != nil {
			dateRange["$gte"] = *q.From
		}
		if q.To != nil {
			dateRange["$lte"] = *q.To
		}
		filter["date"] = dateRange
	}
	return filter
}

// FinanceCollection defines the interface for finance ledger operations
type FinanceCollection interface {
	InsertFinanceRecord(ctx context.Context, record models.FinanceRecord) (primitive.ObjectID, error)
	InsertFinanceRecords(ctx context.Context, records []models.FinanceRecord) error
	FindFinanceRecords(ctx context.Context, companyID primitive.ObjectID, query FinanceQuery) ([]models.FinanceRecord, error)
	FindFinanceRecordByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.FinanceRecord, error)
	UpdateFinanceRecord(ctx context.Context, companyID primitive.ObjectID, id string, record models.FinanceRecord) error
	DeleteFinanceRecord(ctx context.Context, companyID primitive.ObjectID, id string) error
	DeleteFinanceRecordsByTrip(ctx context.Context, companyID, tripID primitive.ObjectID) error
	SumAmounts(ctx context.Context, companyID primitive.ObjectID, query FinanceQuery) (float64, error)
	CategoryTotals(ctx context.Context, companyID primitive.ObjectID, query FinanceQuery) ([]models.CategoryTotal, error)
	MonthlyTotals(ctx context.Context, companyID primitive.ObjectID, year int, query FinanceQuery) (map[int]float64, error)
}

// MongoFinanceCollection implements FinanceCollection for MongoDB
type MongoFinanceCollection struct {
	Collection *mongo.Collection
}

// InsertFinanceRecord inserts one ledger record and returns its generated ID.
func (c *MongoFinanceCollection) InsertFinanceRecord(ctx context.Context, record models.FinanceRecord) (primitive.ObjectID, error) {
	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now()

	if _, err := c.Collection.InsertOne(ctx, record); err != nil {
		return primitive.NilObjectID, apperr.Persistence(err)
	}
	return record.ID, nil
}

// InsertFinanceRecords inserts a batch of ledger records, used when a trip
// mutation writes its derived entries.
func (c *MongoFinanceCollection) InsertFinanceRecords(ctx context.Context, records []models.FinanceRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(records))
	now := time.Now()
	for _, record := range records {
		record.ID = primitive.NewObjectID()
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		docs = append(docs, record)
	}

	if _, err := c.Collection.InsertMany(ctx, docs); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

// FindFinanceRecords lists a company's ledger records, newest date first.
func (c *MongoFinanceCollection) FindFinanceRecords(ctx context.Context, companyID primitive.ObjectID, query FinanceQuery) ([]models.FinanceRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := c.Collection.Find(ctx, query.filter(companyID), opts)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer cursor.Close(ctx)

	records := []models.FinanceRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, apperr.Persistence(err)
	}
	return records, nil
}

// FindFinanceRecordByID finds a ledger record by ID within a company.
func (c *MongoFinanceCollection) FindFinanceRecordByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.FinanceRecord, error) {
	objectID, err := parseObjectID(id, "finance record")
	if err != nil {
		return nil, err
	}

	var record models.FinanceRecord
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID, "company_id": companyID}).Decode(&record)
	if err != nil {
		return nil, lookupErr(err, "Finance record")
	}
	return &record, nil
}

// UpdateFinanceRecord replaces a ledger record within a company.
func (c *MongoFinanceCollection) UpdateFinanceRecord(ctx context.Context, companyID primitive.ObjectID, id string, record models.FinanceRecord) error {
	objectID, err := parseObjectID(id, "finance record")
	if err != nil {
		return err
	}

	record.ID = objectID
	record.CompanyID = companyID

	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID, "company_id": companyID}, record)
	if err != nil {
		return apperr.Persistence(err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("Finance record not found")
	}
	return nil
}

// DeleteFinanceRecord deletes a ledger record within a company.
func (c *MongoFinanceCollection) DeleteFinanceRecord(ctx context.Context, companyID primitive.ObjectID, id string) error {
	objectID, err := parseObjectID(id, "finance record")
	if err != nil {
		return err
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID, "company_id": companyID})
	if err != nil {
		return apperr.Persistence(err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("Finance record not found")
	}
	return nil
}

// DeleteFinanceRecordsByTrip removes every ledger record derived from a trip.
// Deleting zero records is not an error; planned trips have none.
func (c *MongoFinanceCollection) DeleteFinanceRecordsByTrip(ctx context.Context, companyID, tripID primitive.ObjectID) error {
	_, err := c.Collection.DeleteMany(ctx, bson.M{"company_id": companyID, "trip_id": tripID})
	if err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

// SumAmounts totals the amounts matching the query.
func (c *MongoFinanceCollection) SumAmounts(ctx context.Context, companyID primitive.ObjectID, query FinanceQuery) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: query.filter(companyID)}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, apperr.Persistence(err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// CategoryTotals groups the matching records by type and category.
func (c *MongoFinanceCollection) CategoryTotals(ctx context.Context, companyID primitive.ObjectID, query FinanceQuery) ([]models.CategoryTotal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: query.filter(companyID)}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"type": "$type", "category": "$category"},
			"total": bson.M{"$sum": "$amount"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}}}},
	}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key struct {
			Type     models.FinanceType `bson:"type"`
			Category string             `bson:"category"`
		} `bson:"_id"`
		Total float64 `bson:"total"`
		Count int     `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperr.Persistence(err)
	}

	totals := make([]models.CategoryTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, models.CategoryTotal{
			Type:     row.Key.Type,
			Category: row.Key.Category,
			Total:    row.Total,
			Count:    row.Count,
		})
	}
	return totals, nil
}

// MonthlyTotals sums the matching records per calendar month of one year,
// keyed by month number 1-12. Months with no records are absent.
func (c *MongoFinanceCollection) MonthlyTotals(ctx context.Context, companyID primitive.ObjectID, year int, query FinanceQuery) (map[int]float64, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0).Add(-time.Nanosecond)
	query.From = &from
	query.To = &to

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: query.filter(companyID)}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": "$date"},
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Month int     `bson:"_id"`
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperr.Persistence(err)
	}

	totals := make(map[int]float64, len(rows))
	for _, row := range rows {
		totals[row.Month] = row.Total
	}
	return totals, nil
}
