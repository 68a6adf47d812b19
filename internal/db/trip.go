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

// TripQuery narrows a trip listing. Zero values mean no constraint.
type TripQuery struct {
	Status   models.TripStatus
	TruckID  *primitive.ObjectID
	DriverID *primitive.ObjectID
	From     *time.Time
	To       *time.Time
}

// TripCollection defines the interface for trip database operations
type TripCollection interface {
	InsertTrip(ctx context.Context, trip models.Trip) (primitive.ObjectID, error)
	FindTrips(ctx context.Context, companyID primitive.ObjectID, query TripQuery) ([]models.Trip, error)
	FindTripByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.Trip, error)
	UpdateTrip(ctx context.Context, companyID primitive.ObjectID, id string, trip models.Trip) error
	DeleteTrip(ctx context.Context, companyID primitive.ObjectID, id string) error
	FindCompletedTrips(ctx context.Context, companyID primitive.ObjectID, from, to time.Time) ([]models.Trip, error)
	FindRecentTrips(ctx context.Context, companyID primitive.ObjectID, limit int64) ([]models.Trip, error)
	CountTripsByStatus(ctx context.Context, companyID primitive.ObjectID) (map[models.TripStatus]int, error)
}

// MongoTripCollection implements TripCollection for MongoDB
type MongoTripCollection struct {
	Collection *mongo.Collection
}

// InsertTrip inserts a new trip and returns its generated ID.
func (c *MongoTripCollection) InsertTrip(ctx context.Context, trip models.Trip) (primitive.ObjectID, error) {
	trip.ID = primitive.NewObjectID()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = time.Now()

	if _, err := c.Collection.InsertOne(ctx, trip); err != nil {
		return primitive.NilObjectID, apperr.Persistence(err)
	}
	return trip.ID, nil
}

// FindTrips lists a company's trips, newest start date first.
func (c *MongoTripCollection) FindTrips(ctx context.Context, companyID primitive.ObjectID, query TripQuery) ([]models.Trip, error) {
	filter := bson.M{"company_id": companyID}
	if query.Status != "" {
		filter["status"] = query.Status
	}
	if query.TruckID != nil {
		filter["truck_id"] = *query.TruckID
	}
	if query.DriverID != nil {
		filter["driver_id"] = *query.DriverID
	}
	if query.From != nil || query.To != nil {
		dateRange := bson.M{}
		if query.From != nil {
			dateRange["$gte"] = *query.From
		}
		if query.To != nil {
			dateRange["$lte"] = *query.To
		}
		filter["start_date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer cursor.Close(ctx)

	trips := []models.Trip{}
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, apperr.Persistence(err)
	}
	return trips, nil
}

// FindTripByID finds a trip by ID within a company.
func (c *MongoTripCollection) FindTripByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.Trip, error) {
	objectID, err := parseObjectID(id, "trip")
	if err != nil {
		return nil, err
	}

	var trip models.Trip
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID, "company_id": companyID}).Decode(&trip)
	if err != nil {
		return nil, lookupErr(err, "Trip")
	}
	return &trip, nil
}

// UpdateTrip replaces a trip within a company.
func (c *MongoTripCollection) UpdateTrip(ctx context.Context, companyID primitive.ObjectID, id string, trip models.Trip) error {
	objectID, err := parseObjectID(id, "trip")
	if err != nil {
		return err
	}

	trip.ID = objectID
	trip.CompanyID = companyID
	trip.UpdatedAt = time.Now()

	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID, "company_id": companyID}, trip)
	if err != nil {
		return apperr.Persistence(err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("Trip not found")
	}
	return nil
}

// DeleteTrip deletes a trip within a company.
func (c *MongoTripCollection) DeleteTrip(ctx context.Context, companyID primitive.ObjectID, id string) error {
	objectID, err := parseObjectID(id, "trip")
	if err != nil {
		return err
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID, "company_id": companyID})
	if err != nil {
		return apperr.Persistence(err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("Trip not found")
	}
	return nil
}

// FindCompletedTrips lists completed trips fully contained in the period:
// started on or after from and ended on or before to. Used by invoice
// generation, so a trip still running past the period is not billed.
func (c *MongoTripCollection) FindCompletedTrips(ctx context.Context, companyID primitive.ObjectID, from, to time.Time) ([]models.Trip, error) {
	filter := bson.M{
		"company_id": companyID,
		"status":     models.TripCompleted,
		"start_date": bson.M{"$gte": from},
		"end_date":   bson.M{"$lte": to},
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer cursor.Close(ctx)

	trips := []models.Trip{}
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, apperr.Persistence(err)
	}
	return trips, nil
}

// FindRecentTrips lists the most recently created trips for the dashboard.
func (c *MongoTripCollection) FindRecentTrips(ctx context.Context, companyID primitive.ObjectID, limit int64) ([]models.Trip, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := c.Collection.Find(ctx, bson.M{"company_id": companyID}, opts)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer cursor.Close(ctx)

	trips := []models.Trip{}
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, apperr.Persistence(err)
	}
	return trips, nil
}

// CountTripsByStatus groups a company's trips by status for the dashboard.
func (c *MongoTripCollection) CountTripsByStatus(ctx context.Context, companyID primitive.ObjectID) (map[models.TripStatus]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"company_id": companyID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.TripStatus `bson:"_id"`
		Count  int               `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperr.Persistence(err)
	}

	counts := make(map[models.TripStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
