package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/models"
)

// TruckCollection defines the interface for truck database operations
type TruckCollection interface {
	InsertTruck(ctx context.Context, truck models.Truck) (primitive.ObjectID, error)
	FindTrucks(ctx context.Context, companyID primitive.ObjectID, status models.TruckStatus) ([]models.Truck, error)
	FindTruckByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.Truck, error)
	UpdateTruck(ctx context.Context, companyID primitive.ObjectID, id string, truck models.Truck) error
	UpdateTruckStatus(ctx context.Context, id primitive.ObjectID, status models.TruckStatus) error
	ApplyTelemetry(ctx context.Context, id primitive.ObjectID, fuelLevel float64, location models.Location) error
	DeleteTruck(ctx context.Context, companyID primitive.ObjectID, id string) error
	CountTrucksByStatus(ctx context.Context, companyID primitive.ObjectID) (map[models.TruckStatus]int, error)
}

// MongoTruckCollection implements TruckCollection for MongoDB
type MongoTruckCollection struct {
	Collection *mongo.Collection
}

// InsertTruck inserts a new truck and returns its generated ID.
func (c *MongoTruckCollection) InsertTruck(ctx context.Context, truck models.Truck) (primitive.ObjectID, error) {
	truck.ID = primitive.NewObjectID()
	truck.CreatedAt = time.Now()
	truck.UpdatedAt = time.Now()

	if _, err := c.Collection.InsertOne(ctx, truck); err != nil {
		return primitive.NilObjectID, apperr.Persistence(err)
	}
	return truck.ID, nil
}

// FindTrucks lists a company's trucks, optionally filtered by status.
func (c *MongoTruckCollection) FindTrucks(ctx context.Context, companyID primitive.ObjectID, status models.TruckStatus) ([]models.Truck, error) {
	filter := bson.M{"company_id": companyID}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer cursor.Close(ctx)

	trucks := []models.Truck{}
	if err := cursor.All(ctx, &trucks); err != nil {
		return nil, apperr.Persistence(err)
	}
	return trucks, nil
}

// FindTruckByID finds a truck by ID within a company.
func (c *MongoTruckCollection) FindTruckByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.Truck, error) {
	objectID, err := parseObjectID(id, "truck")
	if err != nil {
		return nil, err
	}

	var truck models.Truck
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID, "company_id": companyID}).Decode(&truck)
	if err != nil {
		return nil, lookupErr(err, "Truck")
	}
	return &truck, nil
}

// UpdateTruck replaces a truck's mutable fields within a company.
func (c *MongoTruckCollection) UpdateTruck(ctx context.Context, companyID primitive.ObjectID, id string, truck models.Truck) error {
	objectID, err := parseObjectID(id, "truck")
	if err != nil {
		return err
	}

	truck.ID = objectID
	truck.CompanyID = companyID
	truck.UpdatedAt = time.Now()

	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID, "company_id": companyID}, truck)
	if err != nil {
		return apperr.Persistence(err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("Truck not found")
	}
	return nil
}

// UpdateTruckStatus flips a truck's availability, used by the trip lifecycle.
func (c *MongoTruckCollection) UpdateTruckStatus(ctx context.Context, id primitive.ObjectID, status models.TruckStatus) error {
	_, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

// ApplyTelemetry records the latest reported fuel level and position.
// Telemetry is keyed by truck ID only; the device does not know its tenant.
func (c *MongoTruckCollection) ApplyTelemetry(ctx context.Context, id primitive.ObjectID, fuelLevel float64, location models.Location) error {
	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"fuel_level":       fuelLevel,
			"current_location": location,
			"updated_at":       time.Now(),
		}},
	)
	if err != nil {
		return apperr.Persistence(err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("Truck not found")
	}
	return nil
}

// DeleteTruck deletes a truck within a company.
func (c *MongoTruckCollection) DeleteTruck(ctx context.Context, companyID primitive.ObjectID, id string) error {
	objectID, err := parseObjectID(id, "truck")
	if err != nil {
		return err
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID, "company_id": companyID})
	if err != nil {
		return apperr.Persistence(err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("Truck not found")
	}
	return nil
}

// CountTrucksByStatus groups a company's trucks by status for the dashboard.
func (c *MongoTruckCollection) CountTrucksByStatus(ctx context.Context, companyID primitive.ObjectID) (map[models.TruckStatus]int, error) {
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
		Status models.TruckStatus `bson:"_id"`
		Count  int                `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperr.Persistence(err)
	}

	counts := make(map[models.TruckStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
