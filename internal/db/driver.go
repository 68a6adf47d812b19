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

// DriverCollection defines the interface for driver database operations
type DriverCollection interface {
	InsertDriver(ctx context.Context, driver models.Driver) (primitive.ObjectID, error)
	FindDrivers(ctx context.Context, companyID primitive.ObjectID, status models.DriverStatus) ([]models.Driver, error)
	FindDriverByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.Driver, error)
	FindDriverByUserID(ctx context.Context, companyID, userID primitive.ObjectID) (*models.Driver, error)
	UpdateDriver(ctx context.Context, companyID primitive.ObjectID, id string, driver models.Driver) error
	UpdateDriverStatus(ctx context.Context, id primitive.ObjectID, status models.DriverStatus) error
	DeleteDriver(ctx context.Context, companyID primitive.ObjectID, id string) error
	CountDriversByStatus(ctx context.Context, companyID primitive.ObjectID) (map[models.DriverStatus]int, error)
}

// MongoDriverCollection implements DriverCollection for MongoDB
type MongoDriverCollection struct {
	Collection *mongo.Collection
}

// InsertDriver inserts a new driver and returns its generated ID.
func (c *MongoDriverCollection) InsertDriver(ctx context.Context, driver models.Driver) (primitive.ObjectID, error) {
	driver.ID = primitive.NewObjectID()
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = time.Now()

	if _, err := c.Collection.InsertOne(ctx, driver); err != nil {
		return primitive.NilObjectID, apperr.Persistence(err)
	}
	return driver.ID, nil
}

// FindDrivers lists a company's drivers, optionally filtered by status.
func (c *MongoDriverCollection) FindDrivers(ctx context.Context, companyID primitive.ObjectID, status models.DriverStatus) ([]models.Driver, error) {
	filter := bson.M{"company_id": companyID}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer cursor.Close(ctx)

	drivers := []models.Driver{}
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, apperr.Persistence(err)
	}
	return drivers, nil
}

// FindDriverByID finds a driver by ID within a company.
func (c *MongoDriverCollection) FindDriverByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.Driver, error) {
	objectID, err := parseObjectID(id, "driver")
	if err != nil {
		return nil, err
	}

	var driver models.Driver
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID, "company_id": companyID}).Decode(&driver)
	if err != nil {
		return nil, lookupErr(err, "Driver")
	}
	return &driver, nil
}

// FindDriverByUserID finds the driver record linked to a user account, used
// when a driver-role user asks for their own trips.
func (c *MongoDriverCollection) FindDriverByUserID(ctx context.Context, companyID, userID primitive.ObjectID) (*models.Driver, error) {
	var driver models.Driver
	err := c.Collection.FindOne(ctx, bson.M{"user_id": userID, "company_id": companyID}).Decode(&driver)
	if err != nil {
		return nil, lookupErr(err, "Driver")
	}
	return &driver, nil
}

// UpdateDriver replaces a driver's mutable fields within a company.
func (c *MongoDriverCollection) UpdateDriver(ctx context.Context, companyID primitive.ObjectID, id string, driver models.Driver) error {
	objectID, err := parseObjectID(id, "driver")
	if err != nil {
		return err
	}

	driver.ID = objectID
	driver.CompanyID = companyID
	driver.UpdatedAt = time.Now()

	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID, "company_id": companyID}, driver)
	if err != nil {
		return apperr.Persistence(err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("Driver not found")
	}
	return nil
}

// UpdateDriverStatus flips a driver's availability, used by the trip lifecycle.
func (c *MongoDriverCollection) UpdateDriverStatus(ctx context.Context, id primitive.ObjectID, status models.DriverStatus) error {
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

// DeleteDriver deletes a driver within a company.
func (c *MongoDriverCollection) DeleteDriver(ctx context.Context, companyID primitive.ObjectID, id string) error {
	objectID, err := parseObjectID(id, "driver")
	if err != nil {
		return err
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID, "company_id": companyID})
	if err != nil {
		return apperr.Persistence(err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("Driver not found")
	}
	return nil
}

// CountDriversByStatus groups a company's drivers by status for the dashboard.
func (c *MongoDriverCollection) CountDriversByStatus(ctx context.Context, companyID primitive.ObjectID) (map[models.DriverStatus]int, error) {
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
		Status models.DriverStatus `bson:"_id"`
		Count  int                 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperr.Persistence(err)
	}

	counts := make(map[models.DriverStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
