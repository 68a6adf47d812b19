package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/models"
)

// SettingsCollection defines the interface for company settings operations
type SettingsCollection interface {
	FindSettings(ctx context.Context, companyID primitive.ObjectID) (*models.Settings, error)
	InsertSettings(ctx context.Context, settings models.Settings) (*models.Settings, error)
	UpdateSettings(ctx context.Context, companyID primitive.ObjectID, settings models.Settings) (*models.Settings, error)
}

// MongoSettingsCollection implements SettingsCollection for MongoDB
type MongoSettingsCollection struct {
	Collection *mongo.Collection
}

// ErrSettingsNotFound signals that a company has no settings record yet, so
// the caller should create the defaults.
var ErrSettingsNotFound = errors.New("settings not found")

// FindSettings finds a company's settings record.
func (c *MongoSettingsCollection) FindSettings(ctx context.Context, companyID primitive.ObjectID) (*models.Settings, error) {
	var settings models.Settings
	err := c.Collection.FindOne(ctx, bson.M{"company_id": companyID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSettingsNotFound
		}
		return nil, apperr.Persistence(err)
	}
	return &settings, nil
}

// InsertSettings stores a company's initial settings record.
func (c *MongoSettingsCollection) InsertSettings(ctx context.Context, settings models.Settings) (*models.Settings, error) {
	settings.ID = primitive.NewObjectID()
	settings.UpdatedAt = time.Now()

	if _, err := c.Collection.InsertOne(ctx, settings); err != nil {
		return nil, apperr.Persistence(err)
	}
	return &settings, nil
}

// UpdateSettings upserts a company's settings, so an update before first
// access still lands.
func (c *MongoSettingsCollection) UpdateSettings(ctx context.Context, companyID primitive.ObjectID, settings models.Settings) (*models.Settings, error) {
	settings.CompanyID = companyID
	settings.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"company_id":            settings.CompanyID,
		"default_currency":      settings.DefaultCurrency,
		"language":              settings.Language,
		"notification_settings": settings.NotificationSettings,
		"fuel_unit":             settings.FuelUnit,
		"distance_unit":         settings.DistanceUnit,
		"updated_at":            settings.UpdatedAt,
	}}

	_, err := c.Collection.UpdateOne(ctx, bson.M{"company_id": companyID}, update,
		options.Update().SetUpsert(true))
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	return c.FindSettings(ctx, companyID)
}
