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

// CompanyCollection defines the interface for company database operations
type CompanyCollection interface {
	InsertCompany(ctx context.Context, company models.Company) (primitive.ObjectID, error)
	FindCompanyByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error)
	UpdateCompany(ctx context.Context, id primitive.ObjectID, company models.Company) error
}

// MongoCompanyCollection implements CompanyCollection for MongoDB
type MongoCompanyCollection struct {
	Collection *mongo.Collection
}

// InsertCompany inserts a new company and returns its generated ID.
func (c *MongoCompanyCollection) InsertCompany(ctx context.Context, company models.Company) (primitive.ObjectID, error) {
	company.ID = primitive.NewObjectID()
	company.CreatedAt = time.Now()
	company.UpdatedAt = time.Now()

	if _, err := c.Collection.InsertOne(ctx, company); err != nil {
		return primitive.NilObjectID, apperr.Persistence(err)
	}
	return company.ID, nil
}

// FindCompanyByID finds a company by its ID.
func (c *MongoCompanyCollection) FindCompanyByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	var company models.Company
	if err := c.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&company); err != nil {
		return nil, lookupErr(err, "Company")
	}
	return &company, nil
}

// UpdateCompany updates a company's profile fields.
func (c *MongoCompanyCollection) UpdateCompany(ctx context.Context, id primitive.ObjectID, company models.Company) error {
	company.ID = id
	company.UpdatedAt = time.Now()

	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": id}, company)
	if err != nil {
		return apperr.Persistence(err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("Company not found")
	}
	return nil
}
