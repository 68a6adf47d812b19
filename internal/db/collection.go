package db

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alioucisse7/truck-management/internal/apperr"
)

// parseObjectID converts a hex ID from the URL into an ObjectID, classifying
// a malformed value as a validation error rather than a store failure.
func parseObjectID(id, entity string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid %s ID", entity)
	}
	return objectID, nil
}

// lookupErr classifies a FindOne failure: a missing document becomes a
// not-found error with the entity name, everything else stays internal.
func lookupErr(err error, entity string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound("%s not found", entity)
	}
	return apperr.Persistence(err)
}
