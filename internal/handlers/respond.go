package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/middleware"
	"github.com/alioucisse7/truck-management/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a classified error to its HTTP status. Internal causes are
// logged with the request ID but never sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"request_id": middleware.RequestIDFromContext(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
		}).WithError(err).Error("Request failed")
	}
	writeJSON(w, status, map[string]string{"error": apperr.ClientMessage(err)})
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("Invalid JSON")
	}
	return nil
}

// requestScope pulls the authenticated claims and tenant out of the request
// context set by the auth middleware.
func requestScope(r *http.Request) (*models.Claims, primitive.ObjectID, error) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return nil, primitive.NilObjectID, apperr.Authorization("User context not found")
	}
	companyID, ok := middleware.CompanyIDFromContext(r.Context())
	if !ok {
		return nil, primitive.NilObjectID, apperr.Authorization("Company context not found")
	}
	return claims, companyID, nil
}
