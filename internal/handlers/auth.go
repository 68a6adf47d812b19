package handlers

import (
	"net/http"
	"time"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/auth"
	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/middleware"
	"github.com/alioucisse7/truck-management/internal/models"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService        *auth.Service
	userCollection     db.UserCollection
	companyCollection  db.CompanyCollection
	settingsCollection db.SettingsCollection
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, users db.UserCollection, companies db.CompanyCollection, settings db.SettingsCollection) *AuthHandler {
	return &AuthHandler{
		authService:        authService,
		userCollection:     users,
		companyCollection:  companies,
		settingsCollection: settings,
	}
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if err := decodeJSON(r, &loginReq); err != nil {
		writeError(w, r, err)
		return
	}

	if loginReq.Email == "" || loginReq.Password == "" {
		writeError(w, r, apperr.Validation("Email and password are required"))
		return
	}

	user, err := h.userCollection.FindUserByEmail(r.Context(), loginReq.Email)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}

	if !user.IsActive {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Account is deactivated"})
		return
	}

	if !h.authService.CheckPassword(loginReq.Password, user.PasswordHash) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		writeError(w, r, apperr.Persistence(err))
		return
	}

	// Last login is best effort; a failed write must not fail the login
	_ = h.userCollection.UpdateLastLogin(r.Context(), user.ID.Hex())

	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, User: *user})
}

// Signup registers a new company together with its first admin user and
// default settings.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var signupReq models.SignupRequest
	if err := decodeJSON(r, &signupReq); err != nil {
		writeError(w, r, err)
		return
	}

	if signupReq.Name == "" || signupReq.CompanyName == "" {
		writeError(w, r, apperr.Validation("Name and company name are required"))
		return
	}
	if err := h.authService.ValidateEmail(signupReq.Email); err != nil {
		writeError(w, r, apperr.Validation("%s", err.Error()))
		return
	}
	if err := h.authService.ValidatePassword(signupReq.Password); err != nil {
		writeError(w, r, apperr.Validation("%s", err.Error()))
		return
	}

	if _, err := h.userCollection.FindUserByEmail(r.Context(), signupReq.Email); err == nil {
		writeError(w, r, apperr.Conflict("Email already exists"))
		return
	}

	passwordHash, err := h.authService.HashPassword(signupReq.Password)
	if err != nil {
		writeError(w, r, apperr.Persistence(err))
		return
	}

	companyID, err := h.companyCollection.InsertCompany(r.Context(), models.Company{
		Name:  signupReq.CompanyName,
		Email: signupReq.Email,
		Phone: signupReq.Phone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Default settings are best effort; first access creates them too
	_, _ = h.settingsCollection.InsertSettings(r.Context(), models.DefaultSettings(companyID))

	user := models.User{
		CompanyID:    companyID,
		Name:         signupReq.Name,
		Email:        signupReq.Email,
		Phone:        signupReq.Phone,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}
	userID, err := h.userCollection.InsertUser(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user.ID = userID
	user.IsActive = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	token, err := h.authService.GenerateToken(&user)
	if err != nil {
		writeError(w, r, apperr.Persistence(err))
		return
	}

	writeJSON(w, http.StatusCreated, models.LoginResponse{Token: token, User: user})
}

// Me returns the authenticated user's own record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "User context not found"})
		return
	}

	user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
