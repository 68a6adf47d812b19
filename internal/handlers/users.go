package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alioucisse7/truck-management/internal/apperr"
	"github.com/alioucisse7/truck-management/internal/auth"
	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/models"
)

// UserHandler handles account management inside a company.
type UserHandler struct {
	authService    *auth.Service
	userCollection db.UserCollection
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *auth.Service, users db.UserCollection) *UserHandler {
	return &UserHandler{authService: authService, userCollection: users}
}

// List returns the company's users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	users, err := h.userCollection.FindUsers(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Create adds a user to the caller's company.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req struct {
		Name     string      `json:"name"`
		Email    string      `json:"email"`
		Phone    string      `json:"phone"`
		Password string      `json:"password"`
		Role     models.Role `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if req.Name == "" {
		writeError(w, r, apperr.Validation("Name is required"))
		return
	}
	if err := h.authService.ValidateEmail(req.Email); err != nil {
		writeError(w, r, apperr.Validation("%s", err.Error()))
		return
	}
	if err := h.authService.ValidatePassword(req.Password); err != nil {
		writeError(w, r, apperr.Validation("%s", err.Error()))
		return
	}
	if !models.IsValidRole(req.Role) {
		writeError(w, r, apperr.Validation("Invalid role"))
		return
	}

	if _, err := h.userCollection.FindUserByEmail(r.Context(), req.Email); err == nil {
		writeError(w, r, apperr.Conflict("Email already exists"))
		return
	}

	passwordHash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, apperr.Persistence(err))
		return
	}

	user := models.User{
		CompanyID:    companyID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		Role:         req.Role,
	}
	userID, err := h.userCollection.InsertUser(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user.ID = userID

	writeJSON(w, http.StatusCreated, user)
}

// Delete removes a user from the caller's company.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, companyID, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	if id == claims.UserID {
		writeError(w, r, apperr.Validation("Cannot delete your own account"))
		return
	}

	if err := h.userCollection.DeleteUser(r.Context(), companyID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// UpdateProfile updates the caller's own name, phone or email.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, _, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Email != "" {
		if err := h.authService.ValidateEmail(req.Email); err != nil {
			writeError(w, r, apperr.Validation("%s", err.Error()))
			return
		}
		existing, err := h.userCollection.FindUserByEmail(r.Context(), req.Email)
		if err == nil && existing.ID.Hex() != claims.UserID {
			writeError(w, r, apperr.Conflict("Email already exists"))
			return
		}
		user.Email = req.Email
	}

	if err := h.userCollection.UpdateUser(r.Context(), claims.UserID, *user); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ChangePassword changes the caller's own password after verifying the
// current one.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, _, err := requestScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, r, apperr.Validation("Current password and new password are required"))
		return
	}
	if err := h.authService.ValidatePassword(req.NewPassword); err != nil {
		writeError(w, r, apperr.Validation("%s", err.Error()))
		return
	}

	user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !h.authService.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Current password is incorrect"})
		return
	}

	newHash, err := h.authService.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, r, apperr.Persistence(err))
		return
	}

	user.PasswordHash = newHash
	if err := h.userCollection.UpdateUser(r.Context(), claims.UserID, *user); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
