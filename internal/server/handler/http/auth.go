// Package http provides the JSON HTTP API in front of the shop services.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/GophShop/internal/models"
	"github.com/atinyakov/GophShop/internal/service"
)

// AuthService defines the account operations required by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, req service.RegisterRequest) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (models.User, error)
}

// AuthHandler handles HTTP requests for registration, login and logout.
type AuthHandler struct {
	// AuthService performs the underlying account operations.
	AuthService AuthService
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is a user as returned to clients, without the password.
type UserResponse struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsAdmin   bool   `json:"isAdmin"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, IsAdmin: u.IsAdmin}
}

// Register handles POST /api/register and answers 201 with the new user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	u, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// Login handles POST /api/login. On success the user becomes the session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	u, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me and returns the logged-in user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.AuthService.CurrentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}
