package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/GophShop/internal/service"
)

// writeError maps service errors onto HTTP status codes. Unknown errors are
// reported as a bare "internal error".
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrDuplicateEmail):
		http.Error(w, "email already registered", http.StatusConflict)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, service.ErrNoSession):
		http.Error(w, "login required", http.StatusUnauthorized)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
