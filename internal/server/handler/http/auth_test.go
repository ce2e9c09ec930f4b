package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/GophShop/internal/models"
	"github.com/atinyakov/GophShop/internal/service"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	user        models.User
	registerErr error
	loginErr    error
	logoutErr   error
	currentErr  error

	gotRegister service.RegisterRequest
	gotEmail    string
	gotPassword string
}

func (f *fakeAuthService) Register(_ context.Context, req service.RegisterRequest) (models.User, error) {
	f.gotRegister = req
	return f.user, f.registerErr
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (models.User, error) {
	f.gotEmail, f.gotPassword = email, password
	return f.user, f.loginErr
}

func (f *fakeAuthService) Logout(context.Context) error {
	return f.logoutErr
}

func (f *fakeAuthService) CurrentUser(context.Context) (models.User, error) {
	return f.user, f.currentErr
}

var alice = models.User{Email: "a@x.com", Password: "secret1", FirstName: "A", LastName: "B"}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "validation error",
			body:           `{"email":"a@x.com","password":"1"}`,
			service:        &fakeAuthService{registerErr: fmt.Errorf("password too short: %w", service.ErrValidation)},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "password too short",
		},
		{
			name:           "duplicate email",
			body:           `{"email":"a@x.com","password":"secret1"}`,
			service:        &fakeAuthService{registerErr: service.ErrDuplicateEmail},
			expectedCode:   http.StatusConflict,
			expectedSubstr: "email already registered",
		},
		{
			name:           "storage failure",
			body:           `{"email":"a@x.com","password":"secret1"}`,
			service:        &fakeAuthService{registerErr: errors.New("disk full")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "internal error",
		},
		{
			name:           "created",
			body:           `{"firstName":"A","lastName":"B","email":"a@x.com","password":"secret1"}`,
			service:        &fakeAuthService{user: alice},
			expectedCode:   http.StatusCreated,
			expectedSubstr: `"email":"a@x.com"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service}
			h.Register(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(res.Body); err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if !bytes.Contains(buf.Bytes(), []byte(tt.expectedSubstr)) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, buf.String())
			}
			if bytes.Contains(buf.Bytes(), []byte("secret1")) {
				t.Errorf("password leaked in response: %q", buf.String())
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeAuthService
		expectedCode int
	}{
		{"invalid JSON", `{`, &fakeAuthService{}, http.StatusBadRequest},
		{"missing field", `{"email":""}`, &fakeAuthService{loginErr: service.ErrValidation}, http.StatusBadRequest},
		{"wrong password", `{"email":"a@x.com","password":"nope"}`, &fakeAuthService{loginErr: service.ErrInvalidCredentials}, http.StatusUnauthorized},
		{"ok", `{"email":"a@x.com","password":"secret1"}`, &fakeAuthService{user: alice}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service}
			h.Login(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if rec.Code != http.StatusOK {
				return
			}

			var got UserResponse
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("invalid JSON response: %v", err)
			}
			if got.Email != "a@x.com" || got.FirstName != "A" {
				t.Errorf("unexpected user %+v", got)
			}
			if tt.service.gotEmail != "a@x.com" || tt.service.gotPassword != "secret1" {
				t.Errorf("credentials not forwarded: %q/%q", tt.service.gotEmail, tt.service.gotPassword)
			}
		})
	}
}

func TestAuthHandler_LogoutAndMe(t *testing.T) {
	svc := &fakeAuthService{user: alice}
	h := &AuthHandler{AuthService: svc}

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest("POST", "/logout", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("logout: expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest("GET", "/me", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	svc.currentErr = service.ErrNoSession
	rec = httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest("GET", "/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("me without session: expected 401, got %d", rec.Code)
	}

	svc.logoutErr = errors.New("medium down")
	rec = httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest("POST", "/logout", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("logout failure: expected 500, got %d", rec.Code)
	}
}
