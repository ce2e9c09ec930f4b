package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/atinyakov/GophShop/internal/models"
)

// MinPasswordLen is the shortest password Register accepts.
const MinPasswordLen = 6

// Built-in administrator created by EnsureAdmin.
const (
	AdminEmail    = "admin@shop.com"
	AdminPassword = "admin123"
)

// AccountRepository defines the persistence operations
// required by the account service.
type AccountRepository interface {
	// Users loads the whole user collection.
	Users(ctx context.Context) ([]models.User, error)
	// SaveUsers overwrites the whole user collection.
	SaveUsers(ctx context.Context, users []models.User) error
}

// RegisterRequest carries the registration form.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"isAdmin"`
}

// AccountService implements registration, login and the session checks
// built on them.
type AccountService struct {
	repo    AccountRepository
	session *Session
	mu      sync.Mutex
}

// NewAccountService constructs an AccountService.
func NewAccountService(repo AccountRepository, session *Session) *AccountService {
	return &AccountService{repo: repo, session: session}
}

// EnsureAdmin creates the built-in administrator unless a user with its
// email already exists. It reports whether the account was created.
func (s *AccountService) EnsureAdmin(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.Users(ctx)
	if err != nil {
		return false, err
	}
	if findUser(users, AdminEmail) >= 0 {
		return false, nil
	}
	users = append(users, models.User{
		Email:     AdminEmail,
		Password:  AdminPassword,
		FirstName: "Admin",
		LastName:  "User",
		IsAdmin:   true,
	})
	if err := s.repo.SaveUsers(ctx, users); err != nil {
		return false, err
	}
	return true, nil
}

// Register validates req and stores a new user under the lower-cased email.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	u := models.User{
		Email:     normalizeEmail(req.Email),
		Password:  req.Password,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		IsAdmin:   req.IsAdmin,
	}
	if u.FirstName == "" || u.LastName == "" || u.Email == "" || u.Password == "" {
		return models.User{}, fmt.Errorf("%w: first name, last name, email and password are required", ErrValidation)
	}
	if len(u.Password) < MinPasswordLen {
		return models.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLen)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.Users(ctx)
	if err != nil {
		return models.User{}, err
	}
	if findUser(users, u.Email) >= 0 {
		return models.User{}, fmt.Errorf("%s: %w", u.Email, ErrDuplicateEmail)
	}
	users = append(users, u)
	if err := s.repo.SaveUsers(ctx, users); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Login checks the credentials and, on success, makes the user the current
// session. The email matches case-insensitively, the password exactly.
// A failed login leaves the session as it was.
func (s *AccountService) Login(ctx context.Context, email, password string) (models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	users, err := s.repo.Users(ctx)
	if err != nil {
		return models.User{}, err
	}
	i := findUser(users, email)
	if i < 0 || users[i].Password != password {
		return models.User{}, ErrInvalidCredentials
	}
	if err := s.session.Set(ctx, users[i].Email); err != nil {
		return models.User{}, err
	}
	return users[i], nil
}

// Logout clears the session whether or not anyone is logged in.
func (s *AccountService) Logout(ctx context.Context) error {
	return s.session.Clear(ctx)
}

// CurrentUser returns the logged-in user. It fails with ErrNoSession when
// nobody is logged in and ErrNotFound when the session points at a user that
// no longer exists.
func (s *AccountService) CurrentUser(ctx context.Context) (models.User, error) {
	email, err := s.session.require(ctx)
	if err != nil {
		return models.User{}, err
	}
	users, err := s.repo.Users(ctx)
	if err != nil {
		return models.User{}, err
	}
	i := findUser(users, email)
	if i < 0 {
		return models.User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	return users[i], nil
}

// IsCurrentAdmin reports whether the logged-in user is an administrator.
// No session and a vanished user both read as false.
func (s *AccountService) IsCurrentAdmin(ctx context.Context) (bool, error) {
	email, ok, err := s.session.Current(ctx)
	if err != nil || !ok {
		return false, err
	}
	users, err := s.repo.Users(ctx)
	if err != nil {
		return false, err
	}
	i := findUser(users, email)
	return i >= 0 && users[i].IsAdmin, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func findUser(users []models.User, email string) int {
	for i, u := range users {
		if strings.EqualFold(u.Email, email) {
			return i
		}
	}
	return -1
}
