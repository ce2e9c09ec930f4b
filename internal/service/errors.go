// Package service provides the shop's business logic: accounts, the product
// catalog and per-user carts, delegating persistence to repository interfaces.
package service

import "errors"

// Errors reported by the services. Details are wrapped around them with %w,
// so callers match with errors.Is.
var (
	// ErrValidation reports missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail reports a registration for an existing email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials reports a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound reports a missing product or user.
	ErrNotFound = errors.New("not found")
	// ErrNoSession reports an action that requires a logged-in user.
	ErrNoSession = errors.New("login required")
)
