package service

import (
	"context"
	"sync"
)

// SessionSlot stores at most one logged-in email.
// *repository.Records implements it on top of the shared medium.
type SessionSlot interface {
	SessionEmail(ctx context.Context) (string, bool, error)
	SetSessionEmail(ctx context.Context, email string) error
	ClearSession(ctx context.Context) error
}

// Session is the current login identity, injected into the services that
// need it instead of being read from ambient global state.
type Session struct {
	slot SessionSlot
}

// NewSession wraps slot.
func NewSession(slot SessionSlot) *Session {
	return &Session{slot: slot}
}

// Current returns the logged-in email, if any.
func (s *Session) Current(ctx context.Context) (string, bool, error) {
	return s.slot.SessionEmail(ctx)
}

// Set makes email the logged-in identity.
func (s *Session) Set(ctx context.Context, email string) error {
	return s.slot.SetSessionEmail(ctx, email)
}

// Clear logs out whoever is logged in.
func (s *Session) Clear(ctx context.Context) error {
	return s.slot.ClearSession(ctx)
}

// require returns the logged-in email or ErrNoSession.
func (s *Session) require(ctx context.Context) (string, error) {
	email, ok, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoSession
	}
	return email, nil
}

// MemorySlot is a SessionSlot that lives only in the process. It lets
// several simulated sessions share one record store.
type MemorySlot struct {
	mu    sync.Mutex
	email string
}

// NewMemorySlot returns an empty slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (m *MemorySlot) SessionEmail(context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.email, m.email != "", nil
}

func (m *MemorySlot) SetSessionEmail(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.email = email
	return nil
}

func (m *MemorySlot) ClearSession(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.email = ""
	return nil
}
