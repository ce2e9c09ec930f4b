package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/atinyakov/GophShop/internal/models"
	"github.com/atinyakov/GophShop/internal/storage"
)

// Keys under which the collections live in the medium.
const (
	UsersKey      = "os_users"
	ProductsKey   = "os_products"
	SessionKey    = "os_current_user"
	CartKeyPrefix = "os_cart_"
)

// CartKey returns the medium key for the cart owned by email. The email is
// query-escaped so separator characters cannot collide with other keys.
func CartKey(email string) string {
	return CartKeyPrefix + url.QueryEscape(email)
}

// Records exposes the users, products, carts and session slot stored in a
// flat medium. Every collection is loaded and saved as a whole; saves fully
// overwrite the previous value.
//
// Records does no cross-process locking: two writers to the same medium
// race and the last write wins.
type Records struct {
	medium storage.Medium
}

// NewRecords wraps medium.
func NewRecords(medium storage.Medium) *Records {
	return &Records{medium: medium}
}

// Users loads the user collection.
func (r *Records) Users(ctx context.Context) ([]models.User, error) {
	return loadSlice[models.User](ctx, r, UsersKey)
}

// SaveUsers overwrites the user collection.
func (r *Records) SaveUsers(ctx context.Context, users []models.User) error {
	return r.save(ctx, UsersKey, nonNil(users))
}

// Products loads the product collection.
func (r *Records) Products(ctx context.Context) ([]models.Product, error) {
	return loadSlice[models.Product](ctx, r, ProductsKey)
}

// SaveProducts overwrites the product collection.
func (r *Records) SaveProducts(ctx context.Context, products []models.Product) error {
	return r.save(ctx, ProductsKey, nonNil(products))
}

// Cart loads the cart owned by email. A cart never written is empty.
func (r *Records) Cart(ctx context.Context, email string) ([]models.CartLine, error) {
	return loadSlice[models.CartLine](ctx, r, CartKey(email))
}

// SaveCart overwrites the cart owned by email.
func (r *Records) SaveCart(ctx context.Context, email string, lines []models.CartLine) error {
	return r.save(ctx, CartKey(email), nonNil(lines))
}

// SessionEmail returns the email held in the session slot.
func (r *Records) SessionEmail(ctx context.Context) (string, bool, error) {
	v, ok, err := r.medium.Get(ctx, SessionKey)
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", SessionKey, err)
	}
	if !ok || v == "" {
		return "", false, nil
	}
	return v, true, nil
}

// SetSessionEmail stores email in the session slot.
func (r *Records) SetSessionEmail(ctx context.Context, email string) error {
	if err := r.medium.Set(ctx, SessionKey, email); err != nil {
		return fmt.Errorf("set %s: %w", SessionKey, err)
	}
	return nil
}

// ClearSession empties the session slot.
func (r *Records) ClearSession(ctx context.Context) error {
	if err := r.medium.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("delete %s: %w", SessionKey, err)
	}
	return nil
}

// loadSlice decodes the collection under key. Missing keys and stored nulls
// both come back as an empty slice.
func loadSlice[T any](ctx context.Context, r *Records, key string) ([]T, error) {
	var out []T
	if err := r.load(ctx, key, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (r *Records) load(ctx context.Context, key string, dst any) error {
	raw, ok, err := r.medium.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (r *Records) save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.medium.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// nonNil makes a nil slice encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
