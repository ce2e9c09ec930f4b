// Package models defines the core data structures for users, products and carts.
package models

import "time"

// User represents a registered shop account.
type User struct {
	// Email is the unique, lower-cased login.
	Email string `json:"email"`
	// Password is stored and compared in plaintext.
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	// IsAdmin grants product management.
	IsAdmin bool `json:"isAdmin"`
}

// Product is a catalog entry.
type Product struct {
	// ID is assigned on creation and never changes.
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Desc  string  `json:"desc"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
	// Image is a normalized path or a remote URL.
	Image string `json:"image"`
}

// ProductDraft is unvalidated product input as collected from a form.
// Price and Stock are parsed by the catalog.
type ProductDraft struct {
	Name  string `json:"name"`
	Desc  string `json:"desc"`
	Price string `json:"price"`
	Stock string `json:"stock"`
	Image string `json:"image"`
}

// CartLine is one product entry in a user's cart.
type CartLine struct {
	// ID refers to a Product and may dangle once the product is deleted.
	ID int64 `json:"id"`
	// Name and Price are copied when the line is created.
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// Subtotal is Price times Qty.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Qty)
}

// CartItem is a cart line joined with its product, if it still exists.
type CartItem struct {
	CartLine
	Product *Product `json:"product"`
}

// Receipt is the result of a checkout. It is not persisted.
type Receipt struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Lines     []CartLine `json:"lines"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"createdAt"`
}
