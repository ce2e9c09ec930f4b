package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/GophShop/internal/models"
)

// CartRepository defines the persistence operations
// required by the cart service.
type CartRepository interface {
	// Cart loads the cart owned by email; a cart never written is empty.
	Cart(ctx context.Context, email string) ([]models.CartLine, error)
	// SaveCart overwrites the cart owned by email.
	SaveCart(ctx context.Context, email string, lines []models.CartLine) error
}

// ProductLookup resolves product ids for the cart.
// *CatalogService implements it.
type ProductLookup interface {
	Get(ctx context.Context, id int64) (models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
}

// CartService manages the logged-in user's cart.
type CartService struct {
	repo     CartRepository
	products ProductLookup
	session  *Session
	now      func() time.Time
	mu       sync.Mutex
}

// NewCartService constructs a CartService.
func NewCartService(repo CartRepository, products ProductLookup, session *Session) *CartService {
	return &CartService{repo: repo, products: products, session: session, now: time.Now}
}

// AddItem puts qty units of the product in the cart. An existing line for the
// product grows by qty; otherwise a new line snapshots the product's current
// name and price.
func (s *CartService) AddItem(ctx context.Context, productID int64, qty int) error {
	email, err := s.session.require(ctx)
	if err != nil {
		return err
	}
	if qty < 1 {
		return fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.repo.Cart(ctx, email)
	if err != nil {
		return err
	}
	if i := lineIndex(lines, productID); i >= 0 {
		lines[i].Qty += qty
	} else {
		lines = append(lines, models.CartLine{ID: p.ID, Name: p.Name, Price: p.Price, Qty: qty})
	}
	return s.repo.SaveCart(ctx, email, lines)
}

// UpdateQty sets the quantity of the product's line. A non-positive qty or a
// missing line leaves the cart unchanged.
func (s *CartService) UpdateQty(ctx context.Context, productID int64, qty int) error {
	email, err := s.session.require(ctx)
	if err != nil {
		return err
	}
	if qty < 1 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.repo.Cart(ctx, email)
	if err != nil {
		return err
	}
	i := lineIndex(lines, productID)
	if i < 0 {
		return nil
	}
	lines[i].Qty = qty
	return s.repo.SaveCart(ctx, email, lines)
}

// RemoveItem drops the product's line if present.
func (s *CartService) RemoveItem(ctx context.Context, productID int64) error {
	email, err := s.session.require(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.repo.Cart(ctx, email)
	if err != nil {
		return err
	}
	i := lineIndex(lines, productID)
	if i < 0 {
		return nil
	}
	lines = append(lines[:i], lines[i+1:]...)
	return s.repo.SaveCart(ctx, email, lines)
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) error {
	email, err := s.session.require(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.SaveCart(ctx, email, nil)
}

// Checkout empties the cart and returns a receipt for what was in it.
// No payment is taken, no stock is reserved and no order is stored.
func (s *CartService) Checkout(ctx context.Context) (models.Receipt, error) {
	email, err := s.session.require(ctx)
	if err != nil {
		return models.Receipt{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.repo.Cart(ctx, email)
	if err != nil {
		return models.Receipt{}, err
	}
	if err := s.repo.SaveCart(ctx, email, nil); err != nil {
		return models.Receipt{}, err
	}
	return models.Receipt{
		ID:        uuid.NewString(),
		Email:     email,
		Lines:     lines,
		Total:     total(lines),
		CreatedAt: s.now(),
	}, nil
}

// Lines returns the logged-in user's cart; empty when nobody is logged in.
func (s *CartService) Lines(ctx context.Context) ([]models.CartLine, error) {
	email, ok, err := s.session.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.CartLine{}, nil
	}
	return s.repo.Cart(ctx, email)
}

// Items returns the cart lines joined with their products. A line whose
// product was deleted has a nil Product.
func (s *CartService) Items(ctx context.Context) ([]models.CartItem, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.CartItem, 0, len(lines))
	for _, l := range lines {
		item := models.CartItem{CartLine: l}
		if p, ok := byID[l.ID]; ok {
			item.Product = &p
		}
		items = append(items, item)
	}
	return items, nil
}

// Total is the sum of price times quantity over the cart, using the prices
// captured when each line was added.
func (s *CartService) Total(ctx context.Context) (float64, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return 0, err
	}
	return total(lines), nil
}

// Count is the number of units in the cart, as shown on the nav badge.
func (s *CartService) Count(ctx context.Context) (int, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, l := range lines {
		n += l.Qty
	}
	return n, nil
}

func lineIndex(lines []models.CartLine, productID int64) int {
	for i, l := range lines {
		if l.ID == productID {
			return i
		}
	}
	return -1
}

func total(lines []models.CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Subtotal()
	}
	return sum
}
