package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atinyakov/GophShop/internal/imagepath"
	"github.com/atinyakov/GophShop/internal/models"
)

// CatalogRepository defines the persistence operations
// required by the catalog.
type CatalogRepository interface {
	// Products loads the whole product collection, in insertion order.
	Products(ctx context.Context) ([]models.Product, error)
	// SaveProducts overwrites the whole product collection.
	SaveProducts(ctx context.Context, products []models.Product) error
}

// seedProducts are written when the catalog is empty on startup.
var seedProducts = []models.Product{
	{Name: "Wireless Headphones", Desc: "Comfortable over-ear Bluetooth headphones", Price: 1499, Stock: 10, Image: "images/headphones.png"},
	{Name: "Smart Watch", Desc: "Track fitness & notifications", Price: 2499, Stock: 5, Image: "images/watch.png"},
	{Name: "Classic Backpack", Desc: "Durable daily backpack", Price: 999, Stock: 12, Image: "images/backpack.png"},
}

// CatalogService implements product listing and admin CRUD.
// Admin checks are the caller's job.
type CatalogService struct {
	repo CatalogRepository
	now  func() time.Time

	mu     sync.Mutex
	lastID int64
}

// NewCatalogService constructs a CatalogService using the provided repository.
func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo, now: time.Now}
}

// Bootstrap prepares the stored catalog on startup: it migrates image paths
// to their normalized form and seeds the example products into an empty
// catalog.
func (s *CatalogService) Bootstrap(ctx context.Context) (migrated int, seeded bool, err error) {
	if migrated, err = s.MigrateImages(ctx); err != nil {
		return 0, false, err
	}
	if seeded, err = s.Seed(ctx); err != nil {
		return migrated, false, err
	}
	return migrated, seeded, nil
}

// MigrateImages normalizes every stored image path. The collection is only
// written back when at least one path changed; the number changed is
// returned.
func (s *CatalogService) MigrateImages(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.repo.Products(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range products {
		if img := imagepath.Normalize(products[i].Image); img != products[i].Image {
			products[i].Image = img
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := s.repo.SaveProducts(ctx, products); err != nil {
		return 0, err
	}
	return changed, nil
}

// Seed writes the example products if the catalog is empty. It reports
// whether anything was written.
func (s *CatalogService) Seed(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.repo.Products(ctx)
	if err != nil {
		return false, err
	}
	if len(products) > 0 {
		return false, nil
	}
	for _, p := range seedProducts {
		p.ID = s.nextID(products)
		products = append(products, p)
	}
	if err := s.repo.SaveProducts(ctx, products); err != nil {
		return false, err
	}
	return true, nil
}

// List returns all products. Images come back normalized, but nothing is
// written; stored paths are fixed by MigrateImages.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Image = imagepath.Normalize(products[i].Image)
	}
	return products, nil
}

// Get returns the product with id or ErrNotFound.
func (s *CatalogService) Get(ctx context.Context, id int64) (models.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return models.Product{}, err
	}
	if i := indexOf(products, id); i >= 0 {
		return products[i], nil
	}
	return models.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
}

// Create validates draft, assigns a fresh id and appends the product.
func (s *CatalogService) Create(ctx context.Context, draft models.ProductDraft) (models.Product, error) {
	p, err := parseDraft(draft)
	if err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.repo.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	p.ID = s.nextID(products)
	products = append(products, p)
	if err := s.repo.SaveProducts(ctx, products); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Update replaces the product with id in place, keeping its id and position.
// It fails with ErrNotFound, leaving the collection untouched, if there is
// no such product.
func (s *CatalogService) Update(ctx context.Context, id int64, draft models.ProductDraft) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.repo.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	i := indexOf(products, id)
	if i < 0 {
		return models.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	p, err := parseDraft(draft)
	if err != nil {
		return models.Product{}, err
	}
	p.ID = id
	products[i] = p
	if err := s.repo.SaveProducts(ctx, products); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Delete removes the product with id. Deleting a missing product is a no-op.
// Cart lines pointing at it are left alone.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.repo.Products(ctx)
	if err != nil {
		return err
	}
	i := indexOf(products, id)
	if i < 0 {
		return nil
	}
	products = append(products[:i], products[i+1:]...)
	return s.repo.SaveProducts(ctx, products)
}

// nextID returns a millisecond timestamp id, bumped past both the last id
// handed out by this process and every stored id. Must be called with mu held.
func (s *CatalogService) nextID(products []models.Product) int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for _, p := range products {
		if p.ID >= id {
			id = p.ID + 1
		}
	}
	s.lastID = id
	return id
}

func indexOf(products []models.Product, id int64) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// parseDraft validates form input. Blank price and stock read as zero.
func parseDraft(d models.ProductDraft) (models.Product, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return models.Product{}, fmt.Errorf("%w: name is required", ErrValidation)
	}

	price, err := parsePrice(d.Price)
	if err != nil {
		return models.Product{}, err
	}
	stock, err := parseStock(d.Stock)
	if err != nil {
		return models.Product{}, err
	}

	return models.Product{
		Name:  name,
		Desc:  strings.TrimSpace(d.Desc),
		Price: price,
		Stock: stock,
		Image: imagepath.Normalize(d.Image),
	}, nil
}

func parsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: price %q is not a number", ErrValidation, raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	return v, nil
}

// parseStock accepts any whole number, including forms like "10.0" or "1e2".
func parseStock(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: stock %q is not a whole number", ErrValidation, raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}
	if v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: stock %q is too large", ErrValidation, raw)
	}
	return int(v), nil
}
