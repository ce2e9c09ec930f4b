package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/GophShop/internal/models"
)

// ProductService defines the catalog operations required by ProductHandler.
type ProductService interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id int64) (models.Product, error)
	Create(ctx context.Context, draft models.ProductDraft) (models.Product, error)
	Update(ctx context.Context, id int64, draft models.ProductDraft) (models.Product, error)
	Delete(ctx context.Context, id int64) error
}

// ProductHandler handles the product listing and admin CRUD endpoints.
type ProductHandler struct {
	ProductService ProductService
}

// productID parses the {id} URL parameter, writing 400 on failure.
func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// ListProducts handles GET /api/products.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.ProductService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	p, err := h.ProductService.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProduct handles POST /api/products. The body is a models.ProductDraft.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var draft models.ProductDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	p, err := h.ProductService.Create(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /api/products/{id}.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	var draft models.ProductDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	p, err := h.ProductService.Update(r.Context(), id, draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /api/products/{id}. Deleting a missing product
// still answers 204.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if err := h.ProductService.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
