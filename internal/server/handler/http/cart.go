package http

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophShop/internal/middleware"
	"github.com/atinyakov/GophShop/internal/models"
)

// CartService defines the cart operations required by CartHandler.
type CartService interface {
	Items(ctx context.Context) ([]models.CartItem, error)
	Total(ctx context.Context) (float64, error)
	Count(ctx context.Context) (int, error)
	AddItem(ctx context.Context, productID int64, qty int) error
	UpdateQty(ctx context.Context, productID int64, qty int) error
	RemoveItem(ctx context.Context, productID int64) error
	Clear(ctx context.Context) error
	Checkout(ctx context.Context) (models.Receipt, error)
}

// CartHandler handles the cart and checkout endpoints.
type CartHandler struct {
	CartService CartService
	// Logger records placed orders. Optional.
	Logger *zap.Logger
}

// CartResponse is the cart as returned by GET /api/cart.
type CartResponse struct {
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
}

// AddItemRequest is the body of POST /api/cart/items. Qty defaults to 1.
type AddItemRequest struct {
	ProductID int64 `json:"productId"`
	Qty       *int  `json:"qty,omitempty"`
}

// QtyRequest is the body of PUT /api/cart/items/{id}.
type QtyRequest struct {
	Qty int `json:"qty"`
}

// GetCart handles GET /api/cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.CartService.Items(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	total, err := h.CartService.Total(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CartResponse{Items: items, Total: total})
}

// CartCount handles GET /api/cart/count.
func (h *CartHandler) CartCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.CartService.Count(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	qty := 1
	if req.Qty != nil {
		qty = *req.Qty
	}
	if err := h.CartService.AddItem(r.Context(), req.ProductID, qty); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateQty handles PUT /api/cart/items/{id}. A non-positive qty is ignored.
func (h *CartHandler) UpdateQty(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	var req QtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.CartService.UpdateQty(r.Context(), id, req.Qty); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveItem handles DELETE /api/cart/items/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearCart handles DELETE /api/cart.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.CartService.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /api/checkout and returns the receipt.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.CartService.Checkout(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Logger != nil {
		h.Logger.Info("order placed",
			zap.String("user", middleware.GetUserEmailFromContext(r.Context())),
			zap.String("receipt", receipt.ID),
			zap.Int("lines", len(receipt.Lines)),
			zap.Float64("total", receipt.Total),
		)
	}
	writeJSON(w, http.StatusOK, receipt)
}
