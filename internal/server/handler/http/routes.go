package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/atinyakov/GophShop/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the shop API under /api.
//
// Routes:
//
//	POST   /api/register            → auth.Register
//	POST   /api/login               → auth.Login
//	POST   /api/logout              → auth.Logout
//	GET    /api/me                  → auth.Me                 (session)
//	GET    /api/products            → products.ListProducts
//	GET    /api/products/{id}       → products.GetProduct
//	POST   /api/products            → products.CreateProduct  (admin)
//	PUT    /api/products/{id}       → products.UpdateProduct  (admin)
//	DELETE /api/products/{id}       → products.DeleteProduct  (admin)
//	GET    /api/cart                → cart.GetCart            (session)
//	GET    /api/cart/count          → cart.CartCount          (session)
//	POST   /api/cart/items          → cart.AddItem            (session)
//	PUT    /api/cart/items/{id}     → cart.UpdateQty          (session)
//	DELETE /api/cart/items/{id}     → cart.RemoveItem         (session)
//	DELETE /api/cart                → cart.ClearCart          (session)
//	POST   /api/checkout            → cart.Checkout           (session)
func NewRouter(
	auth *AuthHandler,
	products *ProductHandler,
	cart *CartHandler,
	session middleware.SessionReader,
	admins middleware.AdminChecker,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Requests with a body must be JSON
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)
		r.Get("/products", products.ListProducts)
		r.Get("/products/{id}", products.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(session, admins))
			r.Post("/products", products.CreateProduct)
			r.Put("/products/{id}", products.UpdateProduct)
			r.Delete("/products/{id}", products.DeleteProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(session))
			r.Get("/me", auth.Me)
			r.Get("/cart", cart.GetCart)
			r.Get("/cart/count", cart.CartCount)
			r.Post("/cart/items", cart.AddItem)
			r.Put("/cart/items/{id}", cart.UpdateQty)
			r.Delete("/cart/items/{id}", cart.RemoveItem)
			r.Delete("/cart", cart.ClearCart)
			r.Post("/checkout", cart.Checkout)
		})
	})

	return r
}
