package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/shopcart/internal/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.Trace)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/products", handler.ListProducts)
	r.Get("/carts", handler.ListCarts)
	r.Get("/carts/{id}", handler.GetCart)
	r.Get("/carts/{id}/history", handler.GetCartHistory)
	r.Get("/receipts/{id}", handler.GetReceipt)
	return r
}
