package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/shopcart/internal/cart"
	"github.com/jcmexdev/shopcart/internal/cartlog"
	"github.com/jcmexdev/shopcart/internal/catalog"
	"github.com/jcmexdev/shopcart/internal/engine"
	"github.com/jcmexdev/shopcart/internal/pkg/cache"
)

// CartReader is the read side of the engine the API needs.
type CartReader interface {
	Products(ctx context.Context) ([]catalog.Product, error)
	Carts(ctx context.Context) ([]*cart.Cart, error)
	Cart(ctx context.Context, id string) (*cart.Cart, error)
}

// Handler serves read-only snapshots of the catalog, carts, cart history and
// cached receipts.
type Handler struct {
	carts    CartReader
	history  cartlog.Repository // nil-safe: /history answers 404
	receipts cache.ReceiptCache // nil-safe: /receipts answers 404
}

func NewHandler(carts CartReader, history cartlog.Repository, receipts cache.ReceiptCache) *Handler {
	return &Handler{carts: carts, history: history, receipts: receipts}
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.carts.Products(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = mapProduct(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListCarts(w http.ResponseWriter, r *http.Request) {
	carts, err := h.carts.Carts(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	out := make([]CartResponse, len(carts))
	for i, c := range carts {
		out[i] = mapCart(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.carts.Cart(r.Context(), id)
	if errors.Is(err, engine.ErrNotFound) {
		writeError(w, http.StatusNotFound, "cart_not_found", err.Error())
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCart(c))
}

func (h *Handler) GetCartHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "history_disabled", "cart log is not configured")
		return
	}
	id := chi.URLParam(r, "id")

	entries, err := h.history.ListByCart(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, "history_not_found", "no entries for cart "+id)
		return
	}

	writeJSON(w, http.StatusOK, mapHistory(entries))
}

func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	if h.receipts == nil {
		writeError(w, http.StatusNotFound, "receipts_disabled", "receipt cache is not configured")
		return
	}
	id := chi.URLParam(r, "id")

	receipt, err := h.receipts.Get(r.Context(), id)
	if errors.Is(err, cache.ErrCacheMiss) {
		writeError(w, http.StatusNotFound, "receipt_not_found", "no receipt for cart "+id)
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
