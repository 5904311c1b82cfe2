package httpx

import (
	"time"

	"github.com/jcmexdev/shopcart/internal/cart"
	"github.com/jcmexdev/shopcart/internal/cartlog"
	"github.com/jcmexdev/shopcart/internal/catalog"
)

const timeLayout = time.RFC3339

type ProductResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	Stock       int    `json:"stock"`
	Available   bool   `json:"available"`
}

type CartResponse struct {
	ID              string             `json:"id"`
	Status          string             `json:"status"`
	Items           []LineItemResponse `json:"items"`
	Total           string             `json:"total"`
	Discount        string             `json:"discount,omitempty"`
	DiscountedTotal string             `json:"discounted_total"`
	CreatedAt       string             `json:"created_at"`
	ClosedAt        string             `json:"closed_at,omitempty"`
}

type LineItemResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type HistoryEntryResponse struct {
	Event      string `json:"event"`
	ProductID  int64  `json:"product_id,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`
	Total      string `json:"total"`
	Discount   string `json:"discount,omitempty"`
	TraceID    string `json:"trace_id,omitempty"`
	RecordedAt string `json:"recorded_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapProduct(p catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice.StringFixed(2),
		Stock:       p.Stock,
		Available:   p.Available(),
	}
}

func mapCart(c *cart.Cart) CartResponse {
	items := make([]LineItemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = LineItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Subtotal:  it.Subtotal().StringFixed(2),
		}
	}

	resp := CartResponse{
		ID:              c.ID,
		Status:          string(c.Status),
		Items:           items,
		Total:           c.Total().StringFixed(2),
		DiscountedTotal: c.DiscountedTotal().StringFixed(2),
		CreatedAt:       c.CreatedAt.Format(timeLayout),
	}
	if c.Discount.Valid {
		resp.Discount = c.Discount.Decimal.StringFixed(2)
	}
	if c.ClosedAt != nil {
		resp.ClosedAt = c.ClosedAt.Format(timeLayout)
	}
	return resp
}

func mapHistory(entries []cartlog.Entry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntryResponse{
			Event:      string(e.Event),
			ProductID:  e.ProductID,
			Quantity:   e.Quantity,
			Total:      e.Total,
			Discount:   e.Discount,
			TraceID:    e.TraceID,
			RecordedAt: e.RecordedAt.Format(timeLayout),
		}
	}
	return out
}
