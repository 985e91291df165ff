package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is an anonymous pre-order container. It is created empty on first
// visit and identified only by its generated id.
type Cart struct {
	ID         string          `json:"id"`
	Items      []Item          `json:"items"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Item is one (cart, product) row. Product fields are joined in on reads;
// SubTotal reflects the live product price.
type Item struct {
	ID          string          `json:"id"`
	CartID      string          `json:"cart"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	SubTotal    decimal.Decimal `json:"sub_total"`
}

// AddItemRequest payload for adding a product to a cart.
// swagger:model AddItemRequest
type AddItemRequest struct {
	ProductID string `json:"product_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity  int    `json:"quantity"   example:"2"`
}

// UpdateItemRequest payload for replacing an item quantity.
// swagger:model UpdateItemRequest
type UpdateItemRequest struct {
	Quantity int `json:"quantity" example:"3"`
}
