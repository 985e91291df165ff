package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pending statuses. The state machine is P -> C, one way.
const (
	StatusPending   = "P"
	StatusConfirmed = "C"
)

type Order struct {
	ID            string `json:"id"`
	OwnerID       string `json:"owner"`
	PendingStatus string `json:"pending_status"`
	// Monetary fields are derived at read time from current product prices
	// (live pricing, not a snapshot).
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryPrice decimal.Decimal `json:"delivery_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Items         []Item          `json:"items,omitempty"`
	PlacedAt      time.Time       `json:"placed_at"`
}

// Item snapshots the product reference and quantity at checkout. The price is
// joined in from the product at read time.
type Item struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}
