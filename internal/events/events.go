package events

import "time"

type OrderCreated struct {
	OrderID  string    `json:"order_id"`
	OwnerID  string    `json:"owner_id"`
	Total    string    `json:"total"`
	PlacedAt time.Time `json:"placed_at"`
}

type OrderConfirmed struct {
	OrderID     string    `json:"order_id"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}
