package order

// CreateOrderRequest commits a cart into an order.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	CartID string `json:"cart_id" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
}

// UpdateOrderRequest payload for the staff status patch.
// swagger:model UpdateOrderRequest
type UpdateOrderRequest struct {
	PendingStatus string `json:"pending_status" example:"C"`
}
