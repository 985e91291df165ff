package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/storeapp/ecommerce-api/internal/account"
	"github.com/storeapp/ecommerce-api/internal/events"
	"github.com/storeapp/ecommerce-api/internal/httpx"
	"github.com/storeapp/ecommerce-api/internal/order"
	"github.com/storeapp/ecommerce-api/internal/payment"
)

// createOrderHandler godoc
// @Summary Commit a cart into an order
// @Param body body order.CreateOrderRequest true "cart reference"
// @Success 201 {object} order.Order
// @Failure 400 {object} catalog.HTTPError
// @Router /orders [post]
func createOrderHandler(repo order.Repository, producer *events.Producer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.CallerIdentity(c)
		if !ok {
			abortError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.CartID == "" {
			abortError(c, http.StatusBadRequest, "cart_id is required")
			return
		}
		o, err := repo.Create(c.Request.Context(), req.CartID, id.UserID)
		if err != nil {
			switch {
			case errors.Is(err, order.ErrCartNotFound):
				abortError(c, http.StatusBadRequest, "this cart_id is invalid")
			case errors.Is(err, order.ErrEmptyCart):
				abortError(c, http.StatusBadRequest, "sorry your cart is empty")
			default:
				abortError(c, http.StatusInternalServerError, "create order failed")
			}
			return
		}
		if err := producer.Publish(c.Request.Context(), o.ID, events.OrderCreated{
			OrderID:  o.ID,
			OwnerID:  o.OwnerID,
			Total:    o.TotalPrice.String(),
			PlacedAt: o.PlacedAt,
		}); err != nil {
			log.Printf("[events] publish order.created failed: %v", err)
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":        "Order created successfully",
			"subtotal":       o.Subtotal,
			"delivery_price": o.DeliveryPrice,
			"total_price":    o.TotalPrice,
			"order":          o,
		})
	}
}

// listOrdersHandler returns the caller's orders; staff see every order.
func listOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.CallerIdentity(c)
		if !ok {
			abortError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		limit, offset := pageParams(c)

		var (
			orders []order.Order
			err    error
		)
		if id.Staff {
			orders, err = repo.ListAll(c.Request.Context(), limit, offset)
		} else {
			orders, err = repo.ListByOwner(c.Request.Context(), id.UserID, limit, offset)
		}
		if err != nil {
			abortError(c, http.StatusInternalServerError, "list orders failed")
			return
		}
		if orders == nil {
			orders = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"items": orders, "limit": limit, "offset": offset})
	}
}

func getOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.CallerIdentity(c)
		if !ok {
			abortError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortError(c, http.StatusNotFound, "order not found")
			return
		}
		if o.OwnerID != id.UserID && !id.Staff {
			abortError(c, http.StatusForbidden, "not your order")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// updateOrderStatusHandler is the staff-only status patch. The state machine
// is forward-only: C back to P is rejected.
func updateOrderStatusHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, "invalid json")
			return
		}
		if req.PendingStatus != order.StatusPending && req.PendingStatus != order.StatusConfirmed {
			abortError(c, http.StatusBadRequest, "pending_status must be P or C")
			return
		}
		if err := repo.UpdateStatus(c.Request.Context(), c.Param("id"), req.PendingStatus); err != nil {
			switch {
			case errors.Is(err, order.ErrNotFound):
				abortError(c, http.StatusNotFound, "order not found")
			case errors.Is(err, order.ErrInvalidTransition):
				abortError(c, http.StatusBadRequest, "confirmed orders cannot go back to pending")
			default:
				abortError(c, http.StatusInternalServerError, "update status failed")
			}
			return
		}
		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, "refetch failed")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func deleteOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, "delete order failed")
			return
		}
		if !ok {
			abortError(c, http.StatusNotFound, "order not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// payOrderHandler godoc
// @Summary Initiate payment for an order
// @Description Builds a hosted-payment-session request for the order total and
// @Description relays the gateway's redirect payload. The order stays Pending;
// @Description the call is safe to retry on gateway failure.
// @Param id path string true "order id"
// @Success 200 {object} object
// @Failure 502 {object} catalog.HTTPError
// @Router /orders/{id}/pay [post]
func payOrderHandler(repo order.Repository, users account.UserRepository, gw *payment.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.CallerIdentity(c)
		if !ok {
			abortError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortError(c, http.StatusNotFound, "order not found")
			return
		}
		if o.OwnerID != id.UserID && !id.Staff {
			abortError(c, http.StatusForbidden, "not your order")
			return
		}
		u, err := users.GetByID(c.Request.Context(), id.UserID)
		if err != nil {
			abortError(c, http.StatusUnauthorized, "unknown user")
			return
		}

		payload, err := gw.Initiate(c.Request.Context(), o.ID, o.TotalPrice, u.Email)
		if err != nil {
			if !errors.Is(err, payment.ErrGatewayUnavailable) {
				log.Printf("[payment] initiate order=%s: %v", o.ID, err)
			}
			abortError(c, http.StatusBadGateway, "the payment didn't go through")
			return
		}
		c.Data(http.StatusOK, "application/json", payload)
	}
}

type webhookPayload struct {
	OrderID string `json:"o_id"`
	Amount  string `json:"amount"`
	Status  string `json:"status"`
}

// confirmPaymentHandler is the gateway callback. Unlike the upstream flow it
// replaces, the callback must be signed and the reported amount must match
// the order total before the order is marked paid.
func confirmPaymentHandler(repo order.Repository, gw *payment.Client, producer *events.Producer) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			abortError(c, http.StatusBadRequest, "invalid body")
			return
		}
		if !gw.VerifyWebhook(c.GetHeader("verif-hash"), body) {
			abortError(c, http.StatusUnauthorized, "invalid webhook signature")
			return
		}

		var p webhookPayload
		if err := json.Unmarshal(body, &p); err != nil || p.OrderID == "" {
			abortError(c, http.StatusBadRequest, "invalid payload")
			return
		}
		o, err := repo.GetByID(c.Request.Context(), p.OrderID)
		if err != nil {
			abortError(c, http.StatusNotFound, "order not found")
			return
		}
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil || !amount.Equal(o.TotalPrice) {
			abortError(c, http.StatusBadRequest, "amount does not match order total")
			return
		}

		confirmed, err := repo.ConfirmPayment(c.Request.Context(), p.OrderID)
		if err != nil {
			abortError(c, http.StatusInternalServerError, "confirm payment failed")
			return
		}
		if err := producer.Publish(c.Request.Context(), confirmed.ID, events.OrderConfirmed{
			OrderID:     confirmed.ID,
			ConfirmedAt: time.Now().UTC(),
		}); err != nil {
			log.Printf("[events] publish order.confirmed failed: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"msg": "Payment was successful", "data": confirmed})
	}
}
