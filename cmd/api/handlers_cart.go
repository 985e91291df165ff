package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storeapp/ecommerce-api/internal/cart"
)

// createCartHandler godoc
// @Summary Create an empty cart
// @Success 201 {object} cart.Cart
// @Router /carts [post]
func createCartHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ct, err := repo.CreateCart(c.Request.Context())
		if err != nil {
			abortError(c, http.StatusInternalServerError, "create cart failed")
			return
		}
		c.JSON(http.StatusCreated, ct)
	}
}

// getCartHandler godoc
// @Summary Get a cart with items and live totals
// @Param id path string true "cart id"
// @Success 200 {object} cart.Cart
// @Failure 404 {object} catalog.HTTPError
// @Router /carts/{id} [get]
func getCartHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ct, err := repo.GetCart(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortError(c, http.StatusNotFound, "cart not found")
			return
		}
		c.JSON(http.StatusOK, ct)
	}
}

func deleteCartHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.DeleteCart(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, "delete cart failed")
			return
		}
		if !ok {
			abortError(c, http.StatusNotFound, "cart not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// addCartItemHandler godoc
// @Summary Add a product to a cart (insert-or-increment)
// @Param id path string true "cart id"
// @Param body body cart.AddItemRequest true "item"
// @Success 201 {object} cart.Item
// @Failure 400 {object} catalog.HTTPError
// @Router /carts/{id}/items [post]
func addCartItemHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, "invalid json")
			return
		}
		if req.ProductID == "" {
			abortError(c, http.StatusBadRequest, "product_id is required")
			return
		}
		if req.Quantity <= 0 {
			abortError(c, http.StatusBadRequest, "quantity must be positive")
			return
		}
		it, err := repo.AddItem(c.Request.Context(), c.Param("id"), req.ProductID, req.Quantity)
		if err != nil {
			switch {
			case errors.Is(err, cart.ErrProductNotFound):
				abortError(c, http.StatusBadRequest, "there is no product associated with the given id")
			case errors.Is(err, cart.ErrNotFound):
				abortError(c, http.StatusNotFound, "cart not found")
			default:
				abortError(c, http.StatusInternalServerError, "add item failed")
			}
			return
		}
		c.JSON(http.StatusCreated, it)
	}
}

// updateCartItemHandler replaces the quantity in place; no merge semantics.
func updateCartItemHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Quantity <= 0 {
			abortError(c, http.StatusBadRequest, "quantity must be positive")
			return
		}
		it, err := repo.UpdateItem(c.Request.Context(), c.Param("id"), c.Param("item_id"), req.Quantity)
		if err != nil {
			abortError(c, http.StatusNotFound, "cart item not found")
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

func removeCartItemHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("item_id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, "remove item failed")
			return
		}
		if !ok {
			abortError(c, http.StatusNotFound, "cart item not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
