package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *handlers) getCart(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, h.deps.CartSvc.Open(ctx, visitorID(c)).Snapshot())
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "productId is required")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty <= 0 {
		badRequest(c, "quantity must be positive")
		return
	}
	snap, err := h.deps.CartSvc.Add(c.Request.Context(), visitorID(c), req.ProductID, qty)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// updateCartItem sets a line's quantity. Zero removes the line.
func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "quantity is required")
		return
	}
	snap := h.deps.CartSvc.SetQuantity(c.Request.Context(), visitorID(c), c.Param("id"), *req.Quantity)
	c.JSON(http.StatusOK, snap)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.CartSvc.Remove(c.Request.Context(), visitorID(c), c.Param("id")))
}

func (h *handlers) clearCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.CartSvc.Clear(c.Request.Context(), visitorID(c)))
}
