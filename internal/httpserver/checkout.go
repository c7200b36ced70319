package httpserver

import (
	"net/http"

	"chocostore/internal/checkout"
	"github.com/gin-gonic/gin"
)

func (h *handlers) checkout(c *gin.Context) {
	var req checkout.CustomerInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()
	snap := h.deps.CartSvc.Open(ctx, visitorID(c)).Snapshot()

	res, err := h.deps.CheckoutSvc.Checkout(ctx, snap, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	status := http.StatusOK
	if res.Order != nil {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}
