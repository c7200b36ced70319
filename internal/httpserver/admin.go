package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"chocostore/internal/domain"
	"github.com/gin-gonic/gin"
)

const adminCtxKey = "adminUser"

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func adminMiddleware(svc adminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		user, err := svc.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(adminCtxKey, user)
		c.Next()
	}
}

func (h *handlers) adminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}
	token, expires, err := h.deps.AdminSvc.Login(req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: expires})
}

func (h *handlers) adminLogout(c *gin.Context) {
	h.deps.AdminSvc.Logout(bearerToken(c))
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.AdminSvc.Stats(c.Request.Context()))
}

func (h *handlers) adminReloadCatalog(c *gin.Context) {
	n, err := h.deps.AdminSvc.ReloadCatalog(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *handlers) adminListProducts(c *gin.Context) {
	products, err := h.deps.AdminSvc.ListProducts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(products), "results": products})
}

func (h *handlers) adminGetProduct(c *gin.Context) {
	p, err := h.deps.AdminSvc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) adminCreateProduct(c *gin.Context) {
	var req domain.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid product body")
		return
	}
	p, err := h.deps.AdminSvc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *handlers) adminUpdateProduct(c *gin.Context) {
	var req domain.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid product body")
		return
	}
	p, err := h.deps.AdminSvc.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) adminDeleteProduct(c *gin.Context) {
	if err := h.deps.AdminSvc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// adminImportProducts accepts a JSON array of products and inserts the ones
// not yet stored.
func (h *handlers) adminImportProducts(c *gin.Context) {
	var req []domain.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body must be a JSON array of products")
		return
	}
	report, err := h.deps.AdminSvc.ImportProducts(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handlers) adminListOrders(c *gin.Context) {
	status := domain.OrderStatus(c.Query("status"))
	orders, err := h.deps.AdminSvc.ListOrders(c.Request.Context(), status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"total": len(orders), "results": orders})
}

func (h *handlers) adminCreateOrder(c *gin.Context) {
	var req domain.Order
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid order body")
		return
	}
	o, err := h.deps.AdminSvc.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *handlers) adminUpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid order id")
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	o, err := h.deps.AdminSvc.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
