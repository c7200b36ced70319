package httpserver

import (
	"errors"
	"net/http"

	"chocostore/internal/checkout"
	"chocostore/internal/domain"
	adminsvc "chocostore/internal/service/admin"
	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto status codes. Unknown errors are
// logged and reported as a generic 500.
func (h *handlers) writeError(c *gin.Context, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer info", "fields": verr.Fields})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, adminsvc.ErrInvalidCredentials), errors.Is(err, adminsvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, adminsvc.ErrLoginDisabled), errors.Is(err, adminsvc.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
