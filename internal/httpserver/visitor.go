package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	visitorCookie = "visitor_id"
	visitorHeader = "X-Visitor-ID"
	visitorCtxKey = "visitorID"
	visitorMaxAge = 365 * 24 * 60 * 60
)

// visitorMiddleware identifies the browser owning the cart. The id comes from
// the X-Visitor-ID header or the visitor cookie; a fresh one is issued when
// neither carries a valid UUID.
func visitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(visitorHeader)
		if _, err := uuid.Parse(id); err != nil {
			id, _ = c.Cookie(visitorCookie)
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(visitorCookie, id, visitorMaxAge, "/", "", false, true)
		c.Header(visitorHeader, id)
		c.Set(visitorCtxKey, id)
		c.Next()
	}
}

func visitorID(c *gin.Context) string {
	return c.GetString(visitorCtxKey)
}
