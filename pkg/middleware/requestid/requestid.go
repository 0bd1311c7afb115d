package requestid

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the request ID in both directions.
const Header = "X-Request-ID"

const ctxKey = "request_id"

// maxLength is the longest inbound ID kept; longer ones are replaced.
const maxLength = 128

// Middleware tags each request with an ID, keeping a usable inbound one.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(Header))
		if id == "" || len(id) > maxLength {
			id = uuid.NewString()
		}
		c.Set(ctxKey, id)
		c.Header(Header, id)
		c.Next()
	}
}

// Value returns the ID assigned by Middleware, or "" outside it.
func Value(c *gin.Context) string {
	return c.GetString(ctxKey)
}
