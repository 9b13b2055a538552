package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery converts handler panics into 500 responses so one bad
// clause payload cannot take the whole API down. The tenant is logged
// when auth has run, which is every route except login and the
// extraction callback.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestID := GetRequestID(c)

				attrs := []any{
					"error", r,
					"request_id", requestID,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				}
				if tenant := GetTenant(c); tenant != "" {
					attrs = append(attrs, "tenant", tenant)
				}
				attrs = append(attrs, "stack", string(debug.Stack()))

				slog.Error("panic recovered", attrs...)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": requestID,
				})
			}
		}()

		c.Next()
	}
}
