package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SignupGuard requires "Authorization: Bearer <token>" on sign-up when a
// token is configured. An empty token leaves sign-up open.
func SignupGuard(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		_, got, _ := strings.Cut(c.GetHeader("Authorization"), " ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Unauthorized",
				"requestID": c.GetString(RequestIDKey),
			})
			return
		}

		c.Next()
	}
}
