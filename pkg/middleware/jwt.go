package middleware

import (
	"errors"
	"net/http"
	"strings"

	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	IdentityKey = "identity"
	UserIDKey   = "userID"
)

type TokenDecoder interface {
	DecodeToken(token string) (model.Identity, error)
}

// NewAuthMiddleware rejects requests without a valid bearer token and stores
// the token's identity under IdentityKey. It never touches the store, a
// token stays valid until it expires.
func NewAuthMiddleware(tokens TokenDecoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString(RequestIDKey)

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Unauthorized",
				"requestID": requestID,
			})
			return
		}

		_, token, _ := strings.Cut(header, " ")

		id, err := tokens.DecodeToken(token)
		if err != nil {
			var te *security.TokenError
			if !errors.As(err, &te) {
				te = &security.TokenError{Status: http.StatusInternalServerError, Message: "Invalid token", Err: err}
			}

			c.AbortWithStatusJSON(te.Status, gin.H{
				"error":     te.Message,
				"requestID": requestID,
			})

			zap.L().Debug("Rejected token", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set(IdentityKey, id)
		c.Set(UserIDKey, id.UserID)
		c.Next()
	}
}

// Identity returns the identity stored by the auth middleware. It panics
// when used on a route without it.
func Identity(c *gin.Context) model.Identity {
	return c.MustGet(IdentityKey).(model.Identity)
}
