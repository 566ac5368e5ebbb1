package user

import (
	"errors"
	"net/http"

	"bitwise74/goals-api/internal"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/middleware"
	"bitwise74/goals-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type refreshBody struct {
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
}

// RefreshToken issues a new access token from the snapshot stored with the
// refresh token. The user record is not read again.
func RefreshToken(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)

	var data refreshBody
	if err := c.ShouldBindJSON(&data); err != nil || data.RefreshToken == "" || data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Missing params",
			"requestID": requestID,
		})
		return
	}

	rt, err := d.Store.RefreshTokens().Find(c.Request.Context(), data.RefreshToken, validators.NormalizeEmail(data.Email))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Unauthorized",
			"requestID": requestID,
		})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch refresh token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	token, err := d.Tokens.CreateToken(rt.User.Identity())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate access token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// message carries the token for clients of the older response shape.
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": token,
	})
}

// DeleteRefreshToken revokes a refresh token by value. Admins only.
func DeleteRefreshToken(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)

	if !middleware.Identity(c).Admin {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Unauthorized",
			"requestID": requestID,
		})
		return
	}

	n, err := d.Store.RefreshTokens().Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete refresh token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Delete completed",
		"deletedRows": n,
	})
}
