package user

import (
	"errors"
	"net/http"

	"bitwise74/goals-api/internal"
	"bitwise74/goals-api/internal/service"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/middleware"
	"bitwise74/goals-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type signInBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges credentials for an access token and the email's refresh
// token. Unknown emails and wrong passwords get the same answer.
func SignIn(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)

	var data signInBody
	if err := c.ShouldBindJSON(&data); err != nil || data.Email == "" || data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Missing params",
			"requestID": requestID,
		})
		return
	}

	user, err := d.Store.Users().ByEmail(c.Request.Context(), validators.NormalizeEmail(data.Email))
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

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ok, err := d.Argon.Compare(data.Password, user.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Unauthorized",
			"requestID": requestID,
		})
		return
	}

	refreshToken, err := service.AddRefreshToken(c.Request.Context(), d.Store, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue refresh token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	token, err := d.Tokens.CreateToken(user.Identity())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate access token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Authenticated",
		"token":        token,
		"refreshToken": refreshToken,
	})
}
