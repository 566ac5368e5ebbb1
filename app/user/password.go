package user

import (
	"errors"
	"net/http"

	"bitwise74/goals-api/internal"
	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/middleware"
	"bitwise74/goals-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type changePasswordBody struct {
	Password    string `json:"password"`
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword replaces the password of the user in the path after
// checking the current one. The body email must belong to that same user.
func ChangePassword(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)

	var data changePasswordBody
	if err := c.ShouldBindJSON(&data); err != nil || data.Password == "" || data.Email == "" || data.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Missing params",
			"requestID": requestID,
		})
		return
	}

	id, ok := targetID(c)
	if !ok {
		return
	}

	if err := validators.PasswordValidator(data.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	user, err := d.Store.Users().ByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found",
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

	if user.Email != validators.NormalizeEmail(data.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Bad request",
			"requestID": requestID,
		})
		return
	}

	match, err := d.Argon.Compare(data.Password, user.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !match {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Bad request",
			"requestID": requestID,
		})
		return
	}

	hash, err := d.Argon.Hash(data.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	res, err := d.Store.Users().Update(c.Request.Context(), id, model.Patch{"password": hash})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if res.Matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Update completed",
		"updatedRows": res.Modified,
	})
}
