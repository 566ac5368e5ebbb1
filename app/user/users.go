package user

import (
	"errors"
	"net/http"

	"bitwise74/goals-api/app/resource"
	"bitwise74/goals-api/internal"
	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/service"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/middleware"
	"bitwise74/goals-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FindAll lists active users. Admins only.
func FindAll(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)

	if !middleware.Identity(c).Admin {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Unauthorized",
			"requestID": requestID,
		})
		return
	}

	users, err := d.Store.Users().ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list users", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if users == nil {
		users = []model.User{}
	}

	c.JSON(http.StatusOK, users)
}

// targetID returns the :id parameter when the caller may act on that user.
// Anyone else gets the same 404 as a missing user.
func targetID(c *gin.Context) (string, bool) {
	id, ok := resource.PathID(c)
	if !ok {
		return "", false
	}

	if !middleware.Identity(c).CanAccess(id) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found",
			"requestID": c.GetString(middleware.RequestIDKey),
		})
		return "", false
	}

	return id, true
}

func FindByID(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)

	id, ok := targetID(c)
	if !ok {
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

	c.JSON(http.StatusOK, user)
}

// Update changes profile fields. Passwords are never written here and only
// admins may change status or admin.
func Update(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)

	id, ok := targetID(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		resource.BadBody(c, err)
		return
	}

	patch, err := validators.Decode(body, validators.UserFields, true)
	if err != nil {
		resource.BadBody(c, err)
		return
	}

	if !middleware.Identity(c).Admin {
		patch = patch.Without(validators.PrivilegedUserFields...)
	}

	res, err := d.Store.Users().Update(c.Request.Context(), id, patch)
	if store.IsConflict(err) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Email duplicated",
			"requestID": requestID,
		})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update user", zap.Error(err), zap.String("requestID", requestID))
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

// DeleteOne removes a user together with everything they own.
func DeleteOne(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)

	id, ok := targetID(c)
	if !ok {
		return
	}

	// Revoked before the user row goes, refresh never re-reads the user.
	if _, err := d.Store.RefreshTokens().DeleteByUser(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to revoke refresh token", zap.Error(err), zap.String("userID", id), zap.String("requestID", requestID))
		return
	}

	n, err := d.Store.Users().Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if n == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found",
			"requestID": requestID,
		})
		return
	}

	if err := service.PurgeUser(c.Request.Context(), d.Store, id); err != nil {
		zap.L().Warn("Failed to purge user documents", zap.Error(err), zap.String("userID", id), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Delete completed",
		"deletedRows": n,
	})
}
