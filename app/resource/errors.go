package resource

import (
	"errors"
	"net/http"

	"bitwise74/goals-api/pkg/middleware"
	"bitwise74/goals-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BadBody answers a request whose body or query failed to read or validate.
func BadBody(c *gin.Context, err error) {
	requestID := c.GetString(middleware.RequestIDKey)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":     "Request body size exceeds limit",
			"requestID": requestID,
		})
		return
	}

	var invalid *validators.Invalid
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request",
			"fields":    invalid.Fields,
			"requestID": requestID,
		})

		zap.L().Debug("Rejected request", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error":     "Invalid request body",
		"requestID": requestID,
	})

	zap.L().Debug("Can't read request body", zap.Error(err), zap.String("requestID", requestID))
}
