package root

import (
	"context"
	"net/http"
	"time"

	"bitwise74/goals-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Test answers liveness checks.
func Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Goals RESTful api",
	})
}

// Ready answers 503 while the database can't be reached.
func Ready(c *gin.Context, d *internal.Deps) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Database unavailable",
		})

		zap.L().Warn("Readiness check failed", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ready",
	})
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": "Not found",
	})
}
