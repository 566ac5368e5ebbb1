// Package graphstat serves the dashboard in a single request.
package graphstat

import (
	"net/http"

	"bitwise74/goals-api/internal"
	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/pkg/middleware"
	"bitwise74/goals-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FindByUser returns all of the caller's graphs and statistics. Unlike the
// per-resource lists an empty dashboard is not an error.
func FindByUser(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet(middleware.RequestIDKey).(string)
	id := middleware.Identity(c)

	var (
		graphs []model.Graph
		stats  []model.Statistic
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		graphs, err = d.Store.Graphs().List(ctx, id.UserID, model.ListQuery{Sort: validators.GraphList.DefaultSort})
		return err
	})
	g.Go(func() (err error) {
		stats, err = d.Store.Statistics().List(ctx, id.UserID, model.ListQuery{Sort: validators.StatisticList.DefaultSort})
		return err
	})

	if err := g.Wait(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch graphs and stats", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	graphsOut := make([]model.GraphPayload, 0, len(graphs))
	for i := range graphs {
		graphsOut = append(graphsOut, model.GraphToAPI(&graphs[i]))
	}

	statsOut := make([]model.StatisticPayload, 0, len(stats))
	for i := range stats {
		statsOut = append(statsOut, model.StatisticToAPI(&stats[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"graphs": graphsOut,
		"stats":  statsOut,
	})
}
