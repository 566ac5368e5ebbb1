package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SeedTimeout bounds the detached context used by SeedDefaults.
const SeedTimeout = 10 * time.Second

func ptr[T any](v T) *T {
	return &v
}

// DefaultStatistics are created for every new user.
func DefaultStatistics() []model.Statistic {
	return []model.Statistic{
		{
			Name:        "completedOnTime",
			Sign:        ptr("%"),
			Icon:        model.JSON(`["fas","trophy"]`),
			Color:       ptr("#b39700"),
			Description: ptr("completadas a tiempo"),
		},
		{
			Name:        "completedYear",
			Sign:        ptr(""),
			Icon:        model.JSON(`["fas","check"]`),
			Color:       ptr("#06a106"),
			Description: ptr("completadas este año"),
		},
	}
}

// DefaultGraphs are created for every new user. The yearly graph starts with
// a zeroed series for the given year.
func DefaultGraphs(year int) []model.Graph {
	zeros := strings.TrimSuffix(strings.Repeat("0,", 13), ",")

	return []model.Graph{
		{
			Title:  "Metas en proceso",
			Type:   "Bar",
			Labels: model.JSON(`["A tiempo","Vencidas"]`),
			Data:   model.JSON(`[0,0,0]`),
		},
		{
			Title:  "Metas por tipo",
			Type:   "Doughnut",
			Labels: model.JSON(`["Pasos","Simple","Objetivo"]`),
			Data:   model.JSON(`[0,0,0]`),
		},
		{
			Title:  "Metas completadas",
			Type:   "Line",
			ByYear: true,
			Labels: model.JSON(`["Ene","Feb","Mar","Abr","May","Jun","Jul","Ago","Sep","Oct","Nov","Dic"]`),
			Data:   model.JSON(fmt.Sprintf(`{"%d":[%s]}`, year, zeros)),
		},
	}
}

// SeedDefaults creates the default statistics and graphs for a new user
// concurrently. It runs on a context detached from ctx so a client hanging up
// does not leave the user half seeded. Individual failures are logged and the
// first one is returned, nothing is rolled back.
func SeedDefaults(ctx context.Context, s store.Store, userID string, now time.Time) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SeedTimeout)
	defer cancel()

	var g errgroup.Group

	for _, stat := range DefaultStatistics() {
		g.Go(func() error {
			if err := s.Statistics().Create(ctx, userID, &stat); err != nil {
				zap.L().Error("Failed to seed statistic", zap.Error(err), zap.String("userID", userID), zap.String("name", stat.Name))
				return fmt.Errorf("failed to seed statistic %s, %w", stat.Name, err)
			}
			return nil
		})
	}

	for _, graph := range DefaultGraphs(now.Year()) {
		g.Go(func() error {
			if err := s.Graphs().Create(ctx, userID, &graph); err != nil {
				zap.L().Error("Failed to seed graph", zap.Error(err), zap.String("userID", userID), zap.String("title", graph.Title))
				return fmt.Errorf("failed to seed graph %s, %w", graph.Title, err)
			}
			return nil
		})
	}

	return g.Wait()
}
