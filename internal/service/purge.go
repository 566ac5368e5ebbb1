package service

import (
	"context"
	"fmt"
	"time"

	"bitwise74/goals-api/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PurgeTimeout bounds the detached context used by PurgeUser.
const PurgeTimeout = 30 * time.Second

// PurgeUser removes everything owned by userID except the user record
// itself. Collections are purged concurrently and a failure in one does not
// stop the others. A cancelled ctx does not stop the purge.
func PurgeUser(ctx context.Context, s store.Store, userID string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PurgeTimeout)
	defer cancel()

	var g errgroup.Group

	purge := func(name string, fn func(context.Context, string) (int64, error)) {
		g.Go(func() error {
			n, err := fn(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to purge %s, %w", name, err)
			}

			zap.L().Debug("Purged user documents", zap.String("userID", userID), zap.String("collection", name), zap.Int64("deleted", n))
			return nil
		})
	}

	purge("goals", s.Goals().Purge)
	purge("graphs", s.Graphs().Purge)
	purge("statistics", s.Statistics().Purge)
	purge("refresh tokens", s.RefreshTokens().DeleteByUser)

	return g.Wait()
}
