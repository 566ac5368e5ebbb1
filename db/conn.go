// Package db opens the configured store
package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/internal/store/gormstore"
	"bitwise74/goals-api/internal/store/mongostore"
	"bitwise74/goals-api/pkg/util"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// New opens the store selected by db.driver. The caller owns it and must
// Close it on shutdown.
func New(ctx context.Context) (store.Store, error) {
	driver := viper.GetString("db.driver")

	switch driver {
	case "sqlite":
		dsn := viper.GetString("db.dsn")

		// If running in a docker container don't allow the sqlite file to be created.
		// The host should instead mount it using volumes
		if util.IsRunningInDocker() {
			if _, err := os.Stat(dsn); errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to /app/%s", dsn)
			}
		}

		fallthrough
	case "postgres":
		s, err := gormstore.Open(driver, viper.GetString("db.dsn"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s database, %w", driver, err)
		}

		zap.L().Info("Database ready", zap.String("driver", driver))
		return s, nil

	case "mongo":
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		s, err := mongostore.NewStore(ctx, viper.GetString("db.uri"), viper.GetString("db.name"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB, %w", err)
		}

		zap.L().Info("Database ready", zap.String("driver", driver), zap.String("name", viper.GetString("db.name")))
		return s, nil
	}

	return nil, fmt.Errorf("unknown database driver %q", driver)
}
