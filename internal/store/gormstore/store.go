// Package gormstore implements store.Store on top of gorm. SQLite is the
// default and postgres is used when a DSN for it is configured.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB

	users  *users
	tokens *refreshTokens
	goals  collection[model.Goal, *model.Goal]
	graphs collection[model.Graph, *model.Graph]
	stats  collection[model.Statistic, *model.Statistic]
}

var _ store.Store = (*Store)(nil)

// Open connects to the database for driver ("sqlite" or "postgres") and
// migrates the schema.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector

	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database, %w", driver, err)
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}

		// SQLite allows a single writer and in-memory databases live
		// as long as their connection does.
		sqlDB.SetMaxOpenConns(1)
	}

	return New(db)
}

// New wraps an open gorm connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	err := db.AutoMigrate(model.User{}, model.RefreshToken{}, model.Goal{}, model.Graph{}, model.Statistic{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return &Store{
		db:     db,
		users:  &users{db: db},
		tokens: &refreshTokens{db: db},
		goals:  collection[model.Goal, *model.Goal]{db: db},
		graphs: collection[model.Graph, *model.Graph]{db: db},
		stats:  collection[model.Statistic, *model.Statistic]{db: db},
	}, nil
}

func (s *Store) Users() store.Users { return s.users }
func (s *Store) RefreshTokens() store.RefreshTokens { return s.tokens }
func (s *Store) Goals() store.Owned[model.Goal] { return s.goals }
func (s *Store) Graphs() store.Owned[model.Graph] { return s.graphs }
func (s *Store) Statistics() store.Owned[model.Statistic] { return s.stats }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// wrapError maps gorm errors onto the store errors. field names the unique
// column a duplicate key error refers to.
func wrapError(err error, field string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &store.ConflictError{Field: field}
	default:
		return err
	}
}

// columns converts patch keys into column names using the naming strategy
// the schema was migrated with.
func columns(db *gorm.DB, p model.Patch) map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[db.NamingStrategy.ColumnName("", k)] = v
	}

	return out
}
