// Package mongostore implements store.Store on MongoDB using the v2 driver.
// Documents are mapped with their bson tags and all indexes are declared in
// ensureIndexes.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	ColUsers         = "user"
	ColRefreshTokens = "refreshToken"
	ColGoals         = "goal"
	ColGraphs        = "graph"
	ColStatistics    = "statistic"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database

	users  *users
	tokens *refreshTokens
	goals  collection[model.Goal, *model.Goal]
	graphs collection[model.Graph, *model.Graph]
	stats  collection[model.Statistic, *model.Statistic]
}

var _ store.Store = (*Store)(nil)

// NewStore connects to uri, verifies the connection and makes sure the
// indexes exist.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed, %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed, %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client: client,
		db:     db,
		users:  &users{col: db.Collection(ColUsers)},
		tokens: &refreshTokens{col: db.Collection(ColRefreshTokens)},
		goals:  collection[model.Goal, *model.Goal]{col: db.Collection(ColGoals)},
		graphs: collection[model.Graph, *model.Graph]{col: db.Collection(ColGraphs)},
		stats:  collection[model.Statistic, *model.Statistic]{col: db.Collection(ColStatistics)},
	}

	// Email uniqueness and one refresh token per email only hold with the
	// unique indexes in place.
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ensure indexes failed, %w", err)
	}

	zap.L().Debug("mongostore: connected", zap.String("database", dbName))

	return s, nil
}

func (s *Store) Users() store.Users { return s.users }
func (s *Store) RefreshTokens() store.RefreshTokens { return s.tokens }
func (s *Store) Goals() store.Owned[model.Goal] { return s.goals }
func (s *Store) Graphs() store.Owned[model.Graph] { return s.graphs }
func (s *Store) Statistics() store.Owned[model.Statistic] { return s.stats }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.client.Disconnect(ctx)
}

// Drop removes the whole database. Only used by tests.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "status", Value: 1}}, false},

		{ColRefreshTokens, bson.D{{Key: "user.email", Value: 1}}, true},
		{ColRefreshTokens, bson.D{{Key: "token", Value: 1}}, true},
		{ColRefreshTokens, bson.D{{Key: "user._id", Value: 1}}, false},

		{ColGoals, bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}}, false},
		{ColGraphs, bson.D{{Key: "userId", Value: 1}}, false},
		{ColStatistics, bson.D{{Key: "userId", Value: 1}}, false},
	}

	for _, i := range indexes {
		m := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			m.Options = options.Index().SetUnique(true)
		}

		if _, err := s.db.Collection(i.col).Indexes().CreateOne(ctx, m); err != nil {
			return fmt.Errorf("create index on %s, %w", i.col, err)
		}
	}

	return nil
}
