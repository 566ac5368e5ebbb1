// Package store defines the persistence contract shared by the SQL and mongo
// drivers. Drivers translate their own errors into the ones declared here
// so handlers never inspect driver errors.
package store

import (
	"context"
	"errors"
	"fmt"

	"bitwise74/goals-api/internal/model"
)

var ErrNotFound = errors.New("store: not found")

// ConflictError is returned when a write violates a unique index.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("store: duplicate %s", e.Field)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

type UpdateResult struct {
	Matched  int64
	Modified int64
}

type Users interface {
	Create(ctx context.Context, u *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ListActive(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id string, p model.Patch) (UpdateResult, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type RefreshTokens interface {
	Create(ctx context.Context, t *model.RefreshToken) error
	ByEmail(ctx context.Context, email string) (*model.RefreshToken, error)
	Find(ctx context.Context, token, email string) (*model.RefreshToken, error)
	Delete(ctx context.Context, token string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// Owned is a collection of documents that belong to a single user. Every
// method filters by userID, so a document owned by someone else behaves
// exactly like one that does not exist.
type Owned[T any] interface {
	Create(ctx context.Context, userID string, doc *T) error
	Get(ctx context.Context, id, userID string) (*T, error)
	List(ctx context.Context, userID string, q model.ListQuery) ([]T, error)
	Update(ctx context.Context, id, userID string, p model.Patch) (UpdateResult, error)
	Delete(ctx context.Context, id, userID string) (int64, error)
	Purge(ctx context.Context, userID string) (int64, error)
}

type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Goals() Owned[model.Goal]
	Graphs() Owned[model.Graph]
	Statistics() Owned[model.Statistic]
	Ping(ctx context.Context) error
	Close() error
}
