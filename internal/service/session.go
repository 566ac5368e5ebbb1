package service

import (
	"context"
	"errors"
	"fmt"

	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"

	"github.com/google/uuid"
)

// AddRefreshToken returns the refresh token registered for u's email, minting
// one when there is none. Existing tokens are never rotated, so repeated
// sign-ins receive the same value.
func AddRefreshToken(ctx context.Context, s store.Store, u *model.User) (string, error) {
	existing, err := s.RefreshTokens().ByEmail(ctx, u.Email)
	switch {
	case err == nil:
		return existing.Token, nil
	case !errors.Is(err, store.ErrNotFound):
		return "", fmt.Errorf("failed to look up refresh token, %w", err)
	}

	t := &model.RefreshToken{
		Token: uuid.NewString(),
		User:  model.SnapshotOf(u),
	}

	err = s.RefreshTokens().Create(ctx, t)
	if store.IsConflict(err) {
		// Lost a race with a concurrent sign-in for the same email.
		existing, err := s.RefreshTokens().ByEmail(ctx, u.Email)
		if err != nil {
			return "", fmt.Errorf("failed to read concurrent refresh token, %w", err)
		}

		return existing.Token, nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to save refresh token, %w", err)
	}

	return t.Token, nil
}
