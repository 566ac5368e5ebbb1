package gormstore

import (
	"context"

	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/pkg/util"

	"gorm.io/gorm"
)

type refreshTokens struct {
	db *gorm.DB
}

func (r *refreshTokens) Create(ctx context.Context, t *model.RefreshToken) error {
	id, err := util.NewID()
	if err != nil {
		return err
	}

	t.ID = id
	return wrapError(r.db.WithContext(ctx).Create(t).Error, "email")
}

func (r *refreshTokens) ByEmail(ctx context.Context, email string) (*model.RefreshToken, error) {
	var t model.RefreshToken

	err := r.db.WithContext(ctx).Where("user_email = ?", email).First(&t).Error
	if err != nil {
		return nil, wrapError(err, "")
	}

	return &t, nil
}

func (r *refreshTokens) Find(ctx context.Context, token, email string) (*model.RefreshToken, error) {
	var t model.RefreshToken

	err := r.db.WithContext(ctx).
		Where("token = ? AND user_email = ?", token, email).
		First(&t).
		Error
	if err != nil {
		return nil, wrapError(err, "")
	}

	return &t, nil
}

func (r *refreshTokens) Delete(ctx context.Context, token string) (int64, error) {
	res := r.db.WithContext(ctx).Where("token = ?", token).Delete(&model.RefreshToken{})
	return res.RowsAffected, wrapError(res.Error, "")
}

func (r *refreshTokens) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RefreshToken{})
	return res.RowsAffected, wrapError(res.Error, "")
}
