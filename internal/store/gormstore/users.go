package gormstore

import (
	"context"
	"strings"

	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/util"

	"gorm.io/gorm"
)

type users struct {
	db *gorm.DB
}

func (u *users) Create(ctx context.Context, user *model.User) error {
	id, err := util.NewID()
	if err != nil {
		return err
	}

	user.ID = id
	user.Email = strings.ToLower(user.Email)

	return wrapError(u.db.WithContext(ctx).Create(user).Error, "email")
}

func (u *users) ByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User

	err := u.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, wrapError(err, "")
	}

	return &user, nil
}

func (u *users) ByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	err := u.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return nil, wrapError(err, "")
	}

	return &user, nil
}

func (u *users) ListActive(ctx context.Context) ([]model.User, error) {
	list := []model.User{}

	err := u.db.WithContext(ctx).Where("status = ?", 1).Order("signup_date").Find(&list).Error
	if err != nil {
		return nil, wrapError(err, "")
	}

	return list, nil
}

func (u *users) Update(ctx context.Context, id string, p model.Patch) (store.UpdateResult, error) {
	tx := u.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id)

	if len(p) == 0 {
		var n int64
		err := tx.Count(&n).Error
		return store.UpdateResult{Matched: n}, wrapError(err, "")
	}

	res := tx.Updates(columns(u.db, p))
	if res.Error != nil {
		return store.UpdateResult{}, wrapError(res.Error, "email")
	}

	return store.UpdateResult{Matched: res.RowsAffected, Modified: res.RowsAffected}, nil
}

func (u *users) Delete(ctx context.Context, id string) (int64, error) {
	res := u.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	return res.RowsAffected, wrapError(res.Error, "")
}
