package gormstore

import (
	"context"

	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// collection implements store.Owned for any document embedding model.Owner.
type collection[T any, PT model.Document[T]] struct {
	db *gorm.DB
}

func (c collection[T, PT]) owned(ctx context.Context, userID string) *gorm.DB {
	return c.db.WithContext(ctx).Model(new(T)).Where("user_id = ?", userID)
}

func (c collection[T, PT]) Create(ctx context.Context, userID string, doc *T) error {
	id, err := util.NewID()
	if err != nil {
		return err
	}

	PT(doc).Stamp(id, userID)
	return wrapError(c.db.WithContext(ctx).Create(doc).Error, "id")
}

func (c collection[T, PT]) Get(ctx context.Context, id, userID string) (*T, error) {
	var doc T

	err := c.owned(ctx, userID).
		Where("id = ?", id).
		First(&doc).
		Error
	if err != nil {
		return nil, wrapError(err, "")
	}

	return &doc, nil
}

func (c collection[T, PT]) List(ctx context.Context, userID string, q model.ListQuery) ([]T, error) {
	tx := c.owned(ctx, userID)

	for k, v := range q.Filter {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: c.db.NamingStrategy.ColumnName("", k)}, Value: v})
	}

	for _, s := range q.Sort {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: c.db.NamingStrategy.ColumnName("", s.Key)},
			Desc:   s.Desc,
		})
	}

	if q.Results > 0 {
		tx = tx.Offset(q.Offset()).Limit(q.Results)
	}

	docs := []T{}
	if err := tx.Find(&docs).Error; err != nil {
		return nil, wrapError(err, "")
	}

	return docs, nil
}

// Update applies p to the document. SQL drivers report matched rows as
// affected, so Modified equals Matched here.
func (c collection[T, PT]) Update(ctx context.Context, id, userID string, p model.Patch) (store.UpdateResult, error) {
	if len(p) == 0 {
		var n int64
		err := c.owned(ctx, userID).Where("id = ?", id).Count(&n).Error
		return store.UpdateResult{Matched: n}, wrapError(err, "")
	}

	res := c.owned(ctx, userID).
		Where("id = ?", id).
		Updates(columns(c.db, p))
	if res.Error != nil {
		return store.UpdateResult{}, wrapError(res.Error, "")
	}

	return store.UpdateResult{Matched: res.RowsAffected, Modified: res.RowsAffected}, nil
}

func (c collection[T, PT]) Delete(ctx context.Context, id, userID string) (int64, error) {
	res := c.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(new(T))

	return res.RowsAffected, wrapError(res.Error, "")
}

func (c collection[T, PT]) Purge(ctx context.Context, userID string) (int64, error) {
	res := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(new(T))

	return res.RowsAffected, wrapError(res.Error, "")
}
