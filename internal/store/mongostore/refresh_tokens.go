package mongostore

import (
	"context"

	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/pkg/util"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type refreshTokens struct {
	col *mongo.Collection
}

func (r *refreshTokens) Create(ctx context.Context, t *model.RefreshToken) error {
	id, err := util.NewID()
	if err != nil {
		return err
	}

	t.ID = id

	_, err = r.col.InsertOne(ctx, t)
	return wrapError(err, "email")
}

func (r *refreshTokens) ByEmail(ctx context.Context, email string) (*model.RefreshToken, error) {
	return findOne[model.RefreshToken](ctx, r.col, bson.D{{Key: "user.email", Value: email}})
}

func (r *refreshTokens) Find(ctx context.Context, token, email string) (*model.RefreshToken, error) {
	return findOne[model.RefreshToken](ctx, r.col, bson.D{
		{Key: "token", Value: token},
		{Key: "user.email", Value: email},
	})
}

func (r *refreshTokens) Delete(ctx context.Context, token string) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "token", Value: token}})
	if err != nil {
		return 0, wrapError(err, "")
	}

	return res.DeletedCount, nil
}

func (r *refreshTokens) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return deleteMany(ctx, r.col, bson.D{{Key: "user._id", Value: userID}})
}
