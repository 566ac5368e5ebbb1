package mongostore

import (
	"context"
	"strings"

	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/util"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type users struct {
	col *mongo.Collection
}

func (u *users) Create(ctx context.Context, user *model.User) error {
	id, err := util.NewID()
	if err != nil {
		return err
	}

	user.ID = id
	user.Email = strings.ToLower(user.Email)

	_, err = u.col.InsertOne(ctx, user)
	return wrapError(err, "email")
}

func (u *users) ByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, u.col, bson.D{{Key: "_id", Value: id}})
}

func (u *users) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, u.col, bson.D{{Key: "email", Value: strings.ToLower(email)}})
}

func (u *users) ListActive(ctx context.Context) ([]model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "signupDate", Value: 1}})
	return findMany[model.User](ctx, u.col, bson.D{{Key: "status", Value: 1}}, opts)
}

func (u *users) Update(ctx context.Context, id string, p model.Patch) (store.UpdateResult, error) {
	return update(ctx, u.col, bson.D{{Key: "_id", Value: id}}, p, "email")
}

func (u *users) Delete(ctx context.Context, id string) (int64, error) {
	res, err := u.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return 0, wrapError(err, "")
	}

	return res.DeletedCount, nil
}
