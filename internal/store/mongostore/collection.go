package mongostore

import (
	"context"

	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/util"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// collection implements store.Owned for any document embedding model.Owner.
type collection[T any, PT model.Document[T]] struct {
	col *mongo.Collection
}

func byOwner(id, userID string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "userId", Value: userID}}
}

func (c collection[T, PT]) Create(ctx context.Context, userID string, doc *T) error {
	id, err := util.NewID()
	if err != nil {
		return err
	}

	PT(doc).Stamp(id, userID)

	_, err = c.col.InsertOne(ctx, doc)
	return wrapError(err, "_id")
}

func (c collection[T, PT]) Get(ctx context.Context, id, userID string) (*T, error) {
	return findOne[T](ctx, c.col, byOwner(id, userID))
}

func (c collection[T, PT]) List(ctx context.Context, userID string, q model.ListQuery) ([]T, error) {
	filter := bson.D{{Key: "userId", Value: userID}}
	for k, v := range q.Filter {
		filter = append(filter, bson.E{Key: k, Value: v})
	}

	opts := options.Find()
	if len(q.Sort) > 0 {
		sort := make(bson.D, 0, len(q.Sort))
		for _, s := range q.Sort {
			dir := 1
			if s.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: s.Key, Value: dir})
		}
		opts.SetSort(sort)
	}

	if q.Results > 0 {
		opts.SetSkip(int64(q.Offset())).SetLimit(int64(q.Results))
	}

	return findMany[T](ctx, c.col, filter, opts)
}

func (c collection[T, PT]) Update(ctx context.Context, id, userID string, p model.Patch) (store.UpdateResult, error) {
	return update(ctx, c.col, byOwner(id, userID), p, "")
}

func (c collection[T, PT]) Delete(ctx context.Context, id, userID string) (int64, error) {
	res, err := c.col.DeleteOne(ctx, byOwner(id, userID))
	if err != nil {
		return 0, wrapError(err, "")
	}

	return res.DeletedCount, nil
}

func (c collection[T, PT]) Purge(ctx context.Context, userID string) (int64, error) {
	return deleteMany(ctx, c.col, bson.D{{Key: "userId", Value: userID}})
}
