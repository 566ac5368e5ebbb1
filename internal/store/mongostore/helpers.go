package mongostore

import (
	"context"
	"errors"

	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// wrapError maps driver errors onto the store errors. field names the
// unique key a duplicate key error refers to.
func wrapError(err error, field string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return &store.ConflictError{Field: field}
	default:
		return err
	}
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D) (*T, error) {
	var result T
	if err := col.FindOne(ctx, filter).Decode(&result); err != nil {
		return nil, wrapError(err, "")
	}

	return &result, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrapError(err, "")
	}
	defer cursor.Close(ctx)

	results := []T{}
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// update sets the patched fields on the single document matching filter.
// An empty patch only reports whether the document exists.
func update(ctx context.Context, col *mongo.Collection, filter bson.D, p model.Patch, field string) (store.UpdateResult, error) {
	if len(p) == 0 {
		n, err := col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
		return store.UpdateResult{Matched: n}, wrapError(err, "")
	}

	set := make(bson.D, 0, len(p))
	for k, v := range p {
		set = append(set, bson.E{Key: k, Value: v})
	}

	res, err := col.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return store.UpdateResult{}, wrapError(err, field)
	}

	return store.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func deleteMany(ctx context.Context, col *mongo.Collection, filter bson.D) (int64, error) {
	res, err := col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, wrapError(err, "")
	}

	return res.DeletedCount, nil
}
