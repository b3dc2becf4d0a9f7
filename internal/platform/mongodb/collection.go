package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/phrazzld/taskmart-api/internal/platform/logger"
	"github.com/phrazzld/taskmart-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection implements store.Collection for a MongoDB collection.
type Collection struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// Ensure Collection implements store.Collection.
var _ store.Collection = (*Collection)(nil)

// NewCollection wraps coll.
func NewCollection(coll *mongo.Collection, log *slog.Logger) *Collection {
	if log == nil {
		log = slog.Default()
	}
	return &Collection{
		coll:   coll,
		logger: log.With(slog.String("collection", coll.Name())),
	}
}

// FindOne implements store.Collection.FindOne.
func (c *Collection) FindOne(ctx context.Context, filter store.Filter, out any) error {
	err := c.coll.FindOne(ctx, toDocument(filter)).Decode(out)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// Find implements store.Collection.Find. The returned *mongo.Cursor is
// handed back as is.
func (c *Collection) Find(ctx context.Context, filter store.Filter) (store.Cursor, error) {
	cur, err := c.coll.Find(ctx, toDocument(filter))
	if err != nil {
		return nil, MapError(err)
	}
	return cur, nil
}

// InsertOne implements store.Collection.InsertOne. The identifier is
// assigned client-side so the result type is the same on every backend.
func (c *Collection) InsertOne(ctx context.Context, doc any) (*store.InsertOneResult, error) {
	d, id, err := store.PrepareDocument(doc)
	if err != nil {
		return nil, err
	}

	if _, err := c.coll.InsertOne(ctx, d); err != nil {
		return nil, MapError(err)
	}

	logger.FromContextOrDefault(ctx, c.logger).Debug("document inserted",
		slog.String("collection", c.coll.Name()),
		slog.String("id", id.Hex()))
	return &store.InsertOneResult{InsertedID: id}, nil
}

// UpdateOne implements store.Collection.UpdateOne. MongoDB rejects an empty
// $set, so an empty update only reports whether a document matches.
func (c *Collection) UpdateOne(
	ctx context.Context,
	filter store.Filter,
	set store.Fields,
) (*store.UpdateResult, error) {
	if err := store.ValidateFields(set); err != nil {
		return nil, err
	}

	if len(set) == 0 {
		err := c.coll.FindOne(ctx, toDocument(filter)).Err()
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return &store.UpdateResult{}, nil
		case err != nil:
			return nil, MapError(err)
		}
		return &store.UpdateResult{MatchedCount: 1}, nil
	}

	update := bson.D{{Key: "$set", Value: toDocument(store.Filter(set))}}
	res, err := c.coll.UpdateOne(ctx, toDocument(filter), update)
	if err != nil {
		return nil, MapError(err)
	}
	return &store.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

// DeleteOne implements store.Collection.DeleteOne.
func (c *Collection) DeleteOne(ctx context.Context, filter store.Filter) (*store.DeleteResult, error) {
	res, err := c.coll.DeleteOne(ctx, toDocument(filter))
	if err != nil {
		return nil, MapError(err)
	}
	return &store.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

// toDocument converts a filter to a BSON document with keys in sorted order.
// A nil filter becomes an empty document, which the driver requires.
func toDocument(filter store.Filter) bson.D {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: filter[k]})
	}
	return d
}

// MapError translates driver errors to store errors.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}
