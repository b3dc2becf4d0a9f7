// Package memory provides an in-process implementation of the store interfaces.
// Documents are kept as encoded BSON so reads and writes observe the same
// encoding rules as the real backends. It backs unit tests and the "memory"
// database driver for local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/phrazzld/taskmart-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Database is an in-memory store.Database. The zero value is not usable; use NewDatabase.
type Database struct {
	mu          sync.Mutex
	collections map[string]*Collection
}

// Ensure Database implements store.Database.
var _ store.Database = (*Database)(nil)

// NewDatabase creates an empty in-memory database.
func NewDatabase() *Database {
	return &Database{collections: make(map[string]*Collection)}
}

// Collection implements store.Database.Collection. Collections are created on
// first use.
func (d *Database) Collection(name string) store.Collection {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.collections[name]
	if !ok {
		c = NewCollection(name)
		d.collections[name] = c
	}
	return c
}

// Ping implements store.Database.Ping.
func (d *Database) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close implements store.Database.Close.
func (d *Database) Close(ctx context.Context) error {
	return nil
}

// Collection is an in-memory store.Collection preserving insertion order.
type Collection struct {
	name string
	mu   sync.RWMutex
	docs []bson.Raw
}

// Ensure Collection implements store.Collection.
var _ store.Collection = (*Collection)(nil)

// NewCollection creates an empty collection.
func NewCollection(name string) *Collection {
	return &Collection{name: name}
}

// Len returns the number of stored documents.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// FindOne implements store.Collection.FindOne.
func (c *Collection) FindOne(ctx context.Context, filter store.Filter, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, err := c.indexOf(filter)
	if err != nil {
		return err
	}
	if idx < 0 {
		return store.ErrNotFound
	}
	return bson.Unmarshal(c.docs[idx], out)
}

// Find implements store.Collection.Find. The matching documents are
// snapshotted when Find is called.
func (c *Collection) Find(ctx context.Context, filter store.Filter) (store.Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var matched []bson.Raw
	for _, doc := range c.docs {
		ok, err := Match(doc, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, doc)
		}
	}
	return store.NewSliceCursor(matched), nil
}

// InsertOne implements store.Collection.InsertOne.
func (c *Collection) InsertOne(ctx context.Context, doc any) (*store.InsertOneResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, id, err := store.PrepareDocument(doc)
	if err != nil {
		return nil, err
	}
	raw, err := bson.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.indexOf(store.ByID(id))
	if err != nil {
		return nil, err
	}
	if existing >= 0 {
		return nil, fmt.Errorf("%w: _id %s", store.ErrDuplicate, id.Hex())
	}

	c.docs = append(c.docs, raw)
	return &store.InsertOneResult{InsertedID: id}, nil
}

// UpdateOne implements store.Collection.UpdateOne.
func (c *Collection) UpdateOne(
	ctx context.Context,
	filter store.Filter,
	set store.Fields,
) (*store.UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := store.ValidateFields(set); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx, err := c.indexOf(filter)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return &store.UpdateResult{}, nil
	}

	updated, modified, err := applySet(c.docs[idx], set)
	if err != nil {
		return nil, err
	}
	c.docs[idx] = updated

	result := &store.UpdateResult{MatchedCount: 1}
	if modified {
		result.ModifiedCount = 1
	}
	return result, nil
}

// DeleteOne implements store.Collection.DeleteOne.
func (c *Collection) DeleteOne(ctx context.Context, filter store.Filter) (*store.DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx, err := c.indexOf(filter)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return &store.DeleteResult{}, nil
	}

	c.docs = append(c.docs[:idx], c.docs[idx+1:]...)
	return &store.DeleteResult{DeletedCount: 1}, nil
}

// indexOf returns the position of the first document matching filter, or -1.
// Callers must hold the lock.
func (c *Collection) indexOf(filter store.Filter) (int, error) {
	for i, doc := range c.docs {
		ok, err := Match(doc, filter)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

// applySet replaces top-level fields of doc, appending fields it lacks.
func applySet(doc bson.Raw, set store.Fields) (bson.Raw, bool, error) {
	var d bson.D
	if err := bson.Unmarshal(doc, &d); err != nil {
		return nil, false, err
	}

	modified := false
	for key, value := range set {
		replaced := false
		for i := range d {
			if d[i].Key != key {
				continue
			}
			if !sameValue(d[i].Value, value) {
				modified = true
			}
			d[i].Value = value
			replaced = true
			break
		}
		if !replaced {
			d = append(d, primitive.E{Key: key, Value: value})
			modified = true
		}
	}

	raw, err := bson.Marshal(d)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return raw, modified, nil
}

func sameValue(a, b any) bool {
	ra, errA := rawValue(a)
	rb, errB := rawValue(b)
	if errA != nil || errB != nil {
		return false
	}
	return ra.Equal(rb)
}
