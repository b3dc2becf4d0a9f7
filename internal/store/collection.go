package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/taskmart-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names used by the application.
const (
	UsersCollection = "users"
	TasksCollection = "tasks"
)

// IDField is the document key that holds the identifier.
const IDField = "_id"

// Filter selects documents by equality. Keys are field paths; nested fields use
// dots ("user.email"). IDField matches the document identifier. An empty or nil
// filter matches every document.
type Filter map[string]any

// Fields holds top-level field replacements for UpdateOne.
type Fields map[string]any

// ByID returns a filter matching the document with the given identifier.
func ByID(id primitive.ObjectID) Filter {
	return Filter{IDField: id}
}

// InsertOneResult is the acknowledgment of a successful insert.
type InsertOneResult struct {
	InsertedID primitive.ObjectID
}

// UpdateResult reports how many documents an update matched and changed.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// DeleteResult reports how many documents a delete removed.
type DeleteResult struct {
	DeletedCount int64
}

// Cursor is a lazy sequence of documents returned by Find.
// *mongo.Cursor satisfies it directly.
type Cursor interface {
	// Next advances to the next document. It returns false when the
	// sequence is exhausted or an error occurred (see Err).
	Next(ctx context.Context) bool

	// Decode unmarshals the current document into val.
	Decode(val any) error

	// All decodes every remaining document into results, which must be a
	// pointer to a slice, and closes the cursor.
	All(ctx context.Context, results any) error

	// Err returns the last error seen by the cursor.
	Err() error

	// Close releases the cursor's resources.
	Close(ctx context.Context) error
}

// Collection is a set of documents addressed by filter. Documents are encoded
// with their bson struct tags regardless of backend.
type Collection interface {
	// FindOne decodes the first document matching filter into out.
	// Returns ErrNotFound if nothing matches.
	FindOne(ctx context.Context, filter Filter, out any) error

	// Find returns a cursor over all documents matching filter in the
	// store's natural (insertion) order.
	Find(ctx context.Context, filter Filter) (Cursor, error)

	// InsertOne stores doc. A document without an _id gets a new ObjectID.
	InsertOne(ctx context.Context, doc any) (*InsertOneResult, error)

	// UpdateOne replaces the given top-level fields on the first document
	// matching filter. A zero MatchedCount means nothing matched.
	UpdateOne(ctx context.Context, filter Filter, set Fields) (*UpdateResult, error)

	// DeleteOne removes the first document matching filter.
	DeleteOne(ctx context.Context, filter Filter) (*DeleteResult, error)
}

// Database hands out collections and owns the underlying connection.
type Database interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ParseID parses the hex form of a document identifier.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, domain.NewValidationError("id", domain.MsgInvalidTaskID, domain.ErrInvalidID)
	}
	return id, nil
}

// PrepareDocument encodes doc as an ordered BSON document and guarantees that
// it carries an ObjectID under IDField, generating one when absent.
func PrepareDocument(doc any) (bson.D, primitive.ObjectID, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, primitive.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, primitive.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	for _, e := range d {
		if e.Key != IDField {
			continue
		}
		id, ok := e.Value.(primitive.ObjectID)
		if !ok {
			return nil, primitive.NilObjectID, fmt.Errorf("%w: _id must be an ObjectID, got %T", ErrInvalidEntity, e.Value)
		}
		return d, id, nil
	}

	id := primitive.NewObjectID()
	return append(bson.D{{Key: IDField, Value: id}}, d...), id, nil
}

// ValidateFields rejects update fields that are not plain top-level keys.
func ValidateFields(set Fields) error {
	for key := range set {
		switch {
		case key == "":
			return fmt.Errorf("%w: empty field name", ErrInvalidFilter)
		case key == IDField:
			return fmt.Errorf("%w: %s cannot be updated", ErrInvalidFilter, IDField)
		case strings.HasPrefix(key, "$"), strings.Contains(key, "."):
			return fmt.Errorf("%w: field %q must be a top-level name", ErrInvalidFilter, key)
		}
	}
	return nil
}

// SplitPath splits a dotted field path into its components.
func SplitPath(path string) []string {
	return strings.Split(path, ".")
}
