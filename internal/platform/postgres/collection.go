package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskmart-api/internal/platform/logger"
	"github.com/phrazzld/taskmart-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
)

// Collection implements store.Collection over the documents table.
type Collection struct {
	db     store.DBTX
	name   string
	logger *slog.Logger
}

// Ensure Collection implements store.Collection.
var _ store.Collection = (*Collection)(nil)

// NewCollection returns the named collection backed by db, which may be a
// *sql.DB or a *sql.Tx.
func NewCollection(db store.DBTX, name string, logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{
		db:     db,
		name:   name,
		logger: logger.With(slog.String("collection", name)),
	}
}

// FindOne implements store.Collection.FindOne.
func (c *Collection) FindOne(ctx context.Context, filter store.Filter, out any) error {
	where, args, err := whereClause(c.name, filter)
	if err != nil {
		return err
	}

	query := "SELECT doc FROM documents WHERE " + where + " ORDER BY seq LIMIT 1"

	var data []byte
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&data); err != nil {
		return MapError(err)
	}

	if err := bson.UnmarshalExtJSON(data, false, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// Find implements store.Collection.Find. The rows are read eagerly and served
// from memory.
func (c *Collection) Find(ctx context.Context, filter store.Filter) (store.Cursor, error) {
	where, args, err := whereClause(c.name, filter)
	if err != nil {
		return nil, err
	}

	query := "SELECT doc FROM documents WHERE " + where + " ORDER BY seq"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			c.logger.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var docs []bson.Raw
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, MapError(err)
		}
		raw, err := decodeRaw(data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return store.NewSliceCursor(docs), nil
}

// InsertOne implements store.Collection.InsertOne.
func (c *Collection) InsertOne(ctx context.Context, doc any) (*store.InsertOneResult, error) {
	d, id, err := store.PrepareDocument(doc)
	if err != nil {
		return nil, err
	}

	data, err := bson.MarshalExtJSON(d, false, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err = c.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3::jsonb)",
		c.name, id.Hex(), string(data))
	if err != nil {
		return nil, MapError(err)
	}

	logger.FromContextOrDefault(ctx, c.logger).Debug("document inserted",
		slog.String("collection", c.name),
		slog.String("id", id.Hex()))

	return &store.InsertOneResult{InsertedID: id}, nil
}

// UpdateOne implements store.Collection.UpdateOne. Fields are merged into the
// stored document with the jsonb concatenation operator.
func (c *Collection) UpdateOne(
	ctx context.Context,
	filter store.Filter,
	set store.Fields,
) (*store.UpdateResult, error) {
	if err := store.ValidateFields(set); err != nil {
		return nil, err
	}

	where, args, err := whereClause(c.name, filter)
	if err != nil {
		return nil, err
	}

	if len(set) == 0 {
		var exists bool
		query := "SELECT EXISTS (SELECT 1 FROM documents WHERE " + where + ")"
		if err := c.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
			return nil, MapError(err)
		}
		if !exists {
			return &store.UpdateResult{}, nil
		}
		return &store.UpdateResult{MatchedCount: 1}, nil
	}

	patch, err := setPatch(set)
	if err != nil {
		return nil, err
	}
	args = append(args, patch)

	query := fmt.Sprintf(`
		UPDATE documents d
		SET doc = d.doc || %s::jsonb
		FROM (
			SELECT seq, doc AS old
			FROM documents
			WHERE %s
			ORDER BY seq
			LIMIT 1
			FOR UPDATE
		) t
		WHERE d.seq = t.seq
		RETURNING t.old <> d.doc`, placeholder(len(args)), where)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			c.logger.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	result := &store.UpdateResult{}
	for rows.Next() {
		var changed bool
		if err := rows.Scan(&changed); err != nil {
			return nil, MapError(err)
		}
		result.MatchedCount++
		if changed {
			result.ModifiedCount++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return result, nil
}

// DeleteOne implements store.Collection.DeleteOne.
func (c *Collection) DeleteOne(ctx context.Context, filter store.Filter) (*store.DeleteResult, error) {
	where, args, err := whereClause(c.name, filter)
	if err != nil {
		return nil, err
	}

	query := "DELETE FROM documents WHERE seq = (SELECT seq FROM documents WHERE " +
		where + " ORDER BY seq LIMIT 1)"

	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return &store.DeleteResult{DeletedCount: n}, nil
}

func decodeRaw(data []byte) (bson.Raw, error) {
	var d bson.D
	if err := bson.UnmarshalExtJSON(data, false, &d); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	raw, err := bson.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode document: %w", err)
	}
	return raw, nil
}
