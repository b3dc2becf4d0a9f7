package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

// errNoCurrentDocument is returned by Decode before Next or after exhaustion.
var errNoCurrentDocument = errors.New("cursor has no current document")

// SliceCursor is a Cursor over documents already loaded into memory.
// Backends that fetch a whole result set at once return it from Find.
type SliceCursor struct {
	docs    []bson.Raw
	pos     int
	current bson.Raw
	err     error
	closed  bool
}

// Ensure SliceCursor implements the Cursor interface.
var _ Cursor = (*SliceCursor)(nil)

// NewSliceCursor creates a cursor positioned before the first document.
func NewSliceCursor(docs []bson.Raw) *SliceCursor {
	return &SliceCursor{docs: docs}
}

// Next implements Cursor.Next.
func (c *SliceCursor) Next(ctx context.Context) bool {
	if c.closed || c.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}
	if c.pos >= len(c.docs) {
		c.current = nil
		return false
	}
	c.current = c.docs[c.pos]
	c.pos++
	return true
}

// Decode implements Cursor.Decode.
func (c *SliceCursor) Decode(val any) error {
	if c.current == nil {
		return errNoCurrentDocument
	}
	return bson.Unmarshal(c.current, val)
}

// All implements Cursor.All. A result set with no documents leaves results
// as an empty, non-nil slice.
func (c *SliceCursor) All(ctx context.Context, results any) error {
	rv := reflect.ValueOf(results)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("results argument must be a pointer to a slice, got %T", results)
	}

	sliceVal := rv.Elem()
	elemType := sliceVal.Type().Elem()
	out := reflect.MakeSlice(sliceVal.Type(), 0, len(c.docs)-c.pos)

	for c.Next(ctx) {
		elem := reflect.New(elemType)
		if err := c.Decode(elem.Interface()); err != nil {
			_ = c.Close(ctx)
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}
	if c.err != nil {
		return c.err
	}

	sliceVal.Set(out)
	return c.Close(ctx)
}

// Err implements Cursor.Err.
func (c *SliceCursor) Err() error {
	return c.err
}

// Close implements Cursor.Close.
func (c *SliceCursor) Close(ctx context.Context) error {
	c.closed = true
	c.current = nil
	c.docs = nil
	return nil
}
