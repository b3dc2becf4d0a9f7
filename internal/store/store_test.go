package store

import (
	"context"
	"testing"

	"github.com/phrazzld/taskmart-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sampleDoc struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Title string             `bson:"title"`
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()

	got, err := ParseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "abc", "zzzzzzzzzzzzzzzzzzzzzzzz", id.Hex() + "0"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidID, "input %q", bad)

		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, domain.MsgInvalidTaskID, ve.Message)
	}
}

func TestPrepareDocument(t *testing.T) {
	t.Run("generates id when absent", func(t *testing.T) {
		d, id, err := PrepareDocument(sampleDoc{Title: "x"})
		require.NoError(t, err)

		assert.False(t, id.IsZero())
		require.Len(t, d, 2)
		assert.Equal(t, IDField, d[0].Key)
		assert.Equal(t, id, d[0].Value)
	})

	t.Run("keeps existing id", func(t *testing.T) {
		existing := primitive.NewObjectID()
		d, id, err := PrepareDocument(sampleDoc{ID: existing, Title: "x"})
		require.NoError(t, err)

		assert.Equal(t, existing, id)
		assert.Len(t, d, 2)
	})

	t.Run("rejects non-ObjectID id", func(t *testing.T) {
		_, _, err := PrepareDocument(bson.M{"_id": "plain-string"})
		assert.ErrorIs(t, err, ErrInvalidEntity)
	})

	t.Run("rejects values that are not documents", func(t *testing.T) {
		_, _, err := PrepareDocument(42)
		assert.ErrorIs(t, err, ErrInvalidEntity)
	})
}

func TestValidateFields(t *testing.T) {
	assert.NoError(t, ValidateFields(Fields{"title": "a", "category": nil}))
	assert.NoError(t, ValidateFields(nil))

	for _, key := range []string{"", "_id", "$set", "user.email"} {
		assert.ErrorIs(t, ValidateFields(Fields{key: 1}), ErrInvalidFilter, "key %q", key)
	}
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"user", "email"}, SplitPath("user.email"))
	assert.Equal(t, []string{"title"}, SplitPath("title"))
}

func mustRaw(t *testing.T, v any) bson.Raw {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestSliceCursor(t *testing.T) {
	ctx := context.Background()
	docs := []bson.Raw{
		mustRaw(t, sampleDoc{Title: "a"}),
		mustRaw(t, sampleDoc{Title: "b"}),
	}

	t.Run("iterates in order", func(t *testing.T) {
		c := NewSliceCursor(docs)

		var titles []string
		for c.Next(ctx) {
			var d sampleDoc
			require.NoError(t, c.Decode(&d))
			titles = append(titles, d.Title)
		}
		require.NoError(t, c.Err())
		assert.Equal(t, []string{"a", "b"}, titles)
		assert.NoError(t, c.Close(ctx))
	})

	t.Run("decode without current document fails", func(t *testing.T) {
		c := NewSliceCursor(docs)
		var d sampleDoc
		assert.Error(t, c.Decode(&d))
	})

	t.Run("all decodes every document", func(t *testing.T) {
		c := NewSliceCursor(docs)
		var out []sampleDoc
		require.NoError(t, c.All(ctx, &out))
		require.Len(t, out, 2)
		assert.Equal(t, "b", out[1].Title)
		assert.False(t, c.Next(ctx), "cursor is closed after All")
	})

	t.Run("all on empty result yields empty slice", func(t *testing.T) {
		c := NewSliceCursor(nil)
		var out []sampleDoc
		require.NoError(t, c.All(ctx, &out))
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("all rejects non-slice target", func(t *testing.T) {
		c := NewSliceCursor(docs)
		var out sampleDoc
		assert.Error(t, c.All(ctx, &out))
	})

	t.Run("canceled context stops iteration", func(t *testing.T) {
		c := NewSliceCursor(docs)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		assert.False(t, c.Next(cctx))
		assert.ErrorIs(t, c.Err(), context.Canceled)
	})
}
