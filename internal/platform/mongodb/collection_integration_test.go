//go:build integration

package mongodb_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/taskmart-api/internal/domain"
	"github.com/phrazzld/taskmart-api/internal/platform/mongodb"
	"github.com/phrazzld/taskmart-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// connect returns a database scoped to a throwaway name, dropped on cleanup.
func connect(t *testing.T) *mongodb.Database {
	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set - skipping MongoDB integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := "taskmart_test_" + primitive.NewObjectID().Hex()
	db, err := mongodb.Connect(ctx, uri, dbName, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.DropDatabase(ctx)
		_ = db.Close(ctx)
	})
	return db
}

func TestMongoCollection_TaskLifecycle(t *testing.T) {
	db := connect(t)
	tasks := db.Collection(store.TasksCollection)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	task, err := domain.NewTask("Buy milk", "", "", &domain.Owner{Name: "A", Email: "a@x.com"}, time.Now())
	require.NoError(t, err)

	res, err := tasks.InsertOne(ctx, task)
	require.NoError(t, err)

	var stored domain.Task
	require.NoError(t, tasks.FindOne(ctx, store.ByID(res.InsertedID), &stored))
	assert.Equal(t, domain.DefaultCategory, stored.Category)
	assert.Equal(t, 0, stored.Index)

	cur, err := tasks.Find(ctx, store.Filter{"user.email": "a@x.com"})
	require.NoError(t, err)
	var owned []domain.Task
	require.NoError(t, cur.All(ctx, &owned))
	assert.Len(t, owned, 1)

	upd, err := tasks.UpdateOne(ctx, store.ByID(res.InsertedID), store.Fields{"category": ""})
	require.NoError(t, err)
	assert.Equal(t, int64(1), upd.MatchedCount)

	upd, err = tasks.UpdateOne(ctx, store.ByID(res.InsertedID), store.Fields{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), upd.MatchedCount)

	del, err := tasks.DeleteOne(ctx, store.ByID(res.InsertedID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), del.DeletedCount)

	err = tasks.FindOne(ctx, store.ByID(res.InsertedID), &stored)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMongoCollection_DuplicateID(t *testing.T) {
	db := connect(t)
	users := db.Collection(store.UsersCollection)
	ctx := context.Background()

	id := primitive.NewObjectID()
	_, err := users.InsertOne(ctx, domain.User{ID: id, Email: "a@x.com"})
	require.NoError(t, err)

	_, err = users.InsertOne(ctx, domain.User{ID: id, Email: "b@x.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}
