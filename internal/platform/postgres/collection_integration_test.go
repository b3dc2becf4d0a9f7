//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/taskmart-api/internal/domain"
	"github.com/phrazzld/taskmart-api/internal/platform/postgres"
	"github.com/phrazzld/taskmart-api/internal/store"
	"github.com/phrazzld/taskmart-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db := testdb.GetTestDBWithT(t)
	testdb.SetupTestDatabaseSchema(t, db)
	return db
}

func TestPostgresCollection_TaskLifecycle(t *testing.T) {
	db := setupDB(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		tasks := postgres.NewCollection(tx, store.TasksCollection, nil)
		ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
		defer cancel()

		owner := &domain.Owner{Name: "A", Email: "a@x.com"}
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		first, err := domain.NewTask("Buy milk", "2%", "", owner, now)
		require.NoError(t, err)
		second, err := domain.NewTask("Walk dog", "", "Done", &domain.Owner{Name: "B", Email: "b@x.com"}, now)
		require.NoError(t, err)

		res, err := tasks.InsertOne(ctx, first)
		require.NoError(t, err)
		_, err = tasks.InsertOne(ctx, second)
		require.NoError(t, err)

		var stored domain.Task
		require.NoError(t, tasks.FindOne(ctx, store.ByID(res.InsertedID), &stored))
		assert.Equal(t, res.InsertedID, stored.ID)
		assert.Equal(t, "Buy milk", stored.Title)
		assert.Equal(t, domain.DefaultCategory, stored.Category)
		assert.True(t, now.Equal(stored.Timestamp))
		assert.Equal(t, *owner, stored.User)

		cur, err := tasks.Find(ctx, store.Filter{"user.email": "a@x.com"})
		require.NoError(t, err)
		var owned []domain.Task
		require.NoError(t, cur.All(ctx, &owned))
		require.Len(t, owned, 1)
		assert.Equal(t, res.InsertedID, owned[0].ID)

		cur, err = tasks.Find(ctx, nil)
		require.NoError(t, err)
		var all []domain.Task
		require.NoError(t, cur.All(ctx, &all))
		require.Len(t, all, 2)
		assert.Equal(t, "Buy milk", all[0].Title, "insertion order")

		upd, err := tasks.UpdateOne(ctx, store.ByID(res.InsertedID), store.Fields{"title": "Buy oat milk"})
		require.NoError(t, err)
		assert.Equal(t, &store.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, upd)

		upd, err = tasks.UpdateOne(ctx, store.ByID(res.InsertedID), store.Fields{"title": "Buy oat milk"})
		require.NoError(t, err)
		assert.Equal(t, &store.UpdateResult{MatchedCount: 1, ModifiedCount: 0}, upd)

		upd, err = tasks.UpdateOne(ctx, store.ByID(res.InsertedID), store.Fields{"category": nil})
		require.NoError(t, err)
		assert.Equal(t, int64(1), upd.MatchedCount)
		require.NoError(t, tasks.FindOne(ctx, store.ByID(res.InsertedID), &stored))
		assert.Empty(t, stored.Category)

		upd, err = tasks.UpdateOne(ctx, store.ByID(res.InsertedID), store.Fields{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), upd.MatchedCount)

		upd, err = tasks.UpdateOne(ctx, store.ByID(primitive.NewObjectID()), store.Fields{"title": "x"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), upd.MatchedCount)

		del, err := tasks.DeleteOne(ctx, store.ByID(res.InsertedID))
		require.NoError(t, err)
		assert.Equal(t, int64(1), del.DeletedCount)

		err = tasks.FindOne(ctx, store.ByID(res.InsertedID), &stored)
		assert.ErrorIs(t, err, store.ErrNotFound)

		del, err = tasks.DeleteOne(ctx, store.ByID(res.InsertedID))
		require.NoError(t, err)
		assert.Equal(t, int64(0), del.DeletedCount)
	})
}

func TestPostgresCollection_Users(t *testing.T) {
	db := setupDB(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		users := postgres.NewCollection(tx, store.UsersCollection, nil)
		ctx := context.Background()

		user := domain.User{
			Email: "a@x.com",
			Name:  "A",
			Extra: map[string]any{"photo": "p.png"},
		}
		res, err := users.InsertOne(ctx, user)
		require.NoError(t, err)

		var found domain.User
		require.NoError(t, users.FindOne(ctx, store.Filter{"email": "a@x.com"}, &found))
		assert.Equal(t, res.InsertedID, found.ID)
		assert.Equal(t, "p.png", found.Extra["photo"])

		// Collections are isolated from each other.
		tasks := postgres.NewCollection(tx, store.TasksCollection, nil)
		err = tasks.FindOne(ctx, store.ByID(res.InsertedID), &found)
		assert.ErrorIs(t, err, store.ErrNotFound)

		// Last: a unique violation aborts the transaction.
		_, err = users.InsertOne(ctx, domain.User{ID: res.InsertedID, Email: "b@x.com"})
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})
}
