package service_test

import (
	"context"

	"github.com/phrazzld/taskmart-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// mockCollection is a testify mock of store.Collection used to inject
// store failures.
type mockCollection struct {
	mock.Mock
}

func (m *mockCollection) FindOne(ctx context.Context, filter store.Filter, out any) error {
	args := m.Called(ctx, filter, out)
	return args.Error(0)
}

func (m *mockCollection) Find(ctx context.Context, filter store.Filter) (store.Cursor, error) {
	args := m.Called(ctx, filter)
	cur, _ := args.Get(0).(store.Cursor)
	return cur, args.Error(1)
}

func (m *mockCollection) InsertOne(ctx context.Context, doc any) (*store.InsertOneResult, error) {
	args := m.Called(ctx, doc)
	res, _ := args.Get(0).(*store.InsertOneResult)
	return res, args.Error(1)
}

func (m *mockCollection) UpdateOne(ctx context.Context, filter store.Filter, set store.Fields) (*store.UpdateResult, error) {
	args := m.Called(ctx, filter, set)
	res, _ := args.Get(0).(*store.UpdateResult)
	return res, args.Error(1)
}

func (m *mockCollection) DeleteOne(ctx context.Context, filter store.Filter) (*store.DeleteResult, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).(*store.DeleteResult)
	return res, args.Error(1)
}
