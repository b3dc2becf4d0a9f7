package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/taskmart-api/internal/domain"
	"github.com/phrazzld/taskmart-api/internal/platform/logger"
	"github.com/phrazzld/taskmart-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegisterResult reports the outcome of UserService.Register.
type RegisterResult struct {
	// Exists is true when a user with the same email was already registered.
	Exists bool
	// InsertedID is set only when a new record was stored.
	InsertedID primitive.ObjectID
}

// UserService provides user registration and listing.
type UserService interface {
	// Register stores user unless a record with the same email exists.
	Register(ctx context.Context, user *domain.User) (*RegisterResult, error)

	// ListAll returns every user in store order.
	ListAll(ctx context.Context) ([]domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users  store.Collection
	logger *slog.Logger
}

// NewUserService creates a new UserService over the users collection.
func NewUserService(users store.Collection, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		users:  users,
		logger: logger.With("component", "user_service"),
	}
}

// Register looks up a user by email and inserts the record verbatim when none
// is found. A repeated registration is a no-op, not an error. A client
// supplied _id is discarded so the store assigns one.
func (s *UserServiceImpl) Register(ctx context.Context, user *domain.User) (*RegisterResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user == nil {
		user = &domain.User{}
	}

	var existing domain.User
	err := s.users.FindOne(ctx, store.Filter{"email": user.Email}, &existing)
	switch {
	case err == nil:
		log.Debug("user already registered", "user_id", existing.ID.Hex())
		return &RegisterResult{Exists: true}, nil
	case !errors.Is(err, store.ErrNotFound):
		log.Error("failed to look up user by email", "error", err)
		return nil, store.NewStoreError("user", "find", "failed to look up user", err)
	}

	record := *user
	record.ID = primitive.NilObjectID

	res, err := s.users.InsertOne(ctx, record)
	if err != nil {
		log.Error("failed to insert user", "error", err)
		return nil, store.NewStoreError("user", "insert", "failed to insert user", err)
	}

	log.Info("user registered", "user_id", res.InsertedID.Hex())
	return &RegisterResult{InsertedID: res.InsertedID}, nil
}

// ListAll returns every user in store order. The result is never nil.
func (s *UserServiceImpl) ListAll(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := findAll(ctx, s.users, nil, &users); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users", "error", err)
		return nil, store.NewStoreError("user", "list", "failed to list users", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// findAll runs a Find and decodes every result into out, a pointer to a slice.
func findAll(ctx context.Context, c store.Collection, filter store.Filter, out any) error {
	cur, err := c.Find(ctx, filter)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
