package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/taskmart-api/internal/domain"
	"github.com/phrazzld/taskmart-api/internal/platform/logger"
	"github.com/phrazzld/taskmart-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewTaskInput carries the fields accepted when creating a task.
type NewTaskInput struct {
	Title       string
	Description string
	Category    string
	User        *domain.Owner
}

// TaskService provides the task lifecycle.
type TaskService interface {
	// AddTask validates input and stores a new task, returning its identifier.
	AddTask(ctx context.Context, input NewTaskInput) (primitive.ObjectID, error)

	// ListByOwner returns the tasks whose owner has the given email.
	ListByOwner(ctx context.Context, email string) ([]domain.Task, error)

	// ListAll returns every task in store order.
	ListAll(ctx context.Context) ([]domain.Task, error)

	// UpdateTask applies the non-empty fields of patch to the task with the given id.
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) error

	// UpdateCategory replaces the category of the task with the given id.
	// A nil category is stored as null.
	UpdateCategory(ctx context.Context, id string, category *string) error

	// DeleteTask removes the task with the given id.
	DeleteTask(ctx context.Context, id string) error
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	tasks  store.Collection
	logger *slog.Logger
	now    func() time.Time
}

// TaskServiceOption customizes a TaskServiceImpl.
type TaskServiceOption func(*TaskServiceImpl)

// WithClock overrides the time source used for task timestamps.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *TaskServiceImpl) {
		s.now = now
	}
}

// NewTaskService creates a new TaskService over the tasks collection.
func NewTaskService(tasks store.Collection, logger *slog.Logger, opts ...TaskServiceOption) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &TaskServiceImpl{
		tasks:  tasks,
		logger: logger.With("component", "task_service"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddTask implements TaskService.AddTask.
func (s *TaskServiceImpl) AddTask(ctx context.Context, input NewTaskInput) (primitive.ObjectID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(input.Title, input.Description, input.Category, input.User, s.now())
	if err != nil {
		log.Debug("rejected task", "error", err)
		return primitive.NilObjectID, err
	}

	res, err := s.tasks.InsertOne(ctx, task)
	if err != nil {
		log.Error("failed to insert task", "error", err)
		return primitive.NilObjectID, store.NewStoreError("task", "insert", "failed to insert task", err)
	}

	log.Info("task created",
		"task_id", res.InsertedID.Hex(),
		"category", task.Category)
	return res.InsertedID, nil
}

// ListByOwner implements TaskService.ListByOwner.
func (s *TaskServiceImpl) ListByOwner(ctx context.Context, email string) ([]domain.Task, error) {
	if email == "" {
		return nil, domain.NewValidationError("email", domain.MsgEmailRequired, domain.ErrMissingEmail)
	}
	return s.list(ctx, store.Filter{"user.email": email})
}

// ListAll implements TaskService.ListAll.
func (s *TaskServiceImpl) ListAll(ctx context.Context) ([]domain.Task, error) {
	return s.list(ctx, nil)
}

func (s *TaskServiceImpl) list(ctx context.Context, filter store.Filter) ([]domain.Task, error) {
	tasks := []domain.Task{}
	if err := findAll(ctx, s.tasks, filter, &tasks); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks", "error", err)
		return nil, store.NewStoreError("task", "list", "failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// UpdateTask implements TaskService.UpdateTask. Empty fields in patch are
// skipped; when nothing remains the task's existence is still checked.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) error {
	return s.update(ctx, "update", id, store.Fields(patch.Fields()))
}

// UpdateCategory implements TaskService.UpdateCategory. Unlike UpdateTask, an
// empty category is applied.
func (s *TaskServiceImpl) UpdateCategory(ctx context.Context, id string, category *string) error {
	var value any
	if category != nil {
		value = *category
	}
	return s.update(ctx, "update_category", id, store.Fields{"category": value})
}

func (s *TaskServiceImpl) update(ctx context.Context, op, id string, set store.Fields) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}

	res, err := s.tasks.UpdateOne(ctx, store.ByID(oid), set)
	if err != nil {
		log.Error("failed to update task", "error", err, "task_id", id, "operation", op)
		return store.NewStoreError("task", op, "failed to update task", err)
	}
	if res.MatchedCount == 0 {
		log.Debug("task not found for update", "task_id", id, "operation", op)
		return store.ErrTaskNotFound
	}

	log.Info("task updated",
		"task_id", id,
		"operation", op,
		"modified", res.ModifiedCount)
	return nil
}

// DeleteTask implements TaskService.DeleteTask.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}

	res, err := s.tasks.DeleteOne(ctx, store.ByID(oid))
	if err != nil {
		log.Error("failed to delete task", "error", err, "task_id", id)
		return store.NewStoreError("task", "delete", "failed to delete task", err)
	}
	if res.DeletedCount == 0 {
		log.Debug("task not found for delete", "task_id", id)
		return store.ErrTaskNotFound
	}

	log.Info("task deleted", "task_id", id)
	return nil
}
