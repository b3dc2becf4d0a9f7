package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskmart-api/internal/api/shared"
	"github.com/phrazzld/taskmart-api/internal/domain"
	"github.com/phrazzld/taskmart-api/internal/platform/logger"
	"github.com/phrazzld/taskmart-api/internal/service"
)

// Acknowledgment messages for task mutations.
const (
	MsgTaskUpdated         = "Task updated successfully"
	MsgTaskCategoryUpdated = "Task category updated successfully"
	MsgTaskDeleted         = "Task deleted successfully"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if !decodeBody(w, r, &req, log) {
		return
	}

	id, err := h.taskService.AddTask(r.Context(), service.NewTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		User:        req.User,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, InsertTaskResponse{
		Acknowledged: true,
		InsertedID:   id,
	})
}

// ListTasks handles GET /tasks?email= requests, returning the owner's tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListByOwner(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// ListAllTasks handles GET /allTasks requests
func (h *TaskHandler) ListAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// UpdateTask handles PUT /tasks/{id} requests.
// Only the non-empty fields of the body are written.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req UpdateTaskRequest
	if !decodeBody(w, r, &req, log) {
		return
	}

	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := h.taskService.UpdateTask(r.Context(), taskIDFromPath(r), patch); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithMessage(w, r, MsgTaskUpdated)
}

// UpdateCategory handles PUT /tasks/{id}/category requests
func (h *TaskHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req UpdateCategoryRequest
	if !decodeBody(w, r, &req, log) {
		return
	}

	if err := h.taskService.UpdateCategory(r.Context(), taskIDFromPath(r), req.Category); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithMessage(w, r, MsgTaskCategoryUpdated)
}

// DeleteTask handles DELETE /tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.DeleteTask(r.Context(), taskIDFromPath(r)); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithMessage(w, r, MsgTaskDeleted)
}
