package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskmart-api/internal/api/shared"
	"github.com/phrazzld/taskmart-api/internal/domain"
	"github.com/phrazzld/taskmart-api/internal/platform/logger"
	"github.com/phrazzld/taskmart-api/internal/service"
)

// MsgUserExists is returned when a registration finds an existing email.
const MsgUserExists = "User already exists"

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// Register handles POST /users requests.
// It stores the user unless one with the same email already exists.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var user domain.User
	if !decodeBody(w, r, &user, log) {
		return
	}

	result, err := h.userService.Register(r.Context(), &user)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if result.Exists {
		log.Debug("user already registered")
		shared.RespondWithJSON(w, r, http.StatusOK, RegisterUserResponse{
			Success: true,
			Exists:  true,
			Message: MsgUserExists,
		})
		return
	}

	id := result.InsertedID
	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterUserResponse{
		Success:    true,
		Exists:     false,
		InsertedID: &id,
	})
}

// ListUsers handles GET /users requests.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, users)
}
