package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskmart-api/internal/api/shared"
	"github.com/phrazzld/taskmart-api/internal/platform/logger"
)

// TaskIDParam is the route parameter holding a task identifier.
const TaskIDParam = "id"

// decodeBody decodes the JSON request body into v. On failure it writes a 400
// response, logged at WARN, and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, log *slog.Logger) bool {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	if err := shared.DecodeJSON(w, r, v); err != nil {
		log.Debug("malformed request body", slog.String("path", r.URL.Path))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequestBody, err,
			shared.WithElevatedLogLevel())
		return false
	}
	return true
}

// taskIDFromPath returns the raw task id from the URL path. Parsing is left to
// the service, which owns the identifier format.
func taskIDFromPath(r *http.Request) string {
	return chi.URLParam(r, TaskIDParam)
}
