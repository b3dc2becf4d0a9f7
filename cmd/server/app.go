package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskmart-api/internal/config"
	"github.com/phrazzld/taskmart-api/internal/service"
	"github.com/phrazzld/taskmart-api/internal/store"
)

// closeTimeout bounds how long cleanup waits for the store to disconnect.
const closeTimeout = 5 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     store.Database

	userService service.UserService
	taskService service.TaskService
}

// newApplication wires the services over the connected store. The store
// client is shared by every request.
func newApplication(cfg *config.Config, logger *slog.Logger, db store.Database) *application {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.userService = service.NewUserService(db.Collection(store.UsersCollection), logger)
	app.taskService = service.NewTaskService(db.Collection(store.TasksCollection), logger)

	logger.Info("Application initialized successfully")
	return app
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := app.db.Close(ctx); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
