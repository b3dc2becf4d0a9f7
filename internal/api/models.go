package api

import (
	"github.com/phrazzld/taskmart-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	User        *domain.Owner `json:"user"`
}

// UpdateTaskRequest is the body of PUT /tasks/{id}. Empty fields are left
// unchanged.
type UpdateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// UpdateCategoryRequest is the body of PUT /tasks/{id}/category. A missing or
// null category is stored as null.
type UpdateCategoryRequest struct {
	Category *string `json:"category"`
}

// RegisterUserResponse reports the outcome of POST /users.
type RegisterUserResponse struct {
	Success    bool                `json:"success"`
	Exists     bool                `json:"exists"`
	Message    string              `json:"message,omitempty"`
	InsertedID *primitive.ObjectID `json:"insertedId,omitempty"`
}

// InsertTaskResponse acknowledges POST /tasks.
type InsertTaskResponse struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}
