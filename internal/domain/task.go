package domain

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task field limits and defaults.
const (
	// MaxTitleLength is the longest accepted title, in characters.
	// Longer titles are rejected.
	MaxTitleLength = 50

	// MaxDescriptionLength is the longest stored description, in characters.
	// Longer descriptions are truncated.
	MaxDescriptionLength = 200

	// DefaultCategory is the bucket a task lands in when none is given.
	DefaultCategory = "To-Do"
)

// Client-facing validation messages.
const (
	MsgOwnerRequired = "User information is required"
	MsgTitleInvalid  = "Title is required (max 50 chars)"
	MsgEmailRequired = "Email is required"
	MsgInvalidTaskID = "Invalid task ID"
)

var (
	validate  = validator.New()
	titleRule = "required,max=" + strconv.Itoa(MaxTitleLength)
)

// Owner is the denormalized copy of the user who created a task.
type Owner struct {
	Name  string `bson:"name"  json:"name"  validate:"required"`
	Email string `bson:"email" json:"email" validate:"required"`
}

// Task is a unit of work owned by a user and filed under a free-text category.
//
// The owner is stored under the "user" key so existing documents keep their shape.
// Index is always written as zero and is not read anywhere.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title"         json:"title"`
	Description string             `bson:"description"   json:"description"`
	Category    string             `bson:"category"      json:"category"`
	Timestamp   time.Time          `bson:"timestamp"     json:"timestamp"`
	User        Owner              `bson:"user"          json:"user"`
	Index       int                `bson:"index"         json:"index"`
}

// NewTask builds a task ready for insertion. The owner is checked before the
// title, so a request missing both reports the owner.
func NewTask(title, description, category string, owner *Owner, now time.Time) (*Task, error) {
	if owner == nil || validate.Struct(owner) != nil {
		return nil, NewValidationError("user", MsgOwnerRequired, ErrMissingOwner)
	}

	if err := validate.Var(title, titleRule); err != nil {
		return nil, NewValidationError("title", MsgTitleInvalid, ErrInvalidTitle)
	}

	if category == "" {
		category = DefaultCategory
	}

	return &Task{
		Title:       title,
		Description: TruncateDescription(description),
		Category:    category,
		Timestamp:   now.UTC(),
		User: Owner{
			Name:  owner.Name,
			Email: owner.Email,
		},
		Index: 0,
	}, nil
}

// TaskPatch is a partial task update. Empty strings mean "not provided".
type TaskPatch struct {
	Title       string
	Description string
	Category    string
}

// Fields returns the document fields the patch sets, keyed by stored field name.
// The description is truncated like on creation. An empty map means there is
// nothing to write.
func (p TaskPatch) Fields() map[string]any {
	fields := make(map[string]any, 3)
	if p.Title != "" {
		fields["title"] = p.Title
	}
	if p.Description != "" {
		fields["description"] = TruncateDescription(p.Description)
	}
	if p.Category != "" {
		fields["category"] = p.Category
	}
	return fields
}

// TruncateDescription cuts s to MaxDescriptionLength characters.
func TruncateDescription(s string) string {
	return truncateRunes(s, MaxDescriptionLength)
}

func truncateRunes(s string, limit int) string {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
