package usecase

import (
	"time"

	"uniwork-backend/internal/task/domain"
	"uniwork-backend/pkg/ai"
)

// TaskUsecase defines the interface for task business logic
type TaskUsecase interface {
	// CreateTask creates a task. When the input carries a provisional key the
	// call is idempotent per user: retries return the already-created task.
	CreateTask(userID string, input CreateTaskInput) (*domain.Task, error)

	// CreateFromSuggestions materializes assistant task suggestions, linked to
	// the chat message that produced them
	CreateFromSuggestions(userID, chatMessageID string, suggestions []ai.TaskSuggestion, tags []string) ([]*domain.Task, error)

	// GetTaskByID retrieves a task by ID (with ownership check)
	GetTaskByID(userID, taskID string) (*domain.Task, error)

	// GetUserTasks retrieves a user's tasks; updatedAfter limits the result to
	// tasks changed since that instant
	GetUserTasks(userID string, status *string, updatedAfter *time.Time, limit, offset int) ([]*domain.Task, int64, error)

	// UpdateTask updates an existing task
	UpdateTask(userID, taskID string, updates TaskUpdateRequest) (*domain.Task, error)

	// DeleteTask deletes a task
	DeleteTask(userID, taskID string) error
}

// CreateTaskInput carries the fields of a manual task creation.
type CreateTaskInput struct {
	Title          string
	Description    string
	Tags           []string
	DueDate        *string
	ReminderAt     *string
	Priority       string
	ProvisionalKey string
}

// TaskUpdateRequest represents the fields that can be updated
type TaskUpdateRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Status      *string   `json:"status,omitempty"`
	ReminderAt  *string   `json:"reminder_at,omitempty"`
}
