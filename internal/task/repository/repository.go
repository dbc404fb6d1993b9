package repository

import (
	"time"

	"uniwork-backend/internal/task/domain"
)

// TaskFilter narrows FindByUserID. UpdatedAfter serves incremental clients
// that only want what changed since their last pull.
type TaskFilter struct {
	Status       *domain.TaskStatus
	UpdatedAfter *time.Time
	Limit        int
	Offset       int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *domain.Task) error

	// FindByID finds a task by its ID
	FindByID(id string) (*domain.Task, error)

	// FindByProvisionalKey finds a user's task by its client-generated key
	FindByProvisionalKey(userID, key string) (*domain.Task, error)

	// FindByUserID finds a user's tasks matching the filter
	FindByUserID(userID string, filter TaskFilter) ([]*domain.Task, int64, error)

	// Update updates an existing task
	Update(task *domain.Task) error

	// Delete deletes a task by ID
	Delete(id string) error

	// FindPendingReminders finds tasks whose reminder is due and unsent
	FindPendingReminders(now time.Time) ([]*domain.Task, error)

	// MarkReminderSent marks a task's reminder as sent
	MarkReminderSent(id string) error
}
