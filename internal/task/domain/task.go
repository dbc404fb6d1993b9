package domain

import "time"

// Priority represents task priority level
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task is a to-do item captured from chat or created manually.
//
// ProvisionalKey is the client-generated key a task was created under before
// the server assigned its ID. Clients that create tasks optimistically use it
// to reconcile their local copy, and retried creates with the same key return
// the existing row instead of a duplicate.
type Task struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	UserID         string     `json:"user_id" gorm:"index;not null"`
	ChatMessageID  string     `json:"chat_message_id,omitempty" gorm:"index"` // chat message this task came from
	ProvisionalKey string     `json:"provisional_key,omitempty" gorm:"index"`
	Title          string     `json:"title" gorm:"not null"`
	Description    string     `json:"description,omitempty"`
	Tags           []string   `json:"tags,omitempty" gorm:"serializer:json"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Priority       Priority   `json:"priority" gorm:"default:medium"`
	Status         TaskStatus `json:"status" gorm:"default:pending"`
	ReminderAt     *time.Time `json:"reminder_at,omitempty"`
	ReminderSent   bool       `json:"reminder_sent" gorm:"default:false"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"index"` // delta queries filter on this
}
