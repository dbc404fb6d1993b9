package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn in a user's task-capture conversation. Assistant
// turns store the acknowledgment or clarifying question that was shown.
type ChatMessage struct {
	ID        string              `json:"id" gorm:"primaryKey"`
	UserID    string              `json:"user_id" gorm:"index;not null"`
	Role      string              `json:"role" gorm:"not null"`
	Content   string              `json:"content"`
	Tags      map[string][]string `json:"tags,omitempty" gorm:"serializer:json"`
	CreatedAt time.Time           `json:"created_at" gorm:"index"`
}
