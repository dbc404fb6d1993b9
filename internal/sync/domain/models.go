package domain

import "time"

// ResourceType identifies one kind of externally-sourced record.
type ResourceType string

const (
	ResourceEmail         ResourceType = "email"
	ResourceCalendarEvent ResourceType = "calendar_event"
)

// Email is the locally persisted projection of one Gmail message. Rows are
// keyed by the provider's message ID so re-ingesting the same message updates
// in place instead of duplicating.
type Email struct {
	MessageID string    `json:"message_id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	ThreadID  string    `json:"thread_id" gorm:"index"`
	Subject   string    `json:"subject"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Snippet   string    `json:"snippet"`
	Labels    []string  `json:"labels" gorm:"serializer:json"`
	Date      time.Time `json:"date" gorm:"index"` // sync watermark source
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmailThread groups emails by the provider's thread ID and carries
// aggregates derived from its members.
type EmailThread struct {
	ThreadID    string    `json:"thread_id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"index;not null"`
	Subject     string    `json:"subject"`
	LastEmailAt time.Time `json:"last_email_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CalendarEvent is the locally persisted projection of one Calendar event,
// keyed by the provider's event ID. SeriesID links instances of a recurring
// event.
type CalendarEvent struct {
	EventID   string    `json:"event_id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	SeriesID  string    `json:"series_id,omitempty" gorm:"index"`
	Summary   string    `json:"summary"`
	Location  string    `json:"location,omitempty"`
	Organizer string    `json:"organizer,omitempty"`
	Attendees []string  `json:"attendees,omitempty" gorm:"serializer:json"`
	StartAt   time.Time `json:"start_at" gorm:"index"` // sync watermark source
	EndAt     time.Time `json:"end_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RemoteItem is the resource-neutral shape the sync engine works with. The
// Payload holds the resource-specific projection and is only inspected by the
// matching Syncer's persistence step.
type RemoteItem struct {
	RemoteID  string
	GroupKey  string // thread or series key; empty when the item stands alone
	Timestamp time.Time
	Payload   any
}

// ItemGroup is one grouping-key bucket of a fetched batch.
type ItemGroup struct {
	Key   string
	Items []RemoteItem
}

// SyncReport is the outcome of one sync pass for one user and resource.
type SyncReport struct {
	Resource      ResourceType `json:"resource"`
	ItemsIngested int          `json:"items_ingested"`
	ItemsSkipped  int          `json:"items_skipped"`
}

// BatchReport aggregates a batch-mode run across all connected users.
type BatchReport struct {
	Succeeded     int `json:"succeeded"`
	Failed        int `json:"failed"`
	ItemsIngested int `json:"items_ingested"`
}
