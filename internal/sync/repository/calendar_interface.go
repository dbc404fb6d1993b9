package repository

import (
	"context"
	"time"

	syncdomain "uniwork-backend/internal/sync/domain"
)

// CalendarRepository defines the interface for calendar event persistence
type CalendarRepository interface {
	// UpsertBatch writes events in one transaction, one row per event ID
	UpsertBatch(ctx context.Context, events []*syncdomain.CalendarEvent) error
	// GetEvents returns a user's events starting within [from, to)
	GetEvents(userID string, from, to time.Time) ([]*syncdomain.CalendarEvent, error)
	// GetSeries returns all stored instances of a recurring event
	GetSeries(userID, seriesID string) ([]*syncdomain.CalendarEvent, error)
}
