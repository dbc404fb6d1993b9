package repository

import (
	"context"
	"time"

	syncdomain "uniwork-backend/internal/sync/domain"
)

// EmailRepository defines the interface for email persistence
type EmailRepository interface {
	// LatestEmailDate returns the newest stored email date for a user, or the
	// zero time when the user has no emails yet
	LatestEmailDate(userID string) (time.Time, error)
	// UpsertBatch writes threads and their emails in one transaction. Re-running
	// the same batch leaves one row per message, updated in place.
	UpsertBatch(ctx context.Context, threads []*syncdomain.EmailThread, emails []*syncdomain.Email) error
	// GetEmails returns a user's emails, newest first
	GetEmails(userID string, limit, offset int) ([]*syncdomain.Email, error)
	// GetThread returns one thread and its emails in chronological order
	GetThread(userID, threadID string) (*syncdomain.EmailThread, []*syncdomain.Email, error)
}
