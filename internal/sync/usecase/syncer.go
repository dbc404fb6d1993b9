package usecase

import (
	"context"
	"time"

	syncdomain "uniwork-backend/internal/sync/domain"
)

// Syncer is one externally-synced resource (emails, calendar events). The
// engine drives the pass; the Syncer supplies the resource-specific pieces.
type Syncer interface {
	Type() syncdomain.ResourceType
	// Watermark returns the newest stored item timestamp for the user, or the
	// zero time when nothing is stored yet
	Watermark(ctx context.Context, userID string) (time.Time, error)
	// List returns remote IDs of items newer than since, capped at max
	List(ctx context.Context, accessToken string, since time.Time, max int64) ([]string, error)
	// Fetch retrieves one item's full detail
	Fetch(ctx context.Context, accessToken, userID, remoteID string) (*syncdomain.RemoteItem, error)
	// Persist writes all groups of a batch in one transaction
	Persist(ctx context.Context, userID string, groups []syncdomain.ItemGroup) error
}
