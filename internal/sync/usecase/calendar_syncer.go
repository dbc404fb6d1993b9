package usecase

import (
	"context"
	"fmt"
	"time"

	syncdomain "uniwork-backend/internal/sync/domain"
	"uniwork-backend/internal/sync/repository"
	"uniwork-backend/pkg/config"
)

// calendarClient is the slice of the Calendar API the syncer needs.
type calendarClient interface {
	ListEventIDs(ctx context.Context, accessToken string, after time.Time, horizon time.Duration, max int64) ([]string, error)
	FetchEvent(ctx context.Context, accessToken, userID, eventID string) (*syncdomain.RemoteItem, error)
}

// calendarSyncer syncs the upcoming window of Calendar events. The feed is
// forward-looking, so the watermark is pinned to now and every pass re-reads
// the full now-to-horizon window: an event created inside an already-fetched
// window would sit below a stored-start watermark and never be listed again.
// The upsert absorbs the re-reads. Recurring-event instances share a series
// key but persist as individual rows.
type calendarSyncer struct {
	client       calendarClient
	calendarRepo repository.CalendarRepository
	horizon      time.Duration
	now          func() time.Time
}

func NewCalendarSyncer(client calendarClient, calendarRepo repository.CalendarRepository, cfg *config.Config) Syncer {
	return &calendarSyncer{
		client:       client,
		calendarRepo: calendarRepo,
		horizon:      cfg.CalendarHorizon,
		now:          time.Now,
	}
}

func (s *calendarSyncer) Type() syncdomain.ResourceType {
	return syncdomain.ResourceCalendarEvent
}

func (s *calendarSyncer) Watermark(ctx context.Context, userID string) (time.Time, error) {
	return s.now(), nil
}

func (s *calendarSyncer) List(ctx context.Context, accessToken string, since time.Time, max int64) ([]string, error) {
	return s.client.ListEventIDs(ctx, accessToken, since, s.horizon, max)
}

func (s *calendarSyncer) Fetch(ctx context.Context, accessToken, userID, remoteID string) (*syncdomain.RemoteItem, error) {
	return s.client.FetchEvent(ctx, accessToken, userID, remoteID)
}

func (s *calendarSyncer) Persist(ctx context.Context, userID string, groups []syncdomain.ItemGroup) error {
	var events []*syncdomain.CalendarEvent
	for _, group := range groups {
		for _, item := range group.Items {
			event, ok := item.Payload.(*syncdomain.CalendarEvent)
			if !ok {
				return fmt.Errorf("unexpected payload type for event %s", item.RemoteID)
			}
			events = append(events, event)
		}
	}
	return s.calendarRepo.UpsertBatch(ctx, events)
}
