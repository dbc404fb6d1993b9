package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncdomain "uniwork-backend/internal/sync/domain"
	"uniwork-backend/pkg/config"
)

// fakeCalendarAPI serves canned remote events within a time window.
type fakeCalendarAPI struct {
	mu        sync.Mutex
	remote    map[string]*syncdomain.CalendarEvent
	lastAfter time.Time
}

func newFakeCalendarAPI() *fakeCalendarAPI {
	return &fakeCalendarAPI{remote: make(map[string]*syncdomain.CalendarEvent)}
}

func (f *fakeCalendarAPI) add(id string, start time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remote[id] = &syncdomain.CalendarEvent{EventID: id, UserID: "u1", StartAt: start}
}

func (f *fakeCalendarAPI) ListEventIDs(ctx context.Context, accessToken string, after time.Time, horizon time.Duration, max int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAfter = after
	var ids []string
	for id, ev := range f.remote {
		if ev.StartAt.After(after) && ev.StartAt.Before(after.Add(horizon)) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeCalendarAPI) FetchEvent(ctx context.Context, accessToken, userID, eventID string) (*syncdomain.RemoteItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev := f.remote[eventID]
	return &syncdomain.RemoteItem{
		RemoteID:  eventID,
		GroupKey:  ev.SeriesID,
		Timestamp: ev.StartAt,
		Payload:   ev,
	}, nil
}

type fakeCalendarRepo struct {
	mu     sync.Mutex
	events map[string]*syncdomain.CalendarEvent
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{events: make(map[string]*syncdomain.CalendarEvent)}
}

func (f *fakeCalendarRepo) UpsertBatch(ctx context.Context, events []*syncdomain.CalendarEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range events {
		f.events[ev.EventID] = ev
	}
	return nil
}

func (f *fakeCalendarRepo) GetEvents(userID string, from, to time.Time) ([]*syncdomain.CalendarEvent, error) {
	return nil, nil
}

func (f *fakeCalendarRepo) GetSeries(userID, seriesID string) ([]*syncdomain.CalendarEvent, error) {
	return nil, nil
}

func calendarTestConfig() *config.Config {
	cfg := testConfig()
	cfg.CalendarHorizon = 28 * 24 * time.Hour
	return cfg
}

func newTestCalendarSyncer(api *fakeCalendarAPI, repo *fakeCalendarRepo) *calendarSyncer {
	s := NewCalendarSyncer(api, repo, calendarTestConfig()).(*calendarSyncer)
	s.now = func() time.Time { return engineNow }
	return s
}

func TestCalendarWatermarkPinnedToNow(t *testing.T) {
	s := newTestCalendarSyncer(newFakeCalendarAPI(), newFakeCalendarRepo())

	wm, err := s.Watermark(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, engineNow, wm)
}

func TestCalendarSecondPassPicksUpNewNearTermEvent(t *testing.T) {
	api := newFakeCalendarAPI()
	repo := newFakeCalendarRepo()
	s := newTestCalendarSyncer(api, repo)
	engine := newTestEngine()
	engine.cfg = calendarTestConfig()

	api.add("offsite", engineNow.Add(27*24*time.Hour))
	_, err := engine.SyncResource(context.Background(), s, "u1", "tok")
	require.NoError(t, err)
	require.Contains(t, repo.events, "offsite")

	// A meeting created after the first pass, well inside the window
	// already covered by the far-out event.
	api.add("standup", engineNow.Add(24*time.Hour))

	report, err := engine.SyncResource(context.Background(), s, "u1", "tok")
	require.NoError(t, err)
	assert.Equal(t, engineNow.Add(-time.Second), api.lastAfter, "window restarts at now, not at the newest stored start")
	assert.Contains(t, repo.events, "standup")
	assert.Equal(t, 2, report.ItemsIngested)
}
