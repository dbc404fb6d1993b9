package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncdomain "uniwork-backend/internal/sync/domain"
	"uniwork-backend/pkg/config"
	"uniwork-backend/pkg/faults"
	"uniwork-backend/pkg/retry"
)

var engineNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeSyncer serves canned remote items and records what the engine does
// with them.
type fakeSyncer struct {
	mu        sync.Mutex
	watermark time.Time
	remote    map[string]syncdomain.RemoteItem
	failIDs   map[string]bool
	listErr   error
	listCalls int
	lastSince time.Time
	lastMax   int64

	persisted    map[string]syncdomain.RemoteItem // by remote ID, last write wins
	persistCalls int
	lastGroups   []syncdomain.ItemGroup
}

func newFakeSyncer() *fakeSyncer {
	return &fakeSyncer{
		remote:    make(map[string]syncdomain.RemoteItem),
		failIDs:   make(map[string]bool),
		persisted: make(map[string]syncdomain.RemoteItem),
	}
}

func (f *fakeSyncer) add(id, group string, ts time.Time) {
	f.remote[id] = syncdomain.RemoteItem{RemoteID: id, GroupKey: group, Timestamp: ts, Payload: id}
}

func (f *fakeSyncer) Type() syncdomain.ResourceType { return syncdomain.ResourceEmail }

func (f *fakeSyncer) Watermark(ctx context.Context, userID string) (time.Time, error) {
	return f.watermark, nil
}

func (f *fakeSyncer) List(ctx context.Context, accessToken string, since time.Time, max int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastSince = since
	f.lastMax = max
	if f.listErr != nil {
		return nil, f.listErr
	}
	var ids []string
	for id, item := range f.remote {
		if item.Timestamp.After(since) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeSyncer) Fetch(ctx context.Context, accessToken, userID, remoteID string) (*syncdomain.RemoteItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[remoteID] {
		return nil, &faults.TransportError{Op: "fetch", Err: errors.New("timeout")}
	}
	item := f.remote[remoteID]
	return &item, nil
}

func (f *fakeSyncer) Persist(ctx context.Context, userID string, groups []syncdomain.ItemGroup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.persistCalls++
	f.lastGroups = groups
	for _, g := range groups {
		for _, item := range g.Items {
			f.persisted[item.RemoteID] = item
		}
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		SyncOverlap:     time.Second,
		SyncPageSize:    50,
		SyncLookback:    15 * time.Minute,
		ProviderTimeout: time.Second,
	}
}

func newTestEngine() *Engine {
	e := NewEngine(testConfig())
	e.now = func() time.Time { return engineNow }
	e.retry = retry.Policy{MaxAttempts: 2, Backoff: time.Millisecond, MaxBackoff: time.Millisecond}
	return e
}

func TestSyncResourceIngestsAndGroups(t *testing.T) {
	s := newFakeSyncer()
	s.watermark = engineNow.Add(-time.Hour)
	s.add("m1", "t1", engineNow.Add(-30*time.Minute))
	s.add("m2", "t1", engineNow.Add(-20*time.Minute))
	s.add("m3", "t2", engineNow.Add(-10*time.Minute))

	report, err := newTestEngine().SyncResource(context.Background(), s, "u1", "tok")
	require.NoError(t, err)
	assert.Equal(t, 3, report.ItemsIngested)
	assert.Zero(t, report.ItemsSkipped)
	assert.Equal(t, 1, s.persistCalls, "one transactional batch per pass")
	assert.Len(t, s.lastGroups, 2)
}

func TestSyncResourceWindowFromWatermark(t *testing.T) {
	s := newFakeSyncer()
	s.watermark = engineNow.Add(-time.Hour)

	_, err := newTestEngine().SyncResource(context.Background(), s, "u1", "tok")
	require.NoError(t, err)
	assert.Equal(t, s.watermark.Add(-time.Second), s.lastSince, "window starts at watermark minus overlap")
	assert.Equal(t, int64(50), s.lastMax)
}

func TestSyncResourceFirstPassUsesLookback(t *testing.T) {
	s := newFakeSyncer()

	_, err := newTestEngine().SyncResource(context.Background(), s, "u1", "tok")
	require.NoError(t, err)
	assert.Equal(t, engineNow.Add(-15*time.Minute), s.lastSince)
}

func TestSyncResourcePartialItemFailure(t *testing.T) {
	s := newFakeSyncer()
	s.watermark = engineNow.Add(-time.Hour)
	s.add("m1", "t1", engineNow.Add(-30*time.Minute))
	s.add("m2", "t1", engineNow.Add(-20*time.Minute))
	s.add("m3", "t2", engineNow.Add(-10*time.Minute))
	s.failIDs["m2"] = true

	report, err := newTestEngine().SyncResource(context.Background(), s, "u1", "tok")
	require.NoError(t, err, "one bad item must not fail the pass")
	assert.Equal(t, 2, report.ItemsIngested)
	assert.Equal(t, 1, report.ItemsSkipped)
	_, ok := s.persisted["m2"]
	assert.False(t, ok)
}

func TestSyncResourceNothingNew(t *testing.T) {
	s := newFakeSyncer()
	s.watermark = engineNow.Add(-time.Hour)

	report, err := newTestEngine().SyncResource(context.Background(), s, "u1", "tok")
	require.NoError(t, err)
	assert.Zero(t, report.ItemsIngested)
	assert.Zero(t, s.persistCalls)
}

func TestSyncResourceListFailureRetriedThenSurfaced(t *testing.T) {
	s := newFakeSyncer()
	s.listErr = &faults.TransportError{Op: "list", Err: errors.New("connection refused")}

	_, err := newTestEngine().SyncResource(context.Background(), s, "u1", "tok")
	assert.Error(t, err)
	assert.Equal(t, 2, s.listCalls)
	assert.Zero(t, s.persistCalls)
}

func TestSyncResourceRerunIsIdempotent(t *testing.T) {
	s := newFakeSyncer()
	s.watermark = engineNow.Add(-time.Hour)
	s.add("m1", "t1", engineNow.Add(-30*time.Minute))

	engine := newTestEngine()
	_, err := engine.SyncResource(context.Background(), s, "u1", "tok")
	require.NoError(t, err)

	// The same message comes back with a newer payload; after re-ingestion
	// there is still one record and it carries the new payload.
	s.remote["m1"] = syncdomain.RemoteItem{
		RemoteID: "m1", GroupKey: "t1",
		Timestamp: engineNow.Add(-30 * time.Minute),
		Payload:   "m1-updated",
	}

	_, err = engine.SyncResource(context.Background(), s, "u1", "tok")
	require.NoError(t, err)
	assert.Len(t, s.persisted, 1)
	assert.Equal(t, "m1-updated", s.persisted["m1"].Payload)
}

func TestGroupItemsOrdersAndBuckets(t *testing.T) {
	items := []syncdomain.RemoteItem{
		{RemoteID: "b", GroupKey: "g1", Timestamp: engineNow},
		{RemoteID: "a", GroupKey: "g1", Timestamp: engineNow.Add(-time.Minute)},
		{RemoteID: "solo", Timestamp: engineNow},
	}

	groups := groupItems(items)
	require.Len(t, groups, 2)
	assert.Equal(t, "g1", groups[0].Key)
	assert.Equal(t, "a", groups[0].Items[0].RemoteID, "group members sorted oldest first")
	assert.Equal(t, "b", groups[0].Items[1].RemoteID)
	assert.Equal(t, "solo", groups[1].Key, "keyless items stand alone under their own ID")
}
