package gcal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"uniwork-backend/internal/sync/domain"
	"uniwork-backend/pkg/faults"
)

// Client reads a user's primary calendar with a caller-supplied OAuth access
// token. Like the gmail client, the API service is built per call.
type Client struct{}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) service(ctx context.Context, accessToken string) (*calendar.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

// ListEventIDs returns IDs of single (expanded) events starting between the
// given instant and the horizon, ordered by start time, capped at max.
func (c *Client) ListEventIDs(ctx context.Context, accessToken string, after time.Time, horizon time.Duration, max int64) ([]string, error) {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, faults.ClassifyProviderError("calendar list", err)
	}

	resp, err := svc.Events.List("primary").
		TimeMin(after.Format(time.RFC3339)).
		TimeMax(after.Add(horizon).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(max).
		Context(ctx).Do()
	if err != nil {
		return nil, faults.ClassifyProviderError("calendar list", err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, e := range resp.Items {
		ids = append(ids, e.Id)
	}
	return ids, nil
}

// FetchEvent retrieves one event and projects it into a RemoteItem whose
// payload is a domain.CalendarEvent.
func (c *Client) FetchEvent(ctx context.Context, accessToken, userID, eventID string) (*domain.RemoteItem, error) {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, faults.ClassifyProviderError("calendar get", err)
	}

	ev, err := svc.Events.Get("primary", eventID).Context(ctx).Do()
	if err != nil {
		return nil, faults.ClassifyProviderError("calendar get", err)
	}

	start := parseEventTime(ev.Start)
	event := &domain.CalendarEvent{
		EventID:  ev.Id,
		UserID:   userID,
		SeriesID: ev.RecurringEventId,
		Summary:  ev.Summary,
		Location: ev.Location,
		StartAt:  start,
		EndAt:    parseEventTime(ev.End),
	}
	if ev.Organizer != nil {
		event.Organizer = ev.Organizer.Email
	}
	for _, a := range ev.Attendees {
		event.Attendees = append(event.Attendees, a.Email)
	}

	return &domain.RemoteItem{
		RemoteID:  ev.Id,
		GroupKey:  ev.RecurringEventId,
		Timestamp: start,
		Payload:   event,
	}, nil
}

// parseEventTime handles both timed and all-day events.
func parseEventTime(t *calendar.EventDateTime) time.Time {
	if t == nil {
		return time.Time{}
	}
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err == nil {
			return parsed
		}
	}
	if t.Date != "" {
		parsed, err := time.Parse("2006-01-02", t.Date)
		if err == nil {
			return parsed
		}
	}
	return time.Time{}
}
