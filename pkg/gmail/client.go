package gmail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"uniwork-backend/internal/sync/domain"
	"uniwork-backend/pkg/faults"
)

// Client reads a user's mailbox with a caller-supplied OAuth access token.
// A gmail.Service is built per call because tokens differ per user and may
// rotate between calls.
type Client struct{}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) service(ctx context.Context, accessToken string) (*gmail.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return svc, nil
}

// ListMessageIDs returns IDs of messages received after the given instant,
// newest first, capped at max.
func (c *Client) ListMessageIDs(ctx context.Context, accessToken string, after time.Time, max int64) ([]string, error) {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, faults.ClassifyProviderError("gmail list", err)
	}

	// Gmail's after: operator has second precision.
	query := fmt.Sprintf("after:%d", after.Unix())
	resp, err := svc.Users.Messages.List("me").Q(query).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return nil, faults.ClassifyProviderError("gmail list", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// FetchMessage retrieves one message and projects it into a RemoteItem whose
// payload is a domain.Email.
func (c *Client) FetchMessage(ctx context.Context, accessToken, userID, messageID string) (*domain.RemoteItem, error) {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, faults.ClassifyProviderError("gmail get", err)
	}

	msg, err := svc.Users.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, faults.ClassifyProviderError("gmail get", err)
	}

	date := time.UnixMilli(msg.InternalDate)
	email := &domain.Email{
		MessageID: msg.Id,
		UserID:    userID,
		ThreadID:  msg.ThreadId,
		Subject:   getHeader(msg, "Subject"),
		From:      getHeader(msg, "From"),
		To:        getHeader(msg, "To"),
		Snippet:   msg.Snippet,
		Labels:    msg.LabelIds,
		Date:      date,
	}

	return &domain.RemoteItem{
		RemoteID:  msg.Id,
		GroupKey:  msg.ThreadId,
		Timestamp: date,
		Payload:   email,
	}, nil
}

func getHeader(msg *gmail.Message, name string) string {
	if msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
