package fcm

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client delivers task reminders over Firebase Cloud Messaging.
type Client struct {
	messaging *messaging.Client
}

// NewClient initializes Firebase from a service-account file. An empty path
// falls back to application default credentials.
func NewClient(credentialsFile string) (*Client, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	mc, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &Client{messaging: mc}, nil
}

// Reminder is the payload of one push notification. Data rides along so the
// client can deep-link to the task.
type Reminder struct {
	Title string
	Body  string
	Data  map[string]string
}

// SendReminder pushes a reminder to every registered device of one user and
// returns the tokens that were rejected, so the caller can prune them.
func (c *Client) SendReminder(ctx context.Context, tokens []string, reminder Reminder) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: reminder.Title,
			Body:  reminder.Body,
		},
		Data: reminder.Data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: reminder.Title,
				Body:  reminder.Body,
				Icon:  "/icons/task-reminder.png",
			},
		},
	}

	resp, err := c.messaging.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send reminder: %w", err)
	}

	var stale []string
	for i, r := range resp.Responses {
		if !r.Success {
			stale = append(stale, tokens[i])
			log.Printf("[FCM] delivery failed for one device: %v", r.Error)
		}
	}
	return stale, nil
}
