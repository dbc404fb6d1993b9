package usecase

import (
	"context"
	"fmt"
	"time"

	syncdomain "uniwork-backend/internal/sync/domain"
	"uniwork-backend/internal/sync/repository"
	"uniwork-backend/pkg/gmail"
)

// emailSyncer syncs Gmail messages, grouped into threads.
type emailSyncer struct {
	client    *gmail.Client
	emailRepo repository.EmailRepository
}

func NewEmailSyncer(client *gmail.Client, emailRepo repository.EmailRepository) Syncer {
	return &emailSyncer{
		client:    client,
		emailRepo: emailRepo,
	}
}

func (s *emailSyncer) Type() syncdomain.ResourceType {
	return syncdomain.ResourceEmail
}

func (s *emailSyncer) Watermark(ctx context.Context, userID string) (time.Time, error) {
	return s.emailRepo.LatestEmailDate(userID)
}

func (s *emailSyncer) List(ctx context.Context, accessToken string, since time.Time, max int64) ([]string, error) {
	return s.client.ListMessageIDs(ctx, accessToken, since, max)
}

func (s *emailSyncer) Fetch(ctx context.Context, accessToken, userID, remoteID string) (*syncdomain.RemoteItem, error) {
	return s.client.FetchMessage(ctx, accessToken, userID, remoteID)
}

// Persist folds each group into a thread row plus its email rows and hands
// the whole batch to one transactional upsert.
func (s *emailSyncer) Persist(ctx context.Context, userID string, groups []syncdomain.ItemGroup) error {
	var threads []*syncdomain.EmailThread
	var emails []*syncdomain.Email

	for _, group := range groups {
		thread := &syncdomain.EmailThread{
			ThreadID: group.Key,
			UserID:   userID,
		}
		for _, item := range group.Items {
			email, ok := item.Payload.(*syncdomain.Email)
			if !ok {
				return fmt.Errorf("unexpected payload type for message %s", item.RemoteID)
			}
			emails = append(emails, email)

			// Items arrive oldest first, so the last one wins both aggregates.
			thread.Subject = email.Subject
			thread.LastEmailAt = email.Date
		}
		threads = append(threads, thread)
	}

	return s.emailRepo.UpsertBatch(ctx, threads, emails)
}
