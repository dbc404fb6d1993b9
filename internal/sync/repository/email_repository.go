package repository

import (
	"context"
	"errors"
	"time"

	syncdomain "uniwork-backend/internal/sync/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// emailRepository implements EmailRepository on gorm
type emailRepository struct {
	db *gorm.DB
}

func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{
		db: db,
	}
}

func (r *emailRepository) LatestEmailDate(userID string) (time.Time, error) {
	var email syncdomain.Email
	err := r.db.Where("user_id = ?", userID).Order("date DESC").First(&email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return email.Date, nil
}

func (r *emailRepository) UpsertBatch(ctx context.Context, threads []*syncdomain.EmailThread, emails []*syncdomain.Email) error {
	if len(emails) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, thread := range threads {
			thread.UpdatedAt = time.Now()
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "thread_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"subject", "last_email_at", "updated_at"}),
			}).Create(thread).Error; err != nil {
				return err
			}
		}

		for _, email := range emails {
			email.UpdatedAt = time.Now()
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "message_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"thread_id", "subject", "from", "to", "snippet", "labels", "date", "updated_at"}),
			}).Create(email).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *emailRepository) GetEmails(userID string, limit, offset int) ([]*syncdomain.Email, error) {
	var emails []*syncdomain.Email
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).Offset(offset).
		Find(&emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

func (r *emailRepository) GetThread(userID, threadID string) (*syncdomain.EmailThread, []*syncdomain.Email, error) {
	var thread syncdomain.EmailThread
	err := r.db.Where("user_id = ? AND thread_id = ?", userID, threadID).First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var emails []*syncdomain.Email
	if err := r.db.Where("user_id = ? AND thread_id = ?", userID, threadID).Order("date ASC").Find(&emails).Error; err != nil {
		return nil, nil, err
	}
	return &thread, emails, nil
}
