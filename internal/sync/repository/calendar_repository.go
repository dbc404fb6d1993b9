package repository

import (
	"context"
	"time"

	syncdomain "uniwork-backend/internal/sync/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// calendarRepository implements CalendarRepository on gorm
type calendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{
		db: db,
	}
}

func (r *calendarRepository) UpsertBatch(ctx context.Context, events []*syncdomain.CalendarEvent) error {
	if len(events) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, event := range events {
			event.UpdatedAt = time.Now()
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "event_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"series_id", "summary", "location", "organizer", "attendees", "start_at", "end_at", "updated_at"}),
			}).Create(event).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *calendarRepository) GetEvents(userID string, from, to time.Time) ([]*syncdomain.CalendarEvent, error) {
	var events []*syncdomain.CalendarEvent
	err := r.db.Where("user_id = ? AND start_at >= ? AND start_at < ?", userID, from, to).
		Order("start_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *calendarRepository) GetSeries(userID, seriesID string) ([]*syncdomain.CalendarEvent, error) {
	var events []*syncdomain.CalendarEvent
	err := r.db.Where("user_id = ? AND series_id = ?", userID, seriesID).
		Order("start_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
