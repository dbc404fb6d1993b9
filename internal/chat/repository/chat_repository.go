package repository

import (
	"time"

	chatdomain "uniwork-backend/internal/chat/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRepository defines the interface for conversation storage
type ChatRepository interface {
	Save(message *chatdomain.ChatMessage) error
	// Recent returns a user's latest messages, oldest first
	Recent(userID string, limit int) ([]*chatdomain.ChatMessage, error)
	// History returns messages in pages, newest first
	History(userID string, limit, offset int) ([]*chatdomain.ChatMessage, error)
	// Clear removes a user's whole conversation
	Clear(userID string) error
}

// chatRepository implements ChatRepository on gorm
type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{
		db: db,
	}
}

func (r *chatRepository) Save(message *chatdomain.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()
	return r.db.Create(message).Error
}

func (r *chatRepository) Recent(userID string, limit int) ([]*chatdomain.ChatMessage, error) {
	var messages []*chatdomain.ChatMessage
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order for prompt context.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *chatRepository) History(userID string, limit, offset int) ([]*chatdomain.ChatMessage, error) {
	var messages []*chatdomain.ChatMessage
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepository) Clear(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&chatdomain.ChatMessage{}).Error
}
