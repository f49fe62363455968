package repository

import (
	"github.com/liverool/volleymate/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) FindByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").First(&message, id).Error
	return &message, err
}

// ListByMatch returns the chat history in display order (oldest first).
func (r *MessageRepository) ListByMatch(matchID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").
		Where("match_id = ?", matchID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error

	// Reverse to get chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, err
}

func (r *MessageRepository) LatestByMatch(matchID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Where("match_id = ?", matchID).
		Order("created_at DESC").
		First(&message).Error
	return &message, err
}
