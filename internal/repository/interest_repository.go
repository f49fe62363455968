package repository

import (
	"github.com/liverool/volleymate/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InterestRepository struct {
	db *gorm.DB
}

func NewInterestRepository(db *gorm.DB) *InterestRepository {
	return &InterestRepository{db: db}
}

// Add inserts an interest row. Duplicate adds are a no-op.
func (r *InterestRepository) Add(requestID, userID uint) error {
	interest := models.RequestInterest{
		RequestID: requestID,
		UserID:    userID,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&interest).Error
}

func (r *InterestRepository) Remove(requestID, userID uint) error {
	return r.db.Where("request_id = ? AND user_id = ?", requestID, userID).
		Delete(&models.RequestInterest{}).Error
}

func (r *InterestRepository) Exists(requestID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.RequestInterest{}).
		Where("request_id = ? AND user_id = ?", requestID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *InterestRepository) ListByRequest(requestID uint) ([]models.RequestInterest, error) {
	var interests []models.RequestInterest
	err := r.db.Preload("User").
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&interests).Error
	return interests, err
}

func (r *InterestRepository) DeleteByRequest(requestID uint) error {
	return r.db.Where("request_id = ?", requestID).Delete(&models.RequestInterest{}).Error
}
