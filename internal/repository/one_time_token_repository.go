package repository

import (
	"time"

	"github.com/liverool/volleymate/internal/models"
	"gorm.io/gorm"
)

type OneTimeTokenRepository struct {
	db *gorm.DB
}

func NewOneTimeTokenRepository(db *gorm.DB) *OneTimeTokenRepository {
	return &OneTimeTokenRepository{db: db}
}

func (r *OneTimeTokenRepository) Create(token *models.OneTimeToken) error {
	return r.db.Create(token).Error
}

func (r *OneTimeTokenRepository) FindValidByHash(tokenHash string, purpose models.TokenPurpose) (*models.OneTimeToken, error) {
	var token models.OneTimeToken
	err := r.db.Where(
		"token_hash = ? AND purpose = ? AND consumed_at IS NULL AND expires_at > ?",
		tokenHash, purpose, time.Now(),
	).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *OneTimeTokenRepository) Consume(id uint, at time.Time) error {
	return r.db.Model(&models.OneTimeToken{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", &at).Error
}

func (r *OneTimeTokenRepository) DeleteExpired(before time.Time) (int64, error) {
	res := r.db.Unscoped().
		Where("expires_at < ? OR consumed_at IS NOT NULL", before).
		Delete(&models.OneTimeToken{})
	return res.RowsAffected, res.Error
}
