package repository

import (
	"time"

	"github.com/liverool/volleymate/internal/models"
	"gorm.io/gorm"
)

type MatchReadRepository struct {
	db *gorm.DB
}

func NewMatchReadRepository(db *gorm.DB) *MatchReadRepository {
	return &MatchReadRepository{db: db}
}

// UpsertMonotonic advances the read marker. GREATEST keeps it from ever
// moving backwards under concurrent updates.
func (r *MatchReadRepository) UpsertMonotonic(matchID, userID uint, readAt time.Time) error {
	return r.db.Exec(`
		INSERT INTO match_reads (match_id, user_id, last_read_at, created_at, updated_at)
		VALUES (?, ?, ?, NOW(), NOW())
		ON CONFLICT (match_id, user_id) DO UPDATE
		SET last_read_at = GREATEST(match_reads.last_read_at, EXCLUDED.last_read_at),
			updated_at = NOW()
	`, matchID, userID, readAt).Error
}

func (r *MatchReadRepository) Get(matchID, userID uint) (*models.MatchRead, error) {
	var read models.MatchRead
	err := r.db.Where("match_id = ? AND user_id = ?", matchID, userID).First(&read).Error
	if err != nil {
		return nil, err
	}
	return &read, nil
}
