package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/liverool/volleymate/internal/models"
	"gorm.io/gorm"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(match *models.Match) error {
	return r.db.Create(match).Error
}

func (r *MatchRepository) FindByID(id uint) (*models.Match, error) {
	var match models.Match
	err := r.db.Preload("Owner").Preload("Interested").First(&match, id).Error
	return &match, err
}

func (r *MatchRepository) FindByRequestAndInterested(requestID, interestedUserID uint) (*models.Match, error) {
	var match models.Match
	err := r.db.Where("request_id = ? AND interested_user_id = ?", requestID, interestedUserID).
		First(&match).Error
	return &match, err
}

func (r *MatchRepository) ExistsForRequest(requestID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Match{}).Where("request_id = ?", requestID).Count(&count).Error
	return count > 0, err
}

// matchSummaryRow is the raw scan target for ListSummaries.
type matchSummaryRow struct {
	MatchID          uint           `gorm:"column:match_id"`
	RequestID        uint           `gorm:"column:request_id"`
	Status           string         `gorm:"column:status"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	CounterpartID    uint           `gorm:"column:counterpart_id"`
	CounterpartName  sql.NullString `gorm:"column:counterpart_name"`
	LastMessage      sql.NullString `gorm:"column:last_message"`
	LastMessageAt    *time.Time     `gorm:"column:last_message_at"`
	LastMessageFrom  sql.NullInt64  `gorm:"column:last_message_from"`
	LastReadAt       *time.Time     `gorm:"column:last_read_at"`
	RequestLocation  sql.NullString `gorm:"column:request_location"`
	RequestStartTime *time.Time     `gorm:"column:request_start_time"`
}

// ListSummaries returns the viewer's matches newest first, each with the
// counterpart, the latest message and the viewer's read marker, in a single
// query. Unread is derived here so every caller agrees on the definition.
func (r *MatchRepository) ListSummaries(viewerID uint, limit int) ([]models.MatchSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	query := strings.TrimSpace(`
WITH latest AS (
	SELECT
		msg.match_id,
		msg.content,
		msg.sender_id,
		msg.created_at,
		ROW_NUMBER() OVER (PARTITION BY msg.match_id ORDER BY msg.created_at DESC, msg.id DESC) AS rn
	FROM messages msg
)
SELECT
	m.id AS match_id,
	m.request_id AS request_id,
	m.status AS status,
	m.created_at AS created_at,
	CASE WHEN m.owner_user_id = ? THEN m.interested_user_id ELSE m.owner_user_id END AS counterpart_id,
	cp.display_name AS counterpart_name,
	l.content AS last_message,
	l.created_at AS last_message_at,
	l.sender_id AS last_message_from,
	mr.last_read_at AS last_read_at,
	req.location_text AS request_location,
	req.start_time AS request_start_time
FROM matches m
JOIN users cp ON cp.id = CASE WHEN m.owner_user_id = ? THEN m.interested_user_id ELSE m.owner_user_id END
LEFT JOIN requests req ON req.id = m.request_id
LEFT JOIN latest l ON l.match_id = m.id AND l.rn = 1
LEFT JOIN match_reads mr ON mr.match_id = m.id AND mr.user_id = ?
WHERE m.deleted_at IS NULL
  AND (m.owner_user_id = ? OR m.interested_user_id = ?)
ORDER BY m.created_at DESC
LIMIT ?
`)

	var rows []matchSummaryRow
	err := r.db.Raw(query, viewerID, viewerID, viewerID, viewerID, viewerID, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]models.MatchSummary, 0, len(rows))
	for _, row := range rows {
		summary := models.MatchSummary{
			MatchID:          row.MatchID,
			RequestID:        row.RequestID,
			Status:           models.MatchStatus(row.Status),
			CreatedAt:        row.CreatedAt,
			CounterpartID:    row.CounterpartID,
			CounterpartName:  row.CounterpartName.String,
			LastMessageAt:    row.LastMessageAt,
			RequestStartTime: row.RequestStartTime,
		}
		if row.LastMessage.Valid {
			summary.LastMessage = row.LastMessage.String
		}
		if row.LastMessageFrom.Valid {
			summary.LastMessageFrom = uint(row.LastMessageFrom.Int64)
		}
		if row.RequestLocation.Valid {
			summary.RequestLocation = row.RequestLocation.String
		}
		// Unread: a latest message exists and the viewer has never read the
		// match, or the message is newer than the marker.
		if row.LastMessageAt != nil {
			summary.Unread = row.LastReadAt == nil || row.LastMessageAt.After(*row.LastReadAt)
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
