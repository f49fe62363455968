package models

import (
	"time"
)

// MatchRead tracks per-user read progress in a match.
// last_read_at is monotonic: it only ever moves forward.
// A match is unread for a user when no row exists, or the latest message
// in the match is newer than last_read_at.
type MatchRead struct {
	MatchID    uint      `gorm:"primaryKey" json:"match_id"`
	UserID     uint      `gorm:"primaryKey" json:"user_id"`
	LastReadAt time.Time `gorm:"not null" json:"last_read_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
