package models

import (
	"time"

	"gorm.io/gorm"
)

type MatchStatus string

const (
	MatchActive MatchStatus = "active"
)

// Match pairs a request owner with one approved interested user.
// The unique index on (request_id, interested_user_id) makes approval
// idempotent: approving the same user twice resolves to the same row.
type Match struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RequestID        uint `gorm:"not null;uniqueIndex:idx_request_interested" json:"request_id"`
	OwnerUserID      uint `gorm:"not null;index" json:"owner_user_id"`
	InterestedUserID uint `gorm:"not null;uniqueIndex:idx_request_interested" json:"interested_user_id"`

	Status MatchStatus `gorm:"type:varchar(20);default:'active'" json:"status"`

	Request    Request `gorm:"foreignKey:RequestID" json:"-"`
	Owner      User    `gorm:"foreignKey:OwnerUserID" json:"-"`
	Interested User    `gorm:"foreignKey:InterestedUserID" json:"-"`
}

// IsParty reports whether userID is one of the two match parties.
func (m *Match) IsParty(userID uint) bool {
	return m.OwnerUserID == userID || m.InterestedUserID == userID
}

// CounterpartID returns the other party's user ID.
func (m *Match) CounterpartID(userID uint) uint {
	if m.OwnerUserID == userID {
		return m.InterestedUserID
	}
	return m.OwnerUserID
}

// MatchSummary is the denormalized match-list item: counterpart info,
// last message preview and the viewer's unread flag.
type MatchSummary struct {
	MatchID          uint        `json:"match_id"`
	RequestID        uint        `json:"request_id"`
	Status           MatchStatus `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	CounterpartID    uint        `json:"counterpart_id"`
	CounterpartName  string      `json:"counterpart_name"`
	LastMessage      string      `json:"last_message,omitempty"`
	LastMessageAt    *time.Time  `json:"last_message_at,omitempty"`
	LastMessageFrom  uint        `json:"last_message_from,omitempty"`
	Unread           bool        `json:"unread"`
	RequestLocation  string      `json:"request_location,omitempty"`
	RequestStartTime *time.Time  `json:"request_start_time,omitempty"`
}
