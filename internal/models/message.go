package models

import (
	"time"
)

// Message is one chat line inside a match. Immutable once created;
// display order is created_at ascending.
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	MatchID  uint `gorm:"not null;index" json:"match_id"`
	SenderID uint `gorm:"not null;index" json:"sender_id"`

	Content string `gorm:"type:text;not null" json:"content"`

	Match  Match `gorm:"foreignKey:MatchID" json:"-"`
	Sender User  `gorm:"foreignKey:SenderID" json:"-"`
}

type MessageResponse struct {
	ID         uint      `json:"id"`
	MatchID    uint      `json:"match_id"`
	SenderID   uint      `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		MatchID:    m.MatchID,
		SenderID:   m.SenderID,
		SenderName: m.Sender.DisplayName,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}
