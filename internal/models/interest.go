package models

import (
	"time"
)

// RequestInterest marks one user's willingness to join a request.
// Created by any authenticated non-owner; removed by that user (withdraw)
// or by the request owner (reject).
type RequestInterest struct {
	RequestID uint      `gorm:"primaryKey" json:"request_id"`
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Request Request `gorm:"foreignKey:RequestID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"user"`
}

type InterestResponse struct {
	RequestID   uint      `json:"request_id"`
	UserID      uint      `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Level       int       `json:"level"`
	CreatedAt   time.Time `json:"created_at"`
}

func (i *RequestInterest) ToResponse() InterestResponse {
	return InterestResponse{
		RequestID:   i.RequestID,
		UserID:      i.UserID,
		DisplayName: i.User.DisplayName,
		Level:       i.User.Level,
		CreatedAt:   i.CreatedAt,
	}
}
