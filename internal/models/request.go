package models

import (
	"time"

	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestOpen      RequestStatus = "open"
	RequestClosed    RequestStatus = "closed"
	RequestDone      RequestStatus = "done"
	RequestCancelled RequestStatus = "cancelled"
)

// IsTerminal reports whether the status excludes the request from open listings.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestDone || s == RequestCancelled
}

type SessionType string

const (
	SessionMoro      SessionType = "moro"
	SessionTrening   SessionType = "trening"
	SessionTurnering SessionType = "turnering"
)

func ValidSessionType(t SessionType) bool {
	switch t {
	case SessionMoro, SessionTrening, SessionTurnering:
		return true
	}
	return false
}

// Request is a user-posted intent to play: where, when, and for which levels.
type Request struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Municipality    string        `gorm:"size:100;not null" json:"municipality"`
	LocationText    string        `gorm:"size:200;not null" json:"location_text"`
	StartTime       time.Time     `gorm:"not null;index" json:"start_time"`
	DurationMinutes int           `gorm:"default:90" json:"duration_minutes"`
	LevelMin        int           `gorm:"not null" json:"level_min"`
	LevelMax        int           `gorm:"not null" json:"level_max"`
	Type            SessionType   `gorm:"type:varchar(20);default:'moro'" json:"type"`
	Notes           string        `gorm:"type:text" json:"notes"`
	Status          RequestStatus `gorm:"type:varchar(20);default:'open';index" json:"status"`

	Interests []RequestInterest `gorm:"foreignKey:RequestID" json:"-"`
}

type RequestResponse struct {
	ID              uint          `json:"id"`
	UserID          uint          `json:"user_id"`
	OwnerName       string        `json:"owner_name,omitempty"`
	Municipality    string        `json:"municipality"`
	LocationText    string        `json:"location_text"`
	StartTime       time.Time     `json:"start_time"`
	DurationMinutes int           `json:"duration_minutes"`
	LevelMin        int           `json:"level_min"`
	LevelMax        int           `json:"level_max"`
	Type            SessionType   `json:"type"`
	Notes           string        `json:"notes"`
	Status          RequestStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	InterestCount   int64         `json:"interest_count"`
	Mine            bool          `json:"mine"`
}

func (r *Request) ToResponse() RequestResponse {
	return RequestResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		OwnerName:       r.User.DisplayName,
		Municipality:    r.Municipality,
		LocationText:    r.LocationText,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		LevelMin:        r.LevelMin,
		LevelMax:        r.LevelMax,
		Type:            r.Type,
		Notes:           r.Notes,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
	}
}
