package models

import (
	"time"

	"gorm.io/gorm"
)

// User is both the auth identity and the player profile. DisplayName,
// HomeMunicipality and Level are filled during onboarding and may be empty
// on a freshly registered account.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	DisplayName      string     `gorm:"size:100" json:"display_name"`
	HomeMunicipality string     `gorm:"size:100" json:"home_municipality"`
	Level            int        `gorm:"default:0" json:"level"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`

	Requests []Request `gorm:"foreignKey:UserID" json:"-"`
	Messages []Message `gorm:"foreignKey:SenderID" json:"-"`
}

func (u *User) IsConfirmed() bool {
	return u.EmailConfirmedAt != nil
}

// HasProfile reports whether onboarding is complete.
func (u *User) HasProfile() bool {
	return u.DisplayName != "" && u.Level >= 1 && u.Level <= 10
}

type UserResponse struct {
	ID               uint   `json:"id"`
	Email            string `json:"email"`
	DisplayName      string `json:"display_name"`
	HomeMunicipality string `json:"home_municipality"`
	Level            int    `json:"level"`
	OnboardingDone   bool   `json:"onboarding_done"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		HomeMunicipality: u.HomeMunicipality,
		Level:            u.Level,
		OnboardingDone:   u.HasProfile(),
	}
}
