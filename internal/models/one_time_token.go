package models

import (
	"time"

	"gorm.io/gorm"
)

type TokenPurpose string

const (
	PurposePasswordReset TokenPurpose = "password_reset"
	PurposeEmailConfirm  TokenPurpose = "email_confirm"
)

// OneTimeToken backs the forgot-password and resend-confirmation flows.
// Only a hash of the code is stored; the plaintext code is handed to the
// delivery channel once and never persisted.
type OneTimeToken struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	TokenHash  string       `gorm:"uniqueIndex;not null" json:"-"`
	Purpose    TokenPurpose `gorm:"type:varchar(30);not null;index" json:"purpose"`
	ExpiresAt  time.Time    `gorm:"index;not null" json:"expires_at"`
	ConsumedAt *time.Time   `json:"-"`
}

func (t *OneTimeToken) IsConsumed() bool {
	return t.ConsumedAt != nil
}
