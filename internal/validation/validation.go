package validation

import (
	"net/mail"
	"os"
	"strconv"
	"strings"
)

const (
	LevelMin = 1
	LevelMax = 10
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func PasswordMinLength() int {
	minStr := os.Getenv("PASSWORD_MIN_LENGTH")
	if minStr == "" {
		return 8
	}
	min, err := strconv.Atoi(minStr)
	if err != nil || min < 6 {
		return 8
	}
	return min
}

func ValidatePassword(password string) bool {
	return len(password) >= PasswordMinLength()
}

// ValidateLevel checks a single skill level against the 1-10 scale.
func ValidateLevel(level int) bool {
	return level >= LevelMin && level <= LevelMax
}

// ValidateLevelRange checks a request's level window: both bounds on the
// scale and min not above max.
func ValidateLevelRange(min, max int) bool {
	return ValidateLevel(min) && ValidateLevel(max) && min <= max
}

func MaxMessageLength() int {
	maxStr := os.Getenv("MAX_MESSAGE_LENGTH")
	if maxStr == "" {
		return 4000
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return 4000
	}
	return max
}

func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}
