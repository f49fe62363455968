package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/liverool/volleymate/internal/models"
	"gorm.io/gorm"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser creates a confirmed user with a complete profile
func (h *TestHelper) CreateTestUser(id uint, displayName, email string) *models.User {
	if id == 0 {
		id = 1
	}
	if displayName == "" {
		displayName = "Test Player"
	}
	if email == "" {
		email = "test@example.com"
	}

	confirmed := time.Now()
	return &models.User{
		ID:               id,
		Email:            email,
		PasswordHash:     "hashed_password_123",
		DisplayName:      displayName,
		HomeMunicipality: "Modum",
		Level:            5,
		EmailConfirmedAt: &confirmed,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

// CreateTestRequest creates an open play request owned by ownerID
func (h *TestHelper) CreateTestRequest(id, ownerID uint) *models.Request {
	if id == 0 {
		id = 1
	}
	if ownerID == 0 {
		ownerID = 1
	}

	return &models.Request{
		ID:              id,
		UserID:          ownerID,
		Municipality:    "Modum",
		LocationText:    "Modum videregående",
		StartTime:       time.Now().Add(4 * time.Hour),
		DurationMinutes: 90,
		LevelMin:        3,
		LevelMax:        7,
		Type:            models.SessionMoro,
		Status:          models.RequestOpen,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

// CreateTestMessage creates a chat message inside matchID
func (h *TestHelper) CreateTestMessage(id, matchID, senderID uint, content string) *models.Message {
	if id == 0 {
		id = 1
	}
	if matchID == 0 {
		matchID = 1
	}
	if senderID == 0 {
		senderID = 1
	}
	if content == "" {
		content = "Test message"
	}

	return &models.Message{
		ID:        id,
		MatchID:   matchID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
		Sender: models.User{
			ID:          senderID,
			DisplayName: "Sender",
			Email:       "sender@example.com",
		},
	}
}

// SetupTestEnv sets up required environment variables for testing
func (h *TestHelper) SetupTestEnv() {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	os.Setenv("DATABASE_URL", "")
	os.Setenv("PASSWORD_MIN_LENGTH", "10")
}

// TeardownTestEnv cleans up environment variables after testing
func (h *TestHelper) TeardownTestEnv() {
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("PASSWORD_MIN_LENGTH")
}

// AssertError checks if an error occurred when it should (or shouldn't)
func (h *TestHelper) AssertError(err error, shouldErr bool, testName string) {
	if (err != nil) != shouldErr {
		if shouldErr {
			h.t.Errorf("%s: expected error but got nil", testName)
		} else {
			h.t.Errorf("%s: unexpected error: %v", testName, err)
		}
	}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(got, want interface{}, testName string) {
	if got != want {
		h.t.Errorf("%s: got %v, want %v", testName, got, want)
	}
}

// AssertNotNil checks if a value is not nil
func (h *TestHelper) AssertNotNil(value interface{}, testName string) {
	if value == nil {
		h.t.Errorf("%s: expected non-nil value", testName)
	}
}

// AssertNil checks if a value is nil
func (h *TestHelper) AssertNil(value interface{}, testName string) {
	if value != nil {
		h.t.Errorf("%s: expected nil value but got %v", testName, value)
	}
}

// GetRecordNotFoundError returns the gorm not-found sentinel
func GetRecordNotFoundError() error {
	return gorm.ErrRecordNotFound
}
