package models

import (
	"testing"
	"time"
)

func TestUserToResponse(t *testing.T) {
	user := &User{
		ID:               1,
		Email:            "kari@example.com",
		DisplayName:      "Kari",
		HomeMunicipality: "Modum",
		Level:            6,
	}

	response := user.ToResponse()

	if response.ID != user.ID {
		t.Errorf("ToResponse ID = %d, want %d", response.ID, user.ID)
	}
	if response.Email != user.Email {
		t.Errorf("ToResponse Email = %q, want %q", response.Email, user.Email)
	}
	if response.DisplayName != user.DisplayName {
		t.Errorf("ToResponse DisplayName = %q, want %q", response.DisplayName, user.DisplayName)
	}
	if response.HomeMunicipality != user.HomeMunicipality {
		t.Errorf("ToResponse HomeMunicipality = %q, want %q", response.HomeMunicipality, user.HomeMunicipality)
	}
	if !response.OnboardingDone {
		t.Errorf("ToResponse OnboardingDone = false, want true")
	}
}

func TestUserHasProfile(t *testing.T) {
	tests := []struct {
		name string
		user User
		want bool
	}{
		{"Complete profile", User{DisplayName: "Ola", Level: 5}, true},
		{"Missing display name", User{Level: 5}, false},
		{"Level zero", User{DisplayName: "Ola"}, false},
		{"Level out of range", User{DisplayName: "Ola", Level: 11}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.HasProfile(); got != tt.want {
				t.Errorf("HasProfile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequestStatusIsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status RequestStatus
		want   bool
	}{
		{"open", RequestOpen, false},
		{"closed", RequestClosed, false},
		{"done", RequestDone, true},
		{"cancelled", RequestCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidSessionType(t *testing.T) {
	for _, valid := range []SessionType{SessionMoro, SessionTrening, SessionTurnering} {
		if !ValidSessionType(valid) {
			t.Errorf("ValidSessionType(%q) = false, want true", valid)
		}
	}
	if ValidSessionType("kamp") {
		t.Errorf("ValidSessionType(kamp) = true, want false")
	}
}

func TestMatchParties(t *testing.T) {
	match := &Match{
		ID:               1,
		RequestID:        10,
		OwnerUserID:      1,
		InterestedUserID: 2,
	}

	if !match.IsParty(1) || !match.IsParty(2) {
		t.Errorf("IsParty should be true for both parties")
	}
	if match.IsParty(3) {
		t.Errorf("IsParty(3) = true, want false")
	}
	if got := match.CounterpartID(1); got != 2 {
		t.Errorf("CounterpartID(1) = %d, want 2", got)
	}
	if got := match.CounterpartID(2); got != 1 {
		t.Errorf("CounterpartID(2) = %d, want 1", got)
	}
}

func TestMessageToResponse(t *testing.T) {
	createdAt := time.Now()
	message := &Message{
		ID:        1,
		MatchID:   7,
		SenderID:  2,
		Content:   "Hei!",
		CreatedAt: createdAt,
		Sender: User{
			ID:          2,
			DisplayName: "Per",
		},
	}

	response := message.ToResponse()

	if response.ID != message.ID {
		t.Errorf("ToResponse ID = %d, want %d", response.ID, message.ID)
	}
	if response.MatchID != message.MatchID {
		t.Errorf("ToResponse MatchID = %d, want %d", response.MatchID, message.MatchID)
	}
	if response.Content != message.Content {
		t.Errorf("ToResponse Content = %q, want %q", response.Content, message.Content)
	}
	if response.SenderName != "Per" {
		t.Errorf("ToResponse SenderName = %q, want Per", response.SenderName)
	}
	if !response.CreatedAt.Equal(createdAt) {
		t.Errorf("ToResponse CreatedAt = %v, want %v", response.CreatedAt, createdAt)
	}
}

func TestOneTimeTokenIsConsumed(t *testing.T) {
	token := &OneTimeToken{}
	if token.IsConsumed() {
		t.Errorf("IsConsumed() = true for fresh token")
	}
	now := time.Now()
	token.ConsumedAt = &now
	if !token.IsConsumed() {
		t.Errorf("IsConsumed() = false after consumption")
	}
}
