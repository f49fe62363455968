package service

import (
	"errors"
	"testing"
	"time"

	"github.com/liverool/volleymate/internal/models"
)

type requestFixture struct {
	service   *RequestService
	requests  *MockRequestRepository
	interests *MockInterestRepository
	matches   *MockMatchRepository
	users     *MockUserRepository
}

func newRequestFixture() *requestFixture {
	users := NewMockUserRepository()
	interests := NewMockInterestRepository()
	requests := NewMockRequestRepository(interests)
	matches := NewMockMatchRepository(nil, nil, users)

	return &requestFixture{
		service:   NewRequestService(requests, interests, matches, users),
		requests:  requests,
		interests: interests,
		matches:   matches,
		users:     users,
	}
}

func TestCreateRequestDefaults(t *testing.T) {
	f := newRequestFixture()
	f.users.Create(&models.User{ID: 1, HomeMunicipality: "Modum"})

	// Pin "now" so the default start time is deterministic.
	ref := time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)
	f.service.now = func() time.Time { return ref }

	request, err := f.service.CreateRequest(1, CreateRequestInput{
		LocationText: "RVS-parken",
		LevelMin:     1,
		LevelMax:     10,
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	if request.Status != models.RequestOpen {
		t.Errorf("Status = %q, want open", request.Status)
	}
	want := time.Date(2026, 3, 14, 18, 0, 0, 0, time.Local)
	if !request.StartTime.Equal(want) {
		t.Errorf("StartTime = %v, want today 18:00 (%v)", request.StartTime, want)
	}
	if request.Municipality != "Modum" {
		t.Errorf("Municipality = %q, want owner's home municipality", request.Municipality)
	}
	if request.DurationMinutes != 90 {
		t.Errorf("DurationMinutes = %d, want 90", request.DurationMinutes)
	}
	if request.Type != models.SessionMoro {
		t.Errorf("Type = %q, want moro", request.Type)
	}
}

func TestCreateRequestValidation(t *testing.T) {
	f := newRequestFixture()
	f.users.Create(&models.User{ID: 1, HomeMunicipality: "Modum"})

	tests := []struct {
		name    string
		input   CreateRequestInput
		wantErr error
	}{
		{
			name:    "Empty location",
			input:   CreateRequestInput{LocationText: "   ", LevelMin: 1, LevelMax: 10},
			wantErr: ErrMissingLocation,
		},
		{
			name:    "Level min above max",
			input:   CreateRequestInput{LocationText: "Hallen", LevelMin: 7, LevelMax: 3},
			wantErr: ErrBadLevelRange,
		},
		{
			name:    "Level off the scale",
			input:   CreateRequestInput{LocationText: "Hallen", LevelMin: 0, LevelMax: 10},
			wantErr: ErrBadLevelRange,
		},
		{
			name:    "Unknown session type",
			input:   CreateRequestInput{LocationText: "Hallen", LevelMin: 1, LevelMax: 10, Type: "kamp"},
			wantErr: ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateRequest(1, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateRequest error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Validation failures must reject before any write.
	if len(f.requests.requests) != 0 {
		t.Errorf("rejected input still wrote %d request(s)", len(f.requests.requests))
	}
}

func TestListRequestsTabs(t *testing.T) {
	f := newRequestFixture()
	f.users.Create(&models.User{ID: 1})
	f.users.Create(&models.User{ID: 2})

	f.requests.Create(&models.Request{UserID: 1, Status: models.RequestOpen, LocationText: "A"})
	f.requests.Create(&models.Request{UserID: 2, Status: models.RequestOpen, LocationText: "B"})
	f.requests.Create(&models.Request{UserID: 2, Status: models.RequestClosed, LocationText: "C"})
	f.requests.Create(&models.Request{UserID: 2, Status: models.RequestDone, LocationText: "D"})
	f.requests.Create(&models.Request{UserID: 2, Status: models.RequestCancelled, LocationText: "E"})

	open, err := f.service.ListRequests(1, "open", 0)
	if err != nil {
		t.Fatalf("ListRequests(open): %v", err)
	}
	for _, r := range open {
		if r.Mine {
			t.Errorf("open listing includes viewer's own request %d", r.ID)
		}
		if r.Status == models.RequestDone || r.Status == models.RequestCancelled {
			t.Errorf("open listing includes terminal request %d (%s)", r.ID, r.Status)
		}
	}
	if len(open) != 2 {
		t.Errorf("open listing has %d entries, want 2", len(open))
	}

	mine, err := f.service.ListRequests(1, "mine", 0)
	if err != nil {
		t.Fatalf("ListRequests(mine): %v", err)
	}
	if len(mine) != 1 || !mine[0].Mine {
		t.Errorf("mine listing = %+v, want exactly the owner's request", mine)
	}
}

func TestInterestLifecycle(t *testing.T) {
	f := newRequestFixture()
	f.users.Create(&models.User{ID: 1})
	f.users.Create(&models.User{ID: 2, DisplayName: "Per"})

	request := &models.Request{UserID: 1, Status: models.RequestOpen, LocationText: "Hallen"}
	f.requests.Create(request)

	if err := f.service.AddInterest(1, request.ID); !errors.Is(err, ErrOwnRequest) {
		t.Errorf("AddInterest(owner) error = %v, want ErrOwnRequest", err)
	}

	if err := f.service.AddInterest(2, request.ID); err != nil {
		t.Fatalf("AddInterest: %v", err)
	}
	// Duplicate add is a no-op.
	if err := f.service.AddInterest(2, request.ID); err != nil {
		t.Errorf("duplicate AddInterest: %v", err)
	}

	detail, err := f.service.GetRequest(1, request.ID)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if detail.Request.InterestCount != 1 {
		t.Errorf("InterestCount = %d, want 1", detail.Request.InterestCount)
	}
	if len(detail.Interests) != 1 {
		t.Fatalf("owner sees %d interests, want 1", len(detail.Interests))
	}

	// Non-owner sees their own flag, not the list.
	viewerDetail, err := f.service.GetRequest(2, request.ID)
	if err != nil {
		t.Fatalf("GetRequest(viewer): %v", err)
	}
	if !viewerDetail.Interested {
		t.Errorf("viewer's interest flag not set")
	}
	if len(viewerDetail.Interests) != 0 {
		t.Errorf("non-owner got the interest list")
	}

	if err := f.service.WithdrawInterest(2, request.ID); err != nil {
		t.Fatalf("WithdrawInterest: %v", err)
	}
	if exists, _ := f.interests.Exists(request.ID, 2); exists {
		t.Errorf("interest still present after withdraw")
	}

	// Interest is only possible while the request is open.
	f.requests.UpdateStatus(request.ID, models.RequestClosed)
	if err := f.service.AddInterest(2, request.ID); !errors.Is(err, ErrRequestNotOpen) {
		t.Errorf("AddInterest(closed) error = %v, want ErrRequestNotOpen", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.RequestStatus
		to      models.RequestStatus
		wantErr bool
	}{
		{"open to closed", models.RequestOpen, models.RequestClosed, false},
		{"open to done", models.RequestOpen, models.RequestDone, false},
		{"closed to cancelled", models.RequestClosed, models.RequestCancelled, false},
		{"closed to closed", models.RequestClosed, models.RequestClosed, true},
		{"done to cancelled", models.RequestDone, models.RequestCancelled, true},
		{"reopen not allowed", models.RequestClosed, models.RequestOpen, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRequestFixture()
			request := &models.Request{UserID: 1, Status: tt.from, LocationText: "Hallen"}
			f.requests.Create(request)

			err := f.service.UpdateStatus(1, request.ID, tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("UpdateStatus(%s -> %s) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestUpdateStatusOwnerOnly(t *testing.T) {
	f := newRequestFixture()
	request := &models.Request{UserID: 1, Status: models.RequestOpen, LocationText: "Hallen"}
	f.requests.Create(request)

	if err := f.service.UpdateStatus(2, request.ID, models.RequestClosed); !errors.Is(err, ErrNotOwner) {
		t.Errorf("UpdateStatus(non-owner) error = %v, want ErrNotOwner", err)
	}
}

func TestDeleteRequest(t *testing.T) {
	f := newRequestFixture()
	request := &models.Request{UserID: 1, Status: models.RequestOpen, LocationText: "Hallen"}
	f.requests.Create(request)
	f.interests.Add(request.ID, 2)

	if err := f.service.DeleteRequest(2, request.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("DeleteRequest(non-owner) error = %v, want ErrNotOwner", err)
	}

	if err := f.service.DeleteRequest(1, request.ID); err != nil {
		t.Fatalf("DeleteRequest: %v", err)
	}
	if _, err := f.requests.FindByID(request.ID); err == nil {
		t.Errorf("request still present after delete")
	}
	if interests, _ := f.interests.ListByRequest(request.ID); len(interests) != 0 {
		t.Errorf("interests survived request deletion")
	}
}

func TestDeleteRequestBlockedByMatch(t *testing.T) {
	f := newRequestFixture()
	request := &models.Request{UserID: 1, Status: models.RequestClosed, LocationText: "Hallen"}
	f.requests.Create(request)
	f.matches.Create(&models.Match{RequestID: request.ID, OwnerUserID: 1, InterestedUserID: 2})

	if err := f.service.DeleteRequest(1, request.ID); !errors.Is(err, ErrMatchExists) {
		t.Errorf("DeleteRequest error = %v, want ErrMatchExists", err)
	}
	if _, err := f.requests.FindByID(request.ID); err != nil {
		t.Errorf("blocked delete removed the request anyway")
	}
}
