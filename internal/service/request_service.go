package service

import (
	"errors"
	"time"

	"github.com/liverool/volleymate/internal/models"
	"github.com/liverool/volleymate/internal/repository"
	"github.com/liverool/volleymate/internal/validation"
)

var (
	ErrNotOwner        = errors.New("not the request owner")
	ErrOwnRequest      = errors.New("cannot show interest in your own request")
	ErrRequestNotOpen  = errors.New("request is not open")
	ErrMissingLocation = errors.New("location is required")
	ErrMissingPlace    = errors.New("municipality is required")
	ErrBadLevelRange   = errors.New("level_min cannot exceed level_max")
	ErrInvalidType     = errors.New("invalid session type")
	ErrBadTransition   = errors.New("invalid status transition")
	ErrMatchExists     = errors.New("request has a match and cannot be deleted")
	ErrRequestNotFound = errors.New("request not found")
)

// defaultStartHour: a request created without a start time means
// "today at 18:00" local time.
const defaultStartHour = 18

type RequestService struct {
	requestRepo  repository.RequestRepositoryInterface
	interestRepo repository.InterestRepositoryInterface
	matchRepo    repository.MatchRepositoryInterface
	userRepo     repository.UserRepositoryInterface
	now          func() time.Time
}

func NewRequestService(
	requestRepo repository.RequestRepositoryInterface,
	interestRepo repository.InterestRepositoryInterface,
	matchRepo repository.MatchRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
) *RequestService {
	return &RequestService{
		requestRepo:  requestRepo,
		interestRepo: interestRepo,
		matchRepo:    matchRepo,
		userRepo:     userRepo,
		now:          time.Now,
	}
}

type CreateRequestInput struct {
	Municipality    string             `json:"municipality"`
	LocationText    string             `json:"location_text"`
	StartTime       time.Time          `json:"start_time"`
	DurationMinutes int                `json:"duration_minutes"`
	LevelMin        int                `json:"level_min"`
	LevelMax        int                `json:"level_max"`
	Type            models.SessionType `json:"type"`
	Notes           string             `json:"notes"`
}

// DefaultStartTime returns today at 18:00 in ref's location.
func DefaultStartTime(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), defaultStartHour, 0, 0, 0, ref.Location())
}

func (s *RequestService) CreateRequest(ownerID uint, input CreateRequestInput) (*models.Request, error) {
	location := validation.TrimAndLimit(input.LocationText, 200)
	if location == "" {
		return nil, ErrMissingLocation
	}

	municipality := validation.TrimAndLimit(input.Municipality, 100)
	if municipality == "" {
		// Fall back to the owner's home municipality.
		if owner, err := s.userRepo.FindByID(ownerID); err == nil {
			municipality = owner.HomeMunicipality
		}
		if municipality == "" {
			return nil, ErrMissingPlace
		}
	}

	if !validation.ValidateLevelRange(input.LevelMin, input.LevelMax) {
		return nil, ErrBadLevelRange
	}

	sessionType := input.Type
	if sessionType == "" {
		sessionType = models.SessionMoro
	}
	if !models.ValidSessionType(sessionType) {
		return nil, ErrInvalidType
	}

	startTime := input.StartTime
	if startTime.IsZero() {
		startTime = DefaultStartTime(s.now())
	}

	duration := input.DurationMinutes
	if duration <= 0 {
		duration = 90
	}

	request := &models.Request{
		UserID:          ownerID,
		Municipality:    municipality,
		LocationText:    location,
		StartTime:       startTime,
		DurationMinutes: duration,
		LevelMin:        input.LevelMin,
		LevelMax:        input.LevelMax,
		Type:            sessionType,
		Notes:           validation.TrimAndLimit(input.Notes, 2000),
		Status:          models.RequestOpen,
	}

	if err := s.requestRepo.Create(request); err != nil {
		return nil, err
	}

	return request, nil
}

// ListRequests serves both tabs. "mine" returns the viewer's own requests,
// anything else means the open listing.
func (s *RequestService) ListRequests(viewerID uint, tab string, limit int) ([]models.RequestResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var (
		requests []models.Request
		err      error
	)
	if tab == "mine" {
		requests, err = s.requestRepo.ListMine(viewerID, limit)
	} else {
		requests, err = s.requestRepo.ListOpen(viewerID, limit)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(requests))
	for i, req := range requests {
		ids[i] = req.ID
	}
	counts, err := s.requestRepo.CountInterests(ids)
	if err != nil {
		return nil, err
	}

	responses := make([]models.RequestResponse, len(requests))
	for i, req := range requests {
		resp := req.ToResponse()
		resp.InterestCount = counts[req.ID]
		resp.Mine = req.UserID == viewerID
		responses[i] = resp
	}
	return responses, nil
}

type RequestDetail struct {
	Request    models.RequestResponse    `json:"request"`
	Interested bool                      `json:"interested"`
	Interests  []models.InterestResponse `json:"interests,omitempty"`
}

// GetRequest returns the detail view. The interest list is only included
// for the owner; other viewers just see whether they are interested.
func (s *RequestService) GetRequest(viewerID, requestID uint) (*RequestDetail, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		return nil, ErrRequestNotFound
	}

	detail := &RequestDetail{Request: request.ToResponse()}
	detail.Request.Mine = request.UserID == viewerID

	interests, err := s.interestRepo.ListByRequest(requestID)
	if err != nil {
		return nil, err
	}
	detail.Request.InterestCount = int64(len(interests))

	if request.UserID == viewerID {
		detail.Interests = make([]models.InterestResponse, len(interests))
		for i, interest := range interests {
			detail.Interests[i] = interest.ToResponse()
		}
	} else {
		for _, interest := range interests {
			if interest.UserID == viewerID {
				detail.Interested = true
				break
			}
		}
	}

	return detail, nil
}

func (s *RequestService) UpdateStatus(ownerID, requestID uint, target models.RequestStatus) error {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		return ErrRequestNotFound
	}
	if request.UserID != ownerID {
		return ErrNotOwner
	}

	switch target {
	case models.RequestClosed:
		if request.Status != models.RequestOpen {
			return ErrBadTransition
		}
	case models.RequestDone, models.RequestCancelled:
		if request.Status.IsTerminal() {
			return ErrBadTransition
		}
	default:
		return ErrBadTransition
	}

	return s.requestRepo.UpdateStatus(requestID, target)
}

// DeleteRequest removes a request and its interests. Deletion is blocked
// while a match exists; the match conversation outlives the request intent.
func (s *RequestService) DeleteRequest(ownerID, requestID uint) error {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		return ErrRequestNotFound
	}
	if request.UserID != ownerID {
		return ErrNotOwner
	}

	hasMatch, err := s.matchRepo.ExistsForRequest(requestID)
	if err != nil {
		return err
	}
	if hasMatch {
		return ErrMatchExists
	}

	if err := s.interestRepo.DeleteByRequest(requestID); err != nil {
		return err
	}
	return s.requestRepo.Delete(requestID)
}

func (s *RequestService) AddInterest(viewerID, requestID uint) error {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		return ErrRequestNotFound
	}
	if request.UserID == viewerID {
		return ErrOwnRequest
	}
	if request.Status != models.RequestOpen {
		return ErrRequestNotOpen
	}
	return s.interestRepo.Add(requestID, viewerID)
}

func (s *RequestService) WithdrawInterest(viewerID, requestID uint) error {
	return s.interestRepo.Remove(requestID, viewerID)
}

func (s *RequestService) RejectInterest(ownerID, requestID, interestedUserID uint) error {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		return ErrRequestNotFound
	}
	if request.UserID != ownerID {
		return ErrNotOwner
	}
	return s.interestRepo.Remove(requestID, interestedUserID)
}
