package service

import (
	"errors"

	"github.com/liverool/volleymate/internal/models"
	"github.com/liverool/volleymate/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotInterested = errors.New("user has not shown interest in this request")
	ErrNotParty      = errors.New("not a party to this match")
	ErrMatchNotFound = errors.New("match not found")
)

type MatchService struct {
	matchRepo    repository.MatchRepositoryInterface
	requestRepo  repository.RequestRepositoryInterface
	interestRepo repository.InterestRepositoryInterface
}

func NewMatchService(
	matchRepo repository.MatchRepositoryInterface,
	requestRepo repository.RequestRepositoryInterface,
	interestRepo repository.InterestRepositoryInterface,
) *MatchService {
	return &MatchService{
		matchRepo:    matchRepo,
		requestRepo:  requestRepo,
		interestRepo: interestRepo,
	}
}

// Approve pairs the request owner with one interested user. The operation
// is idempotent: approving the same user again resolves to the existing
// match instead of creating a second one. On success the request stops
// accepting new interest.
func (s *MatchService) Approve(ownerID, requestID, interestedUserID uint) (*models.Match, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		return nil, ErrRequestNotFound
	}
	if request.UserID != ownerID {
		return nil, ErrNotOwner
	}

	interested, err := s.interestRepo.Exists(requestID, interestedUserID)
	if err != nil {
		return nil, err
	}
	if !interested {
		return nil, ErrNotInterested
	}

	if existing, err := s.matchRepo.FindByRequestAndInterested(requestID, interestedUserID); err == nil {
		return existing, nil
	}

	match := &models.Match{
		RequestID:        requestID,
		OwnerUserID:      ownerID,
		InterestedUserID: interestedUserID,
		Status:           models.MatchActive,
	}
	if err := s.matchRepo.Create(match); err != nil {
		// Two rapid approvals can race past the lookup above; the unique
		// index on (request_id, interested_user_id) catches the second
		// insert, which then resolves to the winner's row.
		if existing, findErr := s.matchRepo.FindByRequestAndInterested(requestID, interestedUserID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}

	if request.Status == models.RequestOpen {
		if err := s.requestRepo.UpdateStatus(requestID, models.RequestClosed); err != nil {
			return nil, err
		}
	}

	return match, nil
}

// GetMatch loads a match the viewer is a party to.
func (s *MatchService) GetMatch(viewerID, matchID uint) (*models.Match, error) {
	match, err := s.matchRepo.FindByID(matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if !match.IsParty(viewerID) {
		return nil, ErrNotParty
	}
	return match, nil
}

// ListMatches returns the viewer's match list, newest first, with last
// message preview and unread flag.
func (s *MatchService) ListMatches(viewerID uint, limit int) ([]models.MatchSummary, error) {
	return s.matchRepo.ListSummaries(viewerID, limit)
}
