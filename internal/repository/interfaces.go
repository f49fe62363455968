package repository

import (
	"time"

	"github.com/liverool/volleymate/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Update(user *models.User) error
	UpdatePasswordHash(userID uint, passwordHash string) error
	ConfirmEmail(userID uint, at time.Time) error
}

// RequestRepositoryInterface defines the contract for request repository operations
type RequestRepositoryInterface interface {
	Create(request *models.Request) error
	FindByID(id uint) (*models.Request, error)
	ListOpen(viewerID uint, limit int) ([]models.Request, error)
	ListMine(ownerID uint, limit int) ([]models.Request, error)
	UpdateStatus(requestID uint, status models.RequestStatus) error
	Delete(requestID uint) error
	CountInterests(requestIDs []uint) (map[uint]int64, error)
	ExpireOpenBefore(cutoff time.Time) (int64, error)
}

// InterestRepositoryInterface defines the contract for request interest operations
type InterestRepositoryInterface interface {
	Add(requestID, userID uint) error
	Remove(requestID, userID uint) error
	Exists(requestID, userID uint) (bool, error)
	ListByRequest(requestID uint) ([]models.RequestInterest, error)
	DeleteByRequest(requestID uint) error
}

// MatchRepositoryInterface defines the contract for match repository operations
type MatchRepositoryInterface interface {
	Create(match *models.Match) error
	FindByID(id uint) (*models.Match, error)
	FindByRequestAndInterested(requestID, interestedUserID uint) (*models.Match, error)
	ExistsForRequest(requestID uint) (bool, error)
	ListSummaries(viewerID uint, limit int) ([]models.MatchSummary, error)
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	FindByID(id uint) (*models.Message, error)
	ListByMatch(matchID uint, limit int) ([]models.Message, error)
	LatestByMatch(matchID uint) (*models.Message, error)
}

// MatchReadRepositoryInterface defines the contract for read marker operations
type MatchReadRepositoryInterface interface {
	UpsertMonotonic(matchID, userID uint, readAt time.Time) error
	Get(matchID, userID uint) (*models.MatchRead, error)
}

// RefreshTokenRepositoryInterface defines the contract for refresh token repository operations
type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	FindValidByHash(tokenHash string) (*models.RefreshToken, error)
	RevokeByHash(tokenHash string) error
	RevokeAllForUser(userID uint) error
	DeleteExpired(before time.Time) (int64, error)
}

// OneTimeTokenRepositoryInterface defines the contract for one-time token operations
type OneTimeTokenRepositoryInterface interface {
	Create(token *models.OneTimeToken) error
	FindValidByHash(tokenHash string, purpose models.TokenPurpose) (*models.OneTimeToken, error)
	Consume(id uint, at time.Time) error
	DeleteExpired(before time.Time) (int64, error)
}
