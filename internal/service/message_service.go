package service

import (
	"errors"
	"time"

	"github.com/liverool/volleymate/internal/models"
	"github.com/liverool/volleymate/internal/repository"
	"github.com/liverool/volleymate/internal/validation"
	"gorm.io/gorm"
)

var ErrEmptyMessage = errors.New("message content is empty")

type MessageService struct {
	messageRepo repository.MessageRepositoryInterface
	matchRepo   repository.MatchRepositoryInterface
	readRepo    repository.MatchReadRepositoryInterface
}

func NewMessageService(
	messageRepo repository.MessageRepositoryInterface,
	matchRepo repository.MatchRepositoryInterface,
	readRepo repository.MatchReadRepositoryInterface,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		matchRepo:   matchRepo,
		readRepo:    readRepo,
	}
}

// Send inserts a chat message. Whitespace-only content is rejected before
// any write, and content is trimmed and length-limited on the way in.
func (s *MessageService) Send(senderID, matchID uint, content string) (*models.Message, error) {
	content = validation.TrimAndLimit(content, validation.MaxMessageLength())
	if content == "" {
		return nil, ErrEmptyMessage
	}

	match, err := s.matchRepo.FindByID(matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if !match.IsParty(senderID) {
		return nil, ErrNotParty
	}

	message := &models.Message{
		MatchID:  matchID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	// Load sender info for the response and fan-out payload.
	return s.messageRepo.FindByID(message.ID)
}

// History returns the full chat in display order (oldest first).
func (s *MessageService) History(viewerID, matchID uint, limit int) ([]models.Message, error) {
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

	if limit <= 0 || limit > 500 {
		limit = 200
	}
	return s.messageRepo.ListByMatch(matchID, limit)
}

// MarkRead advances the viewer's read marker to now.
func (s *MessageService) MarkRead(viewerID, matchID uint) error {
	match, err := s.matchRepo.FindByID(matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	if !match.IsParty(viewerID) {
		return ErrNotParty
	}
	return s.readRepo.UpsertMonotonic(matchID, viewerID, time.Now())
}

// IsUnread applies the read-marker rule for a single match: unread when a
// message exists and the viewer either has no marker or the latest message
// is strictly newer than it.
func (s *MessageService) IsUnread(viewerID, matchID uint) (bool, error) {
	latest, err := s.messageRepo.LatestByMatch(matchID)
	if err != nil {
		return false, nil
	}

	read, err := s.readRepo.Get(matchID, viewerID)
	if err != nil {
		return true, nil
	}
	return latest.CreatedAt.After(read.LastReadAt), nil
}
