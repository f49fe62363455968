package service

import (
	"errors"
	"sort"
	"time"

	"github.com/liverool/volleymate/internal/models"
	"gorm.io/gorm"
)

// Mocks surface the same not-found sentinel the real repositories do, so
// services can rely on errors.Is(err, gorm.ErrRecordNotFound) either way.
var errNotFound = gorm.ErrRecordNotFound

// MockUserRepository is an in-memory user store for tests.
type MockUserRepository struct {
	users  map[uint]*models.User
	nextID uint
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]*models.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) Create(user *models.User) error {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errNotFound
}

func (m *MockUserRepository) Update(user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) UpdatePasswordHash(userID uint, passwordHash string) error {
	u, ok := m.users[userID]
	if !ok {
		return errNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *MockUserRepository) ConfirmEmail(userID uint, at time.Time) error {
	u, ok := m.users[userID]
	if !ok {
		return errNotFound
	}
	if u.EmailConfirmedAt == nil {
		u.EmailConfirmedAt = &at
	}
	return nil
}

// MockRequestRepository is an in-memory request store for tests.
type MockRequestRepository struct {
	requests  map[uint]*models.Request
	interests *MockInterestRepository
	nextID    uint
}

func NewMockRequestRepository(interests *MockInterestRepository) *MockRequestRepository {
	return &MockRequestRepository{
		requests:  make(map[uint]*models.Request),
		interests: interests,
		nextID:    1,
	}
}

func (m *MockRequestRepository) Create(request *models.Request) error {
	if request.ID == 0 {
		request.ID = m.nextID
		m.nextID++
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}
	m.requests[request.ID] = request
	return nil
}

func (m *MockRequestRepository) FindByID(id uint) (*models.Request, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, errNotFound
}

func (m *MockRequestRepository) ListOpen(viewerID uint, limit int) ([]models.Request, error) {
	var out []models.Request
	for _, r := range m.requests {
		if r.UserID == viewerID || r.Status.IsTerminal() {
			continue
		}
		out = append(out, *r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *MockRequestRepository) ListMine(ownerID uint, limit int) ([]models.Request, error) {
	var out []models.Request
	for _, r := range m.requests {
		if r.UserID != ownerID {
			continue
		}
		out = append(out, *r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MockRequestRepository) UpdateStatus(requestID uint, status models.RequestStatus) error {
	r, ok := m.requests[requestID]
	if !ok {
		return errNotFound
	}
	r.Status = status
	return nil
}

func (m *MockRequestRepository) Delete(requestID uint) error {
	delete(m.requests, requestID)
	return nil
}

func (m *MockRequestRepository) CountInterests(requestIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(requestIDs))
	if m.interests == nil {
		return counts, nil
	}
	for _, id := range requestIDs {
		counts[id] = int64(len(m.interests.rows[id]))
	}
	return counts, nil
}

func (m *MockRequestRepository) ExpireOpenBefore(cutoff time.Time) (int64, error) {
	var n int64
	for _, r := range m.requests {
		if !r.Status.IsTerminal() && r.StartTime.Before(cutoff) {
			r.Status = models.RequestDone
			n++
		}
	}
	return n, nil
}

// MockInterestRepository is an in-memory interest store for tests.
type MockInterestRepository struct {
	rows map[uint]map[uint]time.Time // requestID -> userID -> created
}

func NewMockInterestRepository() *MockInterestRepository {
	return &MockInterestRepository{rows: make(map[uint]map[uint]time.Time)}
}

func (m *MockInterestRepository) Add(requestID, userID uint) error {
	if _, ok := m.rows[requestID]; !ok {
		m.rows[requestID] = make(map[uint]time.Time)
	}
	if _, ok := m.rows[requestID][userID]; !ok {
		m.rows[requestID][userID] = time.Now()
	}
	return nil
}

func (m *MockInterestRepository) Remove(requestID, userID uint) error {
	if users, ok := m.rows[requestID]; ok {
		delete(users, userID)
	}
	return nil
}

func (m *MockInterestRepository) Exists(requestID, userID uint) (bool, error) {
	users, ok := m.rows[requestID]
	if !ok {
		return false, nil
	}
	_, ok = users[userID]
	return ok, nil
}

func (m *MockInterestRepository) ListByRequest(requestID uint) ([]models.RequestInterest, error) {
	var out []models.RequestInterest
	for userID, created := range m.rows[requestID] {
		out = append(out, models.RequestInterest{
			RequestID: requestID,
			UserID:    userID,
			CreatedAt: created,
		})
	}
	return out, nil
}

func (m *MockInterestRepository) DeleteByRequest(requestID uint) error {
	delete(m.rows, requestID)
	return nil
}

// MockMatchRepository is an in-memory match store. Create enforces the
// unique (request_id, interested_user_id) index like the real table.
type MockMatchRepository struct {
	matches  map[uint]*models.Match
	messages *MockMessageRepository
	reads    *MockMatchReadRepository
	users    *MockUserRepository
	nextID   uint
	findErr  error // when set, FindByID fails with it
}

func NewMockMatchRepository(messages *MockMessageRepository, reads *MockMatchReadRepository, users *MockUserRepository) *MockMatchRepository {
	return &MockMatchRepository{
		matches:  make(map[uint]*models.Match),
		messages: messages,
		reads:    reads,
		users:    users,
		nextID:   1,
	}
}

func (m *MockMatchRepository) Create(match *models.Match) error {
	for _, existing := range m.matches {
		if existing.RequestID == match.RequestID && existing.InterestedUserID == match.InterestedUserID {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	if match.ID == 0 {
		match.ID = m.nextID
		m.nextID++
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	m.matches[match.ID] = match
	return nil
}

func (m *MockMatchRepository) FindByID(id uint) (*models.Match, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if match, ok := m.matches[id]; ok {
		return match, nil
	}
	return nil, errNotFound
}

func (m *MockMatchRepository) FindByRequestAndInterested(requestID, interestedUserID uint) (*models.Match, error) {
	for _, match := range m.matches {
		if match.RequestID == requestID && match.InterestedUserID == interestedUserID {
			return match, nil
		}
	}
	return nil, errNotFound
}

func (m *MockMatchRepository) ExistsForRequest(requestID uint) (bool, error) {
	for _, match := range m.matches {
		if match.RequestID == requestID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockMatchRepository) ListSummaries(viewerID uint, limit int) ([]models.MatchSummary, error) {
	var out []models.MatchSummary
	for _, match := range m.matches {
		if !match.IsParty(viewerID) {
			continue
		}
		summary := models.MatchSummary{
			MatchID:       match.ID,
			RequestID:     match.RequestID,
			Status:        match.Status,
			CreatedAt:     match.CreatedAt,
			CounterpartID: match.CounterpartID(viewerID),
		}
		if m.users != nil {
			if cp, err := m.users.FindByID(summary.CounterpartID); err == nil {
				summary.CounterpartName = cp.DisplayName
			}
		}
		if m.messages != nil {
			if latest, err := m.messages.LatestByMatch(match.ID); err == nil {
				summary.LastMessage = latest.Content
				createdAt := latest.CreatedAt
				summary.LastMessageAt = &createdAt
				summary.LastMessageFrom = latest.SenderID
				summary.Unread = true
				if m.reads != nil {
					if read, err := m.reads.Get(match.ID, viewerID); err == nil {
						summary.Unread = latest.CreatedAt.After(read.LastReadAt)
					}
				}
			}
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MockMessageRepository is an in-memory message store for tests.
type MockMessageRepository struct {
	messages map[uint]*models.Message
	nextID   uint
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{
		messages: make(map[uint]*models.Message),
		nextID:   1,
	}
}

func (m *MockMessageRepository) Create(message *models.Message) error {
	if message.ID == 0 {
		message.ID = m.nextID
		m.nextID++
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	m.messages[message.ID] = message
	return nil
}

func (m *MockMessageRepository) FindByID(id uint) (*models.Message, error) {
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return nil, errNotFound
}

func (m *MockMessageRepository) ListByMatch(matchID uint, limit int) ([]models.Message, error) {
	var out []models.Message
	for _, msg := range m.messages {
		if msg.MatchID == matchID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *MockMessageRepository) LatestByMatch(matchID uint) (*models.Message, error) {
	var latest *models.Message
	for _, msg := range m.messages {
		if msg.MatchID != matchID {
			continue
		}
		if latest == nil || msg.CreatedAt.After(latest.CreatedAt) ||
			(msg.CreatedAt.Equal(latest.CreatedAt) && msg.ID > latest.ID) {
			latest = msg
		}
	}
	if latest == nil {
		return nil, errNotFound
	}
	return latest, nil
}

// MockMatchReadRepository is an in-memory read-marker store for tests.
type MockMatchReadRepository struct {
	reads map[[2]uint]time.Time // [matchID, userID] -> last read
}

func NewMockMatchReadRepository() *MockMatchReadRepository {
	return &MockMatchReadRepository{reads: make(map[[2]uint]time.Time)}
}

func (m *MockMatchReadRepository) UpsertMonotonic(matchID, userID uint, readAt time.Time) error {
	key := [2]uint{matchID, userID}
	if current, ok := m.reads[key]; ok && current.After(readAt) {
		return nil
	}
	m.reads[key] = readAt
	return nil
}

func (m *MockMatchReadRepository) Get(matchID, userID uint) (*models.MatchRead, error) {
	key := [2]uint{matchID, userID}
	readAt, ok := m.reads[key]
	if !ok {
		return nil, errNotFound
	}
	return &models.MatchRead{
		MatchID:    matchID,
		UserID:     userID,
		LastReadAt: readAt,
	}, nil
}

// MockRefreshTokenRepository is an in-memory refresh token store for tests.
type MockRefreshTokenRepository struct {
	tokens map[string]*models.RefreshToken
}

func NewMockRefreshTokenRepository() *MockRefreshTokenRepository {
	return &MockRefreshTokenRepository{tokens: make(map[string]*models.RefreshToken)}
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *MockRefreshTokenRepository) FindValidByHash(tokenHash string) (*models.RefreshToken, error) {
	token, ok := m.tokens[tokenHash]
	if !ok || token.IsRevoked() || time.Now().After(token.ExpiresAt) {
		return nil, errNotFound
	}
	return token, nil
}

func (m *MockRefreshTokenRepository) RevokeByHash(tokenHash string) error {
	if token, ok := m.tokens[tokenHash]; ok {
		now := time.Now()
		token.RevokedAt = &now
	}
	return nil
}

func (m *MockRefreshTokenRepository) RevokeAllForUser(userID uint) error {
	now := time.Now()
	for _, token := range m.tokens {
		if token.UserID == userID && !token.IsRevoked() {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (m *MockRefreshTokenRepository) DeleteExpired(before time.Time) (int64, error) {
	var n int64
	for hash, token := range m.tokens {
		if token.ExpiresAt.Before(before) || token.IsRevoked() {
			delete(m.tokens, hash)
			n++
		}
	}
	return n, nil
}

// MockOneTimeTokenRepository is an in-memory one-time token store for tests.
type MockOneTimeTokenRepository struct {
	tokens map[string]*models.OneTimeToken
	nextID uint
}

func NewMockOneTimeTokenRepository() *MockOneTimeTokenRepository {
	return &MockOneTimeTokenRepository{
		tokens: make(map[string]*models.OneTimeToken),
		nextID: 1,
	}
}

func (m *MockOneTimeTokenRepository) Create(token *models.OneTimeToken) error {
	if token.ID == 0 {
		token.ID = m.nextID
		m.nextID++
	}
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *MockOneTimeTokenRepository) FindValidByHash(tokenHash string, purpose models.TokenPurpose) (*models.OneTimeToken, error) {
	token, ok := m.tokens[tokenHash]
	if !ok || token.Purpose != purpose || token.IsConsumed() || time.Now().After(token.ExpiresAt) {
		return nil, errNotFound
	}
	return token, nil
}

func (m *MockOneTimeTokenRepository) Consume(id uint, at time.Time) error {
	for _, token := range m.tokens {
		if token.ID == id && !token.IsConsumed() {
			token.ConsumedAt = &at
		}
	}
	return nil
}

func (m *MockOneTimeTokenRepository) DeleteExpired(before time.Time) (int64, error) {
	var n int64
	for hash, token := range m.tokens {
		if token.ExpiresAt.Before(before) || token.IsConsumed() {
			delete(m.tokens, hash)
			n++
		}
	}
	return n, nil
}
