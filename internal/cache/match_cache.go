package cache

import (
	"fmt"
	"time"

	"github.com/liverool/volleymate/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// TTL constants for different cache types
const (
	MatchListTTL = 30 * time.Second
	HistoryTTL   = 2 * time.Minute
)

// MatchCache handles match-list and chat-history caching. All operations
// are nil-safe so the app runs unchanged without Redis.
type MatchCache struct {
	redis *RedisCache
}

// NewMatchCache creates a new match cache
func NewMatchCache(redis *RedisCache) *MatchCache {
	return &MatchCache{redis: redis}
}

func matchListKey(userID uint) string {
	return fmt.Sprintf("matches:%d", userID)
}

func historyKey(matchID uint) string {
	return fmt.Sprintf("chat:%d", matchID)
}

// GetMatchList retrieves a cached match list for a viewer
func (mc *MatchCache) GetMatchList(userID uint) ([]models.MatchSummary, bool) {
	if mc == nil || mc.redis == nil {
		return nil, false
	}
	data, err := mc.redis.Get(matchListKey(userID))
	if err != nil || data == nil {
		return nil, false
	}

	var summaries []models.MatchSummary
	if err := msgpack.Unmarshal(data, &summaries); err != nil {
		return nil, false
	}
	return summaries, true
}

// SetMatchList caches a viewer's match list
func (mc *MatchCache) SetMatchList(userID uint, summaries []models.MatchSummary) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(summaries)
	if err != nil {
		return err
	}
	return mc.redis.Set(matchListKey(userID), data, MatchListTTL)
}

// InvalidateMatchList drops both parties' cached lists. Called whenever a
// message lands or a read marker moves, since either changes the preview
// and unread state.
func (mc *MatchCache) InvalidateMatchList(userIDs ...uint) {
	if mc == nil || mc.redis == nil {
		return
	}
	for _, id := range userIDs {
		_ = mc.redis.Delete(matchListKey(id))
	}
}

// GetHistory retrieves cached chat history for a match
func (mc *MatchCache) GetHistory(matchID uint) ([]models.Message, bool) {
	if mc == nil || mc.redis == nil {
		return nil, false
	}
	data, err := mc.redis.Get(historyKey(matchID))
	if err != nil || data == nil {
		return nil, false
	}

	var messages []models.Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

// SetHistory caches chat history for a match
func (mc *MatchCache) SetHistory(matchID uint, messages []models.Message) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}
	return mc.redis.Set(historyKey(matchID), data, HistoryTTL)
}

// InvalidateHistory drops the cached history after a new message
func (mc *MatchCache) InvalidateHistory(matchID uint) {
	if mc == nil || mc.redis == nil {
		return
	}
	_ = mc.redis.Delete(historyKey(matchID))
}
