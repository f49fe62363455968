package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liverool/volleymate/internal/cache"
	"github.com/liverool/volleymate/internal/handlers/ws"
	"github.com/liverool/volleymate/internal/httpx"
	"github.com/liverool/volleymate/internal/models"
	"github.com/liverool/volleymate/internal/service"
)

type MatchHandler struct {
	matchService   *service.MatchService
	messageService *service.MessageService
	matchCache     *cache.MatchCache
	hub            *ws.Hub
}

func NewMatchHandler(matchService *service.MatchService, messageService *service.MessageService, matchCache *cache.MatchCache, hub *ws.Hub) *MatchHandler {
	return &MatchHandler{
		matchService:   matchService,
		messageService: messageService,
		matchCache:     matchCache,
		hub:            hub,
	}
}

// ListMatches returns the viewer's matches with last-message preview and
// unread flag. The list is cached briefly; any message or read-marker
// write invalidates it.
func (h *MatchHandler) ListMatches(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	if summaries, ok := h.matchCache.GetMatchList(userID); ok {
		return c.JSON(fiber.Map{"matches": summaries, "cached": true})
	}

	limit := c.QueryInt("limit", 100)
	summaries, err := h.matchService.ListMatches(userID, limit)
	if err != nil {
		return httpx.Internal(c, "list_failed")
	}

	_ = h.matchCache.SetMatchList(userID, summaries)

	return c.JSON(fiber.Map{"matches": summaries})
}

func (h *MatchHandler) GetMatch(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	matchID, err := c.ParamsInt("id")
	if err != nil || matchID <= 0 {
		return httpx.BadRequest(c, "invalid_match_id", "Invalid match ID")
	}

	match, err := h.matchService.GetMatch(userID, uint(matchID))
	if err != nil {
		return matchError(c, err, "get_failed")
	}

	return c.JSON(match)
}

// GetMessages returns the chat history, oldest first.
func (h *MatchHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	matchID, err := c.ParamsInt("id")
	if err != nil || matchID <= 0 {
		return httpx.BadRequest(c, "invalid_match_id", "Invalid match ID")
	}

	// Party check always runs against the service; only the row fetch is
	// skipped on a cache hit.
	if _, err := h.matchService.GetMatch(userID, uint(matchID)); err != nil {
		return matchError(c, err, "get_failed")
	}

	if cached, ok := h.matchCache.GetHistory(uint(matchID)); ok {
		return c.JSON(fiber.Map{"messages": toMessageResponses(cached), "cached": true})
	}

	limit := c.QueryInt("limit", 200)
	messages, err := h.messageService.History(userID, uint(matchID), limit)
	if err != nil {
		return matchError(c, err, "history_failed")
	}
	_ = h.matchCache.SetHistory(uint(matchID), messages)

	return c.JSON(fiber.Map{"messages": toMessageResponses(messages)})
}

// PostMessage stores a chat message and fans it out to the match room.
func (h *MatchHandler) PostMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	matchID, err := c.ParamsInt("id")
	if err != nil || matchID <= 0 {
		return httpx.BadRequest(c, "invalid_match_id", "Invalid match ID")
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	message, err := h.messageService.Send(userID, uint(matchID), input.Content)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			return httpx.BadRequest(c, "empty_message", err.Error())
		}
		return matchError(c, err, "send_failed")
	}

	h.matchCache.InvalidateHistory(uint(matchID))
	if match, err := h.matchService.GetMatch(userID, uint(matchID)); err == nil {
		h.matchCache.InvalidateMatchList(match.OwnerUserID, match.InterestedUserID)
	}

	if h.hub != nil {
		h.hub.PublishToMatch(uint(matchID), fiber.Map{
			"type":    "chat",
			"message": message.ToResponse(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(message.ToResponse())
}

// MarkRead advances the viewer's read marker for the match.
func (h *MatchHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	matchID, err := c.ParamsInt("id")
	if err != nil || matchID <= 0 {
		return httpx.BadRequest(c, "invalid_match_id", "Invalid match ID")
	}

	if err := h.messageService.MarkRead(userID, uint(matchID)); err != nil {
		return matchError(c, err, "read_failed")
	}

	h.matchCache.InvalidateMatchList(userID)

	return c.JSON(fiber.Map{"message": "marked read"})
}

func matchError(c *fiber.Ctx, err error, fallbackCode string) error {
	switch {
	case errors.Is(err, service.ErrMatchNotFound):
		return httpx.NotFound(c, "match_not_found", "Match not found")
	case errors.Is(err, service.ErrNotParty):
		return httpx.Forbidden(c, "not_party", "Not a party to this match")
	}
	return httpx.Internal(c, fallbackCode)
}

func toMessageResponses(messages []models.Message) []models.MessageResponse {
	responses := make([]models.MessageResponse, len(messages))
	for i := range messages {
		responses[i] = messages[i].ToResponse()
	}
	return responses
}
