package ws

import (
	"errors"
	"time"

	"github.com/liverool/volleymate/internal/service"
)

// MessageSubscribe joins the client to a match room. Only the two match
// parties may subscribe.
type MessageSubscribe struct {
	MatchID uint `json:"match_id"`
}

func (msg *MessageSubscribe) GetType() string {
	return "subscribe"
}

func (msg *MessageSubscribe) Process(ctx *MessageContext) error {
	if _, err := ctx.MatchService.GetMatch(ctx.UserID, msg.MatchID); err != nil {
		if errors.Is(err, service.ErrNotParty) || errors.Is(err, service.ErrMatchNotFound) {
			return SendError(ctx.Conn, "not_party", "Not a party to this match", "")
		}
		return err
	}

	ctx.Hub.Subscribe(ctx.UserID, msg.MatchID)
	return ctx.Conn.WriteJSON(map[string]interface{}{
		"type":     "subscribed",
		"match_id": msg.MatchID,
	})
}

// MessageUnsubscribe leaves a match room
type MessageUnsubscribe struct {
	MatchID uint `json:"match_id"`
}

func (msg *MessageUnsubscribe) GetType() string {
	return "unsubscribe"
}

func (msg *MessageUnsubscribe) Process(ctx *MessageContext) error {
	ctx.Hub.Unsubscribe(ctx.UserID, msg.MatchID)
	return ctx.Conn.WriteJSON(map[string]interface{}{
		"type":     "unsubscribed",
		"match_id": msg.MatchID,
	})
}

// MessageChat sends a chat message into a match. The message is persisted
// first, then fanned out to everyone in the room, sender included, so all
// clients converge on the stored row.
type MessageChat struct {
	MatchID uint   `json:"match_id"`
	Content string `json:"content"`
}

func (msg *MessageChat) GetType() string {
	return "chat"
}

func (msg *MessageChat) Process(ctx *MessageContext) error {
	stored, err := ctx.MessageService.Send(ctx.UserID, msg.MatchID, msg.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			return SendError(ctx.Conn, "empty_message", "Message content is empty", "")
		case errors.Is(err, service.ErrNotParty), errors.Is(err, service.ErrMatchNotFound):
			return SendError(ctx.Conn, "not_party", "Not a party to this match", "")
		}
		return err
	}

	if match, err := ctx.MatchService.GetMatch(ctx.UserID, msg.MatchID); err == nil {
		ctx.MatchCache.InvalidateHistory(msg.MatchID)
		ctx.MatchCache.InvalidateMatchList(match.OwnerUserID, match.InterestedUserID)
	}

	ctx.Hub.PublishToMatch(msg.MatchID, map[string]interface{}{
		"type":    "chat",
		"message": stored.ToResponse(),
	})
	return nil
}

// MessageRead advances the sender's read marker and tells the room, so
// the counterpart can render a seen indicator.
type MessageRead struct {
	MatchID uint `json:"match_id"`
}

func (msg *MessageRead) GetType() string {
	return "read"
}

func (msg *MessageRead) Process(ctx *MessageContext) error {
	if err := ctx.MessageService.MarkRead(ctx.UserID, msg.MatchID); err != nil {
		if errors.Is(err, service.ErrNotParty) || errors.Is(err, service.ErrMatchNotFound) {
			return SendError(ctx.Conn, "not_party", "Not a party to this match", "")
		}
		return err
	}

	ctx.MatchCache.InvalidateMatchList(ctx.UserID)

	ctx.Hub.PublishToMatch(msg.MatchID, map[string]interface{}{
		"type":     "read",
		"match_id": msg.MatchID,
		"user_id":  ctx.UserID,
		"read_at":  time.Now().UTC(),
	})
	return nil
}
