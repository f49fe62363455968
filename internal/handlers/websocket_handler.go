package handlers

import (
	"log"
	"os"

	"github.com/gofiber/websocket/v2"
	"github.com/liverool/volleymate/internal/cache"
	"github.com/liverool/volleymate/internal/handlers/ws"
	"github.com/liverool/volleymate/internal/service"
)

type WebSocketHandler struct {
	matchService   *service.MatchService
	messageService *service.MessageService
	matchCache     *cache.MatchCache
	hub            *ws.Hub
}

func NewWebSocketHandler(matchService *service.MatchService, messageService *service.MessageService, matchCache *cache.MatchCache) *WebSocketHandler {
	return &WebSocketHandler{
		matchService:   matchService,
		messageService: messageService,
		matchCache:     matchCache,
		hub:            ws.NewHub(),
	}
}

// GetHub returns the hub instance (useful for sending messages from other handlers)
func (h *WebSocketHandler) GetHub() *ws.Hub {
	return h.hub
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID := c.Locals("userID").(uint)
	wsDebug := os.Getenv("WS_DEBUG") == "true"

	// Check if client supports gzip compression (via query param or header)
	supportsGzip := c.Query("gzip") == "1" || c.Headers("X-Supports-Gzip") == "1"

	h.hub.Register(userID, c, supportsGzip)
	defer h.hub.Unregister(userID)

	log.Printf("User %d connected via WebSocket", userID)

	ctx := &ws.MessageContext{
		UserID:         userID,
		Conn:           c,
		Hub:            h.hub,
		MatchService:   h.matchService,
		MessageService: h.messageService,
		MatchCache:     h.matchCache,
	}

	for {
		messageType, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from user %d: %v", userID, err)
			break
		}

		if wsDebug {
			log.Printf("ws_recv user_id=%d frame_type=%d size=%d", userID, messageType, len(messageBytes))
		}

		// Decompress if binary message (gzip compressed)
		if messageType == websocket.BinaryMessage {
			decompressed, err := ws.DecompressMessage(messageBytes)
			if err != nil {
				log.Printf("Error decompressing message from user %d: %v", userID, err)
				ws.SendError(c, "decompression_failed", "Failed to decompress message", err.Error())
				continue
			}
			messageBytes = decompressed
		}

		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("Error deserializing message from user %d: %v", userID, err)
			ws.SendError(c, "invalid_message", "Invalid message format", err.Error())
			continue
		}

		if err := msg.Process(ctx); err != nil {
			log.Printf("Error processing message %s from user %d: %v", msg.GetType(), userID, err)
			ws.SendError(c, "processing_failed", "Failed to process message", err.Error())
		}
	}

	log.Printf("User %d disconnected from WebSocket", userID)
}
