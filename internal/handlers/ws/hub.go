package ws

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// ClientConnection wraps a WebSocket connection with metadata
type ClientConnection struct {
	Conn         *websocket.Conn
	UserID       uint
	LastPong     time.Time
	SupportsGzip bool
	PingTicker   *time.Ticker
	CloseChan    chan struct{}
}

// Hub manages all active WebSocket connections and the per-match chat
// rooms they subscribe to. A room member receives every event published
// for that match while subscribed.
type Hub struct {
	clients      map[uint]*ClientConnection
	rooms        map[uint]map[uint]struct{} // matchID -> set of userIDs
	mux          sync.RWMutex
	pingInterval time.Duration
	pongTimeout  time.Duration
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	hub := &Hub{
		clients:      make(map[uint]*ClientConnection),
		rooms:        make(map[uint]map[uint]struct{}),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
	}

	go hub.connectionHealthChecker()

	return hub
}

// Register adds a client connection with health monitoring
func (h *Hub) Register(userID uint, conn *websocket.Conn, supportsGzip bool) {
	clientConn := &ClientConnection{
		Conn:         conn,
		UserID:       userID,
		LastPong:     time.Now(),
		SupportsGzip: supportsGzip,
		PingTicker:   time.NewTicker(h.pingInterval),
		CloseChan:    make(chan struct{}),
	}

	conn.SetPongHandler(func(appData string) error {
		h.mux.Lock()
		if client, exists := h.clients[userID]; exists {
			client.LastPong = time.Now()
		}
		h.mux.Unlock()
		return nil
	})

	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.mux.Lock()
	h.clients[userID] = clientConn
	h.mux.Unlock()

	go h.pingRoutine(clientConn)

	log.Printf("User %d connected to hub (total: %d, gzip: %v)", userID, len(h.clients), supportsGzip)
}

// Unregister removes a client connection and all of its room subscriptions
func (h *Hub) Unregister(userID uint) {
	h.mux.Lock()
	if client, exists := h.clients[userID]; exists {
		if client.PingTicker != nil {
			client.PingTicker.Stop()
		}
		close(client.CloseChan)
	}
	delete(h.clients, userID)
	for matchID, members := range h.rooms {
		delete(members, userID)
		if len(members) == 0 {
			delete(h.rooms, matchID)
		}
	}
	count := len(h.clients)
	h.mux.Unlock()
	log.Printf("User %d disconnected from hub (total: %d)", userID, count)
}

// Subscribe adds the user to a match room. Party membership is checked by
// the caller before this point.
func (h *Hub) Subscribe(userID, matchID uint) {
	h.mux.Lock()
	defer h.mux.Unlock()
	if _, exists := h.clients[userID]; !exists {
		return
	}
	members, ok := h.rooms[matchID]
	if !ok {
		members = make(map[uint]struct{})
		h.rooms[matchID] = members
	}
	members[userID] = struct{}{}
}

// Unsubscribe removes the user from a match room
func (h *Hub) Unsubscribe(userID, matchID uint) {
	h.mux.Lock()
	defer h.mux.Unlock()
	if members, ok := h.rooms[matchID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(h.rooms, matchID)
		}
	}
}

// IsOnline checks if a user is connected
func (h *Hub) IsOnline(userID uint) bool {
	h.mux.RLock()
	defer h.mux.RUnlock()
	_, exists := h.clients[userID]
	return exists
}

// SendToUser sends data to a specific user with optional compression.
// Sending to an offline user is a no-op; chat state lives in the database
// and the history endpoint covers catch-up on reconnect.
func (h *Hub) SendToUser(userID uint, data interface{}) error {
	h.mux.RLock()
	clientConn, exists := h.clients[userID]
	h.mux.RUnlock()

	if !exists {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling data for user %d: %v", userID, err)
		return err
	}

	// Compress if supported and beneficial (> 512 bytes)
	var finalData []byte
	frameType := websocket.TextMessage
	if clientConn.SupportsGzip && len(jsonData) > 512 {
		compressed, err := compressData(jsonData)
		if err == nil && len(compressed) < len(jsonData) {
			finalData = compressed
			frameType = websocket.BinaryMessage
		} else {
			finalData = jsonData
		}
	} else {
		finalData = jsonData
	}

	if err := clientConn.Conn.WriteMessage(frameType, finalData); err != nil {
		log.Printf("Error sending message to user %d: %v", userID, err)
		h.Unregister(userID)
		return err
	}

	return nil
}

// PublishToMatch sends data to every user subscribed to the match room
func (h *Hub) PublishToMatch(matchID uint, data interface{}) {
	h.mux.RLock()
	members := make([]uint, 0, len(h.rooms[matchID]))
	for userID := range h.rooms[matchID] {
		members = append(members, userID)
	}
	h.mux.RUnlock()

	for _, userID := range members {
		if err := h.SendToUser(userID, data); err != nil {
			log.Printf("Error publishing to user %d in match %d: %v", userID, matchID, err)
		}
	}
}

// NotifyParties sends data directly to the given users whether or not they
// are subscribed to a room. Used for match-level events like approval.
func (h *Hub) NotifyParties(data interface{}, userIDs ...uint) {
	for _, userID := range userIDs {
		if err := h.SendToUser(userID, data); err != nil {
			log.Printf("Error notifying user %d: %v", userID, err)
		}
	}
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mux.RLock()
	defer h.mux.RUnlock()
	return len(h.clients)
}

// RoomSize returns the number of subscribers in a match room
func (h *Hub) RoomSize(matchID uint) int {
	h.mux.RLock()
	defer h.mux.RUnlock()
	return len(h.rooms[matchID])
}

// SubscriptionCount returns how many match rooms the user is in
func (h *Hub) SubscriptionCount(userID uint) int {
	h.mux.RLock()
	defer h.mux.RUnlock()
	count := 0
	for _, members := range h.rooms {
		if _, ok := members[userID]; ok {
			count++
		}
	}
	return count
}

// pingRoutine sends periodic ping messages to keep connection alive
func (h *Hub) pingRoutine(client *ClientConnection) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ping routine recovered from panic for user %d: %v", client.UserID, r)
		}
	}()

	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			h.mux.RLock()
			_, exists := h.clients[client.UserID]
			h.mux.RUnlock()

			if !exists {
				return
			}

			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				log.Printf("Ping failed for user %d: %v", client.UserID, err)
				h.Unregister(client.UserID)
				return
			}
		}
	}
}

// connectionHealthChecker monitors connection health and removes dead connections
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.mux.RLock()
		deadConnections := make([]uint, 0)
		now := time.Now()

		for userID, client := range h.clients {
			if now.Sub(client.LastPong) > h.pongTimeout {
				deadConnections = append(deadConnections, userID)
			}
		}
		h.mux.RUnlock()

		for _, userID := range deadConnections {
			log.Printf("Removing dead connection for user %d (no pong received)", userID)
			h.Unregister(userID)
		}
	}
}

// compressData compresses data using gzip
func compressData(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)

	if _, err := gzipWriter.Write(data); err != nil {
		return nil, err
	}

	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
