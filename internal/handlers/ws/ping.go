package ws

// MessagePing is a keepalive ping from client
type MessagePing struct {
}

func (msg *MessagePing) GetType() string {
	return "ping"
}

// Process answers with a pong that echoes how many match rooms the client
// is currently in, so a reconnecting client can tell its subscriptions
// were lost.
func (msg *MessagePing) Process(ctx *MessageContext) error {
	return ctx.Conn.WriteJSON(map[string]interface{}{
		"type":  "pong",
		"rooms": ctx.Hub.SubscriptionCount(ctx.UserID),
	})
}

// MessagePong is a pong response (in case client wants to track latency)
type MessagePong struct {
}

func (msg *MessagePong) GetType() string {
	return "pong"
}

func (msg *MessagePong) Process(ctx *MessageContext) error {
	// No-op - just acknowledge
	return nil
}
