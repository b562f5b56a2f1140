// Package server manages individual WebSocket clients, handling read/write
// pumps, rate limiting, and lifecycle control for each connection.
package server

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Client represents one authenticated WebSocket connection to the live chat.
// The user identity is resolved once at upgrade time and never changes for
// the lifetime of the connection.
type Client struct {
	conn           *websocket.Conn
	send           chan []byte
	hub            *Hub
	addr           string
	userID         string
	closed         bool
	maxMessageSize int64
	rateLimiter    *tokenBucket
	rateLimit      RateLimitConfig
}

// NewClient creates a new Client bound to the given authenticated user. The
// client's send channel is buffered to handle message queuing.
func NewClient(conn *websocket.Conn, hub *Hub, addr, userID string, cfg *Config) *Client {
	if conn != nil {
		conn.SetReadLimit(cfg.MaxMessageSize)
	}
	limiter := newTokenBucket(cfg.RateLimit)

	return &Client{
		conn:           conn,
		send:           make(chan []byte, 256),
		hub:            hub,
		addr:           addr,
		userID:         userID,
		closed:         false,
		maxMessageSize: cfg.MaxMessageSize,
		rateLimiter:    limiter,
		rateLimit:      cfg.RateLimit,
	}
}

// UserID returns the authenticated user identity bound to this connection.
func (c *Client) UserID() string {
	return c.userID
}

// GetSendChan returns the client's send channel for reading outgoing messages.
// This channel is read-only from the caller's perspective.
func (c *Client) GetSendChan() <-chan []byte {
	return c.send
}

// setupReadConnection configures read deadlines and pong handler for the WebSocket connection
func (c *Client) setupReadConnection() {
	if err := c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
		log.Error("error setting initial read deadline", "addr", c.addr, "err", err)
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
			log.Error("error setting read deadline in pong handler", "addr", c.addr, "err", err)
		}
		return nil
	})
}

// handleReadError logs appropriate error messages based on the error type
// and returns true if the read loop should break
func (c *Client) handleReadError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, websocket.ErrReadLimit) {
		log.Warn("message exceeded maximum size", "addr", c.addr, "max_bytes", c.maxMessageSize)
		return true
	}

	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure) {
		log.Info("client disconnected", "addr", c.addr, "err", err)
		return true
	}

	if errors.Is(err, io.EOF) || isExpectedCloseError(err) {
		log.Info("client connection closed", "addr", c.addr, "err", err)
		return true
	}

	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseMessageTooBig) {
		log.Error("unexpected WebSocket error", "addr", c.addr, "err", err)
		return true
	}

	log.Error("WebSocket read error", "addr", c.addr, "err", err)
	return true
}

// checkRateLimit verifies if the client has exceeded rate limits
// and returns true if the message should be processed
func (c *Client) checkRateLimit() bool {
	if c.rateLimiter != nil && !c.rateLimiter.allow() {
		log.Warn("rate limit exceeded; discarding frame",
			"addr", c.addr,
			"burst", c.rateLimit.Burst,
			"interval", c.rateLimit.RefillInterval)
		return false
	}
	return true
}

// processFrame validates one inbound frame, applies the command to the room
// store on behalf of this connection's user, and requests a fan-out of the
// affected room's state. Invalid frames are logged and dropped; the connection
// stays open and no error reaches the client.
func (c *Client) processFrame(rawMessage []byte) bool {
	cmd, err := ParseCommand(rawMessage)
	if err != nil {
		log.Warn("dropping invalid frame", "addr", c.addr, "err", err)
		return false
	}

	switch cmd.Type {
	case TypeAddChat:
		c.hub.store.AddChat(cmd.AddChat.RoomID, cmd.AddChat.Msg, c.userID)
		log.Debug("chat added", "room", cmd.AddChat.RoomID, "user", c.userID)
	case TypeUpVote:
		c.hub.store.UpVote(cmd.UpVote.RoomID, cmd.UpVote.ChatID, c.userID)
		log.Debug("chat upvoted", "room", cmd.UpVote.RoomID, "chat", cmd.UpVote.ChatID, "user", c.userID)
	}

	c.hub.broadcast <- BroadcastMessage{RoomID: cmd.RoomID()}
	return true
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		if err := c.conn.Close(); err != nil {
			if !isExpectedCloseError(err) {
				log.Error("error closing connection in readPump", "err", err)
			}
		}
	}()

	c.setupReadConnection()

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			if c.handleReadError(err) {
				break
			}
		}

		if !c.checkRateLimit() {
			continue
		}

		c.processFrame(rawMessage)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for c.processWriteEvent(ticker) {
	}
}

// processWriteEvent waits for the next write event and returns false when the
// pump should stop processing.
func (c *Client) processWriteEvent(ticker *time.Ticker) bool {
	select {
	case message, ok := <-c.send:
		return c.handleMessage(message, ok)
	case <-ticker.C:
		return c.handlePing()
	}
}

// closeConnection safely closes the WebSocket connection with proper error handling
func (c *Client) closeConnection() {
	if err := c.conn.Close(); err != nil {
		if !isExpectedCloseError(err) {
			log.Error("error closing connection in writePump", "err", err)
		}
	}
}

// handleMessage processes outgoing messages and returns false if the connection should be closed
func (c *Client) handleMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		log.Error("error setting write deadline", "addr", c.addr, "err", err)
		return false
	}

	if !ok {
		return c.writeCloseMessage()
	}

	return c.writeTextMessage(message)
}

// writeCloseMessage sends a close message to the client
func (c *Client) writeCloseMessage() bool {
	if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
		if !isExpectedCloseError(err) {
			log.Error("error writing close message", "addr", c.addr, "err", err)
		}
	}
	return false
}

// writeTextMessage delivers the broadcast payload and then flushes anything
// already queued behind it. Every payload is a complete JSON chat list, so
// each one goes out as its own text frame; payloads are never concatenated
// within a frame.
func (c *Client) writeTextMessage(message []byte) bool {
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		log.Error("error writing message", "addr", c.addr, "err", err)
		return false
	}

	return c.flushQueuedMessages()
}

// flushQueuedMessages drains payloads already queued on the send channel,
// writing each as a separate frame.
func (c *Client) flushQueuedMessages() bool {
	n := len(c.send)
	for i := 0; i < n; i++ {
		if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
			log.Error("error writing queued message", "addr", c.addr, "err", err)
			return false
		}
	}
	return true
}

// handlePing sends a ping message to keep the connection alive
func (c *Client) handlePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		log.Error("error setting write deadline for ping", "addr", c.addr, "err", err)
		return false
	}
	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		if !isExpectedCloseError(err) {
			log.Error("error writing ping message", "addr", c.addr, "err", err)
		}
		return false
	}
	return true
}
