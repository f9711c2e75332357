package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"manaclock/internal/app"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection.
type Client struct {
	conn     *websocket.Conn
	service  *app.Service
	clientID string
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client.
func NewClient(conn *websocket.Conn, service *app.Service, clientID string, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		service:  service,
		clientID: clientID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// ID implements app.Client.
func (c *Client) ID() string {
	return c.clientID
}

// Send implements app.Client.
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "clientId", c.clientID)
		return nil
	}
}

// Close implements app.Client.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection.
func (c *Client) readPump() {
	defer func() {
		c.service.UnregisterClient(c.clientID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client.
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgNextTurn:
		c.service.NextTurn()
	case MsgAdvancePhantomTurn:
		c.service.AdvancePhantomTurn()
	case MsgUpdatePlayer:
		c.handleUpdatePlayer(msg.Payload)
	case MsgAddLand:
		c.handleAddLand(msg.Payload)
	case MsgRemoveLand:
		c.handleRemoveLand(msg.Payload)
	case MsgToggleLand:
		c.handleToggleLand(msg.Payload)
	case MsgAdjustMana:
		c.handleAdjustMana(msg.Payload)
	case MsgSetDisplayedPlayer:
		c.handleSetDisplayedPlayer(msg.Payload)
	case MsgPauseClock:
		c.service.SetTimerRunning(false)
	case MsgResumeClock:
		c.service.SetTimerRunning(true)
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleUpdatePlayer handles an update_player message.
func (c *Client) handleUpdatePlayer(data json.RawMessage) {
	var payload UpdatePlayerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}
	c.service.UpdatePlayer(payload.PlayerID, payload.Patch)
}

// handleAddLand handles an add_land message.
func (c *Client) handleAddLand(data json.RawMessage) {
	var payload AddLandPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}
	c.service.AddLand(payload.PlayerID, payload.Type, payload.Produces)
}

// handleRemoveLand handles a remove_land message.
func (c *Client) handleRemoveLand(data json.RawMessage) {
	var payload RemoveLandPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}
	c.service.RemoveLandByType(payload.PlayerID, payload.Type)
}

// handleToggleLand handles a toggle_land message.
func (c *Client) handleToggleLand(data json.RawMessage) {
	var payload ToggleLandPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}
	c.service.ToggleLand(payload.PlayerID, payload.LandID)
}

// handleAdjustMana handles an adjust_mana message.
func (c *Client) handleAdjustMana(data json.RawMessage) {
	var payload AdjustManaPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}
	if !payload.Color.IsValid() {
		c.sendError(ErrCodeInvalidAction, "Unknown mana color")
		return
	}
	c.service.AdjustMana(payload.PlayerID, payload.Color, payload.Delta)
}

// handleSetDisplayedPlayer handles a set_displayed_player message.
func (c *Client) handleSetDisplayedPlayer(data json.RawMessage) {
	var payload SetDisplayedPlayerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}
	c.service.SetDisplayedPlayerIndex(payload.Index)
}

// sendConnected sends the connected message with the full session state.
func (c *Client) sendConnected() {
	payload := &ConnectedPayload{
		ClientID: c.clientID,
		State:    c.service.State(),
	}
	c.Send(NewServerMessage(MsgConnected, payload))
}

// sendError sends an error message to the client.
func (c *Client) sendError(code, message string) {
	payload := &ErrorPayload{
		Code:    code,
		Message: message,
	}
	c.Send(NewServerMessage(MsgError, payload))
}

// sendPong sends a pong message in response to ping.
func (c *Client) sendPong() {
	c.Send(NewServerMessage(MsgPong, nil))
}
