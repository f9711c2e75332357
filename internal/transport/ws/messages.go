package ws

import (
	"encoding/json"
	"time"

	"manaclock/internal/app"
	"manaclock/internal/domain"
)

// MessageType represents the type of WebSocket message.
type MessageType string

// Client → Server message types
const (
	MsgNextTurn           MessageType = "next_turn"
	MsgAdvancePhantomTurn MessageType = "advance_phantom_turn"
	MsgUpdatePlayer       MessageType = "update_player"
	MsgAddLand            MessageType = "add_land"
	MsgRemoveLand         MessageType = "remove_land"
	MsgToggleLand         MessageType = "toggle_land"
	MsgAdjustMana         MessageType = "adjust_mana"
	MsgSetDisplayedPlayer MessageType = "set_displayed_player"
	MsgPauseClock         MessageType = "pause_clock"
	MsgResumeClock        MessageType = "resume_clock"
	MsgPing               MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected MessageType = "connected"
	MsgEvent     MessageType = "event"
	MsgError     MessageType = "error"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client.
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp.
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// UpdatePlayerPayload is the payload for update_player.
type UpdatePlayerPayload struct {
	PlayerID int                `json:"playerId"`
	Patch    domain.PlayerPatch `json:"patch"`
}

// AddLandPayload is the payload for add_land.
type AddLandPayload struct {
	PlayerID int              `json:"playerId"`
	Type     string           `json:"type"`
	Produces domain.ManaColor `json:"produces,omitempty"`
}

// RemoveLandPayload is the payload for remove_land.
type RemoveLandPayload struct {
	PlayerID int    `json:"playerId"`
	Type     string `json:"type"`
}

// ToggleLandPayload is the payload for toggle_land.
type ToggleLandPayload struct {
	PlayerID int   `json:"playerId"`
	LandID   int64 `json:"landId"`
}

// AdjustManaPayload is the payload for adjust_mana.
type AdjustManaPayload struct {
	PlayerID int              `json:"playerId"`
	Color    domain.ManaColor `json:"color"`
	Delta    int              `json:"delta"`
}

// SetDisplayedPlayerPayload is the payload for set_displayed_player.
type SetDisplayedPlayerPayload struct {
	Index int `json:"index"`
}

// Server message payloads

// ConnectedPayload is the payload for the connected message.
type ConnectedPayload struct {
	ClientID string           `json:"clientId"`
	State    app.StatePayload `json:"state"`
}

// ErrorPayload is the payload for the error message.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeInvalidAction  = "INVALID_ACTION"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
