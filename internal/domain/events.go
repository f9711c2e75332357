package domain

import "time"

// EventType represents the type of session event.
type EventType string

const (
	EventGameStarted     EventType = "GAME_STARTED"
	EventGameEnded       EventType = "GAME_ENDED"
	EventGameReset       EventType = "GAME_RESET"
	EventGameContinued   EventType = "GAME_CONTINUED"
	EventTurnAdvanced    EventType = "TURN_ADVANCED"
	EventPhantomAdvanced EventType = "PHANTOM_ADVANCED"
	EventPlayerAdded     EventType = "PLAYER_ADDED"
	EventPlayerRemoved   EventType = "PLAYER_REMOVED"
	EventPlayerUpdated   EventType = "PLAYER_UPDATED"
	EventViewChanged     EventType = "VIEW_CHANGED"
	EventSettingsUpdated EventType = "SETTINGS_UPDATED"
	EventClockTick       EventType = "CLOCK_TICK"
	EventClockExpired    EventType = "CLOCK_EXPIRED"
	EventStorageWarning  EventType = "STORAGE_WARNING"
)

// Event represents something that happened to the session, broadcast to
// every connected presentation client.
type Event struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new session event.
func NewEvent(eventType EventType, payload interface{}) *Event {
	return &Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// ClockPayload carries the chess clock state: remaining milliseconds per
// player, indexed like the roster.
type ClockPayload struct {
	RemainingMillis []int64 `json:"remainingMillis"`
	Running         bool    `json:"running"`
	ActiveIndex     int     `json:"activeIndex"`
	Suspended       bool    `json:"suspended"` // true during the phantom phase
}

// StorageWarningPayload is sent when a persistence write fails. The
// in-memory session stays authoritative; play continues.
type StorageWarningPayload struct {
	Message string `json:"message"`
}
