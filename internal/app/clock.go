package app

import (
	"time"

	"manaclock/internal/domain"
)

// tickInterval is the chess clock cadence.
const tickInterval = 100 * time.Millisecond

// Clock tracks per-player remaining time. Only the active player's time
// runs down; the increment semantics follow the configured clock mode.
// Clock is plain state guarded by the Service mutex.
type Clock struct {
	remaining    []time.Duration
	usedThisTurn time.Duration
	allotment    time.Duration
	increment    time.Duration
	mode         domain.ClockMode
}

// NewClock creates a clock for the given roster size.
func NewClock(players int, settings domain.GameSettings) *Clock {
	c := &Clock{}
	c.Configure(settings)
	c.Reset(players)
	return c
}

// Configure applies the settings-derived parameters without touching
// accumulated times.
func (c *Clock) Configure(settings domain.GameSettings) {
	c.allotment = time.Duration(settings.ChessClockMinutes) * time.Minute
	c.increment = time.Duration(settings.TimeIncrement) * time.Second
	c.mode = settings.ChessClockMode
}

// Reset gives every player a fresh allotment.
func (c *Clock) Reset(players int) {
	c.remaining = make([]time.Duration, players)
	for i := range c.remaining {
		c.remaining[i] = c.allotment
	}
	c.usedThisTurn = 0
}

// Resize tracks roster changes: new players get a fresh allotment,
// removed slots are dropped. Existing players keep their accumulated time.
func (c *Clock) Resize(players int) {
	for len(c.remaining) < players {
		c.remaining = append(c.remaining, c.allotment)
	}
	if len(c.remaining) > players {
		c.remaining = c.remaining[:players]
	}
}

// Tick burns one interval from the active player's time and reports
// whether it just reached zero.
func (c *Clock) Tick(active int) bool {
	if active < 0 || active >= len(c.remaining) {
		return false
	}
	if c.remaining[active] == 0 {
		return false
	}
	c.remaining[active] -= tickInterval
	c.usedThisTurn += tickInterval
	if c.remaining[active] <= 0 {
		c.remaining[active] = 0
		return true
	}
	return false
}

// TurnEnded credits the outgoing player per the clock mode and starts
// accounting for the next turn.
func (c *Clock) TurnEnded(outgoing int) {
	defer func() { c.usedThisTurn = 0 }()
	if outgoing < 0 || outgoing >= len(c.remaining) {
		return
	}
	switch c.mode {
	case domain.ClockFischer:
		c.remaining[outgoing] += c.increment
	case domain.ClockBronstein:
		refund := c.usedThisTurn
		if refund > c.increment {
			refund = c.increment
		}
		c.remaining[outgoing] += refund
	}
}

// RemainingMillis returns a copy of every player's remaining time in
// milliseconds.
func (c *Clock) RemainingMillis() []int64 {
	out := make([]int64, len(c.remaining))
	for i, d := range c.remaining {
		out[i] = d.Milliseconds()
	}
	return out
}
