package domain

// ClockMode governs how the chess clock credits time on turn transitions.
type ClockMode string

const (
	// ClockStandard counts down with no increments.
	ClockStandard ClockMode = "standard"
	// ClockFischer adds the increment after every completed turn.
	ClockFischer ClockMode = "fischer"
	// ClockBronstein refunds time spent during the turn, up to the increment.
	ClockBronstein ClockMode = "bronstein"
)

// IsValid returns true if the mode is one of the known clock modes.
func (m ClockMode) IsValid() bool {
	switch m {
	case ClockStandard, ClockFischer, ClockBronstein:
		return true
	}
	return false
}

// GameSettings holds configurable session parameters.
type GameSettings struct {
	StartingLife      int       `json:"startingLife"`
	ChessClockMinutes int       `json:"chessClockMinutes"`
	ChessClockMode    ClockMode `json:"chessClockMode"`
	TimeIncrement     int       `json:"timeIncrement"` // seconds, used by fischer and bronstein
}

// DefaultGameSettings returns the default session settings.
func DefaultGameSettings() GameSettings {
	return GameSettings{
		StartingLife:      40,
		ChessClockMinutes: 25,
		ChessClockMode:    ClockStandard,
		TimeIncrement:     10,
	}
}

// SettingsPatch carries a partial settings update. Nil fields are left
// untouched.
type SettingsPatch struct {
	StartingLife      *int       `json:"startingLife,omitempty"`
	ChessClockMinutes *int       `json:"chessClockMinutes,omitempty"`
	ChessClockMode    *ClockMode `json:"chessClockMode,omitempty"`
	TimeIncrement     *int       `json:"timeIncrement,omitempty"`
}

// Apply merges the patch into the settings. Invalid values are ignored so
// a stale or malformed record can never corrupt the settings.
func (s *GameSettings) Apply(patch SettingsPatch) {
	if patch.StartingLife != nil && *patch.StartingLife > 0 {
		s.StartingLife = *patch.StartingLife
	}
	if patch.ChessClockMinutes != nil && *patch.ChessClockMinutes > 0 {
		s.ChessClockMinutes = *patch.ChessClockMinutes
	}
	if patch.ChessClockMode != nil && patch.ChessClockMode.IsValid() {
		s.ChessClockMode = *patch.ChessClockMode
	}
	if patch.TimeIncrement != nil && *patch.TimeIncrement >= 0 {
		s.TimeIncrement = *patch.TimeIncrement
	}
}
