package domain

// Phase describes the externally observable state of the turn machine. It
// is derived from the session flags rather than stored.
type Phase string

const (
	PhaseNotStarted       Phase = "NOT_STARTED"        // no active turn structure
	PhaseMultiplayerTurn  Phase = "MULTIPLAYER_TURN"   // one active player, cycling in array order
	PhaseSinglePlayerTurn Phase = "SINGLE_PLAYER_TURN" // the real player's turn
	PhasePhantom          Phase = "PHANTOM_PHASE"      // collapsed block of all opponents' turns
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}
