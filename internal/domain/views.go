package domain

// Derived views are recomputed on every read rather than cached; they are
// cheap and can never go stale.

// Phase returns the externally observable state of the turn machine.
func (s *Session) Phase() Phase {
	switch {
	case !s.GameStarted:
		return PhaseNotStarted
	case !s.IsSinglePlayerMode:
		return PhaseMultiplayerTurn
	case s.IsPhantomPhase:
		return PhasePhantom
	default:
		return PhaseSinglePlayerTurn
	}
}

// IsPhantomTurn reports whether the session is currently inside the
// opponents' block in single-player mode.
func (s *Session) IsPhantomTurn() bool {
	return s.IsSinglePlayerMode &&
		(s.IsPhantomPhase || s.ActivePlayerIndex != s.ActualPlayerIndex)
}

// VisiblePlayers returns the players surfaced in the main turn-by-turn
// view: just the real player in single-player mode, everyone otherwise.
func (s *Session) VisiblePlayers() []Player {
	if !s.IsSinglePlayerMode {
		players := make([]Player, len(s.Players))
		for i := range s.Players {
			players[i] = s.Players[i].Clone()
		}
		return players
	}
	if s.ActualPlayerIndex < 0 || s.ActualPlayerIndex >= len(s.Players) {
		return nil
	}
	return []Player{s.Players[s.ActualPlayerIndex].Clone()}
}

// PhantomPlayers returns the complement of VisiblePlayers: the remote or
// AI-represented opponents in single-player mode, empty otherwise.
func (s *Session) PhantomPlayers() []Player {
	if !s.IsSinglePlayerMode {
		return nil
	}
	players := make([]Player, 0, len(s.Players))
	for i := range s.Players {
		if i != s.ActualPlayerIndex {
			players = append(players, s.Players[i].Clone())
		}
	}
	return players
}
