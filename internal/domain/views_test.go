package domain

import "testing"

func TestPhaseTransitions(t *testing.T) {
	s := NewSession(DefaultGameSettings())
	if got := s.Phase(); got != PhaseNotStarted {
		t.Errorf("Phase() = %s, want %s", got, PhaseNotStarted)
	}

	if err := s.Start(phantomRoster(3, 0, 40), true, 0); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := s.Phase(); got != PhaseSinglePlayerTurn {
		t.Errorf("Phase() = %s, want %s", got, PhaseSinglePlayerTurn)
	}

	s.NextTurn()
	if got := s.Phase(); got != PhasePhantom {
		t.Errorf("Phase() = %s, want %s", got, PhasePhantom)
	}
	if !s.IsPhantomTurn() {
		t.Error("IsPhantomTurn() = false inside the phantom phase")
	}

	s.End()
	if got := s.Phase(); got != PhaseNotStarted {
		t.Errorf("Phase() = %s after End(), want %s", got, PhaseNotStarted)
	}

	m := NewSession(DefaultGameSettings())
	if err := m.Start(roster(3, 40), false, 0); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := m.Phase(); got != PhaseMultiplayerTurn {
		t.Errorf("Phase() = %s, want %s", got, PhaseMultiplayerTurn)
	}
	if m.IsPhantomTurn() {
		t.Error("IsPhantomTurn() = true in multiplayer")
	}
}

func TestVisibleAndPhantomPlayers(t *testing.T) {
	t.Run("multiplayer shows everyone", func(t *testing.T) {
		s := NewSession(DefaultGameSettings())
		if err := s.Start(roster(3, 40), false, 0); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if got := len(s.VisiblePlayers()); got != 3 {
			t.Errorf("visible = %d, want 3", got)
		}
		if got := len(s.PhantomPlayers()); got != 0 {
			t.Errorf("phantom = %d, want 0", got)
		}
	})

	t.Run("single-player splits around the real player", func(t *testing.T) {
		s := NewSession(DefaultGameSettings())
		if err := s.Start(phantomRoster(4, 2, 40), true, 2); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		visible := s.VisiblePlayers()
		if len(visible) != 1 || visible[0].ID != s.Players[2].ID {
			t.Errorf("visible = %v, want just the real player", visible)
		}
		if got := len(s.PhantomPlayers()); got != 3 {
			t.Errorf("phantom = %d, want 3", got)
		}
	})
}
