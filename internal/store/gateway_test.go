package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"manaclock/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSession(t *testing.T) *domain.Session {
	t.Helper()
	s := domain.NewSession(domain.DefaultGameSettings())
	players := []domain.Player{
		domain.NewPlayer(1, 40),
		domain.NewPlayer(2, 40),
		domain.NewPlayer(3, 40),
	}
	players[1].Lands = []domain.Land{domain.NewLand(7, domain.LandForest, domain.ManaGreen)}
	players[2].IsPhantom = true
	if err := s.Start(players, true, 1); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.NextTurn()
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	session := testSession(t)

	snap := NewSnapshot(session)
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	loaded, err := s.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}

	if !reflect.DeepEqual(loaded.Players, snap.Players) {
		t.Errorf("players round-trip mismatch:\n got %+v\nwant %+v", loaded.Players, snap.Players)
	}
	if loaded.ActivePlayerIndex != snap.ActivePlayerIndex ||
		loaded.DisplayedPlayerIndex != snap.DisplayedPlayerIndex ||
		loaded.ActualPlayerIndex != snap.ActualPlayerIndex {
		t.Errorf("index round-trip mismatch: got %d/%d/%d, want %d/%d/%d",
			loaded.ActivePlayerIndex, loaded.DisplayedPlayerIndex, loaded.ActualPlayerIndex,
			snap.ActivePlayerIndex, snap.DisplayedPlayerIndex, snap.ActualPlayerIndex)
	}
	if loaded.IsSinglePlayerMode != snap.IsSinglePlayerMode || loaded.IsPhantomPhase != snap.IsPhantomPhase {
		t.Errorf("mode flags round-trip mismatch: got %v/%v, want %v/%v",
			loaded.IsSinglePlayerMode, loaded.IsPhantomPhase,
			snap.IsSinglePlayerMode, snap.IsPhantomPhase)
	}
	if loaded.Timestamp != snap.Timestamp {
		t.Errorf("timestamp = %d, want %d", loaded.Timestamp, snap.Timestamp)
	}
}

func TestLoadSnapshotDegradesToNoSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	corrupt := func(value string) {
		t.Helper()
		if err := s.put(ctx, sessionStateKey, []byte(value)); err != nil {
			t.Fatalf("put() error = %v", err)
		}
	}

	tests := []struct {
		name  string
		setup func()
	}{
		{"missing record", func() {
			if err := s.ClearSnapshot(ctx); err != nil {
				t.Fatalf("ClearSnapshot() error = %v", err)
			}
		}},
		{"malformed json", func() { corrupt(`{"players": [`) }},
		{"unrecognized future version", func() { corrupt(`{"version": 99, "players": [{"id": 1}]}`) }},
		{"empty roster", func() { corrupt(`{"version": 1, "players": []}`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			if _, err := s.LoadSnapshot(ctx); !errors.Is(err, ErrNoSavedSession) {
				t.Errorf("LoadSnapshot() error = %v, want ErrNoSavedSession", err)
			}
		})
	}
}

func TestHasSavedSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if s.HasSavedSession(ctx) {
		t.Error("fresh store should report no saved session")
	}

	if err := s.SaveSnapshot(ctx, NewSnapshot(testSession(t))); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if !s.HasSavedSession(ctx) {
		t.Error("store should report a saved session after SaveSnapshot")
	}

	if err := s.ClearSnapshot(ctx); err != nil {
		t.Fatalf("ClearSnapshot() error = %v", err)
	}
	if s.HasSavedSession(ctx) {
		t.Error("store should report no saved session after ClearSnapshot")
	}
}

func TestClearSnapshotIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.ClearSnapshot(ctx); err != nil {
		t.Errorf("ClearSnapshot() on empty store error = %v", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved := domain.GameSettings{
		StartingLife:      30,
		ChessClockMinutes: 15,
		ChessClockMode:    domain.ClockFischer,
		TimeIncrement:     5,
	}
	if err := s.SaveSettings(ctx, saved); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	loaded := s.LoadSettings(ctx, domain.DefaultGameSettings())
	if loaded != saved {
		t.Errorf("LoadSettings() = %+v, want %+v", loaded, saved)
	}
}

func TestLoadSettingsMergesOverDefaults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	defaults := domain.DefaultGameSettings()

	// A record persisted before newer settings fields existed.
	if err := s.put(ctx, sessionSettingsKey, []byte(`{"startingLife": 20}`)); err != nil {
		t.Fatalf("put() error = %v", err)
	}

	loaded := s.LoadSettings(ctx, defaults)
	if loaded.StartingLife != 20 {
		t.Errorf("starting life = %d, want 20 from the record", loaded.StartingLife)
	}
	if loaded.ChessClockMinutes != defaults.ChessClockMinutes ||
		loaded.ChessClockMode != defaults.ChessClockMode ||
		loaded.TimeIncrement != defaults.TimeIncrement {
		t.Errorf("missing fields should come from defaults: got %+v", loaded)
	}
}

func TestLoadSettingsFallsBackOnBadRecord(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	defaults := domain.DefaultGameSettings()

	tests := []struct {
		name  string
		value string
	}{
		{"missing record", ""},
		{"malformed json", `not json`},
		{"invalid values ignored", `{"startingLife": -5, "chessClockMode": "blitz"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := s.put(ctx, sessionSettingsKey, []byte(tt.value)); err != nil {
					t.Fatalf("put() error = %v", err)
				}
			}
			if loaded := s.LoadSettings(ctx, defaults); loaded != defaults {
				t.Errorf("LoadSettings() = %+v, want defaults %+v", loaded, defaults)
			}
		})
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("Open(\"\") should fail")
	}
}
