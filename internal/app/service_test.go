package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"manaclock/internal/domain"
	"manaclock/internal/store"
)

func intPtr(v int) *int { return &v }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	gateway, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { gateway.Close() })
	return gateway
}

func newTestService(t *testing.T, gateway *store.Store) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(gateway, domain.DefaultGameSettings(), logger)
	t.Cleanup(svc.Close)
	return svc
}

func startThreePlayerGame(t *testing.T, svc *Service) {
	t.Helper()
	setups := []PlayerSetup{{Name: "Ana"}, {Name: "Ben"}, {Name: "Cleo"}}
	if err := svc.StartGame(setups, false, 0); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
}

func TestStartGameValidation(t *testing.T) {
	svc := newTestService(t, newTestStore(t))

	if err := svc.StartGame(nil, false, 0); !errors.Is(err, domain.ErrEmptyRoster) {
		t.Errorf("StartGame(nil) error = %v, want ErrEmptyRoster", err)
	}
	if err := svc.StartGame([]PlayerSetup{{}}, true, 3); !errors.Is(err, domain.ErrPositionOutOfRange) {
		t.Errorf("StartGame() error = %v, want ErrPositionOutOfRange", err)
	}
}

func TestStartGameBuildsRoster(t *testing.T) {
	svc := newTestService(t, newTestStore(t))

	setups := []PlayerSetup{{}, {Name: "Ben", ProfileID: "p-2"}, {}}
	if err := svc.StartGame(setups, true, 1); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	state := svc.State()
	players := state.Session.Players
	if players[0].Name != domain.DefaultPlayerName(1) {
		t.Errorf("unnamed slot = %q, want generated default", players[0].Name)
	}
	if players[1].Name != "Ben" || players[1].ProfileID != "p-2" {
		t.Errorf("player 1 = %q/%q, want Ben/p-2", players[1].Name, players[1].ProfileID)
	}
	if players[1].IsPhantom {
		t.Error("the real player must not be phantom")
	}
	if !players[0].IsPhantom || !players[2].IsPhantom {
		t.Error("every other slot should be phantom in single-player mode")
	}
	if state.Phase != domain.PhaseSinglePlayerTurn {
		t.Errorf("phase = %s, want %s", state.Phase, domain.PhaseSinglePlayerTurn)
	}
}

func TestIntentsWriteThroughToStorage(t *testing.T) {
	gateway := newTestStore(t)
	svc := newTestService(t, gateway)
	startThreePlayerGame(t, svc)

	svc.UpdatePlayer(2, domain.PlayerPatch{Life: intPtr(33)})
	svc.AddLand(2, domain.LandForest, "")
	svc.NextTurn()

	snap, err := gateway.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if snap.Players[1].Life != 33 {
		t.Errorf("persisted life = %d, want 33", snap.Players[1].Life)
	}
	if len(snap.Players[1].Lands) != 1 {
		t.Errorf("persisted lands = %d, want 1", len(snap.Players[1].Lands))
	}
	if snap.ActivePlayerIndex != 1 {
		t.Errorf("persisted active = %d, want 1", snap.ActivePlayerIndex)
	}
	if snap.Players[1].ManaPool[domain.ManaGreen] != 1 {
		t.Error("the turn-start mana fill should be part of the persisted snapshot")
	}
}

func TestNoPersistenceBeforeGameStart(t *testing.T) {
	gateway := newTestStore(t)
	svc := newTestService(t, gateway)

	svc.UpdatePlayer(1, domain.PlayerPatch{Life: intPtr(30)})
	svc.AddPlayer()

	if gateway.HasSavedSession(context.Background()) {
		t.Error("pre-game edits must not create a saved session")
	}
}

func TestEndGameKeepsSnapshotForResume(t *testing.T) {
	gateway := newTestStore(t)
	svc := newTestService(t, gateway)
	startThreePlayerGame(t, svc)
	svc.NextTurn()
	svc.EndGame()

	if !gateway.HasSavedSession(context.Background()) {
		t.Fatal("EndGame() must keep the snapshot")
	}

	svc.ContinueSavedGame()
	state := svc.State()
	if !state.Session.GameStarted {
		t.Error("continued session should be live")
	}
	if state.Session.ActivePlayerIndex != 1 {
		t.Errorf("continued active = %d, want 1", state.Session.ActivePlayerIndex)
	}
	if len(state.Session.Players) != 3 {
		t.Errorf("continued roster = %d, want 3", len(state.Session.Players))
	}
	if state.TimerRunning {
		t.Error("the clock must come back paused after a resume")
	}
}

func TestContinueSavedGameFallsBackToReset(t *testing.T) {
	svc := newTestService(t, newTestStore(t))

	svc.ContinueSavedGame()

	state := svc.State()
	if state.Session.GameStarted {
		t.Error("with no snapshot, continue should degrade to a fresh session")
	}
	if len(state.Session.Players) != 2 {
		t.Errorf("roster = %d, want fresh two-player setup", len(state.Session.Players))
	}
}

func TestResetGameClearsSnapshot(t *testing.T) {
	gateway := newTestStore(t)
	svc := newTestService(t, gateway)
	startThreePlayerGame(t, svc)

	svc.ResetGame()

	if gateway.HasSavedSession(context.Background()) {
		t.Error("ResetGame() must clear the saved session")
	}
	state := svc.State()
	if state.Session.GameStarted || len(state.Session.Players) != 2 {
		t.Errorf("post-reset started=%v players=%d, want fresh two-player setup",
			state.Session.GameStarted, len(state.Session.Players))
	}
}

func TestUpdateSettingsPersistsAcrossRestart(t *testing.T) {
	gateway := newTestStore(t)
	svc := newTestService(t, gateway)

	svc.UpdateSettings(domain.SettingsPatch{
		StartingLife:      intPtr(20),
		ChessClockMinutes: intPtr(10),
	})
	svc.Close()

	restarted := newTestService(t, gateway)
	settings := restarted.Settings()
	if settings.StartingLife != 20 || settings.ChessClockMinutes != 10 {
		t.Errorf("restarted settings = %+v, want the saved values", settings)
	}
	state := restarted.State()
	if state.Clock.RemainingMillis[0] != int64(10*time.Minute/time.Millisecond) {
		t.Errorf("clock allotment = %dms, want 10 minutes", state.Clock.RemainingMillis[0])
	}
}

func TestUpdateSettingsMidGameLeavesClockAlone(t *testing.T) {
	svc := newTestService(t, newTestStore(t))
	startThreePlayerGame(t, svc)

	before := svc.State().Clock.RemainingMillis
	svc.UpdateSettings(domain.SettingsPatch{ChessClockMinutes: intPtr(5)})
	after := svc.State().Clock.RemainingMillis

	if after[0] != before[0] {
		t.Errorf("mid-game settings change reset the clock: %d -> %d", before[0], after[0])
	}
}

func TestRosterChangeResizesClock(t *testing.T) {
	svc := newTestService(t, newTestStore(t))
	startThreePlayerGame(t, svc)

	svc.AddPlayer()
	if got := len(svc.State().Clock.RemainingMillis); got != 4 {
		t.Errorf("clock slots = %d, want 4 after AddPlayer", got)
	}

	svc.RemovePlayer(4)
	if got := len(svc.State().Clock.RemainingMillis); got != 3 {
		t.Errorf("clock slots = %d, want 3 after RemovePlayer", got)
	}
}

func TestTickClockPausedIsNoOp(t *testing.T) {
	svc := newTestService(t, newTestStore(t))
	startThreePlayerGame(t, svc)

	before := svc.State().Clock.RemainingMillis
	svc.tickClock()
	after := svc.State().Clock.RemainingMillis

	if after[0] != before[0] {
		t.Errorf("paused clock ticked: %d -> %d", before[0], after[0])
	}
}

func TestTickClockSuspendsDuringPhantomPhase(t *testing.T) {
	svc := newTestService(t, newTestStore(t))
	if err := svc.StartGame([]PlayerSetup{{}, {}, {}}, true, 0); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	svc.NextTurn() // into the phantom phase
	svc.SetTimerRunning(true)

	before := svc.State().Clock.RemainingMillis
	for i := 0; i < 5; i++ {
		svc.tickClock()
	}
	after := svc.State().Clock.RemainingMillis

	for i := range after {
		if after[i] != before[i] {
			t.Errorf("player %d lost time during the phantom phase: %d -> %d", i, before[i], after[i])
		}
	}
	if !svc.State().Session.IsPhantomPhase {
		t.Error("ticking must not end the phantom phase")
	}
}

func TestTickClockExpiryAdvancesTurn(t *testing.T) {
	svc := newTestService(t, newTestStore(t))
	startThreePlayerGame(t, svc)

	svc.mu.Lock()
	svc.timerRunning = true
	svc.clock.remaining[0] = tickInterval
	svc.mu.Unlock()

	svc.tickClock()

	state := svc.State()
	if state.Session.ActivePlayerIndex != 1 {
		t.Errorf("active = %d, want 1 after the clock ran out", state.Session.ActivePlayerIndex)
	}
	if state.Clock.RemainingMillis[0] != 0 {
		t.Errorf("expired player's remaining = %d, want 0", state.Clock.RemainingMillis[0])
	}
}

// fakeClient captures broadcast events for assertions.
type fakeClient struct {
	id       string
	received chan interface{}
}

func (f *fakeClient) ID() string { return f.id }
func (f *fakeClient) Send(message interface{}) error {
	select {
	case f.received <- message:
	default:
	}
	return nil
}
func (f *fakeClient) Close() error { return nil }

func TestEventsReachRegisteredClients(t *testing.T) {
	svc := newTestService(t, newTestStore(t))
	client := &fakeClient{id: "c1", received: make(chan interface{}, 16)}
	svc.RegisterClient(client)
	startThreePlayerGame(t, svc)

	select {
	case msg := <-client.received:
		event, ok := msg.(*domain.Event)
		if !ok {
			t.Fatalf("broadcast message type = %T, want *domain.Event", msg)
		}
		if event.Type != domain.EventGameStarted {
			t.Errorf("event type = %s, want %s", event.Type, domain.EventGameStarted)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event reached the client")
	}

	svc.UnregisterClient("c1")
	svc.NextTurn()
	// The unregistered client may still hold the game-started follow-ups,
	// so just verify the roster of registered clients shrank.
	svc.clientsMu.RLock()
	defer svc.clientsMu.RUnlock()
	if len(svc.clients) != 0 {
		t.Errorf("registered clients = %d, want 0", len(svc.clients))
	}
}
