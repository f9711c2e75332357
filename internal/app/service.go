package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"manaclock/internal/domain"
	"manaclock/internal/store"
)

// Client represents a connected presentation client.
type Client interface {
	Send(message interface{}) error
	ID() string
	Close() error
}

// PlayerSetup describes one roster slot for StartGame.
type PlayerSetup struct {
	Name      string `json:"name"`
	ProfileID string `json:"profileId,omitempty"`
}

// StatePayload is the full session view presentation renders from.
type StatePayload struct {
	Session        *domain.Session     `json:"session"`
	Phase          domain.Phase        `json:"phase"`
	IsPhantomTurn  bool                `json:"isPhantomTurn"`
	VisiblePlayers []domain.Player     `json:"visiblePlayers"`
	PhantomPlayers []domain.Player     `json:"phantomPlayers"`
	HasSavedGame   bool                `json:"hasSavedGame"`
	TimerRunning   bool                `json:"timerRunning"`
	Clock          domain.ClockPayload `json:"clock"`
}

// Service owns the session and is its sole writer. Every other component
// (transport, clock loop) reads state and submits intents; no one mutates
// session fields directly. Each intent is an atomic synchronous update
// followed by a write-through snapshot while the game is live.
type Service struct {
	mu           sync.RWMutex
	session      *domain.Session
	clock        *Clock
	timerRunning bool

	gateway *store.Store
	logger  *slog.Logger

	clients   map[string]Client
	clientsMu sync.RWMutex

	events chan *domain.Event
	done   chan struct{}
	once   sync.Once
}

// NewService loads persisted settings over the given defaults and starts
// the clock and broadcast loops.
func NewService(gateway *store.Store, defaults domain.GameSettings, logger *slog.Logger) *Service {
	settings := gateway.LoadSettings(context.Background(), defaults)
	s := &Service{
		session: domain.NewSession(settings),
		gateway: gateway,
		logger:  logger,
		clients: make(map[string]Client),
		events:  make(chan *domain.Event, 256),
		done:    make(chan struct{}),
	}
	s.clock = NewClock(len(s.session.Players), settings)

	go s.eventLoop()
	go s.clockLoop()
	return s
}

// State returns the current session view.
func (s *Service) State() StatePayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statePayloadLocked()
}

// HasSavedSession reports whether a resumable snapshot exists.
func (s *Service) HasSavedSession() bool {
	return s.gateway.HasSavedSession(context.Background())
}

// Settings returns the current settings.
func (s *Service) Settings() domain.GameSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Settings
}

// StartGame clears any previously persisted session and begins a new game
// with the given roster. In single-player mode all slots except
// playerPosition become phantom opponents.
func (s *Service) StartGame(setups []PlayerSetup, singlePlayer bool, playerPosition int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(setups) == 0 {
		return domain.ErrEmptyRoster
	}
	if playerPosition < 0 || playerPosition >= len(setups) {
		return domain.ErrPositionOutOfRange
	}

	players := make([]domain.Player, len(setups))
	for i, setup := range setups {
		player := domain.NewPlayer(i+1, s.session.Settings.StartingLife)
		if setup.Name != "" {
			player.Name = setup.Name
		}
		player.ProfileID = setup.ProfileID
		player.IsPhantom = singlePlayer && i != playerPosition
		players[i] = player
	}

	if err := s.gateway.ClearSnapshot(context.Background()); err != nil {
		s.logger.Warn("failed to clear saved session", "error", err)
	}

	if err := s.session.Start(players, singlePlayer, playerPosition); err != nil {
		return err
	}
	s.timerRunning = false
	s.clock.Configure(s.session.Settings)
	s.clock.Reset(len(players))

	s.persistLocked()
	s.queueEvent(domain.NewEvent(domain.EventGameStarted, s.statePayloadLocked()))
	s.logger.Info("game started",
		"players", len(players),
		"singlePlayer", singlePlayer,
		"playerPosition", playerPosition,
	)
	return nil
}

// NextTurn advances the turn.
func (s *Service) NextTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceTurnLocked(domain.EventTurnAdvanced)
}

// AdvancePhantomTurn collapses the remaining opponents' block and returns
// control to the real player. Outside the phantom phase it is a no-op.
func (s *Service) AdvancePhantomTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.AdvancePhantomTurn() {
		return
	}
	s.persistLocked()
	s.queueEvent(domain.NewEvent(domain.EventPhantomAdvanced, s.statePayloadLocked()))
}

func (s *Service) advanceTurnLocked(eventType domain.EventType) {
	outgoing := s.session.ActivePlayerIndex
	wasPhantomPhase := s.session.IsPhantomPhase

	if !s.session.NextTurn() {
		return
	}
	// Increments only apply to a turn whose clock actually ran.
	if !wasPhantomPhase {
		s.clock.TurnEnded(outgoing)
	}
	s.persistLocked()
	s.queueEvent(domain.NewEvent(eventType, s.statePayloadLocked()))
}

// AddPlayer appends a new player with defaults from the current settings.
func (s *Service) AddPlayer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	player := s.session.AddPlayer()
	s.clock.Resize(len(s.session.Players))
	s.persistLocked()
	s.queueEvent(domain.NewEvent(domain.EventPlayerAdded, s.statePayloadLocked()))
	s.logger.Info("player added", "id", player.ID)
}

// RemovePlayer removes a player; degenerate removals (below one player, or
// below two in single-player mode) are silent no-ops.
func (s *Service) RemovePlayer(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.RemovePlayer(id) {
		return
	}
	s.clock.Resize(len(s.session.Players))
	s.persistLocked()
	s.queueEvent(domain.NewEvent(domain.EventPlayerRemoved, s.statePayloadLocked()))
	s.logger.Info("player removed", "id", id)
}

// UpdatePlayer merges a partial update into the given player. Unknown IDs
// are silent no-ops.
func (s *Service) UpdatePlayer(id int, patch domain.PlayerPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.UpdatePlayer(id, patch) {
		return
	}
	s.persistLocked()
	s.queueEvent(domain.NewEvent(domain.EventPlayerUpdated, s.statePayloadLocked()))
}

// AddLand gives a player a new land.
func (s *Service) AddLand(playerID int, landType string, produces domain.ManaColor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.AddLand(playerID, landType, produces) {
		return
	}
	s.persistLocked()
	s.queueEvent(domain.NewEvent(domain.EventPlayerUpdated, s.statePayloadLocked()))
}

// RemoveLandByType removes the first of a player's lands of the given type.
func (s *Service) RemoveLandByType(playerID int, landType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.RemoveLandByType(playerID, landType) {
		return
	}
	s.persistLocked()
	s.queueEvent(domain.NewEvent(domain.EventPlayerUpdated, s.statePayloadLocked()))
}

// ToggleLand flips a land's tapped state without touching the mana pool.
func (s *Service) ToggleLand(playerID int, landID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.ToggleLand(playerID, landID) {
		return
	}
	s.persistLocked()
	s.queueEvent(domain.NewEvent(domain.EventPlayerUpdated, s.statePayloadLocked()))
}

// AdjustMana applies a manual +/- adjustment to one mana counter.
func (s *Service) AdjustMana(playerID int, color domain.ManaColor, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.AdjustMana(playerID, color, delta) {
		return
	}
	s.persistLocked()
	s.queueEvent(domain.NewEvent(domain.EventPlayerUpdated, s.statePayloadLocked()))
}

// SetDisplayedPlayerIndex changes which player's detail view is shown. The
// choice is persisted so a reload restores what the viewer was looking at.
func (s *Service) SetDisplayedPlayerIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.SetDisplayedPlayerIndex(index) {
		return
	}
	s.persistLocked()
	s.queueEvent(domain.NewEvent(domain.EventViewChanged, s.statePayloadLocked()))
}

// SetTimerRunning pauses or resumes the chess clock.
func (s *Service) SetTimerRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timerRunning == running {
		return
	}
	s.timerRunning = running
	s.queueEvent(domain.NewEvent(domain.EventClockTick, s.clockPayloadLocked()))
}

// EndGame suspends the game and returns to the menu. The persisted
// snapshot is retained so the session stays resumable.
func (s *Service) EndGame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.End() {
		return
	}
	s.timerRunning = false
	s.queueEvent(domain.NewEvent(domain.EventGameEnded, s.statePayloadLocked()))
	s.logger.Info("game ended")
}

// ResetGame clears persisted storage and reinitializes the session to two
// default players.
func (s *Service) ResetGame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	s.queueEvent(domain.NewEvent(domain.EventGameReset, s.statePayloadLocked()))
	s.logger.Info("game reset")
}

func (s *Service) resetLocked() {
	if err := s.gateway.ClearSnapshot(context.Background()); err != nil {
		s.logger.Warn("failed to clear saved session", "error", err)
	}
	s.session.Reset()
	s.timerRunning = false
	s.clock.Configure(s.session.Settings)
	s.clock.Reset(len(s.session.Players))
}

// ContinueSavedGame restores the persisted snapshot. An absent or
// unreadable snapshot degrades to reset semantics instead of failing.
func (s *Service) ContinueSavedGame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.gateway.LoadSnapshot(context.Background())
	if err != nil {
		s.logger.Warn("no resumable session, starting fresh", "error", err)
		s.resetLocked()
		s.queueEvent(domain.NewEvent(domain.EventGameReset, s.statePayloadLocked()))
		return
	}

	s.session.Restore(snap.Players, snap.ActivePlayerIndex, snap.DisplayedPlayerIndex,
		snap.IsSinglePlayerMode, snap.ActualPlayerIndex, snap.IsPhantomPhase)
	s.timerRunning = false
	s.clock.Configure(s.session.Settings)
	s.clock.Reset(len(s.session.Players))
	s.queueEvent(domain.NewEvent(domain.EventGameContinued, s.statePayloadLocked()))
	s.logger.Info("saved game continued", "players", len(snap.Players))
}

// UpdateSettings merges a settings patch and persists settings separately
// from session state. Before the game starts, player life totals follow
// the new starting life.
func (s *Service) UpdateSettings(patch domain.SettingsPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.ApplySettings(patch)
	if err := s.gateway.SaveSettings(context.Background(), s.session.Settings); err != nil {
		s.logger.Warn("failed to save settings", "error", err)
		s.queueEvent(domain.NewEvent(domain.EventStorageWarning, &domain.StorageWarningPayload{
			Message: "settings could not be saved",
		}))
	}
	if !s.session.GameStarted {
		s.clock.Configure(s.session.Settings)
		s.clock.Reset(len(s.session.Players))
	}
	s.persistLocked()
	s.queueEvent(domain.NewEvent(domain.EventSettingsUpdated, s.statePayloadLocked()))
}

// persistLocked snapshots the session while the game is live. A failed
// write is logged and surfaced as a warning; the in-memory session stays
// authoritative and play continues.
func (s *Service) persistLocked() {
	if !s.session.GameStarted {
		return
	}
	snap := store.NewSnapshot(s.session)
	if err := s.gateway.SaveSnapshot(context.Background(), snap); err != nil {
		s.logger.Warn("failed to save session snapshot", "error", err)
		s.queueEvent(domain.NewEvent(domain.EventStorageWarning, &domain.StorageWarningPayload{
			Message: "game state could not be saved",
		}))
	}
}

func (s *Service) statePayloadLocked() StatePayload {
	return StatePayload{
		Session:        s.session.Clone(),
		Phase:          s.session.Phase(),
		IsPhantomTurn:  s.session.IsPhantomTurn(),
		VisiblePlayers: s.session.VisiblePlayers(),
		PhantomPlayers: s.session.PhantomPlayers(),
		HasSavedGame:   s.gateway.HasSavedSession(context.Background()),
		TimerRunning:   s.timerRunning,
		Clock:          s.clockPayloadLocked(),
	}
}

func (s *Service) clockPayloadLocked() domain.ClockPayload {
	return domain.ClockPayload{
		RemainingMillis: s.clock.RemainingMillis(),
		Running:         s.timerRunning,
		ActiveIndex:     s.session.ActivePlayerIndex,
		Suspended:       s.session.IsSinglePlayerMode && s.session.IsPhantomPhase,
	}
}

// clockLoop drives the chess clock. The clock suspends during the phantom
// phase without losing any player's accumulated time, and an expired clock
// triggers the same turn transition a manual click would.
func (s *Service) clockLoop() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.tickClock()
		}
	}
}

func (s *Service) tickClock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.timerRunning || !s.session.GameStarted {
		return
	}
	if s.session.IsSinglePlayerMode && s.session.IsPhantomPhase {
		return
	}
	s.clock.Resize(len(s.session.Players))
	expired := s.clock.Tick(s.session.ActivePlayerIndex)
	if expired {
		s.queueEvent(domain.NewEvent(domain.EventClockExpired, s.clockPayloadLocked()))
		s.advanceTurnLocked(domain.EventTurnAdvanced)
		return
	}
	s.queueEvent(domain.NewEvent(domain.EventClockTick, s.clockPayloadLocked()))
}

// RegisterClient registers a presentation client for event broadcasts.
func (s *Service) RegisterClient(client Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID()] = client
}

// UnregisterClient removes a client.
func (s *Service) UnregisterClient(id string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, id)
}

// queueEvent adds an event to the broadcast queue.
func (s *Service) queueEvent(event *domain.Event) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop broadcasts queued events to every connected client.
func (s *Service) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

func (s *Service) broadcastEvent(event *domain.Event) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for id, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "clientId", id, "error", err)
		}
	}
}

// Close stops the loops and disconnects every client.
func (s *Service) Close() {
	s.once.Do(func() {
		close(s.done)
	})

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]Client)
	s.clientsMu.Unlock()
}
