package domain

import "time"

// Session is the canonical turn/session state machine. It owns the player
// roster, turn pointers, single-player phantom bookkeeping and settings.
// Session is pure state: it performs no I/O and no locking. The app layer
// is the sole writer and wraps every intent in its own mutex.
//
// JSON tags double as the persistence wire format, so field names must
// stay serialization-stable.
type Session struct {
	Players              []Player     `json:"players"`
	ActivePlayerIndex    int          `json:"activePlayerIndex"`
	DisplayedPlayerIndex int          `json:"displayedPlayerIndex"`
	IsSinglePlayerMode   bool         `json:"isSinglePlayerMode"`
	ActualPlayerIndex    int          `json:"actualPlayerIndex"`
	IsPhantomPhase       bool         `json:"isPhantomPhase"`
	GameStarted          bool         `json:"gameStarted"`
	Settings             GameSettings `json:"settings"`
}

// NewSession creates a not-yet-started session with two default players.
func NewSession(settings GameSettings) *Session {
	s := &Session{Settings: settings}
	s.installDefaultPlayers()
	return s
}

func (s *Session) installDefaultPlayers() {
	s.Players = []Player{
		NewPlayer(1, s.Settings.StartingLife),
		NewPlayer(2, s.Settings.StartingLife),
	}
	s.ActivePlayerIndex = 0
	s.DisplayedPlayerIndex = 0
	s.IsSinglePlayerMode = false
	s.ActualPlayerIndex = 0
	s.IsPhantomPhase = false
	s.GameStarted = false
}

// Start installs a fully-formed roster and begins the game. In
// single-player mode playerPosition is the index of the real player. The
// starting player's lands auto-tap and fill their pool, including on the
// very first turn.
func (s *Session) Start(players []Player, singlePlayer bool, playerPosition int) error {
	if len(players) == 0 {
		return ErrEmptyRoster
	}
	if playerPosition < 0 || playerPosition >= len(players) {
		return ErrPositionOutOfRange
	}

	s.Players = players
	start := 0
	if singlePlayer {
		start = playerPosition
	}
	s.ActivePlayerIndex = start
	s.DisplayedPlayerIndex = start
	s.IsSinglePlayerMode = singlePlayer
	s.ActualPlayerIndex = playerPosition
	s.IsPhantomPhase = false
	s.GameStarted = true

	s.Players[start].FillMana()
	return nil
}

// NextTurn advances the turn. In multiplayer the active pointer cycles in
// array order; in single-player mode it toggles between the real player's
// turn and the collapsed phantom phase. It reports whether the session
// changed.
func (s *Session) NextTurn() bool {
	if !s.GameStarted || len(s.Players) == 0 {
		return false
	}

	if s.IsSinglePlayerMode {
		if s.IsPhantomPhase {
			return s.endPhantomPhase()
		}
		s.Players[s.ActualPlayerIndex].ResetMana()
		if len(s.Players) < 2 {
			// No opponents to hand the turn to; the real player starts
			// a fresh turn immediately.
			s.Players[s.ActualPlayerIndex].FillMana()
			return true
		}
		// The active pointer walks into phantom space so the clock view
		// has a defined owner; isPhantomPhase is the user-facing signal
		// for the whole opponents' block.
		s.ActivePlayerIndex = (s.ActualPlayerIndex + 1) % len(s.Players)
		s.DisplayedPlayerIndex = s.ActivePlayerIndex
		s.IsPhantomPhase = true
		return true
	}

	s.Players[s.ActivePlayerIndex].ResetMana()
	s.ActivePlayerIndex = (s.ActivePlayerIndex + 1) % len(s.Players)
	s.DisplayedPlayerIndex = s.ActivePlayerIndex
	s.Players[s.ActivePlayerIndex].FillMana()
	return true
}

// AdvancePhantomTurn collapses the remainder of the opponents' block and
// returns control to the real player. Outside the phantom phase it is a
// no-op.
func (s *Session) AdvancePhantomTurn() bool {
	if !s.GameStarted || !s.IsPhantomPhase {
		return false
	}
	return s.endPhantomPhase()
}

func (s *Session) endPhantomPhase() bool {
	for i := range s.Players {
		if s.Players[i].IsPhantom {
			s.Players[i].ResetMana()
		}
	}
	s.ActivePlayerIndex = s.ActualPlayerIndex
	s.DisplayedPlayerIndex = s.ActualPlayerIndex
	s.IsPhantomPhase = false
	s.Players[s.ActualPlayerIndex].FillMana()
	return true
}

// AddPlayer appends a new player with the next free ID and starting life
// from the current settings.
func (s *Session) AddPlayer() Player {
	nextID := 0
	for i := range s.Players {
		if s.Players[i].ID > nextID {
			nextID = s.Players[i].ID
		}
	}
	nextID++
	player := NewPlayer(nextID, s.Settings.StartingLife)
	s.Players = append(s.Players, player)
	return player
}

// RemovePlayer removes the player with the given ID. It refuses to drop
// below one remaining player, or below two in single-player mode so at
// least one opponent survives. Turn pointers at or past the removed slot
// shift down one to keep pointing at the same logical player.
func (s *Session) RemovePlayer(id int) bool {
	minPlayers := 1
	if s.IsSinglePlayerMode {
		minPlayers = 2
	}
	if len(s.Players) <= minPlayers {
		return false
	}

	idx := s.indexByID(id)
	if idx < 0 {
		return false
	}

	s.Players = append(s.Players[:idx], s.Players[idx+1:]...)
	s.ActivePlayerIndex = shiftIndex(s.ActivePlayerIndex, idx)
	s.DisplayedPlayerIndex = shiftIndex(s.DisplayedPlayerIndex, idx)
	s.ActualPlayerIndex = shiftIndex(s.ActualPlayerIndex, idx)
	s.clampIndexes()
	return true
}

// shiftIndex decrements an index when the removed slot was at or before
// it, flooring at zero.
func shiftIndex(index, removed int) int {
	if removed <= index && index > 0 {
		return index - 1
	}
	return index
}

func (s *Session) clampIndexes() {
	max := len(s.Players) - 1
	if max < 0 {
		return
	}
	if s.ActivePlayerIndex > max {
		s.ActivePlayerIndex = max
	}
	if s.DisplayedPlayerIndex > max {
		s.DisplayedPlayerIndex = max
	}
	if s.ActualPlayerIndex > max {
		s.ActualPlayerIndex = max
	}
}

// UpdatePlayer merges the patch into the player with the given ID. An
// unknown ID is a silent no-op.
func (s *Session) UpdatePlayer(id int, patch PlayerPatch) bool {
	idx := s.indexByID(id)
	if idx < 0 {
		return false
	}
	s.Players[idx].Apply(patch)
	return true
}

// SetDisplayedPlayerIndex changes which player's detail view is shown
// without affecting turn order.
func (s *Session) SetDisplayedPlayerIndex(index int) bool {
	if index < 0 || index >= len(s.Players) || index == s.DisplayedPlayerIndex {
		return false
	}
	s.DisplayedPlayerIndex = index
	return true
}

// End suspends the game, leaving the roster intact so the session stays
// resumable.
func (s *Session) End() bool {
	if !s.GameStarted {
		return false
	}
	s.GameStarted = false
	return true
}

// Reset reinitializes the session to two default players.
func (s *Session) Reset() {
	s.installDefaultPlayers()
}

// Restore rehydrates the session from persisted fields and marks the game
// live. Out-of-range indexes are clamped rather than left dangling.
func (s *Session) Restore(players []Player, active, displayed int, singlePlayer bool, actual int, phantomPhase bool) {
	s.Players = players
	s.ActivePlayerIndex = active
	s.DisplayedPlayerIndex = displayed
	s.IsSinglePlayerMode = singlePlayer
	s.ActualPlayerIndex = actual
	s.IsPhantomPhase = phantomPhase
	s.GameStarted = true
	if s.ActivePlayerIndex < 0 {
		s.ActivePlayerIndex = 0
	}
	if s.DisplayedPlayerIndex < 0 {
		s.DisplayedPlayerIndex = 0
	}
	if s.ActualPlayerIndex < 0 {
		s.ActualPlayerIndex = 0
	}
	s.clampIndexes()
}

// ApplySettings merges a settings patch. While the game has not started,
// every player's life is retroactively aligned with the new starting life
// so the pre-game roster preview matches what the user is editing.
func (s *Session) ApplySettings(patch SettingsPatch) {
	s.Settings.Apply(patch)
	if s.GameStarted {
		return
	}
	for i := range s.Players {
		if s.Players[i].Life != s.Settings.StartingLife {
			s.Players[i].Life = s.Settings.StartingLife
		}
	}
}

// AddLand gives the player a new untapped land. For basic land types the
// produced color is inferred when not supplied.
func (s *Session) AddLand(playerID int, landType string, produces ManaColor) bool {
	idx := s.indexByID(playerID)
	if idx < 0 {
		return false
	}
	if produces == "" {
		produces = BasicLands[landType]
	}
	if !produces.IsValid() {
		return false
	}
	player := &s.Players[idx]
	player.Lands = append(player.Lands, NewLand(s.nextLandID(player), landType, produces))
	return true
}

// nextLandID generates a creation-timestamp-based land ID, bumped until
// unique within the player's land list.
func (s *Session) nextLandID(p *Player) int64 {
	id := time.Now().UnixMilli()
	for {
		taken := false
		for i := range p.Lands {
			if p.Lands[i].ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
		id++
	}
}

// RemoveLandByType removes the first of the player's lands matching the
// given type.
func (s *Session) RemoveLandByType(playerID int, landType string) bool {
	idx := s.indexByID(playerID)
	if idx < 0 {
		return false
	}
	player := &s.Players[idx]
	for i := range player.Lands {
		if player.Lands[i].Type == landType {
			player.Lands = append(player.Lands[:i], player.Lands[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleLand flips a land's tapped state. The toggle is cosmetic: the
// mana pool is only written by the turn-start fill and the manual
// adjustment intent.
func (s *Session) ToggleLand(playerID int, landID int64) bool {
	idx := s.indexByID(playerID)
	if idx < 0 {
		return false
	}
	player := &s.Players[idx]
	for i := range player.Lands {
		if player.Lands[i].ID == landID {
			player.Lands[i].Tapped = !player.Lands[i].Tapped
			return true
		}
	}
	return false
}

// AdjustMana applies a signed delta to one of the player's mana counters,
// flooring at zero.
func (s *Session) AdjustMana(playerID int, color ManaColor, delta int) bool {
	idx := s.indexByID(playerID)
	if idx < 0 {
		return false
	}
	return s.Players[idx].ManaPool.Adjust(color, delta)
}

func (s *Session) indexByID(id int) int {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the session, safe to hand to readers.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Players = make([]Player, len(s.Players))
	for i := range s.Players {
		clone.Players[i] = s.Players[i].Clone()
	}
	return &clone
}
