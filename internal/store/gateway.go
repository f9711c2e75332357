package store

import (
	"context"
	"encoding/json"
	"time"

	"manaclock/internal/domain"
)

// Record keys in the key-value table.
const (
	sessionStateKey    = "session-state"
	sessionSettingsKey = "session-settings"
)

// snapshotVersion is written into every snapshot so a future format change
// can be detected instead of silently misparsed.
const snapshotVersion = 1

// SnapshotV1 is the persisted session record. Field names are the wire
// format and must not change.
type SnapshotV1 struct {
	Version              int             `json:"version"`
	Players              []domain.Player `json:"players"`
	ActivePlayerIndex    int             `json:"activePlayerIndex"`
	DisplayedPlayerIndex int             `json:"displayedPlayerIndex"`
	IsSinglePlayerMode   bool            `json:"isSinglePlayerMode"`
	ActualPlayerIndex    int             `json:"actualPlayerIndex"`
	IsPhantomPhase       bool            `json:"isPhantomPhase"`
	Timestamp            int64           `json:"timestamp"` // epoch millis
}

// NewSnapshot captures the resumable fields of a session, stamped with the
// current time.
func NewSnapshot(s *domain.Session) *SnapshotV1 {
	return &SnapshotV1{
		Version:              snapshotVersion,
		Players:              s.Clone().Players,
		ActivePlayerIndex:    s.ActivePlayerIndex,
		DisplayedPlayerIndex: s.DisplayedPlayerIndex,
		IsSinglePlayerMode:   s.IsSinglePlayerMode,
		ActualPlayerIndex:    s.ActualPlayerIndex,
		IsPhantomPhase:       s.IsPhantomPhase,
		Timestamp:            time.Now().UnixMilli(),
	}
}

// HasSavedSession reports whether a resumable snapshot currently exists.
// Storage errors degrade to "no saved session".
func (s *Store) HasSavedSession(ctx context.Context) bool {
	_, err := s.get(ctx, sessionStateKey)
	return err == nil
}

// SaveSnapshot serializes the snapshot under the fixed session key.
func (s *Store) SaveSnapshot(ctx context.Context, snap *SnapshotV1) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.put(ctx, sessionStateKey, data)
}

// LoadSnapshot reads and parses the stored snapshot. A missing key,
// malformed JSON or an unrecognized version all yield ErrNoSavedSession;
// callers degrade to a fresh session instead of crashing.
func (s *Store) LoadSnapshot(ctx context.Context) (*SnapshotV1, error) {
	data, err := s.get(ctx, sessionStateKey)
	if err != nil {
		return nil, ErrNoSavedSession
	}
	var snap SnapshotV1
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, ErrNoSavedSession
	}
	if snap.Version > snapshotVersion || len(snap.Players) == 0 {
		return nil, ErrNoSavedSession
	}
	return &snap, nil
}

// ClearSnapshot removes the persisted session record.
func (s *Store) ClearSnapshot(ctx context.Context) error {
	return s.delete(ctx, sessionStateKey)
}

// SaveSettings persists the settings record, separate from session state.
func (s *Store) SaveSettings(ctx context.Context, settings domain.GameSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.put(ctx, sessionSettingsKey, data)
}

// LoadSettings reads the settings record merged over the given defaults,
// so records persisted before a settings field existed still get sane
// values. A missing or malformed record yields the defaults unchanged.
func (s *Store) LoadSettings(ctx context.Context, defaults domain.GameSettings) domain.GameSettings {
	data, err := s.get(ctx, sessionSettingsKey)
	if err != nil {
		return defaults
	}
	var patch domain.SettingsPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return defaults
	}
	settings := defaults
	settings.Apply(patch)
	return settings
}
