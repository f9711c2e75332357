package domain

import "fmt"

// Player represents a player in the session. IDs are assigned
// monotonically and never reused while the session is live.
type Player struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Life      int      `json:"life"`
	Lands     []Land   `json:"lands"`
	ManaPool  ManaPool `json:"manaPool"`
	IsPhantom bool     `json:"isPhantom,omitempty"`
	ProfileID string   `json:"profileId,omitempty"`
}

// NewPlayer creates a player with a generated default name, empty lands
// and a zeroed mana pool.
func NewPlayer(id, startingLife int) Player {
	return Player{
		ID:       id,
		Name:     DefaultPlayerName(id),
		Life:     startingLife,
		Lands:    []Land{},
		ManaPool: NewManaPool(),
	}
}

// DefaultPlayerName returns the generated fallback name for a player ID.
func DefaultPlayerName(id int) string {
	return fmt.Sprintf("Player %d", id)
}

// FillMana recomputes the mana pool from scratch as the count of lands per
// color and taps every land. This models the turn-start "untap and fill"
// happening atomically.
func (p *Player) FillMana() {
	pool := NewManaPool()
	for i := range p.Lands {
		pool.Add(p.Lands[i].Produces)
		p.Lands[i].Tapped = true
	}
	p.ManaPool = pool
}

// ResetMana zeroes the mana pool and untaps every land. Applied to the
// outgoing player when their turn ends.
func (p *Player) ResetMana() {
	p.ManaPool = NewManaPool()
	for i := range p.Lands {
		p.Lands[i].Tapped = false
	}
}

// Clone returns a deep copy of the player.
func (p Player) Clone() Player {
	clone := p
	clone.Lands = make([]Land, len(p.Lands))
	copy(clone.Lands, p.Lands)
	clone.ManaPool = p.ManaPool.Clone()
	return clone
}

// PlayerPatch carries a partial player update. Nil fields are left
// untouched.
type PlayerPatch struct {
	Name      *string   `json:"name,omitempty"`
	Life      *int      `json:"life,omitempty"`
	Lands     *[]Land   `json:"lands,omitempty"`
	ManaPool  *ManaPool `json:"manaPool,omitempty"`
	ProfileID *string   `json:"profileId,omitempty"`
}

// Apply merges the patch into the player. Clearing the name restores the
// generated default.
func (p *Player) Apply(patch PlayerPatch) {
	if patch.Name != nil {
		if *patch.Name == "" {
			p.Name = DefaultPlayerName(p.ID)
		} else {
			p.Name = *patch.Name
		}
	}
	if patch.Life != nil {
		p.Life = *patch.Life
	}
	if patch.Lands != nil {
		p.Lands = make([]Land, len(*patch.Lands))
		copy(p.Lands, *patch.Lands)
	}
	if patch.ManaPool != nil {
		p.ManaPool = patch.ManaPool.Clone()
	}
	if patch.ProfileID != nil {
		p.ProfileID = *patch.ProfileID
	}
}
