package domain

import "testing"

func TestManaPoolRemoveFloorsAtZero(t *testing.T) {
	for _, color := range ManaColors {
		pool := NewManaPool()
		pool.Remove(color)
		if pool[color] != 0 {
			t.Errorf("Remove(%s) on empty pool = %d, want 0", color, pool[color])
		}
	}
}

func TestManaPoolAdjust(t *testing.T) {
	tests := []struct {
		name        string
		start       int
		delta       int
		want        int
		wantChanged bool
	}{
		{"increment", 0, 1, 1, true},
		{"decrement", 2, -1, 1, true},
		{"decrement to zero", 1, -1, 0, true},
		{"decrement below zero floors", 1, -5, 0, true},
		{"decrement at zero is a no-op", 0, -1, 0, false},
		{"zero delta is a no-op", 3, 0, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewManaPool()
			pool[ManaRed] = tt.start
			changed := pool.Adjust(ManaRed, tt.delta)
			if changed != tt.wantChanged {
				t.Errorf("Adjust changed = %v, want %v", changed, tt.wantChanged)
			}
			if pool[ManaRed] != tt.want {
				t.Errorf("Adjust(%d) from %d = %d, want %d", tt.delta, tt.start, pool[ManaRed], tt.want)
			}
		})
	}
}

func TestManaPoolAdjustUnknownColor(t *testing.T) {
	pool := NewManaPool()
	if pool.Adjust(ManaColor("X"), 1) {
		t.Error("Adjust with unknown color should be a no-op")
	}
}

func TestManaPoolTotal(t *testing.T) {
	pool := NewManaPool()
	pool.Add(ManaGreen)
	pool.Add(ManaGreen)
	pool.Add(ManaWhite)
	if got := pool.Total(); got != 3 {
		t.Errorf("Total() = %d, want 3", got)
	}
}

func TestManaPoolCloneIsIndependent(t *testing.T) {
	pool := NewManaPool()
	pool.Add(ManaBlue)
	clone := pool.Clone()
	clone.Add(ManaBlue)
	if pool[ManaBlue] != 1 {
		t.Errorf("mutating a clone changed the original: %d", pool[ManaBlue])
	}
}
