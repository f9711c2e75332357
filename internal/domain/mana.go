package domain

// ManaColor identifies one of the six mana colors.
type ManaColor string

const (
	ManaWhite     ManaColor = "W"
	ManaBlue      ManaColor = "U"
	ManaBlack     ManaColor = "B"
	ManaRed       ManaColor = "R"
	ManaGreen     ManaColor = "G"
	ManaColorless ManaColor = "C"
)

// ManaColors lists every color in canonical order.
var ManaColors = []ManaColor{ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen, ManaColorless}

// IsValid returns true if the color is one of the six known colors.
func (c ManaColor) IsValid() bool {
	switch c {
	case ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen, ManaColorless:
		return true
	}
	return false
}

// ManaPool tracks available mana of each color. Counters never go below
// zero; removing from an empty counter is a no-op.
type ManaPool map[ManaColor]int

// NewManaPool returns a pool with all six counters at zero.
func NewManaPool() ManaPool {
	pool := make(ManaPool, len(ManaColors))
	for _, c := range ManaColors {
		pool[c] = 0
	}
	return pool
}

// Add increments the counter for the given color.
func (m ManaPool) Add(color ManaColor) {
	if color.IsValid() {
		m[color]++
	}
}

// Remove decrements the counter for the given color, flooring at zero.
func (m ManaPool) Remove(color ManaColor) {
	if color.IsValid() && m[color] > 0 {
		m[color]--
	}
}

// Adjust applies a signed delta to the counter for the given color,
// flooring at zero. It reports whether the counter changed.
func (m ManaPool) Adjust(color ManaColor, delta int) bool {
	if !color.IsValid() {
		return false
	}
	next := m[color] + delta
	if next < 0 {
		next = 0
	}
	if next == m[color] {
		return false
	}
	m[color] = next
	return true
}

// Total returns the sum of all counters.
func (m ManaPool) Total() int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

// Clone returns an independent copy of the pool.
func (m ManaPool) Clone() ManaPool {
	pool := make(ManaPool, len(m))
	for c, n := range m {
		pool[c] = n
	}
	return pool
}
