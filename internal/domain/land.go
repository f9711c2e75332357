package domain

// Basic land types.
const (
	LandPlains   = "Plains"
	LandIsland   = "Island"
	LandSwamp    = "Swamp"
	LandMountain = "Mountain"
	LandForest   = "Forest"
	LandWastes   = "Wastes"
)

// BasicLands maps each basic land type to the color it produces. Custom
// land types are allowed as long as they declare a valid color.
var BasicLands = map[string]ManaColor{
	LandPlains:   ManaWhite,
	LandIsland:   ManaBlue,
	LandSwamp:    ManaBlack,
	LandMountain: ManaRed,
	LandForest:   ManaGreen,
	LandWastes:   ManaColorless,
}

// Land represents a land card in play. A land's tapped state only changes
// via an explicit toggle or the bulk untap at the start of its owner's turn.
type Land struct {
	ID       int64     `json:"id"`
	Type     string    `json:"type"`
	Produces ManaColor `json:"produces"`
	Tapped   bool      `json:"tapped"`
}

// NewLand creates an untapped land. The ID must be unique within the
// owner's land list.
func NewLand(id int64, landType string, produces ManaColor) Land {
	return Land{
		ID:       id,
		Type:     landType,
		Produces: produces,
	}
}
