// Package social provides factions, goodwill, and settlement sites.
package social

// FactionID is a unique identifier for a faction.
type FactionID uint64

// Faction represents a group of people sharing allegiance. The player's
// own colony is a faction too (IsPlayer set).
type Faction struct {
	ID       FactionID   `json:"id"`
	Name     string      `json:"name"`
	Kind     FactionKind `json:"kind"`
	IsPlayer bool        `json:"is_player"`

	// Goodwill toward the player faction (-100 to +100).
	// Below HostileThreshold the faction sends no visitors.
	Goodwill float64 `json:"goodwill"`
}

// HostileThreshold is the goodwill floor below which a faction is hostile.
const HostileThreshold = -40

// HostileToPlayer reports whether the faction would attack rather than visit.
func (f *Faction) HostileToPlayer() bool {
	return !f.IsPlayer && f.Goodwill < HostileThreshold
}

// AdjustGoodwill shifts goodwill, clamped to [-100, 100].
func (f *Faction) AdjustGoodwill(delta float64) {
	f.Goodwill += delta
	if f.Goodwill > 100 {
		f.Goodwill = 100
	}
	if f.Goodwill < -100 {
		f.Goodwill = -100
	}
}

// FactionKind categorizes the nature of a faction.
type FactionKind uint8

const (
	FactionColony  FactionKind = iota // The player settlement
	FactionOutland                    // Civil neighboring polity
	FactionTribal                     // Scattered tribal bands
	FactionRover                      // Nomadic traders
	FactionRaider                     // Hostile — never visits
)

// SeedFactions creates the initial faction set for the world.
func SeedFactions() []*Faction {
	return []*Faction{
		{ID: 1, Name: "The Colony", Kind: FactionColony, IsPlayer: true},
		{ID: 2, Name: "Halvard Union", Kind: FactionOutland, Goodwill: 35},
		{ID: 3, Name: "Kinship of the Reed", Kind: FactionTribal, Goodwill: 10},
		{ID: 4, Name: "Saltway Rovers", Kind: FactionRover, Goodwill: 20},
		{ID: 5, Name: "Ashmark Reavers", Kind: FactionRaider, Goodwill: -80},
	}
}
