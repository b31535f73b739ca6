// Visitor spawning — creates visitor parties arriving from faction sites.
package agents

import (
	"math/rand"

	"github.com/talgya/wayfarer/internal/items"
	"github.com/talgya/wayfarer/internal/social"
	"github.com/talgya/wayfarer/internal/world"
)

// Spawner creates visitor actors for the simulation.
type Spawner struct {
	rng    *rand.Rand
	nextID ActorID
}

// NewSpawner creates a visitor spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		nextID: 1,
	}
}

// SetNextID sets the next actor ID to be issued (used when restoring from DB).
func (s *Spawner) SetNextID(id ActorID) {
	s.nextID = id
}

var visitorNames = []string{
	"Aldous", "Berrin", "Casla", "Doran", "Edwyn", "Fenna", "Garrick",
	"Hesper", "Ingram", "Jorun", "Kessa", "Lowell", "Maren", "Nils",
	"Orla", "Pellam", "Quenna", "Ronan", "Sable", "Torvald",
}

// SpawnParty creates a group of visitors for a faction, entering at the
// given map-edge position with pocket silver to spend.
func (s *Spawner) SpawnParty(count int, faction social.FactionID, entry world.HexCoord) []*Actor {
	party := make([]*Actor, 0, count)
	for i := 0; i < count; i++ {
		party = append(party, s.spawnOne(faction, entry))
	}
	return party
}

func (s *Spawner) spawnOne(faction social.FactionID, entry world.HexCoord) *Actor {
	id := s.nextID
	s.nextID++

	// Pocket silver: most visitors carry a modest sum, a few are wealthy.
	silver := 30 + s.rng.Intn(120)
	if s.rng.Float64() < 0.1 {
		silver += 300
	}

	a := &Actor{
		ID:       id,
		Name:     visitorNames[s.rng.Intn(len(visitorNames))],
		Faction:  faction,
		Position: entry,
		Spawned:  true,
		Inventory: Inventory{
			MaxSlots: 8,
		},
		Guest: &GuestRecord{},
	}
	a.Inventory.Add(items.NewStack(items.Silver, silver))
	return a
}
