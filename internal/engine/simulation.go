// Simulation ties together all world systems and runs them each tick.
package engine

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/talgya/wayfarer/internal/agents"
	"github.com/talgya/wayfarer/internal/items"
	"github.com/talgya/wayfarer/internal/shopping"
	"github.com/talgya/wayfarer/internal/social"
	"github.com/talgya/wayfarer/internal/visits"
	"github.com/talgya/wayfarer/internal/world"
)

// maxEvents bounds the in-memory event log.
const maxEvents = 200

// Party is one visitor group currently on the map: its coordinator plus
// the purchase task each member is running.
type Party struct {
	Coord   *visits.Coordinator
	Tasks   map[agents.ActorID]*shopping.PurchaseTask
	LeaveBy uint64 // Force departure at this tick even with tasks unfinished
}

// Simulation holds the complete world state and wires systems together.
type Simulation struct {
	WorldMap     *world.Map
	Factions     []*social.Faction
	FactionIndex map[social.FactionID]*social.Faction
	Sites        *social.SiteIndex
	Market       *shopping.Marketplace
	Spawner      *agents.Spawner
	Queue        *visits.IncidentQueue
	Planner      *visits.Planner

	Parties     []*Party
	Events      []Event          // Recent events (bounded ring)
	PurchaseLog []PurchaseRecord // Guest-ledger rows awaiting persistence
	LastTick    uint64           // Most recent tick processed

	Stats SimStats

	rng *rand.Rand
}

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "visit", "trade", "queue"
}

// PurchaseRecord is one guest-ledger row: which visitor bought which item
// instance. Collected when a party departs and flushed to storage by the
// driver.
type PurchaseRecord struct {
	Tick    uint64         `json:"tick"`
	ActorID agents.ActorID `json:"actor_id"`
	StackID uuid.UUID      `json:"stack_id"`
}

// SimStats tracks aggregate totals.
type SimStats struct {
	VisitsArrived int `json:"visits_arrived"`
	ItemsSold     int `json:"items_sold"`
	SilverEarned  int `json:"silver_earned"`
	VisitsPlanned int `json:"visits_planned"`
	QueueThinned  int `json:"queue_thinned"`
}

// NewSimulation creates a Simulation from generated components.
func NewSimulation(m *world.Map, factions []*social.Faction, sites *social.SiteIndex, seed int64) *Simulation {
	idx := make(map[social.FactionID]*social.Faction, len(factions))
	for _, f := range factions {
		idx[f.ID] = f
	}

	// The colony sits at the map center with the trade zone beside it.
	home := world.HexCoord{}
	market := shopping.NewMarketplace(home)

	queue := visits.NewIncidentQueue(TicksPerSimDay)
	rng := rand.New(rand.NewSource(seed + 100))

	sim := &Simulation{
		WorldMap:     m,
		Factions:     factions,
		FactionIndex: idx,
		Sites:        sites,
		Market:       market,
		Spawner:      agents.NewSpawner(seed),
		Queue:        queue,
		rng:          rng,
	}
	sim.Planner = visits.NewPlanner(factions, sites, queue, home,
		func(from, to world.HexCoord) int {
			return world.EstimateArrivalTicks(m, from, to)
		},
		TicksPerSimDay, rand.New(rand.NewSource(seed+101)))

	sim.restockShelf()
	return sim
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// TickMinute runs every tick: fire due incidents, advance purchase tasks,
// and send finished parties home.
func (s *Simulation) TickMinute(tick uint64) {
	s.LastTick = tick

	s.fireDueIncidents(tick)

	for _, p := range s.Parties {
		s.advanceParty(p, tick)
	}
	s.departFinishedParties(tick)
}

// TickDay runs once per simulated day: plan future visits and restock.
func (s *Simulation) TickDay(tick uint64) {
	planned := s.Planner.PlanDailyVisits(tick)
	if planned > 0 {
		s.Stats.VisitsPlanned += planned
		s.recordEvent(tick, "queue", "visit planner queued new arrivals")
	}
	s.restockShelf()
}

// Visitors returns every visitor currently on the map.
func (s *Simulation) Visitors() []*agents.Actor {
	var out []*agents.Actor
	for _, p := range s.Parties {
		for _, a := range p.Coord.Members {
			if a.Spawned {
				out = append(out, a)
			}
		}
	}
	return out
}

// TriggerVisit queues a visit manually, outside the daily planner.
func (s *Simulation) TriggerVisit(faction social.FactionID, delayDays float64) {
	s.Planner.QueueVisit(s.LastTick, delayDays, faction, visits.CategoryVisitors)
}

func (s *Simulation) recordEvent(tick uint64, category, desc string) {
	s.Events = append(s.Events, Event{Tick: tick, Description: desc, Category: category})
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}

// Baseline shop stock, topped back up once a day.
var shelfStock = []struct {
	kind   *items.Kind
	target int
}{
	{items.Pemmican, 90},
	{items.Medicine, 12},
	{items.Cloth, 60},
	{items.Parka, 4},
	{items.Duster, 3},
	{items.Knife, 5},
	{items.Longbow, 3},
	{items.Sculpture, 2},
}

// restockShelf tops shelf quantities back up to their baseline.
func (s *Simulation) restockShelf() {
	for _, entry := range shelfStock {
		have := 0
		for _, p := range s.Market.Shelf {
			if p.Stack.Kind == entry.kind {
				have += p.Stack.Count
			}
		}
		if have >= entry.target {
			continue
		}
		pos := world.HexCoord{Q: s.rng.Intn(3) - 1, R: s.rng.Intn(3) - 1}
		s.Market.Stock(items.NewStack(entry.kind, entry.target-have), pos)
	}
}
