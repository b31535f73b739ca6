// Visitor party lifecycle: incident firing, task assignment, departure.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/wayfarer/internal/agents"
	"github.com/talgya/wayfarer/internal/items"
	"github.com/talgya/wayfarer/internal/shopping"
	"github.com/talgya/wayfarer/internal/social"
	"github.com/talgya/wayfarer/internal/visits"
	"github.com/talgya/wayfarer/internal/world"
)

// How long a party stays before being sent home regardless of progress.
const maxStayTicks = TicksPerSimDay / 2

// witnessRange is how far away a trade can still be observed, in hexes.
const witnessRange = 8

// fireDueIncidents thins an overloaded queue, then spawns a party for every
// incident whose fire-tick has passed.
func (s *Simulation) fireDueIncidents(tick uint64) {
	if s.Queue.Thin(tick) {
		s.Stats.QueueThinned++
		s.recordEvent(tick, "queue", "incident queue overloaded, thinned near-term visits")
		slog.Info("incident queue thinned", "remaining", s.Queue.Len())
	}

	for _, inc := range s.Queue.PopDue(tick) {
		s.fireIncident(inc, tick)
	}
}

// fireIncident spawns the visitor party for one incident.
func (s *Simulation) fireIncident(inc visits.QueuedIncident, tick uint64) {
	faction, ok := s.FactionIndex[inc.Faction]
	if !ok || faction.HostileToPlayer() {
		// Relations can sour between queueing and firing.
		return
	}

	size := 3 + s.rng.Intn(4)
	if inc.Category == visits.CategoryTraders {
		size = 6 + s.rng.Intn(5)
	}

	entry := s.partyEntry(inc.Faction)
	members := s.Spawner.SpawnParty(size, inc.Faction, entry)
	party := &Party{
		Coord:   visits.NewCoordinator(inc.Faction, members, tick),
		Tasks:   make(map[agents.ActorID]*shopping.PurchaseTask, size),
		LeaveBy: tick + maxStayTicks,
	}
	for _, m := range members {
		s.assignTask(party, m)
	}
	s.Parties = append(s.Parties, party)

	s.Stats.VisitsArrived++
	s.recordEvent(tick, "visit", fmt.Sprintf("%d visitors arrive from %s", size, faction.Name))
	slog.Info("visitor party arrived",
		"faction", faction.Name, "size", size, "category", visits.CategoryName(inc.Category))
}

// partyEntry picks where a faction's party appears: its nearest site, or
// the map edge when the faction has none.
func (s *Simulation) partyEntry(faction social.FactionID) world.HexCoord {
	sites := s.Sites.ByFaction(faction)
	if len(sites) == 0 {
		return world.HexCoord{Q: s.WorldMap.Radius, R: 0}
	}
	best := sites[0].Position
	bestDist := world.Distance(best, s.Market.Center)
	for _, site := range sites[1:] {
		if d := world.Distance(site.Position, s.Market.Center); d < bestDist {
			best = site.Position
			bestDist = d
		}
	}
	return best
}

// assignTask gives a visitor a purchase task for a random unreserved shelf
// stack. Visitors with nothing to buy just linger with the party.
func (s *Simulation) assignTask(p *Party, actor *agents.Actor) {
	var choices []*items.Stack
	for _, placed := range s.Market.Shelf {
		if !s.Market.Buyable(actor, placed.Stack) {
			continue
		}
		if _, taken := s.Market.ReservedBy(placed.Stack.ID); taken {
			continue
		}
		choices = append(choices, placed.Stack)
	}
	if len(choices) == 0 {
		return
	}
	target := choices[s.rng.Intn(len(choices))]

	p.Tasks[actor.ID] = shopping.NewPurchaseTask(actor, target, s.Market, s.rng, shopping.Hooks{
		Witnesses:   s.witnessesFor,
		Registrar:   &goodwillRegistrar{sim: s},
		Coordinator: p.Coord,
		Event: func(desc string) {
			s.recordEvent(s.LastTick, "trade", desc)
		},
	})
}

// advanceParty runs one tick of every member's task.
func (s *Simulation) advanceParty(p *Party, tick uint64) {
	for _, m := range p.Coord.Members {
		if !m.Spawned {
			continue
		}
		task, ok := p.Tasks[m.ID]
		if !ok {
			continue
		}
		task.Advance()
		if task.Succeeded() {
			// A satisfied customer may go back for more.
			delete(p.Tasks, m.ID)
			if s.rng.Float64() < 0.25 && m.SilverStack() != nil {
				s.assignTask(p, m)
			}
		} else if task.Finished() {
			delete(p.Tasks, m.ID)
		}
	}
}

// departFinishedParties sends home every party that is done shopping or has
// overstayed, and tallies what it spent.
func (s *Simulation) departFinishedParties(tick uint64) {
	remaining := s.Parties[:0]
	for _, p := range s.Parties {
		if len(p.Tasks) > 0 && tick < p.LeaveBy {
			remaining = append(remaining, p)
			continue
		}
		// Tasks still running at LeaveBy are aborted so their shelf
		// reservations come free again.
		for _, task := range p.Tasks {
			task.Cancel()
		}
		for _, m := range p.Coord.Members {
			m.Spawned = false
			for _, id := range m.Guest.Purchased {
				s.PurchaseLog = append(s.PurchaseLog, PurchaseRecord{
					Tick: tick, ActorID: m.ID, StackID: id,
				})
			}
		}
		s.Stats.ItemsSold += p.Coord.ItemsSold
		s.Stats.SilverEarned += p.Coord.SilverSpent

		faction := s.FactionIndex[p.Coord.Faction]
		name := "unknown"
		if faction != nil {
			name = faction.Name
		}
		s.recordEvent(tick, "visit", fmt.Sprintf("party from %s departs: %d items bought for %d silver",
			name, p.Coord.ItemsSold, p.Coord.SilverSpent))
		slog.Info("visitor party departed",
			"faction", name, "items_sold", p.Coord.ItemsSold, "silver_spent", p.Coord.SilverSpent)
	}
	s.Parties = remaining
}

// witnessesFor returns other visitors close enough to see a trade happen.
func (s *Simulation) witnessesFor(buyer *agents.Actor) []*agents.Actor {
	var out []*agents.Actor
	for _, p := range s.Parties {
		for _, m := range p.Coord.Members {
			if m == buyer || !m.Spawned {
				continue
			}
			if world.Distance(m.Position, buyer.Position) <= witnessRange {
				out = append(out, m)
			}
		}
	}
	return out
}
