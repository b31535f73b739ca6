package visits

import (
	"log/slog"
	"math/rand"
	"sort"

	"github.com/talgya/wayfarer/internal/social"
	"github.com/talgya/wayfarer/internal/world"
)

// NoBasesLeft is returned when a faction has no reachable settlement sites.
// It is never cached, so the estimate is retried once sites become known.
const NoBasesLeft = -1.0

// ArrivalEstimator estimates travel ticks from a site to a destination.
type ArrivalEstimator func(from, to world.HexCoord) int

// Planner decides when future visits are queued. It owns the travel-days
// cache for its map; the cache is keyed by faction only and never
// invalidated, so a faction gaining a closer site keeps its old estimate
// for the life of the planner.
type Planner struct {
	Factions []*social.Faction
	Sites    *social.SiteIndex
	Queue    *IncidentQueue
	Home     world.HexCoord // The player colony — where visitors go

	Estimate ArrivalEstimator

	ticksPerDay     uint64
	rng             *rand.Rand
	travelDaysCache map[social.FactionID]float64
}

// NewPlanner creates a visit planner for one map.
func NewPlanner(factions []*social.Faction, sites *social.SiteIndex, queue *IncidentQueue, home world.HexCoord, estimate ArrivalEstimator, ticksPerDay uint64, rng *rand.Rand) *Planner {
	return &Planner{
		Factions:        factions,
		Sites:           sites,
		Queue:           queue,
		Home:            home,
		Estimate:        estimate,
		ticksPerDay:     ticksPerDay,
		rng:             rng,
		travelDaysCache: make(map[social.FactionID]float64),
	}
}

// TravelDays returns the minimum estimated travel time in days from the
// faction's sites to the colony. Memoized per faction; NoBasesLeft when the
// faction has no site with a positive estimate.
func (p *Planner) TravelDays(f *social.Faction) float64 {
	if days, ok := p.travelDaysCache[f.ID]; ok {
		return days
	}

	best := 0
	for _, site := range p.Sites.ByFaction(f.ID) {
		ticks := p.Estimate(site.Position, p.Home)
		if ticks <= 0 {
			continue
		}
		if best == 0 || ticks < best {
			best = ticks
		}
	}
	if best <= 0 {
		return NoBasesLeft
	}

	days := float64(best) / float64(p.ticksPerDay)
	p.travelDaysCache[f.ID] = days
	return days
}

// QueueVisit inserts a pending visit incident firing after delayDays.
// Both planned and manually triggered visits come through here.
func (p *Planner) QueueVisit(now uint64, delayDays float64, faction social.FactionID, category IncidentCategory) {
	fire := now + uint64(delayDays*float64(p.ticksPerDay))
	p.Queue.Add(QueuedIncident{FireTick: fire, Faction: faction, Category: category})
}

// PlanDailyVisits queues future visits, closest factions first. Called once
// per simulated day. Returns the number of visits queued.
func (p *Planner) PlanDailyVisits(now uint64) int {
	type candidate struct {
		faction *social.Faction
		days    float64
	}
	var candidates []candidate
	for _, f := range p.Factions {
		if f.IsPlayer || f.HostileToPlayer() {
			continue
		}
		days := p.TravelDays(f)
		if days == NoBasesLeft {
			continue
		}
		candidates = append(candidates, candidate{f, days})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].days < candidates[j].days
	})

	budget := 1 + p.rng.Intn(3)
	delay := float64(10 + p.rng.Intn(7)) // first visit 10–16 days out

	queued := 0
	for _, c := range candidates {
		if budget <= 0 {
			break
		}
		p.QueueVisit(now, delay, c.faction.ID, CategoryVisitors)
		slog.Debug("visit planned",
			"faction", c.faction.Name, "in_days", delay, "travel_days", c.days)
		delay += float64(15 + p.rng.Intn(11)) // subsequent visits 15–25 days apart
		budget--
		queued++
	}
	return queued
}
