package social

import (
	"math/rand"
	"sort"

	"github.com/talgya/wayfarer/internal/world"
)

// SiteID is a unique identifier for a settlement site.
type SiteID = uint64

// Site represents a faction settlement on the world map. Visitor parties
// set out from their faction's nearest site.
type Site struct {
	ID       SiteID         `json:"id"`
	Name     string         `json:"name"`
	Faction  FactionID      `json:"faction"`
	Position world.HexCoord `json:"position"`
}

// SiteIndex holds all known settlement sites keyed by faction.
type SiteIndex struct {
	byFaction map[FactionID][]*Site
	all       []*Site
}

// NewSiteIndex creates an empty site index.
func NewSiteIndex() *SiteIndex {
	return &SiteIndex{byFaction: make(map[FactionID][]*Site)}
}

// Add registers a site.
func (idx *SiteIndex) Add(s *Site) {
	idx.byFaction[s.Faction] = append(idx.byFaction[s.Faction], s)
	idx.all = append(idx.all, s)
}

// Remove deletes a site, e.g. when a settlement is destroyed.
func (idx *SiteIndex) Remove(id SiteID) {
	for fid, sites := range idx.byFaction {
		for i, s := range sites {
			if s.ID == id {
				idx.byFaction[fid] = append(sites[:i], sites[i+1:]...)
				break
			}
		}
	}
	for i, s := range idx.all {
		if s.ID == id {
			idx.all = append(idx.all[:i], idx.all[i+1:]...)
			break
		}
	}
}

// ByFaction returns the sites belonging to a faction.
func (idx *SiteIndex) ByFaction(f FactionID) []*Site {
	return idx.byFaction[f]
}

// All returns every known site.
func (idx *SiteIndex) All() []*Site {
	return idx.all
}

var siteNames = []string{
	"Harrowgate", "Fenwick", "Duncairn", "Vossmere", "Redstrand",
	"Thornholt", "Gullwash", "Embervale", "Coldbarrow", "Wrenfield",
	"Maresden", "Oxlow", "Stagmoor", "Briarcote", "Netherharrow",
}

// PlaceSites scatters settlement sites for each non-player faction on land
// hexes away from the map center (where the player colony sits).
func PlaceSites(m *world.Map, factions []*Faction, seed int64) *SiteIndex {
	rng := rand.New(rand.NewSource(seed + 200))

	// Collect habitable hexes at least a third of the radius out.
	minDist := m.Radius / 3
	var candidates []world.HexCoord
	for coord, hex := range m.Hexes {
		if hex.Terrain == world.TerrainOcean || hex.Terrain == world.TerrainMountain {
			continue
		}
		if world.Distance(coord, world.HexCoord{}) < minDist {
			continue
		}
		candidates = append(candidates, coord)
	}
	// Map iteration order is random; sort for deterministic placement.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Q != candidates[j].Q {
			return candidates[i].Q < candidates[j].Q
		}
		return candidates[i].R < candidates[j].R
	})

	idx := NewSiteIndex()
	var nextID SiteID = 1
	nameCursor := 0

	for _, f := range factions {
		if f.IsPlayer {
			continue
		}
		count := 1 + rng.Intn(3)
		for i := 0; i < count && len(candidates) > 0; i++ {
			pick := rng.Intn(len(candidates))
			coord := candidates[pick]
			candidates = append(candidates[:pick], candidates[pick+1:]...)

			name := siteNames[nameCursor%len(siteNames)]
			nameCursor++

			site := &Site{ID: nextID, Name: name, Faction: f.ID, Position: coord}
			nextID++
			idx.Add(site)
			if hex := m.Get(coord); hex != nil {
				id := site.ID
				hex.SiteID = &id
			}
		}
	}

	return idx
}
