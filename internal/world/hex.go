// Package world provides the hex grid, terrain, and travel estimation.
// Uses axial coordinates (q, r) for the hex grid.
package world

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

// StepToward returns the neighbor of from that minimizes hex distance
// to the destination. Returns from unchanged when already there.
func StepToward(from, to HexCoord) HexCoord {
	if from == to {
		return from
	}
	best := from
	bestDist := Distance(from, to)
	for _, d := range HexNeighborDirections {
		n := HexCoord{Q: from.Q + d.Q, R: from.R + d.R}
		if nd := Distance(n, to); nd < bestDist {
			best = n
			bestDist = nd
		}
	}
	return best
}

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainPlains   Terrain = iota // Open grassland — fast travel
	TerrainForest                  // Slower going under canopy
	TerrainMountain                // Passes only, slowest land travel
	TerrainCoast                   // Land hex adjacent to ocean
	TerrainDesert                  // Harsh but flat
	TerrainSwamp                   // Slow, wet ground
	TerrainTundra                  // Frozen flats
	TerrainOcean                   // Impassable
)

// Hex represents a single tile on the world map.
type Hex struct {
	Coord   HexCoord `json:"coord"`
	Terrain Terrain  `json:"terrain"`

	// Elevation and climate data (set during world generation).
	Elevation   float64 `json:"elevation"`   // 0.0 (sea level) to 1.0 (peak)
	Rainfall    float64 `json:"rainfall"`    // 0.0 (arid) to 1.0 (tropical)
	Temperature float64 `json:"temperature"` // 0.0 (frozen) to 1.0 (hot)

	// Settlement site on this hex, if any.
	SiteID *uint64 `json:"site_id,omitempty"`
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// TerrainName returns a human-readable terrain name.
func TerrainName(t Terrain) string {
	switch t {
	case TerrainPlains:
		return "plains"
	case TerrainForest:
		return "forest"
	case TerrainMountain:
		return "mountain"
	case TerrainCoast:
		return "coast"
	case TerrainDesert:
		return "desert"
	case TerrainSwamp:
		return "swamp"
	case TerrainTundra:
		return "tundra"
	case TerrainOcean:
		return "ocean"
	default:
		return "unknown"
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
