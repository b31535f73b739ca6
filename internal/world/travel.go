// Travel estimation — how long a visitor party takes to walk the overworld.
package world

// Base ticks for a party to cross one hex of easy ground.
const BaseTicksPerHex = 480

// terrainCost multiplies the base crossing time per terrain type.
func terrainCost(t Terrain) float64 {
	switch t {
	case TerrainForest, TerrainSwamp:
		return 1.5
	case TerrainMountain:
		return 2.5
	case TerrainDesert, TerrainTundra:
		return 1.2
	case TerrainOcean:
		return 0 // impassable — contributes nothing; handled by caller
	default:
		return 1.0
	}
}

// EstimateArrivalTicks estimates how many ticks a party needs to travel from
// one coordinate to another, walking the straight hex line and paying the
// terrain cost of each hex entered. Returns 0 when no land estimate exists
// (origin equals destination, or the line is entirely ocean).
func EstimateArrivalTicks(m *Map, from, to HexCoord) int {
	total := 0.0
	pos := from
	for pos != to {
		next := StepToward(pos, to)
		if next == pos {
			break
		}
		cost := 1.0
		if hex := m.Get(next); hex != nil {
			c := terrainCost(hex.Terrain)
			if c > 0 {
				cost = c
			}
		}
		total += BaseTicksPerHex * cost
		pos = next
	}
	return int(total)
}
