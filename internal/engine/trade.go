// Trade registration — relationship effects of witnessed purchases.
package engine

import (
	"github.com/talgya/wayfarer/internal/agents"
	"github.com/talgya/wayfarer/internal/items"
)

// Goodwill gained by the buyer's faction per witnessed purchase.
const goodwillPerTrade = 0.5

// goodwillRegistrar implements shopping.TradeRegistrar. A trade only
// registers when somebody saw it happen; unwitnessed trades change nothing.
type goodwillRegistrar struct {
	sim *Simulation
}

func (r *goodwillRegistrar) RegisterPurchase(buyer *agents.Actor, bought *items.Stack, witnesses []*agents.Actor) {
	if len(witnesses) == 0 {
		return
	}
	faction, ok := r.sim.FactionIndex[buyer.Faction]
	if !ok || faction.IsPlayer {
		return
	}
	faction.AdjustGoodwill(goodwillPerTrade)
}
