package visits

import (
	"github.com/talgya/wayfarer/internal/agents"
	"github.com/talgya/wayfarer/internal/social"
)

// Coordinator escorts one visitor party through its stay: who belongs to
// the group and what the group has bought so far.
type Coordinator struct {
	Faction     social.FactionID `json:"faction"`
	Members     []*agents.Actor  `json:"-"`
	ArrivedTick uint64           `json:"arrived_tick"`

	// Group purchase totals.
	ItemsSold   int `json:"items_sold"`
	SilverSpent int `json:"silver_spent"`
}

// NewCoordinator creates a coordinator for a party that arrived at the
// given tick.
func NewCoordinator(faction social.FactionID, members []*agents.Actor, tick uint64) *Coordinator {
	return &Coordinator{Faction: faction, Members: members, ArrivedTick: tick}
}

// NotifyItemSold records a member's purchase against the group totals.
func (c *Coordinator) NotifyItemSold(count, price int) {
	c.ItemsSold += count
	c.SilverSpent += price
}

// Size returns the number of members in the party.
func (c *Coordinator) Size() int {
	return len(c.Members)
}
