// Package agents provides visitor actors: carried stacks, equipment,
// and the per-guest purchase ledger.
package agents

import (
	"github.com/talgya/wayfarer/internal/items"
	"github.com/talgya/wayfarer/internal/social"
	"github.com/talgya/wayfarer/internal/world"
)

// ActorID is a unique identifier for an actor.
type ActorID uint64

// Actor is a simulated character able to carry items and run tasks.
type Actor struct {
	ID      ActorID          `json:"id"`
	Name    string           `json:"name"`
	Faction social.FactionID `json:"faction"`

	Position world.HexCoord `json:"position"`
	Spawned  bool           `json:"spawned"` // False once despawned (left the map)

	// Carried items, including the silver stack.
	Inventory Inventory `json:"inventory"`

	// Equipment: worn apparel and the primary weapon.
	Apparel []*items.Stack `json:"apparel"`
	Primary *items.Stack   `json:"primary,omitempty"`

	// Guest ledger — which item instances this visitor bought here.
	Guest *GuestRecord `json:"guest,omitempty"`
}

// SilverStack returns the first carried stack of silver, or nil.
func (a *Actor) SilverStack() *items.Stack {
	for _, s := range a.Inventory.Stacks {
		if s.Kind == items.Silver {
			return s
		}
	}
	return nil
}

// CarryCapacityFor returns how many more units of the given kind the actor
// can still carry.
func (a *Actor) CarryCapacityFor(kind *items.Kind) int {
	carried := 0
	for _, s := range a.Inventory.Stacks {
		if s.Kind == kind {
			carried += s.Count
		}
	}
	remaining := kind.MaxCarry - carried
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Wear puts an apparel stack on the actor.
func (a *Actor) Wear(stack *items.Stack) {
	a.Apparel = append(a.Apparel, stack)
}

// EquipPrimary makes the given stack the actor's primary weapon and returns
// the previously equipped one, if any.
func (a *Actor) EquipPrimary(stack *items.Stack) *items.Stack {
	old := a.Primary
	a.Primary = stack
	return old
}

// Inventory is a generic carried-items container with a stack slot limit.
type Inventory struct {
	Stacks   []*items.Stack `json:"stacks"`
	MaxSlots int            `json:"max_slots"`
}

// Add attempts to store a stack, merging into an existing stack of the same
// kind first. Returns how many units were actually accepted; the given
// stack's count is reduced by the accepted amount.
func (inv *Inventory) Add(stack *items.Stack) int {
	if stack == nil || stack.Count <= 0 {
		return 0
	}
	for _, s := range inv.Stacks {
		if s.Kind == stack.Kind {
			accepted := stack.Count
			s.Count += accepted
			stack.Count = 0
			return accepted
		}
	}
	if inv.MaxSlots > 0 && len(inv.Stacks) >= inv.MaxSlots {
		return 0 // container full
	}
	accepted := stack.Count
	inv.Stacks = append(inv.Stacks, stack)
	return accepted
}

// Remove takes a stack out of the container. Reports whether it was present.
func (inv *Inventory) Remove(stack *items.Stack) bool {
	for i, s := range inv.Stacks {
		if s == stack {
			inv.Stacks = append(inv.Stacks[:i], inv.Stacks[i+1:]...)
			return true
		}
	}
	return false
}
