// Package shopping provides the colony marketplace and the visitor
// purchase task.
package shopping

import (
	"github.com/google/uuid"

	"github.com/talgya/wayfarer/internal/agents"
	"github.com/talgya/wayfarer/internal/items"
	"github.com/talgya/wayfarer/internal/world"
)

// Placed is a stack sitting somewhere on the map.
type Placed struct {
	Stack    *items.Stack   `json:"stack"`
	Position world.HexCoord `json:"position"`
}

// Marketplace is the colony's trade zone: stacks set out for sale, stacks
// dropped on the ground, and the cooperative reservation registry that
// keeps two tasks off the same target.
type Marketplace struct {
	Center world.HexCoord

	Shelf  []*Placed // For sale
	Ground []*Placed // Dropped in the world (spent silver, rejected buys)

	forbidden map[uuid.UUID]bool
	reserved  map[uuid.UUID]agents.ActorID
}

// NewMarketplace creates an empty marketplace centered at the given hex.
func NewMarketplace(center world.HexCoord) *Marketplace {
	return &Marketplace{
		Center:    center,
		forbidden: make(map[uuid.UUID]bool),
		reserved:  make(map[uuid.UUID]agents.ActorID),
	}
}

// Stock puts a stack up for sale at a position.
func (m *Marketplace) Stock(stack *items.Stack, pos world.HexCoord) {
	m.Shelf = append(m.Shelf, &Placed{Stack: stack, Position: pos})
}

// Find returns the shelf entry for a stack identity, or nil if it no longer
// exists (sold out, despawned).
func (m *Marketplace) Find(id uuid.UUID) *Placed {
	for _, p := range m.Shelf {
		if p.Stack.ID == id {
			return p
		}
	}
	return nil
}

// Forbid marks a stack as not for sale. Visitors mid-task will notice and
// give up.
func (m *Marketplace) Forbid(id uuid.UUID) {
	m.forbidden[id] = true
}

// Forbidden reports whether a stack has been marked not for sale.
func (m *Marketplace) Forbidden(id uuid.UUID) bool {
	return m.forbidden[id]
}

// Reserve claims a stack for an actor. Only one actor may hold the claim;
// a repeat call by the holder succeeds.
func (m *Marketplace) Reserve(id uuid.UUID, actor agents.ActorID) bool {
	if holder, ok := m.reserved[id]; ok {
		return holder == actor
	}
	m.reserved[id] = actor
	return true
}

// Release drops an actor's claim on a stack, if it holds one.
func (m *Marketplace) Release(id uuid.UUID, actor agents.ActorID) {
	if holder, ok := m.reserved[id]; ok && holder == actor {
		delete(m.reserved, id)
	}
}

// ReservedBy returns the actor holding a claim on the stack, if any.
func (m *Marketplace) ReservedBy(id uuid.UUID) (agents.ActorID, bool) {
	holder, ok := m.reserved[id]
	return holder, ok
}

// Buyable is the default eligibility check: the stack must still be on the
// shelf, not forbidden, not empty, and not be currency.
func (m *Marketplace) Buyable(_ *agents.Actor, stack *items.Stack) bool {
	if stack == nil || stack.Count <= 0 {
		return false
	}
	if stack.Kind.Category == items.CategoryCurrency {
		return false
	}
	if m.forbidden[stack.ID] {
		return false
	}
	return m.Find(stack.ID) != nil
}

// Take splits count units off a shelf stack as a new instance, removing the
// shelf entry when the source is emptied.
func (m *Marketplace) Take(stack *items.Stack, count int) *items.Stack {
	bought := stack.Split(count)
	if stack.Count <= 0 {
		for i, p := range m.Shelf {
			if p.Stack == stack {
				m.Shelf = append(m.Shelf[:i], m.Shelf[i+1:]...)
				break
			}
		}
	}
	return bought
}

// DropAt places a stack on the ground at a position. Reports success; a nil
// or empty stack cannot be dropped.
func (m *Marketplace) DropAt(stack *items.Stack, pos world.HexCoord) bool {
	if stack == nil || stack.Count <= 0 {
		return false
	}
	m.Ground = append(m.Ground, &Placed{Stack: stack, Position: pos})
	return true
}

// GroundSilver sums silver dropped on the ground — the colony's takings.
func (m *Marketplace) GroundSilver() int {
	total := 0
	for _, p := range m.Ground {
		if p.Stack.Kind == items.Silver {
			total += p.Stack.Count
		}
	}
	return total
}
