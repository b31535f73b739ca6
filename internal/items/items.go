// Package items provides item kinds, categories, and countable stacks.
package items

import (
	"fmt"

	"github.com/google/uuid"
)

// Category classifies how an item is acquired when bought.
// Checked in fixed priority order: apparel, weapon, then generic goods.
type Category uint8

const (
	CategoryGoods    Category = iota // Carried in the generic inventory
	CategoryApparel                  // Worn immediately when bought
	CategoryWeapon                   // Equipped as primary when bought
	CategoryCurrency                 // Silver — the medium of exchange
)

// Kind describes one item type.
type Kind struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	MarketValue int      `json:"market_value"` // Silver per unit
	MaxCarry    int      `json:"max_carry"`    // Units one actor can carry
	EquipSound  string   `json:"equip_sound,omitempty"`
}

// The item kinds known to the simulation.
var (
	Silver    = &Kind{Name: "silver", Category: CategoryCurrency, MarketValue: 1, MaxCarry: 10000}
	Pemmican  = &Kind{Name: "pemmican", Category: CategoryGoods, MarketValue: 2, MaxCarry: 120}
	Medicine  = &Kind{Name: "medicine", Category: CategoryGoods, MarketValue: 14, MaxCarry: 30}
	Cloth     = &Kind{Name: "cloth", Category: CategoryGoods, MarketValue: 3, MaxCarry: 200}
	Parka     = &Kind{Name: "parka", Category: CategoryApparel, MarketValue: 55, MaxCarry: 3}
	Duster    = &Kind{Name: "duster", Category: CategoryApparel, MarketValue: 70, MaxCarry: 3}
	Knife     = &Kind{Name: "knife", Category: CategoryWeapon, MarketValue: 40, MaxCarry: 2, EquipSound: "interact_blade"}
	Longbow   = &Kind{Name: "longbow", Category: CategoryWeapon, MarketValue: 85, MaxCarry: 2, EquipSound: "interact_bow"}
	Sculpture = &Kind{Name: "sculpture", Category: CategoryGoods, MarketValue: 120, MaxCarry: 5}
)

// Kinds lists every known kind, for seeding and lookup.
var Kinds = []*Kind{Silver, Pemmican, Medicine, Cloth, Parka, Duster, Knife, Longbow, Sculpture}

// KindByName returns the kind with the given name, or nil.
func KindByName(name string) *Kind {
	for _, k := range Kinds {
		if k.Name == name {
			return k
		}
	}
	return nil
}

// Stack is a countable quantity of one item kind treated as a single unit.
// Every stack carries a stable instance identity.
type Stack struct {
	ID    uuid.UUID `json:"id"`
	Kind  *Kind     `json:"kind"`
	Count int       `json:"count"`
}

// NewStack creates a stack of the given kind and count with a fresh identity.
func NewStack(kind *Kind, count int) *Stack {
	return &Stack{ID: uuid.New(), Kind: kind, Count: count}
}

// Split removes n units from the stack and returns them as a new stack with
// its own identity. n is clamped to the stack size.
func (s *Stack) Split(n int) *Stack {
	if n > s.Count {
		n = s.Count
	}
	s.Count -= n
	return NewStack(s.Kind, n)
}

// String returns a short description, e.g. "pemmican x75".
func (s *Stack) String() string {
	return fmt.Sprintf("%s x%d", s.Kind.Name, s.Count)
}
