package shopping

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/wayfarer/internal/agents"
	"github.com/talgya/wayfarer/internal/items"
	"github.com/talgya/wayfarer/internal/world"
)

// Visitors pay a discount on market value. Charging full price made guests
// leave with empty hands too often.
const PriceFactor = 0.85

// Browsing duration bounds, in ticks.
const (
	BrowseMinTicks = 75
	BrowseMaxTicks = 300
)

// InteractionRange is how close (in hexes) an actor must stand to its target.
const InteractionRange = 1

// TaskState is the current step of a purchase task. States advance strictly
// forward; Done and Failed are terminal.
type TaskState uint8

const (
	StateReserve TaskState = iota // Claim the target stack
	StateTravel                   // Walk to within interaction range
	StateBrowse                   // Linger a randomized while
	StateResolve                  // Run the purchase transaction
	StateDone
	StateFailed
)

// StateName returns a human-readable task state name.
func StateName(s TaskState) string {
	switch s {
	case StateReserve:
		return "reserve"
	case StateTravel:
		return "travel"
	case StateBrowse:
		return "browse"
	case StateResolve:
		return "resolve"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TradeRegistrar reacts to a completed purchase — relationship and mood
// effects live behind it. Implementations must no-op without witnesses.
type TradeRegistrar interface {
	RegisterPurchase(buyer *agents.Actor, bought *items.Stack, witnesses []*agents.Actor)
}

// Coordinator tracks purchases at the visit-group level.
type Coordinator interface {
	NotifyItemSold(count, price int)
}

// Hooks are the injected collaborators of a purchase task. Every field is
// optional except Buyable, which defaults to the marketplace check.
type Hooks struct {
	// Buyable is the eligibility policy, re-checked every tick.
	Buyable func(*agents.Actor, *items.Stack) bool

	// Witnesses returns third parties eligible to observe a trade.
	Witnesses func(buyer *agents.Actor) []*agents.Actor

	Registrar   TradeRegistrar
	Coordinator Coordinator

	// Event receives notable occurrences (equip sounds, purchases).
	Event func(desc string)
}

// PurchaseTask walks an actor through buying one shelf stack:
// reserve → travel → browse → resolve. Advance drives it one tick at a
// time; the task suspends between states by returning.
type PurchaseTask struct {
	Actor  *agents.Actor
	Target *items.Stack
	Market *Marketplace

	state      TaskState
	browseLeft int
	rng        *rand.Rand
	hooks      Hooks
}

// NewPurchaseTask creates a task for the actor to buy from the target stack.
func NewPurchaseTask(actor *agents.Actor, target *items.Stack, market *Marketplace, rng *rand.Rand, hooks Hooks) *PurchaseTask {
	if hooks.Buyable == nil {
		hooks.Buyable = market.Buyable
	}
	return &PurchaseTask{
		Actor:      actor,
		Target:     target,
		Market:     market,
		state:      StateReserve,
		browseLeft: BrowseMinTicks + rng.Intn(BrowseMaxTicks-BrowseMinTicks+1),
		rng:        rng,
		hooks:      hooks,
	}
}

// State returns the task's current state.
func (t *PurchaseTask) State() TaskState {
	return t.state
}

// Finished reports whether the task reached a terminal state.
func (t *PurchaseTask) Finished() bool {
	return t.state == StateDone || t.state == StateFailed
}

// Succeeded reports whether the task ran its purchase resolution.
func (t *PurchaseTask) Succeeded() bool {
	return t.state == StateDone
}

// Advance runs one tick of the task. Safe to call after completion.
func (t *PurchaseTask) Advance() {
	if t.Finished() {
		return
	}

	// Guard, re-checked every tick regardless of state.
	if !t.Actor.Spawned || !t.hooks.Buyable(t.Actor, t.Target) {
		t.fail()
		return
	}

	switch t.state {
	case StateReserve:
		if !t.Market.Reserve(t.Target.ID, t.Actor.ID) {
			t.fail()
			return
		}
		t.state = StateTravel

	case StateTravel:
		placed := t.Market.Find(t.Target.ID)
		if placed == nil || t.Market.Forbidden(t.Target.ID) {
			t.fail()
			return
		}
		if world.Distance(t.Actor.Position, placed.Position) <= InteractionRange {
			t.state = StateBrowse
			return
		}
		t.Actor.Position = world.StepToward(t.Actor.Position, placed.Position)

	case StateBrowse:
		t.browseLeft--
		if t.browseLeft <= 0 {
			t.state = StateResolve
		}

	case StateResolve:
		t.resolve()
		t.Market.Release(t.Target.ID, t.Actor.ID)
		t.state = StateDone
	}
}

// Cancel aborts the task from outside (actor leaving, host shutdown),
// releasing the reservation. No-op once the task is finished.
func (t *PurchaseTask) Cancel() {
	if t.Finished() {
		return
	}
	t.fail()
}

// fail moves the task to its terminal failed state. No rollback: steps
// already completed stay completed.
func (t *PurchaseTask) fail() {
	t.Market.Release(t.Target.ID, t.Actor.ID)
	t.state = StateFailed
}

// resolve runs the purchase transaction. Expected shortfalls (no silver,
// can't afford, nothing accepted) end quietly — a guest who buys nothing is
// still a valid guest.
func (t *PurchaseTask) resolve() {
	target := t.Target
	if target.Count == 0 {
		// Upstream bug: resolution must never be reached for an empty stack.
		panic("shopping: purchase resolution with zero requested count")
	}

	unitValue := target.Kind.MarketValue
	if unitValue <= 0 {
		return
	}

	silver := t.Actor.SilverStack()
	if silver == nil {
		return
	}

	itemCost := float64(unitValue) * PriceFactor
	maxAffordable := int(float64(silver.Count) / itemCost)
	if maxAffordable < 1 {
		return
	}

	// Deliberately not always maximal — guests don't spend to the last coin.
	desired := 1 + t.rng.Intn(maxAffordable)

	count := target.Count
	if carry := t.Actor.CarryCapacityFor(target.Kind); carry < count {
		count = carry
	}
	if desired < count {
		count = desired
	}
	if count <= 0 {
		return
	}

	price := int(float64(count) * itemCost)
	if silver.Count < price {
		return
	}

	bought := t.Market.Take(target, count)
	acquired := 0

	switch target.Kind.Category {
	case items.CategoryApparel:
		t.Actor.Wear(bought)
		acquired = bought.Count

	case items.CategoryWeapon:
		if old := t.Actor.Primary; old != nil {
			t.Actor.Primary = nil
			if t.Actor.Inventory.Add(old) == 0 {
				slog.Warn("could not stash previous weapon, dropping it",
					"actor", t.Actor.Name, "weapon", old.Kind.Name)
				t.Market.DropAt(old, t.Actor.Position)
			}
		}
		t.Actor.EquipPrimary(bought)
		acquired = bought.Count
		if sound := target.Kind.EquipSound; sound != "" {
			t.event(t.Actor.Name + " tries out a " + target.Kind.Name + " (" + sound + ")")
		}

	default:
		acquired = t.Actor.Inventory.Add(bought)
	}

	if acquired > 0 {
		spent := silver.Split(price)
		t.Market.DropAt(spent, t.Actor.Position)
		t.Actor.Guest.RecordPurchase(bought.ID)
		t.event(fmt.Sprintf("%s buys %s x%d for %d silver", t.Actor.Name, bought.Kind.Name, acquired, price))

		if t.hooks.Registrar != nil {
			var witnesses []*agents.Actor
			if t.hooks.Witnesses != nil {
				witnesses = t.hooks.Witnesses(t.Actor)
			}
			t.hooks.Registrar.RegisterPurchase(t.Actor, bought, witnesses)
		}
		if t.hooks.Coordinator != nil {
			t.hooks.Coordinator.NotifyItemSold(acquired, price)
		}
		return
	}

	// Nothing accepted: the split-off stack must not vanish silently.
	if bought.Count > 0 && !t.Market.DropAt(bought, t.Actor.Position) {
		slog.Warn("failed to drop unacquired purchase",
			"actor", t.Actor.Name, "item", bought.Kind.Name, "count", bought.Count)
	}
}

func (t *PurchaseTask) event(desc string) {
	if t.hooks.Event != nil {
		t.hooks.Event(desc)
	}
}
