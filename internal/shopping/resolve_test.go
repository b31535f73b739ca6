package shopping

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/wayfarer/internal/agents"
	"github.com/talgya/wayfarer/internal/items"
	"github.com/talgya/wayfarer/internal/world"
)

// resolveNow fast-forwards a task to its resolution by standing the actor
// next to the target and skipping the browse wait.
func resolveNow(t *testing.T, task *PurchaseTask) {
	t.Helper()
	task.Actor.Position = task.Market.Find(task.Target.ID).Position
	runToCompletion(t, task)
	require.True(t, task.Succeeded())
}

func carriedCount(a *agents.Actor, kind *items.Kind) int {
	total := 0
	for _, s := range a.Inventory.Stacks {
		if s.Kind == kind {
			total += s.Count
		}
	}
	return total
}

func TestResolveAffordabilityExample(t *testing.T) {
	// 100 silver, unit value 10, price factor 0.85: itemCost 8.5,
	// maxAffordable 11. With 3 on the shelf, whatever quantity the guest
	// wants is capped at 3 and charged floor(count*8.5).
	market := NewMarketplace(world.HexCoord{})
	kind := &items.Kind{Name: "tonic", Category: items.CategoryGoods, MarketValue: 10, MaxCarry: 10}
	target := items.NewStack(kind, 3)
	market.Stock(target, world.HexCoord{})

	actor := testActor(100)
	task := NewPurchaseTask(actor, target, market, rand.New(rand.NewSource(7)), Hooks{})
	resolveNow(t, task)

	bought := carriedCount(actor, kind)
	require.Greater(t, bought, 0)
	require.LessOrEqual(t, bought, 3)

	wantPrice := int(float64(bought) * 10 * PriceFactor)
	silver := actor.SilverStack()
	require.NotNil(t, silver)
	assert.Equal(t, 100-wantPrice, silver.Count, "charged exactly floor(count * unitValue * factor)")
	assert.Equal(t, wantPrice, market.GroundSilver(), "spent silver is dropped in the world, not destroyed")
	assert.Len(t, actor.Guest.Purchased, 1)
}

func TestResolveDeterministicSingleUnit(t *testing.T) {
	// 9 silver, unit value 10: itemCost 8.5, maxAffordable 1, so the
	// desired quantity is always exactly 1. Price floor(8.5) = 8.
	market := NewMarketplace(world.HexCoord{})
	kind := &items.Kind{Name: "tonic", Category: items.CategoryGoods, MarketValue: 10, MaxCarry: 10}
	target := items.NewStack(kind, 3)
	market.Stock(target, world.HexCoord{})

	actor := testActor(9)
	task := NewPurchaseTask(actor, target, market, rand.New(rand.NewSource(7)), Hooks{})
	resolveNow(t, task)

	assert.Equal(t, 1, carriedCount(actor, kind))
	assert.Equal(t, 1, actor.SilverStack().Count)
	assert.Equal(t, 8, market.GroundSilver())
	assert.Equal(t, 2, target.Count, "remaining shelf stock")
}

func TestResolveNeverOverdraws(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		market := NewMarketplace(world.HexCoord{})
		kind := &items.Kind{Name: "tonic", Category: items.CategoryGoods, MarketValue: 7, MaxCarry: 50}
		target := items.NewStack(kind, 40)
		market.Stock(target, world.HexCoord{})

		actor := testActor(53)
		task := NewPurchaseTask(actor, target, market, rand.New(rand.NewSource(seed)), Hooks{})
		resolveNow(t, task)

		silver := actor.SilverStack()
		if silver != nil {
			assert.GreaterOrEqual(t, silver.Count, 0)
		}
		assert.LessOrEqual(t, market.GroundSilver(), 53)
		assert.Equal(t, 53-market.GroundSilver(), silver.Count)
	}
}

func TestResolveAbortsWithoutSilver(t *testing.T) {
	market := NewMarketplace(world.HexCoord{})
	kind := &items.Kind{Name: "tonic", Category: items.CategoryGoods, MarketValue: 10, MaxCarry: 10}
	target := items.NewStack(kind, 3)
	market.Stock(target, world.HexCoord{})

	actor := testActor(0) // no silver stack at all
	task := NewPurchaseTask(actor, target, market, rand.New(rand.NewSource(7)), Hooks{})
	resolveNow(t, task)

	assert.Equal(t, 0, carriedCount(actor, kind))
	assert.Equal(t, 3, target.Count)
	assert.Empty(t, actor.Guest.Purchased)
}

func TestResolveAbortsWhenUnaffordable(t *testing.T) {
	market := NewMarketplace(world.HexCoord{})
	kind := &items.Kind{Name: "tonic", Category: items.CategoryGoods, MarketValue: 10, MaxCarry: 10}
	target := items.NewStack(kind, 3)
	market.Stock(target, world.HexCoord{})

	actor := testActor(8) // itemCost 8.5 — can't afford one
	task := NewPurchaseTask(actor, target, market, rand.New(rand.NewSource(7)), Hooks{})
	resolveNow(t, task)

	assert.Equal(t, 0, carriedCount(actor, kind))
	assert.Equal(t, 8, actor.SilverStack().Count)
	assert.Equal(t, 3, target.Count)
}

func TestResolveAbortsOnNonPositiveValue(t *testing.T) {
	market := NewMarketplace(world.HexCoord{})
	kind := &items.Kind{Name: "scrap", Category: items.CategoryGoods, MarketValue: 0, MaxCarry: 10}
	target := items.NewStack(kind, 3)
	market.Stock(target, world.HexCoord{})

	actor := testActor(100)
	task := NewPurchaseTask(actor, target, market, rand.New(rand.NewSource(7)), Hooks{})
	resolveNow(t, task)

	assert.Equal(t, 0, carriedCount(actor, kind))
	assert.Equal(t, 100, actor.SilverStack().Count)
}

func TestResolvePanicsOnZeroRequestedCount(t *testing.T) {
	market := NewMarketplace(world.HexCoord{})
	kind := &items.Kind{Name: "tonic", Category: items.CategoryGoods, MarketValue: 10, MaxCarry: 10}
	target := items.NewStack(kind, 0)
	market.Stock(target, world.HexCoord{})

	actor := testActor(100)
	actor.Position = world.HexCoord{}
	// Force the guard open: an empty stack is normally filtered long before
	// resolution, so reaching it is a caller bug.
	task := NewPurchaseTask(actor, target, market, rand.New(rand.NewSource(7)), Hooks{
		Buyable: func(*agents.Actor, *items.Stack) bool { return true },
	})

	require.Panics(t, func() {
		for i := 0; i < 1000 && !task.Finished(); i++ {
			task.Advance()
		}
	})
}

func TestResolveApparelIsWorn(t *testing.T) {
	market := NewMarketplace(world.HexCoord{})
	target := items.NewStack(items.Parka, 1)
	market.Stock(target, world.HexCoord{})

	actor := testActor(200)
	task := NewPurchaseTask(actor, target, market, rand.New(rand.NewSource(7)), Hooks{})
	resolveNow(t, task)

	require.Len(t, actor.Apparel, 1)
	assert.Equal(t, items.Parka, actor.Apparel[0].Kind)
	assert.Empty(t, market.Shelf, "sold-out shelf entry is removed")
	assert.Len(t, actor.Guest.Purchased, 1)
	assert.True(t, actor.Guest.HasPurchased(actor.Apparel[0].ID))
}

func TestResolveWeaponStashesOldPrimary(t *testing.T) {
	market := NewMarketplace(world.HexCoord{})
	target := items.NewStack(items.Longbow, 1)
	market.Stock(target, world.HexCoord{})

	actor := testActor(200)
	oldKnife := items.NewStack(items.Knife, 1)
	actor.Primary = oldKnife

	var sounds []string
	task := NewPurchaseTask(actor, target, market, rand.New(rand.NewSource(7)), Hooks{
		Event: func(desc string) { sounds = append(sounds, desc) },
	})
	resolveNow(t, task)

	require.NotNil(t, actor.Primary)
	assert.Equal(t, items.Longbow, actor.Primary.Kind)
	assert.Equal(t, 1, carriedCount(actor, items.Knife), "old weapon moved to inventory")
	require.NotEmpty(t, sounds)
	assert.Contains(t, sounds[0], "interact_bow")
}

func TestResolveFullContainerDropsPurchase(t *testing.T) {
	market := NewMarketplace(world.HexCoord{})
	kind := &items.Kind{Name: "tonic", Category: items.CategoryGoods, MarketValue: 10, MaxCarry: 10}
	target := items.NewStack(kind, 3)
	market.Stock(target, world.HexCoord{})

	actor := testActor(100)
	// Fill every inventory slot with other goods so nothing more fits.
	actor.Inventory.MaxSlots = 1 // silver already occupies the only slot

	task := NewPurchaseTask(actor, target, market, rand.New(rand.NewSource(7)), Hooks{})
	resolveNow(t, task)

	assert.Equal(t, 0, carriedCount(actor, kind))
	assert.Equal(t, 100, actor.SilverStack().Count, "nothing acquired, nothing charged")
	assert.Empty(t, actor.Guest.Purchased)

	// The split-off stack is on the ground, not destroyed.
	dropped := 0
	for _, p := range market.Ground {
		if p.Stack.Kind == kind {
			dropped += p.Stack.Count
		}
	}
	assert.Greater(t, dropped, 0)
	assert.Equal(t, 3, dropped+target.Count, "no units vanish")
}

func TestResolveNotifiesHooks(t *testing.T) {
	market := NewMarketplace(world.HexCoord{})
	kind := &items.Kind{Name: "tonic", Category: items.CategoryGoods, MarketValue: 10, MaxCarry: 10}
	target := items.NewStack(kind, 3)
	market.Stock(target, world.HexCoord{})

	witness := testActor(0)
	var registered []*agents.Actor
	reg := registrarFunc(func(buyer *agents.Actor, bought *items.Stack, witnesses []*agents.Actor) {
		if len(witnesses) == 0 {
			return
		}
		registered = witnesses
	})
	coord := &countingCoordinator{}

	actor := testActor(100)
	task := NewPurchaseTask(actor, target, market, rand.New(rand.NewSource(7)), Hooks{
		Witnesses:   func(*agents.Actor) []*agents.Actor { return []*agents.Actor{witness} },
		Registrar:   reg,
		Coordinator: coord,
	})
	resolveNow(t, task)

	require.Len(t, registered, 1)
	assert.Same(t, witness, registered[0])
	assert.Equal(t, carriedCount(actor, kind), coord.count)
	assert.Equal(t, market.GroundSilver(), coord.price)
}

type registrarFunc func(*agents.Actor, *items.Stack, []*agents.Actor)

func (f registrarFunc) RegisterPurchase(b *agents.Actor, s *items.Stack, w []*agents.Actor) { f(b, s, w) }

type countingCoordinator struct {
	count int
	price int
}

func (c *countingCoordinator) NotifyItemSold(count, price int) {
	c.count += count
	c.price += price
}
