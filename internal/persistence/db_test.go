package persistence

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/wayfarer/internal/engine"
	"github.com/talgya/wayfarer/internal/social"
	"github.com/talgya/wayfarer/internal/visits"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestIncidentRoundtrip(t *testing.T) {
	db := testDB(t)

	queue := visits.NewIncidentQueue(engine.TicksPerSimDay)
	queue.Add(visits.QueuedIncident{FireTick: 300, Faction: 3, Category: visits.CategoryTraders})
	queue.Add(visits.QueuedIncident{FireTick: 100, Faction: 2, Category: visits.CategoryVisitors})
	require.NoError(t, db.SaveIncidents(queue))

	restored := visits.NewIncidentQueue(engine.TicksPerSimDay)
	require.NoError(t, db.LoadIncidents(restored))

	incs := restored.Incidents()
	require.Len(t, incs, 2)
	assert.Equal(t, uint64(100), incs[0].FireTick)
	assert.Equal(t, social.FactionID(2), incs[0].Faction)
	assert.Equal(t, visits.CategoryVisitors, incs[0].Category)
	assert.Equal(t, uint64(300), incs[1].FireTick)
	assert.Equal(t, visits.CategoryTraders, incs[1].Category)
}

func TestSaveIncidentsReplacesOldRows(t *testing.T) {
	db := testDB(t)

	queue := visits.NewIncidentQueue(engine.TicksPerSimDay)
	queue.Add(visits.QueuedIncident{FireTick: 100, Faction: 2})
	queue.Add(visits.QueuedIncident{FireTick: 200, Faction: 3})
	require.NoError(t, db.SaveIncidents(queue))

	queue.PopDue(150)
	require.NoError(t, db.SaveIncidents(queue))

	restored := visits.NewIncidentQueue(engine.TicksPerSimDay)
	require.NoError(t, db.LoadIncidents(restored))
	require.Equal(t, 1, restored.Len())
	assert.Equal(t, uint64(200), restored.Incidents()[0].FireTick)
}

func TestFactionRoundtrip(t *testing.T) {
	db := testDB(t)

	saved := social.SeedFactions()
	saved[1].AdjustGoodwill(12.5)
	require.NoError(t, db.SaveFactions(saved))

	fresh := social.SeedFactions()
	require.NoError(t, db.LoadFactions(fresh))
	assert.Equal(t, saved[1].Goodwill, fresh[1].Goodwill)
	assert.Equal(t, saved[4].Goodwill, fresh[4].Goodwill)
}

func TestLoadFactionsTolerantOfMissingRows(t *testing.T) {
	db := testDB(t)

	factions := social.SeedFactions()
	require.NoError(t, db.LoadFactions(factions))
	assert.InDelta(t, 35, factions[1].Goodwill, 1e-9, "no rows saved: seeds untouched")
}

func TestMetaAndWorldState(t *testing.T) {
	db := testDB(t)

	assert.False(t, db.HasWorldState())

	require.NoError(t, db.SaveMeta("last_tick", "12345"))
	assert.True(t, db.HasWorldState())

	got, err := db.GetMeta("last_tick")
	require.NoError(t, err)
	assert.Equal(t, "12345", got)

	require.NoError(t, db.SaveMeta("last_tick", "99999"))
	got, err = db.GetMeta("last_tick")
	require.NoError(t, err)
	assert.Equal(t, "99999", got)
}

func TestPurchaseRoundtrip(t *testing.T) {
	db := testDB(t)

	first := engine.PurchaseRecord{Tick: 500, ActorID: 7, StackID: uuid.New()}
	second := engine.PurchaseRecord{Tick: 900, ActorID: 9, StackID: uuid.New()}
	require.NoError(t, db.SavePurchases([]engine.PurchaseRecord{first}))
	require.NoError(t, db.SavePurchases([]engine.PurchaseRecord{second}))
	require.NoError(t, db.SavePurchases(nil))

	got, err := db.LoadPurchases()
	require.NoError(t, err)
	require.Len(t, got, 2, "saves append, in order")
	assert.Equal(t, first, got[0])
	assert.Equal(t, second, got[1])
}

func TestSaveEvents(t *testing.T) {
	db := testDB(t)

	events := []engine.Event{
		{Tick: 1, Description: "visitors arrive", Category: "visit"},
		{Tick: 2, Description: "a trade happens", Category: "trade"},
	}
	require.NoError(t, db.SaveEvents(events))
	require.NoError(t, db.SaveEvents(nil))

	var count int
	require.NoError(t, db.conn.Get(&count, "SELECT COUNT(*) FROM events"))
	assert.Equal(t, 2, count)
}
