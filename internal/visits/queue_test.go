package visits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/wayfarer/internal/social"
)

const testTicksPerDay = 1440

func tickList(q *IncidentQueue) []uint64 {
	var out []uint64
	for _, inc := range q.Incidents() {
		out = append(out, inc.FireTick)
	}
	return out
}

func TestQueueKeepsFireOrder(t *testing.T) {
	q := NewIncidentQueue(testTicksPerDay)
	q.Add(QueuedIncident{FireTick: 500, Faction: 2})
	q.Add(QueuedIncident{FireTick: 100, Faction: 3})
	q.Add(QueuedIncident{FireTick: 300, Faction: 4})
	q.Add(QueuedIncident{FireTick: 300, Faction: 5}) // equal ticks keep insertion order

	assert.Equal(t, []uint64{100, 300, 300, 500}, tickList(q))
	incs := q.Incidents()
	assert.Equal(t, social.FactionID(4), incs[1].Faction)
	assert.Equal(t, social.FactionID(5), incs[2].Faction)
}

func TestPopDue(t *testing.T) {
	q := NewIncidentQueue(testTicksPerDay)
	q.Add(QueuedIncident{FireTick: 100})
	q.Add(QueuedIncident{FireTick: 200})
	q.Add(QueuedIncident{FireTick: 300})

	assert.Nil(t, q.PopDue(99))

	due := q.PopDue(200)
	require.Len(t, due, 2)
	assert.Equal(t, uint64(100), due[0].FireTick)
	assert.Equal(t, uint64(200), due[1].FireTick)
	assert.Equal(t, 1, q.Len())
}

func TestThinBelowThresholdIsNoop(t *testing.T) {
	q := NewIncidentQueue(testTicksPerDay)
	for i := uint64(1); i <= 5; i++ {
		q.Add(QueuedIncident{FireTick: i * 10})
	}
	assert.False(t, q.Thin(0))
	assert.Equal(t, 5, q.Len())
}

func TestThinNotTriggeredWhenSixthIsFarTerm(t *testing.T) {
	q := NewIncidentQueue(testTicksPerDay)
	// Five near-term, then all beyond the 3-day horizon.
	for i := uint64(1); i <= 5; i++ {
		q.Add(QueuedIncident{FireTick: i * 10})
	}
	for i := uint64(0); i < 3; i++ {
		q.Add(QueuedIncident{FireTick: 4*testTicksPerDay + i})
	}
	assert.False(t, q.Thin(0))
	assert.Equal(t, 8, q.Len())
}

func TestThinDecimatesNearTermAlternating(t *testing.T) {
	q := NewIncidentQueue(testTicksPerDay)
	// Eight near-term incidents t1..t8, all within 3 days.
	ticks := []uint64{10, 20, 30, 40, 50, 60, 70, 80}
	for _, tk := range ticks {
		q.Add(QueuedIncident{FireTick: tk})
	}

	require.True(t, q.Thin(0))

	// Drop first, keep second, drop third... → t2, t4, t6, t8 remain.
	assert.Equal(t, []uint64{20, 40, 60, 80}, tickList(q))
}

func TestThinKeepsFarTermUntouched(t *testing.T) {
	q := NewIncidentQueue(testTicksPerDay)
	near := []uint64{10, 20, 30, 40, 50, 60}
	far := []uint64{5 * testTicksPerDay, 6 * testTicksPerDay, 9 * testTicksPerDay}
	for _, tk := range near {
		q.Add(QueuedIncident{FireTick: tk})
	}
	for _, tk := range far {
		q.Add(QueuedIncident{FireTick: tk})
	}

	require.True(t, q.Thin(0))

	// Near-term halves (keep 2nd, 4th, 6th); far-term all stay, in order.
	assert.Equal(t, []uint64{20, 40, 60, 5 * testTicksPerDay, 6 * testTicksPerDay, 9 * testTicksPerDay}, tickList(q))
}

func TestThinRelativeToNow(t *testing.T) {
	q := NewIncidentQueue(testTicksPerDay)
	now := uint64(100 * testTicksPerDay)
	for i := uint64(1); i <= 6; i++ {
		q.Add(QueuedIncident{FireTick: now + i*10})
	}

	require.True(t, q.Thin(now))
	assert.Equal(t, 3, q.Len())
}
