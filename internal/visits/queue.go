// Package visits schedules visitor-group incidents: a fire-tick ordered
// queue, an overload throttle, and the daily planner that fills the queue.
package visits

import (
	"github.com/talgya/wayfarer/internal/social"
)

// IncidentCategory distinguishes what kind of party arrives.
type IncidentCategory uint8

const (
	CategoryVisitors IncidentCategory = iota // Guests who browse and buy
	CategoryTraders                          // Bulk traders (larger parties)
)

// CategoryName returns a human-readable incident category name.
func CategoryName(c IncidentCategory) string {
	switch c {
	case CategoryVisitors:
		return "visitors"
	case CategoryTraders:
		return "traders"
	default:
		return "unknown"
	}
}

// QueuedIncident is a future event waiting to fire.
type QueuedIncident struct {
	FireTick uint64           `json:"fire_tick"`
	Faction  social.FactionID `json:"faction"`
	Category IncidentCategory `json:"category"`
}

// Throttle parameters: with overloadCount or more incidents pending and the
// overloadCount-th firing inside nearWindowDays, the queue is thinned.
const (
	overloadCount  = 6
	nearWindowDays = 3
)

// IncidentQueue holds pending incidents ordered by fire-tick. Enumeration
// order is always fire-tick order.
type IncidentQueue struct {
	ticksPerDay uint64
	incidents   []QueuedIncident
}

// NewIncidentQueue creates an empty queue using the given day length.
func NewIncidentQueue(ticksPerDay uint64) *IncidentQueue {
	return &IncidentQueue{ticksPerDay: ticksPerDay}
}

// Add inserts an incident, keeping fire-tick order. Equal fire-ticks keep
// insertion order.
func (q *IncidentQueue) Add(inc QueuedIncident) {
	pos := len(q.incidents)
	for i, existing := range q.incidents {
		if existing.FireTick > inc.FireTick {
			pos = i
			break
		}
	}
	q.incidents = append(q.incidents, QueuedIncident{})
	copy(q.incidents[pos+1:], q.incidents[pos:])
	q.incidents[pos] = inc
}

// Len returns the number of pending incidents.
func (q *IncidentQueue) Len() int {
	return len(q.incidents)
}

// Incidents returns a copy of the pending incidents in fire order.
func (q *IncidentQueue) Incidents() []QueuedIncident {
	out := make([]QueuedIncident, len(q.incidents))
	copy(out, q.incidents)
	return out
}

// PopDue removes and returns all incidents with fire-tick <= now.
func (q *IncidentQueue) PopDue(now uint64) []QueuedIncident {
	n := 0
	for n < len(q.incidents) && q.incidents[n].FireTick <= now {
		n++
	}
	if n == 0 {
		return nil
	}
	due := make([]QueuedIncident, n)
	copy(due, q.incidents[:n])
	q.incidents = q.incidents[n:]
	return due
}

// Thin checks for overload and decimates the near-term queue if needed.
// Overload means at least overloadCount incidents are pending and the
// overloadCount-th fires within nearWindowDays of now. Near-term incidents
// are then kept on alternating positions only, starting with a drop; the
// far-term schedule is untouched. Reports whether thinning happened.
func (q *IncidentQueue) Thin(now uint64) bool {
	if len(q.incidents) < overloadCount {
		return false
	}
	horizon := now + nearWindowDays*q.ticksPerDay
	if q.incidents[overloadCount-1].FireTick > horizon {
		return false
	}

	// Rebuild rather than mutate in place.
	kept := make([]QueuedIncident, 0, len(q.incidents))
	nearSeen := 0
	for _, inc := range q.incidents {
		if inc.FireTick > horizon {
			kept = append(kept, inc)
			continue
		}
		if nearSeen%2 == 1 {
			kept = append(kept, inc)
		}
		nearSeen++
	}
	q.incidents = kept
	return true
}
