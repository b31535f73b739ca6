package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineSpeed(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, 1.0, e.Speed())

	e.SetSpeed(2.5)
	assert.Equal(t, 2.5, e.Speed())

	e.SetSpeed(0)
	assert.Equal(t, 0.0, e.Speed())
}

func TestSetSpeedConcurrent(t *testing.T) {
	e := NewEngine()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				e.SetSpeed(v)
				_ = e.Speed()
			}
		}(float64(i))
	}
	wg.Wait()
	assert.GreaterOrEqual(t, e.Speed(), 0.0)
}

func TestStepCadence(t *testing.T) {
	e := NewEngine()
	var ticks, hours, days int
	e.OnTick = func(uint64) { ticks++ }
	e.OnHour = func(uint64) { hours++ }
	e.OnDay = func(uint64) { days++ }

	for i := 0; i < TicksPerSimDay; i++ {
		e.Step()
	}
	assert.Equal(t, TicksPerSimDay, ticks)
	assert.Equal(t, 24, hours)
	assert.Equal(t, 1, days)
}

func TestSimTime(t *testing.T) {
	assert.Equal(t, "Day 1, 0:00", SimTime(0))
	assert.Equal(t, "Day 1, 1:05", SimTime(65))
	assert.Equal(t, "Day 2, 0:01", SimTime(TicksPerSimDay+1))
}
