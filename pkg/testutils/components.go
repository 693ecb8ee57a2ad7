package testutils

import "sync/atomic"

// -------------------------------------------------------------------------------------------------
// Components
// -------------------------------------------------------------------------------------------------

type Position struct{ X, Y float64 }

type Velocity struct{ X, Y float64 }

type Health struct{ Value int32 }

type Flags uint8

// Tag is zero sized.
type Tag struct{}

// Label holds a pointer so its column must be visible to the garbage collector.
type Label struct{ Name string }

// Tracked counts how many times the archetype dropped it. Every value carries the counter
// of the test that created it so parallel tests don't share state.
type Tracked struct {
	Value   uint64
	Counter *atomic.Int64
}

func (t *Tracked) Drop() {
	if t.Counter != nil {
		t.Counter.Add(1)
	}
}
