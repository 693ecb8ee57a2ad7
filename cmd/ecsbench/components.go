package main

import (
	"sync"
	"sync/atomic"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

// frozen replaces velocity while an entity is paused, keeping the velocity to restore.
type frozen struct {
	saved velocity
}

// trail records recent positions. Its buffer comes from trailPool and goes back on Drop.
type trail struct {
	points *[]position
	drops  *atomic.Int64
}

const trailLen = 8

var trailPool = sync.Pool{ //nolint:gochecknoglobals // shared buffer pool
	New: func() any {
		points := make([]position, 0, trailLen)
		return &points
	},
}

func newTrail(drops *atomic.Int64) trail {
	points, _ := trailPool.Get().(*[]position)
	*points = (*points)[:0]
	return trail{points: points, drops: drops}
}

// record appends p, keeping the last trailLen points.
func (t *trail) record(p position) {
	if len(*t.points) == trailLen {
		copy(*t.points, (*t.points)[1:])
		*t.points = (*t.points)[:trailLen-1]
	}
	*t.points = append(*t.points, p)
}

// Drop returns the buffer to the pool.
func (t *trail) Drop() {
	if t.points == nil {
		return
	}
	trailPool.Put(t.points)
	t.points = nil
	t.drops.Add(1)
}
