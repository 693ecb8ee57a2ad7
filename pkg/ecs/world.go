// Package ecs is an entity registry on top of archetype storage. It maps entity IDs to rows,
// moves entities between archetypes as components are inserted and removed, and iterates
// components by type.
//
// A World is not safe for concurrent use. ParEach2 is the one operation that fans out, and it
// only touches component values.
package ecs

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World owns a set of archetypes and the entities stored in them. Entities start in the
// archetype without components and move between archetypes as components are inserted and
// removed. Create one with NewWorld and release its storage with Close.
type World struct {
	entities   entityManager
	archetypes archetypeIndex
	logger     zerolog.Logger
	closed     bool
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger archetype creation and shutdown are reported to. Defaults to a no-op
// logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	w := &World{
		entities:   newEntityManager(),
		archetypes: newArchetypeIndex(),
		logger:     zerolog.Nop(),
		closed:     false,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Spawn creates an entity without components.
func (w *World) Spawn() (EntityID, error) {
	if w.closed {
		return 0, ErrWorldClosed
	}

	eid, err := w.entities.new()
	if err != nil {
		return 0, eris.Wrap(err, "failed to spawn entity")
	}

	empty := w.archetypes.get(emptyArchetype)
	row := empty.arch.Allocate(eid)
	w.entities.place(eid, location{arch: empty.id, row: row})
	return eid, nil
}

// Despawn removes an entity and drops all of its components. The ID may be handed out again by a
// later Spawn.
func (w *World) Despawn(eid EntityID) error {
	loc, err := w.locate(eid)
	if err != nil {
		return err
	}

	n := w.archetypes.get(loc.arch)
	if moved, ok := n.arch.Remove(loc.row); ok {
		w.entities.place(moved, loc)
	}
	w.entities.remove(eid)
	return nil
}

// Alive reports whether the entity exists.
func (w *World) Alive(eid EntityID) bool {
	return w.entities.isAlive(eid)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.entities.alive
}

// ArchetypeStats describes one archetype's storage.
type ArchetypeStats struct {
	ID         int      `json:"id"`
	Components []string `json:"components"`
	Len        int      `json:"len"`
	Cap        int      `json:"cap"`
}

// Stats reports every archetype the world has created, in creation order.
func (w *World) Stats() []ArchetypeStats {
	stats := make([]ArchetypeStats, 0, len(w.archetypes.nodes))
	for _, n := range w.archetypes.nodes {
		types := n.arch.Types()
		names := make([]string, len(types))
		for i, info := range types {
			names[i] = info.String()
		}
		stats = append(stats, ArchetypeStats{
			ID:         n.id,
			Components: names,
			Len:        n.arch.Len(),
			Cap:        n.arch.Cap(),
		})
	}
	return stats
}

// Close drops every component of every entity and releases all storage. Afterwards every
// operation that takes or creates an entity returns ErrWorldClosed. Close is idempotent.
func (w *World) Close() {
	if w.closed {
		return
	}

	for _, n := range w.archetypes.nodes {
		n.arch.Release()
	}
	w.entities = newEntityManager()
	w.closed = true

	w.logger.Debug().Int("archetypes", len(w.archetypes.nodes)).Msg("world closed")
}

// locate returns the entity's location. A closed world reports ErrWorldClosed for every entity.
func (w *World) locate(eid EntityID) (location, error) {
	if w.closed {
		return location{}, ErrWorldClosed
	}
	return w.entities.locate(eid)
}

// migrate moves the entity at loc to dst and returns its new row. Components dst doesn't store
// are dropped; columns dst has that the source lacks are left zeroed for the caller to write.
func (w *World) migrate(eid EntityID, loc location, dst *node) int {
	src := w.archetypes.get(loc.arch)
	row, moved, ok := src.arch.MoveTo(dst.arch, loc.row)
	if ok {
		w.entities.place(moved, loc)
	}
	w.entities.place(eid, location{arch: dst.id, row: row})
	return row
}

// logCreated reports a newly materialized archetype.
func (w *World) logCreated(n *node) {
	if e := w.logger.Debug(); e.Enabled() {
		types := n.arch.Types()
		names := make([]string, len(types))
		for i, info := range types {
			names[i] = info.String()
		}
		e.Int("archetype", n.id).Strs("components", names).Msg("archetype created")
	}
}
