package ecs

import (
	"math"

	"github.com/argus-labs/columnar/pkg/archetype"
	"github.com/rotisserie/eris"
)

// EntityID is a unique identifier for an entity.
type EntityID = archetype.EntityID

// MaxEntityID is the maximum entity ID that can be created. math.MaxUint32 is reserved for
// archetype.InvalidEntity.
const MaxEntityID = math.MaxUint32 - 1

// entityManager hands out entity IDs and records where each live entity is stored, so lookups
// don't have to search the archetypes.
type entityManager struct {
	nextID    EntityID   // The next ID to allocate if no free IDs are available
	exhausted bool       // Set once MaxEntityID has been handed out
	free      []EntityID // A queue of free IDs
	locations sparseSet  // Maps entity IDs to their archetype and row
	alive     int        // Number of live entities
}

// newEntityManager creates a new entity manager with initial capacity.
func newEntityManager() entityManager {
	return entityManager{
		nextID:    0,
		exhausted: false,
		free:      make([]EntityID, 0),
		locations: newSparseSet(),
		alive:     0,
	}
}

// new returns a fresh entity ID, reusing freed IDs in FIFO order.
func (em *entityManager) new() (EntityID, error) {
	var id EntityID
	if len(em.free) > 0 {
		// Pop from the front of the free list (FIFO).
		id = em.free[0]
		em.free = em.free[1:]
	} else {
		if em.exhausted {
			return 0, eris.New("max number of entities exceeded")
		}
		id = em.nextID
		if id == MaxEntityID {
			em.exhausted = true
		} else {
			em.nextID++
		}
	}

	em.alive++
	return id, nil
}

// remove forgets an entity's location and marks its ID as available for reuse.
func (em *entityManager) remove(id EntityID) bool {
	if !em.locations.remove(id) {
		return false
	}
	em.free = append(em.free, id)
	em.alive--
	return true
}

// locate returns the entity's location, or ErrEntityNotFound.
func (em *entityManager) locate(id EntityID) (location, error) {
	loc, ok := em.locations.get(id)
	if !ok {
		return location{}, eris.Wrapf(ErrEntityNotFound, "entity %d", id)
	}
	return loc, nil
}

// place records the entity's location.
func (em *entityManager) place(id EntityID, loc location) {
	em.locations.set(id, loc)
}

// isAlive checks if an entity ID is currently active.
func (em *entityManager) isAlive(id EntityID) bool {
	_, ok := em.locations.get(id)
	return ok
}
