package ecs

import "github.com/argus-labs/columnar/pkg/assert"

// location is where an entity's components live: a row in one of the world's archetypes.
type location struct {
	arch archetypeID
	row  int
}

// sparseSet maps entity IDs to their locations. Entity IDs are dense, so a slice indexed by ID
// beats a map.
type sparseSet []location

const sparseCapacity = 128

var sparseTombstone = location{arch: -1, row: -1} //nolint:gochecknoglobals // read-only sentinel

// newSparseSet creates a new sparse set.
func newSparseSet() sparseSet {
	s := make(sparseSet, sparseCapacity)
	for i := range sparseCapacity {
		s[i] = sparseTombstone
	}
	return s
}

// get returns the location for a key and whether it exists.
func (s *sparseSet) get(key EntityID) (location, bool) {
	if int(key) >= len(*s) {
		return location{}, false
	}

	value := (*s)[key]
	if value == sparseTombstone {
		return location{}, false
	}

	return value, true
}

// set stores a location for a key, growing the backing slice if needed.
func (s *sparseSet) set(key EntityID, value location) {
	assert.That(value.arch >= 0 && value.row >= 0, "location must be non-negative")

	if int(key) >= len(*s) { // Grow slice if needed
		// Grow by doubling or to key+1, whichever is larger.
		oldLen := len(*s)
		newLen := max(oldLen*2, int(key)+1)

		newSlice := make(sparseSet, newLen)
		copy(newSlice, *s)
		for i := oldLen; i < newLen; i++ {
			newSlice[i] = sparseTombstone
		}
		*s = newSlice
	}

	(*s)[key] = value
}

// remove sets a key's location to tombstone. Returns true if the key existed.
func (s *sparseSet) remove(key EntityID) bool {
	if int(key) >= len(*s) {
		return false
	}

	if (*s)[key] == sparseTombstone {
		return false
	}

	(*s)[key] = sparseTombstone
	return true
}
