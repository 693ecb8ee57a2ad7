package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityManager_Limit(t *testing.T) {
	t.Parallel()

	em := newEntityManager()
	em.nextID = MaxEntityID

	last, err := em.new()
	require.NoError(t, err)
	assert.Equal(t, EntityID(MaxEntityID), last)

	_, err = em.new()
	require.Error(t, err, "sequence is exhausted")

	// Freed IDs remain available after the sequence is exhausted.
	em.place(3, location{arch: 0, row: 0})
	require.True(t, em.remove(3))
	id, err := em.new()
	require.NoError(t, err)
	assert.Equal(t, EntityID(3), id)
}

func TestEntityManager_Locations(t *testing.T) {
	t.Parallel()

	em := newEntityManager()
	_, err := em.locate(5)
	require.ErrorIs(t, err, ErrEntityNotFound)
	assert.False(t, em.remove(5))

	// Placing past the initial capacity grows the sparse set.
	far := EntityID(sparseCapacity * 3)
	em.place(far, location{arch: 2, row: 9})
	loc, err := em.locate(far)
	require.NoError(t, err)
	assert.Equal(t, location{arch: 2, row: 9}, loc)
	assert.True(t, em.isAlive(far))
	assert.False(t, em.isAlive(far-1))

	em.place(far, location{arch: 1, row: 0})
	loc, err = em.locate(far)
	require.NoError(t, err)
	assert.Equal(t, location{arch: 1, row: 0}, loc)
}
