package archetype

import (
	"unsafe"

	"github.com/argus-labs/columnar/pkg/assert"
)

// Visitor receives one component of a row being moved out of an archetype. ptr addresses the
// value and info describes its type. The visitor takes ownership: it either Puts the value into
// another archetype or disposes of it with info.Drop. After it returns the source slot no longer
// owns the value.
type Visitor func(ptr unsafe.Pointer, info TypeInfo)

// MoveOut hands every component at row to visit, in descriptor order, then removes the row with
// the same swap-with-last compaction as Remove. Nothing is dropped by MoveOut itself. Returns the
// entity moved into row, if any.
func (a *Archetype) MoveOut(row int, visit Visitor) (EntityID, bool) {
	a.checkRow(row)
	last := a.len - 1

	for slot, info := range a.types {
		visit(a.cell(slot, row), info)
		a.fill(slot, row, last)
	}
	return a.compact(row, last)
}

// MoveTo migrates row into a newly allocated row of dst. Components dst stores are moved over;
// the others are dropped. Columns dst has that a doesn't are left zeroed at the returned row for
// the caller to write. Also returns the entity that was swapped into row of a, if any.
func (a *Archetype) MoveTo(dst *Archetype, row int) (int, EntityID, bool) {
	assert.That(dst != a, "cannot move a row into its own archetype")

	dstRow := dst.Allocate(a.EntityID(row))
	moved, ok := a.MoveOut(row, func(ptr unsafe.Pointer, info TypeInfo) {
		if dst.Has(info.id) {
			dst.Put(info.id, info.size, ptr, dstRow)
			return
		}
		info.Drop(ptr)
	})
	return dstRow, moved, ok
}
