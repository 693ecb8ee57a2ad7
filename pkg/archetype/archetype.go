// Package archetype implements columnar storage for entities that share the same set of
// component types.
package archetype

import (
	"math"
	"slices"
	"unsafe"

	"github.com/argus-labs/columnar/pkg/assert"
	"github.com/kamstrup/intmap"
)

// EntityID is the identifier the registry associates with a row.
type EntityID uint32

// InvalidEntity fills the entity sidecar past the live rows. It is never returned for a live row.
const InvalidEntity EntityID = math.MaxUint32

// initialCapacity is the number of rows allocated by the first Allocate.
const initialCapacity = 64

// Archetype stores every entity that has exactly the same set of component types. Each type is
// a densely packed column inside one backing buffer; row i of every column, together with
// entities[i], belongs to the same entity.
//
// Rows [0, Len) are live. Rows [Len, Cap) hold zero values and must not be read.
//
// An Archetype is not safe for concurrent mutation. Callers holding it for reading may however
// write through column views of different types at the same time, since columns never overlap.
// Keeping two writers off the same column is the caller's job.
type Archetype struct {
	types    []TypeInfo               // Sorted by Compare, no duplicates
	index    *intmap.Map[TypeID, int] // Type ID -> slot in types and offsets
	offsets  []uintptr                // Byte offset of each column in the buffer
	len      int                      // Number of live rows
	entities []EntityID               // Entity sidecar, len(entities) is the capacity
	base     unsafe.Pointer           // Backing buffer, nil until the first Allocate
}

// New creates an empty archetype for the given descriptors, which must already be sorted and
// deduplicated (see SortTypes). No memory is allocated until the first row is.
func New(infos []TypeInfo) *Archetype {
	assert.That(isSorted(infos), "type info not sorted")

	index := intmap.New[TypeID, int](len(infos))
	for slot, info := range infos {
		index.Put(info.id, slot)
	}

	return &Archetype{
		types:    slices.Clone(infos),
		index:    index,
		offsets:  make([]uintptr, len(infos)),
		len:      0,
		entities: nil,
		base:     nil,
	}
}

// -------------------------------------------------------------------------------------------------
// Read operations
// -------------------------------------------------------------------------------------------------

// Len returns the number of live rows.
func (a *Archetype) Len() int {
	return a.len
}

// Cap returns the number of rows the current buffer can hold.
func (a *Archetype) Cap() int {
	return len(a.entities)
}

// Types returns the archetype's descriptors in storage order. The slice must not be modified.
func (a *Archetype) Types() []TypeInfo {
	return a.types
}

// Has reports whether the archetype has a column for the type.
func (a *Archetype) Has(id TypeID) bool {
	_, ok := a.index.Get(id)
	return ok
}

// TypeInfo returns the descriptor for a type stored in this archetype.
func (a *Archetype) TypeInfo(id TypeID) (TypeInfo, bool) {
	slot, ok := a.index.Get(id)
	if !ok {
		return TypeInfo{}, false
	}
	return a.types[slot], true
}

// EntityID returns the entity stored at row.
func (a *Archetype) EntityID(row int) EntityID {
	a.checkRow(row)
	return a.entities[row]
}

// Entities returns the entity IDs of the live rows, in row order. The slice aliases the
// archetype's storage and is invalidated by the next mutation.
func (a *Archetype) Entities() []EntityID {
	return a.entities[:a.len:a.len]
}

// Column returns the address of the first value of the type's column, or false if the archetype
// doesn't store the type. The column holds Len consecutive values. The address is invalidated
// when Allocate grows the buffer.
func (a *Archetype) Column(id TypeID) (unsafe.Pointer, bool) {
	slot, ok := a.index.Get(id)
	if !ok {
		return nil, false
	}
	return unsafe.Add(a.base, a.offsets[slot]), true
}

// Cell returns the address of the value at row in the column of the given type. size must be
// the type's size. Returns false if the archetype doesn't store the type.
func (a *Archetype) Cell(id TypeID, size uintptr, row int) (unsafe.Pointer, bool) {
	a.checkRow(row)
	slot, ok := a.index.Get(id)
	if !ok {
		return nil, false
	}
	assert.That(a.types[slot].size == size, "size mismatch for %s: got %d, want %d", a.types[slot], size, a.types[slot].size)
	return a.cell(slot, row), true
}

// ColumnOf returns the column of T as a slice of Len values. The slice aliases the archetype's
// buffer: writes through it update the archetype, and it is invalidated when the buffer grows.
func ColumnOf[T any](a *Archetype) ([]T, bool) {
	ptr, ok := a.Column(TypeOf[T]().id)
	if !ok {
		return nil, false
	}
	return unsafe.Slice((*T)(ptr), a.len), true
}

// Get returns a pointer to the T at row, or false if the archetype doesn't store T.
func Get[T any](a *Archetype, row int) (*T, bool) {
	info := TypeOf[T]()
	ptr, ok := a.Cell(info.id, info.size, row)
	if !ok {
		return nil, false
	}
	return (*T)(ptr), true
}

// -------------------------------------------------------------------------------------------------
// Write operations
// -------------------------------------------------------------------------------------------------

// Allocate appends a row for eid and returns its index. The new row's columns hold zero values;
// the caller must write every column (Put or Write) before the archetype is read again.
// The buffer doubles when full, starting at 64 rows.
func (a *Archetype) Allocate(eid EntityID) int {
	if a.len == len(a.entities) {
		a.grow()
	}

	row := a.len
	a.entities[row] = eid
	a.len++
	return row
}

// grow reallocates the sidecar and buffer with twice the capacity and copies the live rows over.
func (a *Archetype) grow() {
	capacity := initialCapacity
	if oldCap := len(a.entities); oldCap > 0 {
		capacity = oldCap * 2
	}

	entities := make([]EntityID, capacity)
	n := copy(entities, a.entities[:a.len])
	for i := n; i < capacity; i++ {
		entities[i] = InvalidEntity
	}

	offsets := make([]uintptr, len(a.types))
	computeLayout(a.types, capacity, offsets)
	base := newBuffer(a.types, capacity, offsets)

	if a.len > 0 {
		for slot, info := range a.types {
			info.copyN(unsafe.Add(base, offsets[slot]), unsafe.Add(a.base, a.offsets[slot]), a.len)
		}
	}

	a.entities = entities
	a.offsets = offsets
	a.base = base
}

// Put moves the value at src into row of the type's column. size must be the type's size and
// the slot must not hold a live value (freshly allocated, or vacated by MoveOut). The archetype
// now owns the value; the caller must not drop the source.
func (a *Archetype) Put(id TypeID, size uintptr, src unsafe.Pointer, row int) {
	a.checkRow(row)
	slot, ok := a.index.Get(id)
	assert.That(ok, "type %d is not stored in this archetype", id)
	info := a.types[slot]
	assert.That(info.size == size, "size mismatch for %s: got %d, want %d", info, size, info.size)

	info.move(a.cell(slot, row), src)
}

// Write stores v at row of T's column. Same contract as Put.
func Write[T any](a *Archetype, row int, v T) {
	info := TypeOf[T]()
	a.Put(info.id, info.size, unsafe.Pointer(&v), row)
}

// Remove drops every component at row and fills the hole with the last row (swap-remove). If a
// different row was moved into row, its entity ID is returned so the caller can update its
// mapping. Row order is not preserved.
func (a *Archetype) Remove(row int) (EntityID, bool) {
	a.checkRow(row)
	last := a.len - 1

	for slot, info := range a.types {
		info.drop(a.cell(slot, row))
		a.fill(slot, row, last)
	}
	return a.compact(row, last)
}

// Clear drops every live component, column by column, and empties the archetype. Capacity is
// kept.
func (a *Archetype) Clear() {
	for slot, info := range a.types {
		for row := range a.len {
			info.drop(a.cell(slot, row))
		}
	}
	for row := range a.len {
		a.entities[row] = InvalidEntity
	}
	a.len = 0
}

// Release clears the archetype and gives its buffer and sidecar back to the allocator. The
// archetype is empty and can be reused afterwards.
func (a *Archetype) Release() {
	a.Clear()
	a.base = nil
	a.entities = nil
	clear(a.offsets)
}

// -------------------------------------------------------------------------------------------------
// Internal helpers
// -------------------------------------------------------------------------------------------------

// cell returns the address of row in the column at slot without bounds checks.
func (a *Archetype) cell(slot, row int) unsafe.Pointer {
	return unsafe.Add(a.base, a.offsets[slot]+uintptr(row)*a.types[slot].size)
}

// fill moves the last value of the column at slot over row, which must not hold a live value,
// and zeroes the vacated last slot.
func (a *Archetype) fill(slot, row, last int) {
	info := a.types[slot]
	tail := a.cell(slot, last)
	if row != last {
		info.move(a.cell(slot, row), tail)
	}
	info.zeroN(tail, 1)
}

// compact applies a swap-remove of row to the entity sidecar and shrinks the archetype by one.
func (a *Archetype) compact(row, last int) (EntityID, bool) {
	moved := a.entities[last]
	a.entities[last] = InvalidEntity
	a.len = last

	if row == last {
		return InvalidEntity, false
	}
	a.entities[row] = moved
	return moved, true
}

func (a *Archetype) checkRow(row int) {
	assert.That(row >= 0 && row < a.len, "row %d out of bounds (len %d)", row, a.len)
}
