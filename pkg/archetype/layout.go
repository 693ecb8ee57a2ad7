package archetype

import (
	"reflect"
	"strconv"
	"unsafe"

	"github.com/argus-labs/columnar/pkg/assert"
)

// alignUp rounds x up to the next multiple of align, which must be a power of two.
func alignUp(x, align uintptr) uintptr {
	assert.That(align != 0 && align&(align-1) == 0, "alignment %d is not a power of two", align)
	return (x + align - 1) &^ (align - 1)
}

// computeLayout writes the byte offset of every column into offsets for a buffer holding
// capacity rows, and returns the total size. Columns are laid out end to end in descriptor
// order, each rounded up to its type's alignment. Because descriptors are sorted by descending
// alignment the first offset is always 0.
func computeLayout(infos []TypeInfo, capacity int, offsets []uintptr) uintptr {
	assert.That(len(offsets) == len(infos), "offsets has %d slots for %d types", len(offsets), len(infos))

	var cursor uintptr
	for i, info := range infos {
		cursor = alignUp(cursor, info.align)
		offsets[i] = cursor
		cursor += info.size * uintptr(capacity)
	}
	return cursor
}

// newBuffer allocates zeroed storage for capacity rows of every column, laid out as described
// by offsets. The buffer is a struct whose i-th field is [capacity]T_i: Go places struct fields
// with the same round-up rule as computeLayout, so the allocation is aligned to the first
// (strictest) type and the garbage collector gets an exact pointer map of every column.
// Returns nil when there is nothing to store.
func newBuffer(infos []TypeInfo, capacity int, offsets []uintptr) unsafe.Pointer {
	if len(infos) == 0 || capacity == 0 {
		return nil
	}

	fields := make([]reflect.StructField, len(infos))
	for i, info := range infos {
		fields[i] = reflect.StructField{
			Name: "Column" + strconv.Itoa(i),
			Type: reflect.ArrayOf(capacity, info.typ),
		}
	}
	layout := reflect.StructOf(fields)

	if assert.Enabled {
		for i := range fields {
			got := layout.Field(i).Offset
			assert.That(got == offsets[i], "column %d (%s) placed at %d, expected %d", i, infos[i], got, offsets[i])
		}
	}

	return reflect.New(layout).UnsafePointer()
}
