package archetype

import (
	"cmp"
	"reflect"
	"slices"
	"sync"
	"unsafe"
)

// TypeID identifies a component type. IDs are handed out on first use of a type and are only
// stable within one process execution.
type TypeID uint32

// Dropper is implemented by components that own something which must be released when the
// archetype disposes of the value. Drop is called exactly once per stored value that is removed
// or cleared; values moved to another archetype are not dropped.
type Dropper interface {
	Drop()
}

// TypeInfo is the metadata needed to store values of one component type without knowing the
// type statically. It is an immutable value; copies are interchangeable.
type TypeInfo struct {
	id    TypeID
	size  uintptr
	align uintptr
	typ   reflect.Type

	drop  func(ptr unsafe.Pointer)
	move  func(dst, src unsafe.Pointer)
	copyN func(dst, src unsafe.Pointer, n int)
	zeroN func(ptr unsafe.Pointer, n int)
}

// typeRegistry assigns type IDs. It is shared by every archetype in the process.
type typeRegistry struct {
	mu    sync.RWMutex
	next  TypeID
	infos map[reflect.Type]TypeInfo
}

var registry = typeRegistry{ //nolint:gochecknoglobals // type identity is process wide
	infos: make(map[reflect.Type]TypeInfo),
}

// TypeOf returns the descriptor for T, registering T on first use.
func TypeOf[T any]() TypeInfo {
	typ := reflect.TypeFor[T]()

	registry.mu.RLock()
	info, ok := registry.infos[typ]
	registry.mu.RUnlock()
	if ok {
		return info
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	// Another goroutine may have registered T between the two locks.
	if info, ok := registry.infos[typ]; ok {
		return info
	}
	registry.next++
	info = newTypeInfo[T](registry.next, typ)
	registry.infos[typ] = info
	return info
}

// newTypeInfo builds the descriptor and the thunks specialized for T. All copies go through
// typed assignments so the garbage collector's write barriers see pointer stores.
func newTypeInfo[T any](id TypeID, typ reflect.Type) TypeInfo {
	var zero T

	drop := func(ptr unsafe.Pointer) {
		*(*T)(ptr) = zero
	}
	if _, ok := any((*T)(nil)).(Dropper); ok {
		drop = func(ptr unsafe.Pointer) {
			value := (*T)(ptr)
			any(value).(Dropper).Drop() //nolint:forcetypeassert // checked above
			*value = zero
		}
	}

	return TypeInfo{
		id:    id,
		size:  typ.Size(),
		align: uintptr(typ.Align()),
		typ:   typ,
		drop:  drop,
		move: func(dst, src unsafe.Pointer) {
			*(*T)(dst) = *(*T)(src)
		},
		copyN: func(dst, src unsafe.Pointer, n int) {
			copy(unsafe.Slice((*T)(dst), n), unsafe.Slice((*T)(src), n))
		},
		zeroN: func(ptr unsafe.Pointer, n int) {
			clear(unsafe.Slice((*T)(ptr), n))
		},
	}
}

// ID returns the type's process-unique identity.
func (t TypeInfo) ID() TypeID { return t.id }

// Size returns the size of one value in bytes. It is always a multiple of Align.
func (t TypeInfo) Size() uintptr { return t.size }

// Align returns the required alignment of one value, a power of two.
func (t TypeInfo) Align() uintptr { return t.align }

// Type returns the Go type the descriptor was built from.
func (t TypeInfo) Type() reflect.Type { return t.typ }

// String returns the Go type name.
func (t TypeInfo) String() string {
	if t.typ == nil {
		return "<nil>"
	}
	return t.typ.String()
}

// Drop releases the value at ptr: Dropper.Drop is called if the type implements it, then the
// value is zeroed. ptr must address a live value of this type.
func (t TypeInfo) Drop(ptr unsafe.Pointer) {
	t.drop(ptr)
}

// Equal reports whether both descriptors describe the same type.
func (t TypeInfo) Equal(other TypeInfo) bool {
	return t.id == other.id
}

// Compare orders descriptors by descending alignment, then ascending type ID. The drop thunk
// takes no part in the ordering.
func Compare(a, b TypeInfo) int {
	if c := cmp.Compare(b.align, a.align); c != 0 {
		return c
	}
	return cmp.Compare(a.id, b.id)
}

// Less reports whether a sorts before b under Compare.
func Less(a, b TypeInfo) bool {
	return Compare(a, b) < 0
}

// SortTypes returns a sorted, duplicate free copy of infos, ready to be passed to New.
func SortTypes(infos []TypeInfo) []TypeInfo {
	out := slices.Clone(infos)
	slices.SortFunc(out, Compare)
	return slices.CompactFunc(out, TypeInfo.Equal)
}

// isSorted reports whether infos is strictly increasing under Compare.
func isSorted(infos []TypeInfo) bool {
	for i := 1; i < len(infos); i++ {
		if !Less(infos[i-1], infos[i]) {
			return false
		}
	}
	return true
}
