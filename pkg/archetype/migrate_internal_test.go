package archetype

import (
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/argus-labs/columnar/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchetype_MoveOutToNarrowerArchetype(t *testing.T) {
	t.Parallel()

	var counter atomic.Int64
	a := TypeOf[testutils.Position]()
	b := TypeOf[testutils.Tracked]()

	src := newArchetype(a, b)
	dst := newArchetype(a)

	row := src.Allocate(1)
	Write(src, row, testutils.Position{X: 3, Y: 4})
	Write(src, row, testutils.Tracked{Value: 7, Counter: &counter})
	want := rowBytes(t, src, []TypeInfo{a}, row)

	dstRow := dst.Allocate(src.EntityID(row))
	var visited []TypeID
	_, moved := src.MoveOut(row, func(ptr unsafe.Pointer, info TypeInfo) {
		visited = append(visited, info.ID())
		if info.Equal(a) {
			dst.Put(info.ID(), info.Size(), ptr, dstRow)
			return
		}
		info.Drop(ptr)
	})

	assert.False(t, moved, "single row, nothing swapped")
	assert.Equal(t, ids(src.Types()), visited, "columns visited in descriptor order")
	assert.Equal(t, want, rowBytes(t, dst, []TypeInfo{a}, dstRow))
	assert.Equal(t, int64(1), counter.Load(), "the component dst doesn't carry is dropped once")
	assert.Equal(t, 0, src.Len())
	assert.Equal(t, EntityID(1), dst.EntityID(dstRow))
}

func TestArchetype_MoveOutDoesNotDrop(t *testing.T) {
	t.Parallel()

	var counter atomic.Int64
	info := TypeOf[testutils.Tracked]()
	src := newArchetype(info)
	dst := newArchetype(info)
	for i := range 4 {
		row := src.Allocate(EntityID(i))
		Write(src, row, testutils.Tracked{Value: uint64(i), Counter: &counter})
	}

	for src.Len() > 0 {
		_, _, _ = src.MoveTo(dst, 0)
	}
	assert.Equal(t, int64(0), counter.Load(), "moved values are owned by dst, not dropped")

	dst.Release()
	assert.Equal(t, int64(4), counter.Load())
}

func TestArchetype_MoveToRoundTrip(t *testing.T) {
	t.Parallel()

	infos := []TypeInfo{TypeOf[word](), TypeOf[octet](), TypeOf[testutils.Label]()}
	src := newArchetype(infos...)
	dst := newArchetype(infos...)

	for i := range 5 {
		row := src.Allocate(EntityID(10 + i))
		Write(src, row, word{V: uint32(i) * 0x01010101})
		Write(src, row, octet{V: uint8(0xF0 + i)})
		Write(src, row, testutils.Label{Name: "x"})
	}
	want := rowBytes(t, src, infos[:2], 1)
	wantLast := rowBytes(t, src, infos[:2], 4)

	dstRow, moved, ok := src.MoveTo(dst, 1)

	// Destination row is byte-identical to the source row.
	assert.Equal(t, 0, dstRow)
	assert.Equal(t, want, rowBytes(t, dst, infos[:2], dstRow))
	assert.Equal(t, EntityID(11), dst.EntityID(dstRow))
	label, _ := Get[testutils.Label](dst, dstRow)
	assert.Equal(t, "x", label.Name)

	// Source is compacted exactly like Remove.
	require.True(t, ok)
	assert.Equal(t, EntityID(14), moved)
	assert.Equal(t, 4, src.Len())
	assert.Equal(t, EntityID(14), src.EntityID(1))
	assert.Equal(t, wantLast, rowBytes(t, src, infos[:2], 1))
}

func TestArchetype_MoveToWiderArchetype(t *testing.T) {
	t.Parallel()

	pos := TypeOf[testutils.Position]()
	health := TypeOf[testutils.Health]()
	src := newArchetype(pos)
	dst := newArchetype(pos, health)

	row := src.Allocate(5)
	Write(src, row, testutils.Position{X: 1, Y: 1})

	dstRow, _, _ := src.MoveTo(dst, row)

	h, ok := Get[testutils.Health](dst, dstRow)
	require.True(t, ok)
	assert.Equal(t, testutils.Health{}, *h, "new column is left for the caller to write")
	Write(dst, dstRow, testutils.Health{Value: 50})

	p, _ := Get[testutils.Position](dst, dstRow)
	assert.Equal(t, testutils.Position{X: 1, Y: 1}, *p)
	h, _ = Get[testutils.Health](dst, dstRow)
	assert.Equal(t, int32(50), h.Value)
}
