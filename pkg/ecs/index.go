package ecs

import (
	"encoding/binary"
	"slices"

	"github.com/argus-labs/columnar/pkg/archetype"
	"github.com/kamstrup/intmap"
	"github.com/kelindar/bitmap"
)

// archetypeID is the index of an archetype in the world's archetype list.
type archetypeID = int

// emptyArchetype holds entities without components. It is always the first archetype.
const emptyArchetype archetypeID = 0

// node is an archetype plus the bookkeeping the world needs to find it.
type node struct {
	id         archetypeID
	arch       *archetype.Archetype
	components bitmap.Bitmap // Type IDs stored in arch

	// Cached transitions to the archetype with one type added or removed.
	add    *intmap.Map[archetype.TypeID, archetypeID]
	remove *intmap.Map[archetype.TypeID, archetypeID]
}

func newNode(id archetypeID, infos []archetype.TypeInfo) *node {
	return &node{
		id:         id,
		arch:       archetype.New(infos),
		components: componentsOf(infos...),
		add:        intmap.New[archetype.TypeID, archetypeID](4),
		remove:     intmap.New[archetype.TypeID, archetypeID](4),
	}
}

// contains returns true if the archetype stores every type in components.
func (n *node) contains(components bitmap.Bitmap) bool {
	intersect := components.Clone(nil)
	intersect.And(n.components)
	return intersect.Count() == components.Count()
}

// archetypeIndex owns every archetype of a world. Archetypes are never removed, so IDs stay
// valid for the world's lifetime.
type archetypeIndex struct {
	nodes  []*node
	lookup map[string]archetypeID // Keyed by archetypeKey
}

func newArchetypeIndex() archetypeIndex {
	idx := archetypeIndex{
		nodes:  make([]*node, 0),
		lookup: make(map[string]archetypeID),
	}
	idx.findOrCreate(nil)
	return idx
}

// get returns the archetype with the given ID.
func (idx *archetypeIndex) get(id archetypeID) *node {
	return idx.nodes[id]
}

// findOrCreate returns the archetype storing exactly infos, which must be sorted and deduplicated.
// The bool is true if the archetype was created by this call.
func (idx *archetypeIndex) findOrCreate(infos []archetype.TypeInfo) (*node, bool) {
	key := archetypeKey(infos)
	if id, ok := idx.lookup[key]; ok {
		return idx.nodes[id], false
	}

	n := newNode(len(idx.nodes), infos)
	idx.nodes = append(idx.nodes, n)
	idx.lookup[key] = n.id
	return n, true
}

// withType returns the archetype of from's types plus info, and whether it was just created.
func (idx *archetypeIndex) withType(from *node, info archetype.TypeInfo) (*node, bool) {
	if id, ok := from.add.Get(info.ID()); ok {
		return idx.nodes[id], false
	}

	infos := append(slices.Clone(from.arch.Types()), info)
	to, created := idx.findOrCreate(archetype.SortTypes(infos))
	from.add.Put(info.ID(), to.id)
	to.remove.Put(info.ID(), from.id)
	return to, created
}

// withoutType returns the archetype of from's types minus info, and whether it was just created.
func (idx *archetypeIndex) withoutType(from *node, info archetype.TypeInfo) (*node, bool) {
	if id, ok := from.remove.Get(info.ID()); ok {
		return idx.nodes[id], false
	}

	infos := slices.DeleteFunc(slices.Clone(from.arch.Types()), info.Equal)
	to, created := idx.findOrCreate(infos)
	from.remove.Put(info.ID(), to.id)
	to.add.Put(info.ID(), from.id)
	return to, created
}

// matching returns the archetypes that store every type in components.
func (idx *archetypeIndex) matching(components bitmap.Bitmap) []*node {
	var out []*node
	for _, n := range idx.nodes {
		if n.arch.Len() > 0 && n.contains(components) {
			out = append(out, n)
		}
	}
	return out
}

// archetypeKey encodes the type IDs of a sorted descriptor list. Equal type sets produce equal
// keys because the order is canonical.
func archetypeKey(infos []archetype.TypeInfo) string {
	buf := make([]byte, 0, 4*len(infos))
	for _, info := range infos {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(info.ID()))
	}
	return string(buf)
}
