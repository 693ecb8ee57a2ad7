package ecs

import (
	"unsafe"

	"github.com/argus-labs/columnar/pkg/archetype"
	"github.com/rotisserie/eris"
)

// Insert sets the entity's T component to v. If the entity already has a T, the old value is
// dropped and overwritten in place; otherwise the entity moves to the archetype that adds T.
func Insert[T any](w *World, eid EntityID, v T) error {
	loc, err := w.locate(eid)
	if err != nil {
		return err
	}

	info := archetype.TypeOf[T]()
	src := w.archetypes.get(loc.arch)
	if ptr, ok := archetype.Get[T](src.arch, loc.row); ok {
		info.Drop(unsafe.Pointer(ptr))
		*ptr = v
		return nil
	}

	dst, created := w.archetypes.withType(src, info)
	if created {
		w.logCreated(dst)
	}
	row := w.migrate(eid, loc, dst)
	archetype.Write(dst.arch, row, v)
	return nil
}

// Remove drops the entity's T component and moves the entity to the archetype without T.
func Remove[T any](w *World, eid EntityID) error {
	loc, err := w.locate(eid)
	if err != nil {
		return err
	}

	info := archetype.TypeOf[T]()
	src := w.archetypes.get(loc.arch)
	if !src.arch.Has(info.ID()) {
		return eris.Wrapf(ErrComponentNotFound, "entity %d has no %s", eid, info)
	}

	dst, created := w.archetypes.withoutType(src, info)
	if created {
		w.logCreated(dst)
	}
	w.migrate(eid, loc, dst)
	return nil
}

// Get returns a pointer to the entity's T component. The pointer is invalidated by the next
// structural change to the world (Spawn, Despawn, or an Insert or Remove that moves an entity).
func Get[T any](w *World, eid EntityID) (*T, error) {
	loc, err := w.locate(eid)
	if err != nil {
		return nil, err
	}

	src := w.archetypes.get(loc.arch)
	ptr, ok := archetype.Get[T](src.arch, loc.row)
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotFound, "entity %d has no %s", eid, archetype.TypeOf[T]())
	}
	return ptr, nil
}

// Has reports whether the entity exists and has a T component.
func Has[T any](w *World, eid EntityID) bool {
	loc, err := w.locate(eid)
	if err != nil {
		return false
	}
	return w.archetypes.get(loc.arch).arch.Has(archetype.TypeOf[T]().ID())
}
