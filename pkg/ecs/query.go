package ecs

import (
	"context"

	"github.com/argus-labs/columnar/pkg/archetype"
	"github.com/argus-labs/columnar/pkg/assert"
	"github.com/kelindar/bitmap"
	"golang.org/x/sync/errgroup"
)

// Each calls fn for every entity with an A component. fn may modify the component through the
// pointer but must not change the world's structure (Spawn, Despawn, Insert of a new type, Remove).
func Each[A any](w *World, fn func(eid EntityID, a *A)) {
	query := componentsOf(archetype.TypeOf[A]())
	for _, n := range w.archetypes.matching(query) {
		as, _ := archetype.ColumnOf[A](n.arch)
		for row, eid := range n.arch.Entities() {
			fn(eid, &as[row])
		}
	}
}

// Each2 calls fn for every entity with both an A and a B component. Same rules as Each.
func Each2[A, B any](w *World, fn func(eid EntityID, a *A, b *B)) {
	for _, n := range matching2[A, B](w) {
		as, bs := columns2[A, B](n)
		for row, eid := range n.arch.Entities() {
			fn(eid, &as[row], &bs[row])
		}
	}
}

// ParEach2 is Each2 with one goroutine per matching archetype. Archetypes don't share storage,
// so fn sees every entity exactly once without synchronization as long as it only touches the
// components it is given. The first error returned by fn cancels ctx for the remaining
// archetypes and is returned.
func ParEach2[A, B any](ctx context.Context, w *World, fn func(eid EntityID, a *A, b *B) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, n := range matching2[A, B](w) {
		as, bs := columns2[A, B](n)
		entities := n.arch.Entities()
		g.Go(func() error {
			for row, eid := range entities {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(eid, &as[row], &bs[row]); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func matching2[A, B any](w *World) []*node {
	a, b := archetype.TypeOf[A](), archetype.TypeOf[B]()
	assert.That(!a.Equal(b), "query types must be distinct, got %s twice", a)
	return w.archetypes.matching(componentsOf(a, b))
}

func columns2[A, B any](n *node) ([]A, []B) {
	as, _ := archetype.ColumnOf[A](n.arch)
	bs, _ := archetype.ColumnOf[B](n.arch)
	return as, bs
}

// componentsOf returns the bitmap of the given types' IDs.
func componentsOf(infos ...archetype.TypeInfo) bitmap.Bitmap {
	components := bitmap.Bitmap{}
	for _, info := range infos {
		components.Set(uint32(info.ID()))
	}
	return components
}
