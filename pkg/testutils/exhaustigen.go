package testutils

import "github.com/argus-labs/columnar/pkg/assert"

// Gen enumerates every combination of the choices a test body makes. Each pass through
// `for !g.Done() { ... }` replays the previous choices and bumps the rightmost choice that
// still has room, resetting everything after it.
//
// See: <https://matklad.github.io/2021/11/07/generate-all-the-things.html>
type Gen struct {
	started bool
	choices [32]struct{ value, bound int }
	pos     int
	depth   int
}

// NewGen creates a generator positioned before the first combination.
func NewGen() *Gen {
	return &Gen{}
}

// Done advances to the next combination and reports whether all of them were visited.
func (g *Gen) Done() bool {
	if !g.started {
		g.started = true
		return false
	}
	for i := g.depth - 1; i >= 0; i-- {
		if g.choices[i].value < g.choices[i].bound {
			g.choices[i].value++
			g.depth = i + 1
			g.pos = 0
			return false
		}
	}
	return true
}

// Intn returns a choice in [0, bound].
func (g *Gen) Intn(bound int) int {
	assert.That(g.pos < len(g.choices), "exhaustigen: exceeded maximum depth of %d", len(g.choices))
	if g.pos == g.depth {
		g.choices[g.pos].value = 0
		g.depth++
	}
	g.choices[g.pos].bound = bound
	g.pos++
	return g.choices[g.pos-1].value
}

// Index returns a valid index into a slice of the given length.
func (g *Gen) Index(length int) int {
	assert.That(length > 0, "exhaustigen: empty slice")
	return g.Intn(length - 1)
}

// Shuffle permutes slice in place; across passes every permutation is produced.
func Shuffle[T any](g *Gen, slice []T) {
	for i := 0; i < len(slice)-1; i++ {
		j := i + g.Intn(len(slice)-1-i)
		slice[i], slice[j] = slice[j], slice[i]
	}
}
