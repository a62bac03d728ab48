// Package stencil holds the per-origin-vertex interpolation
// weights produced by the mapping engine: InterpolationElement,
// Stencil, and StencilTable (spec.md §3).
package stencil

import (
	"math"

	"github.com/unixpickle/precice-map/meshimpl"
)

// PartitionEpsilon bounds how far a stencil's weights may
// drift from summing to exactly 1 (spec.md §8, invariant 1).
const PartitionEpsilon = 1e-12

// Element is a (vertex, weight) pair. The referenced vertex
// always belongs to the search mesh for the mapping that
// produced it; Element holds only a weak (non-owning)
// reference, per spec.md §3's ownership summary.
type Element struct {
	Vertex *meshimpl.Vertex
	Weight float64
}

// Stencil is an ordered sequence of 1 to 3 Elements
// expressing an origin vertex's value as a linear
// combination of search-mesh vertex values.
type Stencil []Element

// WeightSum returns the sum of the stencil's weights.
func (s Stencil) WeightSum() float64 {
	var sum float64
	for _, e := range s {
		sum += e.Weight
	}
	return sum
}

// Valid reports whether s satisfies the Stencil invariants
// of spec.md §3: 1 to 3 entries and finite weights summing
// to 1 within PartitionEpsilon. It does not check the
// non-negativity condition, which only applies to interior
// projections and is enforced by the mapping engine's
// cascade, not by the stencil itself.
func (s Stencil) Valid() bool {
	if len(s) < 1 || len(s) > 3 {
		return false
	}
	for _, e := range s {
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return false
		}
	}
	return math.Abs(s.WeightSum()-1) <= PartitionEpsilon
}

// Table is an ordered sequence of Stencils, one per origin
// vertex, indexed by the origin vertex's position in its
// mesh.
type Table []Stencil

// NewTable allocates a Table with n empty stencils.
func NewTable(n int) Table {
	return make(Table, n)
}

// Clear empties every stencil in the table in place,
// without reallocating the backing slice (clear() in
// spec.md §3).
func (t Table) Clear() {
	for i := range t {
		t[i] = nil
	}
}
