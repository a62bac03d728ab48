// Package transfer applies a computed stencil table to a
// field array, in either the consistent (forward) or
// conservative (adjoint) direction (spec.md §4.4, C6).
package transfer

import (
	"github.com/unixpickle/precice-map/mapping"
	"github.com/unixpickle/precice-map/mappingerr"
	"github.com/unixpickle/precice-map/stencil"
)

// Map applies m's stencil table to inField, writing into
// outField. Both fields are flat arrays with one block of
// components values per vertex.
//
// Under mapping.Consistent, inField is indexed by
// search-mesh (input) vertex id and outField by origin
// (output) vertex id. Under mapping.Conservative, inField is
// indexed by origin (input) vertex id and outField by
// search-mesh (output) vertex id; outField entries
// accumulate across origins, so the caller must zero
// outField before calling Map in either direction (spec.md
// §4.4).
//
// Map returns mappingerr.ErrStaleStencils if m has not
// computed a mapping, and a wrapped
// mappingerr.ErrDimensionMismatch if inField or outField's
// length does not match the vertex count of the mesh it is
// indexed by, times components.
func Map(m *mapping.Mapping, inField, outField []float64, components int) error {
	if components <= 0 {
		// Caller error, but field-length arithmetic below divides by
		// components in its error messages, so coerce rather than panic.
		components = 1
	}
	if !m.HasComputedMapping() {
		return mappingerr.ErrStaleStencils
	}

	table := m.StencilTable()
	searchLen := len(m.SearchMesh().Vertices()) * components
	originLen := len(table) * components

	switch m.Constraint() {
	case mapping.Consistent:
		if len(inField) != searchLen || len(outField) != originLen {
			return mappingerr.DimensionMismatch(len(inField)/components, len(outField)/components)
		}
		return mapConsistent(table, inField, outField, components)
	default:
		if len(inField) != originLen || len(outField) != searchLen {
			return mappingerr.DimensionMismatch(len(inField)/components, len(outField)/components)
		}
		return mapConservative(table, inField, outField, components)
	}
}

func mapConsistent(table stencil.Table, inField, outField []float64, components int) error {
	for i, s := range table {
		outBase := i * components
		for _, e := range s {
			inBase := e.Vertex.ID() * components
			for k := 0; k < components; k++ {
				outField[outBase+k] += e.Weight * inField[inBase+k]
			}
		}
	}
	return nil
}

func mapConservative(table stencil.Table, inField, outField []float64, components int) error {
	for i, s := range table {
		inBase := i * components
		for _, e := range s {
			outBase := e.Vertex.ID() * components
			for k := 0; k < components; k++ {
				outField[outBase+k] += e.Weight * inField[inBase+k]
			}
		}
	}
	return nil
}
