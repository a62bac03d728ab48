// Package mappingerr defines the fatal error taxonomy for
// the mapping engine and field transfer. DegenerateGeometry
// is intentionally absent here: it is always locally
// recovered (the cascade falls through to a lower-dimensional
// primitive) and never returned to a caller, so it is not an
// error value. No diagnostic is emitted when it occurs.
package mappingerr

import "github.com/pkg/errors"

// ErrEmptySearchSpace is the sentinel cause wrapped by
// EmptySearchSpace; compare against it with errors.Is or
// errors.Cause.
var ErrEmptySearchSpace = errors.New("search mesh has no vertices, edges, or triangles")

// ErrStaleStencils is returned by Map when called before
// computeMapping has populated the stencil table.
var ErrStaleStencils = errors.New("map called before computeMapping")

// ErrDimensionMismatch is the sentinel cause wrapped by
// DimensionMismatch.
var ErrDimensionMismatch = errors.New("input and output field component counts differ")

// EmptySearchSpace wraps ErrEmptySearchSpace with the name
// of the offending mesh.
func EmptySearchSpace(meshName string) error {
	return errors.Wrapf(ErrEmptySearchSpace, "mesh %q", meshName)
}

// DimensionMismatch wraps ErrDimensionMismatch with the
// number of per-vertex value blocks found in the input and
// output fields (each field's length divided by its
// component count).
func DimensionMismatch(in, out int) error {
	return errors.Wrapf(ErrDimensionMismatch, "input field has %d vertex values, output field has %d", in, out)
}
