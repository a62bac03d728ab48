// Package projection implements the point-to-primitive
// kernels used by the mapping engine's cascade: point to
// triangle, point to edge, and point to vertex, each
// returning a weighted combination of the primitive's
// corner vertices.
package projection

import (
	"math"

	"github.com/unixpickle/precice-map/geom"
)

// Epsilon is the default geometric tolerance used to decide
// interiority and to detect degenerate primitives. It is
// scaled by a primitive's own extent where one is available,
// per spec.md §4.1.
const Epsilon = 1e-14

// Weighted is a single (index, weight) pair referencing one
// corner of the primitive being projected onto. Index is
// the corner's position within the 0..2 (triangle), 0..1
// (edge), or 0 (vertex) argument order passed to the
// projection function, not a mesh-global id; callers map it
// back to a concrete vertex.
type Weighted struct {
	Index  int
	Weight float64
}

// Result is the outcome of projecting a point onto a
// primitive: the weights expressing the closest point as a
// combination of corners, and whether that closest point
// lies within the primitive (as opposed to needing a
// lower-dimensional fallback).
type Result struct {
	Weights  []Weighted
	Interior bool
}

// Vertex projects q onto a single vertex v. The result is
// always interior: there is nowhere else to fall back to.
func Vertex(q, v geom.Point) Result {
	return Result{Weights: []Weighted{{Index: 0, Weight: 1}}, Interior: true}
}

// Edge projects q onto the segment v0-v1, returning a
// 2-element stencil {(v0, 1-t), (v1, t)} where t is the line
// parameter minimizing the distance from q to
// v0 + t*(v1-v0).
//
// The projection is interior iff t falls in [-eps, 1+eps]
// once eps is scaled by the edge's own length. A degenerate
// (near-zero-length) edge is never interior.
func Edge(q, v0, v1 geom.Point) Result {
	d := v1.Sub(v0)
	denom := d.Dot(d)
	eps := Epsilon * math.Max(1, d.Norm())
	if denom < eps*eps {
		// Degenerate (near-zero-length) edge: no well-defined
		// line parameter. Report a non-interior result so the
		// cascade falls through to the vertex step.
		return Result{
			Weights:  []Weighted{{Index: 0, Weight: 1}, {Index: 1, Weight: 0}},
			Interior: false,
		}
	}
	t := q.Sub(v0).Dot(d) / denom
	interior := t >= -eps && t <= 1+eps
	return Result{
		Weights:  []Weighted{{Index: 0, Weight: 1 - t}, {Index: 1, Weight: t}},
		Interior: interior,
	}
}

// Triangle projects q onto the plane of the triangle
// v0-v1-v2 and returns the barycentric coordinates
// (lambda0, lambda1, lambda2) of that projection.
//
// The projection is interior iff all three weights are
// >= -eps, where eps is scaled by the triangle's extent.
//
// Triangle requires q, v0, v1, v2 to be 3-dimensional.
func Triangle(q, v0, v1, v2 geom.Point) Result {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	normal := e1.Cross(e2)
	normLenSq := normal.Dot(normal)

	extent := math.Max(e1.Norm(), e2.Norm())
	eps := Epsilon * math.Max(1, extent)

	if normLenSq < eps*eps {
		// Degenerate (near-zero-area) triangle: no well-defined
		// plane. Report a maximally non-interior result so the
		// cascade falls through to the edge step.
		return Result{
			Weights:  []Weighted{{Index: 0, Weight: 1}, {Index: 1, Weight: 0}, {Index: 2, Weight: 0}},
			Interior: false,
		}
	}

	// Project q onto the plane, then solve for barycentric
	// coordinates via the standard 2x2 linear system over the
	// triangle's tangent basis (e1, e2).
	d := q.Sub(v0)
	dDotN := d.Dot(normal) / normLenSq
	dInPlane := d.Sub(normal.Scale(dDotN))

	d11 := e1.Dot(e1)
	d12 := e1.Dot(e2)
	d22 := e2.Dot(e2)
	d1p := e1.Dot(dInPlane)
	d2p := e2.Dot(dInPlane)

	det := d11*d22 - d12*d12
	lambda1 := (d22*d1p - d12*d2p) / det
	lambda2 := (d11*d2p - d12*d1p) / det
	lambda0 := 1 - lambda1 - lambda2

	interior := lambda0 >= -eps && lambda1 >= -eps && lambda2 >= -eps

	return Result{
		Weights: []Weighted{
			{Index: 0, Weight: lambda0},
			{Index: 1, Weight: lambda1},
			{Index: 2, Weight: lambda2},
		},
		Interior: interior,
	}
}

// PlaneDistance returns the unsigned distance from q to the
// plane of the triangle v0-v1-v2. It is used by the mapping
// engine to rank candidate triangles before projecting each
// one in full (spec.md §4.3).
//
// PlaneDistance returns 0 for a degenerate triangle.
func PlaneDistance(q, v0, v1, v2 geom.Point) float64 {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	normal := e1.Cross(e2)
	norm := normal.Norm()
	if norm == 0 {
		return 0
	}
	return math.Abs(q.Sub(v0).Dot(normal)) / norm
}
