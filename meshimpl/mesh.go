// Package meshimpl provides the concrete, insertion-ordered
// mesh representation consumed by the projection, spatial
// index, and mapping packages.
//
// Unlike a triangle-soup mesh where vertices are derived
// implicitly from triangle corners, a meshimpl.Mesh keeps
// three explicit, independently addressable tables, per the
// data model's requirement that every vertex, edge, and
// triangle have a position stable for the life of the mesh.
package meshimpl

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/unixpickle/precice-map/geom"
)

// Vertex is a point with a stable id and a mutable tag bit.
//
// Coordinates never change after construction; only the
// tag bit mutates, and only via SetTag.
type Vertex struct {
	id     int
	coords geom.Point
	tagged bool
}

// ID returns the vertex's identifier, stable within its mesh.
func (v *Vertex) ID() int {
	return v.id
}

// Coords returns the vertex's fixed coordinates.
func (v *Vertex) Coords() geom.Point {
	return v.coords
}

// Tagged reports whether the tag bit is set.
func (v *Vertex) Tagged() bool {
	return v.tagged
}

// SetTag sets the tag bit to tag.
//
// Callers that want to preserve existing true tags across
// repeated tagging passes (as tagMeshFirstRound does) must
// only ever call SetTag(true), never SetTag(false).
func (v *Vertex) SetTag(tag bool) {
	v.tagged = tag
}

// Edge is an ordered pair of vertices in a single mesh.
type Edge struct {
	id int
	v0 *Vertex
	v1 *Vertex
}

// ID returns the edge's identifier, stable within its mesh.
func (e *Edge) ID() int {
	return e.id
}

// Vertices returns the edge's two endpoints, in order.
func (e *Edge) Vertices() (*Vertex, *Vertex) {
	return e.v0, e.v1
}

// Length returns the Euclidean length of the edge.
func (e *Edge) Length() float64 {
	return e.v0.Coords().Dist(e.v1.Coords())
}

// Bounds returns the edge's axis-aligned bounding box.
func (e *Edge) Bounds() geom.Rect {
	return geom.NewRectPoint(e.v0.Coords()).Union(geom.NewRectPoint(e.v1.Coords()))
}

// Triangle is an ordered triple of vertices in a single mesh.
type Triangle struct {
	id int
	v0 *Vertex
	v1 *Vertex
	v2 *Vertex
}

// ID returns the triangle's identifier, stable within its mesh.
func (t *Triangle) ID() int {
	return t.id
}

// Vertices returns the triangle's three corners, in order.
func (t *Triangle) Vertices() (*Vertex, *Vertex, *Vertex) {
	return t.v0, t.v1, t.v2
}

// Bounds returns the triangle's axis-aligned bounding box.
func (t *Triangle) Bounds() geom.Rect {
	r := geom.NewRectPoint(t.v0.Coords())
	r = r.Union(geom.NewRectPoint(t.v1.Coords()))
	r = r.Union(geom.NewRectPoint(t.v2.Coords()))
	return r
}

// Normal returns the (unnormalized) cross product of the
// triangle's two edge vectors. Its length is twice the
// triangle's area; a near-zero Normal indicates a
// degenerate triangle.
//
// Normal panics if the mesh is not 3-dimensional.
func (t *Triangle) Normal() geom.Point {
	e1 := t.v1.Coords().Sub(t.v0.Coords())
	e2 := t.v2.Coords().Sub(t.v0.Coords())
	return e1.Cross(e2)
}

// Mesh is a named, insertion-ordered collection of
// vertices, edges, and triangles of a fixed dimension.
//
// Every Edge and Triangle in a Mesh references Vertex
// values owned by that same Mesh. AddEdge and AddTriangle
// do not check this, so callers must not mix vertices
// between meshes; NeedsRepair reports a violation.
type Mesh struct {
	name      string
	dim       geom.Dim
	vertices  []*Vertex
	edges     []*Edge
	triangles []*Triangle
	version   uint64
}

// New creates an empty mesh named name with dimension dim.
func New(name string, dim geom.Dim) *Mesh {
	if dim != geom.Dim2 && dim != geom.Dim3 {
		panic(fmt.Sprintf("meshimpl: invalid dimension %d", dim))
	}
	return &Mesh{name: name, dim: dim}
}

// Name returns the mesh's diagnostic name.
func (m *Mesh) Name() string {
	return m.name
}

// Dim returns the mesh's dimension.
func (m *Mesh) Dim() geom.Dim {
	return m.dim
}

// Version returns a counter that increments whenever the
// mesh's vertex, edge, or triangle tables change. Cached
// spatial indices (see spatialindex) key on this value.
func (m *Mesh) Version() uint64 {
	return m.version
}

// Vertices returns the mesh's vertices, in insertion order.
// The returned slice must not be mutated by the caller.
func (m *Mesh) Vertices() []*Vertex {
	return m.vertices
}

// Edges returns the mesh's edges, in insertion order.
func (m *Mesh) Edges() []*Edge {
	return m.edges
}

// Triangles returns the mesh's triangles, in insertion order.
func (m *Mesh) Triangles() []*Triangle {
	return m.triangles
}

// AddVertex appends a new vertex with the given coordinates
// and returns it. The coordinates' length must match the
// mesh's dimension.
func (m *Mesh) AddVertex(coords geom.Point) *Vertex {
	if coords.Dim() != m.dim {
		panic(fmt.Sprintf("meshimpl: coordinate dimension %d does not match mesh dimension %d",
			coords.Dim(), m.dim))
	}
	v := &Vertex{id: len(m.vertices), coords: coords.Clone()}
	m.vertices = append(m.vertices, v)
	m.version++
	return v
}

// AddEdge appends a new edge between v0 and v1, which must
// already belong to m, and returns it.
func (m *Mesh) AddEdge(v0, v1 *Vertex) *Edge {
	e := &Edge{id: len(m.edges), v0: v0, v1: v1}
	m.edges = append(m.edges, e)
	m.version++
	return e
}

// AddTriangle appends a new triangle with corners v0, v1,
// v2, which must already belong to m, and returns it.
func (m *Mesh) AddTriangle(v0, v1, v2 *Vertex) *Triangle {
	t := &Triangle{id: len(m.triangles), v0: v0, v1: v1, v2: v2}
	m.triangles = append(m.triangles, t)
	m.version++
	return t
}

// NeedsRepair reports whether m mixes vertices from another
// mesh into its own edges or triangles, which would violate
// the mesh invariant in the data model.
func (m *Mesh) NeedsRepair() error {
	owned := make(map[*Vertex]bool, len(m.vertices))
	for _, v := range m.vertices {
		owned[v] = true
	}
	for _, e := range m.edges {
		if !owned[e.v0] || !owned[e.v1] {
			return errors.Errorf("meshimpl: edge %d references a vertex outside mesh %q", e.id, m.name)
		}
	}
	for _, t := range m.triangles {
		if !owned[t.v0] || !owned[t.v1] || !owned[t.v2] {
			return errors.Errorf("meshimpl: triangle %d references a vertex outside mesh %q", t.id, m.name)
		}
	}
	return nil
}
