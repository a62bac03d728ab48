// Package spatialindex provides bulk-loaded, per-mesh
// nearest-primitive queries over vertices, edges, and
// triangles, backed by github.com/dhconnelly/rtreego R-trees
// and cached per (mesh, primitive kind) with version-counter
// invalidation (spec.md §4.2, §5, §9).
package spatialindex

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/unixpickle/precice-map/geom"
	"github.com/unixpickle/precice-map/meshimpl"
)

// minChildren/maxChildren bound rtreego's node fanout. These
// are the library's own recommended defaults and are not a
// spec-level tuning knob.
const (
	minChildren = 25
	maxChildren = 50
)

// Kind selects which primitive table an index is built over.
type Kind int

const (
	KindVertex Kind = iota
	KindEdge
	KindTriangle
)

// entry wraps one primitive as an rtreego.Spatial, carrying
// just enough to recover the original primitive and its id
// for the deterministic identifier tie-break (spec.md §4.3).
type entry struct {
	id     int
	bounds geom.Rect
	vertex *meshimpl.Vertex
	edge   *meshimpl.Edge
	tri    *meshimpl.Triangle
}

func (e *entry) Bounds() *rtreego.Rect {
	return toRtreeRect(e.bounds)
}

func toRtreeRect(r geom.Rect) *rtreego.Rect {
	lengths := r.Lengths()
	for i, l := range lengths {
		if l == 0 {
			// rtreego.NewRect rejects zero-length sides; widen
			// degenerate boxes (a lone vertex, a zero-length
			// edge) by an epsilon so the tree still indexes them.
			lengths[i] = 1e-12
		}
	}
	pt := make(rtreego.Point, len(r.Min))
	copy(pt, r.Min)
	rect, err := rtreego.NewRect(pt, lengths)
	if err != nil {
		// NewRect only errors on non-positive lengths, which
		// the widening above rules out.
		panic(err)
	}
	return rect
}

// Candidate is one result of a Nearest query: the matched
// primitive (exactly one of Vertex/Edge/Triangle is non-nil,
// matching the Kind queried) and its distance to the query
// point.
type Candidate struct {
	ID       int
	Vertex   *meshimpl.Vertex
	Edge     *meshimpl.Edge
	Triangle *meshimpl.Triangle
	Dist     float64
}

// Index answers nearest-primitive queries for one (mesh,
// kind) pair.
type Index struct {
	kind    Kind
	tree    *rtreego.Rtree
	entries map[int]*entry
}

// buildVertexIndex, buildEdgeIndex, and buildTriangleIndex
// bulk-load an Index over the given primitives. An empty
// slice yields a valid, always-empty Index, per
// spec.md §4.2's "returns an empty result, not an error"
// contract.
func buildVertexIndex(dim geom.Dim, vertices []*meshimpl.Vertex) *Index {
	spatial := make([]rtreego.Spatial, 0, len(vertices))
	entries := make(map[int]*entry, len(vertices))
	for _, v := range vertices {
		e := &entry{id: v.ID(), bounds: geom.NewRectPoint(v.Coords()), vertex: v}
		entries[v.ID()] = e
		spatial = append(spatial, e)
	}
	return &Index{kind: KindVertex, tree: newTree(int(dim), spatial), entries: entries}
}

func buildEdgeIndex(dim geom.Dim, edges []*meshimpl.Edge) *Index {
	spatial := make([]rtreego.Spatial, 0, len(edges))
	entries := make(map[int]*entry, len(edges))
	for _, ed := range edges {
		e := &entry{id: ed.ID(), bounds: ed.Bounds(), edge: ed}
		entries[ed.ID()] = e
		spatial = append(spatial, e)
	}
	return &Index{kind: KindEdge, tree: newTree(int(dim), spatial), entries: entries}
}

func buildTriangleIndex(dim geom.Dim, tris []*meshimpl.Triangle) *Index {
	spatial := make([]rtreego.Spatial, 0, len(tris))
	entries := make(map[int]*entry, len(tris))
	for _, tr := range tris {
		e := &entry{id: tr.ID(), bounds: tr.Bounds(), tri: tr}
		entries[tr.ID()] = e
		spatial = append(spatial, e)
	}
	return &Index{kind: KindTriangle, tree: newTree(int(dim), spatial), entries: entries}
}

func newTree(dim int, spatial []rtreego.Spatial) *rtreego.Rtree {
	// rtreego.NewTree performs an STR bulk load when objects
	// are passed at construction time, rather than inserting
	// them one at a time.
	return rtreego.NewTree(dim, minChildren, maxChildren, spatial...)
}

// Nearest returns the k primitives of i's kind closest to
// point, in arbitrary order but with ties between equal
// distances broken deterministically by ascending primitive
// id (spec.md §4.2, §4.3). If i is empty, Nearest returns
// nil.
func (i *Index) Nearest(point geom.Point, k int) []Candidate {
	if i == nil || i.tree.Size() == 0 {
		return nil
	}
	pt := make(rtreego.Point, len(point))
	copy(pt, point)
	// k may exceed the tree's size; NearestNeighbors returns
	// fewer entries (padded with nils) rather than erroring.
	found := i.tree.NearestNeighbors(k, pt)

	out := make([]Candidate, 0, len(found))
	for _, s := range found {
		if s == nil {
			continue
		}
		e := s.(*entry)
		out = append(out, Candidate{
			ID:       e.id,
			Vertex:   e.vertex,
			Edge:     e.edge,
			Triangle: e.tri,
			Dist:     distanceTo(e, point),
		})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Dist != out[b].Dist {
			return out[a].Dist < out[b].Dist
		}
		return out[a].ID < out[b].ID
	})
	return out
}

func distanceTo(e *entry, point geom.Point) float64 {
	switch {
	case e.vertex != nil:
		return e.vertex.Coords().Dist(point)
	case e.edge != nil:
		v0, v1 := e.edge.Vertices()
		return distPointSegment(point, v0.Coords(), v1.Coords())
	case e.tri != nil:
		v0, v1, v2 := e.tri.Vertices()
		// Ranking here need only be approximate (the caller
		// re-sorts by exact plane distance, spec.md §4.3); the
		// centroid distance is a cheap, stable proxy for the
		// rtreego NearestNeighbors rank.
		centroid := v0.Coords().Add(v1.Coords()).Add(v2.Coords()).Scale(1.0 / 3)
		return point.Dist(centroid)
	default:
		return 0
	}
}

func distPointSegment(q, v0, v1 geom.Point) float64 {
	d := v1.Sub(v0)
	denom := d.Dot(d)
	if denom == 0 {
		return q.Dist(v0)
	}
	t := q.Sub(v0).Dot(d) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := v0.Add(d.Scale(t))
	return q.Dist(closest)
}
