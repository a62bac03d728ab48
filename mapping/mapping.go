// Package mapping implements the nearest-projection mapping
// engine (C5) and its tagging pass (C7): for every vertex of
// an "origins" mesh, it builds an interpolation stencil onto
// the primitives of a "search" mesh by cascading from
// triangles to edges to vertices.
package mapping

import (
	"sort"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/precice-map/diag"
	"github.com/unixpickle/precice-map/geom"
	"github.com/unixpickle/precice-map/mappingerr"
	"github.com/unixpickle/precice-map/meshimpl"
	"github.com/unixpickle/precice-map/projection"
	"github.com/unixpickle/precice-map/spatialindex"
	"github.com/unixpickle/precice-map/stencil"
)

// Constraint selects the direction of field transfer.
type Constraint int

const (
	// Consistent interpolates a state field from the input
	// mesh to the output mesh: origins are output vertices,
	// search primitives belong to the input mesh.
	Consistent Constraint = iota
	// Conservative applies the adjoint of a Consistent map,
	// preserving integrals: origins are input vertices, search
	// primitives belong to the output mesh.
	Conservative
)

func (c Constraint) String() string {
	if c == Consistent {
		return "consistent"
	}
	return "conservative"
}

// Requirement is what the enclosing system must provide for
// one side of a mapping: the full set of primitives, or just
// vertices.
type Requirement int

const (
	RequireFull Requirement = iota
	RequireVertexOnly
)

// candidateK is the R-tree over-fetch factor from spec.md
// §4.3: a small safety margin that virtually eliminates
// bounding-box-vs-geometry ranking misses. It is a fixed
// design parameter, not user-tunable.
const candidateK = 4

// state is the mapping instance's lifecycle state
// (spec.md §4.6).
type state int

const (
	stateEmpty state = iota
	stateComputed
)

// Mapping is a nearest-projection mapping instance. A
// Mapping owns its StencilTable exclusively; the origin and
// search meshes are shared, read-only, and must outlive it.
type Mapping struct {
	constraint Constraint
	dim        geom.Dim
	cache      *spatialindex.Cache
	diag       diag.Diag

	input  *meshimpl.Mesh
	output *meshimpl.Mesh

	state    state
	stencils stencil.Table

	warnedMissingTriangles bool
	warnedMissingEdges     bool
}

// New creates a Mapping for the given constraint and
// dimension. Call SetMeshes before computeMapping.
func New(constraint Constraint, dim geom.Dim) *Mapping {
	return &Mapping{
		constraint: constraint,
		dim:        dim,
		cache:      spatialindex.Global,
		diag:       diag.Nop,
	}
}

// SetDiag replaces the mapping's diagnostic sink. The
// default is diag.Nop.
func (m *Mapping) SetDiag(d diag.Diag) {
	m.diag = d
}

// SetCache replaces the mapping's spatial index cache. The
// default is the process-wide spatialindex.Global cache,
// shared read-only across mapping instances per spec.md §5.
func (m *Mapping) SetCache(c *spatialindex.Cache) {
	m.cache = c
}

// SetMeshes assigns the input and output meshes. Both must
// be non-nil and share m's dimension.
func (m *Mapping) SetMeshes(input, output *meshimpl.Mesh) {
	if input == nil || output == nil {
		panic("mapping: input and output meshes must be non-nil")
	}
	if input.Dim() != m.dim || output.Dim() != m.dim {
		panic("mapping: mesh dimension does not match mapping dimension")
	}
	m.input = input
	m.output = output
}

// Constraint returns the mapping's direction.
func (m *Mapping) Constraint() Constraint {
	return m.constraint
}

// Requirements reports what the enclosing system must
// request for the input and output meshes respectively, so
// remote participants can be asked for the right data
// (spec.md §6).
func (m *Mapping) Requirements() (input, output Requirement) {
	if m.constraint == Consistent {
		return RequireFull, RequireVertexOnly
	}
	return RequireVertexOnly, RequireFull
}

// OriginMesh returns the mesh whose vertices are being
// mapped (output under Consistent, input under Conservative).
func (m *Mapping) OriginMesh() *meshimpl.Mesh {
	return m.originMesh()
}

// SearchMesh returns the mesh whose primitives serve as
// projection targets (input under Consistent, output under
// Conservative).
func (m *Mapping) SearchMesh() *meshimpl.Mesh {
	return m.searchMesh()
}

// originMesh and searchMesh return the meshes playing each
// role for the current constraint (spec.md §4.3).
func (m *Mapping) originMesh() *meshimpl.Mesh {
	if m.constraint == Consistent {
		return m.output
	}
	return m.input
}

func (m *Mapping) searchMesh() *meshimpl.Mesh {
	if m.constraint == Consistent {
		return m.input
	}
	return m.output
}

// HasComputedMapping reports whether the stencil table is
// currently populated.
func (m *Mapping) HasComputedMapping() bool {
	return m.state == stateComputed
}

// Clear empties the stencil table and returns the mapping to
// the Empty state.
func (m *Mapping) Clear() {
	m.stencils.Clear()
	m.stencils = m.stencils[:0]
	m.state = stateEmpty
	m.warnedMissingTriangles = false
	m.warnedMissingEdges = false
}

// ComputeMapping populates the stencil table, one stencil
// per origin vertex, by cascading triangle -> edge -> vertex
// projections against the search mesh (spec.md §4.3).
//
// ComputeMapping fails only with mappingerr.EmptySearchSpace,
// when the search mesh has no vertices, edges, or triangles
// at all. On failure the mapping is left in the Empty state
// with any partial stencil table discarded.
func (m *Mapping) ComputeMapping() error {
	stop := m.diag.Start("computeMapping")
	defer stop()

	search := m.searchMesh()
	if len(search.Vertices()) == 0 && len(search.Edges()) == 0 && len(search.Triangles()) == 0 {
		m.Clear()
		return mappingerr.EmptySearchSpace(search.Name())
	}

	m.warnMissingGeometry()

	origins := m.originMesh()
	table := stencil.NewTable(len(origins.Vertices()))
	for i, v := range origins.Vertices() {
		table[i] = m.projectOne(v.Coords())
	}

	m.stencils = table
	m.state = stateComputed
	return nil
}

// ComputeMappingConcurrent is equivalent to ComputeMapping,
// but shards the per-origin loop across workers goroutines
// using essentials.ConcurrentMap, since each origin's
// stencil depends only on its own coordinates (spec.md §5).
// A workers value <= 0 is treated as 1.
func (m *Mapping) ComputeMappingConcurrent(workers int) error {
	stop := m.diag.Start("computeMappingConcurrent")
	defer stop()

	search := m.searchMesh()
	if len(search.Vertices()) == 0 && len(search.Edges()) == 0 && len(search.Triangles()) == 0 {
		m.Clear()
		return mappingerr.EmptySearchSpace(search.Name())
	}
	if workers <= 0 {
		workers = 1
	}

	m.warnMissingGeometry()

	origins := m.originMesh()
	table := stencil.NewTable(len(origins.Vertices()))
	essentials.ConcurrentMap(workers, len(origins.Vertices()), func(i int) {
		table[i] = m.projectOne(origins.Vertices()[i].Coords())
	})

	m.stencils = table
	m.state = stateComputed
	return nil
}

// warnMissingGeometry emits the "once per computeMapping"
// fallback warnings (spec.md §4.3, §7). The conditions depend
// only on the search mesh, not on any origin point, so this
// runs once before the per-origin loop rather than from
// projectOne, which may run concurrently across goroutines.
func (m *Mapping) warnMissingGeometry() {
	search := m.searchMesh()
	if m.dim == geom.Dim3 && len(search.Triangles()) == 0 && !m.warnedMissingTriangles {
		m.diag.Warnf("search mesh %q has no triangles; falling back to lower-dimensional projection", search.Name())
		m.warnedMissingTriangles = true
	}
	if len(search.Edges()) == 0 && m.dim == geom.Dim2 && !m.warnedMissingEdges {
		m.diag.Warnf("search mesh %q has no edges; falling back to vertex projection", search.Name())
		m.warnedMissingEdges = true
	}
}

// projectOne runs the triangle -> edge -> vertex cascade for
// a single origin point against the current search mesh. Safe
// to call concurrently: it neither reads nor writes
// m.warnedMissing*, which warnMissingGeometry sets before the
// loop starts.
func (m *Mapping) projectOne(q geom.Point) stencil.Stencil {
	search := m.searchMesh()

	if m.dim == geom.Dim3 && len(search.Triangles()) > 0 {
		if s, ok := m.tryTriangles(q); ok {
			return s
		}
	}

	if len(search.Edges()) > 0 {
		if s, ok := m.tryEdges(q); ok {
			return s
		}
	}

	return m.tryVertex(q)
}

func (m *Mapping) tryTriangles(q geom.Point) (stencil.Stencil, bool) {
	search := m.searchMesh()
	idx := m.cache.Triangles(search)
	candidates := idx.Nearest(q, candidateK)
	if len(candidates) == 0 {
		return nil, false
	}

	sort.Slice(candidates, func(a, b int) bool {
		da := planeDist(q, candidates[a].Triangle)
		db := planeDist(q, candidates[b].Triangle)
		if da != db {
			return da < db
		}
		return candidates[a].ID < candidates[b].ID
	})

	for _, c := range candidates {
		v0, v1, v2 := c.Triangle.Vertices()
		res := projection.Triangle(q, v0.Coords(), v1.Coords(), v2.Coords())
		if res.Interior {
			return stencil.Stencil{
				{Vertex: v0, Weight: res.Weights[0].Weight},
				{Vertex: v1, Weight: res.Weights[1].Weight},
				{Vertex: v2, Weight: res.Weights[2].Weight},
			}, true
		}
	}
	return nil, false
}

func planeDist(q geom.Point, t *meshimpl.Triangle) float64 {
	v0, v1, v2 := t.Vertices()
	return projection.PlaneDistance(q, v0.Coords(), v1.Coords(), v2.Coords())
}

func (m *Mapping) tryEdges(q geom.Point) (stencil.Stencil, bool) {
	search := m.searchMesh()
	idx := m.cache.Edges(search)
	candidates := idx.Nearest(q, candidateK)
	if len(candidates) == 0 {
		return nil, false
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].Dist != candidates[b].Dist {
			return candidates[a].Dist < candidates[b].Dist
		}
		return candidates[a].ID < candidates[b].ID
	})

	for _, c := range candidates {
		v0, v1 := c.Edge.Vertices()
		res := projection.Edge(q, v0.Coords(), v1.Coords())
		if res.Interior {
			return stencil.Stencil{
				{Vertex: v0, Weight: res.Weights[0].Weight},
				{Vertex: v1, Weight: res.Weights[1].Weight},
			}, true
		}
	}
	return nil, false
}

func (m *Mapping) tryVertex(q geom.Point) stencil.Stencil {
	search := m.searchMesh()
	idx := m.cache.Vertices(search)
	candidates := idx.Nearest(q, 1)
	if len(candidates) == 0 {
		// spec.md §4.3: "the vertex tree is assumed non-empty
		// whenever any origin exists"; if it is, EmptySearchSpace
		// should already have been raised in ComputeMapping.
		panic("mapping: vertex fallback found no candidates; search mesh has no primitives of any kind")
	}
	return stencil.Stencil{{Vertex: candidates[0].Vertex, Weight: 1}}
}

// TagMeshFirstRound computes the mapping, tags every
// search-mesh vertex referenced by a nonzero-weight stencil
// entry, then clears the stencil table (spec.md §4.5). The
// mesh tagged is always the search mesh, i.e. the one whose
// vertices InterpolationElements reference: the input mesh
// under Consistent, the output mesh under Conservative.
func (m *Mapping) TagMeshFirstRound() error {
	if err := m.ComputeMapping(); err != nil {
		return err
	}
	for _, s := range m.stencils {
		for _, e := range s {
			if e.Weight != 0 {
				// e.Vertex aliases a *meshimpl.Vertex owned by
				// m.searchMesh(): tryTriangles/tryEdges/tryVertex
				// all read vertices directly off search-mesh
				// primitives, never a copy, so this tag lands on
				// the mesh the caller actually asked to tag.
				e.Vertex.SetTag(true)
			}
		}
	}
	m.Clear()
	return nil
}

// TagMeshSecondRound is a no-op for the nearest-projection
// mapping flavour (spec.md §4.5).
func (m *Mapping) TagMeshSecondRound() error {
	return nil
}

// StencilTable exposes the current stencil table for
// inspection (e.g. by transfer.Map) and testing. It is only
// meaningfully populated when HasComputedMapping is true.
func (m *Mapping) StencilTable() stencil.Table {
	return m.stencils
}

// Dim returns the mapping's dimension.
func (m *Mapping) Dim() geom.Dim {
	return m.dim
}
