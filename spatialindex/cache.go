package spatialindex

import (
	"sync"

	"github.com/unixpickle/precice-map/meshimpl"
)

// cacheKey identifies one cached index by mesh identity and
// primitive kind (spec.md §5, §9). Mesh identity is the
// mesh's own pointer, since meshimpl.Mesh values are never
// copied by value in this codebase.
type cacheKey struct {
	mesh *meshimpl.Mesh
	kind Kind
}

type cachedIndex struct {
	version uint64
	index   *Index
}

// Cache is a process-wide, keyed store of spatial indices,
// as described by spec.md §9: not a module-level mutable
// singleton, but an explicit value any number of mapping
// instances can share read-only.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*cachedIndex
}

// NewCache creates an empty index cache.
func NewCache() *Cache {
	return &Cache{entries: map[cacheKey]*cachedIndex{}}
}

// Global is the default, package-level Cache used by
// mapping instances that do not supply their own. Using a
// single Cache value (rather than unexported package state)
// keeps the invalidation protocol explicit and testable.
var Global = NewCache()

// Vertices returns the cached vertex index for mesh,
// rebuilding it if absent or if mesh's version has advanced
// since it was built.
func (c *Cache) Vertices(mesh *meshimpl.Mesh) *Index {
	return c.get(mesh, KindVertex, func() *Index {
		return buildVertexIndex(mesh.Dim(), mesh.Vertices())
	})
}

// Edges returns the cached edge index for mesh.
func (c *Cache) Edges(mesh *meshimpl.Mesh) *Index {
	return c.get(mesh, KindEdge, func() *Index {
		return buildEdgeIndex(mesh.Dim(), mesh.Edges())
	})
}

// Triangles returns the cached triangle index for mesh.
func (c *Cache) Triangles(mesh *meshimpl.Mesh) *Index {
	return c.get(mesh, KindTriangle, func() *Index {
		return buildTriangleIndex(mesh.Dim(), mesh.Triangles())
	})
}

func (c *Cache) get(mesh *meshimpl.Mesh, kind Kind, build func() *Index) *Index {
	key := cacheKey{mesh: mesh, kind: kind}
	version := mesh.Version()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && entry.version == version {
		return entry.index
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Re-check under the write lock in case another goroutine
	// rebuilt it while we were waiting.
	if entry, ok := c.entries[key]; ok && entry.version == version {
		return entry.index
	}
	idx := build()
	c.entries[key] = &cachedIndex{version: version, index: idx}
	return idx
}

// Invalidate drops every cached index for mesh. It is not
// required for correctness (a version bump alone makes the
// cache miss), but lets callers reclaim memory immediately
// when a mesh is discarded.
func (c *Cache) Invalidate(mesh *meshimpl.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, kind := range []Kind{KindVertex, KindEdge, KindTriangle} {
		delete(c.entries, cacheKey{mesh: mesh, kind: kind})
	}
}
