package meshimpl

import (
	"testing"

	"github.com/unixpickle/precice-map/geom"
)

func TestAddAndVersion(t *testing.T) {
	m := New("m", geom.Dim2)
	if m.Version() != 0 {
		t.Fatalf("expected version 0 on empty mesh")
	}
	v0 := m.AddVertex(geom.NewPoint2(0, 0))
	v1 := m.AddVertex(geom.NewPoint2(1, 0))
	if v0.ID() != 0 || v1.ID() != 1 {
		t.Fatalf("expected sequential ids, got %d, %d", v0.ID(), v1.ID())
	}
	if m.Version() != 2 {
		t.Fatalf("expected version 2 after two inserts, got %d", m.Version())
	}

	e := m.AddEdge(v0, v1)
	if e.ID() != 0 {
		t.Fatalf("expected first edge id 0, got %d", e.ID())
	}
	if m.Version() != 3 {
		t.Fatalf("expected version 3 after edge insert, got %d", m.Version())
	}
}

func TestTagPreservesExistingTrue(t *testing.T) {
	m := New("m", geom.Dim2)
	v := m.AddVertex(geom.NewPoint2(0, 0))
	v.SetTag(true)
	v.SetTag(true)
	if !v.Tagged() {
		t.Fatalf("expected tag to remain set")
	}
}

func TestNeedsRepairCrossMeshReference(t *testing.T) {
	m1 := New("m1", geom.Dim2)
	v0 := m1.AddVertex(geom.NewPoint2(0, 0))
	v1 := m1.AddVertex(geom.NewPoint2(1, 0))
	m1.AddEdge(v0, v1)
	if err := m1.NeedsRepair(); err != nil {
		t.Fatalf("expected no repair needed, got %v", err)
	}

	m2 := New("m2", geom.Dim2)
	foreign := m2.AddVertex(geom.NewPoint2(9, 9))
	m1.AddEdge(v0, foreign)
	if err := m1.NeedsRepair(); err == nil {
		t.Fatalf("expected repair error for cross-mesh edge reference")
	}
}

func TestDimensionPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for mismatched dimension")
		}
	}()
	m := New("m", geom.Dim3)
	m.AddVertex(geom.NewPoint2(0, 0))
}

func TestTriangleBoundsAndNormal(t *testing.T) {
	m := New("tri", geom.Dim3)
	v0 := m.AddVertex(geom.NewPoint3(0, 0, 0))
	v1 := m.AddVertex(geom.NewPoint3(1, 0, 0))
	v2 := m.AddVertex(geom.NewPoint3(0, 1, 0))
	tr := m.AddTriangle(v0, v1, v2)

	n := tr.Normal()
	if n.Norm() == 0 {
		t.Fatalf("expected nonzero normal for non-degenerate triangle")
	}

	b := tr.Bounds()
	if b.Min[0] != 0 || b.Max[0] != 1 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}
