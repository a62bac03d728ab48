package geom

import (
	"math"
	"testing"
)

func TestVectorOps(t *testing.T) {
	p := NewPoint3(1, 2, 3)
	q := NewPoint3(4, 5, 6)

	if d := p.Dot(q); d != 32 {
		t.Fatalf("expected dot=32, got %v", d)
	}
	sum := p.Add(q)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Fatalf("unexpected Add result: %+v", sum)
	}
	diff := q.Sub(p)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Fatalf("unexpected Sub result: %+v", diff)
	}
}

func TestCross(t *testing.T) {
	x := NewPoint3(1, 0, 0)
	y := NewPoint3(0, 1, 0)
	z := x.Cross(y)
	if math.Abs(z[2]-1) > 1e-12 || z[0] != 0 || z[1] != 0 {
		t.Fatalf("expected x cross y = z, got %+v", z)
	}
}

func TestCrossPanicsOn2D(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for 2D cross product")
		}
	}()
	NewPoint2(1, 0).Cross(NewPoint2(0, 1))
}

func TestRectUnion(t *testing.T) {
	r1 := Rect{Min: NewPoint2(0, 0), Max: NewPoint2(1, 1)}
	r2 := Rect{Min: NewPoint2(-1, 2), Max: NewPoint2(3, 3)}
	u := r1.Union(r2)
	if u.Min[0] != -1 || u.Min[1] != 0 || u.Max[0] != 3 || u.Max[1] != 3 {
		t.Fatalf("unexpected union: %+v", u)
	}
}

func TestDist(t *testing.T) {
	p := NewPoint2(0, 0)
	q := NewPoint2(3, 4)
	if d := p.Dist(q); math.Abs(d-5) > 1e-12 {
		t.Fatalf("expected dist=5, got %v", d)
	}
}
