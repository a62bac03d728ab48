package projection

import (
	"math"
	"testing"

	"github.com/unixpickle/precice-map/geom"
)

func weightSum(ws []Weighted) float64 {
	var sum float64
	for _, w := range ws {
		sum += w.Weight
	}
	return sum
}

func TestTriangleInterior(t *testing.T) {
	v0 := geom.NewPoint3(0, 0, 0)
	v1 := geom.NewPoint3(1, 0, 0)
	v2 := geom.NewPoint3(0, 1, 0)
	q := geom.NewPoint3(0.25, 0.25, 0.5)

	res := Triangle(q, v0, v1, v2)
	if !res.Interior {
		t.Fatalf("expected interior projection, got %+v", res)
	}
	if math.Abs(weightSum(res.Weights)-1) > 1e-12 {
		t.Fatalf("weights do not sum to 1: %+v", res.Weights)
	}
	if math.Abs(res.Weights[0].Weight-0.5) > 1e-9 {
		t.Fatalf("expected lambda0=0.5, got %v", res.Weights[0].Weight)
	}
	if math.Abs(res.Weights[1].Weight-0.25) > 1e-9 {
		t.Fatalf("expected lambda1=0.25, got %v", res.Weights[1].Weight)
	}
	if math.Abs(res.Weights[2].Weight-0.25) > 1e-9 {
		t.Fatalf("expected lambda2=0.25, got %v", res.Weights[2].Weight)
	}
}

func TestTriangleExterior(t *testing.T) {
	v0 := geom.NewPoint3(0, 0, 0)
	v1 := geom.NewPoint3(1, 0, 0)
	v2 := geom.NewPoint3(0, 1, 0)
	q := geom.NewPoint3(5, 5, 0)

	res := Triangle(q, v0, v1, v2)
	if res.Interior {
		t.Fatalf("expected exterior projection, got %+v", res)
	}
	if math.Abs(weightSum(res.Weights)-1) > 1e-9 {
		t.Fatalf("weights should still sum to 1 outside the triangle: %+v", res.Weights)
	}
}

func TestTriangleDegenerate(t *testing.T) {
	v0 := geom.NewPoint3(0, 0, 0)
	v1 := geom.NewPoint3(1, 0, 0)
	v2 := geom.NewPoint3(2, 0, 0) // collinear: zero area.
	q := geom.NewPoint3(0.5, 1, 0)

	res := Triangle(q, v0, v1, v2)
	if res.Interior {
		t.Fatalf("degenerate triangle must never report interior")
	}
}

func TestEdgeMidpoint(t *testing.T) {
	v0 := geom.NewPoint2(0, 0)
	v1 := geom.NewPoint2(1, 0)
	q := geom.NewPoint2(0.5, 1)

	res := Edge(q, v0, v1)
	if !res.Interior {
		t.Fatalf("expected interior edge projection, got %+v", res)
	}
	if math.Abs(res.Weights[0].Weight-0.5) > 1e-9 || math.Abs(res.Weights[1].Weight-0.5) > 1e-9 {
		t.Fatalf("expected midpoint weights, got %+v", res.Weights)
	}
}

func TestEdgeExterior(t *testing.T) {
	v0 := geom.NewPoint2(0, 0)
	v1 := geom.NewPoint2(1, 0)
	q := geom.NewPoint2(2, 5)

	res := Edge(q, v0, v1)
	if res.Interior {
		t.Fatalf("expected exterior edge projection, got %+v", res)
	}
}

func TestVertex(t *testing.T) {
	res := Vertex(geom.NewPoint2(9, 9), geom.NewPoint2(0, 0))
	if !res.Interior {
		t.Fatalf("vertex projection is always interior")
	}
	if len(res.Weights) != 1 || res.Weights[0].Weight != 1 {
		t.Fatalf("expected unit weight, got %+v", res.Weights)
	}
}

func TestPlaneDistance(t *testing.T) {
	v0 := geom.NewPoint3(0, 0, 0)
	v1 := geom.NewPoint3(1, 0, 0)
	v2 := geom.NewPoint3(0, 1, 0)
	q := geom.NewPoint3(0.25, 0.25, 0.5)

	d := PlaneDistance(q, v0, v1, v2)
	if math.Abs(d-0.5) > 1e-9 {
		t.Fatalf("expected plane distance 0.5, got %v", d)
	}
}
