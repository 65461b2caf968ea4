package intersect

import (
	"math"
	"testing"

	"github.com/achilleasa/go-lbvh/types"
)

func axisAlignedTriangle() (p0, p1, p2 types.Vector3f) {
	return types.XYZ(-1, -1, 0), types.XYZ(1, -1, 0), types.XYZ(0, 1, 0)
}

func TestTriangleHitCentered(t *testing.T) {
	p0, p1, p2 := axisAlignedTriangle()
	pos := types.XYZ(0, -0.33333334, -5)
	dir := types.XYZ(0, 0, 1)

	hit, dist, u, v := Triangle(pos, dir, p0, p1, p2, 0, math.MaxFloat32)
	if !hit {
		t.Fatalf("expected hit through triangle interior")
	}
	if math.Abs(float64(dist-5)) > 1e-4 {
		t.Fatalf("expected dist ~5, got %v", dist)
	}
	w := 1 - u - v
	if u < 0 || v < 0 || w < 0 {
		t.Fatalf("expected non-negative barycentrics, got u=%v v=%v w=%v", u, v, w)
	}
}

func TestTriangleMissOutsideEdge(t *testing.T) {
	p0, p1, p2 := axisAlignedTriangle()
	pos := types.XYZ(5, 5, -5)
	dir := types.XYZ(0, 0, 1)

	hit, _, _, _ := Triangle(pos, dir, p0, p1, p2, 0, math.MaxFloat32)
	if hit {
		t.Fatalf("expected miss for ray far outside the triangle's footprint")
	}
}

func TestTriangleTMaxClips(t *testing.T) {
	p0, p1, p2 := axisAlignedTriangle()
	pos := types.XYZ(0, -0.33333334, -5)
	dir := types.XYZ(0, 0, 1)

	if hit, _, _, _ := Triangle(pos, dir, p0, p1, p2, 0, 4); hit {
		t.Fatalf("expected miss when tmax is closer than the true hit distance")
	}
	if hit, _, _, _ := Triangle(pos, dir, p0, p1, p2, 0, 5); hit {
		t.Fatalf("expected miss exactly at tmax, since the upper bound is strict")
	}
	if hit, _, _, _ := Triangle(pos, dir, p0, p1, p2, 0, 5.0001); !hit {
		t.Fatalf("expected hit when tmax is just past the true hit distance")
	}
}

func TestTriangleTMinClips(t *testing.T) {
	p0, p1, p2 := axisAlignedTriangle()
	pos := types.XYZ(0, -0.33333334, -5)
	dir := types.XYZ(0, 0, 1)

	if hit, _, _, _ := Triangle(pos, dir, p0, p1, p2, 6, math.MaxFloat32); hit {
		t.Fatalf("expected miss when tmin is past the true hit distance")
	}
}

func TestTriangleDegenerateZeroArea(t *testing.T) {
	p0 := types.XYZ(0, 0, 0)
	p1 := types.XYZ(1, 0, 0)
	p2 := types.XYZ(2, 0, 0)
	pos := types.XYZ(0.5, -5, 0)
	dir := types.XYZ(0, 1, 0)

	if hit, _, _, _ := Triangle(pos, dir, p0, p1, p2, 0, math.MaxFloat32); hit {
		t.Fatalf("expected zero-area triangle to never report a hit")
	}
}

func TestTriangleDegenerateParallelRay(t *testing.T) {
	p0, p1, p2 := axisAlignedTriangle()
	pos := types.XYZ(0, 0, -5)
	dir := types.XYZ(1, 0, 0)

	if hit, _, _, _ := Triangle(pos, dir, p0, p1, p2, 0, math.MaxFloat32); hit {
		t.Fatalf("expected ray parallel to the triangle's plane to miss")
	}
}
