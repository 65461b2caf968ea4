package intersect

import (
	"io"
	"math"
	"math/rand"
	"os"
	"testing"

	"github.com/achilleasa/go-lbvh/lbvh"
	"github.com/achilleasa/go-lbvh/log"
	"github.com/achilleasa/go-lbvh/mesh"
	"github.com/achilleasa/go-lbvh/types"
)

func quad(ox, oy, oz float32) ([]types.Vector3f, []mesh.VertexIndex, uint32) {
	base := uint32(0)
	positions := []types.Vector3f{
		types.XYZ(ox-1, oy-1, oz),
		types.XYZ(ox+1, oy-1, oz),
		types.XYZ(ox, oy+1, oz),
	}
	indices := []mesh.VertexIndex{
		{P: base + 0, N: 0},
		{P: base + 1, N: 0},
		{P: base + 2, N: 0},
	}
	return positions, indices, base
}

func singleTriangleMesh() *mesh.Mesh {
	p, idx, _ := quad(0, 0, 0)
	return &mesh.Mesh{
		Positions: p,
		Normals:   []types.Vector3f{types.XYZ(0, 0, 1)},
		Indices:   idx,
	}
}

func TestTraverseSingleTriangleHit(t *testing.T) {
	m := singleTriangleMesh()
	bvh := lbvh.Build(m)

	ray := NewRay(types.XYZ(0, -0.3, -5), types.XYZ(0, 0, 1), 0, math.MaxFloat32)
	record := NewHitRecord(ray)
	Traverse(bvh, ray, &record, false)

	if !record.Hit {
		t.Fatalf("expected a hit against the single triangle")
	}
	if record.FaceID != 0 {
		t.Fatalf("expected face 0, got %d", record.FaceID)
	}
}

func TestTraverseSingleTriangleMiss(t *testing.T) {
	m := singleTriangleMesh()
	bvh := lbvh.Build(m)

	ray := NewRay(types.XYZ(50, 50, -5), types.XYZ(0, 0, 1), 0, math.MaxFloat32)
	record := NewHitRecord(ray)
	Traverse(bvh, ray, &record, false)

	if record.Hit {
		t.Fatalf("expected no hit against a ray that misses the mesh entirely")
	}
}

func TestTraverseEmptyMesh(t *testing.T) {
	m := &mesh.Mesh{}
	bvh := lbvh.Build(m)

	ray := NewRay(types.XYZ(0, 0, -5), types.XYZ(0, 0, 1), 0, math.MaxFloat32)
	record := NewHitRecord(ray)
	Traverse(bvh, ray, &record, false)

	if record.Hit {
		t.Fatalf("expected no hit against an empty mesh")
	}
}

// Two triangles are stacked along the ray at z=2 (face 0) and z=1
// (face 1), so the ray crosses both; the strictly-closer second triangle
// must win regardless of traversal order.
func TestTraverseClosestHitAmongOverlapping(t *testing.T) {
	m := &mesh.Mesh{
		Positions: []types.Vector3f{
			types.XYZ(-1, -1, 2), types.XYZ(1, -1, 2), types.XYZ(0, 1, 2),
			types.XYZ(-1, -1, 1), types.XYZ(1, -1, 1), types.XYZ(0, 1, 1),
		},
		Normals: []types.Vector3f{types.XYZ(0, 0, 1)},
		Indices: []mesh.VertexIndex{
			{P: 0, N: 0}, {P: 1, N: 0}, {P: 2, N: 0},
			{P: 3, N: 0}, {P: 4, N: 0}, {P: 5, N: 0},
		},
	}
	bvh := lbvh.Build(m)

	ray := NewRay(types.XYZ(0, -0.3, 0), types.XYZ(0, 0, 1), 0, math.MaxFloat32)
	record := NewHitRecord(ray)
	Traverse(bvh, ray, &record, false)

	if !record.Hit {
		t.Fatalf("expected a hit")
	}
	if record.FaceID != 1 {
		t.Fatalf("expected the nearer triangle (face 1) to win, got face %d", record.FaceID)
	}
	if math.Abs(float64(record.Dist-1)) > 1e-4 {
		t.Fatalf("expected dist ~1, got %v", record.Dist)
	}
}

// A ray whose true hit distance lands exactly on TMax must never report a
// hit, since traversal's accepted range is half-open [tmin, tmax).
func TestTraverseExactTMaxNeverHits(t *testing.T) {
	m := singleTriangleMesh()
	bvh := lbvh.Build(m)

	ray := NewRay(types.XYZ(0, -0.3, -5), types.XYZ(0, 0, 1), 0, 5)
	record := NewHitRecord(ray)
	Traverse(bvh, ray, &record, false)

	if record.Hit {
		t.Fatalf("expected no hit when the true distance equals TMax exactly")
	}

	ray2 := NewRay(types.XYZ(0, -0.3, -5), types.XYZ(0, 0, 1), 0, 5.0001)
	record2 := NewHitRecord(ray2)
	Traverse(bvh, ray2, &record2, false)
	if !record2.Hit {
		t.Fatalf("expected a hit just past the true distance")
	}
}

// TestTraverseMatchesBruteForce builds a large random mesh and checks the
// BVH traversal's closest hit against an independent brute-force scan over
// every triangle, for many random rays. Skipped under -short since it
// exercises a 10^5-triangle build.
func TestTraverseMatchesBruteForce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large random mesh comparison in short mode")
	}

	rnd := rand.New(rand.NewSource(42))
	const triCount = 100000
	m := &mesh.Mesh{
		Normals: []types.Vector3f{types.XYZ(0, 0, 1)},
	}
	for i := 0; i < triCount; i++ {
		ox := rnd.Float32() * 1000
		oy := rnd.Float32() * 1000
		oz := rnd.Float32() * 1000
		base := uint32(len(m.Positions))
		m.Positions = append(m.Positions,
			types.XYZ(ox, oy, oz),
			types.XYZ(ox+1, oy, oz),
			types.XYZ(ox, oy+1, oz),
		)
		m.Indices = append(m.Indices,
			mesh.VertexIndex{P: base + 0, N: 0},
			mesh.VertexIndex{P: base + 1, N: 0},
			mesh.VertexIndex{P: base + 2, N: 0},
		)
	}
	bvh := lbvh.Build(m)

	const rayCount = 1000
	for i := 0; i < rayCount; i++ {
		pos := types.XYZ(rnd.Float32()*1000, rnd.Float32()*1000, -10)
		dir := types.XYZ(0, 0, 1)
		ray := NewRay(pos, dir, 0, math.MaxFloat32)

		got := NewHitRecord(ray)
		Traverse(bvh, ray, &got, false)

		want := NewHitRecord(ray)
		for f := uint32(0); f < uint32(m.TriangleCount()); f++ {
			p0, p1, p2 := m.Positions3(f)
			hit, dist, u, v := Triangle(ray.Pos, ray.Dir, p0, p1, p2, ray.TMin, want.Dist)
			if hit && dist <= want.Dist {
				want.Hit = true
				want.Dist = dist
				want.U = u
				want.V = v
				want.FaceID = int32(f)
			}
		}

		if got.Hit != want.Hit {
			t.Fatalf("ray %d: hit mismatch got=%v want=%v", i, got.Hit, want.Hit)
		}
		if got.Hit && math.Abs(float64(got.Dist-want.Dist)) > 1e-3 {
			t.Fatalf("ray %d: dist mismatch got=%v want=%v", i, got.Dist, want.Dist)
		}
	}
}

func benchmarkMesh(triCount int, rnd *rand.Rand) *mesh.Mesh {
	m := &mesh.Mesh{Normals: []types.Vector3f{types.XYZ(0, 0, 1)}}
	for i := 0; i < triCount; i++ {
		ox := rnd.Float32() * 1000
		oy := rnd.Float32() * 1000
		oz := rnd.Float32() * 1000
		base := uint32(len(m.Positions))
		m.Positions = append(m.Positions,
			types.XYZ(ox, oy, oz),
			types.XYZ(ox+1, oy, oz),
			types.XYZ(ox, oy+1, oz),
		)
		m.Indices = append(m.Indices,
			mesh.VertexIndex{P: base + 0, N: 0},
			mesh.VertexIndex{P: base + 1, N: 0},
			mesh.VertexIndex{P: base + 2, N: 0},
		)
	}
	return m
}

func BenchmarkTraverse1000(b *testing.B) {
	benchmarkTraverse(1000, b)
}

func BenchmarkTraverse10000(b *testing.B) {
	benchmarkTraverse(10000, b)
}

func BenchmarkTraverse100000(b *testing.B) {
	benchmarkTraverse(100000, b)
}

func benchmarkTraverse(triCount int, b *testing.B) {
	log.SetSink(io.Discard)
	defer func() {
		log.SetSink(os.Stdout)
	}()

	rnd := rand.New(rand.NewSource(99))
	m := benchmarkMesh(triCount, rnd)
	bvh := lbvh.Build(m)

	pos := types.XYZ(rnd.Float32()*1000, rnd.Float32()*1000, -10)
	dir := types.XYZ(0, 0, 1)
	ray := NewRay(pos, dir, 0, math.MaxFloat32)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		record := NewHitRecord(ray)
		Traverse(bvh, ray, &record, false)
	}
}
