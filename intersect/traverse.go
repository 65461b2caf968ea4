package intersect

import (
	"github.com/achilleasa/go-lbvh/lbvh"
)

// maxStackDepth bounds the explicit traversal stack. LBVH tree depth is at
// most ceil(log2(T)) plus a small constant, so 64 is comfortable for any
// triangle count that fits in a uint32 index space; callers asking us to
// traverse a tree deeper than this have violated that assumption and get a
// panic rather than silent stack corruption.
const maxStackDepth = 64

// Traverse walks bvh for the closest triangle hit along ray, writing the
// result into record (which the caller must have seeded via NewHitRecord
// so Dist starts at ray.TMax). hitAny is accepted for interface parity
// with the host contract but is not honored: this implementation always
// resolves the closest hit, matching the stated reference behavior.
//
// Traverse only reads bvh and the mesh it was built over; it never
// mutates either, so concurrent calls across many rays are safe.
func Traverse(bvh *lbvh.BVH, ray Ray, record *HitRecord, hitAny bool) {
	if bvh.TriangleCount() == 0 {
		return
	}

	if len(bvh.Nodes) == 0 {
		// Single-triangle mesh: Root is the tagged leaf reference
		// directly, there is nothing to walk.
		testLeaf(bvh, ray, record, bvh.Root)
		return
	}

	var stack [maxStackDepth]uint32
	sp := 0
	stack[sp] = bvh.Root
	sp++

	for sp > 0 {
		sp--
		v := stack[sp]
		node := bvh.Nodes[v]

		if !node.Box.Intersect(ray.Pos, ray.InvDir, record.Dist) {
			continue
		}

		for _, child := range [2]uint32{node.L, node.R} {
			idx, isLeaf := lbvh.DecodeChild(child)
			if isLeaf {
				testTriangle(bvh, ray, record, idx)
				continue
			}
			if sp >= maxStackDepth {
				panic("intersect: traversal stack overflow")
			}
			stack[sp] = idx
			sp++
		}
	}
}

// testLeaf resolves the Root-is-a-leaf degenerate case for single
// triangle meshes.
func testLeaf(bvh *lbvh.BVH, ray Ray, record *HitRecord, encodedRoot uint32) {
	idx, isLeaf := lbvh.DecodeChild(encodedRoot)
	if !isLeaf {
		return
	}
	testTriangle(bvh, ray, record, idx)
}

// testTriangle runs the Möller-Trumbore test for face against ray and
// tightens record on a closer hit. record.Dist is passed to Triangle as its
// strict upper bound, so a hit must be strictly closer than the current one
// to displace it; among triangles at an identical distance the one
// encountered first in traversal order wins.
func testTriangle(bvh *lbvh.BVH, ray Ray, record *HitRecord, face uint32) {
	p0, p1, p2 := bvh.Mesh().Positions3(face)

	hit, dist, u, v := Triangle(ray.Pos, ray.Dir, p0, p1, p2, ray.TMin, record.Dist)
	if !hit || dist > record.Dist {
		return
	}

	record.Hit = true
	record.Dist = dist
	record.U = u
	record.V = v
	record.FaceID = int32(face)
}
