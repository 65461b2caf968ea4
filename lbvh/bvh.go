// Package lbvh builds and stores a Linear Bounding Volume Hierarchy over a
// mesh's triangles: a bottom-up, lock-free radix-tree-forest construction
// producing an immutable array of internal nodes plus a root reference.
package lbvh

import (
	"github.com/achilleasa/go-lbvh/mesh"
	"github.com/achilleasa/go-lbvh/types"
)

// BVH is an immutable tree over a borrowed mesh. The builder guarantees
// len(Nodes) == TriangleCount-1 whenever the mesh has two or more
// triangles, in which case Root is a plain, untagged index into Nodes --
// unlike InternalNode.L/R, it never carries the leaf tag bit, since
// Traverse uses it directly to seed its stack. For a single-triangle mesh
// there are no internal nodes and Root holds the tagged leaf reference
// directly instead (see Build); for an empty mesh Root is KInvalid and
// every traversal misses.
type BVH struct {
	Root  uint32
	Nodes []InternalNode

	// Bound is the untranslated AABB of the whole mesh, kept around for
	// callers' diagnostics; traversal does not use it.
	Bound types.AABB

	// mesh is a weak, read-only reference: the BVH never owns or mutates
	// mesh storage, and the caller must keep it alive for as long as the
	// BVH is used.
	mesh *mesh.Mesh
}

// Mesh returns the mesh this BVH was built over.
func (b *BVH) Mesh() *mesh.Mesh {
	return b.mesh
}

// TriangleCount returns the number of triangles the BVH was built from.
func (b *BVH) TriangleCount() int {
	if b.mesh == nil {
		return 0
	}
	return b.mesh.TriangleCount()
}

// Destruct severs the BVH's reference to its mesh. Call this once the
// mesh storage the BVH was built over is no longer valid; the node array
// stays intact, but TriangleCount reports 0 from then on, so Traverse
// against a destructed BVH returns at once and every ray misses.
func (b *BVH) Destruct() {
	b.mesh = nil
}

// Stats summarizes a completed build, grounded on the kind of build-time
// diagnostics callers typically want to log or tabulate.
type Stats struct {
	TriangleCount int
	InternalNodes int
}

// Stats reports the size of the tree.
func (b *BVH) Stats() Stats {
	return Stats{
		TriangleCount: b.TriangleCount(),
		InternalNodes: len(b.Nodes),
	}
}
