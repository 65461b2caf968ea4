package lbvh

import (
	"runtime"
	"sort"
	"sync"

	"github.com/achilleasa/go-lbvh/mesh"
	"github.com/achilleasa/go-lbvh/morton"
	"github.com/achilleasa/go-lbvh/types"
)

// Leaf pairs a triangle index with the Morton code of its (normalized)
// centroid. The builder climbs the radix tree defined by the ascending
// order of Leaves by Morton code.
type Leaf struct {
	Triangle uint32
	Morton   uint32
}

// buildLeaves computes the mesh AABB and one Leaf per triangle, then sorts
// the leaves ascending by Morton code. Leaf fill is embarrassingly
// parallel (§4.C phase 2); the sort is not parallelized, since the builder's
// correctness does not depend on how Morton ties are broken.
func buildLeaves(m *mesh.Mesh) (leaves []Leaf, bounds types.AABB) {
	triCount := m.TriangleCount()
	leaves = make([]Leaf, triCount)
	if triCount == 0 {
		return leaves, types.EmptyAABB()
	}

	bounds = meshBounds(m, triCount)

	workers := runtime.GOMAXPROCS(0)
	if workers > triCount {
		workers = triCount
	}
	chunk := (triCount + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= triCount {
			break
		}
		if end > triCount {
			end = triCount
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				face := uint32(i)
				centroid := bounds.Normalize(m.Centroid(face))
				leaves[i] = Leaf{
					Triangle: face,
					Morton:   morton.Encode([3]float32{centroid[0], centroid[1], centroid[2]}),
				}
			}
		}(start, end)
	}
	wg.Wait()

	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].Morton < leaves[j].Morton
	})

	return leaves, bounds
}

// meshBounds merges the AABB of every triangle in the mesh. Like leaf fill,
// this is trivially data-parallel: each shard reduces its own slice of
// triangles and the partial boxes are merged once all shards finish.
func meshBounds(m *mesh.Mesh, triCount int) types.AABB {
	workers := runtime.GOMAXPROCS(0)
	if workers > triCount {
		workers = triCount
	}
	chunk := (triCount + workers - 1) / workers

	partials := make([]types.AABB, workers)
	for i := range partials {
		partials[i] = types.EmptyAABB()
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= triCount {
			break
		}
		if end > triCount {
			end = triCount
		}

		wg.Add(1)
		go func(shard, start, end int) {
			defer wg.Done()
			box := types.EmptyAABB()
			for i := start; i < end; i++ {
				box = box.Merge(m.BBox(uint32(i)))
			}
			partials[shard] = box
		}(w, start, end)
	}
	wg.Wait()

	total := types.EmptyAABB()
	for _, box := range partials {
		total = total.Merge(box)
	}
	return total
}
