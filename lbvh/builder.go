package lbvh

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/achilleasa/go-lbvh/log"
	"github.com/achilleasa/go-lbvh/mesh"
	"github.com/achilleasa/go-lbvh/types"
)

var logger = log.New("lbvh")

// delta is the radix-tree key comparator between sorted leaf positions i and
// i+1: the XOR of their Morton codes. Larger values mean the split between
// the two positions sits at a higher (coarser) bit, hence closer to the
// root. By convention delta(-1) and delta(len(leaves)-1) are +infinity so
// the ends of the sorted sequence never look like an internal split point.
func delta(leaves []Leaf, i int) uint32 {
	if i < 0 || i >= len(leaves)-1 {
		return 0xFFFFFFFF
	}
	return leaves[i+1].Morton ^ leaves[i].Morton
}

// climb walks leaf i up through its ancestor chain, synchronizing with the
// sibling that shares each internal node via a single atomic exchange per
// node. Exactly one of the two children visiting a given node continues
// past it -- the one whose exchange observes the sibling's already-stored
// endpoint, rather than the KInvalid sentinel.
//
// leftBoxes/rightBoxes are scratch, one slot per internal node per side.
// Each side's box is written by that side alone before its atomic
// exchange, which is what lets the side that continues read both
// afterwards without a separate lock: the exchange is the release/acquire
// fence that publishes the pre-exchange writes of whichever side happens
// to arrive first to whichever side arrives second.
func climb(
	leafPos uint32,
	leaves []Leaf,
	meshBounds types.AABB,
	m *mesh.Mesh,
	nodes []InternalNode,
	otherBounds []atomic.Uint32,
	leftBoxes, rightBoxes []types.AABB,
	root *atomic.Uint32,
) {
	n := uint32(len(nodes))
	origin := meshBounds.Min.Scale(-1)

	current := leafPos
	isLeaf := true
	L, R := leafPos, leafPos
	box := m.BBox(leaves[leafPos].Triangle).Translate(origin)

	for {
		if L == 0 && R == n {
			root.Store(current)
			return
		}

		var encoded uint32
		if isLeaf {
			encoded = encodeLeaf(leaves[current].Triangle)
		} else {
			encoded = encodeInternal(current)
		}

		leftChild := L == 0 || (R != n && delta(leaves, int(R)) < delta(leaves, int(L)-1))

		var parent, myEndpoint uint32
		if leftChild {
			parent = R
			myEndpoint = L
			nodes[parent].L = encoded
			leftBoxes[parent] = box
		} else {
			parent = L - 1
			myEndpoint = R
			nodes[parent].R = encoded
			rightBoxes[parent] = box
		}

		prev := otherBounds[parent].Swap(myEndpoint)
		if prev == KInvalid {
			// I arrived first: the other side owns continuing past this
			// node and will read what I just wrote.
			return
		}

		if leftChild {
			R = prev
		} else {
			L = prev
		}

		merged := leftBoxes[parent].Merge(rightBoxes[parent])
		nodes[parent].Box = merged

		box = merged
		current = parent
		isLeaf = false
	}
}

// Build constructs a BVH over every triangle in m. It is safe to call
// concurrently with Traverse calls on BVHs built from prior calls, but a
// single Build must complete (its goroutines joined) before any Traverse
// call against its result, per the happens-before requirement between
// build and traversal.
func Build(m *mesh.Mesh) *BVH {
	buildStart := time.Now()
	triCount := m.TriangleCount()
	if triCount == 0 {
		logger.Debugf("build skipped: mesh has no triangles")
		return &BVH{Root: KInvalid, mesh: m}
	}

	leaves, bounds := buildLeaves(m)

	if triCount == 1 {
		bvh := &BVH{
			Root:  encodeLeaf(leaves[0].Triangle),
			mesh:  m,
			Bound: bounds,
		}
		logger.Debugf("built BVH: %d triangle, 0 internal nodes, %s", triCount, time.Since(buildStart))
		return bvh
	}

	n := triCount - 1
	nodes := make([]InternalNode, n)
	for i := range nodes {
		nodes[i].L = KInvalid
		nodes[i].R = KInvalid
	}
	otherBounds := make([]atomic.Uint32, n)
	for i := range otherBounds {
		otherBounds[i].Store(KInvalid)
	}
	leftBoxes := make([]types.AABB, n)
	rightBoxes := make([]types.AABB, n)
	var root atomic.Uint32
	root.Store(KInvalid)

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
				climb(uint32(i), leaves, bounds, m, nodes, otherBounds, leftBoxes, rightBoxes, &root)
			}
		}(start, end)
	}
	wg.Wait()

	if root.Load() == KInvalid {
		panic("lbvh: build finished without any climb reaching the root")
	}
	for i := range nodes {
		if nodes[i].L == KInvalid || nodes[i].R == KInvalid {
			panic("lbvh: internal node is missing a child after build")
		}
	}

	detranslateBoxes(nodes, bounds.Min)

	logger.Debugf("built BVH: %d triangles, %d internal nodes, %s", triCount, len(nodes), time.Since(buildStart))

	return &BVH{
		Root:  root.Load(),
		Nodes: nodes,
		mesh:  m,
		Bound: bounds,
	}
}

// detranslateBoxes re-adds meshMin to every node box, undoing the
// mesh-relative translation the climb used to keep coordinate magnitudes
// small (and hence merges numerically stable) while the tree was being
// assembled.
func detranslateBoxes(nodes []InternalNode, meshMin types.Vector3f) {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(nodes) {
		workers = len(nodes)
	}
	if workers == 0 {
		return
	}
	chunk := (len(nodes) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= len(nodes) {
			break
		}
		if end > len(nodes) {
			end = len(nodes)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				nodes[i].Box = nodes[i].Box.Translate(meshMin)
			}
		}(start, end)
	}
	wg.Wait()
}
