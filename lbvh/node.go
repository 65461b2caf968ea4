package lbvh

import "github.com/achilleasa/go-lbvh/types"

// KInvalid marks an unset child slot or interval endpoint.
const KInvalid uint32 = 0xFFFFFFFF

// InternalNode is one internal node of the BVH. Children are tagged
// indices: bit 0 set means the referenced index is a leaf (a triangle
// index); bit 0 clear means it is another internal node index. Keeping the
// tag packed into the same uint32 as the index (rather than a sum type)
// keeps the node at 32 bytes (a 24-byte box plus two uint32 children),
// which matters for traversal cache behavior.
type InternalNode struct {
	Box types.AABB
	L   uint32
	R   uint32
}

// encodeLeaf tags triangle as a leaf child reference.
func encodeLeaf(triangle uint32) uint32 {
	return (triangle << 1) | 1
}

// encodeInternal tags node as an internal child reference.
func encodeInternal(node uint32) uint32 {
	return node << 1
}

// DecodeChild splits an encoded child reference back into its index and
// leaf flag. Traversal uses this directly against Root/L/R; the builder
// never needs to decode what it just encoded.
func DecodeChild(encoded uint32) (index uint32, isLeaf bool) {
	return encoded >> 1, encoded&1 == 1
}
