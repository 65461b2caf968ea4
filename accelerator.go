// Package lbvh is a ray-triangle intersection accelerator built around a
// Linear Bounding Volume Hierarchy constructed by the agglomerative,
// radix-tree-forest technique described in the lbvh and intersect
// subpackages. This file wires those subpackages into the host-facing
// contract: a one-shot Preprocess that builds the tree over a mesh, and a
// repeatable Intersect that resolves closest hits for a batch of rays.
package lbvh

import (
	"sync/atomic"

	"github.com/achilleasa/go-lbvh/intersect"
	bvhbuild "github.com/achilleasa/go-lbvh/lbvh"
	"github.com/achilleasa/go-lbvh/mesh"
	"github.com/achilleasa/go-lbvh/types"
)

// Accelerator owns a mesh and the BVH built over it. It is safe for
// concurrent Intersect calls once Preprocess has returned;
// Preprocess itself must complete (happens-before) any Intersect call, per
// the concurrency contract of the underlying builder.
type Accelerator struct {
	mesh *mesh.Mesh
	bvh  *bvhbuild.BVH
}

// Preprocess builds an Accelerator over a mesh described by vertices,
// normals and a flat indices array packed per triangle as
// (v0, n0, v1, n1, v2, n2) -- position and normal indices interleaved per
// corner, matching the host contract's wire format.
func Preprocess(vertices, normals []types.Vector3f, indices []uint32) (*Accelerator, error) {
	if len(vertices) == 0 {
		return nil, ErrNoVertices
	}
	if len(normals) == 0 {
		return nil, ErrNoNormals
	}
	if len(indices) == 0 {
		return nil, ErrNoIndices
	}
	if len(indices)%6 != 0 {
		return nil, ErrMalformedIndices
	}

	faceCount := len(indices) / 6
	m := &mesh.Mesh{
		Positions: vertices,
		Normals:   normals,
		Indices:   make([]mesh.VertexIndex, 0, 3*faceCount),
	}
	for f := 0; f < faceCount; f++ {
		base := 6 * f
		for c := 0; c < 3; c++ {
			p := indices[base+2*c]
			n := indices[base+2*c+1]
			if int(p) >= len(vertices) || int(n) >= len(normals) {
				return nil, ErrIndexOutOfRange
			}
			m.Indices = append(m.Indices, mesh.VertexIndex{P: p, N: n})
		}
	}

	return &Accelerator{
		mesh: m,
		bvh:  bvhbuild.Build(m),
	}, nil
}

// RayDescriptor is the host-facing mutable ray record: callers populate
// Pos/Dir/Valid/TNear/TFar before calling Intersect, which overwrites the
// remaining fields in place.
type RayDescriptor struct {
	Pos, Dir    types.Vector3f
	Valid       bool
	TNear, TFar float32

	// Populated by Intersect.
	IsIsect bool
	Isect   types.Vector3f
	Ns      types.Vector3f
	U, V    float32
	Dist    float32
	FaceID  int32
}

// Intersect resolves the closest hit for every ray in rays against a,
// mutating each descriptor in place. Rays with Valid == false are left
// untouched except for IsIsect, which is forced to false. hitAny is
// accepted for interface parity but not honored: see intersect.Traverse.
func (a *Accelerator) Intersect(rays []RayDescriptor, hitAny bool) {
	for i := range rays {
		r := &rays[i]
		if !r.Valid {
			r.IsIsect = false
			continue
		}

		ray := intersect.NewRay(r.Pos, r.Dir, r.TNear, r.TFar)
		record := intersect.NewHitRecord(ray)
		intersect.Traverse(a.bvh, ray, &record, hitAny)

		r.IsIsect = record.Hit
		if !record.Hit {
			continue
		}

		w := 1 - record.U - record.V
		r.U, r.V = record.U, record.V
		r.Dist = record.Dist
		r.FaceID = record.FaceID
		r.Isect = a.mesh.CalcPosition(uint32(record.FaceID), record.U, record.V, w)
		r.Ns = a.mesh.CalcNormal(uint32(record.FaceID), record.U, record.V, w)
	}
}

// Mesh returns the mesh this Accelerator was built over.
func (a *Accelerator) Mesh() *mesh.Mesh {
	return a.mesh
}

// Stats reports the size of the underlying tree.
func (a *Accelerator) Stats() bvhbuild.Stats {
	return a.bvh.Stats()
}

// defaultAccelerator backs the process-wide singleton wrappers below, for
// host contracts that expect global preprocess/intersect entry points
// rather than an explicit handle.
var defaultAccelerator atomic.Pointer[Accelerator]

// PreprocessGlobal builds the process-wide Accelerator, replacing any prior
// one. It is equivalent to Preprocess followed by installing the result as
// the target of the package-level Intersect.
func PreprocessGlobal(vertices, normals []types.Vector3f, indices []uint32) error {
	acc, err := Preprocess(vertices, normals, indices)
	if err != nil {
		return err
	}
	defaultAccelerator.Store(acc)
	return nil
}

// Intersect resolves rays against the process-wide Accelerator installed by
// PreprocessGlobal. It returns ErrAcceleratorUnset if PreprocessGlobal has
// not been called yet.
func Intersect(rays []RayDescriptor, hitAny bool) error {
	acc := defaultAccelerator.Load()
	if acc == nil {
		return ErrAcceleratorUnset
	}
	acc.Intersect(rays, hitAny)
	return nil
}
