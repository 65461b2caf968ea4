// Package intersect implements the hot-path ray/triangle and ray/BVH
// intersection routines: Möller-Trumbore triangle tests and the iterative
// stackful traversal that walks an lbvh.BVH using slab/AABB rejection.
package intersect

import "github.com/achilleasa/go-lbvh/types"

// Ray is the internal, per-call ray representation. InvDir must be the
// component-wise reciprocal of Dir; callers compute it once so the hot
// traversal loop never divides.
type Ray struct {
	Pos    types.Vector3f
	Dir    types.Vector3f
	InvDir types.Vector3f
	TMin   float32
	TMax   float32
}

// NewRay builds a Ray from an origin, direction and distance bounds,
// precomputing InvDir.
func NewRay(pos, dir types.Vector3f, tmin, tmax float32) Ray {
	return Ray{
		Pos:    pos,
		Dir:    dir,
		InvDir: dir.Inverse(),
		TMin:   tmin,
		TMax:   tmax,
	}
}

// HitRecord carries the closest-hit state through a traversal. Callers
// seed Dist with the ray's TMax before traversing; on return a true Hit
// means Dist holds the closest accepted hit distance and U/V are its
// Möller-Trumbore barycentrics (W = 1-U-V).
type HitRecord struct {
	Hit    bool
	Dist   float32
	U, V   float32
	FaceID int32
}

// NewHitRecord seeds a HitRecord for a traversal against ray.
func NewHitRecord(ray Ray) HitRecord {
	return HitRecord{FaceID: -1, Dist: ray.TMax}
}
