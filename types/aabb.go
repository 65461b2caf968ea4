package types

import "math"

// AABB is an axis-aligned bounding box. After an empty construction it
// holds the sentinel +inf/-inf extents; every Merge narrows it towards a
// valid box where Min.k <= Max.k on every axis.
type AABB struct {
	Min Vector3f
	Max Vector3f
}

// EmptyAABB returns an AABB with inverted sentinel extents, ready to be
// grown via Merge.
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: Vector3f{inf, inf, inf},
		Max: Vector3f{-inf, -inf, -inf},
	}
}

// Merge grows the box to also contain other.
func (b AABB) Merge(other AABB) AABB {
	return AABB{
		Min: MinVec3(b.Min, other.Min),
		Max: MaxVec3(b.Max, other.Max),
	}
}

// MergePoint grows the box to also contain p.
func (b AABB) MergePoint(p Vector3f) AABB {
	return AABB{
		Min: MinVec3(b.Min, p),
		Max: MaxVec3(b.Max, p),
	}
}

// Normalize maps p into [0,1]^3 relative to the box extents. Axes with a
// zero-width box (Min.k == Max.k) yield NaN/Inf, which callers clamp away
// (see morton.Encode).
func (b AABB) Normalize(p Vector3f) Vector3f {
	return p.Sub(b.Min).Div(b.Max.Sub(b.Min))
}

// Translate offsets both corners by d. The builder uses this to move a box
// into the mesh-relative frame (subtracting the mesh AABB's Min) before
// merging boxes during the climb, and back again once the climb settles.
func (b AABB) Translate(d Vector3f) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Intersect runs the slab test: it returns true iff the ray interval
// [0, length) overlaps the box's slab interval and the resulting tmax is
// positive. invDir must be the component-wise reciprocal of the ray
// direction; the sign of each component selects which face is the entry
// face, so this handles negative directions without a min/max swap and tolerates
// invDir components that are signed infinities (ray parallel to an axis).
func (b AABB) Intersect(rayPos, invDir Vector3f, length float32) bool {
	var tmin, tmax float32

	if invDir[0] >= 0 {
		tmin = (b.Min[0] - rayPos[0]) * invDir[0]
		tmax = (b.Max[0] - rayPos[0]) * invDir[0]
	} else {
		tmin = (b.Max[0] - rayPos[0]) * invDir[0]
		tmax = (b.Min[0] - rayPos[0]) * invDir[0]
	}

	if invDir[1] >= 0 {
		tymin := (b.Min[1] - rayPos[1]) * invDir[1]
		tymax := (b.Max[1] - rayPos[1]) * invDir[1]
		if tymin > tmin {
			tmin = tymin
		}
		if tymax < tmax {
			tmax = tymax
		}
	} else {
		tymin := (b.Max[1] - rayPos[1]) * invDir[1]
		tymax := (b.Min[1] - rayPos[1]) * invDir[1]
		if tymin > tmin {
			tmin = tymin
		}
		if tymax < tmax {
			tmax = tymax
		}
	}

	if invDir[2] >= 0 {
		tzmin := (b.Min[2] - rayPos[2]) * invDir[2]
		tzmax := (b.Max[2] - rayPos[2]) * invDir[2]
		if tzmin > tmin {
			tmin = tzmin
		}
		if tzmax < tmax {
			tmax = tzmax
		}
	} else {
		tzmin := (b.Max[2] - rayPos[2]) * invDir[2]
		tzmax := (b.Min[2] - rayPos[2]) * invDir[2]
		if tzmin > tmin {
			tmin = tzmin
		}
		if tzmax < tmax {
			tmax = tzmax
		}
	}

	return tmin <= tmax && tmax > 0 && tmin < length
}
