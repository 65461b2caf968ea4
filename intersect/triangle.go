package intersect

import "github.com/achilleasa/go-lbvh/types"

// degenerateEpsilon gates the Möller-Trumbore determinant check: a
// determinant below this magnitude is treated as exactly degenerate
// (the ray is parallel to the triangle's plane, or the triangle has
// near-zero area). An exact det == 0 compare would be the literal
// degenerate case, but cross/dot products accumulate rounding error that
// almost never lands a truly parallel ray's determinant on exact zero; the
// band catches those near misses too while still containing every exact
// zero it's meant to replace.
const degenerateEpsilon = 1e-12

// Triangle tests ray [tmin, tmax) against the triangle p0,p1,p2 using the
// standard Möller-Trumbore formulation. It returns false on a degenerate
// determinant, out-of-range barycentrics, or a t outside [tmin, tmax) --
// note the upper bound is strict, so a ray that exactly grazes tmax never
// reports a hit. When it returns true, dist/u/v are the hit's distance and
// barycentrics; callers are responsible for the closest-hit tie-break
// against any previously accepted dist (see Traverse).
func Triangle(rayPos, rayDir, p0, p1, p2 types.Vector3f, tmin, tmax float32) (hit bool, dist, u, v float32) {
	edge1 := p1.Sub(p0)
	edge2 := p2.Sub(p0)

	pvec := rayDir.Cross(edge2)
	det := edge1.Dot(pvec)
	if det > -degenerateEpsilon && det < degenerateEpsilon {
		return false, 0, 0, 0
	}
	invDet := 1.0 / det

	tvec := rayPos.Sub(p0)
	u = tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return false, 0, 0, 0
	}

	qvec := tvec.Cross(edge1)
	v = rayDir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return false, 0, 0, 0
	}

	t := edge2.Dot(qvec) * invDet
	if t < tmin || t >= tmax {
		return false, 0, 0, 0
	}

	return true, t, u, v
}
