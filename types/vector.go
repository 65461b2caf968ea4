// Package types defines the minimal vector algebra the accelerator needs:
// a single 3-component float32 vector type plus the operations its AABB,
// Morton encoder and Möller-Trumbore intersection routines rely on.
package types

import (
	"math"

	"golang.org/x/image/math/f32"
)

// floatCmpEpsilon is the tolerance used when deciding whether a vector is
// too small to normalize reliably.
const floatCmpEpsilon float32 = 1e-7

// Vector3f is an ordered triple of 32-bit floats.
type Vector3f f32.Vec3

// XYZ builds a Vector3f from its components.
func XYZ(x, y, z float32) Vector3f {
	return Vector3f{x, y, z}
}

// Add returns v + v2.
func (v Vector3f) Add(v2 Vector3f) Vector3f {
	return Vector3f{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Sub returns v - v2.
func (v Vector3f) Sub(v2 Vector3f) Vector3f {
	return Vector3f{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Mul returns the component-wise product of v and v2.
func (v Vector3f) Mul(v2 Vector3f) Vector3f {
	return Vector3f{v[0] * v2[0], v[1] * v2[1], v[2] * v2[2]}
}

// Div returns the component-wise quotient of v and v2.
func (v Vector3f) Div(v2 Vector3f) Vector3f {
	return Vector3f{v[0] / v2[0], v[1] / v2[1], v[2] / v2[2]}
}

// Scale returns v scaled by s.
func (v Vector3f) Scale(s float32) Vector3f {
	return Vector3f{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the dot product of v and v2.
func (v Vector3f) Dot(v2 Vector3f) float32 {
	return v[0]*v2[0] + v[1]*v2[1] + v[2]*v2[2]
}

// Cross returns the cross product of v and v2.
func (v Vector3f) Cross(v2 Vector3f) Vector3f {
	return Vector3f{
		v[1]*v2[2] - v[2]*v2[1],
		v[2]*v2[0] - v[0]*v2[2],
		v[0]*v2[1] - v[1]*v2[0],
	}
}

// Len returns the Euclidean length of v.
func (v Vector3f) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length, or the zero vector if v is
// too small to normalize reliably.
func (v Vector3f) Normalize() Vector3f {
	l := v.Len()
	if l < floatCmpEpsilon {
		return Vector3f{}
	}
	return v.Scale(1.0 / l)
}

// Inverse returns the component-wise reciprocal of v. A zero component is
// intentionally allowed to produce a signed infinity: the slab test in
// AABB.Intersect relies on IEEE semantics to handle axis-aligned rays
// without a separate code path.
func (v Vector3f) Inverse() Vector3f {
	return Vector3f{1.0 / v[0], 1.0 / v[1], 1.0 / v[2]}
}

// MinVec3 returns the component-wise minimum of v1 and v2.
func MinVec3(v1, v2 Vector3f) Vector3f {
	out := v1
	if v2[0] < out[0] {
		out[0] = v2[0]
	}
	if v2[1] < out[1] {
		out[1] = v2[1]
	}
	if v2[2] < out[2] {
		out[2] = v2[2]
	}
	return out
}

// MaxVec3 returns the component-wise maximum of v1 and v2.
func MaxVec3(v1, v2 Vector3f) Vector3f {
	out := v1
	if v2[0] > out[0] {
		out[0] = v2[0]
	}
	if v2[1] > out[1] {
		out[1] = v2[1]
	}
	if v2[2] > out[2] {
		out[2] = v2[2]
	}
	return out
}
