package lbvh

import "errors"

// Sentinel errors returned by Preprocess on malformed input. The reference
// accelerator silently skips the build on bad input and leaves every
// subsequent Intersect call reporting misses; this port can afford to
// surface the failure instead.
var (
	ErrNoVertices       = errors.New("lbvh: vertices is empty")
	ErrNoNormals        = errors.New("lbvh: normals is empty")
	ErrNoIndices        = errors.New("lbvh: indices is empty")
	ErrMalformedIndices = errors.New("lbvh: indices length is not a multiple of 6")
	ErrIndexOutOfRange  = errors.New("lbvh: index references an out-of-range vertex or normal")
	ErrAcceleratorUnset = errors.New("lbvh: Preprocess has not been called")
)
