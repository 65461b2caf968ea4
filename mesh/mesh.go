// Package mesh provides read-only, dereferenced-index access to the
// triangle mesh supplied by the host harness. A Mesh is borrowed for the
// lifetime of an lbvh.BVH built over it; the accelerator never copies or
// mutates mesh storage.
package mesh

import "github.com/achilleasa/go-lbvh/types"

// VertexIndex is a single triangle corner's Wavefront-style dereferenced
// indices: position and normal are looked up independently.
type VertexIndex struct {
	P uint32
	N uint32
}

// Mesh is externally owned storage for a triangle set. Triangle t's corners
// are Indices[3*t+0], Indices[3*t+1] and Indices[3*t+2].
type Mesh struct {
	Positions []types.Vector3f
	Normals   []types.Vector3f
	Indices   []VertexIndex
}

// TriangleCount returns the number of triangles described by Indices.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// corners returns the three VertexIndex entries for triangle face.
func (m *Mesh) corners(face uint32) (a, b, c VertexIndex) {
	base := 3 * face
	return m.Indices[base], m.Indices[base+1], m.Indices[base+2]
}

// Positions3 returns the three world-space vertex positions of face.
func (m *Mesh) Positions3(face uint32) (p0, p1, p2 types.Vector3f) {
	a, b, c := m.corners(face)
	return m.Positions[a.P], m.Positions[b.P], m.Positions[c.P]
}

// Centroid returns the centroid of face, used by the LBVH builder to seed
// Morton codes.
func (m *Mesh) Centroid(face uint32) types.Vector3f {
	p0, p1, p2 := m.Positions3(face)
	return p0.Add(p1).Add(p2).Scale(1.0 / 3.0)
}

// BBox returns the AABB of face.
func (m *Mesh) BBox(face uint32) types.AABB {
	p0, p1, p2 := m.Positions3(face)
	box := types.AABB{Min: p0, Max: p0}
	box = box.MergePoint(p1)
	box = box.MergePoint(p2)
	return box
}

// CalcPosition reconstructs a world-space point on face from barycentrics
// (u, v, w) with w = 1-u-v: u weights the second corner, v the third, and w
// the first.
func (m *Mesh) CalcPosition(face uint32, u, v, w float32) types.Vector3f {
	p0, p1, p2 := m.Positions3(face)
	return p0.Scale(w).Add(p1.Scale(u)).Add(p2.Scale(v))
}

// CalcNormal reconstructs an interpolated (not renormalized) normal on face
// from the same barycentric convention as CalcPosition.
func (m *Mesh) CalcNormal(face uint32, u, v, w float32) types.Vector3f {
	a, b, c := m.corners(face)
	n0, n1, n2 := m.Normals[a.N], m.Normals[b.N], m.Normals[c.N]
	return n0.Scale(w).Add(n1.Scale(u)).Add(n2.Scale(v))
}
