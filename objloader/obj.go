// Package objloader reads the subset of the Wavefront OBJ format the
// benchmark harness needs: vertex positions, vertex normals and triangular
// faces. Materials, texture coordinates, mesh instances and included files
// are out of scope for this accelerator and are not parsed.
package objloader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/achilleasa/go-lbvh/mesh"
	"github.com/achilleasa/go-lbvh/types"
)

// Load reads an OBJ file from path and returns the mesh it describes. Faces
// with more than 3 vertices are rejected; the caller's exporter must
// triangulate first.
func Load(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f, path)
}

func parse(r io.Reader, path string) (*mesh.Mesh, error) {
	m := &mesh.Mesh{}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || tokens[0] == "#" {
			continue
		}

		switch tokens[0] {
		case "v":
			v, err := parseVec3(tokens)
			if err != nil {
				return nil, lineErr(path, lineNum, err)
			}
			m.Positions = append(m.Positions, v)
		case "vn":
			v, err := parseVec3(tokens)
			if err != nil {
				return nil, lineErr(path, lineNum, err)
			}
			m.Normals = append(m.Normals, v)
		case "f":
			corners, err := parseFace(tokens, len(m.Positions), len(m.Normals))
			if err != nil {
				return nil, lineErr(path, lineNum, err)
			}
			m.Indices = append(m.Indices, corners[:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(m.Normals) == 0 {
		// Degenerate default so CalcNormal never indexes an empty slice;
		// real assets always export vn lines.
		m.Normals = []types.Vector3f{types.XYZ(0, 0, 1)}
	}

	return m, nil
}

func lineErr(path string, line int, err error) error {
	return fmt.Errorf("%s:%d: %w", path, line, err)
}

// parseFace supports the bare "v" and "v//n" corner forms; "v/t" and
// "v/t/n" (texture coordinates) are rejected since this loader never reads
// vt lines.
func parseFace(tokens []string, vertexCount, normalCount int) ([3]mesh.VertexIndex, error) {
	var corners [3]mesh.VertexIndex
	if len(tokens) != 4 {
		return corners, fmt.Errorf("unsupported face with %d vertices; triangulate before loading", len(tokens)-1)
	}

	for i := 0; i < 3; i++ {
		parts := strings.Split(tokens[i+1], "/")
		switch len(parts) {
		case 1:
			p, err := faceIndex(parts[0], vertexCount)
			if err != nil {
				return corners, err
			}
			corners[i] = mesh.VertexIndex{P: p, N: 0}
		case 3:
			if parts[1] != "" {
				return corners, fmt.Errorf("texture coordinates are not supported")
			}
			p, err := faceIndex(parts[0], vertexCount)
			if err != nil {
				return corners, err
			}
			n, err := faceIndex(parts[2], normalCount)
			if err != nil {
				return corners, err
			}
			corners[i] = mesh.VertexIndex{P: p, N: n}
		default:
			return corners, fmt.Errorf("unsupported face corner syntax %q", tokens[i+1])
		}
	}
	return corners, nil
}

// faceIndex resolves a 1-based (or negative, end-relative) OBJ index token
// into a 0-based index into a list of length count.
func faceIndex(token string, count int) (uint32, error) {
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, err
	}

	var idx int
	if v < 0 {
		idx = count + v
	} else {
		idx = v - 1
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("index %d out of range (have %d entries)", v, count)
	}
	return uint32(idx), nil
}

func parseVec3(tokens []string) (types.Vector3f, error) {
	if len(tokens) < 4 {
		return types.Vector3f{}, fmt.Errorf("expected 3 components for '%s', got %d", tokens[0], len(tokens)-1)
	}
	var v types.Vector3f
	for i := 0; i < 3; i++ {
		c, err := strconv.ParseFloat(tokens[i+1], 32)
		if err != nil {
			return types.Vector3f{}, err
		}
		v[i] = float32(c)
	}
	return v, nil
}
