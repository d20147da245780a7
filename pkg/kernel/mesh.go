package kernel

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is the flat interchange format between kernels, hedge meshes and
// renderers. Per-vertex arrays are optional except Vertices; when present
// they hold one entry per vertex. Faces are stored by size: Triangles has
// 3 indices per face and Quads has 4.
type Mesh struct {
	Vertices  []float32 `json:"vertices"`            // [x0,y0,z0, x1,y1,z1, ...]
	Normals   []float32 `json:"normals,omitempty"`   // [nx0,ny0,nz0, ...]
	Colors    []float32 `json:"colors,omitempty"`    // [r0,g0,b0,a0, ...]
	UVs       []float32 `json:"uvs,omitempty"`       // [u0,v0, ...]
	Triangles []uint32  `json:"triangles,omitempty"` // [i0,i1,i2, ...]
	Quads     []uint32  `json:"quads,omitempty"`     // [i0,i1,i2,i3, ...]
	Name      string    `json:"name,omitempty"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// QuadCount returns the number of quads.
func (m *Mesh) QuadCount() int {
	return len(m.Quads) / 4
}

// FaceCount returns the number of faces of either size.
func (m *Mesh) FaceCount() int {
	return m.TriangleCount() + m.QuadCount()
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Position returns vertex i.
func (m *Mesh) Position(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[3*i]),
		Y: float64(m.Vertices[3*i+1]),
		Z: float64(m.Vertices[3*i+2]),
	}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(p v3.Vec) uint32 {
	m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	return uint32(m.VertexCount() - 1)
}

// Validate checks that the arrays have consistent lengths and that every
// face index refers to a vertex.
func (m *Mesh) Validate() error {
	n := m.VertexCount()
	switch {
	case len(m.Vertices)%3 != 0:
		return fmt.Errorf("kernel: %d vertex floats is not a multiple of 3", len(m.Vertices))
	case m.Normals != nil && len(m.Normals) != 3*n:
		return fmt.Errorf("kernel: %d normal floats for %d vertices", len(m.Normals), n)
	case m.Colors != nil && len(m.Colors) != 4*n:
		return fmt.Errorf("kernel: %d color floats for %d vertices", len(m.Colors), n)
	case m.UVs != nil && len(m.UVs) != 2*n:
		return fmt.Errorf("kernel: %d uv floats for %d vertices", len(m.UVs), n)
	case len(m.Triangles)%3 != 0:
		return fmt.Errorf("kernel: %d triangle indices is not a multiple of 3", len(m.Triangles))
	case len(m.Quads)%4 != 0:
		return fmt.Errorf("kernel: %d quad indices is not a multiple of 4", len(m.Quads))
	}
	for _, faces := range [][]uint32{m.Triangles, m.Quads} {
		for i, idx := range faces {
			if int(idx) >= n {
				return fmt.Errorf("kernel: face index %d at %d out of range (%d vertices)", idx, i, n)
			}
		}
	}
	return nil
}
