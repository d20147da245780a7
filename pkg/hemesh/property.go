package hemesh

import v3 "github.com/deadsy/sdfx/vec/v3"

// Property reads and writes a per-vertex position. Geometry algorithms
// take a Property so they work over any payload type.
type Property interface {
	Get(v int) v3.Vec
	Set(v int, p v3.Vec)
}

// PointProperty exposes the positions stored in PolyMesh payloads.
type PointProperty struct {
	Mesh *PolyMesh
}

// Positions returns the position property of m.
func Positions(m *PolyMesh) PointProperty { return PointProperty{Mesh: m} }

func (p PointProperty) Get(v int) v3.Vec    { return p.Mesh.VertexData(v).Position }
func (p PointProperty) Set(v int, x v3.Vec) { p.Mesh.VertexData(v).Position = x }

// SliceProperty keeps positions in a caller-owned slice indexed by vertex.
// Set grows the slice as needed.
type SliceProperty struct {
	Values []v3.Vec
}

func (p *SliceProperty) Get(v int) v3.Vec {
	if v >= len(p.Values) {
		return v3.Vec{}
	}
	return p.Values[v]
}

func (p *SliceProperty) Set(v int, x v3.Vec) {
	if v >= len(p.Values) {
		p.Values = append(p.Values, make([]v3.Vec, v+1-len(p.Values))...)
	}
	p.Values[v] = x
}

var (
	_ Property = PointProperty{}
	_ Property = (*SliceProperty)(nil)
)

// FaceCenter returns the mean position of the vertices of f.
func FaceCenter[V, E, F any](m *Mesh[V, E, F], pos Property, f int) v3.Vec {
	var sum v3.Vec
	n := 0
	for v := range m.FaceVertices(f) {
		sum = sum.Add(pos.Get(v))
		n++
	}
	return sum.DivScalar(float64(n))
}
