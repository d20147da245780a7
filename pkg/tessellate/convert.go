package tessellate

import (
	"fmt"

	"github.com/chazu/hedge/pkg/hemesh"
	"github.com/chazu/hedge/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// FromMesh builds a PolyMesh from an interchange mesh. Vertex i of km
// becomes vertex i of the result, carrying whichever optional streams km
// has. Faces that AddFace rejects are skipped and counted.
func FromMesh(km *kernel.Mesh) (m *hemesh.PolyMesh, skipped int, err error) {
	if err := km.Validate(); err != nil {
		return nil, 0, fmt.Errorf("tessellate: invalid mesh: %w", err)
	}

	n := km.VertexCount()
	m = hemesh.NewWithCapacity[hemesh.Point, hemesh.Empty, hemesh.Empty](n, 2*(n+km.FaceCount()), km.FaceCount())
	m.AddVertices(n)
	for i := range n {
		p := m.VertexData(i)
		p.Position = km.Position(i)
		if km.Normals != nil {
			p.Normal = vec3At(km.Normals, i)
		}
		if km.UVs != nil {
			p.UV = [2]float64{float64(km.UVs[2*i]), float64(km.UVs[2*i+1])}
		}
		if km.Colors != nil {
			copy(p.Color[:], km.Colors[4*i:4*i+4])
		}
	}

	add := func(idx []uint32) {
		vs := lo.Map(idx, func(i uint32, _ int) int { return int(i) })
		if m.AddFace(vs...) == hemesh.None {
			skipped++
		}
	}
	for i := 0; i < len(km.Triangles); i += 3 {
		add(km.Triangles[i : i+3])
	}
	for i := 0; i < len(km.Quads); i += 4 {
		add(km.Quads[i : i+4])
	}
	return m, skipped, nil
}

// ToMesh exports the used part of m. Vertices are renumbered densely in
// index order. Triangles and quads are written as they are; larger faces
// are split as listed by policy without modifying m.
func ToMesh(m *hemesh.PolyMesh, policy Policy) (*kernel.Mesh, error) {
	if _, ok := policyNames[policy]; !ok {
		return nil, fmt.Errorf("tessellate: %v: unknown policy", policy)
	}

	used := lo.Filter(lo.Range(m.Vertices().Count()), func(v, _ int) bool {
		return !m.Vertices().IsUnused(v)
	})
	index := make([]uint32, m.Vertices().Count())
	for i, v := range used {
		index[v] = uint32(i)
	}

	km := &kernel.Mesh{}
	points := lo.Map(used, func(v, _ int) hemesh.Point { return *m.VertexData(v) })
	for _, p := range points {
		km.AddVertex(p.Position)
	}
	if lo.SomeBy(points, func(p hemesh.Point) bool { return p.Normal != (v3.Vec{}) }) {
		for _, p := range points {
			km.Normals = append(km.Normals, float32(p.Normal.X), float32(p.Normal.Y), float32(p.Normal.Z))
		}
	}
	if lo.SomeBy(points, func(p hemesh.Point) bool { return p.UV != [2]float64{} }) {
		for _, p := range points {
			km.UVs = append(km.UVs, float32(p.UV[0]), float32(p.UV[1]))
		}
	}
	if lo.SomeBy(points, func(p hemesh.Point) bool { return p.Color != [4]float32{} }) {
		for _, p := range points {
			km.Colors = append(km.Colors, p.Color[:]...)
		}
	}

	tri := func(a, b, c int) {
		km.Triangles = append(km.Triangles, index[a], index[b], index[c])
	}
	quad := func(q [4]int) {
		if q[3] == hemesh.None {
			tri(q[0], q[1], q[2])
			return
		}
		km.Quads = append(km.Quads, index[q[0]], index[q[1]], index[q[2]], index[q[3]])
	}

	fan, strip := hemesh.NewFan(m), hemesh.NewStrip(m)
	for f := range m.Faces().Count() {
		if m.Faces().IsUnused(f) {
			continue
		}
		vs := make([]int, 0, 4)
		for v := range m.FaceVertices(f) {
			vs = append(vs, v)
		}
		switch {
		case len(vs) == 3:
			tri(vs[0], vs[1], vs[2])
		case len(vs) == 4:
			quad([4]int(vs))
		case policy == TriangulateFan || policy == TriangulateStrip:
			var t hemesh.Triangulator = fan
			if policy == TriangulateStrip {
				t = strip
			}
			for _, tr := range t.Triangles(f) {
				tri(tr[0], tr[1], tr[2])
			}
		default:
			var q hemesh.Quadrangulator = fan
			if policy == QuadrangulateStrip {
				q = strip
			}
			for _, qd := range q.Quads(f) {
				quad(qd)
			}
		}
	}
	return km, nil
}

func vec3At(a []float32, i int) v3.Vec {
	return v3.Vec{X: float64(a[3*i]), Y: float64(a[3*i+1]), Z: float64(a[3*i+2])}
}
