package subdiv

import (
	"testing"

	"github.com/chazu/hedge/pkg/hemesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cube returns the closed cube [-1, 1]^3 with outward-facing quads.
func cube(t *testing.T) *hemesh.PolyMesh {
	t.Helper()
	m := hemesh.NewPolyMesh()
	for i := range 8 {
		v := m.AddVertex()
		m.VertexData(v).Position = v3.Vec{
			X: float64(i&1)*2 - 1,
			Y: float64(i>>1&1)*2 - 1,
			Z: float64(i>>2&1)*2 - 1,
		}
	}
	faces := [][]int{
		{0, 2, 3, 1}, // -Z
		{4, 5, 7, 6}, // +Z
		{0, 1, 5, 4}, // -Y
		{2, 6, 7, 3}, // +Y
		{0, 4, 6, 2}, // -X
		{1, 3, 7, 5}, // +X
	}
	for _, f := range faces {
		require.NotEqual(t, hemesh.None, m.AddFace(f...), "face %v", f)
	}
	requireValid(t, m)
	require.True(t, m.IsClosed())
	return m
}

func grid(t *testing.T, nx, ny int) *hemesh.PolyMesh {
	t.Helper()
	m := hemesh.NewPolyMesh()
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			v := m.AddVertex()
			m.VertexData(v).Position = v3.Vec{X: float64(i), Y: float64(j)}
		}
	}
	w := nx + 1
	for j := range ny {
		for i := range nx {
			v0 := j*w + i
			require.NotEqual(t, hemesh.None, m.AddFace(v0, v0+1, v0+w+1, v0+w))
		}
	}
	return m
}

func requireValid[V, E, F any](t *testing.T, m *hemesh.Mesh[V, E, F]) {
	t.Helper()
	require.Empty(t, hemesh.Errors(m.Validate()))
}

func counts[V, E, F any](m *hemesh.Mesh[V, E, F]) [3]int {
	return [3]int{m.Vertices().CountUsed(), m.Halfedges().CountUsed() / 2, m.Faces().CountUsed()}
}

func assertVecNear(t *testing.T, want, got v3.Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, want.Z, got.Z, 1e-9)
}

func TestQuadSplitTriangle(t *testing.T) {
	m := hemesh.NewPolyMesh()
	for _, p := range []v3.Vec{{X: 0}, {X: 3}, {Y: 3}} {
		m.VertexData(m.AddVertex()).Position = p
	}
	require.Equal(t, 0, m.AddFace(0, 1, 2))

	QuadSplit(m, hemesh.Positions(m))
	requireValid(t, m)

	assert.Equal(t, [3]int{7, 9, 3}, counts(m))
	for f := range m.Faces().Count() {
		assert.Equal(t, 4, m.FaceDegree(f))
	}
	// face vertex, then one vertex per edge
	assertVecNear(t, v3.Vec{X: 1, Y: 1}, m.VertexData(3).Position)
	assertVecNear(t, v3.Vec{X: 1.5}, m.VertexData(4).Position)
	assert.Equal(t, 3, m.Degree(3))
}

func TestQuadSplitSkipsRemovedSlots(t *testing.T) {
	m := grid(t, 2, 1)
	m.RemoveFace(1)
	nv := m.Vertices().Count()
	ne := m.EdgeCount()
	nf := m.Faces().Count()

	var pos hemesh.SliceProperty
	for v := range nv {
		pos.Set(v, m.VertexData(v).Position)
	}
	QuadSplit(m, &pos)
	requireValid(t, m)

	assert.Equal(t, nv+nf+ne, m.Vertices().Count())
	assert.Equal(t, [3]int{9, 12, 4}, counts(m))
	assert.Equal(t, 1, m.EulerNumber())

	r := m.Compact()
	pos.Values = hemesh.Reindex(pos.Values, r.Vertices)
	requireValid(t, m)
	assert.Len(t, pos.Values, 9)
}

func TestCatmullClarkCube(t *testing.T) {
	m := cube(t)
	require.NoError(t, CatmullClark(m, hemesh.Positions(m), Fixed))
	requireValid(t, m)

	assert.Equal(t, [3]int{26, 48, 24}, counts(m))
	assert.Equal(t, 2, m.EulerNumber())
	assert.True(t, m.IsClosed())

	// (F + 2E) / 3 for a valence-3 corner of the cube
	const c = 4.0 / 9
	assertVecNear(t, v3.Vec{X: -c, Y: -c, Z: -c}, m.VertexData(0).Position)
	assertVecNear(t, v3.Vec{X: c, Y: c, Z: c}, m.VertexData(7).Position)
	// face vertices stay at the face centres
	assertVecNear(t, v3.Vec{Z: -1}, m.VertexData(8).Position)
}

func TestCatmullClarkBoundary(t *testing.T) {
	tests := []struct {
		boundary Boundary
		corner   v3.Vec
		edge     v3.Vec
	}{
		{Fixed, v3.Vec{}, v3.Vec{X: 1}},
		{CornerFixed, v3.Vec{}, v3.Vec{X: 1}},
		{Free, v3.Vec{X: 0.125, Y: 0.125}, v3.Vec{X: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.boundary.String(), func(t *testing.T) {
			m := grid(t, 2, 2)
			require.NoError(t, CatmullClark(m, hemesh.Positions(m), tt.boundary))
			requireValid(t, m)

			assert.Equal(t, [3]int{25, 40, 16}, counts(m))
			assertVecNear(t, tt.corner, m.VertexData(0).Position)
			assertVecNear(t, tt.edge, m.VertexData(1).Position)
			assertVecNear(t, v3.Vec{X: 1, Y: 1}, m.VertexData(4).Position)
		})
	}
}

func TestCatmullClarkRejectsUnknownBoundary(t *testing.T) {
	m := grid(t, 1, 1)
	for _, b := range []Boundary{Boundary(7), Boundary(-1)} {
		err := CatmullClark(m, hemesh.Positions(m), b)
		assert.ErrorIs(t, err, hemesh.ErrInvalidArgument, "boundary %d", int(b))
	}
	assert.Equal(t, 4, m.Vertices().Count(), "nothing added")
	assert.Equal(t, 1, m.Faces().Count())
}

func TestParseBoundary(t *testing.T) {
	b, err := ParseBoundary("corner-fixed")
	require.NoError(t, err)
	assert.Equal(t, CornerFixed, b)

	_, err = ParseBoundary("loose")
	assert.ErrorIs(t, err, hemesh.ErrInvalidArgument)
}

func TestDiagonalizeCube(t *testing.T) {
	m := cube(t)
	Diagonalize(m, hemesh.Positions(m), true)
	requireValid(t, m)

	// a rhombic dodecahedron
	assert.Equal(t, [3]int{14, 24, 12}, counts(m))
	assert.Equal(t, 2, m.EulerNumber())
	for f := range m.Faces().Count() {
		if !m.Faces().IsUnused(f) {
			assert.Equal(t, 4, m.FaceDegree(f))
		}
	}
	// cube edges become diagonals; corners keep one spoke per face
	assert.Equal(t, hemesh.None, m.FindHalfedge(0, 1))
	for v := range 8 {
		assert.Equal(t, 3, m.Degree(v))
	}
}

func TestDiagonalizeGridSkipBoundary(t *testing.T) {
	m := grid(t, 2, 2)
	Diagonalize(m, hemesh.Positions(m), true)
	requireValid(t, m)

	assert.Equal(t, [3]int{13, 24, 12}, counts(m))
	assert.Equal(t, 1, m.EulerNumber())
	assert.Equal(t, hemesh.None, m.FindHalfedge(1, 4))
}

func TestUnimplementedSchemes(t *testing.T) {
	m := grid(t, 1, 1)
	assert.ErrorIs(t, Loop(m, hemesh.Positions(m)), hemesh.ErrNotImplemented)
	assert.ErrorIs(t, TriSplit(m, hemesh.Positions(m)), hemesh.ErrNotImplemented)
}
