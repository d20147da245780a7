package hemesh

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// polygon returns a mesh with a single regular n-gon as face 0.
func polygon(t *testing.T, n int) *PolyMesh {
	t.Helper()
	m := NewPolyMesh()
	vs := make([]int, n)
	for i := range n {
		vs[i] = m.AddVertex()
		a := 2 * math.Pi * float64(i) / float64(n)
		m.VertexData(vs[i]).Position = v3.Vec{X: math.Cos(a), Y: math.Sin(a)}
	}
	require.Equal(t, 0, m.AddFace(vs...))
	return m
}

func faceVertices[V, E, F any](m *Mesh[V, E, F], f int) []int {
	var vs []int
	for v := range m.FaceVertices(f) {
		vs = append(vs, v)
	}
	return vs
}

func TestSplitFace(t *testing.T) {
	m := quadGrid(t, 1, 1)
	he0 := m.FindHalfedge(0, 1)
	he1 := m.FindHalfedge(3, 2)
	assert.Equal(t, None, m.SplitFace(he0, m.Next(he0)), "consecutive")

	he := m.SplitFace(he0, he1)
	require.NotEqual(t, None, he)
	requireValid(t, m)

	assert.Equal(t, 0, m.Start(he))
	assert.Equal(t, 3, m.End(he))
	assert.Equal(t, m.Face(he1), m.Face(he))
	assert.NotEqual(t, m.Face(he0), m.Face(he1))
	nv, ne, nf := counts(m)
	assert.Equal(t, [3]int{4, 5, 2}, [3]int{nv, ne, nf})

	assert.Equal(t, None, m.SplitFace(he0, he1), "no longer share a face")
}

func TestPokeFace(t *testing.T) {
	m := quadGrid(t, 1, 1)
	c := m.PokeFace(0)
	requireValid(t, m)

	nv, ne, nf := counts(m)
	assert.Equal(t, [3]int{5, 8, 4}, [3]int{nv, ne, nf})
	assert.Equal(t, 1, m.EulerNumber())
	assert.Equal(t, 4, m.Degree(c))
	assert.False(t, m.IsBoundaryVertex(c))
	for f := range m.Faces().Count() {
		assert.Equal(t, 3, m.FaceDegree(f))
	}
}

func TestPokeFaceWith(t *testing.T) {
	m := polygon(t, 5)
	c := m.AddVertex()
	he := m.FaceFirst(0)
	assert.False(t, m.PokeFaceWith(he^1, c), "hole")
	require.True(t, m.PokeFaceWith(he, c))
	requireValid(t, m)
	assert.Equal(t, 5, m.Faces().CountUsed())
	assert.Equal(t, []int{0, 1, c}, faceVertices(m, m.Face(he)))

	assert.Panics(t, func() { m.PokeFaceWith(he, c) }, "center is no longer isolated")
}

func TestQuadPokeFace(t *testing.T) {
	m := quadGrid(t, 1, 1)
	c := m.QuadPokeFace(0)
	require.NotEqual(t, None, c)
	requireValid(t, m)
	nv, ne, nf := counts(m)
	assert.Equal(t, [3]int{5, 8, 4}, [3]int{nv, ne, nf})
	assert.Equal(t, 1, m.EulerNumber())

	tri := polygon(t, 3)
	assert.Equal(t, None, tri.QuadPokeFace(0))
	assert.Equal(t, 3, tri.Vertices().Count(), "no vertex added on failure")
}

func TestQuadSplitFace(t *testing.T) {
	m := polygon(t, 8)
	c := m.AddVertex()
	require.True(t, m.QuadSplitFace(m.FaceFirst(0), c))
	requireValid(t, m)

	nv, ne, nf := counts(m)
	assert.Equal(t, [3]int{9, 12, 4}, [3]int{nv, ne, nf})
	assert.Equal(t, 4, m.Degree(c))
	for f := range m.Faces().Count() {
		assert.Equal(t, 4, m.FaceDegree(f))
	}
	for _, v := range []int{1, 3, 5, 7} {
		assert.NotEqual(t, None, m.FindHalfedge(v, c))
	}

	odd := polygon(t, 5)
	assert.False(t, odd.QuadSplitFace(odd.FaceFirst(0), odd.AddVertex()))
}

func TestMergeFaces(t *testing.T) {
	m := New[Empty, Empty, Empty]()
	m.AddVertices(4)
	require.Equal(t, 0, m.AddFace(0, 1, 2))
	require.Equal(t, 1, m.AddFace(0, 2, 3))

	he := m.FindHalfedge(0, 2)
	require.Equal(t, 1, m.Face(he))
	require.True(t, m.MergeFaces(he))
	requireValid(t, m)

	nv, ne, nf := counts(m)
	assert.Equal(t, [3]int{4, 4, 1}, [3]int{nv, ne, nf})
	assert.True(t, m.Faces().IsUnused(1))
	assert.Equal(t, 4, m.FaceDegree(0))
	assert.Equal(t, None, m.FindHalfedge(0, 2))
}

func TestMergeHoleIntoFace(t *testing.T) {
	tri := polygon(t, 3)
	assert.False(t, tri.MergeFaces(tri.FaceFirst(0)^1), "hole shares its whole loop")

	// face 0 grows over the part of the hole it does not border, closing
	// the strip into two quads glued along their boundary
	m := quadGrid(t, 2, 1)
	he := m.FindHalfedge(1, 0)
	require.True(t, m.IsHole(he))
	require.True(t, m.MergeFaces(he))
	requireValid(t, m)

	nv, ne, nf := counts(m)
	assert.Equal(t, [3]int{4, 4, 2}, [3]int{nv, ne, nf})
	assert.True(t, m.IsClosed())
	assert.Equal(t, 2, m.EulerNumber())
	assert.True(t, m.Vertices().IsUnused(0))
	assert.True(t, m.Vertices().IsUnused(3))
}

func TestMergeFaceIntoHole(t *testing.T) {
	m := quadGrid(t, 2, 1)
	require.True(t, m.MergeFaces(m.FindHalfedge(0, 1)))
	requireValid(t, m)
	nv, ne, nf := counts(m)
	assert.Equal(t, [3]int{4, 4, 1}, [3]int{nv, ne, nf})
}

func TestFillHole(t *testing.T) {
	m := quadGrid(t, 1, 1)
	assert.Equal(t, None, m.FillHole(m.FindHalfedge(0, 1)), "not a hole")

	f := m.FillHole(m.FindHalfedge(1, 0))
	require.NotEqual(t, None, f)
	requireValid(t, m)
	assert.True(t, m.IsClosed())
	assert.Equal(t, 2, m.EulerNumber())
	assert.Equal(t, 4, m.FaceDegree(f))
}

func TestReverseFaces(t *testing.T) {
	m := tetrahedron(t)
	require.Equal(t, []int{0, 2, 1}, faceVertices(m, 0))

	m.ReverseFaces()
	requireValid(t, m)
	assert.Equal(t, []int{2, 0, 1}, faceVertices(m, 0))
	assert.Equal(t, 0, m.Face(m.FindHalfedge(2, 0)))
	assert.Equal(t, 2, m.EulerNumber())

	m.ReverseFaces()
	requireValid(t, m)
	assert.Equal(t, []int{0, 2, 1}, faceVertices(m, 0))
}

func TestReverseFacesKeepsBoundary(t *testing.T) {
	m := quadGrid(t, 2, 2)
	m.ReverseFaces()
	requireValid(t, m)
	assert.Equal(t, 1, m.CountHoles())
	assert.Equal(t, 8, m.CountBoundaryVertices())
	assert.Equal(t, []int{5, 4, 7, 8}, faceVertices(m, 3))
}

func TestOrientFaces(t *testing.T) {
	m := tetrahedron(t)
	m.ReverseFaces()
	m.OrientFacesToMin()
	requireValid(t, m)
	assert.Equal(t, []int{0, 1, 2}, faceVertices(m, 0))

	g := quadGrid(t, 2, 2)
	g.OrientFacesToBoundary()
	requireValid(t, g)
	for f := range g.Faces().Count() {
		assert.True(t, g.IsHole(g.FaceFirst(f)^1), "face %d", f)
	}
}

func TestTriangulateFaces(t *testing.T) {
	m := quadGrid(t, 3, 3)
	m.TriangulateFaces(NewFan(m))
	requireValid(t, m)

	nv, ne, nf := counts(m)
	assert.Equal(t, [3]int{16, 33, 18}, [3]int{nv, ne, nf})
	assert.Equal(t, 1, m.EulerNumber())
	for f := range m.Faces().Count() {
		assert.Equal(t, 3, m.FaceDegree(f))
	}
}

func TestQuadrangulateFaces(t *testing.T) {
	m := polygon(t, 8)
	m.QuadrangulateFaces(NewStrip(m))
	requireValid(t, m)
	assert.Equal(t, 3, m.Faces().CountUsed())
	for f := range m.Faces().Count() {
		assert.Equal(t, 4, m.FaceDegree(f))
	}
}

func TestUnifyFaceOrientationQuad(t *testing.T) {
	direction := func(m *PolyMesh, f int) v3.Vec {
		he := m.FaceFirst(f)
		return m.VertexData(m.End(he)).Position.Sub(m.VertexData(m.Start(he)).Position)
	}

	m := quadGrid(t, 3, 3)
	// scramble the first half-edges
	for f := range m.Faces().Count() {
		for range f % 4 {
			m.Faces().ptr(f).first = m.Next(m.FaceFirst(f))
		}
	}

	m.UnifyFaceOrientationQuad(false)
	requireValid(t, m)
	want := direction(m, 0)
	for f := range m.Faces().Count() {
		assert.Equal(t, want, direction(m, f), "face %d", f)
	}

	m.UnifyFaceOrientationQuad(true)
	requireValid(t, m)
	assert.NotEqual(t, want, direction(m, 0))
	turned := direction(m, 0)
	assert.InDelta(t, 0, turned.Dot(want), 1e-12)
	for f := range m.Faces().Count() {
		assert.Equal(t, turned, direction(m, f), "face %d", f)
	}
}
