package hemesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendSelf(t *testing.T) {
	m := tetrahedron(t)
	m.Append(m)
	requireValid(t, m)

	nv, ne, nf := counts(m)
	assert.Equal(t, [3]int{8, 12, 8}, [3]int{nv, ne, nf})
	assert.Equal(t, 4, m.EulerNumber())
	assert.Len(t, m.ConnectedComponents(), 2)
	assert.Equal(t, m.VertexData(1).Position, m.VertexData(5).Position)
	assert.Equal(t, []int{4, 6, 5}, faceVertices(m, 4))
}

func TestAppendFromKeepsRemoved(t *testing.T) {
	src := quadGrid(t, 2, 1)
	src.RemoveFace(1)

	dst := New[Empty, Empty, Empty]()
	dst.AddVertices(2)
	AppendFrom(dst, src, nil, nil, nil)
	requireValid(t, dst)

	assert.Equal(t, 2+src.Vertices().Count(), dst.Vertices().Count())
	assert.Equal(t, src.Halfedges().Count(), dst.Halfedges().Count())
	assert.True(t, dst.Vertices().IsUnused(2+2))
	assert.True(t, dst.Faces().IsUnused(1))
	assert.True(t, dst.IsIsolated(0))
	assert.Equal(t, []int{2, 3, 6, 5}, faceVertices(dst, 0))
}

func TestAppendDualTetrahedron(t *testing.T) {
	src := tetrahedron(t)
	dst := New[Empty, Empty, Point]()
	AppendDual(dst, src, nil, nil, func(p *Point, v Point) { *p = v })
	requireValid(t, dst)

	nv, ne, nf := counts(dst)
	assert.Equal(t, [3]int{4, 6, 4}, [3]int{nv, ne, nf})
	assert.True(t, dst.IsClosed())
	for f := range 4 {
		assert.Equal(t, 3, dst.FaceDegree(f))
	}
	assert.Equal(t, src.VertexData(2).Position, dst.FaceData(2).Position)
}

func TestAppendDualGrid(t *testing.T) {
	src := quadGrid(t, 3, 3)
	dst := New[Empty, Empty, Empty]()
	AppendDual(dst, src, nil, nil, nil)
	requireValid(t, dst)

	nv, ne, nf := counts(dst)
	assert.Equal(t, [3]int{9, 12, 4}, [3]int{nv, ne, nf})
	assert.Equal(t, 1, dst.CountHoles())
	assert.Equal(t, 1, dst.EulerNumber())
	// only the interior vertices of src have a dual face
	for _, v := range []int{5, 6, 9, 10} {
		require.False(t, dst.Faces().IsUnused(v))
		assert.Equal(t, 4, dst.FaceDegree(v))
	}
	// the centre face of src becomes an interior vertex
	assert.Equal(t, 4, dst.Degree(4))
	assert.False(t, dst.IsBoundaryVertex(4))
}
