package hemesh

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	m := quadGrid(t, 2, 2)
	m.RemoveVertex(0)
	requireValid(t, m)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	got := NewPolyMesh()
	require.NoError(t, json.Unmarshal(data, got))
	requireValid(t, got)

	assert.Equal(t, m.Vertices().Count(), got.Vertices().Count())
	assert.Equal(t, m.Halfedges().Count(), got.Halfedges().Count())
	assert.Equal(t, m.Faces().Count(), got.Faces().Count())
	assert.True(t, got.Vertices().IsUnused(0))
	assert.True(t, got.Faces().IsUnused(0))
	assert.Equal(t, faceVertices(m, 3), faceVertices(got, 3))
	for v := range m.Vertices().Count() {
		assert.Equal(t, m.VertexData(v).Position, got.VertexData(v).Position)
	}
}

func TestJSONRejectsBrokenMesh(t *testing.T) {
	m := quadGrid(t, 1, 1)

	const odd = `{"vertices":[{"first":0,"data":{}}],` +
		`"halfedges":[{"start":0,"face":-1,"next":0,"prev":0,"data":{}}],"faces":[]}`
	err := json.Unmarshal([]byte(odd), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without a twin")

	const dangling = `{"vertices":[{"first":0,"data":{}},{"first":1,"data":{}}],` +
		`"halfedges":[{"start":0,"face":-1,"next":7,"prev":0,"data":{}},` +
		`{"start":1,"face":-1,"next":1,"prev":1,"data":{}}],"faces":[]}`
	require.Error(t, json.Unmarshal([]byte(dangling), m))

	// m is untouched by a failed decode
	requireValid(t, m)
	nv, ne, nf := counts(m)
	assert.Equal(t, [3]int{4, 4, 1}, [3]int{nv, ne, nf})
}
