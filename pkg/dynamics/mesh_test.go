package dynamics

import (
	"testing"

	"github.com/chazu/hedge/pkg/hemesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// strip returns two unit quads side by side plus a triangle on the right.
func strip(t *testing.T) *hemesh.PolyMesh {
	t.Helper()
	m := hemesh.NewPolyMesh()
	for _, p := range []v3.Vec{
		{X: 0}, {X: 1}, {X: 2},
		{Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1},
		{X: 3, Y: 0.5},
	} {
		m.VertexData(m.AddVertex()).Position = p
	}
	for _, f := range [][]int{{0, 1, 4, 3}, {1, 2, 5, 4}, {2, 6, 5}} {
		require.NotEqual(t, hemesh.None, m.AddFace(f...))
	}
	return m
}

func TestPlanarQuadsFromMesh(t *testing.T) {
	m := strip(t)
	cs := PlanarQuadsFromMesh(m, 2)
	require.Len(t, cs, 2)

	q := cs[1].(*PlanarQuad)
	assert.Equal(t, 2.0, q.Weight)
	got := make([]int, 4)
	for i, h := range q.Handles() {
		got[i] = h.BodyIndex()
	}
	assert.Equal(t, []int{1, 2, 5, 4}, got)

	m.RemoveFace(0)
	assert.Len(t, PlanarQuadsFromMesh(m, 1), 1)
}

func TestCoincidentFromGroupsSkipsSingletons(t *testing.T) {
	cs := CoincidentFromGroups([][]int{{0}, {1, 2}, nil, {3, 4, 5}}, 1)
	require.Len(t, cs, 2)
	assert.Len(t, cs[0].Handles(), 2)
	assert.Len(t, cs[1].Handles(), 3)
}

func TestParticlesAndWriteBack(t *testing.T) {
	m := strip(t)
	pos := hemesh.Positions(m)
	bodies := ParticlesFromProperty(m, pos)
	require.Len(t, bodies, m.Vertices().Count())
	assert.Equal(t, v3.Vec{X: 3, Y: 0.5}, bodies[6].Position())

	m.RemoveFace(2)
	require.True(t, m.Vertices().IsUnused(6))
	for _, b := range bodies {
		b.SetPosition(b.Position().Add(v3.Vec{Z: 1}))
	}
	WriteBack(m, pos, bodies)

	assert.Equal(t, v3.Vec{X: 1, Y: 1, Z: 1}, pos.Get(4))
	assert.Equal(t, v3.Vec{X: 3, Y: 0.5}, pos.Get(6), "removed vertex untouched")
}

func TestPlanarize(t *testing.T) {
	m := strip(t)
	pos := hemesh.Positions(m)
	pos.Set(5, v3.Vec{X: 2, Y: 1, Z: 0.5})

	steps, converged, err := Planarize(m, pos, undamped(), 1000)
	require.NoError(t, err)
	assert.True(t, converged)
	assert.Positive(t, steps)

	bodies := ParticlesFromProperty(m, pos)
	assert.InDelta(t, 0.0, nonPlanarity(bodies, 0, 1, 4, 3), 1e-2)
	assert.InDelta(t, 0.0, nonPlanarity(bodies, 1, 2, 5, 4), 1e-2)
}

func TestPlanarizeRejectsBadSettings(t *testing.T) {
	m := strip(t)
	s := DefaultSettings()
	s.TimeStep = -1
	_, _, err := Planarize(m, hemesh.Positions(m), s, 10)
	assert.ErrorIs(t, err, ErrInvalidSettings)
}
