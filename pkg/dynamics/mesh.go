package dynamics

import (
	"slices"

	"github.com/chazu/hedge/pkg/hemesh"
	"github.com/samber/lo"
)

// ParticlesFromProperty returns one particle per vertex slot of m, so
// body indices equal vertex indices. Removed slots get a particle too;
// no constraint built from m refers to them.
func ParticlesFromProperty[V, E, F any](m *hemesh.Mesh[V, E, F], pos hemesh.Property) []Body {
	bodies := make([]Body, m.Vertices().Count())
	for v := range bodies {
		bodies[v] = NewParticle(pos.Get(v))
	}
	return bodies
}

// WriteBack copies body positions to the used vertices of m.
func WriteBack[V, E, F any](m *hemesh.Mesh[V, E, F], pos hemesh.Property, bodies []Body) {
	for v := range min(len(bodies), m.Vertices().Count()) {
		if !m.Vertices().IsUnused(v) {
			pos.Set(v, bodies[v].Position())
		}
	}
}

// PlanarQuadsFromMesh returns a PlanarQuad for every quad face of m.
func PlanarQuadsFromMesh[V, E, F any](m *hemesh.Mesh[V, E, F], weight float64) []Constraint {
	var out []Constraint
	for f := range m.Faces().Count() {
		if m.Faces().IsUnused(f) || m.FaceDegree(f) != 4 {
			continue
		}
		vs := slices.Collect(m.FaceVertices(f))
		out = append(out, NewPlanarQuad(vs[0], vs[1], vs[2], vs[3], weight))
	}
	return out
}

// CoincidentFromGroups returns a Coincident for every group of two or
// more body indices.
func CoincidentFromGroups(groups [][]int, weight float64) []Constraint {
	return lo.FilterMap(groups, func(g []int, _ int) (Constraint, bool) {
		return NewCoincident(g, weight), len(g) > 1
	})
}

// Planarize runs PlanarQuad constraints over the quads of m until they
// converge or maxSteps is reached, writing the result back to pos. It
// returns the number of steps taken.
func Planarize[V, E, F any](m *hemesh.Mesh[V, E, F], pos hemesh.Property, s Settings, maxSteps int) (int, bool, error) {
	solver, err := NewSolver(s)
	if err != nil {
		return 0, false, err
	}
	defer solver.Close()

	bodies := ParticlesFromProperty(m, pos)
	converged := solver.Solve(bodies, PlanarQuadsFromMesh(m, 1), maxSteps)
	WriteBack(m, pos, bodies)
	return solver.StepCount(), converged, nil
}
