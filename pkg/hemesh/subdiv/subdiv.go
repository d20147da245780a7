// Package subdiv implements subdivision schemes over hemesh meshes.
//
// Every scheme appends its new vertices after the existing ones: one per
// face slot, then one per edge slot. Slots belonging to removed faces or
// edges produce placeholder vertices that are removed again before the
// scheme returns, so a caller keeping attributes in a parallel slice can
// Compact afterwards and Reindex it.
package subdiv

import (
	"fmt"

	"github.com/chazu/hedge"
	"github.com/chazu/hedge/pkg/hemesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// Boundary selects how Catmull-Clark treats vertices on a hole.
type Boundary int

const (
	// Fixed leaves every boundary vertex where it is.
	Fixed Boundary = iota
	// CornerFixed smooths boundary vertices along the boundary curve but
	// leaves corners (boundary vertices of degree two) in place.
	CornerFixed
	// Free smooths every boundary vertex along the boundary curve.
	Free
)

func (b Boundary) String() string {
	switch b {
	case Fixed:
		return "fixed"
	case CornerFixed:
		return "corner-fixed"
	case Free:
		return "free"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

// ParseBoundary maps the names returned by Boundary.String back to
// values.
func ParseBoundary(s string) (Boundary, error) {
	for _, b := range []Boundary{Fixed, CornerFixed, Free} {
		if b.String() == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("subdiv: unknown boundary %q: %w", s, hemesh.ErrInvalidArgument)
}

// layout records where the face and edge vertices of one subdivision
// step start.
type layout struct {
	fv0 int // first face vertex, also the old vertex count
	ev0 int // first edge vertex
	nf  int
	ne  int
}

func (l layout) faceVertex(f int) int  { return l.fv0 + f }
func (l layout) edgeVertex(he int) int { return l.ev0 + he>>1 }

// QuadSplit splits every face into quads around a vertex at its centroid,
// with a new vertex at the midpoint of every edge.
func QuadSplit[V, E, F any](m *hemesh.Mesh[V, E, F], pos hemesh.Property) {
	l := addFaceVertices(m, pos)
	addEdgeVertices(m, pos, l, func(he int) v3.Vec { return midpoint(m, pos, he) })
	splitTopology(m, l)
}

// CatmullClark applies one step of Catmull-Clark subdivision. Old
// vertices are smoothed before the topology is split; boundary vertices
// are treated according to b. An unknown b returns ErrInvalidArgument and
// leaves the mesh untouched.
func CatmullClark[V, E, F any](m *hemesh.Mesh[V, E, F], pos hemesh.Property, b Boundary) error {
	if b < Fixed || b > Free {
		return fmt.Errorf("subdiv: boundary %d: %w", int(b), hemesh.ErrInvalidArgument)
	}

	l := addFaceVertices(m, pos)
	addEdgeVertices(m, pos, l, func(he int) v3.Vec {
		if m.IsBoundaryEdge(he) {
			return midpoint(m, pos, he)
		}
		sum := pos.Get(m.Start(he)).
			Add(pos.Get(m.End(he))).
			Add(pos.Get(l.faceVertex(m.Face(he)))).
			Add(pos.Get(l.faceVertex(m.Face(he ^ 1))))
		return sum.MulScalar(0.25)
	})
	smooth(m, pos, l, b)
	splitTopology(m, l)
	return nil
}

// smooth moves the old vertices to their Catmull-Clark positions. New
// positions depend only on face and edge vertices, so they can be written
// in place.
func smooth[V, E, F any](m *hemesh.Mesh[V, E, F], pos hemesh.Property, l layout, b Boundary) {
	for v := range l.fv0 {
		if m.Vertices().IsUnused(v) || m.IsIsolated(v) {
			continue
		}

		if m.IsBoundaryVertex(v) {
			if b == Fixed || (b == CornerFixed && m.Degree(v) == 2) {
				continue
			}
			he0 := m.VertexFirst(v)
			he1 := m.Prev(he0)
			e := pos.Get(l.edgeVertex(he0)).Add(pos.Get(l.edgeVertex(he1)))
			pos.Set(v, pos.Get(v).MulScalar(0.5).Add(e.MulScalar(0.25)))
			continue
		}

		var fsum, esum v3.Vec
		n := 0
		for he := range m.OutgoingHalfedges(v) {
			fsum = fsum.Add(pos.Get(l.faceVertex(m.Face(he))))
			esum = esum.Add(pos.Get(l.edgeVertex(he)))
			n++
		}
		t := 1 / float64(n)
		p := pos.Get(v).MulScalar(float64(n - 3)).
			Add(fsum.MulScalar(t)).
			Add(esum.MulScalar(2 * t))
		pos.Set(v, p.MulScalar(t))
	}
}

// Diagonalize pokes every face at its centroid and then merges the
// triangles on either side of each original edge, so the original edges
// become diagonals. With skipBoundary the boundary triangles are kept;
// otherwise they are removed.
func Diagonalize[V, E, F any](m *hemesh.Mesh[V, E, F], pos hemesh.Property, skipBoundary bool) {
	ne := m.EdgeCount()
	nf := m.Faces().Count()

	for f := range nf {
		if m.Faces().IsUnused(f) {
			continue
		}
		c := m.AddVertex()
		pos.Set(c, hemesh.FaceCenter(m, pos, f))
		m.PokeFaceWith(m.FaceFirst(f), c)
	}

	for e := range ne {
		he := e << 1
		if m.Halfedges().IsUnused(he) {
			continue
		}
		if m.IsBoundaryEdge(he) {
			if skipBoundary {
				continue
			}
			// merge the face side into the hole
			if m.IsHole(he) {
				he ^= 1
			}
		}
		m.MergeFaces(he)
	}

	hedge.Logger().Debug("subdiv: diagonalize", "faces", nf, "edges", ne)
}

// Loop would apply Loop subdivision to a triangle mesh.
func Loop[V, E, F any](m *hemesh.Mesh[V, E, F], pos hemesh.Property) error {
	return fmt.Errorf("subdiv: loop: %w", hemesh.ErrNotImplemented)
}

// TriSplit would split every triangle into four.
func TriSplit[V, E, F any](m *hemesh.Mesh[V, E, F], pos hemesh.Property) error {
	return fmt.Errorf("subdiv: tri split: %w", hemesh.ErrNotImplemented)
}

func midpoint[V, E, F any](m *hemesh.Mesh[V, E, F], pos hemesh.Property, he int) v3.Vec {
	return pos.Get(m.Start(he)).Add(pos.Get(m.End(he))).MulScalar(0.5)
}

// addFaceVertices appends one vertex per face slot, placed at the face
// centroid.
func addFaceVertices[V, E, F any](m *hemesh.Mesh[V, E, F], pos hemesh.Property) layout {
	l := layout{
		fv0: m.Vertices().Count(),
		nf:  m.Faces().Count(),
		ne:  m.EdgeCount(),
	}
	l.ev0 = l.fv0 + l.nf

	m.AddVertices(l.nf)
	for f := range l.nf {
		if !m.Faces().IsUnused(f) {
			pos.Set(l.faceVertex(f), hemesh.FaceCenter(m, pos, f))
		}
	}
	return l
}

// addEdgeVertices appends one vertex per edge slot, placed by at.
func addEdgeVertices[V, E, F any](m *hemesh.Mesh[V, E, F], pos hemesh.Property, l layout, at func(he int) v3.Vec) {
	m.AddVertices(l.ne)
	for e := range l.ne {
		if he := e << 1; !m.Halfedges().IsUnused(he) {
			pos.Set(l.edgeVertex(he), at(he))
		}
	}
}

// splitTopology splits every edge at its edge vertex and every face into
// quads around its face vertex, then drops the placeholders left by
// removed slots.
func splitTopology[V, E, F any](m *hemesh.Mesh[V, E, F], l layout) {
	for e := range l.ne {
		he := e << 1
		if !m.Halfedges().IsUnused(he) {
			m.SplitEdgeWith(he, l.edgeVertex(he))
		}
	}

	for f := range l.nf {
		if m.Faces().IsUnused(f) {
			continue
		}
		he := m.FaceFirst(f)
		// start from an old corner
		if m.Start(he) >= l.fv0 {
			he = m.Prev(he)
		}
		m.QuadSplitFace(he, l.faceVertex(f))
	}

	placeholders := lo.Filter(lo.RangeFrom(l.fv0, l.nf+l.ne), func(v, _ int) bool {
		return !m.Vertices().IsUnused(v) && m.IsIsolated(v)
	})
	for _, v := range placeholders {
		m.RemoveVertex(v)
	}

	hedge.Logger().Debug("subdiv: split",
		"faces", l.nf, "edges", l.ne, "placeholders", len(placeholders))
}
