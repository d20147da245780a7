package hemesh

import "iter"

// Twin returns the opposite half-edge of he.
func (m *Mesh[V, E, F]) Twin(he int) int { return he ^ 1 }

// Start returns the vertex he leaves from.
func (m *Mesh[V, E, F]) Start(he int) int {
	m.ownsHalfedge(he)
	return m.h(he).start
}

// End returns the vertex he points to.
func (m *Mesh[V, E, F]) End(he int) int {
	m.ownsHalfedge(he)
	return m.h(he ^ 1).start
}

// Face returns the face of he, or None if he borders a hole.
func (m *Mesh[V, E, F]) Face(he int) int {
	m.ownsHalfedge(he)
	return m.h(he).face
}

// Next returns the half-edge after he in its loop.
func (m *Mesh[V, E, F]) Next(he int) int {
	m.ownsHalfedge(he)
	return m.h(he).next
}

// Prev returns the half-edge before he in its loop.
func (m *Mesh[V, E, F]) Prev(he int) int {
	m.ownsHalfedge(he)
	return m.h(he).prev
}

// NextAtStart returns the next outgoing half-edge around Start(he).
func (m *Mesh[V, E, F]) NextAtStart(he int) int { return m.h(he ^ 1).next }

// PrevAtStart returns the previous outgoing half-edge around Start(he).
func (m *Mesh[V, E, F]) PrevAtStart(he int) int { return m.h(he).prev ^ 1 }

// VertexFirst returns the outgoing half-edge stored on v, or None.
func (m *Mesh[V, E, F]) VertexFirst(v int) int {
	m.ownsVertex(v)
	return m.v(v).first
}

// FaceFirst returns the first half-edge of f.
func (m *Mesh[V, E, F]) FaceFirst(f int) int {
	m.ownsFace(f)
	return m.f(f).first
}

// IsHole reports whether he has no face.
func (m *Mesh[V, E, F]) IsHole(he int) bool { return m.Face(he) == None }

// IsBoundaryEdge reports whether either side of the edge is a hole.
func (m *Mesh[V, E, F]) IsBoundaryEdge(he int) bool {
	m.ownsHalfedge(he)
	return m.h(he).face == None || m.h(he^1).face == None
}

// IsIsolated reports whether v has no incident edges.
func (m *Mesh[V, E, F]) IsIsolated(v int) bool { return m.VertexFirst(v) == None }

// IsBoundaryVertex reports whether v lies on a hole. Relies on the
// boundary invariant: a boundary vertex always stores a hole half-edge as
// its first.
func (m *Mesh[V, E, F]) IsBoundaryVertex(v int) bool {
	first := m.VertexFirst(v)
	return first != None && m.h(first).face == None
}

// IsManifoldVertex reports whether at most one boundary gap meets at v.
func (m *Mesh[V, E, F]) IsManifoldVertex(v int) bool {
	first := m.VertexFirst(v)
	if first == None {
		return true
	}
	n := 0
	he := first
	for {
		if m.h(he).face == None {
			n++
			if n > 1 {
				return false
			}
		}
		he = m.NextAtStart(he)
		if he == first {
			return true
		}
	}
}

// Degree returns the number of edges incident to v.
func (m *Mesh[V, E, F]) Degree(v int) int {
	n := 0
	for range m.OutgoingHalfedges(v) {
		n++
	}
	return n
}

// FaceDegree returns the number of half-edges in the loop of f.
func (m *Mesh[V, E, F]) FaceDegree(f int) int {
	n := 0
	for range m.FaceHalfedges(f) {
		n++
	}
	return n
}

// FindHalfedge returns the half-edge from v0 to v1, or None.
func (m *Mesh[V, E, F]) FindHalfedge(v0, v1 int) int {
	m.ownsVertex(v1)
	for he := range m.OutgoingHalfedges(v0) {
		if m.h(he^1).start == v1 {
			return he
		}
	}
	return None
}

// IsDegree1 reports whether v has exactly one incident edge.
func (m *Mesh[V, E, F]) IsDegree1(v int) bool {
	he := m.VertexFirst(v)
	return he != None && m.isAtDegree1(he)
}

// IsDegree2 reports whether v has exactly two incident edges.
func (m *Mesh[V, E, F]) IsDegree2(v int) bool {
	he := m.VertexFirst(v)
	return he != None && !m.isAtDegree1(he) && m.isAtDegree2(he)
}

// ---------------------------------------------------------------------------
// Degree helpers on half-edges
// ---------------------------------------------------------------------------

// isAtDegree1 reports whether Start(he) has a single edge.
func (m *Mesh[V, E, F]) isAtDegree1(he int) bool { return m.NextAtStart(he) == he }

// isAtDegree2 reports whether Start(he) has exactly two edges.
func (m *Mesh[V, E, F]) isAtDegree2(he int) bool {
	return m.NextAtStart(m.NextAtStart(he)) == he
}

// isInDegree1 reports whether he is the only half-edge of its loop.
func (m *Mesh[V, E, F]) isInDegree1(he int) bool { return m.h(he).next == he }

// isInDegree2 reports whether the loop of he has two half-edges.
func (m *Mesh[V, E, F]) isInDegree2(he int) bool { return m.h(m.h(he).next).next == he }

// isEdgeManifold reports whether the edge has a face on at least one side.
func (m *Mesh[V, E, F]) isEdgeManifold(he int) bool {
	return m.h(he).face != None || m.h(he^1).face != None
}

// nextBoundaryAtStart circulates Start(he) from he, excluding he itself,
// and returns the first hole half-edge found or None. The walk is bounded
// by the number of half-edges so a fan that no longer closes cannot spin.
func (m *Mesh[V, E, F]) nextBoundaryAtStart(he int) int {
	he1 := m.NextAtStart(he)
	for range len(m.hedges.items) {
		if he1 == he {
			break
		}
		if m.h(he1).face == None {
			return he1
		}
		he1 = m.NextAtStart(he1)
	}
	return None
}

// loopHasVertex reports whether the loop of he passes through v.
func (m *Mesh[V, E, F]) loopHasVertex(he, v int) bool {
	for h := range m.Loop(he) {
		if m.h(h).start == v {
			return true
		}
	}
	return false
}

// setFirstToBoundary restores the boundary invariant for v.
func (m *Mesh[V, E, F]) setFirstToBoundary(v int) {
	first := m.v(v).first
	if first == None {
		return
	}
	he := first
	for range len(m.hedges.items) {
		if m.h(he).face == None {
			m.v(v).first = he
			return
		}
		he = m.NextAtStart(he)
		if he == first {
			return
		}
	}
}

// setFaceFirstToBoundary makes a half-edge whose twin is a hole the first
// of f, if one exists.
func (m *Mesh[V, E, F]) setFaceFirstToBoundary(f int) {
	first := m.f(f).first
	he := first
	for {
		if m.h(he^1).face == None {
			m.f(f).first = he
			return
		}
		he = m.h(he).next
		if he == first {
			return
		}
	}
}

// ---------------------------------------------------------------------------
// Circulators
// ---------------------------------------------------------------------------

// Loop yields he and every half-edge after it until the loop closes.
func (m *Mesh[V, E, F]) Loop(he int) iter.Seq[int] {
	m.ownsHalfedge(he)
	return func(yield func(int) bool) {
		cur := he
		for {
			if !yield(cur) {
				return
			}
			cur = m.h(cur).next
			if cur == he {
				return
			}
		}
	}
}

// CirculateStart yields he and every other outgoing half-edge of Start(he).
func (m *Mesh[V, E, F]) CirculateStart(he int) iter.Seq[int] {
	m.ownsHalfedge(he)
	return func(yield func(int) bool) {
		cur := he
		for {
			if !yield(cur) {
				return
			}
			cur = m.NextAtStart(cur)
			if cur == he {
				return
			}
		}
	}
}

// OutgoingHalfedges yields every half-edge leaving v. Isolated vertices
// yield nothing.
func (m *Mesh[V, E, F]) OutgoingHalfedges(v int) iter.Seq[int] {
	first := m.VertexFirst(v)
	if first == None {
		return func(func(int) bool) {}
	}
	return m.CirculateStart(first)
}

// IncomingHalfedges yields every half-edge ending at v.
func (m *Mesh[V, E, F]) IncomingHalfedges(v int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for he := range m.OutgoingHalfedges(v) {
			if !yield(he ^ 1) {
				return
			}
		}
	}
}

// ConnectedVertices yields the neighbours of v.
func (m *Mesh[V, E, F]) ConnectedVertices(v int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for he := range m.OutgoingHalfedges(v) {
			if !yield(m.h(he ^ 1).start) {
				return
			}
		}
	}
}

// VertexFaces yields the faces around v, skipping holes.
func (m *Mesh[V, E, F]) VertexFaces(v int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for he := range m.OutgoingHalfedges(v) {
			if f := m.h(he).face; f != None && !yield(f) {
				return
			}
		}
	}
}

// FaceHalfedges yields the half-edges of f in loop order.
func (m *Mesh[V, E, F]) FaceHalfedges(f int) iter.Seq[int] {
	return m.Loop(m.FaceFirst(f))
}

// FaceVertices yields the vertices of f in loop order.
func (m *Mesh[V, E, F]) FaceVertices(f int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for he := range m.FaceHalfedges(f) {
			if !yield(m.h(he).start) {
				return
			}
		}
	}
}

// FaceAdjacent yields the faces sharing an edge with f, skipping holes.
// A face sharing several edges is yielded once per edge.
func (m *Mesh[V, E, F]) FaceAdjacent(f int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for he := range m.FaceHalfedges(f) {
			if g := m.h(he ^ 1).face; g != None && !yield(g) {
				return
			}
		}
	}
}
