package hemesh

// SplitEdge inserts a new vertex on the edge of he. he keeps its start and
// now ends at the new vertex; the returned half-edge leaves the new vertex
// toward the old end.
func (m *Mesh[V, E, F]) SplitEdge(he int) int {
	m.checkHalfedge(he)
	return m.splitEdge(he, m.AddVertex())
}

// SplitEdgeWith is SplitEdge using an existing isolated vertex v.
func (m *Mesh[V, E, F]) SplitEdgeWith(he, v int) int {
	m.checkHalfedge(he)
	m.checkVertex(v)
	if m.v(v).first != None {
		panic(usageError("vertex", v, ErrInvalidArgument))
	}
	return m.splitEdge(he, v)
}

func (m *Mesh[V, E, F]) splitEdge(he, v int) int {
	he0 := he
	he1 := he0 ^ 1
	v1 := m.h(he1).start

	he2 := m.addEdgeBetween(v, v1)
	he3 := he2 ^ 1

	m.h(he1).start = v
	m.h(he2).face = m.h(he0).face
	m.h(he3).face = m.h(he1).face

	if m.v(v1).first == he1 {
		m.v(v1).first = he3
		m.v(v).first = he1
	} else {
		m.v(v).first = he2
	}

	m.makeConsecutive(he2, m.h(he0).next)
	m.makeConsecutive(he0, he2)
	m.makeConsecutive(m.h(he1).prev, he3)
	m.makeConsecutive(he3, he1)
	m.setFirstToBoundary(v)
	return he2
}

// DivideEdge inserts count vertices along the edge of he and returns the
// last half-edge created.
func (m *Mesh[V, E, F]) DivideEdge(he, count int) int {
	m.checkHalfedge(he)
	for range count {
		he = m.splitEdge(he, m.AddVertex())
	}
	return he
}

// SplitEdgeFace splits the edge of he and connects the new vertex across
// each adjacent face. Faces are assumed to be triangles.
func (m *Mesh[V, E, F]) SplitEdgeFace(he int) int {
	m.checkHalfedge(he)
	he0 := m.splitEdge(he, m.AddVertex())
	he1 := m.NextAtStart(he0)

	if m.h(he0).face != None {
		m.splitFace(he0, m.h(m.h(he0).next).next)
	}
	if m.h(he1).face != None {
		m.splitFace(he1, m.h(m.h(he1).next).next)
	}
	return he0
}

// CollapseEdge merges Start(he) into End(he). It returns false when the
// collapse would produce a non-manifold configuration.
func (m *Mesh[V, E, F]) CollapseEdge(he int) bool {
	m.checkHalfedge(he)
	if !m.canCollapse(he) {
		return false
	}

	he0, he1 := he, he^1
	v0 := m.h(he0).start
	v1 := m.h(he1).start
	he2 := m.h(he0).next
	he3 := m.h(he1).next
	f0 := m.h(he0).face
	f1 := m.h(he1).face

	for h := m.NextAtStart(he0); h != he0; h = m.NextAtStart(h) {
		m.h(h).start = v1
	}

	if he4 := m.v(v0).first; m.h(he4).face == None && he4 != he0 {
		m.v(v1).first = he4
	} else if m.v(v1).first == he1 {
		m.v(v1).first = he3
	}

	m.makeConsecutive(m.h(he0).prev, he2)
	m.makeConsecutive(m.h(he1).prev, he3)

	if f0 == None {
		if m.isInDegree1(he2) {
			m.cleanupDegree1Hole(he2)
		}
	} else {
		if m.isInDegree2(he2) {
			m.cleanupDegree2Face(he2)
		} else if m.f(f0).first == he0 {
			m.f(f0).first = he2
		}
	}

	if f1 == None {
		if m.isInDegree1(he3) {
			m.cleanupDegree1Hole(he3)
		}
	} else {
		if m.isInDegree2(he3) {
			m.cleanupDegree2Face(he3)
		} else if m.f(f1).first == he1 {
			m.f(f1).first = he3
		}
	}

	m.makeVertexUnused(v0)
	m.makeEdgeUnused(he0)

	m.setFirstToBoundary(v1)
	for _, h := range [2]int{he2, he3} {
		if w := m.h(h ^ 1).start; !m.v(w).removed {
			m.setFirstToBoundary(w)
		}
	}
	return true
}

// CanCollapse reports whether CollapseEdge(he) would succeed.
func (m *Mesh[V, E, F]) CanCollapse(he int) bool {
	m.checkHalfedge(he)
	return m.canCollapse(he)
}

// canCollapse accepts a collapse only if the result stays a valid mesh
// without doubled edges:
//   - a hole on either side keeps at least three edges
//   - a triangle on either side contributes its apex, and two apexes differ
//   - the ends are joined by this edge only, and their only common
//     neighbours are the apexes
//   - the ends share no face other than the two beside the edge
//   - an interior edge may not join two boundary vertices, and a boundary
//     edge may not touch a vertex with several boundary gaps
func (m *Mesh[V, E, F]) canCollapse(he int) bool {
	v0 := m.h(he).start
	v1 := m.h(he ^ 1).start
	f0 := m.h(he).face
	f1 := m.h(he ^ 1).face

	apex := [2]int{None, None}
	napex := 0
	for i, h := range [2]int{he, he ^ 1} {
		n := 0
		for range m.Loop(h) {
			if n++; n > 3 {
				break
			}
		}
		if m.h(h).face == None {
			if n <= 3 {
				return false
			}
		} else if n == 3 {
			apex[i] = m.h(m.h(h).prev).start
			napex++
		}
	}
	if napex == 2 && apex[0] == apex[1] {
		return false
	}

	if f0 == None || f1 == None {
		if !m.IsManifoldVertex(v0) || !m.IsManifoldVertex(v1) {
			return false
		}
	} else if m.IsBoundaryVertex(v0) && m.IsBoundaryVertex(v1) {
		return false
	}

	tag := m.verts.NextTag()
	for h := range m.CirculateStart(he) {
		m.v(m.h(h^1).start).tag = tag
	}
	joined, common := 0, 0
	for h := range m.CirculateStart(he ^ 1) {
		u := m.h(h ^ 1).start
		switch {
		case u == v0:
			joined++
		case m.v(u).tag == tag:
			if u != apex[0] && u != apex[1] {
				return false
			}
			common++
		}
	}
	if joined != 1 || common != napex {
		return false
	}

	ftag := m.faces.NextTag()
	for h := range m.CirculateStart(he) {
		if f := m.h(h).face; f != None {
			m.f(f).tag = ftag
		}
	}
	for h := range m.CirculateStart(he ^ 1) {
		if f := m.h(h).face; f != None && f != f0 && f != f1 && m.f(f).tag == ftag {
			return false
		}
	}
	return true
}

// cleanupDegree2Face removes the face of he, which has collapsed to two
// edges, and merges its edges into one.
func (m *Mesh[V, E, F]) cleanupDegree2Face(he int) {
	he0, he1 := he, he^1
	he2 := m.h(he0).next
	he3 := m.h(he1).next
	v0 := m.h(he0).start
	v1 := m.h(he1).start
	f0 := m.h(he0).face
	f1 := m.h(he1).face

	if m.v(v0).first == he0 {
		m.v(v0).first = he3
	}
	if m.v(v1).first == he1 {
		m.v(v1).first = he2
	}
	if f1 != None && m.f(f1).first == he1 {
		m.f(f1).first = he2
	}

	m.makeConsecutive(m.h(he1).prev, he2)
	m.makeConsecutive(he2, he3)
	m.h(he2).face = f1

	if !m.isEdgeManifold(he2) {
		m.removeEdge(he2)
	}

	m.makeFaceUnused(f0)
	m.makeEdgeUnused(he0)
}

// cleanupDegree2Hole removes a two-edge hole bounded by he.
func (m *Mesh[V, E, F]) cleanupDegree2Hole(he int) {
	he0, he1 := he, he^1
	he2 := m.h(he0).next
	he3 := m.h(he1).next
	v0 := m.h(he0).start
	v1 := m.h(he1).start
	f1 := m.h(he1).face

	if m.v(v0).first == he0 {
		if b := m.nextBoundaryAtStart(he0); b != None {
			m.v(v0).first = b
		} else {
			m.v(v0).first = he3
		}
	}
	if m.v(v1).first == he2 {
		if b := m.nextBoundaryAtStart(he2); b != None {
			m.v(v1).first = b
		} else {
			m.v(v1).first = he2
		}
	}

	if m.f(f1).first == he1 {
		m.f(f1).first = he2
	}
	m.h(he2).face = f1

	m.makeConsecutive(m.h(he1).prev, he2)
	m.makeConsecutive(he2, he3)
	m.makeEdgeUnused(he0)
}

// cleanupDegree1Hole removes the one-edge hole formed by he.
func (m *Mesh[V, E, F]) cleanupDegree1Hole(he int) {
	he0, he1 := he, he^1
	v0 := m.h(he0).start
	f1 := m.h(he1).face

	if m.v(v0).first == he0 {
		if b := m.nextBoundaryAtStart(he0); b != None {
			m.v(v0).first = b
		} else {
			m.v(v0).first = m.h(he1).next
		}
	}
	if m.f(f1).first == he1 {
		m.f(f1).first = m.h(he1).next
	}

	m.makeConsecutive(m.h(he1).prev, m.h(he1).next)
	m.makeEdgeUnused(he0)
}

// SpinEdge turns an interior edge to connect the opposite corners of its
// two faces. It returns false for boundary edges, when either end has
// degree two, and when the new corners are already joined or already lie
// on the face they would be added to.
func (m *Mesh[V, E, F]) SpinEdge(he int) bool {
	m.checkHalfedge(he)
	if m.IsBoundaryEdge(he) {
		return false
	}
	if m.isAtDegree2(he) || m.isAtDegree2(he^1) {
		return false
	}

	he0, he1 := he, he^1
	he2 := m.h(he0).next
	he3 := m.h(he1).next
	v0 := m.h(he0).start
	v1 := m.h(he1).start

	a := m.h(he2 ^ 1).start
	b := m.h(he3 ^ 1).start
	if a == b || m.FindHalfedge(a, b) != None {
		return false
	}
	if m.loopHasVertex(he0, b) || m.loopHasVertex(he1, a) {
		return false
	}

	if m.v(v0).first == he0 {
		m.v(v0).first = he3
	}
	if m.v(v1).first == he1 {
		m.v(v1).first = he2
	}

	m.h(he0).start = b
	m.h(he1).start = a

	f0 := m.h(he0).face
	f1 := m.h(he1).face
	if m.f(f0).first == he2 {
		m.f(f0).first = m.h(he2).next
	}
	if m.f(f1).first == he3 {
		m.f(f1).first = m.h(he3).next
	}

	m.h(he2).face = f1
	m.h(he3).face = f0

	m.makeConsecutive(he0, m.h(he2).next)
	m.makeConsecutive(he1, m.h(he3).next)
	m.makeConsecutive(m.h(he1).prev, he2)
	m.makeConsecutive(m.h(he0).prev, he3)
	m.makeConsecutive(he2, he1)
	m.makeConsecutive(he3, he0)
	return true
}

// DetachEdge separates the two faces of an interior edge by giving one of
// them its own copy of the edge. Ends that lie on the boundary are split
// into two vertices. It returns the new half-edge, which takes the place
// of he in its face, or None if the edge is already on the boundary.
func (m *Mesh[V, E, F]) DetachEdge(he int) int {
	m.checkHalfedge(he)
	if m.IsBoundaryEdge(he) {
		return None
	}

	mask := 0
	if m.IsBoundaryVertex(m.h(he).start) {
		mask |= 1
	}
	if m.IsBoundaryVertex(m.h(he ^ 1).start) {
		mask |= 2
	}

	switch mask {
	case 0:
		return m.detachEdgeInterior(he)
	case 1:
		return m.detachEdgeAtStart(he)
	case 2:
		return m.detachEdgeAtEnd(he)
	default:
		return m.detachEdgeBoundary(he)
	}
}

// detachFace moves the face of he0 onto he3 and leaves he0 and he2 as
// holes. Shared by every DetachEdge case.
func (m *Mesh[V, E, F]) detachFace(he0, he2 int) {
	he3 := he2 ^ 1
	f0 := m.h(he0).face

	m.h(he0).face = None
	m.h(he2).face = None
	m.h(he3).face = f0
	if m.f(f0).first == he0 {
		m.f(f0).first = he3
	}

	m.makeConsecutive(m.h(he0).prev, he3)
	m.makeConsecutive(he3, m.h(he0).next)
}

func (m *Mesh[V, E, F]) detachEdgeInterior(he int) int {
	he0 := he
	v0 := m.h(he0).start
	v1 := m.h(he0 ^ 1).start

	he2 := m.addEdgeBetween(v1, v0)
	m.detachFace(he0, he2)

	m.makeConsecutive(he0, he2)
	m.makeConsecutive(he2, he0)
	m.v(v0).first = he0
	m.v(v1).first = he2
	return he2 ^ 1
}

func (m *Mesh[V, E, F]) detachEdgeBoundary(he int) int {
	he0 := he
	v0 := m.h(he0).start
	v1 := m.h(he0 ^ 1).start
	v2 := m.AddVertex()
	v3 := m.AddVertex()

	he2 := m.addEdgeBetween(v3, v2)
	he3 := he2 ^ 1
	he4 := m.v(v0).first
	he5 := m.v(v1).first

	m.detachFace(he0, he2)

	m.makeConsecutive(m.h(he4).prev, he0)
	m.makeConsecutive(m.h(he5).prev, he2)
	m.makeConsecutive(he0, he5)
	m.makeConsecutive(he2, he4)

	m.v(v0).first = he0
	m.v(v2).first = he4
	m.v(v3).first = he2

	for h := m.NextAtStart(he2); h != he2; h = m.NextAtStart(h) {
		m.h(h).start = v3
	}
	for h := m.NextAtStart(he3); h != he3; h = m.NextAtStart(h) {
		m.h(h).start = v2
	}
	return he3
}

func (m *Mesh[V, E, F]) detachEdgeAtStart(he int) int {
	he0 := he
	v0 := m.h(he0).start
	v1 := m.h(he0 ^ 1).start
	v2 := m.AddVertex()

	he2 := m.addEdgeBetween(v1, v2)
	he3 := he2 ^ 1
	he4 := m.v(v0).first

	m.detachFace(he0, he2)

	m.makeConsecutive(m.h(he4).prev, he0)
	m.makeConsecutive(he0, he2)
	m.makeConsecutive(he2, he4)

	m.v(v0).first = he0
	m.v(v1).first = he2
	m.v(v2).first = he4

	for h := m.NextAtStart(he3); h != he3; h = m.NextAtStart(h) {
		m.h(h).start = v2
	}
	return he3
}

func (m *Mesh[V, E, F]) detachEdgeAtEnd(he int) int {
	he0 := he
	v0 := m.h(he0).start
	v1 := m.h(he0 ^ 1).start
	v2 := m.AddVertex()

	he2 := m.addEdgeBetween(v2, v0)
	he3 := he2 ^ 1
	he4 := m.v(v1).first

	m.detachFace(he0, he2)

	m.makeConsecutive(m.h(he4).prev, he2)
	m.makeConsecutive(he2, he0)
	m.makeConsecutive(he0, he4)

	m.v(v0).first = he0
	m.v(v2).first = he2

	for h := m.NextAtStart(he2); h != he2; h = m.NextAtStart(h) {
		m.h(h).start = v2
	}
	return he3
}

// RemoveEdge removes the edge of he. An interior edge is left in place and
// false is returned; the face on a boundary edge is removed with it.
func (m *Mesh[V, E, F]) RemoveEdge(he int) bool {
	m.checkHalfedge(he)
	f0 := m.h(he).face
	f1 := m.h(he ^ 1).face
	switch {
	case f0 != None && f1 != None:
		return false
	case f0 != None:
		m.removeFace(f0)
	case f1 != None:
		m.removeFace(f1)
	default:
		m.removeEdge(he)
	}
	return true
}
