package hemesh

// RemoveVertex removes every face around v. Edges and vertices left
// without faces are removed with them. An isolated vertex is simply
// flagged as removed.
func (m *Mesh[V, E, F]) RemoveVertex(v int) {
	m.checkVertex(v)
	if m.v(v).first == None {
		m.makeVertexUnused(v)
		return
	}

	var faces []int
	tag := m.faces.NextTag()
	for f := range m.VertexFaces(v) {
		if m.f(f).tag != tag {
			m.f(f).tag = tag
			faces = append(faces, f)
		}
	}
	for _, f := range faces {
		if !m.f(f).removed {
			m.removeFace(f)
		}
	}
}

// MergeVertices welds boundary vertex v0 onto boundary vertex v1. Adjacent
// vertices are merged by collapsing the edge between them. It returns
// false if the vertices are the same or either is interior.
func (m *Mesh[V, E, F]) MergeVertices(v0, v1 int) bool {
	m.checkVertex(v0)
	m.checkVertex(v1)
	if v0 == v1 {
		return false
	}
	if !m.IsBoundaryVertex(v0) || !m.IsBoundaryVertex(v1) {
		return false
	}

	he0 := m.v(v0).first
	he1 := m.v(v1).first
	he2 := m.h(he0).prev
	he3 := m.h(he1).prev

	if he0 == he3 {
		return m.CollapseEdge(he0)
	}
	if he1 == he2 {
		return m.CollapseEdge(he1)
	}

	for he := range m.CirculateStart(he0) {
		m.h(he).start = v1
	}

	m.makeConsecutive(he3, he0)
	m.makeConsecutive(he2, he1)

	if m.h(he1).next == he2 {
		m.cleanupDegree2Hole(he1)
	}
	if m.h(he0).next == he3 {
		m.cleanupDegree2Hole(he0)
	}

	m.makeVertexUnused(v0)
	return true
}

// SplitVertex moves the outgoing half-edges of Start(he0) from he0 up to,
// but excluding, he1 onto a new vertex joined to the old one by a new
// edge. It returns the new half-edge from the new vertex to the old one,
// or None if he0 and he1 do not share a start vertex or both border holes,
// which would leave the new edge without a face.
func (m *Mesh[V, E, F]) SplitVertex(he0, he1 int) int {
	m.checkHalfedge(he0)
	m.checkHalfedge(he1)
	if m.h(he0).start != m.h(he1).start {
		return None
	}

	if he0 == he1 || m.NextAtStart(he0) == he1 {
		return m.splitEdge(he0^1, m.AddVertex())
	}
	if m.h(he0).face == None && m.h(he1).face == None {
		return None
	}

	v0 := m.h(he0).start
	v1 := m.AddVertex()

	he2 := m.addEdgeBetween(v0, v1)
	he3 := he2 ^ 1
	m.h(he2).face = m.h(he0).face
	m.h(he3).face = m.h(he1).face

	for he := he0; he != he1; he = m.NextAtStart(he) {
		m.h(he).start = v1
	}

	if first := m.v(v0).first; m.h(first).start == v1 {
		// v1 took over the boundary gap of v0, if it had one
		m.v(v1).first = first
		m.v(v0).first = he2
	} else {
		m.v(v1).first = he3
	}

	m.makeConsecutive(m.h(he0).prev, he2)
	m.makeConsecutive(he2, he0)
	m.makeConsecutive(m.h(he1).prev, he3)
	m.makeConsecutive(he3, he1)

	m.setFirstToBoundary(v0)
	m.setFirstToBoundary(v1)
	return he3
}

// ChamferVertex is not implemented.
func (m *Mesh[V, E, F]) ChamferVertex(v int) error {
	m.checkVertex(v)
	return ErrNotImplemented
}

// DetachVertex is not implemented.
func (m *Mesh[V, E, F]) DetachVertex(v int) error {
	m.checkVertex(v)
	return ErrNotImplemented
}
