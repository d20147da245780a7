package hemesh

import "iter"

// IsClosed reports whether every used half-edge has a face.
func (m *Mesh[V, E, F]) IsClosed() bool {
	for i := 0; i < len(m.hedges.items); i += 2 {
		if !m.h(i).removed && m.isBoundaryPair(i) {
			return false
		}
	}
	return true
}

func (m *Mesh[V, E, F]) isBoundaryPair(he int) bool {
	return m.h(he).face == None || m.h(he^1).face == None
}

// EulerNumber returns V - E + F over the used elements.
func (m *Mesh[V, E, F]) EulerNumber() int {
	return m.verts.CountUsed() - m.hedges.CountUsed()/2 + m.faces.CountUsed()
}

// Holes yields one half-edge from each hole loop.
func (m *Mesh[V, E, F]) Holes() iter.Seq[int] {
	return func(yield func(int) bool) {
		tag := m.hedges.NextTag()
		for i := range m.hedges.items {
			he := m.h(i)
			if he.removed || he.face != None || he.tag == tag {
				continue
			}
			for h := range m.Loop(i) {
				m.h(h).tag = tag
			}
			if !yield(i) {
				return
			}
		}
	}
}

// CountHoles returns the number of hole loops.
func (m *Mesh[V, E, F]) CountHoles() int {
	n := 0
	for range m.Holes() {
		n++
	}
	return n
}

// BoundaryVertices yields every used vertex on a hole.
func (m *Mesh[V, E, F]) BoundaryVertices() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range m.verts.items {
			if !m.v(i).removed && m.IsBoundaryVertex(i) && !yield(i) {
				return
			}
		}
	}
}

// CountBoundaryVertices returns the number of boundary vertices.
func (m *Mesh[V, E, F]) CountBoundaryVertices() int {
	n := 0
	for range m.BoundaryVertices() {
		n++
	}
	return n
}

// NonManifoldVertices yields every used vertex where more than one hole
// meets.
func (m *Mesh[V, E, F]) NonManifoldVertices() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range m.verts.items {
			if !m.v(i).removed && !m.IsManifoldVertex(i) && !yield(i) {
				return
			}
		}
	}
}

// CountNonManifoldVertices returns the number of non-manifold vertices.
func (m *Mesh[V, E, F]) CountNonManifoldVertices() int {
	n := 0
	for range m.NonManifoldVertices() {
		n++
	}
	return n
}

// ConnectedComponents groups the used vertices into edge-connected
// components. Each isolated vertex forms its own component.
func (m *Mesh[V, E, F]) ConnectedComponents() [][]int {
	tag := m.verts.NextTag()
	var comps [][]int
	var stack []int

	for i := range m.verts.items {
		if m.v(i).removed || m.v(i).tag == tag {
			continue
		}
		m.v(i).tag = tag
		stack = append(stack[:0], i)
		var comp []int

		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, v)
			for u := range m.ConnectedVertices(v) {
				if m.v(u).tag != tag {
					m.v(u).tag = tag
					stack = append(stack, u)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}
