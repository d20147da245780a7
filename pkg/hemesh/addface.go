package hemesh

// AddFace creates a face over the given vertex loop and returns its index.
// It returns None if fewer than three vertices are given, if a vertex
// repeats, if any vertex is interior, or if an edge between consecutive
// vertices already has a face on that side.
//
// Missing edges are created. When a vertex already carries several
// boundary loops the new face is spliced into the loop found by walking
// from the existing half-edge to the next boundary half-edge around it.
func (m *Mesh[V, E, F]) AddFace(vs ...int) int {
	tag := m.verts.NextTag()
	for _, v := range vs {
		m.checkVertex(v)
		if m.v(v).tag == tag {
			return None
		}
		m.v(v).tag = tag
	}
	if len(vs) < 3 {
		return None
	}

	n := len(vs)
	hes := make([]int, n)

	// collect existing half-edges along the loop
	for i, v := range vs {
		hes[i] = None
		first := m.v(v).first
		if first == None {
			continue
		}
		if m.h(first).face != None {
			return None
		}
		he := m.FindHalfedge(v, vs[(i+1)%n])
		if he == None {
			continue
		}
		if m.h(he).face != None {
			return None
		}
		hes[i] = he
	}

	f := m.addFace()
	for i := range hes {
		if hes[i] == None {
			hes[i] = m.addEdgeBetween(vs[i], vs[(i+1)%n])
		}
		m.h(hes[i]).face = f
	}

	for i := range hes {
		he0 := hes[i]
		he1 := hes[(i+1)%n]
		v1 := vs[(i+1)%n]

		he2 := m.h(he0).next
		he3 := m.h(he1).prev
		he4 := he0 ^ 1

		mask := 0
		if he2 == None {
			mask |= 1
		}
		if he3 == None {
			mask |= 2
		}

		switch mask {
		case 0:
			// both old; if not already consecutive, v1 is non-manifold
			// and the loop between them is moved to the next gap
			if he2 != he1 {
				he := m.nextBoundaryAtStart(he1)
				m.v(v1).first = he
				m.makeConsecutive(m.h(he).prev, he2)
				m.makeConsecutive(he3, he)
				m.makeConsecutive(he0, he1)
			} else {
				m.setFirstToBoundary(v1)
			}
			continue
		case 1:
			m.makeConsecutive(he3, he4)
			m.v(v1).first = he4
		case 2:
			m.makeConsecutive(he1^1, he2)
		case 3:
			if first := m.v(v1).first; first == None {
				m.makeConsecutive(he1^1, he4)
			} else {
				m.makeConsecutive(m.h(first).prev, he4)
				m.makeConsecutive(he1^1, first)
			}
			m.v(v1).first = he4
		}
		m.makeConsecutive(he0, he1)
	}

	m.f(f).first = hes[0]
	return f
}
