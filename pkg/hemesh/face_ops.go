package hemesh

// RemoveFace removes f. Edges left without a face on either side are
// removed, and so are vertices left without edges.
func (m *Mesh[V, E, F]) RemoveFace(f int) {
	m.checkFace(f)
	m.removeFace(f)
}

func (m *Mesh[V, E, F]) removeFace(f int) {
	var loop []int
	for he := range m.Loop(m.f(f).first) {
		loop = append(loop, he)
	}

	for _, he := range loop {
		if m.h(he^1).face == None {
			m.removeEdge(he)
			continue
		}
		// start now lies on the boundary
		m.v(m.h(he).start).first = he
		m.h(he).face = None
	}
	m.makeFaceUnused(f)

	for _, he := range loop {
		if v := m.h(he).start; !m.v(v).removed {
			m.setFirstToBoundary(v)
		}
	}
}

// MergeFaces merges the face of he into the face of he^1. The two faces
// must share a single string of edges, which is removed. Either side may
// be a hole: a face merged into a hole is simply removed.
func (m *Mesh[V, E, F]) MergeFaces(he int) bool {
	m.checkHalfedge(he)
	switch {
	case m.h(he).face == None && m.h(he^1).face == None:
		return false
	case m.h(he).face == None:
		return m.mergeHoleToFace(he)
	case m.h(he^1).face == None:
		m.removeFace(m.h(he).face)
		return true
	default:
		return m.mergeFaceToFace(he)
	}
}

// mergeable reports whether the loops on either side of the string
// [first, after) can become one loop: the result must keep three edges and
// must not pass through a vertex twice.
func (m *Mesh[V, E, F]) mergeable(first, after int) bool {
	k := 0
	for h := first; h != after; h = m.h(h).next {
		k++
	}

	seen0 := m.verts.NextTag()
	n0 := 0
	for h := range m.Loop(first) {
		vx := m.v(m.h(h).start)
		if vx.tag == seen0 {
			return false
		}
		vx.tag = seen0
		n0++
	}
	seen1 := m.verts.NextTag()
	n1, shared := 0, 0
	for h := range m.Loop(first ^ 1) {
		vx := m.v(m.h(h).start)
		switch vx.tag {
		case seen1:
			return false
		case seen0:
			shared++
		}
		vx.tag = seen1
		n1++
	}
	return n0+n1-2*k >= 3 && shared == k+1
}

// sharedString locates the string of half-edges around he whose twins lie
// in f1. It returns the first shared half-edge and the first half-edge
// after the string, or ok false if the loop is entirely shared or shares
// more than one string with f1.
func (m *Mesh[V, E, F]) sharedString(he, f1 int) (first, after int, ok bool) {
	he0, he1 := he, he
	for {
		he0 = m.h(he0).prev
		if he0 == he {
			return None, None, false
		}
		if m.h(he0^1).face != f1 {
			break
		}
	}
	for {
		he1 = m.h(he1).next
		if m.h(he1^1).face != f1 {
			break
		}
	}
	for h := he1; ; {
		if m.h(h^1).face == f1 {
			return None, None, false
		}
		if h = m.h(h).next; h == he0 {
			break
		}
	}
	return m.h(he0).next, he1, true
}

func (m *Mesh[V, E, F]) mergeFaceToFace(he int) bool {
	f0 := m.h(he).face
	f1 := m.h(he ^ 1).face
	he0, he1, ok := m.sharedString(he, f1)
	if !ok || !m.mergeable(he0, he1) {
		return false
	}

	for h := he1; h != he0; h = m.h(h).next {
		m.h(h).face = f1
	}
	for h := he0; ; {
		m.removeEdge(h)
		h = m.h(h).next
		if h == he1 {
			break
		}
	}

	if m.h(m.f(f1).first).removed {
		m.f(f1).first = he1
	}
	m.makeFaceUnused(f0)
	return true
}

func (m *Mesh[V, E, F]) mergeHoleToFace(he int) bool {
	f1 := m.h(he ^ 1).face
	he0, he1, ok := m.sharedString(he, f1)
	if !ok || !m.mergeable(he0, he1) {
		return false
	}

	starts := []int{m.h(he0).start}
	for h := he1; h != he0; h = m.h(h).next {
		m.h(h).face = f1
		starts = append(starts, m.h(h).start)
	}
	for h := he0; ; {
		m.removeEdge(h)
		h = m.h(h).next
		if h == he1 {
			break
		}
	}
	for _, v := range starts {
		if !m.v(v).removed {
			m.setFirstToBoundary(v)
		}
	}

	if m.h(m.f(f1).first).removed {
		m.f(f1).first = he1
	}
	return true
}

// FillHole adds a face over the hole loop of he. It returns None unless
// he is a hole with at least three edges.
func (m *Mesh[V, E, F]) FillHole(he int) int {
	m.checkHalfedge(he)
	if m.h(he).face != None || m.isInDegree1(he) || m.isInDegree2(he) {
		return None
	}

	f := m.addFace()
	m.f(f).first = he
	for h := range m.Loop(he) {
		m.h(h).face = f
		m.setFirstToBoundary(m.h(h).start)
	}
	return f
}

// SplitFace connects Start(he0) to Start(he1) across their shared face.
// The new half-edge starts at Start(he0) and bounds the new face that
// contains he1. It returns None if the half-edges do not share a face, are
// consecutive, or start at vertices that are already joined by an edge.
func (m *Mesh[V, E, F]) SplitFace(he0, he1 int) int {
	m.checkHalfedge(he0)
	m.checkHalfedge(he1)
	f := m.h(he0).face
	if f == None || f != m.h(he1).face {
		return None
	}
	if he0 == he1 || m.h(he0).next == he1 || m.h(he1).next == he0 {
		return None
	}
	v0, v1 := m.h(he0).start, m.h(he1).start
	if v0 == v1 || m.FindHalfedge(v0, v1) != None {
		return None
	}
	return m.splitFace(he0, he1)
}

func (m *Mesh[V, E, F]) splitFace(he0, he1 int) int {
	f0 := m.h(he0).face
	f1 := m.addFace()

	he2 := m.addEdgeBetween(m.h(he0).start, m.h(he1).start)
	he3 := he2 ^ 1

	m.h(he3).face = f0
	m.h(he2).face = f1
	m.f(f0).first = he3
	m.f(f1).first = he2

	m.makeConsecutive(m.h(he0).prev, he2)
	m.makeConsecutive(m.h(he1).prev, he3)
	m.makeConsecutive(he3, he0)
	m.makeConsecutive(he2, he1)

	for h := m.h(he2).next; h != he2; h = m.h(h).next {
		m.h(h).face = f1
	}
	return he2
}

// PokeFace adds a vertex inside f joined to each of its corners, turning
// an n-gon into n triangles. It returns the new vertex.
func (m *Mesh[V, E, F]) PokeFace(f int) int {
	m.checkFace(f)
	c := m.AddVertex()
	m.pokeFace(m.f(f).first, c)
	return c
}

// PokeFaceWith pokes the face of he around the isolated vertex center.
// The first triangle created is the one containing he. It returns false
// if he is a hole.
func (m *Mesh[V, E, F]) PokeFaceWith(he, center int) bool {
	m.checkHalfedge(he)
	m.checkVertex(center)
	if m.v(center).first != None {
		panic(usageError("vertex", center, ErrInvalidArgument))
	}
	if m.h(he).face == None {
		return false
	}
	m.pokeFace(he, center)
	return true
}

func (m *Mesh[V, E, F]) pokeFace(first, center int) {
	v := m.h(first).start
	f := m.h(first).face

	he := first
	for {
		he0 := m.addEdgeBetween(m.h(he).start, center)
		m.makeConsecutive(m.h(he).prev, he0)
		m.makeConsecutive(he0^1, he)
		he = m.h(he).next
		if m.h(he).start == v {
			break
		}
	}

	he = first
	m.v(center).first = m.h(he).prev

	for {
		he0 := m.h(he).prev
		he1 := m.h(he).next
		m.makeConsecutive(he1, he0)

		if f == None {
			f = m.addFace()
			m.f(f).first = he
			m.h(he).face = f
		}
		m.h(he0).face = f
		m.h(he1).face = f
		f = None

		he = m.h(he1 ^ 1).next
		if m.h(he).start == v {
			break
		}
	}
}

// QuadPokeFace pokes an even-degree face, joining a new center vertex to
// every corner. It returns the center, or None if the face has odd degree.
func (m *Mesh[V, E, F]) QuadPokeFace(f int) int {
	m.checkFace(f)
	if m.FaceDegree(f)&1 != 0 {
		return None
	}
	c := m.AddVertex()
	m.pokeFace(m.f(f).first, c)
	return c
}

// QuadSplitFace splits the even-degree face of he into quads around the
// isolated vertex center. Every second corner, starting from Start(he),
// is treated as an original corner and the corners between them are
// joined to the center. It returns false if he is a hole or the face
// degree is odd or less than four.
func (m *Mesh[V, E, F]) QuadSplitFace(he, center int) bool {
	m.checkHalfedge(he)
	m.checkVertex(center)
	if m.v(center).first != None {
		panic(usageError("vertex", center, ErrInvalidArgument))
	}
	f := m.h(he).face
	if f == None {
		return false
	}
	if n := m.FaceDegree(f); n < 4 || n&1 != 0 {
		return false
	}
	m.quadSplitFace(he, center)
	return true
}

func (m *Mesh[V, E, F]) quadSplitFace(first, center int) {
	he0 := first
	for {
		he1 := m.h(he0).next
		he2 := m.addEdgeBetween(m.h(he1).start, center)
		m.makeConsecutive(he0, he2)
		m.makeConsecutive(he2^1, he1)
		he0 = m.h(he1).next
		if he0 == first {
			break
		}
	}

	m.v(center).first = m.h(he0).next ^ 1

	f := m.h(first).face
	he1 := m.h(he0).prev
	for {
		he2 := m.h(he0).next
		he3 := m.h(he1).prev
		m.makeConsecutive(he2, he3)

		if f == None {
			f = m.addFace()
			m.h(he0).face = f
			m.h(he1).face = f
		}
		m.h(he2).face = f
		m.h(he3).face = f
		m.f(f).first = he0

		f = None
		he1 = m.h(he2 ^ 1).next
		he0 = m.h(he1).next
		if he0 == first {
			break
		}
	}
}

// ReverseFaces flips the orientation of every face and hole loop.
func (m *Mesh[V, E, F]) ReverseFaces() {
	n := len(m.hedges.items)
	next := make([]int, n)
	prev := make([]int, n)
	face := make([]int, n)
	for i := range m.hedges.items {
		h := m.h(i)
		next[i], prev[i], face[i] = h.next, h.prev, h.face
	}

	for i := range m.hedges.items {
		h := m.h(i)
		if h.removed {
			continue
		}
		h.next = prev[i^1] ^ 1
		h.prev = next[i^1] ^ 1
		h.face = face[i^1]
	}
	for i := range m.faces.items {
		if fc := m.f(i); !fc.removed {
			fc.first ^= 1
		}
	}
	for i := range m.verts.items {
		if !m.v(i).removed {
			m.setFirstToBoundary(i)
		}
	}
}

// OrientFacesToBoundary makes each face's first half-edge one that lies
// on the boundary, where the face has one.
func (m *Mesh[V, E, F]) OrientFacesToBoundary() {
	for i := range m.faces.items {
		if !m.f(i).removed {
			m.setFaceFirstToBoundary(i)
		}
	}
}

// OrientFacesToMin makes each face's first half-edge the one starting at
// its lowest-indexed vertex.
func (m *Mesh[V, E, F]) OrientFacesToMin() {
	for i := range m.faces.items {
		fc := m.f(i)
		if fc.removed {
			continue
		}
		best := fc.first
		for he := range m.Loop(fc.first) {
			if m.h(he).start < m.h(best).start {
				best = he
			}
		}
		fc.first = best
	}
}

// TriangulateFaces triangulates every face present when it is called.
func (m *Mesh[V, E, F]) TriangulateFaces(t Triangulator) {
	if t == nil {
		panic(usageError("triangulator", 0, ErrInvalidArgument))
	}
	nf := m.faces.Count()
	for i := range nf {
		if !m.f(i).removed {
			t.Triangulate(i)
		}
	}
}

// QuadrangulateFaces splits every face present when it is called into
// quads, leaving a triangle for odd degrees.
func (m *Mesh[V, E, F]) QuadrangulateFaces(q Quadrangulator) {
	if q == nil {
		panic(usageError("quadrangulator", 0, ErrInvalidArgument))
	}
	nf := m.faces.Count()
	for i := range nf {
		if !m.f(i).removed {
			q.Quadrangulate(i)
		}
	}
}

// UnifyFaceOrientationQuad walks each connected patch of quads across
// opposite edges and sets every face's first half-edge so that first
// half-edges run parallel through the patch. With flip the walk starts
// from the second half-edge of each seed face.
func (m *Mesh[V, E, F]) UnifyFaceOrientationQuad(flip bool) {
	tag := m.faces.NextTag()
	var stack []int

	for i := range m.faces.items {
		fc := m.f(i)
		if fc.removed || fc.tag == tag {
			continue
		}
		fc.tag = tag
		if flip {
			stack = append(stack, m.h(fc.first).next)
		} else {
			stack = append(stack, fc.first)
		}

		for len(stack) > 0 {
			he0 := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			m.f(m.h(he0).face).first = he0

			adjacent := [4]int{
				m.h(m.NextAtStart(he0)).next,
				m.PrevAtStart(m.h(he0).prev),
				m.h(m.PrevAtStart(he0)).prev,
				m.NextAtStart(m.h(he0).next),
			}
			for _, he1 := range adjacent {
				f1 := m.h(he1).face
				if f1 == None || m.f(f1).tag == tag {
					continue
				}
				m.f(f1).tag = tag
				stack = append(stack, he1)
			}
		}
	}
}
