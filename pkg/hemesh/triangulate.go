package hemesh

// Triangulator splits faces into triangles, either in place or by
// listing the triangles a split would produce.
type Triangulator interface {
	Triangulate(f int)
	Triangles(f int) [][3]int
}

// Quadrangulator splits faces into quads. Odd-degree faces keep one
// triangle, reported by Quads with None as its fourth vertex.
type Quadrangulator interface {
	Quadrangulate(f int)
	Quads(f int) [][4]int
}

// StartFunc picks the half-edge of f that a split pattern starts from.
type StartFunc func(f int) int

// MinStart returns a StartFunc choosing the half-edge of each face with
// the smallest key.
func MinStart[V, E, F any](m *Mesh[V, E, F], key func(he int) float64) StartFunc {
	return func(f int) int {
		best := m.FaceFirst(f)
		bestKey := key(best)
		for he := range m.FaceHalfedges(f) {
			if k := key(he); k < bestKey {
				best, bestKey = he, k
			}
		}
		return best
	}
}

// Fan splits faces into a fan around the start vertex of the chosen
// half-edge.
type Fan[V, E, F any] struct {
	m     *Mesh[V, E, F]
	start StartFunc
}

// NewFan returns a Fan starting from each face's first half-edge.
func NewFan[V, E, F any](m *Mesh[V, E, F]) *Fan[V, E, F] {
	return NewFanFrom(m, m.FaceFirst)
}

// NewFanFrom returns a Fan starting from the half-edge chosen by start.
func NewFanFrom[V, E, F any](m *Mesh[V, E, F], start StartFunc) *Fan[V, E, F] {
	if m == nil || start == nil {
		panic(usageError("fan", 0, ErrInvalidArgument))
	}
	return &Fan[V, E, F]{m: m, start: start}
}

var (
	_ Triangulator   = (*Fan[Empty, Empty, Empty])(nil)
	_ Quadrangulator = (*Fan[Empty, Empty, Empty])(nil)
	_ Triangulator   = (*Strip[Empty, Empty, Empty])(nil)
	_ Quadrangulator = (*Strip[Empty, Empty, Empty])(nil)
)

// Triangles lists the fan triangles of f without modifying the mesh.
func (t *Fan[V, E, F]) Triangles(f int) [][3]int {
	m := t.m
	m.checkFace(f)
	he := t.start(f)
	v0 := m.h(he).start
	he = m.h(he).next
	v1 := m.h(he).start

	var tris [][3]int
	for {
		he = m.h(he).next
		v2 := m.h(he).start
		if v2 == v0 {
			return tris
		}
		tris = append(tris, [3]int{v0, v1, v2})
		v1 = v2
	}
}

// Triangulate splits f into a triangle fan.
func (t *Fan[V, E, F]) Triangulate(f int) {
	m := t.m
	m.checkFace(f)
	he0 := t.start(f)
	he1 := m.h(m.h(he0).next).next
	for m.h(he1).next != he0 {
		he0 = m.splitFace(he0, he1)
		he1 = m.h(he1).next
	}
}

// Quads lists the fan quads of f without modifying the mesh.
func (t *Fan[V, E, F]) Quads(f int) [][4]int {
	m := t.m
	m.checkFace(f)
	he := t.start(f)
	v0 := m.h(he).start
	he = m.h(he).next
	v1 := m.h(he).start

	var quads [][4]int
	for {
		he = m.h(he).next
		v2 := m.h(he).start
		if v2 == v0 {
			return quads
		}
		he = m.h(he).next
		v3 := m.h(he).start
		if v3 == v0 {
			return append(quads, [4]int{v0, v1, v2, None})
		}
		quads = append(quads, [4]int{v0, v1, v2, v3})
		v1 = v3
	}
}

// Quadrangulate splits f into a fan of quads.
func (t *Fan[V, E, F]) Quadrangulate(f int) {
	m := t.m
	m.checkFace(f)
	he0 := t.start(f)
	for m.loopLongerThan(he0, 4) {
		he1 := m.h(m.h(m.h(he0).next).next).next
		he0 = m.splitFace(he0, he1)
	}
}

// Strip splits faces into a zig-zag strip running away from the chosen
// half-edge.
type Strip[V, E, F any] struct {
	m     *Mesh[V, E, F]
	start StartFunc
}

// NewStrip returns a Strip starting from each face's first half-edge.
func NewStrip[V, E, F any](m *Mesh[V, E, F]) *Strip[V, E, F] {
	return NewStripFrom(m, m.FaceFirst)
}

// NewStripFrom returns a Strip starting from the half-edge chosen by
// start.
func NewStripFrom[V, E, F any](m *Mesh[V, E, F], start StartFunc) *Strip[V, E, F] {
	if m == nil || start == nil {
		panic(usageError("strip", 0, ErrInvalidArgument))
	}
	return &Strip[V, E, F]{m: m, start: start}
}

// Triangles lists the strip triangles of f without modifying the mesh.
func (t *Strip[V, E, F]) Triangles(f int) [][3]int {
	m := t.m
	m.checkFace(f)
	he0 := t.start(f)
	v0 := m.h(he0).start
	he1 := m.h(he0).next
	v1 := m.h(he1).start

	var tris [][3]int
	for {
		he1 = m.h(he1).next
		v2 := m.h(he1).start
		if v2 == v0 {
			return tris
		}
		tris = append(tris, [3]int{v0, v1, v2})

		he0 = m.h(he0).prev
		v3 := m.h(he0).start
		if v2 == v3 {
			return tris
		}
		tris = append(tris, [3]int{v0, v2, v3})

		v0, v1 = v3, v2
	}
}

// Triangulate splits f into a triangle strip.
func (t *Strip[V, E, F]) Triangulate(f int) {
	m := t.m
	m.checkFace(f)
	he0 := t.start(f)
	he1 := m.h(m.h(he0).next).next
	for m.h(he1).next != he0 {
		he0 = m.h(m.splitFace(he0, he1)).prev
		if m.h(he1).next == he0 {
			break
		}
		he0 = m.splitFace(he0, he1)
		he1 = m.h(he1).next
	}
}

// Quads lists the strip quads of f without modifying the mesh.
func (t *Strip[V, E, F]) Quads(f int) [][4]int {
	m := t.m
	m.checkFace(f)
	he0 := t.start(f)
	he1 := m.h(he0).next
	v0 := m.h(he0).start
	v1 := m.h(he1).start

	var quads [][4]int
	for {
		he1 = m.h(he1).next
		v2 := m.h(he1).start
		if v2 == v0 {
			return quads
		}
		he0 = m.h(he0).prev
		v3 := m.h(he0).start
		if v3 == v2 {
			return append(quads, [4]int{v0, v1, v2, None})
		}
		quads = append(quads, [4]int{v0, v1, v2, v3})
		v0, v1 = v3, v2
	}
}

// Quadrangulate splits f into a strip of quads.
func (t *Strip[V, E, F]) Quadrangulate(f int) {
	m := t.m
	m.checkFace(f)
	he0 := t.start(f)
	for m.loopLongerThan(he0, 4) {
		he1 := m.h(m.h(he0).next).next
		he0 = m.splitFace(m.h(he0).prev, he1)
	}
}

// loopLongerThan reports whether the loop of he has more than n
// half-edges.
func (m *Mesh[V, E, F]) loopLongerThan(he, n int) bool {
	h := he
	for range n {
		h = m.h(h).next
		if h == he {
			return false
		}
	}
	return true
}
