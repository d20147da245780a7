// Package hemesh implements an index-based half-edge mesh.
//
// Vertices, half-edges and faces live in three arenas owned by a Mesh and
// refer to one another by int index; None marks a missing reference.
// Half-edges are allocated in twin pairs at (2k, 2k+1) so the twin of he is
// always he^1. Removing an element only flags it as unused; Compact
// reclaims the slots and returns the tables needed to remap any
// caller-held indices or attribute slices.
//
// Operators panic on usage errors (foreign or stale indices) and report
// topologically infeasible requests through None or false return values.
// A Mesh is not safe for concurrent mutation.
package hemesh

import (
	"fmt"

	"github.com/chazu/hedge"
)

// DefaultCapacity is the initial capacity of each element list.
const DefaultCapacity = 4

// Mesh is a half-edge mesh with per-element payloads.
type Mesh[V, E, F any] struct {
	verts  List[Vertex[V]]
	hedges List[Halfedge[E]]
	faces  List[Face[F]]
}

// New returns an empty mesh.
func New[V, E, F any]() *Mesh[V, E, F] {
	return NewWithCapacity[V, E, F](DefaultCapacity, DefaultCapacity, DefaultCapacity)
}

// NewWithCapacity returns an empty mesh with preallocated element lists.
func NewWithCapacity[V, E, F any](vertexCap, hedgeCap, faceCap int) *Mesh[V, E, F] {
	return &Mesh[V, E, F]{
		verts:  newList[Vertex[V]](vertexCap),
		hedges: newList[Halfedge[E]](hedgeCap),
		faces:  newList[Face[F]](faceCap),
	}
}

// Vertices returns the vertex list.
func (m *Mesh[V, E, F]) Vertices() *List[Vertex[V]] { return &m.verts }

// Halfedges returns the half-edge list.
func (m *Mesh[V, E, F]) Halfedges() *List[Halfedge[E]] { return &m.hedges }

// Faces returns the face list.
func (m *Mesh[V, E, F]) Faces() *List[Face[F]] { return &m.faces }

// EdgeCount returns the number of half-edge pairs, including unused ones.
func (m *Mesh[V, E, F]) EdgeCount() int { return len(m.hedges.items) >> 1 }

// VertexData returns a pointer to the payload of vertex v. The pointer is
// invalidated by any operation that adds vertices.
func (m *Mesh[V, E, F]) VertexData(v int) *V {
	m.ownsVertex(v)
	return &m.verts.items[v].Data
}

// HalfedgeData returns a pointer to the payload of half-edge he.
func (m *Mesh[V, E, F]) HalfedgeData(he int) *E {
	m.ownsHalfedge(he)
	return &m.hedges.items[he].Data
}

// FaceData returns a pointer to the payload of face f.
func (m *Mesh[V, E, F]) FaceData(f int) *F {
	m.ownsFace(f)
	return &m.faces.items[f].Data
}

// String implements fmt.Stringer.
func (m *Mesh[V, E, F]) String() string {
	return fmt.Sprintf("hemesh (V:%d E:%d F:%d)", m.verts.Count(), m.EdgeCount(), m.faces.Count())
}

// ---------------------------------------------------------------------------
// Ownership and usage checks
// ---------------------------------------------------------------------------

func (m *Mesh[V, E, F]) ownsVertex(v int) {
	if !m.verts.Owns(v) {
		panic(usageError("vertex", v, ErrNotOwned))
	}
}

func (m *Mesh[V, E, F]) ownsHalfedge(he int) {
	if !m.hedges.Owns(he) {
		panic(usageError("halfedge", he, ErrNotOwned))
	}
}

func (m *Mesh[V, E, F]) ownsFace(f int) {
	if !m.faces.Owns(f) {
		panic(usageError("face", f, ErrNotOwned))
	}
}

func (m *Mesh[V, E, F]) checkVertex(v int) {
	m.ownsVertex(v)
	if m.verts.items[v].removed {
		panic(usageError("vertex", v, ErrUnused))
	}
}

func (m *Mesh[V, E, F]) checkHalfedge(he int) {
	m.ownsHalfedge(he)
	if m.hedges.items[he].removed {
		panic(usageError("halfedge", he, ErrUnused))
	}
}

func (m *Mesh[V, E, F]) checkFace(f int) {
	m.ownsFace(f)
	if m.faces.items[f].removed {
		panic(usageError("face", f, ErrUnused))
	}
}

// ---------------------------------------------------------------------------
// Raw record access
// ---------------------------------------------------------------------------

func (m *Mesh[V, E, F]) v(i int) *Vertex[V]   { return &m.verts.items[i] }
func (m *Mesh[V, E, F]) h(i int) *Halfedge[E] { return &m.hedges.items[i] }
func (m *Mesh[V, E, F]) f(i int) *Face[F]     { return &m.faces.items[i] }

// ---------------------------------------------------------------------------
// Element creation and removal
// ---------------------------------------------------------------------------

// AddVertex appends an isolated vertex and returns its index.
func (m *Mesh[V, E, F]) AddVertex() int {
	return m.verts.add(Vertex[V]{first: None})
}

// AddVertices appends n isolated vertices and returns the index of the
// first one.
func (m *Mesh[V, E, F]) AddVertices(n int) int {
	first := m.verts.Count()
	for range n {
		m.AddVertex()
	}
	return first
}

// addEdge appends an unlinked half-edge pair and returns the even index.
func (m *Mesh[V, E, F]) addEdge() int {
	he := m.hedges.add(Halfedge[E]{start: None, face: None, next: None, prev: None})
	m.hedges.add(Halfedge[E]{start: None, face: None, next: None, prev: None})
	return he
}

// addEdgeBetween appends a pair and returns the half-edge from v0 to v1.
// Next and Prev are left as None for the caller to link.
func (m *Mesh[V, E, F]) addEdgeBetween(v0, v1 int) int {
	he := m.addEdge()
	m.h(he).start = v0
	m.h(he ^ 1).start = v1
	return he
}

func (m *Mesh[V, E, F]) addFace() int {
	return m.faces.add(Face[F]{first: None})
}

func (m *Mesh[V, E, F]) makeVertexUnused(v int) {
	vx := m.v(v)
	vx.first = None
	vx.removed = true
}

// makeEdgeUnused flags both half-edges of a pair. Links are left in place
// so loops that are still being walked can step off a removed half-edge.
func (m *Mesh[V, E, F]) makeEdgeUnused(he int) {
	m.h(he).removed = true
	m.h(he ^ 1).removed = true
}

func (m *Mesh[V, E, F]) makeFaceUnused(f int) {
	fc := m.f(f)
	fc.first = None
	fc.removed = true
}

// makeConsecutive links a -> b.
func (m *Mesh[V, E, F]) makeConsecutive(a, b int) {
	m.h(a).next = b
	m.h(b).prev = a
}

// bypass unlinks he from the fan around its start vertex. If he was the
// only outgoing half-edge the vertex is removed.
func (m *Mesh[V, E, F]) bypass(he int) {
	v := m.h(he).start
	if m.isAtDegree1(he) {
		m.makeVertexUnused(v)
		return
	}
	he1 := m.NextAtStart(he)
	m.makeConsecutive(m.h(he).prev, he1)
	if m.v(v).first == he {
		m.v(v).first = he1
	}
}

// removeEdge detaches the pair containing he and flags it for removal.
// Face references are not updated.
func (m *Mesh[V, E, F]) removeEdge(he int) {
	m.bypass(he)
	m.bypass(he ^ 1)
	m.makeEdgeUnused(he)
}

// ---------------------------------------------------------------------------
// Maintenance
// ---------------------------------------------------------------------------

// Remap holds old-to-new index tables produced by Compact. Removed
// elements map to None.
type Remap struct {
	Vertices  []int
	Halfedges []int
	Faces     []int
}

// Compact removes every unused element and renumbers the survivors
// contiguously, preserving their relative order. Indices held outside the
// mesh must be translated with the returned tables.
func (m *Mesh[V, E, F]) Compact() Remap {
	r := Remap{
		Vertices:  m.verts.compact(),
		Halfedges: m.hedges.compact(),
		Faces:     m.faces.compact(),
	}

	for i := range m.verts.items {
		vx := &m.verts.items[i]
		vx.first = remapIndex(r.Halfedges, vx.first)
	}
	for i := range m.hedges.items {
		he := &m.hedges.items[i]
		he.start = remapIndex(r.Vertices, he.start)
		he.next = remapIndex(r.Halfedges, he.next)
		he.prev = remapIndex(r.Halfedges, he.prev)
		he.face = remapIndex(r.Faces, he.face)
	}
	for i := range m.faces.items {
		fc := &m.faces.items[i]
		fc.first = remapIndex(r.Halfedges, fc.first)
	}

	hedge.Logger().Debug("hemesh: compacted",
		"vertices", m.verts.Count(),
		"edges", m.EdgeCount(),
		"faces", m.faces.Count())
	return r
}

func remapIndex(table []int, i int) int {
	if i == None {
		return None
	}
	return table[i]
}

// TrimExcess releases unused capacity in every element list.
func (m *Mesh[V, E, F]) TrimExcess() {
	m.verts.trimExcess()
	m.hedges.trimExcess()
	m.faces.trimExcess()
}
