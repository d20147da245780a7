package hemesh

import v3 "github.com/deadsy/sdfx/vec/v3"

// Vertex is a mesh vertex record. First is one outgoing half-edge, or None
// while the vertex is isolated. For a boundary vertex First is always a
// boundary half-edge.
type Vertex[V any] struct {
	first   int
	tag     int
	removed bool
	Data    V
}

// First returns the vertex's outgoing half-edge.
func (v Vertex[V]) First() int { return v.first }

// Tag returns the last visit stamp written to the vertex.
func (v Vertex[V]) Tag() int { return v.tag }

// IsUnused reports whether the vertex has been removed.
func (v Vertex[V]) IsUnused() bool { return v.removed }

// Halfedge is one directed side of an edge. Its twin lives at the index
// obtained by flipping the lowest bit.
type Halfedge[E any] struct {
	start   int
	face    int
	next    int
	prev    int
	tag     int
	removed bool
	Data    E
}

func (h Halfedge[E]) Start() int     { return h.start }
func (h Halfedge[E]) Face() int      { return h.face }
func (h Halfedge[E]) Next() int      { return h.next }
func (h Halfedge[E]) Prev() int      { return h.prev }
func (h Halfedge[E]) Tag() int       { return h.tag }
func (h Halfedge[E]) IsUnused() bool { return h.removed }

// Face is a mesh face record. First is one half-edge of its loop.
type Face[F any] struct {
	first   int
	tag     int
	removed bool
	Data    F
}

func (f Face[F]) First() int     { return f.first }
func (f Face[F]) Tag() int       { return f.tag }
func (f Face[F]) IsUnused() bool { return f.removed }

// Empty is the payload for elements that carry no data.
type Empty struct{}

// Point is the vertex payload of a PolyMesh. Normal, UV and Color are
// optional streams; the zero value means "not set".
type Point struct {
	Position v3.Vec     `json:"position"`
	Normal   v3.Vec     `json:"normal"`
	UV       [2]float64 `json:"uv"`
	Color    [4]float32 `json:"color"`
}

// PolyMesh is a half-edge mesh carrying per-vertex geometry.
type PolyMesh = Mesh[Point, Empty, Empty]

// Topology is a half-edge mesh without payloads.
type Topology = Mesh[Empty, Empty, Empty]

// NewPolyMesh returns an empty PolyMesh.
func NewPolyMesh() *PolyMesh { return New[Point, Empty, Empty]() }
