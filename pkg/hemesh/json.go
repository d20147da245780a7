package hemesh

import (
	"encoding/json"
	"errors"
	"fmt"
)

type vertexJSON[V any] struct {
	First   int  `json:"first"`
	Removed bool `json:"removed,omitempty"`
	Data    V    `json:"data"`
}

type halfedgeJSON[E any] struct {
	Start   int  `json:"start"`
	Face    int  `json:"face"`
	Next    int  `json:"next"`
	Prev    int  `json:"prev"`
	Removed bool `json:"removed,omitempty"`
	Data    E    `json:"data"`
}

type faceJSON[F any] struct {
	First   int  `json:"first"`
	Removed bool `json:"removed,omitempty"`
	Data    F    `json:"data"`
}

type meshJSON[V, E, F any] struct {
	Vertices  []vertexJSON[V]   `json:"vertices"`
	Halfedges []halfedgeJSON[E] `json:"halfedges"`
	Faces     []faceJSON[F]     `json:"faces"`
}

// MarshalJSON encodes the raw element arenas, removed slots included.
func (m *Mesh[V, E, F]) MarshalJSON() ([]byte, error) {
	out := meshJSON[V, E, F]{
		Vertices:  make([]vertexJSON[V], len(m.verts.items)),
		Halfedges: make([]halfedgeJSON[E], len(m.hedges.items)),
		Faces:     make([]faceJSON[F], len(m.faces.items)),
	}
	for i, v := range m.verts.items {
		out.Vertices[i] = vertexJSON[V]{First: v.first, Removed: v.removed, Data: v.Data}
	}
	for i, h := range m.hedges.items {
		out.Halfedges[i] = halfedgeJSON[E]{
			Start: h.start, Face: h.face, Next: h.next, Prev: h.prev,
			Removed: h.removed, Data: h.Data,
		}
	}
	for i, f := range m.faces.items {
		out.Faces[i] = faceJSON[F]{First: f.first, Removed: f.removed, Data: f.Data}
	}
	return json.Marshal(out)
}

// UnmarshalJSON replaces m with the decoded arenas. The result is
// validated and m is left unchanged if any structural error is found.
func (m *Mesh[V, E, F]) UnmarshalJSON(data []byte) error {
	var in meshJSON[V, E, F]
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("hemesh: unmarshal: %w", err)
	}

	tmp := NewWithCapacity[V, E, F](len(in.Vertices), len(in.Halfedges), len(in.Faces))
	for _, v := range in.Vertices {
		tmp.verts.add(Vertex[V]{first: v.First, removed: v.Removed, Data: v.Data})
	}
	for _, h := range in.Halfedges {
		tmp.hedges.add(Halfedge[E]{
			start: h.Start, face: h.Face, next: h.Next, prev: h.Prev,
			removed: h.Removed, Data: h.Data,
		})
	}
	for _, f := range in.Faces {
		tmp.faces.add(Face[F]{first: f.First, removed: f.Removed, Data: f.Data})
	}

	if errs := Errors(tmp.Validate()); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return fmt.Errorf("hemesh: unmarshal: %w", errors.Join(joined...))
	}

	*m = *tmp
	return nil
}
