package hemesh

// Append copies the elements of other onto the end of m, payloads
// included. other may be m itself.
func (m *Mesh[V, E, F]) Append(other *Mesh[V, E, F]) {
	AppendFrom(m, other,
		func(dst *V, src V) { *dst = src },
		func(dst *E, src E) { *dst = src },
		func(dst *F, src F) { *dst = src })
}

// AppendFrom copies the topology of src onto the end of dst. The setter
// callbacks, any of which may be nil, transfer payloads from each source
// element to its copy. Removed source elements are copied as removed.
func AppendFrom[V, E, F, SV, SE, SF any](
	dst *Mesh[V, E, F],
	src *Mesh[SV, SE, SF],
	setVertex func(*V, SV),
	setHalfedge func(*E, SE),
	setFace func(*F, SF),
) {
	if dst == nil || src == nil {
		panic(usageError("mesh", 0, ErrInvalidArgument))
	}

	nv, nh, nf := dst.verts.Count(), dst.hedges.Count(), dst.faces.Count()
	// cached in case src == dst
	nvs, nhs, nfs := src.verts.Count(), src.hedges.Count(), src.faces.Count()

	for i := range nvs {
		sv := src.verts.items[i]
		v := dst.AddVertex()
		if setVertex != nil {
			setVertex(&dst.verts.items[v].Data, sv.Data)
		}
		if sv.removed {
			dst.makeVertexUnused(v)
			continue
		}
		dst.v(v).first = offset(sv.first, nh)
	}

	for i := 0; i < nhs; i += 2 {
		dst.addEdge()
	}
	for i := range nhs {
		sh := src.hedges.items[i]
		h := dst.h(i + nh)
		if setHalfedge != nil {
			setHalfedge(&h.Data, sh.Data)
		}
		if sh.removed {
			h.removed = true
			continue
		}
		h.start = offset(sh.start, nv)
		h.next = offset(sh.next, nh)
		h.prev = offset(sh.prev, nh)
		h.face = offset(sh.face, nf)
	}

	for i := range nfs {
		sf := src.faces.items[i]
		f := dst.addFace()
		if setFace != nil {
			setFace(&dst.faces.items[f].Data, sf.Data)
		}
		if sf.removed {
			dst.makeFaceUnused(f)
			continue
		}
		dst.f(f).first = offset(sf.first, nh)
	}
}

func offset(i, n int) int {
	if i == None {
		return None
	}
	return i + n
}

// AppendDual appends the dual of src onto the end of dst. Each used face
// of src becomes a vertex and each interior vertex of src becomes a face;
// boundary vertices produce no face. Boundary edges of src, and edges
// whose ends both lie on the boundary, have no dual. Degree-2 faces
// created along the boundary are merged away.
//
// setVertex receives the primal face of each dual vertex, and setFace the
// primal vertex of each dual face.
func AppendDual[V, E, F, SV, SE, SF any](
	dst *Mesh[V, E, F],
	src *Mesh[SV, SE, SF],
	setVertex func(*V, SF),
	setHalfedge func(*E, SE),
	setFace func(*F, SV),
) {
	if dst == nil || src == nil {
		panic(usageError("mesh", 0, ErrInvalidArgument))
	}

	nv, nh, nf := dst.verts.Count(), dst.hedges.Count(), dst.faces.Count()
	nvs, nhs, nfs := src.verts.Count(), src.hedges.Count(), src.faces.Count()

	for range nfs {
		dst.AddVertex()
	}
	for range nvs {
		dst.addFace()
	}

	// each dual half-edge starts at the dual vertex of its primal face
	for i := 0; i < nhs; i += 2 {
		he0 := dst.addEdge()
		sh0 := &src.hedges.items[i]
		sh1 := &src.hedges.items[i+1]
		if sh0.removed || sh0.face == None || sh1.face == None {
			dst.makeEdgeUnused(he0)
			continue
		}

		b0 := src.IsBoundaryVertex(sh0.start)
		b1 := src.IsBoundaryVertex(sh1.start)
		if b0 && b1 {
			dst.makeEdgeUnused(he0)
			continue
		}

		he1 := he0 ^ 1
		dst.h(he0).start = sh0.face + nv
		dst.h(he1).start = sh1.face + nv
		if !b0 {
			dst.h(he1).face = sh0.start + nf
		}
		if !b1 {
			dst.h(he0).face = sh1.start + nf
		}
	}

	for i := range nhs {
		he0 := i + nh
		if setHalfedge != nil {
			setHalfedge(&dst.h(he0).Data, src.hedges.items[i].Data)
		}
		if dst.h(he0).removed {
			continue
		}

		// skip forward around the primal face to the next valid dual edge
		sh := src.hedges.items[i].next
		for dst.h(sh + nh).removed {
			sh = src.hedges.items[sh].next
		}
		dst.makeConsecutive((sh+nh)^1, he0)
	}

	for i := range nvs {
		f := i + nf
		sv := src.verts.items[i]
		if setFace != nil {
			setFace(&dst.f(f).Data, sv.Data)
		}
		if sv.removed || sv.first == None || src.IsBoundaryVertex(i) {
			dst.makeFaceUnused(f)
			continue
		}
		dst.f(f).first = (sv.first ^ 1) + nh
	}

	for i := range nfs {
		v := i + nv
		sf := src.faces.items[i]
		if setVertex != nil {
			setVertex(&dst.v(v).Data, sf.Data)
		}
		if sf.removed {
			dst.makeVertexUnused(v)
			continue
		}

		sh := sf.first
		for dst.h(sh + nh).removed {
			sh = src.hedges.items[sh].next
			if sh == sf.first {
				break
			}
		}
		if dst.h(sh + nh).removed {
			dst.makeVertexUnused(v)
			continue
		}
		dst.v(v).first = sh + nh
		dst.setFirstToBoundary(v)
	}

	for f := nf; f < dst.faces.Count(); f++ {
		fc := dst.f(f)
		if !fc.removed && dst.isInDegree2(fc.first) {
			dst.cleanupDegree2Face(fc.first)
		}
	}
}
