package hemesh

import "fmt"

// ValidationSeverity indicates whether a finding breaks the structure or
// is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // broken structure
	SeverityWarning                           // valid but unusual
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Element  string // "vertex", "halfedge" or "face"
	Index    int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s %d: %s", e.Severity, e.Element, e.Index, e.Message)
}

// Validate checks every structural invariant of the mesh and returns the
// findings. An empty slice means the mesh is consistent. Validate only
// reads the mesh.
func (m *Mesh[V, E, F]) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, m.validateHalfedges()...)
	if len(errs) > 0 {
		// vertex and face checks walk links that are already known bad
		return errs
	}
	errs = append(errs, m.validateVertices()...)
	errs = append(errs, m.validateFaces()...)
	return errs
}

// Errors filters findings down to those with SeverityError.
func Errors(findings []ValidationError) []ValidationError {
	var errs []ValidationError
	for _, e := range findings {
		if e.Severity == SeverityError {
			errs = append(errs, e)
		}
	}
	return errs
}

func (m *Mesh[V, E, F]) validateHalfedges() []ValidationError {
	var errs []ValidationError
	bad := func(i int, format string, args ...any) {
		errs = append(errs, ValidationError{
			Element:  "halfedge",
			Index:    i,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	if len(m.hedges.items)&1 != 0 {
		bad(len(m.hedges.items)-1, "half-edge without a twin")
		return errs
	}

	for i := range m.hedges.items {
		h := m.h(i)
		if h.removed != m.h(i^1).removed {
			bad(i, "twin %d has different removed flag", i^1)
			continue
		}
		if h.removed {
			continue
		}
		if !m.verts.Owns(h.start) || m.v(h.start).removed {
			bad(i, "start %d is not a used vertex", h.start)
		} else if m.v(h.start).first == None {
			bad(i, "start %d is marked isolated", h.start)
		}
		if h.face != None && (!m.faces.Owns(h.face) || m.f(h.face).removed) {
			bad(i, "face %d is not a used face", h.face)
		}
		if !m.hedges.Owns(h.next) || m.h(h.next).removed {
			bad(i, "next %d is not a used half-edge", h.next)
			continue
		}
		if !m.hedges.Owns(h.prev) || m.h(h.prev).removed {
			bad(i, "prev %d is not a used half-edge", h.prev)
			continue
		}
		if m.h(h.next).prev != i {
			bad(i, "next %d does not link back", h.next)
		}
		if m.h(h.next).start != m.h(i^1).start {
			bad(i, "next %d does not start at the end vertex", h.next)
		}
		if m.h(h.next).face != h.face {
			bad(i, "next %d lies in face %d, not %d", h.next, m.h(h.next).face, h.face)
		}
	}
	return errs
}

func (m *Mesh[V, E, F]) validateVertices() []ValidationError {
	var errs []ValidationError
	for i := range m.verts.items {
		vx := m.v(i)
		if vx.removed || vx.first == None {
			continue
		}
		if !m.hedges.Owns(vx.first) || m.h(vx.first).removed {
			errs = append(errs, ValidationError{"vertex", i,
				fmt.Sprintf("first %d is not a used half-edge", vx.first), SeverityError})
			continue
		}
		if m.h(vx.first).start != i {
			errs = append(errs, ValidationError{"vertex", i,
				fmt.Sprintf("first %d starts at vertex %d", vx.first, m.h(vx.first).start), SeverityError})
			continue
		}

		holes, n := 0, 0
		for he := range m.CirculateStart(vx.first) {
			if m.h(he).start != i {
				errs = append(errs, ValidationError{"vertex", i,
					fmt.Sprintf("outgoing half-edge %d starts at vertex %d", he, m.h(he).start), SeverityError})
				break
			}
			if m.h(he).face == None {
				holes++
			}
			if n++; n > len(m.hedges.items) {
				errs = append(errs, ValidationError{"vertex", i, "outgoing fan does not close", SeverityError})
				break
			}
		}
		if holes > 0 && m.h(vx.first).face != None {
			errs = append(errs, ValidationError{"vertex", i,
				"boundary vertex does not store a boundary half-edge", SeverityError})
		}
		if holes > 1 {
			errs = append(errs, ValidationError{"vertex", i,
				fmt.Sprintf("non-manifold: %d boundary gaps", holes), SeverityWarning})
		}
	}
	return errs
}

func (m *Mesh[V, E, F]) validateFaces() []ValidationError {
	var errs []ValidationError
	for i := range m.faces.items {
		fc := m.f(i)
		if fc.removed {
			continue
		}
		if !m.hedges.Owns(fc.first) || m.h(fc.first).removed {
			errs = append(errs, ValidationError{"face", i,
				fmt.Sprintf("first %d is not a used half-edge", fc.first), SeverityError})
			continue
		}
		if m.h(fc.first).face != i {
			errs = append(errs, ValidationError{"face", i,
				fmt.Sprintf("first %d belongs to face %d", fc.first, m.h(fc.first).face), SeverityError})
			continue
		}
		if n := m.FaceDegree(i); n < 3 {
			errs = append(errs, ValidationError{"face", i,
				fmt.Sprintf("degenerate face of degree %d", n), SeverityError})
		}
	}
	return errs
}
