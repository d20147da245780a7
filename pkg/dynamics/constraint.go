package dynamics

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Constraint proposes moves for a set of bodies.
//
// Calculate only reads bodies and writes the constraint's own handles, so
// the solver may run it for many constraints at once. Apply hands the
// proposals to the bodies and always runs sequentially.
type Constraint interface {
	Calculate(bodies []Body)
	Apply(bodies []Body)
	Handles() []Handle
}

// ClosestPointer answers closest-point queries against some target
// geometry.
type ClosestPointer interface {
	ClosestPoint(p v3.Vec) v3.Vec
}

// ClosestPointFunc adapts a function to ClosestPointer.
type ClosestPointFunc func(p v3.Vec) v3.Vec

func (f ClosestPointFunc) ClosestPoint(p v3.Vec) v3.Vec { return f(p) }

// Coincident pulls its bodies to their common centroid.
type Coincident struct {
	Weight  float64
	handles []ParticleHandle
}

// NewCoincident returns a Coincident over the bodies at indices.
func NewCoincident(indices []int, weight float64) *Coincident {
	return &Coincident{Weight: weight, handles: particleHandles(indices)}
}

func (c *Coincident) Calculate(bodies []Body) {
	if len(c.handles) == 0 {
		return
	}
	var mean v3.Vec
	for i := range c.handles {
		mean = mean.Add(bodies[c.handles[i].Index].Position())
	}
	mean = mean.DivScalar(float64(len(c.handles)))
	for i := range c.handles {
		h := &c.handles[i]
		h.Delta = mean.Sub(bodies[h.Index].Position())
	}
}

func (c *Coincident) Apply(bodies []Body) { applyMoves(bodies, c.handles, c.Weight) }

func (c *Coincident) Handles() []Handle { return handleList(c.handles) }

// InsideBounds keeps one body inside an axis-aligned box. A body already
// inside proposes no move.
type InsideBounds struct {
	Bounds sdf.Box3
	Weight float64
	handle ParticleHandle
	apply  bool
}

func NewInsideBounds(index int, bounds sdf.Box3, weight float64) *InsideBounds {
	return &InsideBounds{Bounds: bounds, Weight: weight, handle: ParticleHandle{Index: index}}
}

func (c *InsideBounds) Calculate(bodies []Body) {
	p := bodies[c.handle.Index].Position()
	q := clampBox(p, c.Bounds)
	c.apply = q != p
	c.handle.Delta = q.Sub(p)
}

func (c *InsideBounds) Apply(bodies []Body) {
	if c.apply {
		bodies[c.handle.Index].ApplyMove(c.handle.Delta, c.Weight)
	}
}

func (c *InsideBounds) Handles() []Handle { return []Handle{&c.handle} }

func clampBox(p v3.Vec, b sdf.Box3) v3.Vec {
	return v3.Vec{
		X: math.Min(math.Max(p.X, b.Min.X), b.Max.X),
		Y: math.Min(math.Max(p.Y, b.Min.Y), b.Max.Y),
		Z: math.Min(math.Max(p.Z, b.Min.Z), b.Max.Z),
	}
}

// OnPlane projects one body onto the plane through Origin with the given
// Normal. Normal need not be unit length.
type OnPlane struct {
	Origin v3.Vec
	Normal v3.Vec
	Weight float64
	handle ParticleHandle
}

func NewOnPlane(index int, origin, normal v3.Vec, weight float64) *OnPlane {
	return &OnPlane{Origin: origin, Normal: normal, Weight: weight, handle: ParticleHandle{Index: index}}
}

func (c *OnPlane) Calculate(bodies []Body) {
	d := c.Origin.Sub(bodies[c.handle.Index].Position())
	n2 := c.Normal.Length2()
	if n2 == 0 {
		c.handle.Delta = v3.Vec{}
		return
	}
	c.handle.Delta = c.Normal.MulScalar(d.Dot(c.Normal) / n2)
}

func (c *OnPlane) Apply(bodies []Body) {
	bodies[c.handle.Index].ApplyMove(c.handle.Delta, c.Weight)
}

func (c *OnPlane) Handles() []Handle { return []Handle{&c.handle} }

// OnTarget pulls one body to the closest point of a target.
type OnTarget struct {
	Target ClosestPointer
	Weight float64
	handle ParticleHandle
}

func NewOnTarget(index int, target ClosestPointer, weight float64) *OnTarget {
	return &OnTarget{Target: target, Weight: weight, handle: ParticleHandle{Index: index}}
}

func (c *OnTarget) Calculate(bodies []Body) {
	p := bodies[c.handle.Index].Position()
	c.handle.Delta = c.Target.ClosestPoint(p).Sub(p)
}

func (c *OnTarget) Apply(bodies []Body) {
	bodies[c.handle.Index].ApplyMove(c.handle.Delta, c.Weight)
}

func (c *OnTarget) Handles() []Handle { return []Handle{&c.handle} }

// PlanarQuad flattens four bodies by moving the diagonals 0-2 and 1-3
// toward each other, each by half their shortest connecting vector.
type PlanarQuad struct {
	Weight  float64
	handles [4]ParticleHandle
}

func NewPlanarQuad(i0, i1, i2, i3 int, weight float64) *PlanarQuad {
	c := &PlanarQuad{Weight: weight}
	for i, idx := range [4]int{i0, i1, i2, i3} {
		c.handles[i].Index = idx
	}
	return c
}

func (c *PlanarQuad) Calculate(bodies []Body) {
	var p [4]v3.Vec
	for i := range p {
		p[i] = bodies[c.handles[i].Index].Position()
	}
	d := lineLineShortestVector(p[0], p[2], p[1], p[3]).MulScalar(0.5)
	c.handles[0].Delta = d
	c.handles[2].Delta = d
	c.handles[1].Delta = d.Neg()
	c.handles[3].Delta = d.Neg()
}

func (c *PlanarQuad) Apply(bodies []Body) { applyMoves(bodies, c.handles[:], c.Weight) }

func (c *PlanarQuad) Handles() []Handle { return handleList(c.handles[:]) }

// lineLineShortestVector returns the shortest vector from the line through
// a0, a1 to the line through b0, b1.
func lineLineShortestVector(a0, a1, b0, b1 v3.Vec) v3.Vec {
	u := a1.Sub(a0)
	v := b1.Sub(b0)
	w := a0.Sub(b0)

	a := u.Dot(u)
	b := u.Dot(v)
	c := v.Dot(v)
	d := u.Dot(w)
	e := v.Dot(w)

	var sc, tc float64
	if det := a*c - b*b; det > 1e-12*a*c {
		sc = (b*e - c*d) / det
		tc = (a*e - b*d) / det
	} else if c > 0 {
		// parallel
		tc = e / c
	}
	return b0.Add(v.MulScalar(tc)).Sub(a0.Add(u.MulScalar(sc)))
}

func applyMoves(bodies []Body, hs []ParticleHandle, weight float64) {
	for i := range hs {
		bodies[hs[i].Index].ApplyMove(hs[i].Delta, weight)
	}
}

var (
	_ Constraint = (*Coincident)(nil)
	_ Constraint = (*InsideBounds)(nil)
	_ Constraint = (*OnPlane)(nil)
	_ Constraint = (*OnTarget)(nil)
	_ Constraint = (*PlanarQuad)(nil)
)
