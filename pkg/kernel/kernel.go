// Package kernel defines the abstract geometry kernel that feeds meshes
// into hedge. Implementations (sdfx) provide solid modeling behind this
// interface so callers can swap backends.
package kernel

import v3 "github.com/deadsy/sdfx/vec/v3"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Queries
	ClosestPoint(s Solid, p v3.Vec) v3.Vec

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// Target adapts a solid to closest-point queries, for use as a
// constraint target.
type Target struct {
	Kernel Kernel
	Solid  Solid
}

// ClosestPoint returns the point on the surface of the solid nearest p.
func (t Target) ClosestPoint(p v3.Vec) v3.Vec {
	return t.Kernel.ClosestPoint(t.Solid, p)
}
