// Package tessellate converts between the flat kernel.Mesh interchange
// format and hedge half-edge meshes, and turns kernel solids into welded
// half-edge meshes.
package tessellate

import (
	"fmt"

	"github.com/chazu/hedge"
	"github.com/chazu/hedge/internal/config"
	"github.com/chazu/hedge/pkg/hemesh"
	"github.com/chazu/hedge/pkg/kernel"
)

// Policy selects how ToMesh splits faces with more than four sides.
type Policy int

const (
	TriangulateFan Policy = iota
	TriangulateStrip
	QuadrangulateFan
	QuadrangulateStrip
)

var policyNames = map[Policy]string{
	TriangulateFan:     "triangulate-fan",
	TriangulateStrip:   "triangulate-strip",
	QuadrangulateFan:   "quadrangulate-fan",
	QuadrangulateStrip: "quadrangulate-strip",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps the names returned by Policy.String back to values.
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("tessellate: unknown policy %q", s)
}

// Options control Tessellate.
type Options struct {
	// WeldTolerance is the distance under which soup vertices are merged.
	WeldTolerance float64
	// Policy is kept for the reverse trip through ToMesh.
	Policy Policy
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	o, _ := OptionsFromConfig(config.Default().Tessellate)
	return o
}

// OptionsFromConfig copies tessellation settings out of a loaded config.
func OptionsFromConfig(c config.TessellateConfig) (Options, error) {
	p, err := ParsePolicy(c.Policy)
	if err != nil {
		return Options{}, err
	}
	return Options{WeldTolerance: c.WeldTolerance, Policy: p}, nil
}

// Tessellate renders a solid with the kernel, welds the triangle soup and
// builds a half-edge mesh from it. Triangles that would make the mesh
// non-manifold are dropped and logged.
func Tessellate(k kernel.Kernel, s kernel.Solid, opts Options) (*hemesh.PolyMesh, error) {
	soup, err := k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed: %w", err)
	}
	welded, err := Weld(soup, opts.WeldTolerance)
	if err != nil {
		return nil, err
	}
	m, skipped, err := FromMesh(welded)
	if err != nil {
		return nil, err
	}

	hedge.Logger().Debug("tessellate: solid",
		"triangles", soup.TriangleCount(),
		"vertices", m.Vertices().CountUsed(),
		"faces", m.Faces().CountUsed(),
		"skipped", skipped)
	return m, nil
}
