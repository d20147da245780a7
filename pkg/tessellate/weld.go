package tessellate

import (
	"fmt"

	"github.com/chazu/hedge"
	"github.com/chazu/hedge/pkg/kernel"
	"github.com/dhconnelly/rtreego"
	"github.com/samber/lo"
)

// weldPoint is a welded vertex stored in the r-tree.
type weldPoint struct {
	index uint32
	p     rtreego.Point
	rect  rtreego.Rect
}

func (w *weldPoint) Bounds() rtreego.Rect { return w.rect }

func distance2(a, b rtreego.Point) float64 {
	d := 0.0
	for i := range a {
		d += (a[i] - b[i]) * (a[i] - b[i])
	}
	return d
}

// Weld merges vertices of km closer than tol to each other. Each vertex is
// merged into the earliest kept vertex within tol and keeps that vertex's
// attributes. Faces that collapse to repeated indices are dropped. km is
// not modified.
func Weld(km *kernel.Mesh, tol float64) (*kernel.Mesh, error) {
	if !(tol > 0) {
		return nil, fmt.Errorf("tessellate: weld tolerance %g must be positive", tol)
	}
	if err := km.Validate(); err != nil {
		return nil, fmt.Errorf("tessellate: invalid mesh: %w", err)
	}

	out := &kernel.Mesh{Name: km.Name}
	tree := rtreego.NewTree(3, 25, 50)
	remap := make([]uint32, km.VertexCount())
	tol2 := tol * tol

	for i := range remap {
		p := rtreego.Point{
			float64(km.Vertices[3*i]),
			float64(km.Vertices[3*i+1]),
			float64(km.Vertices[3*i+2]),
		}

		var match *weldPoint
		for _, s := range tree.SearchIntersect(p.ToRect(tol)) {
			w := s.(*weldPoint)
			if distance2(w.p, p) <= tol2 && (match == nil || w.index < match.index) {
				match = w
			}
		}
		if match != nil {
			remap[i] = match.index
			continue
		}

		w := &weldPoint{index: uint32(out.VertexCount()), p: p, rect: p.ToRect(tol)}
		tree.Insert(w)
		remap[i] = w.index
		out.Vertices = append(out.Vertices, km.Vertices[3*i:3*i+3]...)
		if km.Normals != nil {
			out.Normals = append(out.Normals, km.Normals[3*i:3*i+3]...)
		}
		if km.Colors != nil {
			out.Colors = append(out.Colors, km.Colors[4*i:4*i+4]...)
		}
		if km.UVs != nil {
			out.UVs = append(out.UVs, km.UVs[2*i:2*i+2]...)
		}
	}

	dropped := 0
	weldFaces := func(faces []uint32, n int) []uint32 {
		var kept []uint32
		for i := 0; i < len(faces); i += n {
			f := lo.Map(faces[i:i+n], func(v uint32, _ int) uint32 { return remap[v] })
			if len(lo.Uniq(f)) < n {
				dropped++
				continue
			}
			kept = append(kept, f...)
		}
		return kept
	}
	out.Triangles = weldFaces(km.Triangles, 3)
	out.Quads = weldFaces(km.Quads, 4)

	hedge.Logger().Debug("tessellate: weld",
		"vertices", km.VertexCount(),
		"welded", out.VertexCount(),
		"dropped", dropped)
	return out, nil
}
