package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/hedge"
	"github.com/chazu/hedge/pkg/dynamics"
	"github.com/chazu/hedge/pkg/hemesh"
	"github.com/chazu/hedge/pkg/hemesh/subdiv"
	"github.com/chazu/hedge/pkg/kernel"
	"github.com/chazu/hedge/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid wraps a kernel solid so it can be passed between the solid
// builtins and consumed by solid-mesh and shrink-wrap.
type sexpSolid struct {
	solid kernel.Solid
	op    string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	b0, b1 := s.solid.BoundingBox()
	return fmt.Sprintf("(solid %s [%.2f %.2f %.2f]..[%.2f %.2f %.2f])", s.op, b0[0], b0[1], b0[2], b1[0], b1[1], b1[2])
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// toSolid extracts a kernel solid from a Sexp.
func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// trailing keyword is a flag
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// leadingMode strips a leading keyword naming one of modes from args. It
// returns def when args does not start with a keyword.
func leadingMode(args []zygo.Sexp, def string, modes ...string) (string, []zygo.Sexp, error) {
	if len(args) == 0 {
		return def, args, nil
	}
	name, ok := isKW(args[0])
	if !ok {
		return def, args, nil
	}
	if !lo.Contains(modes, name) {
		// an option keyword such as :steps, not a mode
		if len(args) > 1 {
			return def, args, nil
		}
		return "", nil, fmt.Errorf("unknown mode :%s, expected one of %s", name, strings.Join(modes, ", "))
	}
	return name, args[1:], nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean. A bare trailing keyword counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_free) and plain strings ("free").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// flattenInts reads integers from args, expanding a single list or array
// argument.
func flattenInts(args []zygo.Sexp) ([]int, error) {
	if len(args) == 1 {
		if items, err := sexpListToSlice(args[0]); err == nil {
			args = items
		}
	}
	out := make([]int, len(args))
	for i, a := range args {
		n, err := toInt(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

// optInt returns the integer keyword argument name, or def if it is absent.
func optInt(pa kwArgs, name string, def int) (int, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf(":%s: %w", name, err)
	}
	return n, nil
}

// optFloat returns the numeric keyword argument name, or def if it is absent.
func optFloat(pa kwArgs, name string, def float64) (float64, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf(":%s: %w", name, err)
	}
	return f, nil
}

func sexpInt(n int) zygo.Sexp { return &zygo.SexpInt{Val: int64(n)} }

func sexpBool(b bool) zygo.Sexp { return &zygo.SexpBool{Val: b} }

// ---------------------------------------------------------------------------
// Evaluation session
// ---------------------------------------------------------------------------

// session is the state shared by the builtins of one evaluation.
type session struct {
	env    *zygo.Zlisp
	m      *hemesh.PolyMesh
	engine *Engine
}

func (s *session) pos() hemesh.PointProperty { return hemesh.Positions(s.m) }

// builtin is a mesh builtin before error wrapping.
type builtin func(args []zygo.Sexp) (zygo.Sexp, error)

// add registers fn under name. Mesh usage panics are turned into errors
// so that a bad index fails the evaluation instead of the process.
func (s *session) add(name string, fn builtin) {
	display := strings.ReplaceAll(name, "_", "-")
	s.env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (res zygo.Sexp, err error) {
		defer func() {
			if r := recover(); r != nil {
				res, err = zygo.SexpNull, fmt.Errorf("%s: %v", display, r)
			}
		}()
		res, err = fn(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
		}
		return res, nil
	})
}

// vertexArg reads a used vertex index.
func (s *session) vertexArg(a zygo.Sexp) (int, error) {
	v, err := toInt(a)
	if err != nil {
		return 0, err
	}
	if v < 0 || v >= s.m.Vertices().Count() || s.m.Vertices().IsUnused(v) {
		return 0, fmt.Errorf("no vertex %d", v)
	}
	return v, nil
}

// faceArg reads a used face index.
func (s *session) faceArg(a zygo.Sexp) (int, error) {
	f, err := toInt(a)
	if err != nil {
		return 0, err
	}
	if f < 0 || f >= s.m.Faces().Count() || s.m.Faces().IsUnused(f) {
		return 0, fmt.Errorf("no face %d", f)
	}
	return f, nil
}

// edgeArgs reads two vertex indices and returns the half-edge between them.
func (s *session) edgeArgs(args []zygo.Sexp) (int, error) {
	if len(args) != 2 {
		return 0, fmt.Errorf("expected 2 vertices, got %d arguments", len(args))
	}
	v0, err := s.vertexArg(args[0])
	if err != nil {
		return 0, err
	}
	v1, err := s.vertexArg(args[1])
	if err != nil {
		return 0, err
	}
	he := s.m.FindHalfedge(v0, v1)
	if he == hemesh.None {
		return 0, fmt.Errorf("no edge between %d and %d", v0, v1)
	}
	return he, nil
}

// addGrid appends an nx by ny grid of quads in the XY plane with its
// corner at the origin and returns the first new vertex.
func (s *session) addGrid(nx, ny int, size float64) int {
	first := s.m.Vertices().Count()
	s.m.AddVertices((nx + 1) * (ny + 1))
	w := nx + 1
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			s.m.VertexData(first + j*w + i).Position = v3.Vec{X: float64(i) * size, Y: float64(j) * size}
		}
	}
	for j := range ny {
		for i := range nx {
			v0 := first + j*w + i
			s.m.AddFace(v0, v0+1, v0+w+1, v0+w)
		}
	}
	return first
}

// boxFaces lists the corners of each side of a box with outward normals,
// corner i having bit 0 for +X, bit 1 for +Y and bit 2 for +Z.
var boxFaces = [6][4]int{
	{0, 2, 3, 1}, // -Z
	{4, 5, 7, 6}, // +Z
	{0, 1, 5, 4}, // -Y
	{2, 6, 7, 3}, // +Y
	{0, 4, 6, 2}, // -X
	{1, 3, 7, 5}, // +X
}

// addBox appends a closed box centered on the origin and returns its first
// vertex.
func (s *session) addBox(size v3.Vec) int {
	first := s.m.AddVertices(8)
	for i := range 8 {
		s.m.VertexData(first + i).Position = v3.Vec{
			X: (float64(i&1) - 0.5) * size.X,
			Y: (float64(i>>1&1) - 0.5) * size.Y,
			Z: (float64(i>>2&1) - 0.5) * size.Z,
		}
	}
	for _, f := range boxFaces {
		s.m.AddFace(first+f[0], first+f[1], first+f[2], first+f[3])
	}
	return first
}

// appendSolid tessellates a kernel solid into the session mesh and returns
// the first appended vertex.
func (s *session) appendSolid(solid kernel.Solid) (int, error) {
	part, err := tessellate.Tessellate(s.engine.kernel, solid, s.engine.tess)
	if err != nil {
		return 0, err
	}
	first := s.m.Vertices().Count()
	s.m.Append(part)
	return first, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the hedge mesh builtins into the session's
// zygomys environment. Names use underscores because preprocessSource
// rewrites kebab-case before zygomys sees it.
func (s *session) registerBuiltins() {
	s.registerConstruction()
	s.registerSolids()
	s.registerEdits()
	s.registerBulk()
	s.registerQueries()
}

func (s *session) registerConstruction() {
	// (vertex x y z) -> index
	s.add("vertex", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("expected x y z, got %d arguments", len(args))
		}
		var p [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return nil, err
			}
			p[i] = f
		}
		v := s.m.AddVertex()
		s.m.VertexData(v).Position = v3.Vec{X: p[0], Y: p[1], Z: p[2]}
		return sexpInt(v), nil
	})

	// (face 0 1 2 3) or (face (list 0 1 2 3)) -> index
	s.add("face", func(args []zygo.Sexp) (zygo.Sexp, error) {
		vs, err := flattenInts(args)
		if err != nil {
			return nil, err
		}
		for _, v := range vs {
			if v < 0 || v >= s.m.Vertices().Count() || s.m.Vertices().IsUnused(v) {
				return nil, fmt.Errorf("no vertex %d", v)
			}
		}
		f := s.m.AddFace(vs...)
		if f == hemesh.None {
			return nil, fmt.Errorf("face %v rejected: degenerate or non-manifold", vs)
		}
		return sexpInt(f), nil
	})

	// (quad-grid nx ny :size 1) -> first vertex
	s.add("quad_grid", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		dims, err := flattenInts(pa.positional)
		if err != nil {
			return nil, err
		}
		if len(dims) != 2 || dims[0] < 1 || dims[1] < 1 {
			return nil, fmt.Errorf("expected two positive cell counts, got %v", dims)
		}
		size, err := optFloat(pa, "size", 1)
		if err != nil {
			return nil, err
		}
		return sexpInt(s.addGrid(dims[0], dims[1], size)), nil
	})

	// (box-mesh sx sy sz) -> first vertex
	s.add("box_mesh", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("expected sx sy sz, got %d arguments", len(args))
		}
		var d [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return nil, err
			}
			if f <= 0 {
				return nil, fmt.Errorf("size %g must be positive", f)
			}
			d[i] = f
		}
		return sexpInt(s.addBox(v3.Vec{X: d[0], Y: d[1], Z: d[2]})), nil
	})

	// (sphere-mesh r) -> first vertex, tessellated through the kernel
	s.add("sphere_mesh", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected radius, got %d arguments", len(args))
		}
		r, err := toFloat64(args[0])
		if err != nil {
			return nil, err
		}
		if r <= 0 {
			return nil, fmt.Errorf("radius %g must be positive", r)
		}
		first, err := s.appendSolid(s.engine.kernel.Sphere(r))
		if err != nil {
			return nil, err
		}
		return sexpInt(first), nil
	})
}

// positiveFloats reads len(args) positive numbers.
func positiveFloats(args []zygo.Sexp) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, err
		}
		if f <= 0 {
			return nil, fmt.Errorf("size %g must be positive", f)
		}
		out[i] = f
	}
	return out, nil
}

// floats reads numbers.
func floats(args []zygo.Sexp) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// registerSolids installs builtins that build kernel solids. Solids are
// values, not mesh elements; solid-mesh tessellates one into the mesh and
// shrink-wrap accepts one as its target.
func (s *session) registerSolids() {
	k := s.engine.kernel
	solid := func(op string, v kernel.Solid) zygo.Sexp { return &sexpSolid{solid: v, op: op} }

	// (box sx sy sz) -> solid centered on the origin
	s.add("box", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("expected sx sy sz, got %d arguments", len(args))
		}
		d, err := positiveFloats(args)
		if err != nil {
			return nil, err
		}
		return solid("box", k.Box(d[0], d[1], d[2])), nil
	})

	// (sphere r) -> solid
	s.add("sphere", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected radius, got %d arguments", len(args))
		}
		r, err := positiveFloats(args)
		if err != nil {
			return nil, err
		}
		return solid("sphere", k.Sphere(r[0])), nil
	})

	// (cylinder height radius :segments 32) -> solid along Z
	s.add("cylinder", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return nil, fmt.Errorf("expected height radius, got %d arguments", len(pa.positional))
		}
		d, err := positiveFloats(pa.positional)
		if err != nil {
			return nil, err
		}
		segments, err := optInt(pa, "segments", 32)
		if err != nil {
			return nil, err
		}
		if segments < 3 {
			return nil, fmt.Errorf("segments %d must be at least 3", segments)
		}
		return solid("cylinder", k.Cylinder(d[0], d[1], segments)), nil
	})

	// (union a b ...), (difference a b ...), (intersection a b ...) fold
	// left over two or more solids
	for name, op := range map[string]func(a, b kernel.Solid) kernel.Solid{
		"union":        k.Union,
		"difference":   k.Difference,
		"intersection": k.Intersection,
	} {
		s.add(name, func(args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return nil, fmt.Errorf("expected at least 2 solids, got %d arguments", len(args))
			}
			acc, err := toSolid(args[0])
			if err != nil {
				return nil, err
			}
			for _, a := range args[1:] {
				b, err := toSolid(a)
				if err != nil {
					return nil, err
				}
				acc = op(acc, b)
			}
			return solid(name, acc), nil
		})
	}

	// (translate s x y z) and (rotate s x y z), rotation in degrees
	for name, op := range map[string]func(kernel.Solid, float64, float64, float64) kernel.Solid{
		"translate": k.Translate,
		"rotate":    k.Rotate,
	} {
		s.add(name, func(args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 4 {
				return nil, fmt.Errorf("expected solid x y z, got %d arguments", len(args))
			}
			v, err := toSolid(args[0])
			if err != nil {
				return nil, err
			}
			d, err := floats(args[1:])
			if err != nil {
				return nil, err
			}
			return solid(name, op(v, d[0], d[1], d[2])), nil
		})
	}

	// (solid-mesh s) -> first vertex of the tessellated solid
	s.add("solid_mesh", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected a solid, got %d arguments", len(args))
		}
		v, err := toSolid(args[0])
		if err != nil {
			return nil, err
		}
		first, err := s.appendSolid(v)
		if err != nil {
			return nil, err
		}
		return sexpInt(first), nil
	})
}

func (s *session) registerEdits() {
	// (split-edge v0 v1) -> new vertex at the midpoint
	s.add("split_edge", func(args []zygo.Sexp) (zygo.Sexp, error) {
		he, err := s.edgeArgs(args)
		if err != nil {
			return nil, err
		}
		pos := s.pos()
		mid := pos.Get(s.m.Start(he)).Add(pos.Get(s.m.End(he))).MulScalar(0.5)
		v := s.m.Start(s.m.SplitEdge(he))
		pos.Set(v, mid)
		return sexpInt(v), nil
	})

	// (collapse-edge v0 v1) -> true if v0 was merged into v1
	s.add("collapse_edge", func(args []zygo.Sexp) (zygo.Sexp, error) {
		he, err := s.edgeArgs(args)
		if err != nil {
			return nil, err
		}
		return sexpBool(s.m.CollapseEdge(he)), nil
	})

	// (split-face v0 v1) -> new face, cutting the face shared by v0 and v1
	s.add("split_face", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("expected 2 vertices, got %d arguments", len(args))
		}
		v0, err := s.vertexArg(args[0])
		if err != nil {
			return nil, err
		}
		v1, err := s.vertexArg(args[1])
		if err != nil {
			return nil, err
		}
		he0, he1 := hemesh.None, hemesh.None
	outer:
		for he := range s.m.OutgoingHalfedges(v0) {
			f := s.m.Face(he)
			if f == hemesh.None {
				continue
			}
			for h := range s.m.FaceHalfedges(f) {
				if s.m.Start(h) == v1 {
					he0, he1 = he, h
					break outer
				}
			}
		}
		if he0 == hemesh.None {
			return nil, fmt.Errorf("vertices %d and %d share no face", v0, v1)
		}
		he := s.m.SplitFace(he0, he1)
		if he == hemesh.None {
			return nil, fmt.Errorf("vertices %d and %d are adjacent", v0, v1)
		}
		return sexpInt(s.m.Face(he)), nil
	})

	// (poke-face f) -> center vertex
	s.add("poke_face", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected a face, got %d arguments", len(args))
		}
		f, err := s.faceArg(args[0])
		if err != nil {
			return nil, err
		}
		center := hemesh.FaceCenter(s.m, s.pos(), f)
		c := s.m.PokeFace(f)
		s.pos().Set(c, center)
		return sexpInt(c), nil
	})

	// (quad-poke-face f) -> center vertex; the face must have even degree
	s.add("quad_poke_face", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected a face, got %d arguments", len(args))
		}
		f, err := s.faceArg(args[0])
		if err != nil {
			return nil, err
		}
		center := hemesh.FaceCenter(s.m, s.pos(), f)
		c := s.m.QuadPokeFace(f)
		if c == hemesh.None {
			return nil, fmt.Errorf("face %d has odd degree %d", f, s.m.FaceDegree(f))
		}
		s.pos().Set(c, center)
		return sexpInt(c), nil
	})
}

func (s *session) registerBulk() {
	// (triangulate :fan) or (triangulate :strip) -> face count
	s.add("triangulate", func(args []zygo.Sexp) (zygo.Sexp, error) {
		mode, rest, err := leadingMode(args, "fan", "fan", "strip")
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, fmt.Errorf("unexpected arguments after :%s", mode)
		}
		if mode == "strip" {
			s.m.TriangulateFaces(hemesh.NewStrip(s.m))
		} else {
			s.m.TriangulateFaces(hemesh.NewFan(s.m))
		}
		return sexpInt(s.m.Faces().CountUsed()), nil
	})

	// (quadrangulate :fan) or (quadrangulate :strip) -> face count
	s.add("quadrangulate", func(args []zygo.Sexp) (zygo.Sexp, error) {
		mode, rest, err := leadingMode(args, "fan", "fan", "strip")
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, fmt.Errorf("unexpected arguments after :%s", mode)
		}
		if mode == "strip" {
			s.m.QuadrangulateFaces(hemesh.NewStrip(s.m))
		} else {
			s.m.QuadrangulateFaces(hemesh.NewFan(s.m))
		}
		return sexpInt(s.m.Faces().CountUsed()), nil
	})

	// (subdivide :catmull-clark :boundary :fixed :steps 1) -> face count
	s.add("subdivide", func(args []zygo.Sexp) (zygo.Sexp, error) {
		mode, rest, err := leadingMode(args, "catmull-clark", "catmull-clark", "quad-split", "diagonalize")
		if err != nil {
			return nil, err
		}
		pa := parseArgs(rest)
		steps, err := optInt(pa, "steps", 1)
		if err != nil {
			return nil, err
		}
		if steps < 0 {
			return nil, fmt.Errorf(":steps %d must not be negative", steps)
		}
		boundary := subdiv.Fixed
		if v, ok := pa.kw["boundary"]; ok {
			name, err := toKeywordString(v)
			if err != nil {
				return nil, fmt.Errorf(":boundary: %w", err)
			}
			if boundary, err = subdiv.ParseBoundary(name); err != nil {
				return nil, err
			}
		}
		skip := true
		if v, ok := pa.kw["skip-boundary"]; ok {
			if skip, err = toBool(v); err != nil {
				return nil, fmt.Errorf(":skip-boundary: %w", err)
			}
		}

		for range steps {
			switch mode {
			case "catmull-clark":
				if err := subdiv.CatmullClark(s.m, s.pos(), boundary); err != nil {
					return nil, err
				}
			case "quad-split":
				subdiv.QuadSplit(s.m, s.pos())
			case "diagonalize":
				subdiv.Diagonalize(s.m, s.pos(), skip)
			}
		}
		return sexpInt(s.m.Faces().CountUsed()), nil
	})

	// (planarize :steps 100) -> true if every quad converged flat
	s.add("planarize", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		steps, err := optInt(pa, "steps", 100)
		if err != nil {
			return nil, err
		}
		taken, converged, err := dynamics.Planarize(s.m, s.pos(), s.engine.solver, steps)
		if err != nil {
			return nil, err
		}
		hedge.Logger().Debug("engine: planarize", "steps", taken, "converged", converged)
		return sexpBool(converged), nil
	})

	// (shrink-wrap r|solid :steps 100 :planar false) -> true if converged.
	// A number r wraps onto a sphere of that radius.
	s.add("shrink_wrap", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return nil, fmt.Errorf("expected radius or solid, got %d arguments", len(pa.positional))
		}
		target, err := toSolid(pa.positional[0])
		if err != nil {
			r, ferr := toFloat64(pa.positional[0])
			if ferr != nil {
				return nil, fmt.Errorf("expected radius or solid, got %T (%s)", pa.positional[0], pa.positional[0].SexpString(nil))
			}
			if r <= 0 {
				return nil, fmt.Errorf("radius %g must be positive", r)
			}
			target = s.engine.kernel.Sphere(r)
		}
		steps, err := optInt(pa, "steps", 100)
		if err != nil {
			return nil, err
		}
		planar := false
		if v, ok := pa.kw["planar"]; ok {
			if planar, err = toBool(v); err != nil {
				return nil, fmt.Errorf(":planar: %w", err)
			}
		}
		converged, err := s.shrinkWrap(target, steps, planar)
		if err != nil {
			return nil, err
		}
		return sexpBool(converged), nil
	})

	// (compact) -> nil
	s.add("compact", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return nil, fmt.Errorf("expected no arguments, got %d", len(args))
		}
		s.m.Compact()
		return zygo.SexpNull, nil
	})
}

// shrinkWrap pulls every used vertex onto the surface of solid, optionally
// keeping quads planar at the same time.
func (s *session) shrinkWrap(solid kernel.Solid, steps int, planar bool) (bool, error) {
	solver, err := dynamics.NewSolver(s.engine.solver)
	if err != nil {
		return false, err
	}
	defer solver.Close()

	target := kernel.Target{Kernel: s.engine.kernel, Solid: solid}
	bodies := dynamics.ParticlesFromProperty(s.m, s.pos())
	constraints := lo.FilterMap(lo.Range(s.m.Vertices().Count()), func(v, _ int) (dynamics.Constraint, bool) {
		if s.m.Vertices().IsUnused(v) {
			return nil, false
		}
		return dynamics.NewOnTarget(v, target, 1), true
	})
	if planar {
		constraints = append(constraints, dynamics.PlanarQuadsFromMesh(s.m, 1)...)
	}

	converged := solver.Solve(bodies, constraints, steps)
	dynamics.WriteBack(s.m, s.pos(), bodies)
	hedge.Logger().Debug("engine: shrink-wrap",
		"constraints", len(constraints), "steps", solver.StepCount(), "converged", converged)
	return converged, nil
}

func (s *session) registerQueries() {
	// (count :vertices|:edges|:faces|:holes) -> used element count
	s.add("count", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected an element keyword, got %d arguments", len(args))
		}
		what, err := toKeywordString(args[0])
		if err != nil {
			return nil, err
		}
		switch what {
		case "vertices":
			return sexpInt(s.m.Vertices().CountUsed()), nil
		case "edges":
			return sexpInt(s.m.Halfedges().CountUsed() / 2), nil
		case "halfedges":
			return sexpInt(s.m.Halfedges().CountUsed()), nil
		case "faces":
			return sexpInt(s.m.Faces().CountUsed()), nil
		case "holes":
			return sexpInt(s.m.CountHoles()), nil
		}
		return nil, fmt.Errorf("unknown element %q, expected vertices, edges, halfedges, faces or holes", what)
	})

	// (euler) -> V - E + F
	s.add("euler", func(args []zygo.Sexp) (zygo.Sexp, error) {
		return sexpInt(s.m.EulerNumber()), nil
	})

	// (closed) -> true if the mesh has no holes
	s.add("closed", func(args []zygo.Sexp) (zygo.Sexp, error) {
		return sexpBool(s.m.IsClosed()), nil
	})

	// (validate) -> number of error findings
	s.add("validate", func(args []zygo.Sexp) (zygo.Sexp, error) {
		errs := hemesh.Errors(s.m.Validate())
		for _, e := range errs {
			hedge.Logger().Warn("engine: invalid mesh", "finding", e.Error())
		}
		return sexpInt(len(errs)), nil
	})
}
