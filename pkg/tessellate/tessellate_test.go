package tessellate_test

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/hedge/internal/config"
	"github.com/chazu/hedge/pkg/hemesh"
	"github.com/chazu/hedge/pkg/kernel"
	"github.com/chazu/hedge/pkg/kernel/sdfx"
	"github.com/chazu/hedge/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// newKernel returns a coarse sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.New(sdfx.WithCells(24))
}

// quadSoup returns the unit square as two triangles that share no
// vertices.
func quadSoup() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float32{
			0, 0, 0, 1, 0, 0, 1, 1, 0,
			0, 0, 0, 1, 1, 0, 0, 1, 0,
		},
		Triangles: []uint32{0, 1, 2, 3, 4, 5},
	}
}

// polygon returns a PolyMesh holding one regular n-gon.
func polygon(n int) *hemesh.PolyMesh {
	m := hemesh.NewPolyMesh()
	vs := make([]int, n)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		vs[i] = m.AddVertex()
		m.VertexData(vs[i]).Position = v3.Vec{X: math.Cos(a), Y: math.Sin(a)}
	}
	m.AddFace(vs...)
	return m
}

func requireValid(t *testing.T, m *hemesh.PolyMesh) {
	t.Helper()
	if errs := hemesh.Errors(m.Validate()); len(errs) > 0 {
		t.Fatalf("invalid mesh: %v", errs)
	}
}

// --- Weld ---

func TestWeld(t *testing.T) {
	soup := quadSoup()
	welded, err := tessellate.Weld(soup, 1e-6)
	if err != nil {
		t.Fatalf("Weld() error = %v", err)
	}
	if got := welded.VertexCount(); got != 4 {
		t.Errorf("VertexCount() = %d, want 4", got)
	}
	want := []uint32{0, 1, 2, 0, 2, 3}
	for i, idx := range welded.Triangles {
		if idx != want[i] {
			t.Fatalf("Triangles = %v, want %v", welded.Triangles, want)
		}
	}
	if soup.VertexCount() != 6 {
		t.Error("Weld modified its input")
	}
}

func TestWeldTolerance(t *testing.T) {
	tests := []struct {
		name          string
		offset        float32
		tol           float64
		wantVerts     int
		wantTriangles int
	}{
		{"exact", 0, 1e-6, 4, 2},
		{"within tolerance", 1e-4, 1e-3, 4, 2},
		{"beyond tolerance", 1e-2, 1e-3, 6, 2},
		{"collapses triangles", 0, 2, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			soup := quadSoup()
			soup.Vertices[9] += tt.offset
			soup.Vertices[12] += tt.offset
			welded, err := tessellate.Weld(soup, tt.tol)
			if err != nil {
				t.Fatalf("Weld() error = %v", err)
			}
			if got := welded.VertexCount(); got != tt.wantVerts {
				t.Errorf("VertexCount() = %d, want %d", got, tt.wantVerts)
			}
			if got := welded.TriangleCount(); got != tt.wantTriangles {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.wantTriangles)
			}
		})
	}
}

func TestWeldKeepsAttributesOfFirst(t *testing.T) {
	soup := quadSoup()
	soup.Colors = make([]float32, 24)
	soup.Colors[0] = 1  // vertex 0 red
	soup.Colors[13] = 1 // vertex 3 green, merged into 0
	welded, err := tessellate.Weld(soup, 1e-6)
	if err != nil {
		t.Fatalf("Weld() error = %v", err)
	}
	if len(welded.Colors) != 16 {
		t.Fatalf("len(Colors) = %d, want 16", len(welded.Colors))
	}
	if welded.Colors[0] != 1 || welded.Colors[1] != 0 {
		t.Errorf("vertex 0 color = %v, want red", welded.Colors[0:4])
	}
}

func TestWeldRejects(t *testing.T) {
	if _, err := tessellate.Weld(quadSoup(), 0); err == nil {
		t.Error("Weld() with zero tolerance should fail")
	}
	bad := quadSoup()
	bad.Triangles[5] = 9
	if _, err := tessellate.Weld(bad, 1e-6); err == nil {
		t.Error("Weld() with out-of-range index should fail")
	}
}

// --- FromMesh / ToMesh ---

func TestFromMesh(t *testing.T) {
	km := &kernel.Mesh{
		Vertices:  []float32{0, 0, 0, 1, 0, 0, 2, 0, 0, 0, 1, 0, 1, 1, 0, 2, 1, 0},
		UVs:       []float32{0, 0, 0.5, 0, 1, 0, 0, 1, 0.5, 1, 1, 1},
		Triangles: []uint32{1, 2, 5, 1, 5, 4},
		Quads:     []uint32{0, 1, 4, 3},
	}
	m, skipped, err := tessellate.FromMesh(km)
	if err != nil {
		t.Fatalf("FromMesh() error = %v", err)
	}
	requireValid(t, m)
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if got := m.Faces().CountUsed(); got != 3 {
		t.Errorf("faces = %d, want 3", got)
	}
	if got := m.EdgeCount(); got != 8 {
		t.Errorf("edges = %d, want 8", got)
	}
	if got := m.VertexData(4).UV; got != [2]float64{0.5, 1} {
		t.Errorf("UV(4) = %v, want [0.5 1]", got)
	}
	if got := m.VertexData(5).Position; got != (v3.Vec{X: 2, Y: 1}) {
		t.Errorf("Position(5) = %v", got)
	}
}

func TestFromMeshSkipsNonManifold(t *testing.T) {
	km := &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1},
		// the third triangle reuses directed edge 0->1
		Triangles: []uint32{0, 1, 2, 1, 0, 3, 0, 1, 3},
	}
	m, skipped, err := tessellate.FromMesh(km)
	if err != nil {
		t.Fatalf("FromMesh() error = %v", err)
	}
	requireValid(t, m)
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
}

func TestFromMeshInvalid(t *testing.T) {
	_, _, err := tessellate.FromMesh(&kernel.Mesh{Vertices: []float32{0, 0}})
	if err == nil || !strings.Contains(err.Error(), "tessellate: invalid mesh") {
		t.Fatalf("FromMesh() error = %v", err)
	}
}

func TestToMeshPolicies(t *testing.T) {
	tests := []struct {
		name      string
		sides     int
		policy    tessellate.Policy
		wantTris  int
		wantQuads int
	}{
		{"triangle", 3, tessellate.QuadrangulateFan, 1, 0},
		{"quad", 4, tessellate.TriangulateFan, 0, 1},
		{"hexagon fan", 6, tessellate.TriangulateFan, 4, 0},
		{"hexagon strip", 6, tessellate.TriangulateStrip, 4, 0},
		{"hexagon quad fan", 6, tessellate.QuadrangulateFan, 0, 2},
		{"pentagon quad strip", 5, tessellate.QuadrangulateStrip, 1, 1},
		{"octagon quad strip", 8, tessellate.QuadrangulateStrip, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := polygon(tt.sides)
			km, err := tessellate.ToMesh(m, tt.policy)
			if err != nil {
				t.Fatalf("ToMesh() error = %v", err)
			}
			if err := km.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if got := km.TriangleCount(); got != tt.wantTris {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.wantTris)
			}
			if got := km.QuadCount(); got != tt.wantQuads {
				t.Errorf("QuadCount() = %d, want %d", got, tt.wantQuads)
			}
			if m.FaceDegree(0) != tt.sides {
				t.Error("ToMesh modified the mesh")
			}
		})
	}
}

func TestToMeshRenumbersUsedVertices(t *testing.T) {
	m := hemesh.NewPolyMesh()
	for i := range 5 {
		m.VertexData(m.AddVertex()).Position = v3.Vec{X: float64(i)}
	}
	m.VertexData(4).Position = v3.Vec{Y: 1}
	m.AddFace(1, 2, 4)
	m.RemoveVertex(0)
	m.RemoveVertex(3)

	km, err := tessellate.ToMesh(m, tessellate.TriangulateFan)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if got := km.VertexCount(); got != 3 {
		t.Fatalf("VertexCount() = %d, want 3", got)
	}
	want := []uint32{0, 1, 2}
	for i, idx := range km.Triangles {
		if idx != want[i] {
			t.Fatalf("Triangles = %v, want %v", km.Triangles, want)
		}
	}
	if km.Normals != nil || km.UVs != nil || km.Colors != nil {
		t.Error("unset streams should be omitted")
	}
}

func TestToMeshUnknownPolicy(t *testing.T) {
	if _, err := tessellate.ToMesh(polygon(5), tessellate.Policy(9)); err == nil {
		t.Error("ToMesh() with unknown policy should fail")
	}
}

func TestRoundTrip(t *testing.T) {
	m := polygon(4)
	m.VertexData(2).Color = [4]float32{0, 0, 1, 1}
	km, err := tessellate.ToMesh(m, tessellate.TriangulateFan)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	back, skipped, err := tessellate.FromMesh(km)
	if err != nil || skipped != 0 {
		t.Fatalf("FromMesh() = %d skipped, error %v", skipped, err)
	}
	if back.FaceDegree(0) != 4 {
		t.Errorf("FaceDegree(0) = %d, want 4", back.FaceDegree(0))
	}
	if back.VertexData(2).Color != [4]float32{0, 0, 1, 1} {
		t.Errorf("Color(2) = %v", back.VertexData(2).Color)
	}
}

// --- Policy and options ---

func TestParsePolicy(t *testing.T) {
	for _, p := range []tessellate.Policy{
		tessellate.TriangulateFan, tessellate.TriangulateStrip,
		tessellate.QuadrangulateFan, tessellate.QuadrangulateStrip,
	} {
		t.Run(p.String(), func(t *testing.T) {
			got, err := tessellate.ParsePolicy(p.String())
			if err != nil || got != p {
				t.Errorf("ParsePolicy(%q) = %v, %v", p.String(), got, err)
			}
		})
	}
	if _, err := tessellate.ParsePolicy("zigzag"); err == nil {
		t.Error("ParsePolicy(zigzag) should fail")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	c := config.Default().Tessellate
	c.Policy = "quadrangulate-strip"
	c.WeldTolerance = 0.01
	o, err := tessellate.OptionsFromConfig(c)
	if err != nil {
		t.Fatalf("OptionsFromConfig() error = %v", err)
	}
	if o.Policy != tessellate.QuadrangulateStrip || o.WeldTolerance != 0.01 {
		t.Errorf("OptionsFromConfig() = %+v", o)
	}

	c.Policy = "bogus"
	if _, err := tessellate.OptionsFromConfig(c); err == nil {
		t.Error("OptionsFromConfig() with bad policy should fail")
	}

	if d := tessellate.DefaultOptions(); d.Policy != tessellate.TriangulateFan {
		t.Errorf("DefaultOptions().Policy = %v", d.Policy)
	}
}

// --- Tessellate ---

func TestTessellateSphere(t *testing.T) {
	k := newKernel()
	opts := tessellate.DefaultOptions()
	opts.WeldTolerance = 1e-4
	m, err := tessellate.Tessellate(k, k.Sphere(10), opts)
	if err != nil {
		t.Fatalf("Tessellate() error = %v", err)
	}
	requireValid(t, m)
	if m.Faces().CountUsed() == 0 {
		t.Fatal("expected faces")
	}
	// welding shares vertices between triangles
	if m.Vertices().CountUsed() >= m.Faces().CountUsed() {
		t.Errorf("vertices %d not shared among %d faces", m.Vertices().CountUsed(), m.Faces().CountUsed())
	}
	t.Logf("sphere: V=%d F=%d holes=%d", m.Vertices().CountUsed(), m.Faces().CountUsed(), m.CountHoles())
}
