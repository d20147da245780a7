package main

import (
	"fmt"

	"github.com/chazu/hedge"
	"github.com/chazu/hedge/internal/config"
	"github.com/chazu/hedge/pkg/engine"
	"github.com/chazu/hedge/pkg/hemesh"
	"github.com/chazu/hedge/pkg/tessellate"
)

// App runs scripts through the engine and exports the resulting mesh.
type App struct {
	engine *engine.Engine
	policy tessellate.Policy
}

// MeshData is the JSON-serializable interchange mesh.
type MeshData struct {
	Vertices  []float32 `json:"vertices"`
	Normals   []float32 `json:"normals,omitempty"`
	Triangles []uint32  `json:"triangles"`
	Quads     []uint32  `json:"quads"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Stats summarizes the evaluated mesh before export.
type Stats struct {
	Vertices int  `json:"vertices"`
	Edges    int  `json:"edges"`
	Faces    int  `json:"faces"`
	Holes    int  `json:"holes"`
	Euler    int  `json:"euler"`
	Closed   bool `json:"closed"`
}

// EvalResult is the full result of one evaluation. Mesh is the half-edge
// mesh itself and is not serialized; Export carries the interchange form.
type EvalResult struct {
	Mesh   *hemesh.PolyMesh `json:"-"`
	Export *MeshData        `json:"mesh"`
	Stats  Stats            `json:"stats"`
	Errors []EvalErrorData  `json:"errors"`
}

// NewApp creates an App from a loaded configuration.
func NewApp(c config.Config) (*App, error) {
	eng, err := engine.NewFromConfig(c)
	if err != nil {
		return nil, err
	}
	policy, err := tessellate.ParsePolicy(c.Tessellate.Policy)
	if err != nil {
		return nil, err
	}
	return &App{engine: eng, policy: policy}, nil
}

// Evaluate takes Lisp source and returns the exported mesh + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{Errors: []EvalErrorData{}}

	// Step 1: Evaluate the Lisp source into a half-edge mesh.
	m, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		hedge.Logger().Warn("hedge: evaluate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the output format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	result.Mesh = m
	result.Stats = Stats{
		Vertices: m.Vertices().CountUsed(),
		Edges:    m.Halfedges().CountUsed() / 2,
		Faces:    m.Faces().CountUsed(),
		Holes:    m.CountHoles(),
		Euler:    m.EulerNumber(),
		Closed:   m.IsClosed(),
	}

	// Step 3: Export through the interchange format.
	km, err := tessellate.ToMesh(m, a.policy)
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{
			Message: fmt.Sprintf("export failed: %v", err),
		})
		return result
	}
	result.Export = &MeshData{
		Vertices:  km.Vertices,
		Normals:   km.Normals,
		Triangles: km.Triangles,
		Quads:     km.Quads,
	}
	return result
}
