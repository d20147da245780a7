// Package engine provides the Lisp evaluation engine for hedge.
// It wraps zygomys in a sandboxed environment and builds a half-edge mesh
// from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/hedge"
	"github.com/chazu/hedge/internal/config"
	"github.com/chazu/hedge/pkg/dynamics"
	"github.com/chazu/hedge/pkg/hemesh"
	"github.com/chazu/hedge/pkg/kernel"
	"github.com/chazu/hedge/pkg/kernel/sdfx"
	"github.com/chazu/hedge/pkg/tessellate"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for hedge evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment and a fresh mesh for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout time.Duration
	kernel  kernel.Kernel
	solver  dynamics.Settings
	tess    tessellate.Options
}

// NewEngine creates an Engine with the default configuration.
func NewEngine() *Engine {
	e, err := NewFromConfig(config.Default())
	if err != nil {
		panic(fmt.Sprintf("engine: default config: %v", err))
	}
	return e
}

// NewFromConfig creates an Engine from a loaded configuration.
func NewFromConfig(c config.Config) (*Engine, error) {
	tess, err := tessellate.OptionsFromConfig(c.Tessellate)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	solver := dynamics.SettingsFromConfig(c.Solver)
	if err := solver.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	timeout := c.Engine.Timeout
	if timeout <= 0 {
		timeout = EvalTimeout
	}
	return &Engine{
		timeout: timeout,
		kernel:  sdfx.New(sdfx.WithCells(c.Tessellate.Cells)),
		solver:  solver,
		tess:    tess,
	}, nil
}

// Timeout returns the evaluation time limit.
func (e *Engine) Timeout() time.Duration { return e.timeout }

// Evaluate takes Lisp source code and builds a new mesh from it.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns mesh + nil errors + nil error
//   - On parse/eval failure: returns nil mesh + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*hemesh.PolyMesh, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	hedge.Logger().Info("engine: evaluate", "generation", gen, "bytes", len(source))

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		m, evalErrs, err := e.evaluate(source)
		ch <- evalResult{mesh: m, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation, e.timeout)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*hemesh.PolyMesh, []EvalError, error) {
	m := hemesh.NewPolyMesh()

	// Empty source is a valid program that produces an empty mesh.
	if strings.TrimSpace(source) == "" {
		return m, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	s := &session{env: env, m: m, engine: e}
	s.registerBuiltins()

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	hedge.Logger().Info("engine: evaluated",
		"vertices", m.Vertices().CountUsed(),
		"faces", m.Faces().CountUsed())
	return m, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
