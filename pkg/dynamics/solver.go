package dynamics

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/hedge"
	"github.com/chazu/hedge/internal/config"
	"github.com/chazu/hedge/internal/parallel"
)

// ErrInvalidSettings is returned by NewSolver for unusable settings.
var ErrInvalidSettings = errors.New("invalid solver settings")

// Settings configure a Solver.
//
// Damping is the share of a body's velocity carried into the next step.
// Constraint moves are covered in a single step, so any carried velocity
// overshoots the target first: a Coincident group only closes in
// monotonically with Damping 0, and the default of 0.5 swings past the
// centroid in the first steps before it settles.
type Settings struct {
	TimeStep       float64
	Damping        float64 // velocity kept per step, in [0, 1]
	AngleDamping   float64
	Tolerance      float64 // on the distance moved per step
	AngleTolerance float64 // on the angle rotated per step, in radians
	Parallel       bool
	Workers        int // 0 means GOMAXPROCS
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.Default().Solver)
}

// SettingsFromConfig copies solver settings out of a loaded config.
func SettingsFromConfig(c config.SolverConfig) Settings {
	return Settings{
		TimeStep:       c.TimeStep,
		Damping:        c.Damping,
		AngleDamping:   c.AngleDamping,
		Tolerance:      c.Tolerance,
		AngleTolerance: c.AngleTolerance,
		Parallel:       c.Parallel,
		Workers:        c.Workers,
	}
}

// Validate reports the first unusable field.
func (s Settings) Validate() error {
	switch {
	case !(s.TimeStep > 0):
		return fmt.Errorf("dynamics: time step %g: %w", s.TimeStep, ErrInvalidSettings)
	case !(s.Damping >= 0 && s.Damping <= 1):
		return fmt.Errorf("dynamics: damping %g: %w", s.Damping, ErrInvalidSettings)
	case !(s.AngleDamping >= 0 && s.AngleDamping <= 1):
		return fmt.Errorf("dynamics: angle damping %g: %w", s.AngleDamping, ErrInvalidSettings)
	case !(s.Tolerance > 0), !(s.AngleTolerance > 0):
		return fmt.Errorf("dynamics: tolerance must be positive: %w", ErrInvalidSettings)
	}
	return nil
}

// Solver steps a set of bodies under a set of constraints.
//
// A solver is not safe for concurrent use. With Parallel set it owns a
// worker pool that Close releases.
type Solver struct {
	settings      Settings
	pool          *parallel.WorkerPool
	maxDelta      float64
	maxAngleDelta float64
	stepCount     int
}

// NewSolver validates s and returns a solver that has not converged yet.
func NewSolver(s Settings) (*Solver, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	sv := &Solver{
		settings:      s,
		maxDelta:      math.MaxFloat64,
		maxAngleDelta: math.MaxFloat64,
	}
	if s.Parallel {
		sv.pool = parallel.NewWorkerPool(s.Workers)
	}
	return sv, nil
}

// Settings returns the settings the solver was built with.
func (s *Solver) Settings() Settings { return s.settings }

// MaxDelta is the largest squared distance a body moved in the last step.
func (s *Solver) MaxDelta() float64 { return s.maxDelta }

// MaxAngleDelta is the largest squared angle a body rotated in the last
// step.
func (s *Solver) MaxAngleDelta() float64 { return s.maxAngleDelta }

// StepCount is the number of steps taken.
func (s *Solver) StepCount() int { return s.stepCount }

// Step runs every constraint once and integrates the bodies.
func (s *Solver) Step(bodies []Body, constraints []Constraint) {
	parallel.For(s.pool, len(constraints), func(lo, hi int) {
		for _, c := range constraints[lo:hi] {
			c.Calculate(bodies)
		}
	})

	for _, c := range constraints {
		c.Apply(bodies)
	}

	dt := s.settings.TimeStep
	damp, angDamp := s.settings.Damping, s.settings.AngleDamping
	m := parallel.Reduce(s.pool, len(bodies), func(lo, hi int) [2]float64 {
		var local [2]float64
		for _, b := range bodies[lo:hi] {
			local[0] = max(local[0], b.UpdatePosition(dt, damp))
			if b.HasRotation() {
				local[1] = max(local[1], b.UpdateRotation(dt, angDamp))
			}
		}
		return local
	}, func(a, b [2]float64) [2]float64 {
		return [2]float64{max(a[0], b[0]), max(a[1], b[1])}
	})

	s.maxDelta, s.maxAngleDelta = m[0], m[1]
	s.stepCount++

	hedge.Logger().Debug("dynamics: step",
		"step", s.stepCount,
		"bodies", len(bodies),
		"constraints", len(constraints),
		"maxDelta", s.maxDelta,
		"maxAngleDelta", s.maxAngleDelta)
}

// Solve steps until the solver converges or maxSteps is reached, and
// reports whether it converged.
func (s *Solver) Solve(bodies []Body, constraints []Constraint, maxSteps int) bool {
	for range maxSteps {
		s.Step(bodies, constraints)
		if s.IsConverged() {
			return true
		}
	}
	return s.IsConverged()
}

// IsConverged reports whether the last step moved and rotated every body
// by less than the tolerances.
func (s *Solver) IsConverged() bool {
	return s.maxDelta < sq(s.settings.Tolerance) &&
		s.maxAngleDelta < sq(s.settings.AngleTolerance)
}

// AreSatisfied reports whether every handle of every constraint proposed
// a move below the tolerances when last calculated.
func (s *Solver) AreSatisfied(constraints []Constraint) bool {
	tol, angTol := sq(s.settings.Tolerance), sq(s.settings.AngleTolerance)
	for _, c := range constraints {
		for _, h := range c.Handles() {
			if h.SquaredDelta() >= tol || h.SquaredAngleDelta() >= angTol {
				return false
			}
		}
	}
	return true
}

// Close releases the worker pool, if any.
func (s *Solver) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func sq(x float64) float64 { return x * x }
