package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HEDGE_SOLVER_DAMPING", "0.25")
	t.Setenv("HEDGE_SOLVER_PARALLEL", "true")
	t.Setenv("HEDGE_ENGINE_TIMEOUT", "750ms")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.25, c.Solver.Damping)
	assert.True(t, c.Solver.Parallel)
	assert.Equal(t, 750*time.Millisecond, c.Engine.Timeout)
	assert.Equal(t, Default().Solver.TimeStep, c.Solver.TimeStep)
}

func TestRead(t *testing.T) {
	const doc = `
[solver]
time_step = 0.5
workers = 3

[engine]
timeout = "2s"

[tessellate]
policy = "quadrangulate-strip"
cells = 64
`
	c, err := Read(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 0.5, c.Solver.TimeStep)
	assert.Equal(t, 3, c.Solver.Workers)
	assert.Equal(t, Default().Solver.Tolerance, c.Solver.Tolerance)
	assert.Equal(t, 2*time.Second, c.Engine.Timeout)
	assert.Equal(t, "quadrangulate-strip", c.Tessellate.Policy)
	assert.Equal(t, 64, c.Tessellate.Cells)
	assert.Equal(t, Default().Tessellate.WeldTolerance, c.Tessellate.WeldTolerance)
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader("[solver\ndamping = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read")
}
