// Package config loads tunables for the solver, the scripting engine and
// tessellation.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the module.
type Config struct {
	Solver     SolverConfig     `mapstructure:"solver"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Tessellate TessellateConfig `mapstructure:"tessellate"`
}

// SolverConfig holds constraint solver settings.
type SolverConfig struct {
	TimeStep       float64 `mapstructure:"time_step"`
	Damping        float64 `mapstructure:"damping"`
	AngleDamping   float64 `mapstructure:"angle_damping"`
	Tolerance      float64 `mapstructure:"tolerance"`
	AngleTolerance float64 `mapstructure:"angle_tolerance"`
	Parallel       bool    `mapstructure:"parallel"`
	Workers        int     `mapstructure:"workers"`
}

// EngineConfig holds scripting engine settings.
type EngineConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// TessellateConfig holds solid-to-mesh settings.
type TessellateConfig struct {
	WeldTolerance float64 `mapstructure:"weld_tolerance"`
	Policy        string  `mapstructure:"policy"`
	Cells         int     `mapstructure:"cells"`
}

// Load returns the defaults with HEDGE_ environment overrides applied,
// e.g. HEDGE_SOLVER_DAMPING=0.25.
func Load() (Config, error) {
	return decode(newViper())
}

// Read parses TOML from r on top of the defaults. Environment overrides
// still win over the file.
func Read(r io.Reader) (Config, error) {
	v := newViper()
	v.SetConfigType("toml")
	if err := v.ReadConfig(r); err != nil {
		return Config{}, fmt.Errorf("config: read: %w", err)
	}
	return decode(v)
}

// Default returns the built-in defaults without consulting the
// environment.
func Default() Config {
	return Config{
		Solver: SolverConfig{
			TimeStep:       1,
			Damping:        0.5,
			AngleDamping:   0.5,
			Tolerance:      1e-4,
			AngleTolerance: 1e-4,
		},
		Engine: EngineConfig{Timeout: 5 * time.Second},
		Tessellate: TessellateConfig{
			WeldTolerance: 1e-6,
			Policy:        "triangulate-fan",
			Cells:         200,
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("solver.time_step", d.Solver.TimeStep)
	v.SetDefault("solver.damping", d.Solver.Damping)
	v.SetDefault("solver.angle_damping", d.Solver.AngleDamping)
	v.SetDefault("solver.tolerance", d.Solver.Tolerance)
	v.SetDefault("solver.angle_tolerance", d.Solver.AngleTolerance)
	v.SetDefault("solver.parallel", d.Solver.Parallel)
	v.SetDefault("solver.workers", d.Solver.Workers)
	v.SetDefault("engine.timeout", d.Engine.Timeout)
	v.SetDefault("tessellate.weld_tolerance", d.Tessellate.WeldTolerance)
	v.SetDefault("tessellate.policy", d.Tessellate.Policy)
	v.SetDefault("tessellate.cells", d.Tessellate.Cells)

	v.SetEnvPrefix("HEDGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return c, nil
}
