// Package config holds the parameters of a cavity run.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/cavity/lattice"
)

// Errors returned by Validate.
var (
	ErrInvalidGrid        = lattice.ErrInvalidGrid
	ErrInvalidIterations  = errors.New("iteration count must not be negative")
	ErrInvalidReynolds    = errors.New("reynolds number must be positive")
	ErrUnstableRelaxation = errors.New("relaxation rate outside (0, 2)")
	ErrLidTooFast         = errors.New("lid velocity reaches the lattice speed of sound")
	ErrInvalidInterval    = errors.New("intervals and worker counts must not be negative")
)

// Config is the parameter set of one run. It is read once before the run
// starts and never changes afterwards.
type Config struct {
	Width       int
	Height      int
	LidVelocity float64
	Reynolds    float64
	Iterations  int

	// Workers is the number of goroutines sharing a kernel pass. Zero means
	// GOMAXPROCS.
	Workers int

	// CheckEvery enables the density positivity check every that many
	// steps. Zero disables it.
	CheckEvery int

	// LogEvery prints progress every that many steps. Zero disables it.
	LogEvery int

	// RecordEvery records step diagnostics every that many steps when a
	// recorder is attached. Zero records only the final state.
	RecordEvery int
}

// Default returns the classic lid-driven cavity setup.
func Default() Config {
	return Config{
		Width:       128,
		Height:      128,
		LidVelocity: 0.05,
		Reynolds:    100,
		Iterations:  10000,
		LogEvery:    1000,
		RecordEvery: 100,
	}
}

// Viscosity returns the kinematic viscosity in lattice units,
// uLid * width / Re.
func (c Config) Viscosity() float64 {
	return c.LidVelocity * float64(c.Width) / c.Reynolds
}

// Omega returns the BGK relaxation rate 1 / (3 nu + 0.5).
func (c Config) Omega() float64 {
	return 1.0 / (3.0*c.Viscosity() + 0.5)
}

// Validate checks that the configuration describes a run that can be
// carried out.
func (c Config) Validate() error {
	if _, err := lattice.NewGrid(c.Width, c.Height); err != nil {
		return err
	}

	if c.Iterations < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, c.Iterations)
	}

	if c.Workers < 0 || c.CheckEvery < 0 || c.LogEvery < 0 ||
		c.RecordEvery < 0 {
		return ErrInvalidInterval
	}

	if !(c.Reynolds > 0) || math.IsInf(c.Reynolds, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidReynolds, c.Reynolds)
	}

	if math.IsNaN(c.LidVelocity) ||
		math.Abs(c.LidVelocity) >= math.Sqrt(lattice.Cs2) {
		return fmt.Errorf("%w: %g", ErrLidTooFast, c.LidVelocity)
	}

	omega := c.Omega()
	if !(omega > 0 && omega < 2) {
		return fmt.Errorf("%w: omega = %g", ErrUnstableRelaxation, omega)
	}

	return nil
}
