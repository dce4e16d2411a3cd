package lbm

import (
	"log"

	"github.com/sarchlab/cavity/sim"
)

// StepLogger is a hook that prints the progress of a driver.
type StepLogger struct {
	sim.LogHookBase

	every int
}

// NewStepLogger creates a StepLogger that prints every n steps and at the end
// of the run.
func NewStepLogger(logger *log.Logger, n int) *StepLogger {
	h := &StepLogger{every: n}
	h.Logger = logger

	return h
}

// Func prints diagnostics of the step.
func (h *StepLogger) Func(ctx sim.HookCtx) {
	info, ok := ctx.Item.(StepInfo)
	if !ok {
		return
	}

	name := "driver"
	if named, ok := ctx.Domain.(sim.Named); ok {
		name = named.Name()
	}

	switch ctx.Pos {
	case HookPosStepDone:
		if h.every <= 0 || info.Iteration%h.every != 0 {
			return
		}

		f := info.Fields()
		h.Printf("%s: iteration %d/%d, mass %.12g, max speed %.6g",
			name, info.Iteration, info.Iterations, f.Mass(), f.MaxSpeed())
	case HookPosRunDone:
		h.Printf("%s: done after %d iterations", name, info.Iteration)
	}
}
