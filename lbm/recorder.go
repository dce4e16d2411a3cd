package lbm

import (
	"github.com/sarchlab/cavity/datarecording"
	"github.com/sarchlab/cavity/sim"
)

// Table names written by a Recorder.
const (
	RunTable  = "run"
	StepTable = "step"
	CellTable = "cell"
)

// RunEntry describes the parameters of a recorded run.
type RunEntry struct {
	ID          string
	Width       int
	Height      int
	LidVelocity float64
	Reynolds    float64
	Viscosity   float64
	Omega       float64
	Iterations  int
}

// StepEntry holds the diagnostics of one step.
type StepEntry struct {
	Iteration   int
	Mass        float64
	MeanDensity float64
	MinDensity  float64
	MaxDensity  float64
	MaxSpeed    float64
}

// CellEntry holds the final macroscopic values of one cell.
type CellEntry struct {
	I   int
	J   int
	Ux  float64
	Uy  float64
	Rho float64
}

// Recorder is a hook that stores step diagnostics and the final field of a
// driver in a DataRecorder.
type Recorder struct {
	recorder datarecording.DataRecorder
	every    int
	last     int
}

// NewRecorder creates the tables and returns a Recorder that stores
// diagnostics every n steps. With n = 0 only the final step is stored.
func NewRecorder(r datarecording.DataRecorder, n int) *Recorder {
	r.CreateTable(RunTable, RunEntry{})
	r.CreateTable(StepTable, StepEntry{})
	r.CreateTable(CellTable, CellEntry{})

	return &Recorder{
		recorder: r,
		every:    n,
		last:     -1,
	}
}

// RecordRun stores the parameters of the run.
func (r *Recorder) RecordRun(e RunEntry) {
	r.recorder.InsertData(RunTable, e)
}

// Func records the step or the final state carried by the hook context.
func (r *Recorder) Func(ctx sim.HookCtx) {
	info, ok := ctx.Item.(StepInfo)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosStepDone:
		if r.every > 0 && info.Iteration%r.every == 0 {
			r.recordStep(info.Iteration, info.Fields())
		}
	case HookPosRunDone:
		f := info.Fields()
		if r.last != info.Iteration {
			r.recordStep(info.Iteration, f)
		}

		r.recordCells(f)
		r.recorder.Flush()
	}
}

func (r *Recorder) recordStep(iteration int, f Fields) {
	r.recorder.InsertData(StepTable, StepEntry{
		Iteration:   iteration,
		Mass:        f.Mass(),
		MeanDensity: f.MeanDensity(),
		MinDensity:  f.MinDensity(),
		MaxDensity:  f.MaxDensity(),
		MaxSpeed:    f.MaxSpeed(),
	})
	r.last = iteration
}

func (r *Recorder) recordCells(f Fields) {
	for cell := range f.Rho {
		i, j := f.Grid.Coord(cell)
		r.recorder.InsertData(CellTable, CellEntry{
			I:   i,
			J:   j,
			Ux:  f.Ux[cell],
			Uy:  f.Uy[cell],
			Rho: f.Rho[cell],
		})
	}
}
