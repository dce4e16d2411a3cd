package simulation

import (
	"github.com/sarchlab/cavity/lbm"
	"github.com/sarchlab/cavity/monitoring"
	"github.com/sarchlab/cavity/sim"
)

// progressTracker moves a monitor progress bar along with the driver and
// removes it when the simulation ends.
type progressTracker struct {
	monitor *monitoring.Monitor
	bar     *monitoring.ProgressBar
}

func (t *progressTracker) Func(ctx sim.HookCtx) {
	info, ok := ctx.Item.(lbm.StepInfo)
	if !ok {
		return
	}

	if ctx.Pos == lbm.HookPosStepDone {
		t.bar.SetFinished(uint64(info.Iteration))
	}
}

func (t *progressTracker) Handle(_ sim.VTime) {
	t.monitor.CompleteProgressBar(t.bar)
}
