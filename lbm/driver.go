package lbm

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/sarchlab/cavity/lattice"
	"github.com/sarchlab/cavity/sim"
)

// Phase is the lifecycle position of a Driver.
type Phase int

// Driver phases. A driver moves from PhaseReady through PhaseStepping to
// PhaseDone, or to PhaseFailed when an invariant check fails.
const (
	PhaseReady Phase = iota
	PhaseStepping
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseStepping:
		return "stepping"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Errors returned by the Driver.
var (
	ErrRunFinished    = errors.New("run already finished")
	ErrAlreadyStarted = errors.New("run already started")
	ErrOutsideGrid    = errors.New("coordinate outside the grid")
)

// HookPosStepDone triggers after every completed step. The hook item is a
// StepInfo.
var HookPosStepDone = &sim.HookPos{Name: "StepDone"}

// HookPosRunDone triggers once when the driver reaches PhaseDone. The hook
// item is a StepInfo.
var HookPosRunDone = &sim.HookPos{Name: "RunDone"}

// StepInfo describes the state of the driver after a step. Populations is the
// current arena and must only be read while the hook runs.
type StepInfo struct {
	Iteration   int
	Iterations  int
	Grid        lattice.Grid
	Descriptor  lattice.Descriptor
	Populations Populations
}

// Fields derives the macroscopic fields of the step.
func (s StepInfo) Fields() Fields {
	return ComputeFields(s.Grid, s.Descriptor, s.Populations)
}

// Status is a snapshot of the driver for reporting.
type Status struct {
	Name        string  `json:"name"`
	Phase       string  `json:"phase"`
	Iteration   int     `json:"iteration"`
	Iterations  int     `json:"iterations"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	LidVelocity float64 `json:"lid_velocity"`
	Omega       float64 `json:"omega"`
	Workers     int     `json:"workers"`
}

// A Driver advances a cavity simulation by a fixed number of steps.
type Driver struct {
	*sim.TickingComponent

	grid   lattice.Grid
	desc   lattice.Descriptor
	state  *State
	kernel *Kernel
	lid    *LidBoundary

	workers    int
	iterations int
	checkEvery int

	iteration int
	phase     Phase
	err       error
}

// Tick runs one step. It keeps the driver ticking until the last step or a
// failure.
func (d *Driver) Tick() bool {
	err := d.Step()
	if errors.Is(err, ErrRunFinished) {
		return false
	}

	if err != nil {
		d.Lock()
		d.err = err
		d.Unlock()

		return false
	}

	return d.Phase() == PhaseStepping
}

// Step advances the simulation by one lattice time step: collide and stream
// into the next arena, apply the lid condition, and swap the arenas.
func (d *Driver) Step() error {
	d.Lock()

	if d.phase == PhaseDone || d.phase == PhaseFailed {
		d.Unlock()
		return ErrRunFinished
	}

	if d.iteration >= d.iterations {
		d.phase = PhaseDone
		d.Unlock()
		d.InvokeHook(d.hookCtx(HookPosRunDone))

		return ErrRunFinished
	}

	d.phase = PhaseStepping
	d.kernel.Pass(d.state.Current(), d.state.Next(), d.workers)
	d.lid.Apply(d.state.Next())
	d.state.Swap()
	d.iteration++

	if err := d.check(); err != nil {
		d.phase = PhaseFailed
		d.Unlock()

		return err
	}

	done := d.iteration == d.iterations
	if done {
		d.phase = PhaseDone
	}
	d.Unlock()

	d.InvokeHook(d.hookCtx(HookPosStepDone))
	if done {
		d.InvokeHook(d.hookCtx(HookPosRunDone))
	}

	return nil
}

func (d *Driver) check() error {
	if d.checkEvery <= 0 || d.iteration%d.checkEvery != 0 {
		return nil
	}

	if err := CheckDensity(d.grid, d.state.Current()); err != nil {
		return fmt.Errorf("%s, iteration %d: %w", d.Name(), d.iteration, err)
	}

	return nil
}

func (d *Driver) hookCtx(pos *sim.HookPos) sim.HookCtx {
	return sim.HookCtx{
		Domain: d,
		Pos:    pos,
		Item: StepInfo{
			Iteration:   d.iteration,
			Iterations:  d.iterations,
			Grid:        d.grid,
			Descriptor:  d.desc,
			Populations: d.state.Current(),
		},
	}
}

// Run schedules the driver on its engine and runs the engine until all steps
// are done. Step n runs at the n-th tick, so at 1 Hz the engine time equals
// the iteration count. Run returns the error that stopped the run, if any.
func (d *Driver) Run() error {
	if d.Phase() != PhaseReady {
		return ErrAlreadyStarted
	}

	d.TickLater()

	if err := d.Engine.Run(); err != nil {
		return err
	}

	return d.err
}

// Phase returns the lifecycle position of the driver.
func (d *Driver) Phase() Phase {
	d.Lock()
	defer d.Unlock()

	return d.phase
}

// Iteration returns the number of completed steps.
func (d *Driver) Iteration() int {
	d.Lock()
	defer d.Unlock()

	return d.iteration
}

// Err returns the error that failed the run, if any.
func (d *Driver) Err() error {
	d.Lock()
	defer d.Unlock()

	return d.err
}

// Grid returns the grid the driver runs on.
func (d *Driver) Grid() lattice.Grid {
	return d.grid
}

// Fields derives the macroscopic fields from the current arena.
func (d *Driver) Fields() Fields {
	d.Lock()
	defer d.Unlock()

	return ComputeFields(d.grid, d.desc, d.state.Current())
}

// Probe returns the macroscopic values of one cell of the current arena.
func (d *Driver) Probe(i, j int) (rho, ux, uy float64, err error) {
	cell := d.grid.Index(i, j)
	if cell == lattice.InvalidIndex {
		return 0, 0, 0, fmt.Errorf("%w: (%d, %d)", ErrOutsideGrid, i, j)
	}

	d.Lock()
	defer d.Unlock()

	rho, ux, uy = Moments(d.desc, d.state.Current().Cell(cell))

	return rho, ux, uy, nil
}

// Status returns a snapshot of the driver.
func (d *Driver) Status() Status {
	d.Lock()
	defer d.Unlock()

	ux, _ := d.lid.Velocity()

	return Status{
		Name:        d.Name(),
		Phase:       d.phase.String(),
		Iteration:   d.iteration,
		Iterations:  d.iterations,
		Width:       d.grid.Width(),
		Height:      d.grid.Height(),
		LidVelocity: ux,
		Omega:       d.kernel.Omega(),
		Workers:     d.workers,
	}
}

// Builder can build Drivers.
type Builder struct {
	engine      sim.Engine
	freq        sim.Freq
	width       int
	height      int
	lidVelocity float64
	omega       float64
	iterations  int
	workers     int
	checkEvery  int
}

// MakeBuilder creates a Builder with a 128x128 grid, a lid velocity of 0.05
// and the relaxation rate of Reynolds number 100.
func MakeBuilder() Builder {
	return Builder{
		freq:        1 * sim.Hz,
		width:       128,
		height:      128,
		lidVelocity: 0.05,
		omega:       1.0 / (3.0*0.064 + 0.5),
		iterations:  10000,
	}
}

// WithEngine sets the engine the driver ticks on.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the tick frequency, i.e. the number of steps per unit of
// simulated time.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithGrid sets the grid dimensions.
func (b Builder) WithGrid(width, height int) Builder {
	b.width = width
	b.height = height

	return b
}

// WithLidVelocity sets the tangential lid velocity.
func (b Builder) WithLidVelocity(u float64) Builder {
	b.lidVelocity = u
	return b
}

// WithOmega sets the BGK relaxation rate.
func (b Builder) WithOmega(omega float64) Builder {
	b.omega = omega
	return b
}

// WithIterations sets the number of steps of the run.
func (b Builder) WithIterations(n int) Builder {
	b.iterations = n
	return b
}

// WithWorkers sets the number of goroutines sharing a kernel pass. Zero means
// GOMAXPROCS.
func (b Builder) WithWorkers(n int) Builder {
	b.workers = n
	return b
}

// WithDensityCheck checks density positivity every n steps. Zero disables
// the check.
func (b Builder) WithDensityCheck(n int) Builder {
	b.checkEvery = n
	return b
}

// Build creates a driver in PhaseReady, with its state at rest equilibrium.
func (b Builder) Build(name string) (*Driver, error) {
	grid, err := lattice.NewGrid(b.width, b.height)
	if err != nil {
		return nil, err
	}

	if b.iterations < 0 {
		return nil, fmt.Errorf("negative iteration count %d", b.iterations)
	}

	engine := b.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	workers := b.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	desc := lattice.D2Q9()
	adj := lattice.BuildAdjacency(grid, desc)

	d := &Driver{
		grid:       grid,
		desc:       desc,
		state:      NewState(grid, desc),
		kernel:     NewKernel(grid, desc, adj, b.omega),
		lid:        NewLidBoundary(grid, b.lidVelocity),
		workers:    workers,
		iterations: b.iterations,
		checkEvery: b.checkEvery,
	}
	d.TickingComponent = sim.NewTickingComponent(name, engine, b.freq, d)

	return d, nil
}
