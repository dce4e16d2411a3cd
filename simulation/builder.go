package simulation

import (
	"fmt"
	"log"

	"github.com/rs/xid"

	"github.com/sarchlab/cavity/config"
	"github.com/sarchlab/cavity/datarecording"
	"github.com/sarchlab/cavity/lbm"
	"github.com/sarchlab/cavity/monitoring"
	"github.com/sarchlab/cavity/sim"
)

// Builder can be used to build a simulation.
type Builder struct {
	cfg            config.Config
	logger         *log.Logger
	eventLogger    *log.Logger
	monitorOn      bool
	monitorPort    int
	recordingOn    bool
	outputFileName string
}

// MakeBuilder creates a new builder with the default cavity configuration.
func MakeBuilder() Builder {
	return Builder{
		cfg:       config.Default(),
		logger:    log.Default(),
		monitorOn: true,
	}
}

// WithConfig sets the run parameters.
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithLogger sets the logger that receives progress messages.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

// WithEventLogging prints every event the engine handles into logger.
func (b Builder) WithEventLogging(logger *log.Logger) Builder {
	b.eventLogger = logger
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithRecording stores the run in an SQLite database.
func (b Builder) WithRecording() Builder {
	b.recordingOn = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
// It implies WithRecording.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.recordingOn = true
	b.outputFileName = filename

	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	if err := b.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &Simulation{
		id:     xid.New().String(),
		cfg:    b.cfg,
		engine: sim.NewSerialEngine(),
	}

	if b.eventLogger != nil {
		s.engine.AcceptHook(sim.NewEventLogger(b.eventLogger))
	}

	driver, err := lbm.MakeBuilder().
		WithEngine(s.engine).
		WithGrid(b.cfg.Width, b.cfg.Height).
		WithLidVelocity(b.cfg.LidVelocity).
		WithOmega(b.cfg.Omega()).
		WithIterations(b.cfg.Iterations).
		WithWorkers(b.cfg.Workers).
		WithDensityCheck(b.cfg.CheckEvery).
		Build("Cavity")
	if err != nil {
		return nil, err
	}

	s.driver = driver
	s.driver.AcceptHook(lbm.NewStepLogger(b.logger, b.cfg.LogEvery))

	if b.recordingOn {
		if err := b.buildRecorder(s); err != nil {
			return nil, err
		}
	}

	if b.monitorOn {
		b.buildMonitor(s)
	}

	return s, nil
}

func (b Builder) buildRecorder(s *Simulation) error {
	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "cavity_" + s.id
	}

	dataRecorder, err := datarecording.New(outputPath)
	if err != nil {
		return err
	}

	s.dataRecorder = dataRecorder

	recorder := lbm.NewRecorder(dataRecorder, b.cfg.RecordEvery)
	recorder.RecordRun(lbm.RunEntry{
		ID:          s.id,
		Width:       b.cfg.Width,
		Height:      b.cfg.Height,
		LidVelocity: b.cfg.LidVelocity,
		Reynolds:    b.cfg.Reynolds,
		Viscosity:   b.cfg.Viscosity(),
		Omega:       b.cfg.Omega(),
		Iterations:  b.cfg.Iterations,
	})
	s.driver.AcceptHook(recorder)

	return nil
}

func (b Builder) buildMonitor(s *Simulation) {
	s.monitor = monitoring.NewMonitor()
	if b.monitorPort > 0 {
		s.monitor.WithPortNumber(b.monitorPort)
	}

	s.monitor.RegisterEngine(s.engine)
	s.monitor.RegisterDriver(s.driver)

	bar := s.monitor.CreateProgressBar(
		s.driver.Name(), uint64(b.cfg.Iterations))
	tracker := &progressTracker{monitor: s.monitor, bar: bar}
	s.driver.AcceptHook(tracker)
	s.engine.RegisterSimulationEndHandler(tracker)

	s.monitorURL = s.monitor.StartServer()
}
