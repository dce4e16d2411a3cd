// Package simulation assembles a complete cavity run from a configuration:
// the engine, the driver and its hooks, and the optional recorder and
// monitor.
package simulation

import (
	"github.com/sarchlab/cavity/config"
	"github.com/sarchlab/cavity/datarecording"
	"github.com/sarchlab/cavity/lbm"
	"github.com/sarchlab/cavity/monitoring"
	"github.com/sarchlab/cavity/sim"
)

// A Simulation provides the services required to carry out a cavity run.
type Simulation struct {
	id  string
	cfg config.Config

	engine sim.Engine
	driver *lbm.Driver

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	monitorURL   string
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Config returns the parameters of the run.
func (s *Simulation) Config() config.Config {
	return s.cfg
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDriver returns the driver that advances the cavity.
func (s *Simulation) GetDriver() *lbm.Driver {
	return s.driver
}

// GetDataRecorder returns the data recorder used in the simulation. It is nil
// when recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitoring server, or an empty
// string when monitoring is off.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// Run carries out all the iterations. The simulation end handlers run even
// when the run fails.
func (s *Simulation) Run() error {
	defer s.engine.Finished()

	return s.driver.Run()
}

// Fields returns the macroscopic fields of the latest step.
func (s *Simulation) Fields() lbm.Fields {
	return s.driver.Fields()
}

// Terminate terminates the simulation.
func (s *Simulation) Terminate() error {
	if s.dataRecorder == nil {
		return nil
	}

	return s.dataRecorder.Close()
}
