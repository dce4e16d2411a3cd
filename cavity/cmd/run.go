package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sarchlab/cavity/config"
	"github.com/sarchlab/cavity/fielddump"
	"github.com/sarchlab/cavity/simulation"
)

type runOptions struct {
	envFile     string
	output      string
	plot        string
	record      bool
	recordFile  string
	monitor     bool
	monitorPort int
	openBrowser bool
	traceEvents bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a cavity simulation and write the final field",
	Long: "Run a cavity simulation. Parameters come from the defaults, then " +
		"from CAVITY_* variables in the env file and the environment, then " +
		"from flags.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.LoadEnv(config.Default(), runOpts.envFile)
		if err != nil {
			return err
		}

		cfg, err = overlayFlags(cfg, cmd.Flags())
		if err != nil {
			return err
		}

		return runCavity(cfg, runOpts, cmd.ErrOrStderr())
	},
}

func init() {
	f := runCmd.Flags()

	f.Int("width", 0, "number of cells along x")
	f.Int("height", 0, "number of cells along y")
	f.Float64("lid-velocity", 0, "tangential velocity of the lid")
	f.Float64("reynolds", 0, "Reynolds number")
	f.Int("iterations", 0, "number of time steps")
	f.Int("workers", 0, "goroutines per kernel pass, 0 for GOMAXPROCS")
	f.Int("check-every", 0, "check density positivity every n steps, 0 to disable")
	f.Int("log-every", 0, "print progress every n steps, 0 to disable")
	f.Int("record-every", 0, "record diagnostics every n steps")

	f.StringVar(&runOpts.envFile, "env-file", ".env", "dotenv file with CAVITY_* settings")
	f.StringVarP(&runOpts.output, "output", "o", fielddump.DefaultFileName, "file the final field is written to")
	f.StringVar(&runOpts.plot, "plot", "", "image file for the centerline velocity profiles, e.g. centerlines.png")
	f.BoolVar(&runOpts.record, "record", false, "record the run in an SQLite database")
	f.StringVar(&runOpts.recordFile, "record-file", "", "recording database name, without the .sqlite3 suffix")
	f.BoolVar(&runOpts.monitor, "monitor", false, "serve the monitoring API while running")
	f.IntVar(&runOpts.monitorPort, "monitor-port", 0, "port of the monitoring server, random if 0")
	f.BoolVar(&runOpts.traceEvents, "trace-events", false, "print every engine event")
	f.BoolVar(&runOpts.openBrowser, "open-browser", false, "open the monitoring server in a browser")

	browser.Stdout = os.Stderr

	rootCmd.AddCommand(runCmd)
}

// overlayFlags applies the parameter flags that were set on the command line.
func overlayFlags(cfg config.Config, f *pflag.FlagSet) (config.Config, error) {
	ints := map[string]*int{
		"width":        &cfg.Width,
		"height":       &cfg.Height,
		"iterations":   &cfg.Iterations,
		"workers":      &cfg.Workers,
		"check-every":  &cfg.CheckEvery,
		"log-every":    &cfg.LogEvery,
		"record-every": &cfg.RecordEvery,
	}
	for name, dst := range ints {
		if !f.Changed(name) {
			continue
		}

		v, err := f.GetInt(name)
		if err != nil {
			return cfg, err
		}

		*dst = v
	}

	floats := map[string]*float64{
		"lid-velocity": &cfg.LidVelocity,
		"reynolds":     &cfg.Reynolds,
	}
	for name, dst := range floats {
		if !f.Changed(name) {
			continue
		}

		v, err := f.GetFloat64(name)
		if err != nil {
			return cfg, err
		}

		*dst = v
	}

	return cfg, nil
}

func runCavity(cfg config.Config, opts runOptions, stderr io.Writer) error {
	builder := simulation.MakeBuilder().
		WithConfig(cfg).
		WithLogger(log.New(stderr, "", log.LstdFlags))

	if opts.traceEvents {
		builder = builder.WithEventLogging(log.New(stderr, "", 0))
	}

	if opts.monitor {
		builder = builder.WithMonitorPort(opts.monitorPort)
	} else {
		builder = builder.WithoutMonitoring()
	}

	if opts.record || opts.recordFile != "" {
		builder = builder.WithOutputFileName(opts.recordFile)
	}

	s, err := builder.Build()
	if err != nil {
		return err
	}

	if opts.openBrowser && s.MonitorURL() != "" {
		if err := browser.OpenURL(s.MonitorURL()); err != nil {
			fmt.Fprintf(stderr, "Cannot open browser: %v\n", err)
		}
	}

	fmt.Fprintf(stderr,
		"Running %dx%d cavity, lid velocity %g, Re %g, omega %.6f, %d iterations\n",
		cfg.Width, cfg.Height, cfg.LidVelocity, cfg.Reynolds, cfg.Omega(),
		cfg.Iterations)

	runErr := s.Run()
	if err := s.Terminate(); err != nil && runErr == nil {
		runErr = err
	}

	if runErr != nil {
		return runErr
	}

	if err := fielddump.WriteFile(opts.output, s.Fields()); err != nil {
		return fmt.Errorf("writing %s: %w", opts.output, err)
	}

	fmt.Fprintf(stderr, "Field written to %s\n", opts.output)

	if opts.plot != "" {
		err := fielddump.WritePlot(opts.plot, s.Fields(), cfg.LidVelocity)
		if err != nil {
			return fmt.Errorf("plotting %s: %w", opts.plot, err)
		}
	}

	return nil
}
