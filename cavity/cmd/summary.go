package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cavity/datarecording"
	"github.com/sarchlab/cavity/lbm"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [recording.sqlite3]",
	Short: "Print the parameters and step diagnostics of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		return printSummary(cmd.Context(), args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func printSummary(ctx context.Context, file string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	reader, err := datarecording.NewReader(file)
	if err != nil {
		return err
	}
	defer reader.Close()

	reader.MapTable(lbm.RunTable, lbm.RunEntry{})
	reader.MapTable(lbm.StepTable, lbm.StepEntry{})

	runs, _, err := reader.Query(ctx, lbm.RunTable, datarecording.QueryParams{})
	if err != nil {
		return err
	}

	for _, r := range runs {
		run := r.(*lbm.RunEntry)
		fmt.Fprintf(out,
			"run %s: %dx%d, lid velocity %g, Re %g, nu %g, omega %g, %d iterations\n",
			run.ID, run.Width, run.Height, run.LidVelocity, run.Reynolds,
			run.Viscosity, run.Omega, run.Iterations)
	}

	steps, _, err := reader.Query(ctx, lbm.StepTable,
		datarecording.QueryParams{OrderBy: "Iteration"})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "iteration\tmass\tmean rho\tmin rho\tmax rho\tmax speed")

	for _, s := range steps {
		step := s.(*lbm.StepEntry)
		fmt.Fprintf(tw, "%d\t%.12g\t%.12g\t%.12g\t%.12g\t%.6g\n",
			step.Iteration, step.Mass, step.MeanDensity, step.MinDensity,
			step.MaxDensity, step.MaxSpeed)
	}

	return tw.Flush()
}
