// Package cmd provides the command-line interface of the cavity simulator.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cavity",
	Short: "Cavity simulates a lid-driven cavity with a D2Q9 lattice Boltzmann solver.",
	Long: `Cavity simulates a lid-driven cavity with a D2Q9 lattice Boltzmann solver. ` +
		`The run command carries out a simulation and writes the final field; ` +
		`the summary command prints a recorded run.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
