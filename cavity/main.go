// Command cavity simulates a lid-driven cavity with the lattice Boltzmann
// method.
package main

import "github.com/sarchlab/cavity/cavity/cmd"

func main() {
	cmd.Execute()
}
