// Package lbm implements a D2Q9 BGK lattice Boltzmann solver for the
// lid-driven cavity.
//
// A step runs the fused collision-streaming kernel from the current
// population arena into the next one, imposes the lid velocity with the
// Zou-He condition on the lid row, and swaps the two arenas. The three
// stationary walls are handled by bounce-back folded into the adjacency
// map. The Driver sequences steps as a ticking component on a sim.Engine.
package lbm
