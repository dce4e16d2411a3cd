// Package lattice describes the D2Q9 velocity stencil and the rectangular
// grid it is laid on.
//
// Populations for all cells live in one contiguous arena. Slot maps a
// (cell, direction) pair to its offset in that arena, and every other
// package addresses populations through it. BuildAdjacency precomputes, for
// every slot, where the post-collision value streams to, folding bounce-back
// at the domain edges into the map.
package lattice
