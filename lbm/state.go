package lbm

import (
	"github.com/sarchlab/cavity/lattice"
)

// Populations is an arena of Q populations per cell, addressed with
// lattice.Slot.
type Populations []float64

// Cell returns the Q populations of a cell. The returned slice aliases the
// arena.
func (p Populations) Cell(cell int) []float64 {
	base := lattice.Slot(cell, 0)
	return p[base : base+lattice.Q : base+lattice.Q]
}

// State owns the two population arenas of a run. One is current and holds
// the state of the last completed step; the other is written by the next
// step. The roles alternate by Swap.
type State struct {
	current Populations
	next    Populations
}

// NewState allocates both arenas for a grid. The current arena starts at
// rest equilibrium (density 1, zero velocity) and the next arena at zero.
func NewState(g lattice.Grid, d lattice.Descriptor) *State {
	s := &State{
		current: make(Populations, g.NumSlots()),
		next:    make(Populations, g.NumSlots()),
	}

	for cell := 0; cell < g.NumCells(); cell++ {
		f := s.current.Cell(cell)
		for k := 0; k < lattice.Q; k++ {
			f[k] = d.W[k]
		}
	}

	return s
}

// Current returns the arena holding the last completed step.
func (s *State) Current() Populations {
	return s.current
}

// Next returns the arena the next step writes into.
func (s *State) Next() Populations {
	return s.next
}

// Swap exchanges the roles of the two arenas. No data is copied.
func (s *State) Swap() {
	s.current, s.next = s.next, s.current
}
