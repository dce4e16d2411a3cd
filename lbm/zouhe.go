package lbm

import (
	"github.com/sarchlab/cavity/lattice"
)

// LidBoundary imposes a tangential velocity on the lid row with the Zou-He
// condition.
//
// The lid is row j = 0. After streaming, directions 4, 7 and 8 at the lid
// arrived from the fluid and are known, 0, 1 and 3 are tangential, and 2, 5
// and 6 hold bounce-back values that are replaced. The direction numbers
// follow lattice.D2Q9.
type LidBoundary struct {
	grid lattice.Grid
	row  int
	ux   float64
	uy   float64
}

// NewLidBoundary creates the lid condition for a lid moving along x at uLid.
func NewLidBoundary(g lattice.Grid, uLid float64) *LidBoundary {
	return &LidBoundary{
		grid: g,
		row:  0,
		ux:   uLid,
		uy:   0,
	}
}

// Row returns the j coordinate of the lid.
func (b *LidBoundary) Row() int {
	return b.row
}

// Velocity returns the prescribed lid velocity.
func (b *LidBoundary) Velocity() (ux, uy float64) {
	return b.ux, b.uy
}

// Apply overwrites the unknown populations of every lid cell in dst. It must
// run after the kernel pass that wrote dst has finished.
func (b *LidBoundary) Apply(dst Populations) {
	ux, uy := b.ux, b.uy

	for i := 0; i < b.grid.Width(); i++ {
		f := dst.Cell(b.grid.Index(i, b.row))

		rho := (f[0] + f[1] + f[3] + 2*(f[4]+f[7]+f[8])) / (1 - uy)
		tangential := 0.5 * (f[1] - f[3])

		f[2] = f[4] + (2.0/3.0)*rho*uy
		f[5] = f[7] - tangential + 0.5*rho*ux + (1.0/6.0)*rho*uy
		f[6] = f[8] + tangential - 0.5*rho*ux + (1.0/6.0)*rho*uy
	}
}
