package lbm

import (
	"sync"

	"github.com/sarchlab/cavity/lattice"
)

// Kernel is the fused BGK collision and streaming operator.
type Kernel struct {
	grid  lattice.Grid
	desc  lattice.Descriptor
	adj   lattice.Adjacency
	omega float64
}

// NewKernel creates a kernel relaxing at rate omega.
func NewKernel(
	g lattice.Grid,
	d lattice.Descriptor,
	adj lattice.Adjacency,
	omega float64,
) *Kernel {
	return &Kernel{
		grid:  g,
		desc:  d,
		adj:   adj,
		omega: omega,
	}
}

// Omega returns the relaxation rate.
func (k *Kernel) Omega() float64 {
	return k.omega
}

// Collide relaxes the populations of one cell of src towards equilibrium and
// stores the post-collision values in out. It returns the moments computed
// before relaxation. Density is not checked; a non-positive density yields
// non-finite velocities.
func (k *Kernel) Collide(
	src Populations,
	cell int,
	out *[lattice.Q]float64,
) (rho, ux, uy float64) {
	f := src.Cell(cell)
	rho, ux, uy = Moments(k.desc, f)

	usq := ux*ux + uy*uy
	for q := 0; q < lattice.Q; q++ {
		cu := k.desc.Dot(q, ux, uy)
		feq := k.desc.W[q] * rho * (1 + 3*cu + 4.5*cu*cu - 1.5*usq)
		out[q] = k.omega*feq + (1-k.omega)*f[q]
	}

	return rho, ux, uy
}

// PassRange collides the cells in [lo, hi) of src and scatters the results
// into dst through the adjacency map. Different cells never write the same
// destination slot, so disjoint ranges may run concurrently.
func (k *Kernel) PassRange(src, dst Populations, lo, hi int) {
	var out [lattice.Q]float64

	for cell := lo; cell < hi; cell++ {
		k.Collide(src, cell, &out)

		base := lattice.Slot(cell, 0)
		for q := 0; q < lattice.Q; q++ {
			dst[k.adj[base+q]] = out[q]
		}
	}
}

// Pass runs the kernel over the whole grid, splitting the cells into at most
// workers contiguous chunks. It returns after every chunk is written.
func (k *Kernel) Pass(src, dst Populations, workers int) {
	n := k.grid.NumCells()
	if workers <= 1 || n < 2*workers {
		k.PassRange(src, dst, 0, n)
		return
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			k.PassRange(src, dst, lo, hi)
		}(lo, hi)
	}

	wg.Wait()
}
