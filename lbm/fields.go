package lbm

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/cavity/lattice"
	"gonum.org/v1/gonum/floats"
)

// ErrNonPositiveDensity reports a cell whose density is zero, negative or not
// a number. Velocities are undefined there and the run is meaningless.
var ErrNonPositiveDensity = errors.New("non-positive density")

// DensityError locates a density violation.
type DensityError struct {
	Cell int
	I, J int
	Rho  float64
}

func (e *DensityError) Error() string {
	return fmt.Sprintf("%s at cell (%d, %d): rho = %g",
		ErrNonPositiveDensity, e.I, e.J, e.Rho)
}

// Unwrap makes errors.Is(err, ErrNonPositiveDensity) hold.
func (e *DensityError) Unwrap() error {
	return ErrNonPositiveDensity
}

// Moments returns the density and velocity of one cell's populations.
func Moments(d lattice.Descriptor, f []float64) (rho, ux, uy float64) {
	for k := 0; k < lattice.Q; k++ {
		rho += f[k]
		ux += f[k] * float64(d.Cx[k])
		uy += f[k] * float64(d.Cy[k])
	}

	return rho, ux / rho, uy / rho
}

// CheckDensity returns a *DensityError for the first cell of p whose density
// is not strictly positive.
func CheckDensity(g lattice.Grid, p Populations) error {
	for cell := 0; cell < g.NumCells(); cell++ {
		rho := floats.Sum(p.Cell(cell))
		if rho > 0 {
			continue
		}

		i, j := g.Coord(cell)

		return &DensityError{Cell: cell, I: i, J: j, Rho: rho}
	}

	return nil
}

// Fields holds the macroscopic density and velocity of every cell, indexed
// by the grid's cell index.
type Fields struct {
	Grid lattice.Grid
	Rho  []float64
	Ux   []float64
	Uy   []float64
}

// ComputeFields derives the macroscopic fields from a population arena.
func ComputeFields(
	g lattice.Grid,
	d lattice.Descriptor,
	p Populations,
) Fields {
	n := g.NumCells()
	f := Fields{
		Grid: g,
		Rho:  make([]float64, n),
		Ux:   make([]float64, n),
		Uy:   make([]float64, n),
	}

	for cell := 0; cell < n; cell++ {
		f.Rho[cell], f.Ux[cell], f.Uy[cell] = Moments(d, p.Cell(cell))
	}

	return f
}

// At returns the values at (i, j). The coordinate must be inside the grid.
func (f Fields) At(i, j int) (rho, ux, uy float64) {
	cell := f.Grid.Index(i, j)
	return f.Rho[cell], f.Ux[cell], f.Uy[cell]
}

// Mass returns the total density.
func (f Fields) Mass() float64 {
	return floats.Sum(f.Rho)
}

// MeanDensity returns the average density per cell.
func (f Fields) MeanDensity() float64 {
	return f.Mass() / float64(len(f.Rho))
}

// MinDensity returns the smallest cell density.
func (f Fields) MinDensity() float64 {
	return floats.Min(f.Rho)
}

// MaxDensity returns the largest cell density.
func (f Fields) MaxDensity() float64 {
	return floats.Max(f.Rho)
}

// MaxSpeed returns the largest velocity magnitude.
func (f Fields) MaxSpeed() float64 {
	speed := make([]float64, len(f.Ux))
	for i := range speed {
		speed[i] = math.Hypot(f.Ux[i], f.Uy[i])
	}

	return floats.Max(speed)
}

// CheckDensity returns a *DensityError for the first cell whose density is
// not strictly positive.
func (f Fields) CheckDensity() error {
	for cell, rho := range f.Rho {
		if rho > 0 {
			continue
		}

		i, j := f.Grid.Coord(cell)

		return &DensityError{Cell: cell, I: i, J: j, Rho: rho}
	}

	return nil
}
