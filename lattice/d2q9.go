package lattice

// Q is the number of discrete velocities of the D2Q9 stencil.
const Q = 9

// Cs2 is the lattice speed of sound squared.
const Cs2 = 1.0 / 3.0

// Descriptor holds the discrete velocities of the stencil, their weights,
// and the index of the opposite direction of each velocity.
type Descriptor struct {
	Cx  [Q]int
	Cy  [Q]int
	W   [Q]float64
	Opp [Q]int
}

// D2Q9 returns the descriptor of the D2Q9 stencil. Direction 0 is at rest,
// 1-4 are the axis directions (E, N, W, S) and 5-8 the diagonals
// (NE, NW, SW, SE).
func D2Q9() Descriptor {
	return Descriptor{
		Cx:  [Q]int{0, 1, 0, -1, 0, 1, -1, -1, 1},
		Cy:  [Q]int{0, 0, 1, 0, -1, 1, 1, -1, -1},
		Opp: [Q]int{0, 3, 4, 1, 2, 7, 8, 5, 6},
		W: [Q]float64{
			4.0 / 9.0,
			1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0,
			1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
		},
	}
}

// Dot returns c_k . u.
func (d Descriptor) Dot(k int, ux, uy float64) float64 {
	return float64(d.Cx[k])*ux + float64(d.Cy[k])*uy
}

// Equilibrium returns the second-order equilibrium population of direction k
// at density rho and velocity (ux, uy).
func (d Descriptor) Equilibrium(k int, rho, ux, uy float64) float64 {
	cu := d.Dot(k, ux, uy)
	usq := ux*ux + uy*uy

	return d.W[k] * rho * (1 + 3*cu + 4.5*cu*cu - 1.5*usq)
}
