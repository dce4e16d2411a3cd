package lattice

// Adjacency maps every arena slot to the slot its post-collision population
// streams into.
type Adjacency []int

// BuildAdjacency computes the streaming destinations of a grid. A population
// whose neighbor lies inside the grid lands on the neighbor's slot of the same
// direction. A population that would leave the grid is bounced back onto the
// origin cell's slot of the opposite direction.
func BuildAdjacency(g Grid, d Descriptor) Adjacency {
	adj := make(Adjacency, g.NumSlots())

	for cell := 0; cell < g.NumCells(); cell++ {
		i, j := g.Coord(cell)

		for k := 0; k < Q; k++ {
			nbr := g.Index(i+d.Cx[k], j+d.Cy[k])
			if nbr == InvalidIndex {
				adj[Slot(cell, k)] = Slot(cell, d.Opp[k])
				continue
			}

			adj[Slot(cell, k)] = Slot(nbr, k)
		}
	}

	return adj
}

// Dest returns the destination slot of direction k leaving cell.
func (a Adjacency) Dest(cell, k int) int {
	return a[Slot(cell, k)]
}
