package lattice

import (
	"errors"
	"fmt"
)

// InvalidIndex is returned by Grid.Index for coordinates outside the grid.
const InvalidIndex = -1

// ErrInvalidGrid is returned when a grid is created with a non-positive
// dimension.
var ErrInvalidGrid = errors.New("grid dimensions must be positive")

// Grid is a rectangular lattice of Width x Height cells. Cells are flattened
// with the x coordinate varying fastest.
type Grid struct {
	width  int
	height int
}

// NewGrid creates a grid.
func NewGrid(width, height int) (Grid, error) {
	if width <= 0 || height <= 0 {
		return Grid{}, fmt.Errorf("%w: %dx%d", ErrInvalidGrid, width, height)
	}

	return Grid{width: width, height: height}, nil
}

// MustNewGrid creates a grid and panics if the dimensions are invalid.
func MustNewGrid(width, height int) Grid {
	g, err := NewGrid(width, height)
	if err != nil {
		panic(err)
	}

	return g
}

// Width returns the number of cells along x.
func (g Grid) Width() int {
	return g.width
}

// Height returns the number of cells along y.
func (g Grid) Height() int {
	return g.height
}

// NumCells returns the number of cells in the grid.
func (g Grid) NumCells() int {
	return g.width * g.height
}

// NumSlots returns the size of a population arena covering the grid.
func (g Grid) NumSlots() int {
	return g.NumCells() * Q
}

// Contains tells if (i, j) lies inside the grid.
func (g Grid) Contains(i, j int) bool {
	return i >= 0 && i < g.width && j >= 0 && j < g.height
}

// Index flattens (i, j) into a cell index, or returns InvalidIndex if the
// coordinate is outside the grid.
func (g Grid) Index(i, j int) int {
	if !g.Contains(i, j) {
		return InvalidIndex
	}

	return i + g.width*j
}

// Coord is the inverse of Index.
func (g Grid) Coord(cell int) (i, j int) {
	return cell % g.width, cell / g.width
}

// Slot returns the offset of direction k of a cell in a population arena.
func Slot(cell, k int) int {
	return cell*Q + k
}
