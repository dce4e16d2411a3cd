// Package fielddump writes the final macroscopic field of a cavity run as a
// plain text table.
package fielddump

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/cavity/lbm"
)

// DefaultFileName is the name of the table when none is given.
const DefaultFileName = "out.txt"

// Write prints one line per cell, in cell index order, as
//
//	i, j, ux, uy, rho
//
// with 16 significant digits per float.
func Write(w io.Writer, f lbm.Fields) error {
	bw := bufio.NewWriter(w)

	for cell := range f.Rho {
		i, j := f.Grid.Coord(cell)

		_, err := fmt.Fprintf(bw, "%d, %d, %.16g, %.16g, %.16g\n",
			i, j, f.Ux[cell], f.Uy[cell], f.Rho[cell])
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteFile writes the table to path, replacing any existing file. An empty
// path means DefaultFileName.
func WriteFile(path string, f lbm.Fields) (err error) {
	if path == "" {
		path = DefaultFileName
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()

	return Write(file, f)
}
