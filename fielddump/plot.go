package fielddump

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sarchlab/cavity/lbm"
)

// Centerlines returns the velocity profiles through the middle of the
// cavity: ux along the vertical centerline against depth, and uy along the
// horizontal centerline against x. Positions are normalized to [0, 1] and
// velocities to the lid velocity.
func Centerlines(f lbm.Fields, uLid float64) (vertical, horizontal plotter.XYs) {
	width, height := f.Grid.Width(), f.Grid.Height()
	ci, cj := width/2, height/2

	scale := 1.0
	if uLid != 0 {
		scale = 1 / uLid
	}

	vertical = make(plotter.XYs, height)
	for j := 0; j < height; j++ {
		_, ux, _ := f.At(ci, j)
		vertical[j].X = ux * scale
		vertical[j].Y = position(j, height)
	}

	horizontal = make(plotter.XYs, width)
	for i := 0; i < width; i++ {
		_, _, uy := f.At(i, cj)
		horizontal[i].X = position(i, width)
		horizontal[i].Y = uy * scale
	}

	return vertical, horizontal
}

func position(n, size int) float64 {
	if size == 1 {
		return 0
	}

	return float64(n) / float64(size-1)
}

// WritePlot saves the centerline profiles as an image. The format follows
// the extension of path, e.g. .png or .svg.
func WritePlot(path string, f lbm.Fields, uLid float64) error {
	vertical, horizontal := Centerlines(f, uLid)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Cavity centerlines, %dx%d",
		f.Grid.Width(), f.Grid.Height())
	p.X.Label.Text = "ux / uLid (vertical), x (horizontal)"
	p.Y.Label.Text = "depth (vertical), uy / uLid (horizontal)"
	p.Add(plotter.NewGrid())

	vLine, err := plotter.NewLine(vertical)
	if err != nil {
		return err
	}

	hLine, err := plotter.NewLine(horizontal)
	if err != nil {
		return err
	}
	hLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(vLine, hLine)
	p.Legend.Add("ux on x = 1/2", vLine)
	p.Legend.Add("uy on depth = 1/2", hLine)

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}
