package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// NewFitPlot creates a new plot of a least-squares fit from two data sources:
// obs: noisy observations as (x, y) rows
// fit: fitted model values as (x, y) rows
// It returns error if either of the supplied data matrices is nil or does
// not have at least 2 columns.
func NewFitPlot(obs, fit *mat.Dense) (*plot.Plot, error) {
	if obs == nil || fit == nil {
		return nil, fmt.Errorf("invalid data supplied")
	}

	_, co := obs.Dims()
	_, cf := fit.Dims()

	if co < 2 || cf < 2 {
		return nil, fmt.Errorf("invalid data dimensions")
	}

	p := plot.New()

	p.Title.Text = "Least-squares fit"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	// Make a scatter plotter for observation data
	obsScatter, err := plotter.NewScatter(makePoints(obs))
	if err != nil {
		return nil, err
	}
	obsScatter.GlyphStyle.Color = color.RGBA{G: 255, A: 128}
	obsScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(obsScatter)
	p.Legend.Add("observations", obsScatter)

	// Make a scatter plotter for fitted data
	fitScatter, err := plotter.NewScatter(makePoints(fit))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	fitScatter.GlyphStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	fitScatter.Shape = draw.CrossGlyph{}
	fitScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(fitScatter)
	p.Legend.Add("fit", fitScatter)

	return p, nil
}

// NewErrorPlot creates a new plot of estimation error against step count.
// It returns error if errs is empty or the line plotter fails to be created.
func NewErrorPlot(errs []float64) (*plot.Plot, error) {
	if len(errs) == 0 {
		return nil, fmt.Errorf("invalid data supplied")
	}

	p := plot.New()

	p.Title.Text = "Estimation error"
	p.X.Label.Text = "step"
	p.Y.Label.Text = "error"

	pts := make(plotter.XYs, len(errs))
	for i, e := range errs {
		pts[i].X = float64(i)
		pts[i].Y = e
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create line: %v", err)
	}
	line.LineStyle.Color = color.RGBA{R: 169, G: 169, B: 169}

	p.Add(line)
	p.Legend.Add("error", line)

	return p, nil
}

func makePoints(m *mat.Dense) plotter.XYs {
	r, _ := m.Dims()
	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X = m.At(i, 0)
		pts[i].Y = m.At(i, 1)
	}

	return pts
}
