package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/pacesim/internal/sim"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type Chart string

const (
	ChartCumulative Chart = "cumulative"
	ChartCurrent    Chart = "current"
	ChartPacing     Chart = "pacing"
)

func Charts() []Chart {
	return []Chart{ChartCumulative, ChartCurrent, ChartPacing}
}

var (
	referenceColor = color.RGBA{R: 0x88, G: 0x84, B: 0xd8, A: 0xff}
	actualColor    = color.RGBA{R: 0x82, G: 0xca, B: 0x9d, A: 0xff}

	chartWidth  = 9 * vg.Inch
	chartHeight = 3 * vg.Inch
)

// NewPlot builds one of the three session charts. The x axis always spans the
// whole horizon so partial runs line up with complete ones.
func NewPlot(h sim.History, kind Chart, horizon int) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Period"
	p.X.Min, p.X.Max = 0, float64(horizon)
	p.Y.Min = 0
	p.Add(plotter.NewGrid())

	switch kind {
	case ChartCumulative:
		p.Title.Text = "Cumulative Reference vs Actual"
		if err := addCompare(p, h.Cumulative); err != nil {
			return nil, err
		}
	case ChartCurrent:
		p.Title.Text = "Current Reference vs Actual"
		if err := addCompare(p, h.Current); err != nil {
			return nil, err
		}
	case ChartPacing:
		p.Title.Text = "Pacing Factor"
		p.Y.Max = 1
		if len(h.PacingFactors) == 0 {
			break
		}
		pts := make(plotter.XYs, len(h.PacingFactors))
		for i, pt := range h.PacingFactors {
			pts[i].X, pts[i].Y = float64(pt.Period), pt.Value
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = referenceColor
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add("value", line)
	default:
		return nil, fmt.Errorf("unknown chart: %s", kind)
	}
	return p, nil
}

func addCompare(p *plot.Plot, points []sim.ComparePoint) error {
	if len(points) == 0 {
		return nil
	}
	ref := make(plotter.XYs, len(points))
	act := make(plotter.XYs, len(points))
	for i, pt := range points {
		ref[i].X, ref[i].Y = float64(pt.Period), pt.Reference
		act[i].X, act[i].Y = float64(pt.Period), pt.Actual
	}

	refLine, err := plotter.NewLine(ref)
	if err != nil {
		return err
	}
	refLine.LineStyle.Color = referenceColor
	refLine.LineStyle.Width = vg.Points(1.5)

	actLine, err := plotter.NewLine(act)
	if err != nil {
		return err
	}
	actLine.LineStyle.Color = actualColor
	actLine.LineStyle.Width = vg.Points(1.5)

	p.Add(refLine, actLine)
	p.Legend.Add("reference", refLine)
	p.Legend.Add("actual", actLine)
	p.Legend.Top = true
	return nil
}

// WriteChart renders a chart in any format gonum/plot understands
// ("png", "svg", "pdf", ...).
func WriteChart(w io.Writer, h sim.History, kind Chart, horizon int, format string) error {
	p, err := NewPlot(h, kind, horizon)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(chartWidth, chartHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveCharts writes all three charts into dir and returns the file paths.
func SaveCharts(dir string, h sim.History, horizon int, format string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(Charts()))
	for _, kind := range Charts() {
		path := filepath.Join(dir, fmt.Sprintf("%s.%s", kind, format))
		file, err := os.Create(path)
		if err != nil {
			return paths, err
		}
		err = WriteChart(file, h, kind, horizon, format)
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, fmt.Errorf("chart %s: %w", kind, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
