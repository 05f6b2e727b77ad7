// Package plots renders the run's charts to image files. The format follows
// the file extension (png, svg, pdf).
package plots

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Curve is one labeled ROC curve.
type Curve struct {
	Label string
	FPR   []float64
	TPR   []float64
}

// Bar is one labeled bar.
type Bar struct {
	Label string
	Value float64
}

// ROC draws the curves against the chance diagonal.
func ROC(path string, curves ...Curve) error {
	p := plot.New()
	p.Title.Text = "ROC"
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return err
	}
	chance.Color = color.Gray{Y: 160}
	chance.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(chance)

	var lines []any
	for _, c := range curves {
		if len(c.FPR) != len(c.TPR) {
			return fmt.Errorf("curve %q: %d fpr values, %d tpr values", c.Label, len(c.FPR), len(c.TPR))
		}
		xys := make(plotter.XYs, len(c.FPR))
		for i := range c.FPR {
			xys[i].X = c.FPR[i]
			xys[i].Y = c.TPR[i]
		}
		lines = append(lines, c.Label, xys)
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return err
	}
	p.Legend.Top = false

	return save(p, 5*vg.Inch, 5*vg.Inch, path)
}

// Bars draws a horizontal bar chart with the first bar at the top.
func Bars(path, title, axis string, bars []Bar) error {
	if len(bars) == 0 {
		return fmt.Errorf("plot %q: no bars", title)
	}

	values := make(plotter.Values, len(bars))
	labels := make([]string, len(bars))
	for i, b := range bars {
		j := len(bars) - 1 - i
		values[j] = b.Value
		labels[j] = b.Label
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = axis

	chart, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return err
	}
	chart.Horizontal = true
	chart.LineStyle.Width = 0
	chart.Color = plotutil.Color(0)
	p.Add(chart)
	p.NominalY(labels...)
	p.Y.Tick.Label.XAlign = draw.XRight

	height := vg.Length(len(bars))*vg.Points(20) + 1.5*vg.Inch
	return save(p, 6*vg.Inch, height, path)
}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
