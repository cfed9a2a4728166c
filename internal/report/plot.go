package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Curve renders a single (x, y) line plot, used for the elbow and
// silhouette curves of the K sweep.
func Curve(path, title, xLabel, yLabel, legend string, xs []float64, ys []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	if err := plotutil.AddLinePoints(p, legend, pts); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// Scatter renders the PCA projection colored by cluster label.
func Scatter(path, title string, proj [][]float64, labels []int, k int) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "PC1"
	p.Y.Label.Text = "PC2"

	for c := 0; c < k; c++ {
		var pts plotter.XYs
		for i, row := range proj {
			if labels[i] == c {
				pts = append(pts, plotter.XY{X: row[0], Y: row[1]})
			}
		}
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = plotutil.Color(c)
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("cluster %d", c), s)
	}
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}
