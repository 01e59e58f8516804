// Package plots draws PNG charts of a reconciled experiment.
package plots

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/skypies/geo"

	"github.com/skypies/lorarange/binning"
	"github.com/skypies/lorarange/reception"
	"github.com/skypies/lorarange/report"
)

// Options sizes the output images.
type Options struct {
	Width, Height vg.Length
}

func DefaultOptions() Options { return Options{Width: 8 * vg.Inch, Height: 6 * vg.Inch} }

// {{{ RSSIvsDistance

// RSSIvsDistance scatters the RSSI of every received packet against its distance from the
// base station. Dropped packets are marked along the bottom of the chart.
func RSSIvsDistance(title string, recs []reception.Record, floor float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Distance from base station (m)"
	p.Y.Label.Text = "RSSI (dBm)"
	p.Add(plotter.NewGrid())

	heard := plotter.XYs{}
	lost := plotter.XYs{}
	for _, r := range recs {
		if r.IsDropped() {
			lost = append(lost, plotter.XY{X: r.DistanceMeters, Y: floor})
		} else {
			heard = append(heard, plotter.XY{X: r.DistanceMeters, Y: float64(r.RSSI)})
		}
	}

	if len(heard) > 0 {
		s, err := plotter.NewScatter(heard)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = report.StrongColor
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add("received", s)
	}
	if len(lost) > 0 {
		s, err := plotter.NewScatter(lost)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = report.DroppedColor
		s.GlyphStyle.Shape = draw.CrossGlyph{}
		p.Add(s)
		p.Legend.Add("dropped", s)
	}
	p.Legend.Top = true

	return p, nil
}

// }}}
// {{{ PRRvsDistance

// PRRvsDistance plots the reception ratio of each radial band, at the band's midpoint.
func PRRvsDistance(title string, rb *binning.Radial) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Distance from base station (m)"
	p.Y.Label.Text = "PRR (%)"
	p.Y.Min, p.Y.Max = 0, 100
	p.Add(plotter.NewGrid())

	keys := rb.Keys()
	if len(keys) == 0 {
		return p, nil
	}

	pts := make(plotter.XYs, len(keys))
	for i, b := range keys {
		lo, hi := rb.Range(b)
		pts[i].X = (lo + hi) / 2
		pts[i].Y = 100 * rb.Bands[b].PRR()
	}

	if err := plotutil.AddLinePoints(p, "PRR", pts); err != nil {
		return nil, err
	}
	return p, nil
}

// }}}
// {{{ Coverage

// Coverage is the map view: every transmission at its position, coloured by RSSI (grey if
// dropped), with the base station marked.
func Coverage(title string, recs []reception.Record, base geo.Latlong, g report.Gradient) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	if len(recs) > 0 {
		pts := make(plotter.XYs, len(recs))
		for i, r := range recs {
			pts[i].X, pts[i].Y = r.Pos.Long, r.Pos.Lat
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{
				Color:  g.Color(recs[i].RSSI),
				Radius: vg.Points(3),
				Shape:  draw.CircleGlyph{},
			}
		}
		p.Add(s)
	}

	b, err := plotter.NewScatter(plotter.XYs{{X: base.Long, Y: base.Lat}})
	if err != nil {
		return nil, err
	}
	b.GlyphStyle = draw.GlyphStyle{Color: report.WeakColor, Radius: vg.Points(6), Shape: draw.PyramidGlyph{}}
	p.Add(b)
	p.Legend.Add("base station", b)

	return p, nil
}

// }}}

// {{{ SaveAll

// SaveAll writes the three standard charts into dir and returns their paths.
func SaveAll(dir, name string, recs []reception.Record, base geo.Latlong, rb *binning.Radial,
	g report.Gradient, opts Options) ([]string, error) {

	rssi, err := RSSIvsDistance(name+": RSSI vs distance", recs, float64(g.Min)-5)
	if err != nil {
		return nil, fmt.Errorf("rssi plot: %w", err)
	}
	prr, err := PRRvsDistance(name+": PRR vs distance", rb)
	if err != nil {
		return nil, fmt.Errorf("prr plot: %w", err)
	}
	cov, err := Coverage(name+": coverage", recs, base, g)
	if err != nil {
		return nil, fmt.Errorf("coverage plot: %w", err)
	}

	charts := []struct {
		file string
		p    *plot.Plot
	}{
		{"rssi_vs_distance.png", rssi},
		{"prr_vs_distance.png", prr},
		{"coverage.png", cov},
	}

	paths := []string{}
	for _, c := range charts {
		path := filepath.Join(dir, c.file)
		if err := c.p.Save(opts.Width, opts.Height, path); err != nil {
			return nil, fmt.Errorf("save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// }}}
