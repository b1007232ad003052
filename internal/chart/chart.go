// Package chart renders line charts with shaded recession bands to PNG, SVG
// or PDF using gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/dailygraphs/dailygraphs/internal/model"
)

// ErrNoData is returned when a figure has no drawable points.
var ErrNoData = errors.New("no drawable points")

// Default figure size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// XY is one point of a line.
type XY struct {
	X, Y float64
}

// Line is a styled sequence of points. Missing (NaN) and infinite points
// split the line into separate segments.
type Line struct {
	Label  string
	Points []XY
	Color  color.Color
	Width  vg.Length
	Dashed bool
}

// Range is a closed axis interval.
type Range struct {
	Min, Max float64
}

// Label is a text annotation anchored at a data point.
type Label struct {
	X, Y float64
	Text string
}

// Figure describes a whole chart.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	LogX   bool
	LogY   bool
	// YRange fixes the Y axis limits when set.
	YRange *Range
	// TimeAxis formats X values, which must be Unix seconds, as years.
	TimeAxis bool
	Legend   bool
	Lines    []Line
	Bands    []model.Span
	Labels   []Label
	Width    vg.Length
	Height   vg.Length
}

// TimeX converts a date to the X coordinate used on time axes.
func TimeX(t time.Time) float64 {
	return float64(t.Unix())
}

// FromObservations converts a dated series to points on a time axis.
func FromObservations(obs []model.Observation) []XY {
	pts := make([]XY, len(obs))
	for i, o := range obs {
		pts[i] = XY{X: TimeX(o.Date), Y: o.Value}
	}
	return pts
}

// FromYears pairs an annual year axis with values.
func FromYears(years []int, values []float64) []XY {
	n := min(len(years), len(values))
	pts := make([]XY, n)
	for i := 0; i < n; i++ {
		pts[i] = XY{X: float64(years[i]), Y: values[i]}
	}
	return pts
}

// Segments splits points into runs of drawable values. On a log axis
// non-positive values are not drawable either.
func Segments(pts []XY, logX, logY bool) []plotter.XYs {
	var segs []plotter.XYs
	var cur plotter.XYs
	for _, p := range pts {
		if !drawable(p, logX, logY) {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: p.X, Y: p.Y})
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

func drawable(p XY, logX, logY bool) bool {
	if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
		return false
	}
	return (!logX || p.X > 0) && (!logY || p.Y > 0)
}

// Build assembles the gonum plot for a figure.
func Build(fig Figure) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel
	if fig.LogX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if fig.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if fig.TimeAxis {
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006"}
	}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	if len(fig.Bands) > 0 {
		p.Add(NewBands(fig.Bands))
	}

	var drawn int
	for _, ln := range fig.Lines {
		for i, seg := range Segments(ln.Points, fig.LogX, fig.LogY) {
			l, err := plotter.NewLine(seg)
			if err != nil {
				return nil, fmt.Errorf("line %q: %w", ln.Label, err)
			}
			if ln.Color != nil {
				l.Color = ln.Color
			}
			if ln.Width > 0 {
				l.Width = ln.Width
			}
			if ln.Dashed {
				l.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
			}
			p.Add(l)
			drawn += len(seg)
			if i == 0 && fig.Legend && ln.Label != "" {
				p.Legend.Add(ln.Label, l)
			}
		}
	}
	if drawn == 0 {
		return nil, ErrNoData
	}

	if labels := drawableLabels(fig.Labels, fig.LogX, fig.LogY); len(labels.Labels) > 0 {
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return nil, fmt.Errorf("labels: %w", err)
		}
		p.Add(l)
	}

	if r := fig.YRange; r != nil {
		p.Y.Min, p.Y.Max = r.Min, r.Max
	}
	return p, nil
}

func drawableLabels(labels []Label, logX, logY bool) plotter.XYLabels {
	var out plotter.XYLabels
	for _, l := range labels {
		if !drawable(XY{X: l.X, Y: l.Y}, logX, logY) {
			continue
		}
		out.XYs = append(out.XYs, plotter.XY{X: l.X, Y: l.Y})
		out.Labels = append(out.Labels, l.Text)
	}
	return out
}

// Render builds the figure and saves it to path. The format follows the
// file extension.
func Render(fig Figure, path string) error {
	p, err := Build(fig)
	if err != nil {
		return fmt.Errorf("building %s: %w", filepath.Base(path), err)
	}

	w, h := fig.Width, fig.Height
	if w == 0 {
		w = DefaultWidth
	}
	if h == 0 {
		h = DefaultHeight
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
