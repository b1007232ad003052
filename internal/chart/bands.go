package chart

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/dailygraphs/dailygraphs/internal/model"
)

// BandColor is grey at half opacity.
var BandColor = color.NRGBA{R: 128, G: 128, B: 128, A: 128}

// Bands shades vertical spans across the full height of the plot area. It
// expects a time axis and does not influence the data range.
type Bands struct {
	Spans []model.Span
	Color color.Color
}

// NewBands returns Bands in the default colour.
func NewBands(spans []model.Span) *Bands {
	return &Bands{Spans: spans, Color: BandColor}
}

// Plot implements plot.Plotter.
func (b *Bands) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, _ := plt.Transforms(&c)
	for _, s := range b.Spans {
		x0, x1 := trX(TimeX(s.Peak)), trX(TimeX(s.Trough))
		pts := c.ClipPolygonX([]vg.Point{
			{X: x0, Y: c.Min.Y},
			{X: x1, Y: c.Min.Y},
			{X: x1, Y: c.Max.Y},
			{X: x0, Y: c.Max.Y},
		})
		if len(pts) == 0 {
			continue
		}
		c.FillPolygon(b.Color, pts)
	}
}
