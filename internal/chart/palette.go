package chart

import (
	"image/color"

	"github.com/dailygraphs/dailygraphs/internal/model"
)

// Series colours for charts with a handful of lines.
var Palette = []color.Color{
	color.NRGBA{A: 255},
	color.NRGBA{R: 31, G: 119, B: 180, A: 255},
	color.NRGBA{R: 214, G: 39, B: 40, A: 255},
	color.NRGBA{R: 44, G: 160, B: 44, A: 255},
	color.NRGBA{R: 255, G: 127, B: 14, A: 255},
}

// PaletteColor cycles through Palette.
func PaletteColor(i int) color.Color {
	return Palette[i%len(Palette)]
}

// incomeColors samples a blue-to-red ramp, translucent so that many
// overlapping country lines stay readable.
var incomeColors = map[model.IncomeLevel]color.NRGBA{
	model.IncomeLow:         {R: 0, G: 0, B: 128, A: 64},
	model.IncomeLowerMiddle: {R: 0, G: 212, B: 255, A: 64},
	model.IncomeUpperMiddle: {R: 255, G: 229, B: 0, A: 64},
	model.IncomeHigh:        {R: 128, G: 0, B: 0, A: 64},
}

// IncomeColor returns the line colour for an income level, or a light grey
// for unclassified countries.
func IncomeColor(level model.IncomeLevel) color.Color {
	if c, ok := incomeColors[level]; ok {
		return c
	}
	return color.NRGBA{R: 160, G: 160, B: 160, A: 64}
}
