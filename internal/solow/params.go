package solow

import (
	"errors"
	"fmt"
)

// SmoothingWindow is the trailing window length used for growth rates and
// investment shares.
const SmoothingWindow = 10

// DefaultH is the default minimum number of observations per smoothing window
// and the lookahead applied to smoothed values.
const DefaultH = 10

// Params configures the capital-stock imputation.
type Params struct {
	RGDPPC string  // column with real GDP per capita, e.g. "rgdpl"
	RGDPPW string  // column with real GDP per worker, e.g. "rgdpwok"
	G0     float64 // steady-state technology growth used for the seed
	Delta  float64 // annual depreciation rate
	Alpha  float64 // capital share of income
	H      int
}

// DefaultParams returns the parameters used for the income-group chart.
func DefaultParams() Params {
	return Params{
		RGDPPC: "rgdpl",
		RGDPPW: "rgdpwok",
		G0:     0.02,
		Delta:  0.05,
		Alpha:  0.33,
		H:      DefaultH,
	}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	var errs []error
	if p.RGDPPC == "" {
		errs = append(errs, errors.New("rgdppc column is required"))
	}
	if p.RGDPPW == "" {
		errs = append(errs, errors.New("rgdppw column is required"))
	}
	if p.Delta < 0 || p.Delta >= 1 {
		errs = append(errs, fmt.Errorf("delta %v not in [0, 1)", p.Delta))
	}
	if p.Alpha <= 0 || p.Alpha >= 1 {
		errs = append(errs, fmt.Errorf("alpha %v not in (0, 1)", p.Alpha))
	}
	if p.H < 1 || p.H > SmoothingWindow {
		errs = append(errs, fmt.Errorf("h %d not in [1, %d]", p.H, SmoothingWindow))
	}
	return errors.Join(errs...)
}
