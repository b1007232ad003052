// Package solow estimates capital stocks and Solow residuals from a
// Penn World Table panel.
package solow

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/dailygraphs/dailygraphs/internal/panel"
	"github.com/dailygraphs/dailygraphs/internal/series"
)

// Raw input columns that are not configurable.
const (
	ColPopulation = "POP"
	ColInvestment = "ki" // investment share of GDP, percent
)

// Derived columns written by Impute.
const (
	ColRealGDP                  = "realGDP"
	ColLaborForce               = "laborForce"
	ColLaborForceGrowth         = "laborForceGrowth"
	ColSmoothedLaborForceGrowth = "smoothedLaborForceGrowth"
	ColInvestmentShare          = "investmentShare"
	ColSmoothedInvestmentShare  = "smoothedInvestmentShare"
	ColBreakEvenInvestment      = "breakEvenInvestment"
	ColImputedK                 = "imputedK"
	ColCapitalOutputRatio       = "capitalOutputRatio"
	ColTechnology               = "technology"
	ColTechnologyGrowth         = "technologyGrowth"
)

// DerivedColumns lists the columns Impute writes, in computation order.
var DerivedColumns = []string{
	ColRealGDP,
	ColLaborForce,
	ColLaborForceGrowth,
	ColSmoothedLaborForceGrowth,
	ColInvestmentShare,
	ColSmoothedInvestmentShare,
	ColBreakEvenInvestment,
	ColImputedK,
	ColCapitalOutputRatio,
	ColTechnology,
	ColTechnologyGrowth,
}

// Imputer augments a panel with capital stock and technology estimates.
type Imputer struct {
	params Params
	logger *zap.Logger
}

// NewImputer validates params and returns an Imputer.
func NewImputer(params Params, logger *zap.Logger) (*Imputer, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid solow parameters: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Imputer{params: params, logger: logger}, nil
}

// Params returns the imputer's parameters.
func (im *Imputer) Params() Params {
	return im.params
}

// Impute writes the derived columns into p and returns the tagged capital
// stock per country. Derived columns are overwritten, so running Impute on an
// already augmented panel gives the same result.
func (im *Imputer) Impute(p *panel.Panel) (Trajectories, error) {
	prm := im.params
	for _, col := range []string{prm.RGDPPC, prm.RGDPPW, ColPopulation, ColInvestment} {
		if !p.Has(col) {
			return nil, fmt.Errorf("%w: %s", panel.ErrMissingColumn, col)
		}
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{ColRealGDP, func() error {
			return p.Map(ColRealGDP, func(a ...float64) float64 { return a[0] * a[1] }, prm.RGDPPC, ColPopulation)
		}},
		{ColLaborForce, func() error {
			return p.Map(ColLaborForce, func(a ...float64) float64 { return (a[0] / a[1]) * a[2] },
				prm.RGDPPC, prm.RGDPPW, ColPopulation)
		}},
		{ColLaborForceGrowth, func() error {
			return p.Transform(ColLaborForceGrowth, ColLaborForce, func(xs []float64) []float64 {
				return series.PctChange(xs, 1)
			})
		}},
		{ColSmoothedLaborForceGrowth, func() error {
			return p.Transform(ColSmoothedLaborForceGrowth, ColLaborForceGrowth, im.smooth)
		}},
		{ColInvestmentShare, func() error {
			return p.Transform(ColInvestmentShare, ColInvestment, func(xs []float64) []float64 {
				return series.Scale(xs, 1.0/100)
			})
		}},
		{ColSmoothedInvestmentShare, func() error {
			return p.Transform(ColSmoothedInvestmentShare, ColInvestmentShare, im.smooth)
		}},
		{ColBreakEvenInvestment, func() error {
			return p.Map(ColBreakEvenInvestment, func(a ...float64) float64 {
				return BreakEven(a[0], prm.G0, prm.Delta)
			}, ColSmoothedLaborForceGrowth)
		}},
		{ColImputedK, func() error {
			return p.Map(ColImputedK, func(a ...float64) float64 {
				return a[0] * (a[1] / a[2])
			}, ColRealGDP, ColSmoothedInvestmentShare, ColBreakEvenInvestment)
		}},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return nil, fmt.Errorf("computing %s: %w", step.name, err)
		}
	}

	trajectories := make(Trajectories, len(p.Countries()))
	for _, c := range p.Countries() {
		cells, err := im.accumulate(p, c)
		if err != nil {
			return nil, fmt.Errorf("accumulating capital for %s: %w", c, err)
		}
		trajectories[c] = cells
		if err := p.SetColumn(ColImputedK, c, trajectories.Values(c)); err != nil {
			return nil, err
		}
	}

	if err := p.Map(ColCapitalOutputRatio, func(a ...float64) float64 { return a[0] / a[1] },
		ColImputedK, ColRealGDP); err != nil {
		return nil, fmt.Errorf("computing %s: %w", ColCapitalOutputRatio, err)
	}
	if err := p.Map(ColTechnology, func(a ...float64) float64 {
		return Technology(a[0], a[1], prm.Alpha)
	}, prm.RGDPPW, ColCapitalOutputRatio); err != nil {
		return nil, fmt.Errorf("computing %s: %w", ColTechnology, err)
	}
	if err := p.Transform(ColTechnologyGrowth, ColTechnology, func(xs []float64) []float64 {
		return series.PctChange(xs, 1)
	}); err != nil {
		return nil, fmt.Errorf("computing %s: %w", ColTechnologyGrowth, err)
	}

	im.logger.Debug("imputed capital stocks",
		zap.Int("countries", len(trajectories)),
		zap.Int("first_year", p.FirstYear()),
		zap.Int("last_year", p.LastYear()))
	return trajectories, nil
}

// accumulate folds the capital-accumulation identity forward over the seeded
// column. A year whose stock, investment share or output is missing does not
// update the next year, which then keeps its seed. Labor force growth is not
// an input of the identity, so its gaps reach K only through the seeds.
func (im *Imputer) accumulate(p *panel.Panel, country string) ([]Cell, error) {
	seed, err := p.Column(ColImputedK, country)
	if err != nil {
		return nil, err
	}
	share, err := p.Column(ColInvestmentShare, country)
	if err != nil {
		return nil, err
	}
	gdp, err := p.Column(ColRealGDP, country)
	if err != nil {
		return nil, err
	}

	cells := make([]Cell, len(seed))
	for t, v := range seed {
		cells[t] = seeded(v)
	}

	delta := im.params.Delta
	for t := 0; t < len(cells)-1; t++ {
		k := cells[t]
		if !k.Defined() {
			continue
		}
		if series.IsMissing(share[t]) || series.IsMissing(gdp[t]) {
			im.logger.Debug("capital chain broken",
				zap.String("country", country),
				zap.Int("year", p.FirstYear()+t),
				zap.Stringer("next", cells[t+1].Kind))
			continue
		}
		cells[t+1] = recursed((1-delta)*k.Value + share[t]*gdp[t])
	}
	return cells, nil
}

// BreakEven returns the investment share that holds capital per effective
// worker constant: (1+n)(1+g) - (1-delta).
func BreakEven(laborGrowth, g0, delta float64) float64 {
	return (1+laborGrowth)*(1+g0) - (1 - delta)
}

// Technology returns y / (K/Y)^(alpha/(1-alpha)), or NaN when the ratio is
// missing or non-positive.
func Technology(outputPerWorker, capitalOutput, alpha float64) float64 {
	if math.IsNaN(capitalOutput) || capitalOutput <= 0 {
		return math.NaN()
	}
	return outputPerWorker / math.Pow(capitalOutput, alpha/(1-alpha))
}

func (im *Imputer) smooth(xs []float64) []float64 {
	return series.Smooth(xs, SmoothingWindow, im.params.H)
}
