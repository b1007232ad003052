package graphs

import (
	"github.com/dailygraphs/dailygraphs/internal/config"
	"github.com/dailygraphs/dailygraphs/internal/model"
	"github.com/dailygraphs/dailygraphs/internal/series"
)

// Transform applies a line's resample, divide, deflate, percent change and
// scale steps in that order. divisor and deflator are only read when the
// line names them.
func Transform(l config.LineConfig, obs, divisor, deflator []model.Observation) ([]model.Observation, error) {
	if l.Resample != "" {
		freq := series.Frequency(l.Resample)
		var err error
		if obs, err = series.Resample(obs, freq); err != nil {
			return nil, err
		}
		if l.DivideBy != "" {
			if divisor, err = series.Resample(divisor, freq); err != nil {
				return nil, err
			}
		}
		if l.DeflateBy != "" {
			if deflator, err = series.Resample(deflator, freq); err != nil {
				return nil, err
			}
		}
	}

	if l.DivideBy != "" {
		obs = series.Ratio(obs, divisor)
	}

	if l.DeflateBy != "" {
		at, err := parseDate(l.DeflateAt)
		if err != nil {
			return nil, err
		}
		if obs, err = series.Deflate(obs, deflator, at); err != nil {
			return nil, err
		}
	}

	if l.PctChange > 0 {
		obs = series.PctChangeObs(obs, l.PctChange)
	}

	if l.Scale != 0 && l.Scale != 1 {
		obs = series.ScaleObs(obs, l.Scale)
	}
	return obs, nil
}
