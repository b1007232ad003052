package series

import (
	"fmt"
	"math"
	"time"

	"github.com/dailygraphs/dailygraphs/internal/model"
)

// Frequency selects the period used by Resample.
type Frequency string

const (
	Monthly Frequency = "monthly"
	Annual  Frequency = "annual"
)

// periodStart truncates t to the start of its month or year.
func periodStart(t time.Time, freq Frequency) (time.Time, error) {
	switch freq {
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	case Annual:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unknown frequency %q", freq)
}

// Resample averages observations into period-start buckets. A bucket with no
// present values is missing. Input must be date ordered.
func Resample(obs []model.Observation, freq Frequency) ([]model.Observation, error) {
	var out []model.Observation
	var sum float64
	var n int
	flush := func() {
		if len(out) == 0 {
			return
		}
		if n > 0 {
			out[len(out)-1].Value = sum / float64(n)
		}
		sum, n = 0, 0
	}

	for _, o := range obs {
		start, err := periodStart(o.Date, freq)
		if err != nil {
			return nil, err
		}
		if len(out) == 0 || !out[len(out)-1].Date.Equal(start) {
			flush()
			out = append(out, model.Observation{Date: start, Value: math.NaN()})
		}
		if !o.Missing() {
			sum += o.Value
			n++
		}
	}
	flush()
	return out, nil
}

// Ratio divides a by b on the dates both series share.
func Ratio(a, b []model.Observation) []model.Observation {
	denom := index(b)
	var out []model.Observation
	for _, o := range a {
		d, ok := denom[o.Date.Unix()]
		if !ok {
			continue
		}
		out = append(out, model.Observation{Date: o.Date, Value: o.Value / d})
	}
	return out
}

// Deflate expresses nominal values in prices of the reference date:
// nominal_t * prices[at] / prices_t.
func Deflate(nominal, prices []model.Observation, at time.Time) ([]model.Observation, error) {
	byDate := index(prices)
	base, ok := byDate[at.Unix()]
	if !ok || IsMissing(base) {
		return nil, fmt.Errorf("no price level at %s", at.Format("2006-01-02"))
	}
	var out []model.Observation
	for _, o := range nominal {
		p, ok := byDate[o.Date.Unix()]
		if !ok {
			continue
		}
		out = append(out, model.Observation{Date: o.Date, Value: o.Value * base / p})
	}
	return out, nil
}

// PctChangeObs applies PctChange to the values of a dated series.
func PctChangeObs(obs []model.Observation, periods int) []model.Observation {
	vals := make([]float64, len(obs))
	for i, o := range obs {
		vals[i] = o.Value
	}
	return withValues(obs, PctChange(vals, periods))
}

// ScaleObs multiplies every value by k.
func ScaleObs(obs []model.Observation, k float64) []model.Observation {
	out := make([]model.Observation, len(obs))
	for i, o := range obs {
		out[i] = model.Observation{Date: o.Date, Value: o.Value * k}
	}
	return out
}

// Since drops observations dated before t.
func Since(obs []model.Observation, t time.Time) []model.Observation {
	for i, o := range obs {
		if !o.Date.Before(t) {
			return obs[i:]
		}
	}
	return nil
}

func withValues(obs []model.Observation, vals []float64) []model.Observation {
	out := make([]model.Observation, len(obs))
	for i, o := range obs {
		out[i] = model.Observation{Date: o.Date, Value: vals[i]}
	}
	return out
}

func index(obs []model.Observation) map[int64]float64 {
	m := make(map[int64]float64, len(obs))
	for _, o := range obs {
		m[o.Date.Unix()] = o.Value
	}
	return m
}
