package model

import (
	"math"
	"time"
)

// Observation is one dated value of a time series. A missing value is NaN.
type Observation struct {
	Date  time.Time
	Value float64
}

// Missing reports whether the observation has no value.
func (o Observation) Missing() bool {
	return math.IsNaN(o.Value)
}

// Series is a named, date-ordered sequence of observations.
type Series struct {
	ID           string
	Observations []Observation
}

// Values returns the observation values in order.
func (s Series) Values() []float64 {
	vs := make([]float64, len(s.Observations))
	for i, o := range s.Observations {
		vs[i] = o.Value
	}
	return vs
}

// Span is a closed date interval, e.g. an NBER recession from peak to trough.
type Span struct {
	Peak   time.Time
	Trough time.Time
}

// Contains reports whether t falls within the span (inclusive).
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Peak) && !t.After(s.Trough)
}
