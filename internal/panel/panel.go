// Package panel holds cross-country annual data: named float columns indexed
// by country and year over a shared, contiguous year axis.
package panel

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrUnknownCountry is returned when a country has not been added.
	ErrUnknownCountry = errors.New("unknown country")
	// ErrYearOutOfRange is returned for a year outside the panel's axis.
	ErrYearOutOfRange = errors.New("year out of range")
	// ErrMissingColumn is returned when a column has not been set.
	ErrMissingColumn = errors.New("missing column")
)

// Panel is a country × year table of named numeric columns. Gaps in a
// country's record are NaN cells; the year axis itself never has gaps.
type Panel struct {
	first, last int
	countries   []string
	known       map[string]bool
	cols        map[string]map[string][]float64
}

// New creates an empty panel covering first..last inclusive.
func New(first, last int) (*Panel, error) {
	if last < first {
		return nil, fmt.Errorf("invalid year range %d..%d", first, last)
	}
	return &Panel{
		first: first,
		last:  last,
		known: make(map[string]bool),
		cols:  make(map[string]map[string][]float64),
	}, nil
}

// FirstYear returns the first year on the axis.
func (p *Panel) FirstYear() int { return p.first }

// LastYear returns the last year on the axis.
func (p *Panel) LastYear() int { return p.last }

// Len returns the number of years on the axis.
func (p *Panel) Len() int { return p.last - p.first + 1 }

// Years returns the year axis in ascending order.
func (p *Panel) Years() []int {
	ys := make([]int, p.Len())
	for i := range ys {
		ys[i] = p.first + i
	}
	return ys
}

// AddCountry registers a country. Adding a known country is a no-op.
func (p *Panel) AddCountry(country string) {
	if p.known[country] {
		return
	}
	p.known[country] = true
	p.countries = append(p.countries, country)
}

// Countries returns countries in insertion order.
func (p *Panel) Countries() []string {
	out := make([]string, len(p.countries))
	copy(out, p.countries)
	return out
}

// HasCountry reports whether the country has been added.
func (p *Panel) HasCountry(country string) bool {
	return p.known[country]
}

// Has reports whether the column exists.
func (p *Panel) Has(col string) bool {
	_, ok := p.cols[col]
	return ok
}

// Columns returns the column names in sorted order.
func (p *Panel) Columns() []string {
	names := make([]string, 0, len(p.cols))
	for name := range p.cols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set stores a single cell, creating the column if needed.
func (p *Panel) Set(col, country string, year int, v float64) error {
	i, err := p.index(country, year)
	if err != nil {
		return err
	}
	p.column(col, country)[i] = v
	return nil
}

// Get returns a single cell. Cells never set are NaN.
func (p *Panel) Get(col, country string, year int) (float64, error) {
	i, err := p.index(country, year)
	if err != nil {
		return 0, err
	}
	byCountry, ok := p.cols[col]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, col)
	}
	vs, ok := byCountry[country]
	if !ok {
		return math.NaN(), nil
	}
	return vs[i], nil
}

// Column returns a copy of one country's values for col, ordered by year.
func (p *Panel) Column(col, country string) ([]float64, error) {
	if !p.known[country] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCountry, country)
	}
	byCountry, ok := p.cols[col]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
	}
	out := make([]float64, p.Len())
	if vs, ok := byCountry[country]; ok {
		copy(out, vs)
	} else {
		for i := range out {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// SetColumn overwrites one country's values for col.
func (p *Panel) SetColumn(col, country string, values []float64) error {
	if !p.known[country] {
		return fmt.Errorf("%w: %s", ErrUnknownCountry, country)
	}
	if len(values) != p.Len() {
		return fmt.Errorf("column %s for %s: got %d values, want %d", col, country, len(values), p.Len())
	}
	copy(p.column(col, country), values)
	return nil
}

// Map computes dst element-wise from the src columns for every country,
// overwriting any existing dst values.
func (p *Panel) Map(dst string, fn func(args ...float64) float64, srcs ...string) error {
	for _, src := range srcs {
		if !p.Has(src) {
			return fmt.Errorf("%w: %s", ErrMissingColumn, src)
		}
	}
	args := make([]float64, len(srcs))
	for _, c := range p.countries {
		inputs := make([][]float64, len(srcs))
		for j, src := range srcs {
			vs, err := p.Column(src, c)
			if err != nil {
				return err
			}
			inputs[j] = vs
		}
		out := p.column(dst, c)
		for i := range out {
			for j := range inputs {
				args[j] = inputs[j][i]
			}
			out[i] = fn(args...)
		}
	}
	return nil
}

// Transform replaces dst with fn applied to each country's src column.
func (p *Panel) Transform(dst, src string, fn func([]float64) []float64) error {
	if !p.Has(src) {
		return fmt.Errorf("%w: %s", ErrMissingColumn, src)
	}
	for _, c := range p.countries {
		vs, err := p.Column(src, c)
		if err != nil {
			return err
		}
		if err := p.SetColumn(dst, c, fn(vs)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Panel) index(country string, year int) (int, error) {
	if !p.known[country] {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCountry, country)
	}
	if year < p.first || year > p.last {
		return 0, fmt.Errorf("%w: %d not in %d..%d", ErrYearOutOfRange, year, p.first, p.last)
	}
	return year - p.first, nil
}

// column returns the backing slice for col/country, allocating NaNs on first use.
func (p *Panel) column(col, country string) []float64 {
	byCountry, ok := p.cols[col]
	if !ok {
		byCountry = make(map[string][]float64)
		p.cols[col] = byCountry
	}
	vs, ok := byCountry[country]
	if !ok {
		vs = make([]float64, p.Len())
		for i := range vs {
			vs[i] = math.NaN()
		}
		byCountry[country] = vs
	}
	return vs
}
