// Package export writes panel columns to flat files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/dailygraphs/dailygraphs/internal/panel"
)

// FormatValue renders v rounded to places decimals. Missing values are
// empty; infinities are written as "+Inf" and "-Inf".
func FormatValue(v float64, places int) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return decimal.NewFromFloat(v).StringFixed(int32(places))
}

// WriteCSV writes cols in long format, one row per country and year, with a
// country,year,<cols...> header.
func WriteCSV(w io.Writer, p *panel.Panel, cols []string, places int) error {
	data, err := columns(p, cols)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := append([]string{"country", "year"}, cols...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, c := range p.Countries() {
		for i, year := range p.Years() {
			row := make([]string, 0, len(header))
			row = append(row, c, strconv.Itoa(year))
			for _, col := range cols {
				row = append(row, FormatValue(data[col][c][i], places))
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing %s %d: %w", c, year, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// columns copies every requested column for every country up front so that
// a missing column fails before anything is written.
func columns(p *panel.Panel, cols []string) (map[string]map[string][]float64, error) {
	out := make(map[string]map[string][]float64, len(cols))
	for _, col := range cols {
		byCountry := make(map[string][]float64)
		for _, c := range p.Countries() {
			vals, err := p.Column(col, c)
			if err != nil {
				return nil, err
			}
			byCountry[c] = vals
		}
		out[col] = byCountry
	}
	return out, nil
}
