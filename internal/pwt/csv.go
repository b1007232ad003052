// Package pwt loads Penn World Table releases into a panel.
package pwt

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dailygraphs/dailygraphs/internal/panel"
)

const (
	colYear    = "year"
	colCountry = "isocode"
)

// Read parses a PWT CSV export with year and isocode key columns into a
// panel. Blank and "NA" cells are missing; columns holding any other
// non-numeric text (country names, currency units) are skipped.
func Read(r io.Reader) (*panel.Panel, error) {
	p, _, err := read(r)
	return p, err
}

// read is Read that also names the columns it skipped.
func read(r io.Reader) (*panel.Panel, []string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading PWT CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("reading PWT CSV: no data rows")
	}

	header := records[0]
	yearIdx, countryIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case colYear:
			yearIdx = i
		case colCountry:
			countryIdx = i
		}
	}
	if yearIdx < 0 || countryIdx < 0 {
		return nil, nil, fmt.Errorf("reading PWT CSV: header must contain %q and %q", colYear, colCountry)
	}

	type row struct {
		country string
		year    int
	}
	rows := make([]row, len(records)-1)
	first, last := math.MaxInt, math.MinInt
	for i, rec := range records[1:] {
		year, err := strconv.Atoi(strings.TrimSpace(rec[yearIdx]))
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: parsing year %q: %w", i+2, rec[yearIdx], err)
		}
		country := strings.TrimSpace(rec[countryIdx])
		if country == "" {
			return nil, nil, fmt.Errorf("row %d: empty isocode", i+2)
		}
		rows[i] = row{country: country, year: year}
		first = min(first, year)
		last = max(last, year)
	}

	p, err := panel.New(first, last)
	if err != nil {
		return nil, nil, err
	}
	for _, r := range rows {
		p.AddCountry(r.country)
	}

	var skipped []string
	for col, name := range header {
		if col == yearIdx || col == countryIdx {
			continue
		}
		name = strings.TrimSpace(name)
		values, ok := parseColumn(records[1:], col)
		if !ok {
			skipped = append(skipped, name)
			continue
		}
		for i, r := range rows {
			if err := p.Set(name, r.country, r.year, values[i]); err != nil {
				return nil, nil, fmt.Errorf("row %d: %w", i+2, err)
			}
		}
	}
	return p, skipped, nil
}

// parseColumn returns the numeric values of column col, or false if any
// cell is text.
func parseColumn(records [][]string, col int) ([]float64, bool) {
	values := make([]float64, len(records))
	for i, rec := range records {
		cell := strings.TrimSpace(rec[col])
		if cell == "" || strings.EqualFold(cell, "NA") {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}
