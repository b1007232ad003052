// Package recession reads NBER business-cycle reference dates used to shade
// recessions on time-series charts.
package recession

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dailygraphs/dailygraphs/internal/model"
)

//go:embed nber-dates.csv
var defaultDates []byte

// Header is the CSV header of an NBER dates file.
const Header = "Peak,Trough"

const (
	numFields  = 2
	dateFormat = "2006-01-02"
	colPeak    = 0
	colTrough  = 1
)

// Default returns the built-in NBER peak/trough table.
func Default() []model.Span {
	spans, err := Read(bytes.NewReader(defaultDates))
	if err != nil {
		panic("embedded NBER dates: " + err.Error())
	}
	return spans
}

// DefaultCSV returns the built-in table in file form.
func DefaultCSV() []byte {
	out := make([]byte, len(defaultDates))
	copy(out, defaultDates)
	return out
}

// Load reads spans from path, or returns Default when path is empty.
func Load(path string) ([]model.Span, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recession dates: %w", err)
	}
	defer f.Close()

	spans, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading recession dates %s: %w", path, err)
	}
	return spans, nil
}

// Read parses a Peak,Trough CSV with ISO dates.
func Read(r io.Reader) ([]model.Span, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading recession CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if !strings.EqualFold(strings.Join(records[0], ","), Header) {
		return nil, fmt.Errorf("unexpected header %q, want %q", strings.Join(records[0], ","), Header)
	}

	var spans []model.Span
	for i, rec := range records[1:] {
		peak, err := time.Parse(dateFormat, rec[colPeak])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing peak %q: %w", i+2, rec[colPeak], err)
		}
		trough, err := time.Parse(dateFormat, rec[colTrough])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing trough %q: %w", i+2, rec[colTrough], err)
		}
		if trough.Before(peak) {
			return nil, fmt.Errorf("row %d: trough %s before peak %s", i+2, rec[colTrough], rec[colPeak])
		}
		spans = append(spans, model.Span{Peak: peak, Trough: trough})
	}
	return spans, nil
}

// Between returns the spans that overlap [from, to].
func Between(spans []model.Span, from, to time.Time) []model.Span {
	var out []model.Span
	for _, s := range spans {
		if s.Trough.Before(from) || s.Peak.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out
}
