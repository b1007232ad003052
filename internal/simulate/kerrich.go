package simulate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Toss is one row of a recorded experiment: the running count of heads after
// Tosses flips.
type Toss struct {
	Tosses int
	Heads  int
}

// Difference is 2*Heads - Tosses.
func (t Toss) Difference() float64 {
	return float64(2*t.Heads - t.Tosses)
}

// Fraction is the share of heads so far.
func (t Toss) Fraction() float64 {
	return float64(t.Heads) / float64(t.Tosses)
}

// ReadTosses parses a recorded experiment with a header row. The first column
// is the toss count and a "Heads" column holds running heads; other columns
// are ignored.
func ReadTosses(r io.Reader) ([]Toss, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading tosses: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading tosses: empty file")
	}

	heads := -1
	for i, h := range records[0] {
		if strings.EqualFold(strings.TrimSpace(h), "heads") {
			heads = i
		}
	}
	if heads <= 0 {
		return nil, fmt.Errorf("reading tosses: header must have a Heads column after the toss count")
	}

	out := make([]Toss, 0, len(records)-1)
	for i, rec := range records[1:] {
		n, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing tosses: %w", i+2, err)
		}
		h, err := strconv.Atoi(strings.TrimSpace(rec[heads]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing heads: %w", i+2, err)
		}
		if n <= 0 || h < 0 || h > n {
			return nil, fmt.Errorf("row %d: %d heads in %d tosses", i+2, h, n)
		}
		out = append(out, Toss{Tosses: n, Heads: h})
	}
	return out, nil
}
