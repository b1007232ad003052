package solow

import (
	"fmt"
	"math"
)

// Kind records how a capital-stock value was obtained.
type Kind int

const (
	// Missing means no estimate exists for the year.
	Missing Kind = iota
	// Seeded is the steady-state approximation Y * s / (break-even s).
	Seeded
	// Recursed is (1-delta) K[t-1] + s[t-1] Y[t-1].
	Recursed
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case Seeded:
		return "seeded"
	case Recursed:
		return "recursed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Cell is one year of a country's capital stock.
type Cell struct {
	Kind  Kind
	Value float64
}

// Defined reports whether the cell carries a value. Non-finite values other
// than NaN count as defined.
func (c Cell) Defined() bool {
	return c.Kind != Missing
}

func seeded(v float64) Cell {
	if math.IsNaN(v) {
		return Cell{Kind: Missing, Value: v}
	}
	return Cell{Kind: Seeded, Value: v}
}

func recursed(v float64) Cell {
	if math.IsNaN(v) {
		return Cell{Kind: Missing, Value: v}
	}
	return Cell{Kind: Recursed, Value: v}
}

// Trajectories maps a country to its capital-stock cells ordered by year.
type Trajectories map[string][]Cell

// Values returns the plain values for a country, NaN where missing.
func (tr Trajectories) Values(country string) []float64 {
	cells := tr[country]
	out := make([]float64, len(cells))
	for i, c := range cells {
		out[i] = c.Value
	}
	return out
}

// Count returns how many cells across all countries have kind k.
func (tr Trajectories) Count(k Kind) int {
	n := 0
	for _, cells := range tr {
		for _, c := range cells {
			if c.Kind == k {
				n++
			}
		}
	}
	return n
}
