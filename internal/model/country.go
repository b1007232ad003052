package model

// IncomeLevel is a World Bank income classification.
type IncomeLevel string

const (
	IncomeLow         IncomeLevel = "LIC"
	IncomeLowerMiddle IncomeLevel = "LMC"
	IncomeUpperMiddle IncomeLevel = "UMC"
	IncomeHigh        IncomeLevel = "HIC"
)

// IncomeLevels lists the classifications in ascending order of income.
var IncomeLevels = []IncomeLevel{IncomeLow, IncomeLowerMiddle, IncomeUpperMiddle, IncomeHigh}

// Label returns a human readable name for the level.
func (l IncomeLevel) Label() string {
	switch l {
	case IncomeLow:
		return "Low income"
	case IncomeLowerMiddle:
		return "Lower middle income"
	case IncomeUpperMiddle:
		return "Upper middle income"
	case IncomeHigh:
		return "High income"
	}
	return string(l)
}

// Country is a row from the World Bank country list.
type Country struct {
	ID     string // ISO 3166 alpha-3, matches the PWT isocode column
	ISO2   string
	Name   string
	Income IncomeLevel
}
