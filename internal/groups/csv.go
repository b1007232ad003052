package groups

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dailygraphs/dailygraphs/internal/model"
)

const (
	numFields = 4
	colID     = 0
	colISO2   = 1
	colName   = 2
	colIncome = 3
)

// ReadCountries reads a countries CSV (id,iso2,name,income_level).
func ReadCountries(r io.Reader) ([]model.Country, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading countries CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var countries []model.Country
	for i, rec := range records[1:] {
		c, err := UnmarshalCountry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		countries = append(countries, c)
	}
	return countries, nil
}

// WriteCountries writes a countries CSV.
func WriteCountries(w io.Writer, countries []model.Country) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"id", "iso2", "name", "income_level"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, c := range countries {
		if err := cw.Write(MarshalCountry(c)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalCountry converts a Country to a CSV row.
func MarshalCountry(c model.Country) []string {
	row := make([]string, numFields)
	row[colID] = c.ID
	row[colISO2] = c.ISO2
	row[colName] = c.Name
	row[colIncome] = string(c.Income)
	return row
}

// UnmarshalCountry converts a CSV row to a Country.
func UnmarshalCountry(record []string) (model.Country, error) {
	if len(record) != numFields {
		return model.Country{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colID] == "" {
		return model.Country{}, fmt.Errorf("empty country id")
	}
	return model.Country{
		ID:     record[colID],
		ISO2:   record[colISO2],
		Name:   record[colName],
		Income: model.IncomeLevel(record[colIncome]),
	}, nil
}
