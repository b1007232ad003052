package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/dailygraphs/dailygraphs/internal/panel"
)

const defaultSheet = "Sheet1"

// WriteXLSX saves one sheet per column to path. Each sheet has a year column
// followed by one column per country; missing and infinite values are left
// blank.
func WriteXLSX(path string, p *panel.Panel, cols []string) error {
	if len(cols) == 0 {
		return fmt.Errorf("no columns to export")
	}
	data, err := columns(p, cols)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, col := range cols {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, col); err != nil {
				return fmt.Errorf("naming sheet %s: %w", col, err)
			}
		} else if _, err := f.NewSheet(col); err != nil {
			return fmt.Errorf("creating sheet %s: %w", col, err)
		}
		if err := writeSheet(f, col, p, data[col]); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, p *panel.Panel, byCountry map[string][]float64) error {
	set := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("sheet %s cell %s: %w", sheet, cell, err)
		}
		return nil
	}

	if err := set(1, 1, "year"); err != nil {
		return err
	}
	for j, c := range p.Countries() {
		if err := set(j+2, 1, c); err != nil {
			return err
		}
	}

	for i, year := range p.Years() {
		row := i + 2
		if err := set(1, row, year); err != nil {
			return err
		}
		for j, c := range p.Countries() {
			v := byCountry[c][i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if err := set(j+2, row, v); err != nil {
				return err
			}
		}
	}
	return nil
}
