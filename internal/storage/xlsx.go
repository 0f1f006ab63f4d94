package storage

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/skubase/skubase/internal/catalog"
)

// WriteXLSX renders records as a single sheet workbook with the storage
// header row. Values are written as strings so the spreadsheet shows exactly
// what the CSV would contain.
func WriteXLSX(w io.Writer, records []catalog.Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, name := range catalog.FieldNames() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("storage: header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("storage: write header: %w", err)
		}
	}
	for rowIdx, rec := range records {
		for colIdx, value := range rec.StorageRow() {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("storage: row cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("storage: write row %d: %w", rowIdx+2, err)
			}
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("storage: write workbook: %w", err)
	}
	return nil
}

// ReadXLSX extracts raw field maps from the first sheet of a workbook. The
// first row is the header; every following row becomes one map keyed by
// header name, with short rows padded by empty values. Coercion and
// validation are left to the caller.
func ReadXLSX(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("storage: open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("storage: workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("storage: read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := rows[0]
	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raw := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				raw[name] = row[i]
			} else {
				raw[name] = ""
			}
		}
		out = append(out, raw)
	}
	return out, nil
}
