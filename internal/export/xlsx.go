// Package export serializes record collections into single-sheet xlsx
// workbooks for download-style saves.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// Column maps a record to one display-formatted cell.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Workbook builds a single-sheet workbook with a header row followed by one
// row per record. Values are written as already-formatted strings so the
// exported cells match what list search operates on.
func Workbook[T any](records []T, cols []Column[T]) (*excelize.File, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("export: no columns configured")
	}
	f := excelize.NewFile()

	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		row := make([]interface{}, len(cols))
		for j, c := range cols {
			row[j] = c.Value(r)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("row address: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return f, nil
}

// Filename builds the conventional export name: <Prefix>_Export_<YYYY-MM-DD>.xlsx.
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_Export_%s.xlsx", prefix, now.Format("2006-01-02"))
}

// Write serializes records into an xlsx stream.
func Write[T any](w io.Writer, records []T, cols []Column[T]) error {
	f, err := Workbook(records, cols)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("serialize workbook: %w", err)
	}
	return nil
}

// Save writes records to <dir>/<Prefix>_Export_<date>.xlsx and returns the
// full path. Nothing is left behind when serialization fails.
func Save[T any](dir, prefix string, records []T, cols []Column[T], now time.Time) (string, error) {
	f, err := Workbook(records, cols)
	if err != nil {
		return "", err
	}
	defer f.Close()
	path := filepath.Join(dir, Filename(prefix, now))
	if err := f.SaveAs(path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}
