// Package export serializes a filtered listing view for download.
package export

import (
	"bytes"
	"encoding/csv"

	"carscope/domain/listing"
	"carscope/internal/errors"

	"github.com/xuri/excelize/v2"
)

// CSVBytes renders the table as UTF-8 CSV, header row first, preserving the
// table's column order. The output round-trips: re-parsing yields the same
// rows.
func CSVBytes(t *listing.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns); err != nil {
		return nil, errors.Wrap(err, "failed to write CSV header")
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return nil, errors.Wrap(err, "failed to write CSV row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to flush CSV output")
	}
	return buf.Bytes(), nil
}

// XLSXBytes renders the table as a single-sheet Excel workbook
func XLSXBytes(t *listing.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, errors.Wrap(err, "failed to write XLSX header")
	}

	record := make([]interface{}, len(t.Columns))
	for i, row := range t.Rows {
		for j, col := range t.Columns {
			record[j] = row[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, errors.Wrap(err, "failed to compute XLSX cell")
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return nil, errors.Wrap(err, "failed to write XLSX row")
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode XLSX workbook")
	}
	return buf.Bytes(), nil
}
