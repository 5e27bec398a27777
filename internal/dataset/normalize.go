package dataset

import (
	"math"
	"strconv"
	"strings"

	"carscope/domain/listing"
)

// Columns coerced to numeric on load
var coercedColumns = []string{listing.ColPrice, listing.ColOdometer, listing.ColModelYear}

// BuildTable turns raw string rows into a listing table: headers normalized,
// numeric columns coerced (unparsable cells become missing), exact duplicate
// rows dropped keeping the first occurrence.
func BuildTable(rows [][]string) *listing.Table {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = listing.NormalizeColumn(h)
	}

	coerced := make(map[string]bool, len(coercedColumns))
	for _, c := range coercedColumns {
		coerced[c] = true
	}

	t := &listing.Table{Columns: headers}
	seen := make(map[string]bool, len(rows)-1)
	for _, raw := range rows[1:] {
		row := make(listing.Row, len(headers))
		for j, col := range headers {
			cell := ""
			if j < len(raw) {
				cell = strings.TrimSpace(raw[j])
			}
			if coerced[col] {
				cell = coerceNumeric(cell)
			}
			row[col] = cell
		}

		key := rowKey(headers, row)
		if seen[key] {
			continue
		}
		seen[key] = true
		t.Rows = append(t.Rows, row)
	}
	return t
}

// coerceNumeric parses a numeric cell, tolerating currency symbols and
// thousands separators. Unparsable and non-finite values become ""
// (missing); ParseFloat would otherwise accept "NaN" and "Inf" spellings,
// which poison every downstream mean and percentile.
func coerceNumeric(cell string) string {
	if cell == "" {
		return ""
	}
	cleaned := strings.TrimSpace(cell)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// rowKey joins cells in column order for exact-duplicate detection
func rowKey(headers []string, row listing.Row) string {
	var b strings.Builder
	for i, col := range headers {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(row[col])
	}
	return b.String()
}
