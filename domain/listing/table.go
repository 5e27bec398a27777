package listing

import (
	"sort"
	"strconv"
	"strings"
)

// Row holds one listing as raw cell text keyed by normalized column name.
// Cells of coerced numeric columns carry a canonical decimal rendering;
// missing or unparsable values are the empty string.
type Row map[string]string

// Table is the in-memory listing table: an ordered column set plus rows.
// A Table is read-only once built; filtering produces a new Table sharing
// the row maps.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the table carries the named column
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Float parses the cell of col in row. The second return is false for
// missing or non-numeric cells.
func (t *Table) Float(row Row, col string) (float64, bool) {
	raw, ok := row[col]
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NumericValues returns all parseable values of col, missing cells skipped
func (t *Table) NumericValues(col string) []float64 {
	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if v, ok := t.Float(row, col); ok {
			values = append(values, v)
		}
	}
	return values
}

// CategoricalValues returns the sorted unique non-empty values of col
func (t *Table) CategoricalValues(col string) []string {
	seen := make(map[string]bool)
	for _, row := range t.Rows {
		if v := row[col]; v != "" {
			seen[v] = true
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// ValueCounts returns how often each non-empty value of col occurs
func (t *Table) ValueCounts(col string) map[string]int {
	counts := make(map[string]int)
	for _, row := range t.Rows {
		if v := row[col]; v != "" {
			counts[v]++
		}
	}
	return counts
}

// TopByCount returns up to n values of col ordered by descending frequency,
// ties broken alphabetically
func (t *Table) TopByCount(col string, n int) []string {
	counts := t.ValueCounts(col)
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if counts[values[i]] != counts[values[j]] {
			return counts[values[i]] > counts[values[j]]
		}
		return values[i] < values[j]
	})
	if len(values) > n {
		values = values[:n]
	}
	return values
}

// Head returns up to n rows from the top of the table
func (t *Table) Head(n int) []Row {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// Cell returns the raw cell text, "" when absent
func (t *Table) Cell(row Row, col string) string {
	return row[col]
}

// NormalizeColumn canonicalizes a header name: trimmed, lowercased,
// spaces replaced with underscores.
func NormalizeColumn(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "_")
}

// Well-known listing columns
const (
	ColPrice        = "price"
	ColOdometer     = "odometer"
	ColModelYear    = "model_year"
	ColManufacturer = "manufacturer"
	ColType         = "type"
	ColModel        = "model"
)
