package listing

import (
	"math"
	"net/url"
	"strconv"

	"github.com/montanaflynn/stats"
)

// Filter is the ephemeral per-request filter state. Ranges are inclusive.
// An empty Manufacturers or Types slice leaves that column unrestricted.
type Filter struct {
	PriceMin      float64
	PriceMax      float64
	OdometerMin   float64
	OdometerMax   float64
	YearMin       int
	YearMax       int
	Manufacturers []string
	Types         []string
	LogPrice      bool
}

// Range holds derived slider bounds for a numeric column
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Bounds are the widget bounds derived from the full table. Numeric upper
// bounds are clipped at the 99th percentile so outliers don't stretch the
// sliders.
type Bounds struct {
	Price         Range    `json:"price"`
	Odometer      Range    `json:"odometer"`
	YearMin       int      `json:"year_min"`
	YearMax       int      `json:"year_max"`
	Manufacturers []string `json:"manufacturers"`
	Types         []string `json:"types"`
}

// Fallback year bounds when model_year is absent or empty
const (
	DefaultYearMin = 2000
	DefaultYearMax = 2024
)

// DeriveBounds computes filter widget bounds from the observed data
func DeriveBounds(t *Table) Bounds {
	b := Bounds{
		Price:         clippedRange(t.NumericValues(ColPrice)),
		Odometer:      clippedRange(t.NumericValues(ColOdometer)),
		YearMin:       DefaultYearMin,
		YearMax:       DefaultYearMax,
		Manufacturers: t.CategoricalValues(ColManufacturer),
		Types:         t.CategoricalValues(ColType),
	}

	if years := t.NumericValues(ColModelYear); len(years) > 0 {
		lo, hi := years[0], years[0]
		for _, y := range years {
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
		b.YearMin = int(lo)
		b.YearMax = int(hi)
	}

	return b
}

// clippedRange returns [min, min(max, p99)] over values
func clippedRange(values []float64) Range {
	if len(values) == 0 {
		return Range{}
	}
	lo, _ := stats.Min(values)
	hi, _ := stats.Max(values)
	if p99, err := stats.Percentile(values, 99); err == nil && p99 < hi {
		hi = p99
	}
	return Range{Min: lo, Max: hi}
}

// DefaultFilter returns the filter matching untouched widgets: full derived
// ranges, no categorical restriction.
func DefaultFilter(b Bounds) Filter {
	return Filter{
		PriceMin:    b.Price.Min,
		PriceMax:    b.Price.Max,
		OdometerMin: b.Odometer.Min,
		OdometerMax: b.Odometer.Max,
		YearMin:     b.YearMin,
		YearMax:     b.YearMax,
	}
}

// Filter produces the filtered view: rows satisfying the conjunction of all
// active predicates. Range predicates apply only when the column exists;
// rows with a missing value in a range-filtered column are excluded by that
// predicate. Set predicates exclude rows with missing categorical values.
func (t *Table) Filter(f Filter) *Table {
	manuSet := toSet(f.Manufacturers)
	typeSet := toSet(f.Types)

	hasPrice := t.HasColumn(ColPrice)
	hasOdometer := t.HasColumn(ColOdometer)
	hasYear := t.HasColumn(ColModelYear)
	hasManufacturer := t.HasColumn(ColManufacturer)
	hasType := t.HasColumn(ColType)

	out := &Table{Columns: t.Columns}
	for _, row := range t.Rows {
		if len(manuSet) > 0 && hasManufacturer && !manuSet[row[ColManufacturer]] {
			continue
		}
		if len(typeSet) > 0 && hasType && !typeSet[row[ColType]] {
			continue
		}
		if hasPrice && !inRange(t, row, ColPrice, f.PriceMin, f.PriceMax) {
			continue
		}
		if hasOdometer && !inRange(t, row, ColOdometer, f.OdometerMin, f.OdometerMax) {
			continue
		}
		if hasYear && !inRange(t, row, ColModelYear, float64(f.YearMin), float64(f.YearMax)) {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func inRange(t *Table, row Row, col string, lo, hi float64) bool {
	v, ok := t.Float(row, col)
	if !ok {
		return false
	}
	return v >= lo && v <= hi
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Query parameter names shared by the dashboard and the JSON API
const (
	ParamPriceMin     = "price_min"
	ParamPriceMax     = "price_max"
	ParamOdometerMin  = "odo_min"
	ParamOdometerMax  = "odo_max"
	ParamYearMin      = "year_min"
	ParamYearMax      = "year_max"
	ParamManufacturer = "manufacturer"
	ParamType         = "type"
	ParamLogPrice     = "log_price"
)

// ParseQuery builds a Filter from request query parameters. Absent or
// malformed numeric parameters fall back to the derived bounds; categorical
// parameters are taken as given (absent means unrestricted).
func ParseQuery(q url.Values, b Bounds) Filter {
	f := DefaultFilter(b)
	f.PriceMin = queryFloat(q, ParamPriceMin, f.PriceMin)
	f.PriceMax = queryFloat(q, ParamPriceMax, f.PriceMax)
	f.OdometerMin = queryFloat(q, ParamOdometerMin, f.OdometerMin)
	f.OdometerMax = queryFloat(q, ParamOdometerMax, f.OdometerMax)
	f.YearMin = queryInt(q, ParamYearMin, f.YearMin)
	f.YearMax = queryInt(q, ParamYearMax, f.YearMax)
	f.Manufacturers = q[ParamManufacturer]
	f.Types = q[ParamType]
	f.LogPrice = q.Get(ParamLogPrice) == "on" || q.Get(ParamLogPrice) == "true"
	return f
}

func queryFloat(q url.Values, key string, fallback float64) float64 {
	if raw := q.Get(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}

func queryInt(q url.Values, key string, fallback int) int {
	if raw := q.Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
