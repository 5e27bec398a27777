package charts

import (
	"fmt"
	"strings"

	"carscope/domain/listing"

	"gonum.org/v1/gonum/stat"
)

// Scatter is the price-vs-odometer scatter payload, one series per vehicle
// type. Correlation is the Pearson coefficient over all plotted pairs.
type Scatter struct {
	Available      bool     `json:"available"`
	Message        string   `json:"message,omitempty"`
	Series         []Series `json:"series,omitempty"`
	Correlation    float64  `json:"correlation"`
	HasCorrelation bool     `json:"has_correlation"`
	YAxisType      string   `json:"y_axis_type"`
}

// Series is one scatter point series
type Series struct {
	Name  string    `json:"name"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Hover []string  `json:"hover"`
}

// BuildScatter builds the odometer-vs-price scatter, grouped by type when
// the type column exists. Requires the odometer and price columns.
func BuildScatter(t *listing.Table, logPrice bool) Scatter {
	if !t.HasColumn(listing.ColOdometer) || !t.HasColumn(listing.ColPrice) {
		return Scatter{Message: "Columns odometer and/or price are missing for this view."}
	}

	hasType := t.HasColumn(listing.ColType)
	byType := make(map[string]*Series)
	order := []string{}
	var allX, allY []float64

	for _, row := range t.Rows {
		x, okX := t.Float(row, listing.ColOdometer)
		y, okY := t.Float(row, listing.ColPrice)
		if !okX || !okY {
			continue
		}

		name := "all"
		if hasType {
			if name = row[listing.ColType]; name == "" {
				name = "unknown"
			}
		}
		series, ok := byType[name]
		if !ok {
			series = &Series{Name: name}
			byType[name] = series
			order = append(order, name)
		}
		series.X = append(series.X, x)
		series.Y = append(series.Y, y)
		series.Hover = append(series.Hover, hoverLabel(t, row))

		allX = append(allX, x)
		allY = append(allY, y)
	}

	out := Scatter{Available: true, YAxisType: yAxisType(logPrice)}
	for _, name := range order {
		out.Series = append(out.Series, *byType[name])
	}
	if len(allX) >= 2 {
		if r := stat.Correlation(allX, allY, nil); !isNaN(r) {
			out.Correlation = r
			out.HasCorrelation = true
		}
	}
	return out
}

// hoverLabel joins the descriptive columns present in the table
func hoverLabel(t *listing.Table, row listing.Row) string {
	parts := make([]string, 0, 3)
	for _, col := range []string{listing.ColManufacturer, listing.ColModel, listing.ColModelYear} {
		if t.HasColumn(col) && row[col] != "" {
			parts = append(parts, row[col])
		}
	}
	return strings.Join(parts, " · ")
}

func isNaN(v float64) bool {
	return v != v
}

// CorrelationLabel formats the correlation for the UI
func (s Scatter) CorrelationLabel() string {
	if !s.HasCorrelation {
		return "—"
	}
	return fmt.Sprintf("%.3f", s.Correlation)
}
