package charts

import (
	"github.com/montanaflynn/stats"

	"carscope/domain/listing"
)

// TopManufacturers is how many manufacturers the box plot shows, ranked by
// listing frequency
const TopManufacturers = 12

// Box is the price-by-manufacturer box plot payload
type Box struct {
	Available bool       `json:"available"`
	Message   string     `json:"message,omitempty"`
	Boxes     []BoxStats `json:"boxes,omitempty"`
	YAxisType string     `json:"y_axis_type"`
}

// BoxStats is the five-number summary of prices for one manufacturer plus
// IQR-rule suspected outliers
type BoxStats struct {
	Manufacturer string    `json:"manufacturer"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	Outliers     []float64 `json:"outliers,omitempty"`
	Count        int       `json:"count"`
}

// BuildBox builds per-manufacturer price distributions for the top
// manufacturers by frequency. Requires the price and manufacturer columns.
func BuildBox(t *listing.Table, logPrice bool) Box {
	if !t.HasColumn(listing.ColPrice) || !t.HasColumn(listing.ColManufacturer) {
		return Box{Message: "Columns manufacturer and/or price are missing for this view."}
	}

	out := Box{Available: true, YAxisType: yAxisType(logPrice)}
	for _, manufacturer := range t.TopByCount(listing.ColManufacturer, TopManufacturers) {
		prices := make([]float64, 0, 64)
		for _, row := range t.Rows {
			if row[listing.ColManufacturer] != manufacturer {
				continue
			}
			if v, ok := t.Float(row, listing.ColPrice); ok {
				prices = append(prices, v)
			}
		}
		if len(prices) == 0 {
			continue
		}
		out.Boxes = append(out.Boxes, boxStats(manufacturer, prices))
	}
	return out
}

func boxStats(manufacturer string, prices []float64) BoxStats {
	b := BoxStats{Manufacturer: manufacturer, Count: len(prices)}
	b.Min, _ = stats.Min(prices)
	b.Max, _ = stats.Max(prices)
	b.Median, _ = stats.Median(prices)

	quartiles, err := stats.Quartile(prices)
	if err != nil {
		// Too few values for quartiles; collapse the box onto the median.
		b.Q1, b.Q3 = b.Median, b.Median
		return b
	}
	b.Q1 = quartiles.Q1
	b.Q3 = quartiles.Q3

	// Suspected outliers by the 1.5*IQR rule
	iqr := b.Q3 - b.Q1
	lo := b.Q1 - 1.5*iqr
	hi := b.Q3 + 1.5*iqr
	for _, p := range prices {
		if p < lo || p > hi {
			b.Outliers = append(b.Outliers, p)
		}
	}
	return b
}
