package listing

import (
	"github.com/montanaflynn/stats"
)

// Summary holds the four headline metrics over a filtered view. The Has*
// flags are false when the backing column is absent, in which case the UI
// shows N/A instead of a number.
type Summary struct {
	Count        int     `json:"count"`
	MeanPrice    float64 `json:"mean_price"`
	MedianPrice  float64 `json:"median_price"`
	MeanOdometer float64 `json:"mean_odometer"`
	HasPrice     bool    `json:"has_price"`
	HasOdometer  bool    `json:"has_odometer"`
}

// Summarize computes the headline metrics for a table
func Summarize(t *Table) Summary {
	s := Summary{
		Count:       len(t.Rows),
		HasPrice:    t.HasColumn(ColPrice),
		HasOdometer: t.HasColumn(ColOdometer),
	}

	if s.HasPrice {
		if prices := t.NumericValues(ColPrice); len(prices) > 0 {
			s.MeanPrice, _ = stats.Mean(prices)
			s.MedianPrice, _ = stats.Median(prices)
		}
	}
	if s.HasOdometer {
		if odo := t.NumericValues(ColOdometer); len(odo) > 0 {
			s.MeanOdometer, _ = stats.Mean(odo)
		}
	}

	return s
}
