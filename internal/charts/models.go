package charts

import (
	"sort"

	"carscope/domain/listing"
)

// Popularity cutoffs for the models histogram: models with at least
// PopularModelMin listings, else the top FallbackTopModels by count.
const (
	PopularModelMin   = 1000
	FallbackTopModels = 20
)

// Models is the listing-count-by-model histogram payload
type Models struct {
	Available bool         `json:"available"`
	Message   string       `json:"message,omitempty"`
	Counts    []ModelCount `json:"counts,omitempty"`
}

// ModelCount is one histogram bar
type ModelCount struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

// BuildModels builds the popular-models histogram. Requires the model
// column.
func BuildModels(t *listing.Table) Models {
	if !t.HasColumn(listing.ColModel) {
		return Models{Message: "Column model was not found."}
	}

	counts := t.ValueCounts(listing.ColModel)
	popular := make([]ModelCount, 0, len(counts))
	for model, count := range counts {
		if count >= PopularModelMin {
			popular = append(popular, ModelCount{Model: model, Count: count})
		}
	}

	if len(popular) == 0 {
		// No model crosses the popularity bar; fall back to the most listed.
		for _, model := range t.TopByCount(listing.ColModel, FallbackTopModels) {
			popular = append(popular, ModelCount{Model: model, Count: counts[model]})
		}
	}

	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Count != popular[j].Count {
			return popular[i].Count > popular[j].Count
		}
		return popular[i].Model < popular[j].Model
	})

	return Models{Available: true, Counts: popular}
}
