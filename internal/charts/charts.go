// Package charts builds the JSON payloads behind the dashboard's chart
// views. Every builder degrades to an unavailable payload with a message
// when its required columns are missing, so a sparse CSV never breaks the
// page.
package charts

import (
	"context"

	"carscope/domain/listing"

	"golang.org/x/sync/errgroup"
)

// Bundle carries the three chart payloads for one filtered view
type Bundle struct {
	Scatter Scatter `json:"scatter"`
	Box     Box     `json:"box"`
	Models  Models  `json:"models"`
}

// BuildAll builds all chart payloads for a filtered view concurrently
func BuildAll(ctx context.Context, t *listing.Table, logPrice bool) (*Bundle, error) {
	bundle := &Bundle{}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		bundle.Scatter = BuildScatter(t, logPrice)
		return nil
	})
	g.Go(func() error {
		bundle.Box = BuildBox(t, logPrice)
		return nil
	})
	g.Go(func() error {
		bundle.Models = BuildModels(t)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// yAxisType returns the plotting axis type for the price axis
func yAxisType(logPrice bool) string {
	if logPrice {
		return "log"
	}
	return "linear"
}
