package charts

import (
	"context"
	"fmt"
	"testing"

	"carscope/domain/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scatterTable() *listing.Table {
	return &listing.Table{
		Columns: []string{listing.ColManufacturer, listing.ColType, listing.ColModel,
			listing.ColPrice, listing.ColOdometer, listing.ColModelYear},
		Rows: []listing.Row{
			{listing.ColManufacturer: "ford", listing.ColType: "truck", listing.ColModel: "f-150",
				listing.ColPrice: "1000", listing.ColOdometer: "10", listing.ColModelYear: "2015"},
			{listing.ColManufacturer: "ford", listing.ColType: "truck", listing.ColModel: "f-150",
				listing.ColPrice: "2000", listing.ColOdometer: "20", listing.ColModelYear: "2016"},
			{listing.ColManufacturer: "toyota", listing.ColType: "sedan", listing.ColModel: "camry",
				listing.ColPrice: "3000", listing.ColOdometer: "30", listing.ColModelYear: "2020"},
		},
	}
}

func TestBuildScatter(t *testing.T) {
	s := BuildScatter(scatterTable(), false)

	require.True(t, s.Available)
	require.Len(t, s.Series, 2)
	assert.Equal(t, "truck", s.Series[0].Name)
	assert.Equal(t, []float64{10, 20}, s.Series[0].X)
	assert.Equal(t, []float64{1000, 2000}, s.Series[0].Y)
	assert.Equal(t, "ford · f-150 · 2015", s.Series[0].Hover[0])
	assert.Equal(t, "linear", s.YAxisType)

	// Points lie on a line, so the correlation is exactly 1
	require.True(t, s.HasCorrelation)
	assert.InDelta(t, 1.0, s.Correlation, 1e-9)
	assert.Equal(t, "1.000", s.CorrelationLabel())
}

func TestBuildScatterLogToggle(t *testing.T) {
	s := BuildScatter(scatterTable(), true)
	assert.Equal(t, "log", s.YAxisType)
}

func TestBuildScatterMissingColumn(t *testing.T) {
	table := &listing.Table{
		Columns: []string{listing.ColPrice},
		Rows:    []listing.Row{{listing.ColPrice: "5000"}},
	}

	s := BuildScatter(table, false)
	assert.False(t, s.Available)
	assert.NotEmpty(t, s.Message)
	assert.Empty(t, s.Series)
}

func TestBuildScatterWithoutTypeColumn(t *testing.T) {
	table := &listing.Table{
		Columns: []string{listing.ColPrice, listing.ColOdometer},
		Rows: []listing.Row{
			{listing.ColPrice: "1000", listing.ColOdometer: "10"},
			{listing.ColPrice: "2000", listing.ColOdometer: "20"},
		},
	}

	s := BuildScatter(table, false)
	require.True(t, s.Available)
	require.Len(t, s.Series, 1)
	assert.Equal(t, "all", s.Series[0].Name)
}

func TestBuildBox(t *testing.T) {
	table := &listing.Table{
		Columns: []string{listing.ColManufacturer, listing.ColPrice},
	}
	for _, price := range []string{"1000", "2000", "3000", "4000"} {
		table.Rows = append(table.Rows, listing.Row{
			listing.ColManufacturer: "ford", listing.ColPrice: price,
		})
	}
	table.Rows = append(table.Rows, listing.Row{
		listing.ColManufacturer: "toyota", listing.ColPrice: "9000",
	})

	b := BuildBox(table, false)
	require.True(t, b.Available)
	require.Len(t, b.Boxes, 2)

	ford := b.Boxes[0]
	assert.Equal(t, "ford", ford.Manufacturer)
	assert.Equal(t, 4, ford.Count)
	assert.Equal(t, 1000.0, ford.Min)
	assert.Equal(t, 4000.0, ford.Max)
	assert.InDelta(t, 2500.0, ford.Median, 1e-9)
	assert.InDelta(t, 1500.0, ford.Q1, 1e-9)
	assert.InDelta(t, 3500.0, ford.Q3, 1e-9)
	assert.Empty(t, ford.Outliers)
}

func TestBuildBoxTopTwelveManufacturers(t *testing.T) {
	table := &listing.Table{Columns: []string{listing.ColManufacturer, listing.ColPrice}}
	for i := 0; i < 15; i++ {
		name := fmt.Sprintf("maker_%02d", i)
		// maker_00 gets the most listings, maker_14 the fewest
		for j := 0; j <= 15-i; j++ {
			table.Rows = append(table.Rows, listing.Row{
				listing.ColManufacturer: name, listing.ColPrice: "1000",
			})
		}
	}

	b := BuildBox(table, false)
	require.True(t, b.Available)
	require.Len(t, b.Boxes, TopManufacturers)
	assert.Equal(t, "maker_00", b.Boxes[0].Manufacturer)
}

func TestBuildBoxMissingColumn(t *testing.T) {
	table := &listing.Table{Columns: []string{listing.ColPrice}}
	b := BuildBox(table, false)
	assert.False(t, b.Available)
	assert.NotEmpty(t, b.Message)
}

func TestBuildModelsPopularityThreshold(t *testing.T) {
	table := &listing.Table{Columns: []string{listing.ColModel}}
	for i := 0; i < PopularModelMin; i++ {
		table.Rows = append(table.Rows, listing.Row{listing.ColModel: "f-150"})
	}
	for i := 0; i < 10; i++ {
		table.Rows = append(table.Rows, listing.Row{listing.ColModel: "camry"})
	}

	m := BuildModels(table)
	require.True(t, m.Available)
	require.Len(t, m.Counts, 1, "only models above the popularity bar")
	assert.Equal(t, "f-150", m.Counts[0].Model)
	assert.Equal(t, PopularModelMin, m.Counts[0].Count)
}

func TestBuildModelsFallbackTopTwenty(t *testing.T) {
	table := &listing.Table{Columns: []string{listing.ColModel}}
	for i := 0; i < 30; i++ {
		model := fmt.Sprintf("model_%02d", i)
		for j := 0; j <= 30-i; j++ {
			table.Rows = append(table.Rows, listing.Row{listing.ColModel: model})
		}
	}

	m := BuildModels(table)
	require.True(t, m.Available)
	require.Len(t, m.Counts, FallbackTopModels)
	assert.Equal(t, "model_00", m.Counts[0].Model)
}

func TestBuildModelsMissingColumn(t *testing.T) {
	table := &listing.Table{Columns: []string{listing.ColPrice}}
	m := BuildModels(table)
	assert.False(t, m.Available)
	assert.NotEmpty(t, m.Message)
}

func TestBuildAllEmptyView(t *testing.T) {
	table := &listing.Table{
		Columns: []string{listing.ColManufacturer, listing.ColType, listing.ColModel,
			listing.ColPrice, listing.ColOdometer},
	}

	bundle, err := BuildAll(context.Background(), table, false)
	require.NoError(t, err)
	assert.True(t, bundle.Scatter.Available)
	assert.False(t, bundle.Scatter.HasCorrelation)
	assert.True(t, bundle.Box.Available)
	assert.Empty(t, bundle.Box.Boxes)
	assert.True(t, bundle.Models.Available)
	assert.Empty(t, bundle.Models.Counts)
}
