package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testTable() *Table {
	return &Table{
		Columns: []string{ColManufacturer, ColType, ColModel, ColPrice, ColOdometer, ColModelYear},
		Rows: []Row{
			{ColManufacturer: "ford", ColType: "truck", ColModel: "f-150", ColPrice: "5000", ColOdometer: "30000", ColModelYear: "2015"},
			{ColManufacturer: "toyota", ColType: "sedan", ColModel: "camry", ColPrice: "20000", ColOdometer: "10000", ColModelYear: "2020"},
			{ColManufacturer: "ford", ColType: "truck", ColModel: "f-150", ColPrice: "7500", ColOdometer: "", ColModelYear: "2017"},
			{ColManufacturer: "bmw", ColType: "sedan", ColModel: "3 series", ColPrice: "", ColOdometer: "45000", ColModelYear: "2018"},
		},
	}
}

func TestHasColumn(t *testing.T) {
	table := testTable()
	assert.True(t, table.HasColumn(ColPrice))
	assert.False(t, table.HasColumn("transmission"))
}

func TestNumericValuesSkipsMissing(t *testing.T) {
	table := testTable()
	assert.Equal(t, []float64{5000, 20000, 7500}, table.NumericValues(ColPrice))
	assert.Equal(t, []float64{30000, 10000, 45000}, table.NumericValues(ColOdometer))
}

func TestFloat(t *testing.T) {
	table := testTable()

	v, ok := table.Float(table.Rows[0], ColPrice)
	assert.True(t, ok)
	assert.Equal(t, 5000.0, v)

	_, ok = table.Float(table.Rows[2], ColOdometer)
	assert.False(t, ok, "missing cell should not parse")

	_, ok = table.Float(table.Rows[0], ColManufacturer)
	assert.False(t, ok, "categorical cell should not parse")
}

func TestCategoricalValuesSortedUnique(t *testing.T) {
	table := testTable()
	assert.Equal(t, []string{"bmw", "ford", "toyota"}, table.CategoricalValues(ColManufacturer))
	assert.Equal(t, []string{"sedan", "truck"}, table.CategoricalValues(ColType))
}

func TestValueCounts(t *testing.T) {
	table := testTable()
	counts := table.ValueCounts(ColManufacturer)
	assert.Equal(t, 2, counts["ford"])
	assert.Equal(t, 1, counts["toyota"])
	assert.Equal(t, 1, counts["bmw"])
}

func TestTopByCount(t *testing.T) {
	table := testTable()
	// ford leads, then ties broken alphabetically
	assert.Equal(t, []string{"ford", "bmw", "toyota"}, table.TopByCount(ColManufacturer, 10))
	assert.Equal(t, []string{"ford"}, table.TopByCount(ColManufacturer, 1))
}

func TestHead(t *testing.T) {
	table := testTable()
	assert.Len(t, table.Head(2), 2)
	assert.Len(t, table.Head(100), 4)
}

func TestNormalizeColumn(t *testing.T) {
	assert.Equal(t, "model_year", NormalizeColumn("  Model Year "))
	assert.Equal(t, "price", NormalizeColumn("Price"))
}
