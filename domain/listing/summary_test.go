package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	table := &Table{
		Columns: []string{ColPrice, ColOdometer},
		Rows: []Row{
			{ColPrice: "1000", ColOdometer: "10000"},
			{ColPrice: "2000", ColOdometer: "20000"},
			{ColPrice: "6000", ColOdometer: "30000"},
		},
	}

	s := Summarize(table)
	assert.Equal(t, 3, s.Count)
	assert.True(t, s.HasPrice)
	assert.True(t, s.HasOdometer)
	assert.InDelta(t, 3000.0, s.MeanPrice, 1e-9)
	assert.InDelta(t, 2000.0, s.MedianPrice, 1e-9)
	assert.InDelta(t, 20000.0, s.MeanOdometer, 1e-9)
}

func TestSummarizeAbsentColumns(t *testing.T) {
	table := &Table{
		Columns: []string{ColManufacturer},
		Rows:    []Row{{ColManufacturer: "ford"}},
	}

	s := Summarize(table)
	assert.Equal(t, 1, s.Count)
	assert.False(t, s.HasPrice)
	assert.False(t, s.HasOdometer)
}

func TestSummarizeSkipsMissingValues(t *testing.T) {
	table := &Table{
		Columns: []string{ColPrice},
		Rows: []Row{
			{ColPrice: "1000"},
			{ColPrice: ""},
			{ColPrice: "3000"},
		},
	}

	s := Summarize(table)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 2000.0, s.MeanPrice, 1e-9)
}

func TestSummarizeEmptyView(t *testing.T) {
	table := &Table{Columns: []string{ColPrice, ColOdometer}}
	s := Summarize(table)
	assert.Equal(t, 0, s.Count)
	assert.True(t, s.HasPrice)
	assert.Zero(t, s.MeanPrice)
}
