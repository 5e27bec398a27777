package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"carscope/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `manufacturer,type,model,price,odometer,model_year
ford,truck,f-150,5000,30000,2015
toyota,sedan,camry,20000,10000,2020
bmw,sedan,3 series,9000,45000,2018
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vehicles.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return NewServer(dataset.NewLoader(path))
}

func getJSON(t *testing.T, s *Server, url string, out interface{}) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestHandleColumns(t *testing.T) {
	s := newTestServer(t)

	var resp struct {
		Columns []Column `json:"columns"`
		Rows    int      `json:"rows"`
	}
	code := getJSON(t, s, "/api/columns", &resp)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, resp.Rows)
	require.Len(t, resp.Columns, 6)
	kinds := map[string]string{}
	for _, c := range resp.Columns {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, "numeric", kinds["price"])
	assert.Equal(t, "categorical", kinds["manufacturer"])
}

func TestHandleSummaryFiltered(t *testing.T) {
	s := newTestServer(t)

	var resp struct {
		Count     int     `json:"count"`
		MeanPrice float64 `json:"mean_price"`
	}
	code := getJSON(t, s, "/api/summary?manufacturer=ford&price_min=0&price_max=100000&odo_min=0&odo_max=100000", &resp)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, resp.Count)
	assert.InDelta(t, 5000.0, resp.MeanPrice, 1e-9)
}

func TestHandleListingsPagination(t *testing.T) {
	s := newTestServer(t)

	var resp struct {
		Rows   []map[string]string `json:"rows"`
		Total  int                 `json:"total"`
		Limit  int                 `json:"limit"`
		Offset int                 `json:"offset"`
	}
	code := getJSON(t, s, "/api/listings?price_min=0&price_max=100000&odo_min=0&odo_max=100000&limit=2&offset=2", &resp)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Rows, 1, "pagination never exceeds the filtered count")
	assert.Equal(t, "bmw", resp.Rows[0]["manufacturer"])
}

func TestHandleChartUnknownName(t *testing.T) {
	s := newTestServer(t)

	var resp map[string]string
	code := getJSON(t, s, "/api/charts/pie", &resp)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandleChartBundle(t *testing.T) {
	s := newTestServer(t)

	var resp struct {
		Scatter struct {
			Available bool `json:"available"`
		} `json:"scatter"`
		Models struct {
			Available bool `json:"available"`
		} `json:"models"`
	}
	code := getJSON(t, s, "/api/charts?price_min=0&price_max=100000&odo_min=0&odo_max=100000", &resp)

	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Scatter.Available)
	assert.True(t, resp.Models.Available)
}

func TestMissingDatasetFile(t *testing.T) {
	s := NewServer(dataset.NewLoader(filepath.Join(t.TempDir(), "missing.csv")))

	var resp map[string]string
	code := getJSON(t, s, "/api/summary", &resp)
	assert.Equal(t, http.StatusNotFound, code)
}
