package ui

import (
	"fmt"
	"io"
	"net/http"

	"carscope/domain/listing"
	"carscope/internal/charts"
	apperrors "carscope/internal/errors"
	"carscope/internal/export"

	"github.com/gin-gonic/gin"
)

// PreviewLimit caps how many filtered rows the preview table shows
const PreviewLimit = 1000

// DefaultManufacturerCount is how many manufacturers start selected on a
// fresh page, mirroring the untouched filter form
const DefaultManufacturerCount = 5

// view is everything a request's handlers derive from the dataset and the
// query string: the full table, its widget bounds, the parsed filter and the
// filtered table. Recomputed per request; only the loaded table is cached.
type view struct {
	DatasetID string
	Table     *listing.Table
	Bounds    listing.Bounds
	Filter    listing.Filter
	Filtered  *listing.Table
}

// buildView loads the requested dataset and applies the query's filter
func (s *Server) buildView(c *gin.Context) (*view, error) {
	id := c.Query("dataset")
	table, err := s.loader.Load(id)
	if err != nil {
		return nil, err
	}

	bounds := listing.DeriveBounds(table)
	filter := listing.ParseQuery(c.Request.URL.Query(), bounds)

	// Fresh page: preselect the first few manufacturers and every type,
	// like an untouched form would. Selecting all types still excludes rows
	// with a missing type value. A submitted form always carries the
	// applied marker.
	if c.Query("applied") == "" {
		if len(filter.Manufacturers) == 0 {
			n := DefaultManufacturerCount
			if n > len(bounds.Manufacturers) {
				n = len(bounds.Manufacturers)
			}
			filter.Manufacturers = bounds.Manufacturers[:n]
		}
		if len(filter.Types) == 0 {
			filter.Types = bounds.Types
		}
	}

	return &view{
		DatasetID: id,
		Table:     table,
		Bounds:    bounds,
		Filter:    filter,
		Filtered:  table.Filter(filter),
	}, nil
}

// fail maps a loader/export error onto the right user-facing response
func (s *Server) fail(c *gin.Context, err error) {
	switch apperrors.GetCode(err) {
	case apperrors.CodeFileNotFound:
		s.log.Error("default dataset missing: %v", err)
		s.renderError(c, http.StatusNotFound,
			fmt.Sprintf("Data file `%s` was not found. Upload a CSV file to explore instead.", s.cfg.Data.File))
	case apperrors.CodeInvalidInput, apperrors.CodeUnsupportedFile:
		s.renderError(c, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("request failed: %v", err)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong while preparing the view.")
	}
}

// handleIndex renders the dashboard page
func (s *Server) handleIndex(c *gin.Context) {
	v, err := s.buildView(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.renderTemplate(c, "index.html", gin.H{
		"Title":        "Used Cars Insights",
		"DatasetID":    v.DatasetID,
		"DatasetName":  s.loader.Name(v.DatasetID),
		"Bounds":       v.Bounds,
		"Filter":       v.Filter,
		"SelectedManu": selectionSet(v.Filter.Manufacturers),
		"SelectedType": selectionSet(v.Filter.Types),
		"Summary":      listing.Summarize(v.Filtered),
		"Columns":      v.Filtered.Columns,
		"PreviewRows":  v.Filtered.Head(PreviewLimit),
		"Count":        len(v.Filtered.Rows),
		"TotalRows":    len(v.Table.Rows),
		"Query":        c.Request.URL.RawQuery,
	})
}

func selectionSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// handleAbout renders the project notes page
func (s *Server) handleAbout(c *gin.Context) {
	s.renderTemplate(c, "about.html", gin.H{
		"Title": "About Carscope",
		"Body":  s.aboutHTML,
	})
}

// handleUpload accepts an alternative CSV/XLSX dataset
func (s *Server) handleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("dataset")
	if err != nil {
		s.renderError(c, http.StatusBadRequest, "No file was uploaded.")
		return
	}
	defer file.Close()

	maxBytes := int64(s.cfg.Data.MaxUploadMB) << 20
	if header.Size > maxBytes {
		s.renderError(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Uploaded file exceeds the %d MB limit.", s.cfg.Data.MaxUploadMB))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		s.fail(c, apperrors.Wrap(err, "failed to read uploaded file"))
		return
	}

	id, err := s.loader.Register(header.Filename, data)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.log.Info("registered uploaded dataset %s (%s, %d bytes)", id, header.Filename, len(data))
	c.Redirect(http.StatusSeeOther, "/?dataset="+id)
}

// handleSummaryFragment renders the metric cards for HTMX refreshes
func (s *Server) handleSummaryFragment(c *gin.Context) {
	v, err := s.buildView(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderTemplate(c, "summary.html", gin.H{"Summary": listing.Summarize(v.Filtered)})
}

// handlePreviewFragment renders the preview table for HTMX refreshes
func (s *Server) handlePreviewFragment(c *gin.Context) {
	v, err := s.buildView(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderTemplate(c, "preview.html", gin.H{
		"Columns":     v.Filtered.Columns,
		"PreviewRows": v.Filtered.Head(PreviewLimit),
		"Count":       len(v.Filtered.Rows),
	})
}

// Chart JSON endpoints

func (s *Server) handleChartScatter(c *gin.Context) {
	v, err := s.buildView(c)
	if err != nil {
		s.chartError(c, err)
		return
	}
	c.JSON(http.StatusOK, charts.BuildScatter(v.Filtered, v.Filter.LogPrice))
}

func (s *Server) handleChartBox(c *gin.Context) {
	v, err := s.buildView(c)
	if err != nil {
		s.chartError(c, err)
		return
	}
	c.JSON(http.StatusOK, charts.BuildBox(v.Filtered, v.Filter.LogPrice))
}

func (s *Server) handleChartModels(c *gin.Context) {
	v, err := s.buildView(c)
	if err != nil {
		s.chartError(c, err)
		return
	}
	c.JSON(http.StatusOK, charts.BuildModels(v.Filtered))
}

func (s *Server) chartError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.CodeFileNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidInput, apperrors.CodeUnsupportedFile:
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// Downloads

func (s *Server) handleDownloadCSV(c *gin.Context) {
	v, err := s.buildView(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	data, err := export.CSVBytes(v.Filtered)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="used_cars_filtered.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (s *Server) handleDownloadXLSX(c *gin.Context) {
	v, err := s.buildView(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	data, err := export.XLSXBytes(v.Filtered)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="used_cars_filtered.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
