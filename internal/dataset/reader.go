package dataset

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"carscope/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading CSV and Excel listing files
type DataReader struct {
	filePath string
	fileType string // "csv" or "xlsx"
}

// NewDataReader creates a new data reader dispatching on the file extension
func NewDataReader(filePath string) *DataReader {
	return &DataReader{filePath: filePath, fileType: fileTypeFor(filePath)}
}

func fileTypeFor(name string) string {
	if strings.ToLower(filepath.Ext(name)) == ".xlsx" {
		return "xlsx"
	}
	return "csv"
}

// SupportedFile reports whether the filename carries a readable extension
func SupportedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// ReadRows reads the file into raw string rows, header row first
func (r *DataReader) ReadRows() ([][]string, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.FileNotFound(r.filePath)
	}

	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open data file %s", r.filePath)
	}
	defer file.Close()

	return readRows(file, r.fileType)
}

// ReadRowsBytes reads in-memory file content (an upload) into raw rows
func ReadRowsBytes(filename string, data []byte) ([][]string, error) {
	if !SupportedFile(filename) {
		return nil, errors.UnsupportedFile(filename)
	}
	return readRows(bytes.NewReader(data), fileTypeFor(filename))
}

func readRows(src io.Reader, fileType string) ([][]string, error) {
	var rows [][]string
	var err error
	switch fileType {
	case "csv":
		rows, err = readCSVRows(src)
	case "xlsx":
		rows, err = readExcelRows(src)
	default:
		return nil, errors.UnsupportedFile(fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.InvalidInput("data file must have a header row and at least one data row")
	}
	return rows, nil
}

func readCSVRows(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	// Tolerate ragged rows; short rows become missing cells downstream.
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	return rows, nil
}

func readExcelRows(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	// Always use the first sheet
	sheet := f.GetSheetName(0)
	if sheet == "" {
		sheet = "Sheet1"
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	return rows, nil
}
