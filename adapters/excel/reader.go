package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"luxcheck/domain/core"
)

// StandardsReader reads requirement records from .xlsx or .csv files
type StandardsReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	keys     KeyMapper
}

// ReaderOption configures a StandardsReader
type ReaderOption func(*StandardsReader)

// WithSheet reads the named worksheet instead of the first one
func WithSheet(name string) ReaderOption {
	return func(r *StandardsReader) { r.sheet = name }
}

// WithKeyMapper maps header cells, typically through the alias normalizer
func WithKeyMapper(m KeyMapper) ReaderOption {
	return func(r *StandardsReader) { r.keys = m }
}

// IsSpreadsheet reports whether path has an extension the reader handles
func IsSpreadsheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}

// NewStandardsReader creates a reader for a spreadsheet or CSV file
func NewStandardsReader(filePath string, opts ...ReaderOption) *StandardsReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	r := &StandardsReader{filePath: filePath, fileType: fileType}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read loads the header row and every data row
func (r *StandardsReader) Read() (*Sheet, error) {
	log.Printf("[StandardsReader] Reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	default:
		return r.readWorkbook()
	}
}

func (r *StandardsReader) readWorkbook() (*Sheet, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets: %s", r.filePath)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	log.Printf("[StandardsReader] Sheet %q read in %.2fms (%d rows)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	out, err := r.processRows(rows)
	if err != nil {
		return nil, err
	}
	out.Name = sheet
	return out, nil
}

func (r *StandardsReader) readCSV() (*Sheet, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return r.processRows(rows)
}

// processRows turns string rows into records. Fully blank rows are dropped.
func (r *StandardsReader) processRows(rows [][]string) (*Sheet, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s file has no header row", strings.ToUpper(r.fileType))
	}

	headers := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header := strings.TrimSpace(cell)
		if r.keys != nil && header != "" {
			header = r.keys.NormalizeKey(header)
		}
		headers[i] = header
	}

	var records []*core.Fields
	for _, row := range rows[1:] {
		rec := core.NewFields()
		blank := true
		for j, header := range headers {
			if header == "" {
				continue
			}
			var cell string
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			if cell == "" {
				rec.Set(header, nil)
				continue
			}
			blank = false
			rec.Set(header, cell)
		}
		if !blank {
			records = append(records, rec)
		}
	}

	log.Printf("[StandardsReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(records))

	return &Sheet{Headers: headers, Rows: records}, nil
}
