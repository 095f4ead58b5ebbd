package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"tambak-dashboard-api/pkg/models"

	"github.com/xuri/excelize/v2"
)

// RequiredColumns are the logical fields every upload must carry. Extra
// columns are ignored.
var RequiredColumns = []string{"Tambak", "Produksi_kg", "Biaya", "Pendapatan"}

// ErrUnsupportedFormat is returned for uploads that are neither CSV nor XLSX.
var ErrUnsupportedFormat = fmt.Errorf("format file tidak didukung; unggah .csv atau .xlsx")

// DatasetService reads uploaded tabular files and validates their schema.
type DatasetService struct{}

// NewDatasetService creates a new DatasetService.
func NewDatasetService() *DatasetService {
	return &DatasetService{}
}

// ReadRows parses the upload into raw rows. CSV is read with the standard
// reader (variable column counts allowed); XLSX through excelize, first
// sheet only.
func (s *DatasetService) ReadRows(r io.Reader, filename string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("gagal mengurai file CSV: %w", err)
		}
		return rows, nil
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("gagal membuka file Excel: %w", err)
		}
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("gagal membaca baris Excel: %w", err)
		}
		return rows, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// MissingColumns returns the required columns absent from the header,
// in RequiredColumns order. Empty means the schema check passed.
func (s *DatasetService) MissingColumns(header []string) []string {
	var missing []string
	for _, col := range RequiredColumns {
		if findColumnIndex(header, col) == -1 {
			missing = append(missing, col)
		}
	}
	return missing
}

// ParseRecords converts the data rows (everything after the header) into
// typed records. Rows whose numeric fields do not parse are skipped and
// counted, never fatal.
func (s *DatasetService) ParseRecords(rows [][]string) (records []models.FarmRecord, skipped int) {
	if len(rows) < 2 {
		return nil, 0
	}

	header := rows[0]
	farmIdx := findColumnIndex(header, "Tambak")
	prodIdx := findColumnIndex(header, "Produksi_kg")
	costIdx := findColumnIndex(header, "Biaya")
	revIdx := findColumnIndex(header, "Pendapatan")

	maxIdx := farmIdx
	for _, idx := range []int{prodIdx, costIdx, revIdx} {
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	for _, row := range rows[1:] {
		if len(row) <= maxIdx {
			skipped++
			continue
		}
		farmID := strings.TrimSpace(row[farmIdx])
		production, errP := strconv.ParseFloat(strings.TrimSpace(row[prodIdx]), 64)
		cost, errC := strconv.ParseFloat(strings.TrimSpace(row[costIdx]), 64)
		revenue, errR := strconv.ParseFloat(strings.TrimSpace(row[revIdx]), 64)
		if farmID == "" || errP != nil || errC != nil || errR != nil {
			skipped++
			continue
		}
		records = append(records, models.FarmRecord{
			FarmID:       farmID,
			ProductionKg: production,
			Cost:         cost,
			Revenue:      revenue,
		})
	}
	return records, skipped
}

// Preview returns the header plus the first n data rows, for the data
// preview panel.
func (s *DatasetService) Preview(rows [][]string, n int) [][]string {
	if len(rows) <= n+1 {
		return rows
	}
	preview := make([][]string, n+1)
	copy(preview, rows[:n+1])
	return preview
}

// findColumnIndex locates a column by name, case-insensitively.
func findColumnIndex(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i
		}
	}
	return -1
}
