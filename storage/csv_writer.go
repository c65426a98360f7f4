package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"earring-market/models"
)

var derivedHeader = []string{
	"row", "title", "source_brand", "brand", "brand_category", "item_type", "material",
	"price", "units_sold", "revenue", "sale_date", "is_bulk", "is_novelty", "has_box",
	"purchase_ceiling",
}

// CSVWriter writes derived listings to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write(derivedHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per listing with source and derived columns.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		saleDate := ""
		if l.HasSaleDate() {
			saleDate = l.SaleDate.Format("2006-01-02")
		}
		row := []string{
			strconv.Itoa(l.Row),
			l.Title,
			l.SourceBrand,
			l.Brand,
			l.BrandCategory,
			l.ItemType,
			l.Material,
			formatFloat(l.Price),
			strconv.Itoa(l.UnitsSold),
			formatFloat(l.Revenue),
			saleDate,
			strconv.FormatBool(l.IsBulk),
			strconv.FormatBool(l.IsNovelty),
			strconv.FormatBool(l.HasBox),
			formatFloat(l.PurchaseCeiling),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
