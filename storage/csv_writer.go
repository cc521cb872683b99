package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"shelf-scraper/models"
	"shelf-scraper/services"
)

// recordHeader is the flattened canonical record shape written per platform.
var recordHeader = []string{
	"keyword", "rank", "listing_type", "product_name", "price", "mrp",
	"discount_percent", "rating", "review_count", "stock_status", "url",
	"platform", "brand_name",
}

// CSVWriter writes canonical records and merged datasets to CSV files.
// Files are truncated on each run.
type CSVWriter struct{}

// NewCSVWriter creates a CSVWriter.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteRecords writes one platform's canonical records to path with a
// header row. Zero records means no file is produced.
func (c *CSVWriter) WriteRecords(path string, records []*models.Record) error {
	if len(records) == 0 {
		return nil
	}

	w, f, err := c.open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write(recordHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Keyword,
			strconv.Itoa(r.Rank),
			r.ListingType,
			r.ProductName,
			services.FormatOptional(r.Price),
			services.FormatOptional(r.Mrp),
			services.FormatOptional(r.DiscountPercent),
			orNA(r.Rating),
			orNA(r.ReviewCount),
			r.StockStatus,
			r.URL,
			r.Platform.String(),
			r.BrandName,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// WriteDataset writes the merged dataset to path, overwriting any previous
// run's file.
func (c *CSVWriter) WriteDataset(path string, ds *models.MergedDataset) error {
	w, f, err := c.open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write(ds.Header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range ds.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// orNA substitutes the missing-value sentinel for fields platforms do not
// expose, so per-platform files share one record shape.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func (c *CSVWriter) open(path string) (*csv.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}
	return csv.NewWriter(f), f, nil
}
