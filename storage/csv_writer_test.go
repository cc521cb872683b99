package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"shelf-scraper/models"
)

func readBack(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open written csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read written csv: %v", err)
	}
	return rows
}

func TestWriteRecordsSkipsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amazon_output.csv")

	if err := NewCSVWriter().WriteRecords(path, nil); err != nil {
		t.Fatalf("WriteRecords: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be produced for zero records")
	}
}

func TestWriteRecordsHeaderAndSentinels(t *testing.T) {
	price := 499.0
	records := []*models.Record{
		{
			Keyword: "red lipstick", Rank: 1, ListingType: models.ListingOrganic,
			ProductName: "brandx red lipstick", Price: &price, Mrp: &price,
			StockStatus: models.StockIn, URL: "https://www.amazon.in/dp/1",
			Platform: models.Amazon, BrandName: "brandx",
		},
		{
			Keyword: "red lipstick", Rank: 2, ListingType: models.ListingSponsored,
			ProductName: "brandy gloss", StockStatus: models.StockOut, URL: "N/A",
			Platform: models.Amazon,
		},
	}

	path := filepath.Join(t.TempDir(), "amazon_output.csv")
	if err := NewCSVWriter().WriteRecords(path, records); err != nil {
		t.Fatalf("WriteRecords: %v", err)
	}

	rows := readBack(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows; want header + 2", len(rows))
	}
	if rows[0][0] != "keyword" || rows[0][len(rows[0])-1] != "brand_name" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][4] != "499" {
		t.Errorf("price cell = %q; want 499", rows[1][4])
	}
	if rows[2][4] != "N/A" {
		t.Errorf("absent price cell = %q; want N/A", rows[2][4])
	}
	for _, r := range rows[1:] {
		if r[7] != "N/A" || r[8] != "N/A" {
			t.Errorf("rating/review cells = %q,%q; want N/A for platforms without ratings", r[7], r[8])
		}
	}
}

func TestWriteRecordsKeepsRatingWhenPresent(t *testing.T) {
	records := []*models.Record{
		{
			Keyword: "kurta", Rank: 1, ListingType: models.ListingOrganic,
			ProductName: "brandz kurta", StockStatus: models.StockIn,
			URL: "https://www.myntra.com/1", Platform: models.Myntra,
			Rating: "4.3", ReviewCount: "2.1k",
		},
	}

	path := filepath.Join(t.TempDir(), "myntra_output.csv")
	if err := NewCSVWriter().WriteRecords(path, records); err != nil {
		t.Fatalf("WriteRecords: %v", err)
	}

	rows := readBack(t, path)
	if rows[1][7] != "4.3" || rows[1][8] != "2.1k" {
		t.Errorf("rating/review cells = %q,%q; want 4.3, 2.1k", rows[1][7], rows[1][8])
	}
}

func TestWriteDatasetOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged_visibility.csv")
	w := NewCSVWriter()

	first := &models.MergedDataset{
		Header: []string{"keyword", "date"},
		Rows:   [][]string{{"a", "2026-08-31"}, {"b", "2026-08-31"}},
	}
	if err := w.WriteDataset(path, first); err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}

	second := &models.MergedDataset{
		Header: []string{"keyword", "date"},
		Rows:   [][]string{{"c", "2026-09-01"}},
	}
	if err := w.WriteDataset(path, second); err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}

	rows := readBack(t, path)
	if len(rows) != 2 {
		t.Fatalf("got %d rows; want header + 1 after overwrite", len(rows))
	}
	if rows[1][0] != "c" {
		t.Errorf("row = %v; want the second run's data only", rows[1])
	}
}
