package services

import (
	"errors"
	"reflect"
	"testing"

	"shelf-scraper/models"
)

type fakeHistory struct {
	header []string
	rows   [][]string

	fetchErr error

	gotHeader []string
	gotRows   [][]string
}

func (f *fakeHistory) Fetch() ([]string, [][]string, error) {
	return f.header, f.rows, f.fetchErr
}

func (f *fakeHistory) Replace(header []string, rows [][]string) error {
	f.gotHeader = header
	f.gotRows = rows
	return nil
}

func sampleRecords() []*models.Record {
	price := 100.0
	mrp := 200.0
	disc := 50.0
	return []*models.Record{
		{
			Keyword: "red lipstick", Rank: 1, ListingType: models.ListingOrganic,
			ProductName: "brandx red lipstick", Price: &price, Mrp: &mrp,
			DiscountPercent: &disc, StockStatus: models.StockIn,
			URL: "https://www.amazon.in/dp/1", Platform: models.Amazon, BrandName: "brandx",
		},
		{
			Keyword: "red lipstick", Rank: 2, ListingType: models.ListingSponsored,
			ProductName: "brandy velvet lipstick", StockStatus: models.StockOut,
			URL: "N/A", Platform: models.Nykaa, BrandName: "brandy",
		},
	}
}

func TestMergeDropsURLAndStampsDate(t *testing.T) {
	m := NewMerger("2026-09-01")
	ds := m.Merge(sampleRecords())

	for _, col := range ds.Header {
		if col == "url" {
			t.Error("merged header must not contain url")
		}
	}

	if ds.Header[len(ds.Header)-1] != "date" {
		t.Errorf("last column = %q; want date", ds.Header[len(ds.Header)-1])
	}
	for i, row := range ds.Rows {
		if len(row) != len(ds.Header) {
			t.Fatalf("row %d width %d != header width %d", i, len(row), len(ds.Header))
		}
		if row[len(row)-1] != "2026-09-01" {
			t.Errorf("row %d date = %q; want 2026-09-01", i, row[len(row)-1])
		}
	}
}

func TestMergeOmitsRatingColumnsWhenUnused(t *testing.T) {
	m := NewMerger("2026-09-01")
	ds := m.Merge(sampleRecords())

	for _, col := range ds.Header {
		if col == "rating" || col == "review_count" {
			t.Errorf("column %q present although no record carries it", col)
		}
	}

	records := sampleRecords()
	records = append(records, &models.Record{
		Keyword: "red lipstick", Rank: 1, ListingType: models.ListingOrganic,
		ProductName: "brandz kurti", StockStatus: models.StockOut, URL: "N/A",
		Platform: models.Myntra, Rating: "4.2", ReviewCount: "1.1k",
	})
	ds = m.Merge(records)

	found := 0
	for _, col := range ds.Header {
		if col == "rating" || col == "review_count" {
			found++
		}
	}
	if found != 2 {
		t.Errorf("rating columns found = %d; want 2 when a record carries them", found)
	}
}

func TestMergeFormatsOptionals(t *testing.T) {
	m := NewMerger("2026-09-01")
	ds := m.Merge(sampleRecords())

	// row 0: price 100, mrp 200, discount 50; row 1: all absent
	if ds.Rows[0][4] != "100" || ds.Rows[0][5] != "200" || ds.Rows[0][6] != "50" {
		t.Errorf("numeric row = %v", ds.Rows[0][4:7])
	}
	if ds.Rows[1][4] != "N/A" || ds.Rows[1][5] != "N/A" || ds.Rows[1][6] != "N/A" {
		t.Errorf("sentinel row = %v; want N/A", ds.Rows[1][4:7])
	}
}

func TestAppendReconcilesColumnsByIntersection(t *testing.T) {
	m := NewMerger("2026-09-01")

	store := &fakeHistory{
		header: []string{"keyword", "price"},
		rows:   [][]string{{"old kw", "42"}},
	}

	ds := &models.MergedDataset{
		Date:   "2026-09-01",
		Header: []string{"keyword", "price", "rating"},
		Rows:   [][]string{{"new kw", "99", "4.5"}},
	}

	if err := m.Append(ds, store); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if !reflect.DeepEqual(store.gotHeader, []string{"keyword", "price"}) {
		t.Errorf("header = %v; want [keyword price] — rating must be dropped", store.gotHeader)
	}
	want := [][]string{{"old kw", "42"}, {"new kw", "99"}}
	if !reflect.DeepEqual(store.gotRows, want) {
		t.Errorf("rows = %v; want history followed by projected new rows %v", store.gotRows, want)
	}
}

func TestAppendKeepsWiderHistoryColumnsAndPadsNewRows(t *testing.T) {
	m := NewMerger("2026-09-01")

	// A prior run carried Myntra records, so history has rating and
	// review_count; this run doesn't. History rows must come through
	// untouched under their full header, never truncated or misaligned.
	store := &fakeHistory{
		header: []string{"keyword", "price", "rating", "review_count", "date"},
		rows: [][]string{
			{"kurta", "799", "4.3", "2.1k", "2026-08-31"},
		},
	}

	ds := &models.MergedDataset{
		Date:   "2026-09-01",
		Header: []string{"keyword", "price", "date"},
		Rows:   [][]string{{"red lipstick", "499", "2026-09-01"}},
	}

	if err := m.Append(ds, store); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if !reflect.DeepEqual(store.gotHeader, store.header) {
		t.Errorf("header = %v; want history's full header %v", store.gotHeader, store.header)
	}
	for i, row := range store.gotRows {
		if len(row) != len(store.gotHeader) {
			t.Fatalf("row %d width %d != header width %d — misaligned persisted state",
				i, len(row), len(store.gotHeader))
		}
	}
	if !reflect.DeepEqual(store.gotRows[0], []string{"kurta", "799", "4.3", "2.1k", "2026-08-31"}) {
		t.Errorf("history row rewritten: %v", store.gotRows[0])
	}
	want := []string{"red lipstick", "499", "", "", "2026-09-01"}
	if !reflect.DeepEqual(store.gotRows[1], want) {
		t.Errorf("new row = %v; want %v with history-only columns blank", store.gotRows[1], want)
	}
}

func TestAppendDegradesWhenHistoryUnreadable(t *testing.T) {
	m := NewMerger("2026-09-01")

	store := &fakeHistory{fetchErr: errors.New("connection refused")}
	ds := &models.MergedDataset{
		Header: []string{"keyword", "price"},
		Rows:   [][]string{{"kw", "10"}},
	}

	if err := m.Append(ds, store); err != nil {
		t.Fatalf("Append should degrade, not fail: %v", err)
	}
	if !reflect.DeepEqual(store.gotHeader, ds.Header) {
		t.Errorf("header = %v; want full new-dataset header", store.gotHeader)
	}
	if !reflect.DeepEqual(store.gotRows, ds.Rows) {
		t.Errorf("rows = %v; want new dataset as entire history", store.gotRows)
	}
}

func TestAppendEmptyHistoryWritesFullDataset(t *testing.T) {
	m := NewMerger("2026-09-01")

	store := &fakeHistory{} // no table yet
	ds := m.Merge(sampleRecords())

	if err := m.Append(ds, store); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !reflect.DeepEqual(store.gotHeader, ds.Header) {
		t.Errorf("header = %v; want %v", store.gotHeader, ds.Header)
	}
	if len(store.gotRows) != len(ds.Rows) {
		t.Errorf("rows = %d; want %d", len(store.gotRows), len(ds.Rows))
	}
}
