package services

import (
	"strconv"

	log "github.com/sirupsen/logrus"

	"shelf-scraper/models"
)

// HistoryStore is the externally persisted history of prior runs. The merge
// engine only needs to read everything back and replace it with the
// schema-aligned superset.
type HistoryStore interface {
	Fetch() (header []string, rows [][]string, err error)
	Replace(header []string, rows [][]string) error
}

// Merger unions per-platform canonical datasets and reconciles them against
// persisted history.
type Merger struct {
	date string
}

// NewMerger creates a Merger stamping rows with the given ISO date.
func NewMerger(date string) *Merger {
	return &Merger{date: date}
}

// Merge concatenates all platform records into one dataset, drops the url
// column and stamps every row with the run date. Rating and review columns
// are emitted only when at least one record carries them.
func (m *Merger) Merge(records []*models.Record) *models.MergedDataset {
	withRatings := false
	for _, r := range records {
		if r.Rating != "" || r.ReviewCount != "" {
			withRatings = true
			break
		}
	}

	header := []string{"keyword", "rank", "listing_type", "product_name",
		"price", "mrp", "discount_percent"}
	if withRatings {
		header = append(header, "rating", "review_count")
	}
	header = append(header, "stock_status", "platform", "brand_name", "date")

	ds := &models.MergedDataset{
		Date:   m.date,
		Header: header,
		Rows:   make([][]string, 0, len(records)),
	}

	for _, r := range records {
		row := []string{
			r.Keyword,
			strconv.Itoa(r.Rank),
			r.ListingType,
			r.ProductName,
			FormatOptional(r.Price),
			FormatOptional(r.Mrp),
			FormatOptional(r.DiscountPercent),
		}
		if withRatings {
			row = append(row, orNA(r.Rating), orNA(r.ReviewCount))
		}
		row = append(row, r.StockStatus, r.Platform.String(), r.BrandName, m.date)
		ds.Rows = append(ds.Rows, row)
	}

	return ds
}

// Append reconciles the merged dataset against the persisted history and
// replaces the store's content with history rows followed by this run's
// rows. History's column set wins: columns it lacks are dropped from the
// new rows, and history-only columns are kept with the new rows padded
// blank, so existing rows are never rewritten or misaligned. A history
// read failure degrades to treating the new data as the entire history so
// the run's rows are never lost.
func (m *Merger) Append(ds *models.MergedDataset, store HistoryStore) error {
	header, rows, err := store.Fetch()
	if err != nil || len(header) == 0 {
		if err != nil {
			log.Warnf("[merge] could not read existing history: %v — writing new data as full history", err)
		}
		return store.Replace(ds.Header, ds.Rows)
	}

	if dropped := missingColumns(ds.Header, header); len(dropped) > 0 {
		log.Warnf("[merge] columns %v absent from history — dropped from this run's rows", dropped)
	}
	if padded := missingColumns(header, ds.Header); len(padded) > 0 {
		log.Infof("[merge] history columns %v missing from this run — padded with blanks", padded)
	}

	projected := projectRows(ds, header)

	combined := make([][]string, 0, len(rows)+len(projected))
	combined = append(combined, rows...)
	combined = append(combined, projected...)

	log.Infof("[merge] history rows: %d | new rows: %d", len(rows), len(projected))
	return store.Replace(header, combined)
}

func missingColumns(all, kept []string) []string {
	keep := make(map[string]struct{}, len(kept))
	for _, c := range kept {
		keep[c] = struct{}{}
	}
	var missing []string
	for _, c := range all {
		if _, ok := keep[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// projectRows rebuilds each dataset row in the target column order;
// columns the dataset lacks stay blank.
func projectRows(ds *models.MergedDataset, columns []string) [][]string {
	idx := make(map[string]int, len(ds.Header))
	for i, c := range ds.Header {
		idx[c] = i
	}

	out := make([][]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		projected := make([]string, len(columns))
		for i, c := range columns {
			if j, ok := idx[c]; ok && j < len(row) {
				projected[i] = row[j]
			}
		}
		out = append(out, projected)
	}
	return out
}

// FormatOptional renders an optional numeric field, using the "N/A"
// sentinel when the value is unknown.
func FormatOptional(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
