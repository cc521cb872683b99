package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// LoadKeywords reads search keywords from a one-column CSV file. A header
// row named "keyword" is skipped; blank cells are dropped. The caller is
// not required to deduplicate. An unreadable file is fatal to the run that
// depends on it.
func LoadKeywords(path string) ([]string, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, fmt.Errorf("keywords: %w", err)
	}

	var keywords []string
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		kw := strings.TrimSpace(row[0])
		if kw == "" {
			continue
		}
		if i == 0 && strings.EqualFold(kw, "keyword") {
			continue
		}
		keywords = append(keywords, kw)
	}

	if len(keywords) == 0 {
		return nil, fmt.Errorf("keywords: no keywords found in %s", path)
	}
	return keywords, nil
}

// LoadBrands reads known brand names from a CSV file. The "brand_name"
// column is preferred; otherwise the first column is used. Values are
// returned raw — ordering, lower-casing and dedup are the catalog's job.
func LoadBrands(path string) ([]string, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, fmt.Errorf("brands: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("brands: empty file %s", path)
	}

	col := 0
	start := 0
	for i, name := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(name), "brand_name") {
			col = i
			start = 1
			break
		}
	}

	var brands []string
	for _, row := range rows[start:] {
		if col >= len(row) {
			continue
		}
		if b := strings.TrimSpace(row[col]); b != "" {
			brands = append(brands, b)
		}
	}
	return brands, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return rows, nil
}
