package storage

import "shelf-scraper/models"

// RecordWriter persists a platform's canonical records.
type RecordWriter interface {
	WriteRecords(path string, records []*models.Record) error
}

// DatasetWriter persists the merged cross-platform dataset.
type DatasetWriter interface {
	WriteDataset(path string, ds *models.MergedDataset) error
}
