package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"shelf-scraper/config"
	"shelf-scraper/models"
	"shelf-scraper/scraper"
	"shelf-scraper/services"
	"shelf-scraper/storage"
	"shelf-scraper/utils"
)

func init() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
}

func main() {
	cfg := config.Load()

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	log.Info("=== Shelf visibility scraper starting ===")

	keywords, err := storage.LoadKeywords(cfg.KeywordsFile)
	if err != nil {
		log.Fatalf("Failed to load keywords: %v", err)
	}
	log.Infof("Loaded %d keywords from %s", len(keywords), cfg.KeywordsFile)

	brands, err := storage.LoadBrands(cfg.BrandsFile)
	if err != nil {
		log.Fatalf("Failed to load brand catalog: %v", err)
	}
	catalog := services.NewBrandCatalog(brands)
	log.Infof("Brand catalog: %d brands", catalog.Len())

	normalizer := services.NewNormalizer()
	csvWriter := storage.NewCSVWriter()

	var all []*models.Record
	for _, platform := range models.AllPlatforms {
		ex := scraper.ForPlatform(platform)

		raw := scraper.NewOrchestrator(ex, cfg).Run(keywords)
		records := normalizer.NormalizeAll(raw)
		catalog.AttributeAll(records)

		log.Infof("[%s] %d raw → %d canonical records", platform, len(raw), len(records))

		if len(records) == 0 {
			log.Warnf("[%s] no records collected — skipping platform output", platform)
			continue
		}

		path := filepath.Join(cfg.OutputDir, strings.ToLower(platform.String())+"_output.csv")
		if err := csvWriter.WriteRecords(path, records); err != nil {
			log.Errorf("[%s] CSV write failed: %v", platform, err)
		} else {
			log.Infof("[%s] records saved to %s", platform, path)
		}

		all = append(all, records...)
	}

	if len(all) == 0 {
		log.Error("No data collected on any platform. Exiting.")
		os.Exit(1)
	}

	merger := services.NewMerger(time.Now().Format("2006-01-02"))
	merged := merger.Merge(all)
	log.Infof("Merged dataset: %d rows, %d columns", len(merged.Rows), len(merged.Header))

	mergedPath := filepath.Join(cfg.OutputDir, "merged_visibility.csv")
	if err := csvWriter.WriteDataset(mergedPath, merged); err != nil {
		log.Errorf("Merged CSV write failed: %v", err)
	} else {
		log.Infof("Merged dataset saved to %s", mergedPath)
	}

	history, err := storage.NewPostgresHistory(cfg.DSN(), cfg.HistoryTable)
	if err != nil {
		log.Errorf("History sink unavailable: %v — local outputs are still on disk", err)
		return
	}
	defer history.Close()

	retry := &utils.RetryConfig{MaxAttempts: 3, BaseDelay: 2 * time.Second}
	err = retry.Do("history-append", func() error {
		return merger.Append(merged, history)
	})
	if err != nil {
		log.Errorf("History append failed: %v — local outputs are still on disk", err)
		return
	}

	log.Infof("Appended %d rows to history table %q", len(merged.Rows), cfg.HistoryTable)
	log.Info("Done.")
}
