package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"shelf-scraper/models"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	HistoryTable     string

	// Concurrency is the fetch-session pool size per platform.
	Concurrency map[models.Platform]int

	PageLoadTimeoutSec int
	SelectorTimeoutSec int
	MaxListings        int

	KeywordsFile string
	BrandsFile   string
	OutputDir    string

	Headless  bool
	ChromeBin string
	LogLevel  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "visibility_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		HistoryTable:     getEnv("HISTORY_TABLE", "visibility_history"),

		Concurrency: map[models.Platform]int{
			models.Amazon:   getEnvInt("AMAZON_CONCURRENCY", 1),
			models.Flipkart: getEnvInt("FLIPKART_CONCURRENCY", 1),
			models.Myntra:   getEnvInt("MYNTRA_CONCURRENCY", 3),
			models.Nykaa:    getEnvInt("NYKAA_CONCURRENCY", 4),
		},

		PageLoadTimeoutSec: getEnvInt("PAGE_LOAD_TIMEOUT_SEC", 30),
		SelectorTimeoutSec: getEnvInt("SELECTOR_TIMEOUT_SEC", 10),
		MaxListings:        getEnvInt("MAX_LISTINGS", 10),

		KeywordsFile: getEnv("KEYWORDS_FILE", "data/keywords.csv"),
		BrandsFile:   getEnv("BRANDS_FILE", "data/brands.csv"),
		OutputDir:    getEnv("OUTPUT_DIR", "output"),

		Headless:  getEnvBool("HEADLESS", true),
		ChromeBin: getEnv("CHROME_BIN", ""),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

// DSN returns the PostgreSQL connection string for the history sink.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
