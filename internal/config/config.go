package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	InputPath string
	OutputDir string

	ConvertOutput string
	FilterOutput  string
	ImagesOutput  string
	StripOutput   string

	ImageBasePath    string
	InputEncoding    string
	InputSheet       string
	EnrichAttributes bool
	StockQuantity    string
	MinStockLevel    string

	DBPath          string
	LedgerEnabled   bool
	MetricsTextfile string

	LogLevel  string
	LogFormat string

	WatchDir         string
	WatchIntervalSec int
	WatchVariant     string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		InputPath: getEnv("INPUT_PATH", filepath.Join(cwd, "components_database.csv")),
		OutputDir: getEnv("OUTPUT_DIR", cwd),

		ConvertOutput: getEnv("CONVERT_OUTPUT", "components_for_import.csv"),
		FilterOutput:  getEnv("FILTER_OUTPUT", "filtered_components_for_import.csv"),
		ImagesOutput:  getEnv("IMAGES_OUTPUT", "components_database_with_images.csv"),
		StripOutput:   getEnv("STRIP_OUTPUT", "components_database_cleaned.csv"),

		ImageBasePath:    getEnv("IMAGE_BASE_PATH", "/images/components"),
		InputEncoding:    getEnv("INPUT_ENCODING", "utf-8"),
		InputSheet:       getEnv("INPUT_SHEET", ""),
		EnrichAttributes: getEnvBool("ENRICH_ATTRIBUTES", false),
		StockQuantity:    getEnv("STOCK_QUANTITY", "10"),
		MinStockLevel:    getEnv("MIN_STOCK_LEVEL", "5"),

		DBPath:          getEnv("DB_PATH", filepath.Join(cwd, "data", "pcprep.db")),
		LedgerEnabled:   getEnvBool("LEDGER_ENABLED", true),
		MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		WatchDir:         getEnv("WATCH_DIR", filepath.Join(cwd, "data", "incoming")),
		WatchIntervalSec: getEnvInt("WATCH_INTERVAL_SEC", 30),
		WatchVariant:     getEnv("WATCH_VARIANT", "filter"),
	}

	return cfg, nil
}

// OutputPath resolves a configured output name against OutputDir unless it is already absolute.
func (c Config) OutputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}

// Require fails when a setting that has no usable default is blank.
func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
