package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Default source filenames under DATA_DIR. The rainfall file has a
// neighbor-filled variant that is preferred when present.
const (
	RainfallFile       = "delhi_ncr_rainfall_monthly_avg_2013_2024.csv"
	RainfallFilledFile = "delhi_ncr_rainfall_monthly_avg_2013_2024_filled.csv"
	TemperatureFile    = "delhi_ncr_temp_monthly_avg_2013_2024.csv"
	PopulationFile     = "Delhi_NCR_Population_Data_Clean.csv"
	IncomeFile         = "district_wise.csv"
	GroundwaterFile    = "ncr_groundwater_yearly.csv"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	DataDir      string
	OutDir       string
	BoundaryPath string
	LogLevel     string
	LogFormat    string

	// RainfallFill synthesizes series for districts missing from the
	// rainfall table by averaging their boundary neighbors.
	RainfallFill bool

	// Optional Kafka results sink.
	KafkaEnabled      bool
	KafkaBrokers      []string
	KafkaResultsTopic string

	// Optional Prometheus Pushgateway for end-of-run metrics.
	PushgatewayURL string
	MetricsJob     string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	dataDir := envOrDefault("DATA_DIR", "data")

	boundaryPath := envOrDefault("BOUNDARY_FILE", "Delhi_NCR_Districts_final.geojson")
	if !filepath.IsAbs(boundaryPath) {
		boundaryPath = filepath.Join(dataDir, boundaryPath)
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		DataDir:      dataDir,
		OutDir:       envOrDefault("OUT_DIR", "out"),
		BoundaryPath: boundaryPath,
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		LogFormat:    envOrDefault("LOG_FORMAT", "json"),

		RainfallFill: envOrDefault("RAINFALL_FILL", "true") == "true",

		KafkaEnabled:      kafkaEnabled,
		KafkaBrokers:      brokers,
		KafkaResultsTopic: envOrDefault("KAFKA_RESULTS_TOPIC", "cvi-results"),

		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
		MetricsJob:     envOrDefault("METRICS_JOB", "cvi-etl"),
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.OutDir == "" {
		return nil, errors.New("OUT_DIR is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaResultsTopic == "" {
		return nil, errors.New("KAFKA_RESULTS_TOPIC is required when the Kafka sink is enabled")
	}

	return cfg, nil
}

// SourcePath returns the path of a source file under DataDir.
func (c *Config) SourcePath(name string) string {
	return filepath.Join(c.DataDir, name)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
