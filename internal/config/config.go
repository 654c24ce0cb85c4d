package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all raincast settings, populated from environment variables.
type Config struct {
	DataPath  string
	ModelDir  string
	HistoryDB string
	CacheSize int

	MetricsFile string

	KafkaBrokers []string
	KafkaTopic   string

	MeteostatBaseURL string
	MeteostatTimeout time.Duration

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// HistoryEnabled reports whether predictions are logged to SQLite.
func (c *Config) HistoryEnabled() bool { return c.HistoryDB != "" }

// PublishEnabled reports whether predictions are published to Kafka.
func (c *Config) PublishEnabled() bool { return len(c.KafkaBrokers) > 0 }

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	meteostatTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("METEOSTAT_TIMEOUT", "30s"))
	if err != nil || meteostatTimeout <= 0 {
		return nil, errors.New("invalid METEOSTAT_TIMEOUT")
	}

	cacheSize, err := parseCacheSize()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		DataPath:         sharedcfg.EnvOrDefault("RAINCAST_DATA", "datos_procesados.csv"),
		ModelDir:         sharedcfg.EnvOrDefault("RAINCAST_MODEL_DIR", "model"),
		HistoryDB:        os.Getenv("RAINCAST_HISTORY_DB"),
		CacheSize:        cacheSize,
		MetricsFile:      os.Getenv("RAINCAST_METRICS_FILE"),
		KafkaBrokers:     brokers,
		KafkaTopic:       sharedcfg.EnvOrDefault("KAFKA_TOPIC", "rain-predictions"),
		MeteostatBaseURL: sharedcfg.EnvOrDefault("METEOSTAT_BASE_URL", "https://bulk.meteostat.net/v2/daily"),
		MeteostatTimeout: meteostatTimeout,
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout:  shutdownTimeout,
	}

	if cfg.PublishEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("LOG_FORMAT must be text or json")
	}

	return cfg, nil
}

func parseCacheSize() (int, error) {
	s := os.Getenv("RAINCAST_CACHE_SIZE")
	if s == "" {
		return 366, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid RAINCAST_CACHE_SIZE")
	}
	return n, nil
}
