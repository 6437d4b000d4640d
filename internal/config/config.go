package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/salt-sweep/internal/domain"
)

// Config holds all sweep settings, populated from environment variables.
// cmd/sweep lets flags override the path and rate-range fields after Load.
type Config struct {
	LandUsePath string
	OutputDir   string

	ParkingRates domain.RateRange
	RoadRates    domain.RateRange

	// Strict aborts the run on the first invalid watershed instead of
	// skipping it and continuing with the rest.
	Strict bool

	LogLevel  string
	LogFormat string

	// HTTPAddr enables the health/metrics server when non-empty.
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Kafka sink for downstream charting consumers.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	parking, err := parseRateRange("PARKING_RATE", domain.DefaultParkingRange())
	if err != nil {
		return nil, err
	}
	road, err := parseRateRange("ROAD_RATE", domain.DefaultRoadRange())
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LandUsePath: envOrDefault("LANDUSE_CSV", "data/landuse.csv"),
		OutputDir:   envOrDefault("OUTPUT_DIR", "out"),

		ParkingRates: parking,
		RoadRates:    road,

		Strict: os.Getenv("STRICT_VALIDATION") == "true",

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_SINK_TOPIC", "salt-sweep-results"),
	}

	if cfg.LandUsePath == "" {
		return nil, errors.New("LANDUSE_CSV is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if err := cfg.ParkingRates.Validate(); err != nil {
		return nil, fmt.Errorf("PARKING_RATE range: %w", err)
	}
	if err := cfg.RoadRates.Validate(); err != nil {
		return nil, fmt.Errorf("ROAD_RATE range: %w", err)
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
		}
	}

	return cfg, nil
}

// parseRateRange reads <prefix>_MIN, <prefix>_MAX, and <prefix>_STEP,
// falling back to the given default per field.
func parseRateRange(prefix string, def domain.RateRange) (domain.RateRange, error) {
	start, err := parseFloat(prefix+"_MIN", def.Start)
	if err != nil {
		return domain.RateRange{}, err
	}
	stop, err := parseFloat(prefix+"_MAX", def.Stop)
	if err != nil {
		return domain.RateRange{}, err
	}
	step, err := parseFloat(prefix+"_STEP", def.Step)
	if err != nil {
		return domain.RateRange{}, err
	}
	return domain.RateRange{Start: start, Stop: stop, Step: step}, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
