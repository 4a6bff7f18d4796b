package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Classification settings.
	DefaultWaterType domain.WaterBodyType
	LakeStations     []string
	StationCSV       string // optional station mapping file
	StationCacheSize int    // 0 disables the lookup cache
	PaletteFile      string // optional YAML color overrides
}

const (
	defaultStationCacheSize = 1024
	maxStationCacheSize     = 100000
)

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	stationCache, err := parseStationCacheSize()
	if err != nil {
		return nil, err
	}

	rawWater := sharedcfg.EnvOrDefault("DEFAULT_WATER_TYPE", "河流")
	defaultWater := domain.ParseWaterBodyType(rawWater)
	if defaultWater == domain.WaterUnspecified {
		return nil, fmt.Errorf("invalid DEFAULT_WATER_TYPE %q: want river or lake", rawWater)
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-water-readings"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "classified-water-quality"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "water-quality-classifier"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		DefaultWaterType: defaultWater,
		// Station lists follow the broker list format.
		LakeStations:     sharedcfg.ParseBrokers(os.Getenv("LAKE_STATIONS")),
		StationCSV:       os.Getenv("STATION_CSV"),
		StationCacheSize: stationCache,
		PaletteFile:      os.Getenv("PALETTE_FILE"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.KafkaSourceTopic == cfg.KafkaSinkTopic {
		return nil, errors.New("KAFKA_SOURCE_TOPIC and KAFKA_SINK_TOPIC must differ")
	}

	return cfg, nil
}

// parseStationCacheSize reads STATION_CACHE_SIZE. Default: 1024. Range: 0-100000.
func parseStationCacheSize() (int, error) {
	s := os.Getenv("STATION_CACHE_SIZE")
	if s == "" {
		return defaultStationCacheSize, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > maxStationCacheSize {
		return 0, fmt.Errorf("invalid STATION_CACHE_SIZE: must be 0-%d", maxStationCacheSize)
	}
	return n, nil
}
