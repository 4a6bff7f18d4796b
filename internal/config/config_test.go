package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "raw-water-readings", cfg.KafkaSourceTopic)
	assert.Equal(t, "classified-water-quality", cfg.KafkaSinkTopic)
	assert.Equal(t, "water-quality-classifier", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, domain.WaterRiver, cfg.DefaultWaterType)
	assert.Empty(t, cfg.LakeStations)
	assert.Empty(t, cfg.StationCSV)
	assert.Equal(t, 1024, cfg.StationCacheSize)
	assert.Empty(t, cfg.PaletteFile)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092,")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("DEFAULT_WATER_TYPE", "lake")
	t.Setenv("LAKE_STATIONS", "朱家尖, 东港水库")
	t.Setenv("STATION_CSV", "/etc/wqc/stations.csv")
	t.Setenv("STATION_CACHE_SIZE", "0")
	t.Setenv("PALETTE_FILE", "/etc/wqc/palette.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, domain.WaterLake, cfg.DefaultWaterType)
	assert.Equal(t, []string{"朱家尖", "东港水库"}, cfg.LakeStations)
	assert.Equal(t, "/etc/wqc/stations.csv", cfg.StationCSV)
	assert.Zero(t, cfg.StationCacheSize)
	assert.Equal(t, "/etc/wqc/palette.yaml", cfg.PaletteFile)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"shutdown not a duration", "SHUTDOWN_TIMEOUT", "not-a-duration", "SHUTDOWN_TIMEOUT"},
		{"shutdown negative", "SHUTDOWN_TIMEOUT", "-1s", "SHUTDOWN_TIMEOUT"},
		{"batch size zero", "BATCH_SIZE", "0", "BATCH_SIZE"},
		{"batch size too large", "BATCH_SIZE", "9999", "BATCH_SIZE"},
		{"station cache negative", "STATION_CACHE_SIZE", "-1", "STATION_CACHE_SIZE"},
		{"station cache not a number", "STATION_CACHE_SIZE", "lots", "STATION_CACHE_SIZE"},
		{"batch size not a number", "BATCH_SIZE", "ten", "BATCH_SIZE"},
		{"flush interval", "BATCH_FLUSH_INTERVAL", "not-a-duration", "BATCH_FLUSH_INTERVAL"},
		{"water type", "DEFAULT_WATER_TYPE", "ocean", "DEFAULT_WATER_TYPE"},
		{"brokers blank", "KAFKA_BROKERS", " , ", "KAFKA_BROKERS"},
		{"same topics", "KAFKA_SINK_TOPIC", "raw-water-readings", "must differ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
