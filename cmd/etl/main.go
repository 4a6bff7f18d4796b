package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/IceRain5491/WaterQualityClassifier/internal/adapter/http"
	kafkaadapter "github.com/IceRain5491/WaterQualityClassifier/internal/adapter/kafka"
	"github.com/IceRain5491/WaterQualityClassifier/internal/adapter/stationcsv"
	"github.com/IceRain5491/WaterQualityClassifier/internal/config"
	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
	"github.com/IceRain5491/WaterQualityClassifier/internal/observability"
	"github.com/IceRain5491/WaterQualityClassifier/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	display, err := config.LoadDisplay(cfg.PaletteFile)
	if err != nil {
		logger.Error("failed to load palette", "error", err)
		os.Exit(1)
	}

	// Station directory (optional, via STATION_CSV). Lake rows seed the registry.
	registry := domain.NewStationRegistry(cfg.LakeStations...)
	var directory domain.StationDirectory
	if cfg.StationCSV != "" {
		dir, err := stationcsv.Load(cfg.StationCSV)
		if err != nil {
			logger.Error("failed to load station directory", "path", cfg.StationCSV, "error", err)
			os.Exit(1)
		}
		for _, name := range dir.LakeStations() {
			registry.Add(name)
		}
		directory = dir
		if cfg.StationCacheSize > 0 {
			directory = stationcsv.NewCachedDirectory(dir, cfg.StationCacheSize)
		}
		logger.Info("station directory loaded",
			"path", cfg.StationCSV,
			"stations", dir.Len(),
			"groups", len(dir.GroupNames()),
			"cache_size", cfg.StationCacheSize,
		)
	} else {
		logger.Info("station directory disabled")
	}
	metrics.StationsRegistered.Set(float64(registry.Len()))

	classifier := domain.NewClassifier(cfg.DefaultWaterType, registry)
	logger.Info("classifier ready",
		"default_water_type", cfg.DefaultWaterType.String(),
		"lake_stations", registry.Len(),
	)

	reader := kafkaadapter.NewReader(cfg, observability.Component(logger, "kafka-reader"))
	writer := kafkaadapter.NewWriter(cfg, observability.Component(logger, "kafka-writer"))
	transformer := pipeline.NewTransformer(classifier, directory, observability.Component(logger, "transformer"), metrics)

	p := pipeline.New(reader, transformer, writer, observability.Component(logger, "pipeline"), metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, classifier, directory, display, observability.Component(logger, "http"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := p.Run(gctx); err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		return nil
	})

	// Either a signal or a failed component starts the shutdown.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
