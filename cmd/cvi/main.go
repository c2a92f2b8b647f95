package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ncrclimate/cvi-etl/internal/adapter/csvsource"
	kafkaadapter "github.com/ncrclimate/cvi-etl/internal/adapter/kafka"
	"github.com/ncrclimate/cvi-etl/internal/config"
	"github.com/ncrclimate/cvi-etl/internal/export"
	"github.com/ncrclimate/cvi-etl/internal/geo"
	"github.com/ncrclimate/cvi-etl/internal/observability"
	"github.com/ncrclimate/cvi-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	boundaries, err := geo.Load(cfg.BoundaryPath, logger)
	if err != nil {
		logger.Error("failed to load boundaries", "error", err)
		os.Exit(1)
	}

	// Results sink is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var sink pipeline.ResultSink
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sink = writer
		logger.Info("kafka results sink enabled",
			"brokers", cfg.KafkaBrokers, "topic", cfg.KafkaResultsTopic)
	} else {
		logger.Info("kafka results sink disabled")
	}

	extractor := csvsource.New(cfg, boundaries, logger)
	calculator := pipeline.NewIndexCalculator(logger, metrics)
	exporter := export.New(cfg, boundaries, logger)

	p := pipeline.New(extractor, calculator, exporter, sink, logger, metrics)

	runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("pipeline error", "error", runErr)
	}

	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(cfg.PushgatewayURL, cfg.MetricsJob); err != nil {
			logger.Error("metrics push failed", "error", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
}
