// Command sweep runs the full-factorial road-salt scenario sweep: it reads a
// watershed land-use CSV, enumerates every rate combination across the six
// land-use categories, and writes the long-form result table, per-category
// summary statistics, and median-based category rankings as CSVs.
//
// Configuration comes from environment variables (see internal/config);
// flags override the input path, output directory, and rate-range bounds.
//
// Usage:
//
//	go run ./cmd/sweep -input data/landuse.csv -output-dir out \
//	  -parking-min 27 -parking-max 90 -parking-step 10 \
//	  -road-min 88 -road-max 130 -road-step 10
//
// Exit code 0 on success, 1 on configuration, schema, or validation failure.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/cheggaaa/pb.v1"

	"github.com/couchcryptid/salt-sweep/internal/adapter/csvio"
	httpadapter "github.com/couchcryptid/salt-sweep/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/salt-sweep/internal/adapter/kafka"
	"github.com/couchcryptid/salt-sweep/internal/config"
	"github.com/couchcryptid/salt-sweep/internal/domain"
	"github.com/couchcryptid/salt-sweep/internal/observability"
	"github.com/couchcryptid/salt-sweep/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.LandUsePath, "input", cfg.LandUsePath, "watershed land-use CSV path")
	flag.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "directory for result CSVs")
	flag.Float64Var(&cfg.ParkingRates.Start, "parking-min", cfg.ParkingRates.Start, "lowest parking application rate (g/m²)")
	flag.Float64Var(&cfg.ParkingRates.Stop, "parking-max", cfg.ParkingRates.Stop, "highest parking application rate (g/m²)")
	flag.Float64Var(&cfg.ParkingRates.Step, "parking-step", cfg.ParkingRates.Step, "parking rate increment")
	flag.Float64Var(&cfg.RoadRates.Start, "road-min", cfg.RoadRates.Start, "lowest roadway application rate (kg/lane-km)")
	flag.Float64Var(&cfg.RoadRates.Stop, "road-max", cfg.RoadRates.Stop, "highest roadway application rate (kg/lane-km)")
	flag.Float64Var(&cfg.RoadRates.Step, "road-step", cfg.RoadRates.Step, "roadway rate increment")
	flag.BoolVar(&cfg.Strict, "strict", cfg.Strict, "abort on the first invalid watershed instead of skipping it")
	showProgress := flag.Bool("progress", true, "render a per-watershed progress bar")
	flag.Parse()

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	os.Exit(run(cfg, logger, metrics, *showProgress))
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, showProgress bool) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	grid, err := domain.NewRateGrid(cfg.ParkingRates, cfg.RoadRates)
	if err != nil {
		logger.Error("invalid rate ranges", "error", err)
		return 1
	}

	watersheds, areas, err := csvio.ReadLandUse(cfg.LandUsePath)
	if err != nil {
		logger.Error("failed to read land-use input", "path", cfg.LandUsePath, "error", err)
		return 1
	}

	var bar *pb.ProgressBar
	progress := func(string) {}
	if showProgress {
		bar = pb.StartNew(len(watersheds))
		progress = func(string) { bar.Increment() }
	}

	runner := pipeline.New(logger, metrics, cfg.Strict, progress)

	// Health/metrics server for long sweeps, enabled via HTTP_ADDR.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, runner, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}
	defer shutdownServer(srv, cfg, logger)

	report, err := runner.Run(watersheds, grid)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		logger.Error("sweep failed", "error", err)
		return 1
	}

	if err := writeOutputs(cfg, report, areas); err != nil {
		logger.Error("failed to write outputs", "error", err)
		return 1
	}

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer writer.Close()
		if err := writer.PublishRows(ctx, report.Long); err != nil {
			logger.Error("failed to publish results", "error", err)
			return 1
		}
	}

	logger.Info("sweep complete",
		"watersheds", len(report.Table.Watersheds),
		"combinations", report.Table.ComboCount,
		"skipped", report.Skipped,
		"unranked", report.Unranked,
		"output_dir", cfg.OutputDir,
	)
	return 0
}

func writeOutputs(cfg *config.Config, report *pipeline.Report, areas domain.AreaLookup) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}
	if err := csvio.WriteLongTable(filepath.Join(cfg.OutputDir, "scenarios_long.csv"), report.Long, areas); err != nil {
		return err
	}
	if err := csvio.WriteSummaries(filepath.Join(cfg.OutputDir, "category_summary.csv"), report.Summaries); err != nil {
		return err
	}
	return csvio.WriteRankings(filepath.Join(cfg.OutputDir, "category_ranking.csv"), report.Rankings)
}

func shutdownServer(srv *httpadapter.Server, cfg *config.Config, logger *slog.Logger) {
	if srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
}
