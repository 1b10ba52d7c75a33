// Command processor aggregates the raw feed tree into CSV datasets.
//
// Every season found under the raw data directory is parsed, aggregated
// and exported as the dashboard's CSV files plus an Excel workbook.
// Seasons are processed concurrently up to the worker limit.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"pitchpulse/internal/config"
	"pitchpulse/internal/dataprocessing"
	"pitchpulse/internal/exporter"
	"pitchpulse/internal/infrastructure"
	"pitchpulse/internal/validation"
	"pitchpulse/pkg/contracts/domain"
)

// workerCount clamps the -workers flag to a sane range.
func workerCount(requested int) int {
	if requested > 0 {
		return requested
	}
	n := runtime.NumCPU()
	if n > 4 {
		n = 4
	}
	return n
}

// shouldExport applies the -competition filter to a processed season.
func shouldExport(ref domain.SeasonRef, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(ref.Competition), strings.ToLower(filter))
}

func main() {
	workers := flag.Int("workers", 0, "seasons processed concurrently (default: CPU count, capped at 4)")
	competition := flag.String("competition", "", "only export seasons whose competition directory contains this string")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("failed to create data directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("processor.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(paths.RawDir, ""); err != nil {
		logger.Error("raw directory check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(paths.DatasetsDir); err != nil {
		logger.Error("datasets directory check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	processor := dataprocessing.NewProcessor(paths, logger)
	datasets := exporter.NewDatasetExporter(paths, logger)
	workbooks := exporter.NewWorkbookExporter(paths, logger)

	limit := workerCount(*workers)
	logger.Info("processing raw data tree",
		slog.String("raw_dir", paths.RawDir),
		slog.String("datasets_dir", paths.DatasetsDir),
		slog.Int("workers", limit))

	start := time.Now()
	var exported, filtered atomic.Int64

	err = processor.ProcessAll(ctx, limit, func(ctx context.Context, ds *dataprocessing.SeasonDataset) error {
		if !shouldExport(ds.Ref, *competition) {
			filtered.Add(1)
			return nil
		}
		if err := datasets.ExportSeason(ctx, ds); err != nil {
			return fmt.Errorf("export %s %s: %w", ds.Ref.Competition, ds.Ref.Season, err)
		}
		if _, err := workbooks.ExportSeason(ds); err != nil {
			return fmt.Errorf("export workbook %s %s: %w", ds.Ref.Competition, ds.Ref.Season, err)
		}
		exported.Add(1)
		logger.Info("season exported",
			slog.String("competition", ds.Ref.Competition),
			slog.String("season", ds.Ref.Season),
			slog.Int("fixtures", len(ds.Fixtures)),
			slog.Int("teams", len(ds.TeamMetrics)))
		return nil
	})
	if err != nil {
		logger.Error("processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("processing complete",
		slog.Int64("seasons_exported", exported.Load()),
		slog.Int64("seasons_filtered", filtered.Load()),
		slog.Duration("elapsed", time.Since(start)))
	fmt.Printf("Done: %d seasons exported in %s\n", exported.Load(), time.Since(start).Round(time.Millisecond))
}
