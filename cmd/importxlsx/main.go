// Command importxlsx imports an analyst-maintained xG workbook into a
// season's raw directory.
//
// The workbook is parsed up front so a malformed file is rejected before
// it lands in the tree. After the copy the season is reprocessed and its
// datasets re-exported, making the expected goals visible to the
// dashboard immediately.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"pitchpulse/internal/config"
	"pitchpulse/internal/dataprocessing"
	"pitchpulse/internal/exporter"
	"pitchpulse/internal/files"
	"pitchpulse/internal/infrastructure"
	"pitchpulse/internal/validation"
	"pitchpulse/pkg/contracts/domain"
)

// buildRef turns the raw flag values into a sanitized season reference.
func buildRef(continent, country, competition, season string) domain.SeasonRef {
	return domain.SeasonRef{
		Continent:   config.SanitizeDirName(continent),
		Country:     config.SanitizeDirName(country),
		Competition: config.SanitizeDirName(competition),
		Season:      config.SanitizeDirName(season),
	}
}

func main() {
	file := flag.String("file", "", "xG workbook to import (.xlsx)")
	continent := flag.String("continent", "", "continent of the target season")
	country := flag.String("country", "", "country of the target season")
	competition := flag.String("competition", "", "competition of the target season")
	season := flag.String("season", "", "season label, e.g. 2024/2025")
	dryRun := flag.Bool("dry-run", false, "parse and report the workbook without importing it")
	reprocess := flag.Bool("reprocess", true, "rebuild the season's datasets after the import")
	flag.Parse()

	if *file == "" || (!*dryRun && (*continent == "" || *country == "" || *competition == "" || *season == "")) {
		fmt.Println("Usage: importxlsx -file <workbook.xlsx> -continent <c> -country <c> -competition <name> -season <label>")
		os.Exit(1)
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("failed to resolve paths", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("importxlsx.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if err := validation.NewFileValidator(logger).ValidateWorkbookFile(*file); err != nil {
		logger.Error("workbook rejected", slog.String("error", err.Error()))
		os.Exit(1)
	}

	xg, err := dataprocessing.ParseXGWorkbook(*file, logger)
	if err != nil {
		logger.Error("workbook parse failed",
			slog.String("file", *file),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Parsed %s: xG values for %d teams\n", filepath.Base(*file), len(xg))

	if *dryRun {
		for team, value := range xg {
			fmt.Printf("  %-30s %.2f\n", team, value)
		}
		return
	}

	ref := buildRef(*continent, *country, *competition, *season)
	discovery := files.NewDiscovery(paths)
	seasonDir := discovery.SeasonDir(ref)
	if _, err := os.Stat(seasonDir); err != nil {
		logger.Error("season directory not found, scrape it first",
			slog.String("dir", seasonDir))
		os.Exit(1)
	}

	dst := filepath.Join(seasonDir, filepath.Base(*file))
	if err := files.NewManager(paths).CopyFile(*file, dst); err != nil {
		logger.Error("workbook copy failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("workbook imported",
		slog.String("file", dst),
		slog.Int("teams", len(xg)))

	if !*reprocess {
		return
	}

	ctx := context.Background()
	processor := dataprocessing.NewProcessor(paths, logger)
	ds, err := processor.ProcessSeason(ctx, ref)
	if err != nil {
		logger.Error("season reprocess failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := exporter.NewDatasetExporter(paths, logger).ExportSeason(ctx, ds); err != nil {
		logger.Error("dataset export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if _, err := exporter.NewWorkbookExporter(paths, logger).ExportSeason(ds); err != nil {
		logger.Error("workbook export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Reprocessed %s %s with imported xG\n", ref.Competition, ref.Season)
}
