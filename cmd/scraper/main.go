// Command scraper downloads soccer feed documents into the raw data tree.
//
// It discovers the competition catalog through the portal page, then for
// every selected season fetches the fixture calendar, standings, squads
// and the event documents of played matches. Seasons that fail are
// logged and skipped so one broken feed does not abort the run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"pitchpulse/internal/config"
	"pitchpulse/internal/feeds"
	"pitchpulse/internal/infrastructure"
	"pitchpulse/internal/operations"
	"pitchpulse/internal/validation"
	"pitchpulse/pkg/contracts/domain"
)

// competitionFilter selects which catalog entries a run scrapes.
type competitionFilter struct {
	continent   string
	country     string
	competition string
	topOnly     bool
}

func (f competitionFilter) matches(comp domain.Competition) bool {
	if f.topOnly && !comp.Top {
		return false
	}
	if f.continent != "" && !strings.EqualFold(comp.Continent, f.continent) {
		return false
	}
	if f.country != "" && !strings.EqualFold(comp.Country, f.country) {
		return false
	}
	if f.competition != "" && !strings.Contains(strings.ToLower(comp.Name), strings.ToLower(f.competition)) {
		return false
	}
	return true
}

// seasonMatches reports whether a season label passes the -season flag.
func seasonMatches(label, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(label), strings.ToLower(filter))
}

type scrapeStats struct {
	seasons        int
	succeeded      int
	failed         int
	matchesFetched int
	matchesSkipped int
}

func main() {
	var logger *slog.Logger
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("panic: %v\n%s\n", r, debug.Stack())
			if logger != nil {
				logger.Error("scraper panicked", slog.Any("panic", r))
			}
			os.Exit(1)
		}
	}()

	continent := flag.String("continent", "", "only scrape competitions from this continent")
	country := flag.String("country", "", "only scrape competitions from this country")
	competition := flag.String("competition", "", "only scrape competitions whose name contains this string")
	season := flag.String("season", "", "only scrape seasons whose label contains this string (default: every listed season)")
	mode := flag.String("mode", operations.ModeAccumulative, "accumulative skips match documents already on disk, full refetches everything")
	headless := flag.Bool("headless", true, "run the catalog browser headless")
	topOnly := flag.Bool("top", false, "only scrape competitions marked as top leagues")
	flag.Parse()

	if *mode != operations.ModeAccumulative && *mode != operations.ModeFull {
		fmt.Printf("Error: unknown mode %q (expected %s or %s)\n", *mode, operations.ModeAccumulative, operations.ModeFull)
		os.Exit(1)
	}

	paths, err := config.GetPaths()
	if err != nil {
		fmt.Printf("Error: failed to resolve paths: %v\n", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Printf("Error: failed to create data directories: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("scraper.log")
	}

	logger, err = infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(paths.RawDir); err != nil {
		logger.Error("raw directory check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	filter := competitionFilter{
		continent:   *continent,
		country:     *country,
		competition: *competition,
		topOnly:     *topOnly,
	}

	stats, err := run(ctx, cfg, paths, filter, *season, *mode, *headless, logger)
	if err != nil {
		logger.Error("scrape run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("scrape run complete",
		slog.Int("seasons", stats.seasons),
		slog.Int("succeeded", stats.succeeded),
		slog.Int("failed", stats.failed),
		slog.Int("matches_fetched", stats.matchesFetched),
		slog.Int("matches_skipped", stats.matchesSkipped))
	fmt.Printf("Done: %d/%d seasons scraped, %d matches fetched, %d already on disk\n",
		stats.succeeded, stats.seasons, stats.matchesFetched, stats.matchesSkipped)

	if stats.failed > 0 {
		os.Exit(1)
	}
}

// run walks the catalog and scrapes every selected season.
func run(ctx context.Context, cfg *config.Config, paths *config.Paths, filter competitionFilter, seasonFilter, mode string, headless bool, logger *slog.Logger) (scrapeStats, error) {
	var stats scrapeStats

	client := feeds.NewClient(cfg.Feeds, logger)
	browser := feeds.NewCatalogBrowser(cfg.Feeds, headless, logger)

	catalog, err := browser.Competitions(ctx)
	if err != nil {
		return stats, fmt.Errorf("discover competition catalog: %w", err)
	}

	var selected []domain.Competition
	for _, comp := range catalog {
		if filter.matches(comp) {
			selected = append(selected, comp)
		}
	}
	logger.Info("competition catalog discovered",
		slog.Int("total", len(catalog)),
		slog.Int("selected", len(selected)))
	if len(selected) == 0 {
		return stats, fmt.Errorf("no competitions match the given filters")
	}

	// The feed API rejects requests without the portal's outlet key. It
	// only appears in rendered competition pages, so pull it from the
	// first selected one unless configured.
	if cfg.Feeds.OutletKey == "" {
		key, err := browser.OutletKey(ctx, selected[0].URL)
		if err != nil {
			return stats, fmt.Errorf("extract outlet key: %w", err)
		}
		client.SetOutletKey(key)
	}

	step := operations.NewScrapeStep(client, paths, nil, logger)

	for _, comp := range selected {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		seasons, err := browser.Seasons(ctx, comp)
		if err != nil {
			logger.Error("season list unavailable, skipping competition",
				slog.String("competition", comp.Name),
				slog.String("error", err.Error()))
			stats.failed++
			continue
		}

		for _, s := range seasons {
			if !seasonMatches(s.Label, seasonFilter) {
				continue
			}
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}

			stats.seasons++
			state, err := scrapeSeason(ctx, step, comp, s, mode)
			if err != nil {
				logger.Error("season scrape failed",
					slog.String("competition", comp.Name),
					slog.String("season", s.Label),
					slog.String("error", err.Error()))
				stats.failed++
				continue
			}
			stats.succeeded++

			if fetched, ok := state.GetContext(operations.ContextKeyMatchesFetched); ok {
				if n, ok := fetched.(int); ok {
					stats.matchesFetched += n
				}
			}
			if skipped, ok := state.GetContext(operations.ContextKeyMatchesSkipped); ok {
				if n, ok := skipped.(int); ok {
					stats.matchesSkipped += n
				}
			}
		}
	}
	return stats, nil
}

// scrapeSeason runs the scrape step for one tournament calendar and
// returns the state so the caller can read the match counters.
func scrapeSeason(ctx context.Context, step *operations.ScrapeStep, comp domain.Competition, s domain.Season, mode string) (*operations.OperationState, error) {
	state := operations.NewOperationState(fmt.Sprintf("scrape-%s-%s", comp.Slug, config.SanitizeDirName(s.Label)))
	state.SetConfig(operations.ConfigKeyContinent, config.SanitizeDirName(comp.Continent))
	state.SetConfig(operations.ConfigKeyCountry, config.SanitizeDirName(comp.Country))
	state.SetConfig(operations.ConfigKeyCompetition, config.SanitizeDirName(comp.Name))
	state.SetConfig(operations.ConfigKeySeason, config.SanitizeDirName(s.Label))
	state.SetConfig(operations.ConfigKeyTournamentID, s.TournamentID)
	state.SetConfig(operations.ConfigKeySlug, comp.Slug)
	state.SetConfig(operations.ConfigKeyMode, mode)

	if err := step.Validate(state); err != nil {
		return nil, err
	}
	if err := step.Execute(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}
