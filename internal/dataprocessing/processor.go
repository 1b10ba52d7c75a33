package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"pitchpulse/internal/config"
	"pitchpulse/internal/feeds"
	"pitchpulse/internal/files"
	"pitchpulse/pkg/contracts/domain"
)

// SeasonDataset is everything the exporter and the dashboard need for one
// season, produced from the raw feed documents on disk.
type SeasonDataset struct {
	Ref           domain.SeasonRef
	Fixtures      []domain.Fixture
	Standings     []domain.Standing
	TeamMetrics   []domain.TeamSeasonMetrics
	WeekMetrics   []domain.TeamWeekMetrics
	PlayerStats   []domain.PlayerSeasonStats
	PlayerLines   map[string][]domain.PlayerMatchLine
	PlayerShots   map[string][]domain.ShotPoint
	Squads        []domain.Squad
	Nationalities []domain.NationalityCount
	Summary       domain.LeagueSummary
}

// Processor reads a season's raw tree and aggregates it into a dataset.
type Processor struct {
	discovery *files.Discovery
	manager   *files.Manager
	logger    *slog.Logger
}

// NewProcessor builds a processor over the configured data tree.
func NewProcessor(paths *config.Paths, logger *slog.Logger) *Processor {
	return &Processor{
		discovery: files.NewDiscovery(paths),
		manager:   files.NewManager(paths),
		logger:    logger,
	}
}

// ProcessSeason aggregates one season. The fixture document is required;
// standings, squads, match documents and xG workbooks are folded in when
// present.
func (p *Processor) ProcessSeason(ctx context.Context, ref domain.SeasonRef) (*SeasonDataset, error) {
	seasonDir := p.discovery.SeasonDir(ref)

	var fixtureFeed feeds.FixtureFeed
	fixturesPath := filepath.Join(seasonDir, config.FixturesJSON)
	if err := p.manager.ReadJSON(fixturesPath, &fixtureFeed); err != nil {
		return nil, fmt.Errorf("read fixtures for %s/%s: %w", ref.Competition, ref.Season, err)
	}

	ds := &SeasonDataset{
		Ref:         ref,
		Fixtures:    FlattenFixtures(&fixtureFeed),
		PlayerLines: make(map[string][]domain.PlayerMatchLine),
		PlayerShots: make(map[string][]domain.ShotPoint),
	}

	standingsPath := filepath.Join(seasonDir, config.StandingsJSON)
	if p.manager.FileExists(standingsPath) {
		var standingsFeed feeds.StandingsFeed
		if err := p.manager.ReadJSON(standingsPath, &standingsFeed); err != nil {
			return nil, fmt.Errorf("read standings for %s/%s: %w", ref.Competition, ref.Season, err)
		}
		ds.Standings = ParseStandings(&standingsFeed)
	} else {
		p.logger.Warn("no standings document",
			slog.String("competition", ref.Competition),
			slog.String("season", ref.Season))
	}

	squadsPath := filepath.Join(seasonDir, config.SquadsJSON)
	if p.manager.FileExists(squadsPath) {
		var squadsFeed feeds.SquadsFeed
		if err := p.manager.ReadJSON(squadsPath, &squadsFeed); err != nil {
			return nil, fmt.Errorf("read squads for %s/%s: %w", ref.Competition, ref.Season, err)
		}
		ds.Squads = ParseSquads(&squadsFeed)
		ds.Nationalities = NationalityCounts(ds.Squads)
	}

	agg := NewAggregator()
	playersC := NewPlayerCollector()
	shots := NewShotCollector()

	matchFiles, err := p.discovery.MatchFiles(ref)
	if err != nil {
		return nil, fmt.Errorf("list match files: %w", err)
	}
	for _, mf := range matchFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var doc feeds.MatchDocument
		if err := p.manager.ReadJSON(mf.Path, &doc); err != nil {
			p.logger.Warn("skipping unreadable match document",
				slog.String("file", mf.Name),
				slog.String("error", err.Error()))
			continue
		}
		agg.AddMatch(&doc)
		playersC.AddMatch(&doc)
		shots.AddMatch(&doc)
	}

	agg.ApplyStandings(ds.Standings)
	if xg := p.loadExpectedGoals(seasonDir); len(xg) > 0 {
		agg.ApplyExpectedGoals(xg)
	}

	ds.TeamMetrics = agg.TeamMetrics()
	ds.WeekMetrics = agg.WeekMetrics()
	ds.PlayerStats = playersC.SeasonStats()
	for _, id := range playersC.PlayerIDs() {
		ds.PlayerLines[id] = playersC.MatchLines(id)
	}
	for _, id := range shots.PlayerIDs() {
		ds.PlayerShots[id] = shots.PlayerShots(id)
	}

	ds.Summary = Summarize(ref, ds.Fixtures, ds.Standings, ds.Squads)

	p.logger.Info("season processed",
		slog.String("competition", ref.Competition),
		slog.String("season", ref.Season),
		slog.Int("fixtures", len(ds.Fixtures)),
		slog.Int("matches", len(matchFiles)),
		slog.Int("teams", len(ds.TeamMetrics)),
		slog.Int("players", len(ds.PlayerStats)))
	return ds, nil
}

// ProcessAll aggregates every season found under the raw tree, running up
// to workers seasons concurrently. Each finished dataset is passed to
// handle; handle must be safe for concurrent calls. The first error stops
// the remaining work.
func (p *Processor) ProcessAll(ctx context.Context, workers int, handle func(context.Context, *SeasonDataset) error) error {
	refs, err := p.discovery.AllSeasons()
	if err != nil {
		return fmt.Errorf("discover seasons: %w", err)
	}
	if len(refs) == 0 {
		p.logger.Warn("no seasons found under raw data tree")
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, ref := range refs {
		g.Go(func() error {
			ds, err := p.ProcessSeason(gctx, ref)
			if err != nil {
				return err
			}
			return handle(gctx, ds)
		})
	}
	return g.Wait()
}

// loadExpectedGoals parses the newest xG workbook in the season directory,
// if any. A workbook that fails to parse is logged and ignored.
func (p *Processor) loadExpectedGoals(seasonDir string) map[string]float64 {
	workbooks, err := p.discovery.FindWorkbookFiles(seasonDir)
	if err != nil || len(workbooks) == 0 {
		return nil
	}
	latest, ok := files.GetLatestFile(workbooks)
	if !ok {
		return nil
	}
	xg, err := ParseXGWorkbook(latest.Path, p.logger)
	if err != nil {
		p.logger.Warn("ignoring unparseable xG workbook",
			slog.String("file", latest.Name),
			slog.String("error", err.Error()))
		return nil
	}
	return xg
}
