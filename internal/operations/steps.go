package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"pitchpulse/internal/config"
	"pitchpulse/internal/dataprocessing"
	"pitchpulse/internal/feeds"
	"pitchpulse/internal/files"
	"pitchpulse/pkg/contracts/domain"
)

// FeedFetcher is the slice of the feed client the scrape step needs.
type FeedFetcher interface {
	Fixtures(ctx context.Context, tournamentID, competitionSlug string) (*feeds.FixtureFeed, error)
	MatchEvents(ctx context.Context, matchID, tournamentID, competitionSlug string) (*feeds.MatchDocument, error)
	MatchStats(ctx context.Context, matchID, tournamentID, competitionSlug string) (*feeds.MatchDocument, error)
	Standings(ctx context.Context, tournamentID, competitionSlug string) (*feeds.StandingsFeed, error)
	Squads(ctx context.Context, tournamentID, competitionSlug string) (*feeds.SquadsFeed, error)
}

// SeasonProcessor turns a season's raw documents into an in-memory dataset.
type SeasonProcessor interface {
	ProcessSeason(ctx context.Context, ref domain.SeasonRef) (*dataprocessing.SeasonDataset, error)
}

// DatasetWriter exports a season dataset as CSV files.
type DatasetWriter interface {
	ExportSeason(ctx context.Context, ds *dataprocessing.SeasonDataset) error
}

// WorkbookWriter exports a season dataset as a workbook.
type WorkbookWriter interface {
	ExportSeason(ds *dataprocessing.SeasonDataset) (string, error)
}

// DatasetPublisher pushes a season dataset to an external destination.
type DatasetPublisher interface {
	Enabled() bool
	PublishSeason(ctx context.Context, ds *dataprocessing.SeasonDataset) error
}

// ScrapeStep downloads the season's feed documents into the raw tree.
// Fixtures, standings and squads are always refreshed; per-match event
// documents are fetched only for played matches, and in accumulative
// mode matches already on disk are skipped.
type ScrapeStep struct {
	BaseStep
	client      FeedFetcher
	paths       *config.Paths
	manager     *files.Manager
	broadcaster *StatusBroadcaster
	logger      *slog.Logger
}

// NewScrapeStep creates the feed collection step
func NewScrapeStep(client FeedFetcher, paths *config.Paths, broadcaster *StatusBroadcaster, logger *slog.Logger) *ScrapeStep {
	return &ScrapeStep{
		BaseStep:    NewBaseStep(StepIDScrape, StepNameScrape),
		client:      client,
		paths:       paths,
		manager:     files.NewManager(paths),
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Validate checks the scrape configuration
func (s *ScrapeStep) Validate(state *OperationState) error {
	if state.GetConfigString(ConfigKeyTournamentID) == "" {
		return NewValidationError(s.ID(), "tournament ID is required")
	}
	if state.GetConfigString(ConfigKeySlug) == "" {
		return NewValidationError(s.ID(), "competition slug is required")
	}
	return nil
}

// Execute downloads the season documents
func (s *ScrapeStep) Execute(ctx context.Context, state *OperationState) error {
	ref := state.SeasonRef()
	tournamentID := state.GetConfigString(ConfigKeyTournamentID)
	slug := state.GetConfigString(ConfigKeySlug)
	fullRefresh := state.GetConfigString(ConfigKeyMode) == ModeFull

	seasonDir := s.paths.SeasonRawDir(ref.Continent, ref.Country, ref.Competition, ref.Season)
	matchesDir := s.paths.SeasonMatchesDir(ref.Continent, ref.Country, ref.Competition, ref.Season)

	s.progress(state.ID, 5, "Fetching fixtures")
	fixtures, err := s.client.Fixtures(ctx, tournamentID, slug)
	if err != nil {
		return NewExecutionError(s.ID(), fmt.Errorf("fetch fixtures: %w", err), true)
	}
	if err := s.manager.WriteJSON(filepath.Join(seasonDir, config.FixturesJSON), fixtures); err != nil {
		return NewExecutionError(s.ID(), fmt.Errorf("write fixtures: %w", err), false)
	}

	s.progress(state.ID, 10, "Fetching standings")
	if standings, sErr := s.client.Standings(ctx, tournamentID, slug); sErr != nil {
		s.logger.WarnContext(ctx, "standings feed unavailable",
			slog.String("competition", ref.Competition),
			slog.String("season", ref.Season),
			slog.String("error", sErr.Error()),
		)
	} else if err := s.manager.WriteJSON(filepath.Join(seasonDir, config.StandingsJSON), standings); err != nil {
		return NewExecutionError(s.ID(), fmt.Errorf("write standings: %w", err), false)
	}

	s.progress(state.ID, 15, "Fetching squads")
	if squads, sErr := s.client.Squads(ctx, tournamentID, slug); sErr != nil {
		s.logger.WarnContext(ctx, "squads feed unavailable",
			slog.String("competition", ref.Competition),
			slog.String("season", ref.Season),
			slog.String("error", sErr.Error()),
		)
	} else if err := s.manager.WriteJSON(filepath.Join(seasonDir, config.SquadsJSON), squads); err != nil {
		return NewExecutionError(s.ID(), fmt.Errorf("write squads: %w", err), false)
	}

	played := playedMatchIDs(fixtures)
	fetched := 0
	skipped := 0

	for i, matchID := range played {
		if err := ctx.Err(); err != nil {
			return NewCancellationError(s.ID())
		}

		matchPath := filepath.Join(matchesDir, matchID+".json")
		if !fullRefresh && s.manager.FileExists(matchPath) {
			skipped++
			continue
		}

		doc, fErr := s.fetchMatch(ctx, matchID, tournamentID, slug)
		if fErr != nil {
			return NewExecutionError(s.ID(), fmt.Errorf("fetch match %s: %w", matchID, fErr), true)
		}
		if err := s.manager.WriteJSON(matchPath, doc); err != nil {
			return NewExecutionError(s.ID(), fmt.Errorf("write match %s: %w", matchID, err), false)
		}
		fetched++

		// 15 to 100 spread across matches
		pct := 15 + (i+1)*85/len(played)
		s.progress(state.ID, pct, fmt.Sprintf("Fetched match %d of %d", i+1, len(played)))
	}

	state.SetContext(ContextKeyMatchesFetched, fetched)
	state.SetContext(ContextKeyMatchesSkipped, skipped)

	s.logger.InfoContext(ctx, "season feeds collected",
		slog.String("competition", ref.Competition),
		slog.String("season", ref.Season),
		slog.Int("matches_fetched", fetched),
		slog.Int("matches_skipped", skipped),
	)
	return nil
}

// fetchMatch merges the event and lineup feeds for a match into a
// single document. The stats feed is optional; a match without lineups
// still has its events recorded.
func (s *ScrapeStep) fetchMatch(ctx context.Context, matchID, tournamentID, slug string) (*feeds.MatchDocument, error) {
	doc, err := s.client.MatchEvents(ctx, matchID, tournamentID, slug)
	if err != nil {
		return nil, err
	}

	stats, err := s.client.MatchStats(ctx, matchID, tournamentID, slug)
	if err != nil {
		s.logger.WarnContext(ctx, "match stats feed unavailable",
			slog.String("match_id", matchID),
			slog.String("error", err.Error()),
		)
		return doc, nil
	}

	doc.LiveData.LineUps = stats.LiveData.LineUps
	return doc, nil
}

func (s *ScrapeStep) progress(operationID string, pct int, message string) {
	if s.broadcaster != nil {
		s.broadcaster.UpdateStepProgress(operationID, s.ID(), pct, message)
	}
}

func playedMatchIDs(feed *feeds.FixtureFeed) []string {
	var ids []string
	for _, m := range feed.Matches {
		if m.MatchInfo.MatchStatus == string(domain.MatchStatusPlayed) && m.MatchInfo.ID != "" {
			ids = append(ids, m.MatchInfo.ID)
		}
	}
	return ids
}

// ProcessStep aggregates the season's raw documents into a dataset.
type ProcessStep struct {
	BaseStep
	processor SeasonProcessor
	logger    *slog.Logger
}

// NewProcessStep creates the season aggregation step
func NewProcessStep(processor SeasonProcessor, logger *slog.Logger) *ProcessStep {
	return &ProcessStep{
		BaseStep:  NewBaseStep(StepIDProcess, StepNameProcess, StepIDScrape),
		processor: processor,
		logger:    logger,
	}
}

// Execute builds the season dataset and stores it in the operation context
func (s *ProcessStep) Execute(ctx context.Context, state *OperationState) error {
	ref := state.SeasonRef()

	ds, err := s.processor.ProcessSeason(ctx, ref)
	if err != nil {
		return NewExecutionError(s.ID(), err, false)
	}

	state.SetContext(ContextKeyDataset, ds)
	return nil
}

// ExportStep writes the aggregated dataset as CSV files and a workbook.
type ExportStep struct {
	BaseStep
	datasets  DatasetWriter
	workbooks WorkbookWriter
	logger    *slog.Logger
}

// NewExportStep creates the dataset export step
func NewExportStep(datasets DatasetWriter, workbooks WorkbookWriter, logger *slog.Logger) *ExportStep {
	return &ExportStep{
		BaseStep:  NewBaseStep(StepIDExport, StepNameExport, StepIDProcess),
		datasets:  datasets,
		workbooks: workbooks,
		logger:    logger,
	}
}

// Execute exports the dataset produced by the process step
func (s *ExportStep) Execute(ctx context.Context, state *OperationState) error {
	ds, err := datasetFromState(s.ID(), state)
	if err != nil {
		return err
	}

	if err := s.datasets.ExportSeason(ctx, ds); err != nil {
		return NewExecutionError(s.ID(), fmt.Errorf("export datasets: %w", err), false)
	}

	if s.workbooks != nil {
		path, wErr := s.workbooks.ExportSeason(ds)
		if wErr != nil {
			return NewExecutionError(s.ID(), fmt.Errorf("export workbook: %w", wErr), false)
		}
		state.SetContext(ContextKeyWorkbookPath, path)
	}
	return nil
}

// PublishStep pushes the dataset to Google Sheets when publishing is
// configured. With publishing disabled the step completes as a no-op.
type PublishStep struct {
	BaseStep
	publisher DatasetPublisher
	logger    *slog.Logger
}

// NewPublishStep creates the sheets publish step
func NewPublishStep(publisher DatasetPublisher, logger *slog.Logger) *PublishStep {
	return &PublishStep{
		BaseStep:  NewBaseStep(StepIDPublish, StepNamePublish, StepIDExport),
		publisher: publisher,
		logger:    logger,
	}
}

// Execute publishes the dataset produced by the process step
func (s *PublishStep) Execute(ctx context.Context, state *OperationState) error {
	if s.publisher == nil || !s.publisher.Enabled() {
		s.logger.InfoContext(ctx, "sheets publishing disabled, skipping")
		return nil
	}

	ds, err := datasetFromState(s.ID(), state)
	if err != nil {
		return err
	}

	if err := s.publisher.PublishSeason(ctx, ds); err != nil {
		return NewExecutionError(s.ID(), fmt.Errorf("publish datasets: %w", err), true)
	}
	return nil
}

func datasetFromState(stepID string, state *OperationState) (*dataprocessing.SeasonDataset, error) {
	v, ok := state.GetContext(ContextKeyDataset)
	if !ok {
		return nil, NewValidationError(stepID, "no dataset available in operation context")
	}
	ds, ok := v.(*dataprocessing.SeasonDataset)
	if !ok || ds == nil {
		return nil, NewValidationError(stepID, "operation context holds an invalid dataset")
	}
	return ds, nil
}
