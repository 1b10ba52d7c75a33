package operations

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchpulse/internal/config"
	"pitchpulse/internal/dataprocessing"
	"pitchpulse/internal/feeds"
	"pitchpulse/internal/files"
	"pitchpulse/pkg/contracts/domain"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	return &config.Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		RawDir:        filepath.Join(base, "data", "raw"),
		DatasetsDir:   filepath.Join(base, "data", "datasets"),
		CacheDir:      filepath.Join(base, "data", "cache"),
		LogsDir:       filepath.Join(base, "logs"),
		WebDir:        filepath.Join(base, "web"),
		StaticDir:     filepath.Join(base, "web", "static"),
	}
}

type fakeFetcher struct {
	fixtures     *feeds.FixtureFeed
	standings    *feeds.StandingsFeed
	squads       *feeds.SquadsFeed
	standingsErr error
	squadsErr    error
	eventsErr    error
	statsErr     error
	eventCalls   []string
	statCalls    []string
}

func (f *fakeFetcher) Fixtures(ctx context.Context, tournamentID, slug string) (*feeds.FixtureFeed, error) {
	if f.fixtures == nil {
		return nil, errors.New("fixtures unavailable")
	}
	return f.fixtures, nil
}

func (f *fakeFetcher) MatchEvents(ctx context.Context, matchID, tournamentID, slug string) (*feeds.MatchDocument, error) {
	f.eventCalls = append(f.eventCalls, matchID)
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return &feeds.MatchDocument{
		MatchInfo: feeds.MatchInfo{ID: matchID, MatchStatus: string(domain.MatchStatusPlayed)},
		LiveData: feeds.LiveData{
			Events: []feeds.Event{{ID: 1, TypeID: domain.EventTypePass, ContestantID: "t1"}},
		},
	}, nil
}

func (f *fakeFetcher) MatchStats(ctx context.Context, matchID, tournamentID, slug string) (*feeds.MatchDocument, error) {
	f.statCalls = append(f.statCalls, matchID)
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &feeds.MatchDocument{
		MatchInfo: feeds.MatchInfo{ID: matchID},
		LiveData: feeds.LiveData{
			LineUps: []feeds.LineUp{{ContestantID: "t1", Formation: "433"}},
		},
	}, nil
}

func (f *fakeFetcher) Standings(ctx context.Context, tournamentID, slug string) (*feeds.StandingsFeed, error) {
	if f.standingsErr != nil {
		return nil, f.standingsErr
	}
	return f.standings, nil
}

func (f *fakeFetcher) Squads(ctx context.Context, tournamentID, slug string) (*feeds.SquadsFeed, error) {
	if f.squadsErr != nil {
		return nil, f.squadsErr
	}
	return f.squads, nil
}

func fixtureFeed() *feeds.FixtureFeed {
	return &feeds.FixtureFeed{
		Matches: []feeds.MatchDocument{
			{MatchInfo: feeds.MatchInfo{ID: "m1", MatchStatus: string(domain.MatchStatusPlayed)}},
			{MatchInfo: feeds.MatchInfo{ID: "m2", MatchStatus: string(domain.MatchStatusPlayed)}},
			{MatchInfo: feeds.MatchInfo{ID: "m3", MatchStatus: string(domain.MatchStatusFixture)}},
		},
	}
}

func scrapeState() *OperationState {
	state := NewOperationState("op-1")
	state.SetConfig(ConfigKeyContinent, "South_America")
	state.SetConfig(ConfigKeyCountry, "Argentina")
	state.SetConfig(ConfigKeyCompetition, "Liga_Profesional")
	state.SetConfig(ConfigKeySeason, "2024")
	state.SetConfig(ConfigKeyTournamentID, "t123")
	state.SetConfig(ConfigKeySlug, "liga-profesional")
	state.SetConfig(ConfigKeyMode, ModeAccumulative)
	return state
}

func TestScrapeStepValidate(t *testing.T) {
	step := NewScrapeStep(&fakeFetcher{}, testPaths(t), nil, testLogger())

	state := scrapeState()
	assert.NoError(t, step.Validate(state))

	state.SetConfig(ConfigKeyTournamentID, "")
	assert.Error(t, step.Validate(state))

	state = scrapeState()
	state.SetConfig(ConfigKeySlug, "")
	assert.Error(t, step.Validate(state))
}

func TestScrapeStepFetchesPlayedMatches(t *testing.T) {
	paths := testPaths(t)
	fetcher := &fakeFetcher{
		fixtures:  fixtureFeed(),
		standings: &feeds.StandingsFeed{},
		squads:    &feeds.SquadsFeed{},
	}
	step := NewScrapeStep(fetcher, paths, nil, testLogger())
	state := scrapeState()

	require.NoError(t, step.Execute(context.Background(), state))

	// Only played matches fetched, fixture skipped
	assert.Equal(t, []string{"m1", "m2"}, fetcher.eventCalls)

	mgr := files.NewManager(paths)
	seasonDir := paths.SeasonRawDir("South_America", "Argentina", "Liga_Profesional", "2024")
	assert.True(t, mgr.FileExists(filepath.Join(seasonDir, config.FixturesJSON)))
	assert.True(t, mgr.FileExists(filepath.Join(seasonDir, config.StandingsJSON)))
	assert.True(t, mgr.FileExists(filepath.Join(seasonDir, config.SquadsJSON)))

	var doc feeds.MatchDocument
	matchPath := filepath.Join(seasonDir, config.MatchesSubdir, "m1.json")
	require.NoError(t, mgr.ReadJSON(matchPath, &doc))
	assert.Len(t, doc.LiveData.Events, 1)
	require.Len(t, doc.LiveData.LineUps, 1)
	assert.Equal(t, "433", doc.LiveData.LineUps[0].Formation)

	fetched, _ := state.GetContext(ContextKeyMatchesFetched)
	assert.Equal(t, 2, fetched)
	skipped, _ := state.GetContext(ContextKeyMatchesSkipped)
	assert.Equal(t, 0, skipped)
}

func TestScrapeStepAccumulativeSkipsExisting(t *testing.T) {
	paths := testPaths(t)
	fetcher := &fakeFetcher{fixtures: fixtureFeed()}
	step := NewScrapeStep(fetcher, paths, nil, testLogger())

	require.NoError(t, step.Execute(context.Background(), scrapeState()))
	require.Equal(t, []string{"m1", "m2"}, fetcher.eventCalls)

	state := scrapeState()
	require.NoError(t, step.Execute(context.Background(), state))

	// No new fetches on the second run
	assert.Equal(t, []string{"m1", "m2"}, fetcher.eventCalls)
	skipped, _ := state.GetContext(ContextKeyMatchesSkipped)
	assert.Equal(t, 2, skipped)
}

func TestScrapeStepFullModeRefetches(t *testing.T) {
	paths := testPaths(t)
	fetcher := &fakeFetcher{fixtures: fixtureFeed()}
	step := NewScrapeStep(fetcher, paths, nil, testLogger())

	require.NoError(t, step.Execute(context.Background(), scrapeState()))

	state := scrapeState()
	state.SetConfig(ConfigKeyMode, ModeFull)
	require.NoError(t, step.Execute(context.Background(), state))

	assert.Equal(t, []string{"m1", "m2", "m1", "m2"}, fetcher.eventCalls)
}

func TestScrapeStepOptionalFeedsMissing(t *testing.T) {
	paths := testPaths(t)
	fetcher := &fakeFetcher{
		fixtures:     fixtureFeed(),
		standingsErr: errors.New("404"),
		squadsErr:    errors.New("404"),
	}
	step := NewScrapeStep(fetcher, paths, nil, testLogger())

	require.NoError(t, step.Execute(context.Background(), scrapeState()))

	mgr := files.NewManager(paths)
	seasonDir := paths.SeasonRawDir("South_America", "Argentina", "Liga_Profesional", "2024")
	assert.True(t, mgr.FileExists(filepath.Join(seasonDir, config.FixturesJSON)))
	assert.False(t, mgr.FileExists(filepath.Join(seasonDir, config.StandingsJSON)))
	assert.False(t, mgr.FileExists(filepath.Join(seasonDir, config.SquadsJSON)))
}

func TestScrapeStepMatchWithoutStats(t *testing.T) {
	paths := testPaths(t)
	fetcher := &fakeFetcher{
		fixtures: fixtureFeed(),
		statsErr: errors.New("503"),
	}
	step := NewScrapeStep(fetcher, paths, nil, testLogger())

	require.NoError(t, step.Execute(context.Background(), scrapeState()))

	mgr := files.NewManager(paths)
	seasonDir := paths.SeasonRawDir("South_America", "Argentina", "Liga_Profesional", "2024")

	var doc feeds.MatchDocument
	require.NoError(t, mgr.ReadJSON(filepath.Join(seasonDir, config.MatchesSubdir, "m1.json"), &doc))
	assert.Len(t, doc.LiveData.Events, 1)
	assert.Empty(t, doc.LiveData.LineUps)
}

func TestScrapeStepFixtureFeedFailure(t *testing.T) {
	step := NewScrapeStep(&fakeFetcher{}, testPaths(t), nil, testLogger())

	err := step.Execute(context.Background(), scrapeState())
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}

func TestScrapeStepCancelled(t *testing.T) {
	paths := testPaths(t)
	fetcher := &fakeFetcher{fixtures: fixtureFeed()}
	step := NewScrapeStep(fetcher, paths, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := step.Execute(ctx, scrapeState())
	require.Error(t, err)
	assert.Equal(t, ErrorTypeCancellation, GetErrorType(err))
}

type fakeProcessor struct {
	ds  *dataprocessing.SeasonDataset
	err error
	ref domain.SeasonRef
}

func (p *fakeProcessor) ProcessSeason(ctx context.Context, ref domain.SeasonRef) (*dataprocessing.SeasonDataset, error) {
	p.ref = ref
	return p.ds, p.err
}

func TestProcessStepStoresDataset(t *testing.T) {
	ds := &dataprocessing.SeasonDataset{
		Ref: domain.SeasonRef{Competition: "Liga_Profesional", Season: "2024"},
	}
	proc := &fakeProcessor{ds: ds}
	step := NewProcessStep(proc, testLogger())
	state := scrapeState()

	require.NoError(t, step.Execute(context.Background(), state))

	assert.Equal(t, "Liga_Profesional", proc.ref.Competition)
	got, ok := state.GetContext(ContextKeyDataset)
	require.True(t, ok)
	assert.Same(t, ds, got)
}

func TestProcessStepFailure(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("no fixtures on disk")}
	step := NewProcessStep(proc, testLogger())

	err := step.Execute(context.Background(), scrapeState())
	require.Error(t, err)
	assert.False(t, IsRetryable(err))
}

type fakeDatasetWriter struct {
	called bool
	err    error
}

func (w *fakeDatasetWriter) ExportSeason(ctx context.Context, ds *dataprocessing.SeasonDataset) error {
	w.called = true
	return w.err
}

type fakeWorkbookWriter struct {
	path string
	err  error
}

func (w *fakeWorkbookWriter) ExportSeason(ds *dataprocessing.SeasonDataset) (string, error) {
	return w.path, w.err
}

func exportState(t *testing.T) *OperationState {
	t.Helper()
	state := scrapeState()
	state.SetContext(ContextKeyDataset, &dataprocessing.SeasonDataset{
		Ref: domain.SeasonRef{Competition: "Liga_Profesional", Season: "2024"},
	})
	return state
}

func TestExportStepWritesDatasets(t *testing.T) {
	datasets := &fakeDatasetWriter{}
	workbooks := &fakeWorkbookWriter{path: "/data/datasets/Liga_Profesional/2024/season.xlsx"}
	step := NewExportStep(datasets, workbooks, testLogger())
	state := exportState(t)

	require.NoError(t, step.Execute(context.Background(), state))

	assert.True(t, datasets.called)
	path, ok := state.GetContext(ContextKeyWorkbookPath)
	require.True(t, ok)
	assert.Equal(t, workbooks.path, path)
}

func TestExportStepMissingDataset(t *testing.T) {
	step := NewExportStep(&fakeDatasetWriter{}, nil, testLogger())

	err := step.Execute(context.Background(), scrapeState())
	require.Error(t, err)
	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))
}

func TestExportStepDatasetFailure(t *testing.T) {
	datasets := &fakeDatasetWriter{err: errors.New("disk full")}
	step := NewExportStep(datasets, nil, testLogger())

	err := step.Execute(context.Background(), exportState(t))
	assert.Error(t, err)
}

type fakePublisher struct {
	enabled bool
	called  bool
	err     error
}

func (p *fakePublisher) Enabled() bool { return p.enabled }

func (p *fakePublisher) PublishSeason(ctx context.Context, ds *dataprocessing.SeasonDataset) error {
	p.called = true
	return p.err
}

func TestPublishStepDisabledIsNoOp(t *testing.T) {
	pub := &fakePublisher{enabled: false}
	step := NewPublishStep(pub, testLogger())

	require.NoError(t, step.Execute(context.Background(), scrapeState()))
	assert.False(t, pub.called)
}

func TestPublishStepPublishes(t *testing.T) {
	pub := &fakePublisher{enabled: true}
	step := NewPublishStep(pub, testLogger())

	require.NoError(t, step.Execute(context.Background(), exportState(t)))
	assert.True(t, pub.called)
}

func TestPublishStepFailureIsRetryable(t *testing.T) {
	pub := &fakePublisher{enabled: true, err: errors.New("quota exceeded")}
	step := NewPublishStep(pub, testLogger())

	err := step.Execute(context.Background(), exportState(t))
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}

func TestStepDependencyChain(t *testing.T) {
	scrape := NewScrapeStep(&fakeFetcher{}, testPaths(t), nil, testLogger())
	process := NewProcessStep(&fakeProcessor{}, testLogger())
	export := NewExportStep(&fakeDatasetWriter{}, nil, testLogger())
	publish := NewPublishStep(&fakePublisher{}, testLogger())

	r := NewRegistry()
	require.NoError(t, r.Register(scrape))
	require.NoError(t, r.Register(process))
	require.NoError(t, r.Register(export))
	require.NoError(t, r.Register(publish))

	order, err := r.GetDependencyOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{StepIDScrape, StepIDProcess, StepIDExport, StepIDPublish}, order)
}
