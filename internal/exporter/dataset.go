package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"pitchpulse/internal/config"
	"pitchpulse/internal/dataprocessing"
	"pitchpulse/internal/infrastructure"
	"pitchpulse/pkg/contracts/domain"
)

// DatasetExporter writes a processed season to the datasets tree.
type DatasetExporter struct {
	paths     *config.Paths
	csvWriter *CSVWriter
	logger    *slog.Logger
	metrics   *infrastructure.BusinessMetrics
}

// NewDatasetExporter creates a dataset exporter rooted at the configured
// datasets directory.
func NewDatasetExporter(paths *config.Paths, logger *slog.Logger) *DatasetExporter {
	return &DatasetExporter{
		paths:     paths,
		csvWriter: NewCSVWriter(paths),
		logger:    logger,
	}
}

// SetMetrics attaches business metrics for per-file write counters.
func (e *DatasetExporter) SetMetrics(m *infrastructure.BusinessMetrics) {
	e.metrics = m
}

// ExportSeason writes every dataset file for one season. Existing files are
// overwritten so repeated exports converge on the latest raw data.
func (e *DatasetExporter) ExportSeason(ctx context.Context, ds *dataprocessing.SeasonDataset) error {
	outDir := e.paths.SeasonDatasetsDir(ds.Ref.Competition, ds.Ref.Season)

	if err := e.exportFixtures(ctx, outDir, ds.Fixtures); err != nil {
		return err
	}
	if err := e.exportStandings(ctx, outDir, ds.Standings); err != nil {
		return err
	}
	if err := e.exportTeamMetrics(ctx, outDir, ds.TeamMetrics); err != nil {
		return err
	}
	if err := e.exportWeekMetrics(ctx, outDir, ds.WeekMetrics); err != nil {
		return err
	}
	if err := e.exportPlayers(ctx, outDir, ds.PlayerStats); err != nil {
		return err
	}
	if err := e.exportPlayerLines(ctx, outDir, ds.PlayerLines); err != nil {
		return err
	}
	if err := e.exportShots(ctx, outDir, ds.PlayerShots); err != nil {
		return err
	}
	if err := e.exportNationalities(ctx, outDir, ds.Nationalities); err != nil {
		return err
	}
	if err := e.exportSummary(ctx, outDir, ds.Summary); err != nil {
		return err
	}

	e.logger.Info("season dataset exported",
		slog.String("competition", ds.Ref.Competition),
		slog.String("season", ds.Ref.Season),
		slog.String("dir", outDir))
	return nil
}

func (e *DatasetExporter) write(ctx context.Context, path, dataset string, headers []string, records [][]string) error {
	if err := e.csvWriter.WriteSimpleCSV(path, headers, records); err != nil {
		return fmt.Errorf("failed to write %s: %w", dataset, err)
	}
	infrastructure.RecordDatasetWrite(ctx, e.metrics, dataset, len(records))
	return nil
}

func (e *DatasetExporter) exportFixtures(ctx context.Context, outDir string, fixtures []domain.Fixture) error {
	headers := []string{
		"match_id", "date", "local_time", "week", "home", "away", "venue",
		"status", "home_score", "away_score", "attendance",
		"temperature", "conditions", "coverage_level",
	}
	records := make([][]string, 0, len(fixtures))
	for _, f := range fixtures {
		var temp, cond string
		if f.Weather != nil {
			temp, cond = f.Weather.Temperature, f.Weather.Conditions
		}
		records = append(records, []string{
			f.MatchID, formatDate(f.Date), f.LocalTime, formatInt(f.Week),
			f.Home, f.Away, f.Venue, string(f.Status),
			formatInt(f.HomeScore), formatInt(f.AwayScore), formatInt(f.Attendance),
			temp, cond, f.CoverageLevel,
		})
	}
	return e.write(ctx, filepath.Join(outDir, config.FixturesCSV), "fixtures", headers, records)
}

func (e *DatasetExporter) exportStandings(ctx context.Context, outDir string, rows []domain.Standing) error {
	headers := []string{
		"rank", "team", "played", "wins", "draws", "losses",
		"goals_for", "goals_against", "goal_diff", "points", "points_per_match",
	}
	records := make([][]string, 0, len(rows))
	for _, s := range rows {
		records = append(records, []string{
			formatInt(s.Rank), s.Team, formatInt(s.Played),
			formatInt(s.Wins), formatInt(s.Draws), formatInt(s.Losses),
			formatInt(s.GoalsFor), formatInt(s.GoalsAgainst), formatInt(s.GoalDiff),
			formatInt(s.Points), formatFloat(s.PointsPerMatch()),
		})
	}
	return e.write(ctx, filepath.Join(outDir, config.StandingsCSV), "standings", headers, records)
}

func (e *DatasetExporter) exportTeamMetrics(ctx context.Context, outDir string, metrics []domain.TeamSeasonMetrics) error {
	headers := []string{
		"team", "played", "goals", "misses", "attempts_saved", "shots",
		"shots_on_target", "passes", "passes_completed", "pass_accuracy",
		"duels", "duels_won", "aerial_duels", "aerial_duels_won",
		"duel_effectiveness", "expected_goals", "points",
	}
	records := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		records = append(records, []string{
			m.Team, formatInt(m.Played), formatInt(m.Goals),
			formatInt(m.Misses), formatInt(m.AttemptsSaved),
			formatInt(m.Shots()), formatInt(m.ShotsOnTarget()),
			formatInt(m.Passes), formatInt(m.PassesCompleted), formatFloat(m.PassAccuracy()),
			formatInt(m.Duels), formatInt(m.DuelsWon),
			formatInt(m.AerialDuels), formatInt(m.AerialDuelsWon),
			formatFloat(m.DuelEffectiveness()), formatFloat(m.ExpectedGoals),
			formatInt(m.Points),
		})
	}
	return e.write(ctx, filepath.Join(outDir, config.TeamMetricsCSV), "team_metrics", headers, records)
}

func (e *DatasetExporter) exportWeekMetrics(ctx context.Context, outDir string, weeks []domain.TeamWeekMetrics) error {
	headers := []string{
		"week", "date", "match_id", "team",
		"duels", "duels_won", "aerial_duels", "aerial_duels_won", "effectiveness",
	}
	records := make([][]string, 0, len(weeks))
	for _, w := range weeks {
		records = append(records, []string{
			formatInt(w.Week), formatDate(w.Date), w.MatchID, w.Team,
			formatInt(w.Duels), formatInt(w.DuelsWon),
			formatInt(w.AerialDuels), formatInt(w.AerialDuelsWon),
			formatFloat(w.Effectiveness()),
		})
	}
	return e.write(ctx, filepath.Join(outDir, config.WeekMetricsCSV), "week_metrics", headers, records)
}

func (e *DatasetExporter) exportPlayers(ctx context.Context, outDir string, players []domain.PlayerSeasonStats) error {
	headers := []string{
		"player_id", "player_name", "team", "matches", "starts",
		"minutes", "goals", "assists", "yellow", "red",
	}
	records := make([][]string, 0, len(players))
	for _, p := range players {
		records = append(records, []string{
			p.PlayerID, p.PlayerName, p.Team, formatInt(p.Matches), formatInt(p.Starts),
			formatInt(p.Minutes), formatInt(p.Goals), formatInt(p.Assists),
			formatInt(p.Yellow), formatInt(p.Red),
		})
	}
	return e.write(ctx, filepath.Join(outDir, config.PlayersCSV), "players", headers, records)
}

func (e *DatasetExporter) exportPlayerLines(ctx context.Context, outDir string, lines map[string][]domain.PlayerMatchLine) error {
	headers := []string{
		"match_id", "date", "description", "minutes",
		"goals", "assists", "yellow", "red", "started",
	}
	for playerID, playerLines := range lines {
		records := make([][]string, 0, len(playerLines))
		for _, l := range playerLines {
			records = append(records, []string{
				l.MatchID, formatDate(l.Date), l.Description, formatInt(l.Minutes),
				formatInt(l.Goals), formatInt(l.Assists),
				formatInt(l.Yellow), formatInt(l.Red), formatBool(l.Started),
			})
		}
		path := filepath.Join(outDir, config.PlayerStatsSubdir, playerID+".csv")
		if err := e.write(ctx, path, "player_stats", headers, records); err != nil {
			return err
		}
	}
	return nil
}

func (e *DatasetExporter) exportShots(ctx context.Context, outDir string, shots map[string][]domain.ShotPoint) error {
	headers := []string{
		"match_id", "type_id", "period", "time_min", "time_sec",
		"x", "y", "pitch_x", "pitch_y",
	}
	for playerID, points := range shots {
		records := make([][]string, 0, len(points))
		for _, s := range points {
			records = append(records, []string{
				s.MatchID, formatInt(s.TypeID), formatInt(s.PeriodID),
				formatInt(s.TimeMin), formatInt(s.TimeSec),
				formatFloat(s.X), formatFloat(s.Y),
				formatFloat(s.PitchX), formatFloat(s.PitchY),
			})
		}
		path := filepath.Join(outDir, config.ShotsSubdir, playerID+".csv")
		if err := e.write(ctx, path, "shots", headers, records); err != nil {
			return err
		}
	}
	return nil
}

func (e *DatasetExporter) exportNationalities(ctx context.Context, outDir string, counts []domain.NationalityCount) error {
	headers := []string{"nationality", "players"}
	records := make([][]string, 0, len(counts))
	for _, c := range counts {
		records = append(records, []string{c.Nationality, formatInt(c.Players)})
	}
	return e.write(ctx, filepath.Join(outDir, config.NationalitiesCSV), "nationalities", headers, records)
}

func (e *DatasetExporter) exportSummary(ctx context.Context, outDir string, s domain.LeagueSummary) error {
	headers := []string{
		"competition", "season", "teams", "matches_played", "goals",
		"goals_per_match", "points_per_match", "avg_attendance", "distinct_nations",
	}
	records := [][]string{{
		s.Competition, s.Season, formatInt(s.Teams), formatInt(s.MatchesPlayed),
		formatInt(s.Goals), formatFloat(s.GoalsPerMatch), formatFloat(s.PointsPerMatch),
		formatFloat(s.AvgAttendance), formatInt(s.DistinctNations),
	}}
	return e.write(ctx, filepath.Join(outDir, config.SummaryCSV), "summary", headers, records)
}
