package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"pitchpulse/internal/config"
	"pitchpulse/internal/dataprocessing"
)

// WorkbookExporter writes a season dataset as a single Excel workbook with
// one sheet per table, for analysts who work outside the dashboard.
type WorkbookExporter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter.
func NewWorkbookExporter(paths *config.Paths, logger *slog.Logger) *WorkbookExporter {
	return &WorkbookExporter{paths: paths, logger: logger}
}

// ExportSeason writes season.xlsx into the season's dataset directory and
// returns the file path.
func (e *WorkbookExporter) ExportSeason(ds *dataprocessing.SeasonDataset) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, "Summary",
		[]string{"competition", "season", "teams", "matches_played", "goals", "goals_per_match", "points_per_match"},
		[][]interface{}{{
			ds.Summary.Competition, ds.Summary.Season, ds.Summary.Teams,
			ds.Summary.MatchesPlayed, ds.Summary.Goals,
			ds.Summary.GoalsPerMatch, ds.Summary.PointsPerMatch,
		}}); err != nil {
		return "", err
	}

	standings := make([][]interface{}, 0, len(ds.Standings))
	for _, s := range ds.Standings {
		standings = append(standings, []interface{}{
			s.Rank, s.Team, s.Played, s.Wins, s.Draws, s.Losses,
			s.GoalsFor, s.GoalsAgainst, s.GoalDiff, s.Points,
		})
	}
	if err := writeSheet(f, "Standings",
		[]string{"rank", "team", "played", "wins", "draws", "losses", "goals_for", "goals_against", "goal_diff", "points"},
		standings); err != nil {
		return "", err
	}

	teams := make([][]interface{}, 0, len(ds.TeamMetrics))
	for _, m := range ds.TeamMetrics {
		teams = append(teams, []interface{}{
			m.Team, m.Played, m.Goals, m.Shots(), m.ShotsOnTarget(),
			m.PassAccuracy(), m.DuelEffectiveness(), m.ExpectedGoals, m.Points,
		})
	}
	if err := writeSheet(f, "Team Metrics",
		[]string{"team", "played", "goals", "shots", "shots_on_target", "pass_accuracy", "duel_effectiveness", "expected_goals", "points"},
		teams); err != nil {
		return "", err
	}

	fixtures := make([][]interface{}, 0, len(ds.Fixtures))
	for _, fx := range ds.Fixtures {
		fixtures = append(fixtures, []interface{}{
			fx.MatchID, formatDate(fx.Date), fx.Week, fx.Home, fx.Away,
			fx.HomeScore, fx.AwayScore, string(fx.Status), fx.Venue,
		})
	}
	if err := writeSheet(f, "Fixtures",
		[]string{"match_id", "date", "week", "home", "away", "home_score", "away_score", "status", "venue"},
		fixtures); err != nil {
		return "", err
	}

	// The default sheet is replaced by the first named one.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to drop default sheet: %w", err)
	}

	outDir := e.paths.SeasonDatasetsDir(ds.Ref.Competition, ds.Ref.Season)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create dataset directory: %w", err)
	}
	path := filepath.Join(outDir, config.SeasonWorkbook)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("season workbook exported",
		slog.String("competition", ds.Ref.Competition),
		slog.String("season", ds.Ref.Season),
		slog.String("path", path))
	return path, nil
}

func writeSheet(f *excelize.File, name string, headers []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write headers on %s: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %s: %w", i, name, err)
		}
	}
	return nil
}
