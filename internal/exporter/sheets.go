package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"pitchpulse/internal/config"
	"pitchpulse/internal/dataprocessing"
)

// SheetsPublisher pushes the headline season tables to a shared Google
// spreadsheet so the club staff can follow the league without opening the
// dashboard. One tab per table, cleared and rewritten on every publish.
type SheetsPublisher struct {
	cfg     config.SheetsConfig
	service *sheets.Service
	logger  *slog.Logger
}

// NewSheetsPublisher builds a publisher from service account credentials.
// Returns an error when publishing is enabled but the credentials file is
// missing or invalid.
func NewSheetsPublisher(ctx context.Context, cfg config.SheetsConfig, paths *config.Paths, logger *slog.Logger) (*SheetsPublisher, error) {
	if !cfg.Enabled {
		return &SheetsPublisher{cfg: cfg, logger: logger}, nil
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets publishing enabled but no spreadsheet ID configured")
	}

	credentialsJSON, err := os.ReadFile(paths.GetCredentialsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read sheets credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	logger.Info("google sheets publisher initialized",
		slog.String("spreadsheet_id", cfg.SpreadsheetID))
	return &SheetsPublisher{cfg: cfg, service: service, logger: logger}, nil
}

// Enabled reports whether publishing is configured.
func (p *SheetsPublisher) Enabled() bool {
	return p.cfg.Enabled && p.service != nil
}

// PublishSeason replaces the Standings, Team Metrics and Summary tabs with
// the season's current numbers.
func (p *SheetsPublisher) PublishSeason(ctx context.Context, ds *dataprocessing.SeasonDataset) error {
	if !p.Enabled() {
		return nil
	}

	tabs := []struct {
		name   string
		values [][]interface{}
	}{
		{"Summary", summaryValues(ds)},
		{"Standings", standingsValues(ds)},
		{"Team Metrics", teamMetricsValues(ds)},
	}

	for _, tab := range tabs {
		rangeName := fmt.Sprintf("%s!A1", tab.name)
		if _, err := p.service.Spreadsheets.Values.Clear(
			p.cfg.SpreadsheetID, tab.name+"!A:Z", &sheets.ClearValuesRequest{},
		).Context(ctx).Do(); err != nil {
			return fmt.Errorf("failed to clear %s tab: %w", tab.name, err)
		}

		valueRange := &sheets.ValueRange{Values: tab.values}
		if _, err := p.service.Spreadsheets.Values.Update(
			p.cfg.SpreadsheetID, rangeName, valueRange,
		).ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return fmt.Errorf("failed to update %s tab: %w", tab.name, err)
		}
	}

	p.logger.Info("season published to google sheets",
		slog.String("competition", ds.Ref.Competition),
		slog.String("season", ds.Ref.Season),
		slog.String("spreadsheet_id", p.cfg.SpreadsheetID))
	return nil
}

func summaryValues(ds *dataprocessing.SeasonDataset) [][]interface{} {
	s := ds.Summary
	return [][]interface{}{
		{"competition", "season", "teams", "matches_played", "goals", "goals_per_match", "points_per_match"},
		{s.Competition, s.Season, s.Teams, s.MatchesPlayed, s.Goals, s.GoalsPerMatch, s.PointsPerMatch},
	}
}

func standingsValues(ds *dataprocessing.SeasonDataset) [][]interface{} {
	values := [][]interface{}{
		{"rank", "team", "played", "wins", "draws", "losses", "goals_for", "goals_against", "goal_diff", "points"},
	}
	for _, s := range ds.Standings {
		values = append(values, []interface{}{
			s.Rank, s.Team, s.Played, s.Wins, s.Draws, s.Losses,
			s.GoalsFor, s.GoalsAgainst, s.GoalDiff, s.Points,
		})
	}
	return values
}

func teamMetricsValues(ds *dataprocessing.SeasonDataset) [][]interface{} {
	values := [][]interface{}{
		{"team", "played", "goals", "shots", "shots_on_target", "pass_accuracy", "duel_effectiveness", "expected_goals", "points"},
	}
	for _, m := range ds.TeamMetrics {
		values = append(values, []interface{}{
			m.Team, m.Played, m.Goals, m.Shots(), m.ShotsOnTarget(),
			m.PassAccuracy(), m.DuelEffectiveness(), m.ExpectedGoals, m.Points,
		})
	}
	return values
}
