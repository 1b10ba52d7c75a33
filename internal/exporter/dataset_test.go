package exporter

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchpulse/internal/config"
	"pitchpulse/internal/dataprocessing"
	"pitchpulse/pkg/contracts/domain"
)

func sampleDataset() *dataprocessing.SeasonDataset {
	return &dataprocessing.SeasonDataset{
		Ref: domain.SeasonRef{
			Continent: "South_America", Country: "Argentina",
			Competition: "Liga_Profesional", Season: "2024",
		},
		Fixtures: []domain.Fixture{{
			MatchID: "m1",
			Date:    time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			Week:    1, Home: "River Plate", Away: "Boca Juniors",
			Venue: "El Monumental", Status: domain.MatchStatusPlayed,
			HomeScore: 2, AwayScore: 1, Attendance: 41234,
			Weather: &domain.Weather{Temperature: "18C", Conditions: "Clear"},
		}},
		Standings: []domain.Standing{
			{Rank: 1, Team: "River Plate", Played: 1, Wins: 1, GoalsFor: 2, GoalsAgainst: 1, GoalDiff: 1, Points: 3},
			{Rank: 2, Team: "Boca Juniors", Played: 1, Losses: 1, GoalsFor: 1, GoalsAgainst: 2, GoalDiff: -1},
		},
		TeamMetrics: []domain.TeamSeasonMetrics{{
			Team: "River Plate", Played: 1, Goals: 2, Misses: 3, AttemptsSaved: 4,
			Passes: 300, PassesCompleted: 250, Duels: 20, DuelsWon: 12, Points: 3,
		}},
		WeekMetrics: []domain.TeamWeekMetrics{{
			Week: 1, MatchID: "m1", Team: "River Plate", Duels: 20, DuelsWon: 12,
		}},
		PlayerStats: []domain.PlayerSeasonStats{{
			PlayerID: "p1", PlayerName: "J. Alvarez", Team: "River Plate",
			Matches: 1, Starts: 1, Minutes: 90, Goals: 2,
		}},
		PlayerLines: map[string][]domain.PlayerMatchLine{
			"p1": {{MatchID: "m1", Minutes: 90, Goals: 2, Started: true}},
		},
		PlayerShots: map[string][]domain.ShotPoint{
			"p1": {{MatchID: "m1", TypeID: domain.EventTypeGoal, X: 94, Y: 52, PitchX: 98.7, PitchY: 35.36}},
		},
		Nationalities: []domain.NationalityCount{{Nationality: "Argentina", Players: 2}},
		Summary: domain.LeagueSummary{
			Competition: "Liga_Profesional", Season: "2024", Teams: 2,
			MatchesPlayed: 1, Goals: 3, GoalsPerMatch: 3,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportSeason(t *testing.T) {
	paths := testPaths(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	e := NewDatasetExporter(paths, logger)

	ds := sampleDataset()
	require.NoError(t, e.ExportSeason(context.Background(), ds))

	outDir := paths.SeasonDatasetsDir("Liga_Profesional", "2024")

	fixtures := readCSV(t, filepath.Join(outDir, config.FixturesCSV))
	require.Len(t, fixtures, 2)
	assert.Equal(t, "match_id", fixtures[0][0])
	assert.Equal(t, []string{
		"m1", "2024-03-10", "", "1", "River Plate", "Boca Juniors",
		"El Monumental", "Played", "2", "1", "41234", "18C", "Clear", "",
	}, fixtures[1])

	standings := readCSV(t, filepath.Join(outDir, config.StandingsCSV))
	require.Len(t, standings, 3)
	assert.Equal(t, "River Plate", standings[1][1])
	assert.Equal(t, "3.00", standings[1][10], "points per match")

	teams := readCSV(t, filepath.Join(outDir, config.TeamMetricsCSV))
	require.Len(t, teams, 2)
	assert.Equal(t, "9", teams[1][5], "shots = misses + saved + goals")
	assert.Equal(t, "83.33", teams[1][9], "pass accuracy")

	weeks := readCSV(t, filepath.Join(outDir, config.WeekMetricsCSV))
	require.Len(t, weeks, 2)
	assert.Equal(t, "60.00", weeks[1][8], "duel effectiveness")

	players := readCSV(t, filepath.Join(outDir, config.PlayersCSV))
	require.Len(t, players, 2)
	assert.Equal(t, "J. Alvarez", players[1][1])

	lines := readCSV(t, filepath.Join(outDir, config.PlayerStatsSubdir, "p1.csv"))
	require.Len(t, lines, 2)
	assert.Equal(t, "true", lines[1][8])

	shots := readCSV(t, filepath.Join(outDir, config.ShotsSubdir, "p1.csv"))
	require.Len(t, shots, 2)
	assert.Equal(t, "98.70", shots[1][7])

	nationalities := readCSV(t, filepath.Join(outDir, config.NationalitiesCSV))
	require.Len(t, nationalities, 2)

	summary := readCSV(t, filepath.Join(outDir, config.SummaryCSV))
	require.Len(t, summary, 2)
	assert.Equal(t, "Liga_Profesional", summary[1][0])
	assert.Equal(t, "3.00", summary[1][5])
}

func TestExportSeasonOverwrites(t *testing.T) {
	paths := testPaths(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	e := NewDatasetExporter(paths, logger)

	ds := sampleDataset()
	require.NoError(t, e.ExportSeason(context.Background(), ds))

	ds.Standings = ds.Standings[:1]
	require.NoError(t, e.ExportSeason(context.Background(), ds))

	outDir := paths.SeasonDatasetsDir("Liga_Profesional", "2024")
	standings := readCSV(t, filepath.Join(outDir, config.StandingsCSV))
	assert.Len(t, standings, 2, "second export replaces the first")
}
