package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"pitchpulse/internal/config"
)

// utf8BOM prefixes every exported CSV so spreadsheet tools detect the
// encoding; it has to be stripped before parsing.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Scatter kinds supported by Scatter
const (
	ScatterXGGoals    = "xg_goals"
	ScatterSavedGoals = "saved_goals"
)

// metricColumns maps chart metric names to team_metrics.csv columns.
var metricColumns = map[string]string{
	"goals":              "goals",
	"shots":              "shots",
	"shots_on_target":    "shots_on_target",
	"pass_accuracy":      "pass_accuracy",
	"duel_effectiveness": "duel_effectiveness",
	"expected_goals":     "expected_goals",
	"points":             "points",
}

// DataService answers dashboard queries from the generated CSV datasets.
type DataService struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewDataService creates a new data service
func NewDataService(paths *config.Paths, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		paths:  paths,
		logger: logger.With(slog.String("component", "data_service")),
	}
}

// Leagues lists competitions that have at least one generated dataset
func (ds *DataService) Leagues(ctx context.Context) ([]string, error) {
	return listSubdirs(ds.paths.DatasetsDir)
}

// Seasons lists the dataset seasons available for a league
func (ds *DataService) Seasons(ctx context.Context, league string) ([]string, error) {
	if err := validateName(league); err != nil {
		return nil, err
	}
	dir := filepath.Join(ds.paths.DatasetsDir, league)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLeagueNotFound, league)
	}
	return listSubdirs(dir)
}

// LeagueSummary returns the season headline numbers
func (ds *DataService) LeagueSummary(ctx context.Context, league, season string) (map[string]interface{}, error) {
	dir, err := ds.seasonDir(league, season)
	if err != nil {
		return nil, err
	}
	rows, err := ds.readDataset(filepath.Join(dir, config.SummaryCSV))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: summary for %s/%s", ErrDatasetMissing, league, season)
	}
	return rows[0], nil
}

// LeagueTable returns the standings rows
func (ds *DataService) LeagueTable(ctx context.Context, league, season string) ([]map[string]interface{}, error) {
	dir, err := ds.seasonDir(league, season)
	if err != nil {
		return nil, err
	}
	return ds.readDataset(filepath.Join(dir, config.StandingsCSV))
}

// TeamMetrics returns the per-team season metric rows
func (ds *DataService) TeamMetrics(ctx context.Context, league, season string) ([]map[string]interface{}, error) {
	dir, err := ds.seasonDir(league, season)
	if err != nil {
		return nil, err
	}
	return ds.readDataset(filepath.Join(dir, config.TeamMetricsCSV))
}

// MetricChart returns a bar-chart payload for one team metric
func (ds *DataService) MetricChart(ctx context.Context, league, season, metric string) (map[string]interface{}, error) {
	column, ok := metricColumns[metric]
	if !ok {
		return nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidRequest, metric)
	}

	rows, err := ds.TeamMetrics(ctx, league, season)
	if err != nil {
		return nil, err
	}

	teams := make([]string, 0, len(rows))
	values := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		team, _ := row["team"].(string)
		teams = append(teams, team)
		values = append(values, row[column])
	}

	return map[string]interface{}{
		"metric": metric,
		"teams":  teams,
		"values": values,
	}, nil
}

// DuelTimeseries returns the per-week duel effectiveness series the
// dashboard draws as a line chart, one series per team.
func (ds *DataService) DuelTimeseries(ctx context.Context, league, season string) (map[string]interface{}, error) {
	dir, err := ds.seasonDir(league, season)
	if err != nil {
		return nil, err
	}
	rows, err := ds.readDataset(filepath.Join(dir, config.WeekMetricsCSV))
	if err != nil {
		return nil, err
	}

	byTeam := make(map[string][]map[string]interface{})
	var teams []string
	for _, row := range rows {
		team, _ := row["team"].(string)
		if _, seen := byTeam[team]; !seen {
			teams = append(teams, team)
		}
		byTeam[team] = append(byTeam[team], map[string]interface{}{
			"week":          row["week"],
			"date":          row["date"],
			"effectiveness": row["effectiveness"],
		})
	}
	sort.Strings(teams)

	series := make([]map[string]interface{}, 0, len(teams))
	for _, team := range teams {
		series = append(series, map[string]interface{}{
			"team":   team,
			"points": byTeam[team],
		})
	}

	return map[string]interface{}{"series": series}, nil
}

// Scatter returns a scatter payload comparing two team metrics
func (ds *DataService) Scatter(ctx context.Context, league, season, kind string) (map[string]interface{}, error) {
	var xColumn, xLabel string
	switch kind {
	case ScatterXGGoals:
		xColumn, xLabel = "expected_goals", "Expected goals"
	case ScatterSavedGoals:
		xColumn, xLabel = "attempts_saved", "Shots saved by keeper"
	default:
		return nil, fmt.Errorf("%w: unknown scatter %q", ErrInvalidRequest, kind)
	}

	rows, err := ds.TeamMetrics(ctx, league, season)
	if err != nil {
		return nil, err
	}

	points := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		points = append(points, map[string]interface{}{
			"team": row["team"],
			"x":    row[xColumn],
			"y":    row["goals"],
		})
	}

	return map[string]interface{}{
		"kind":    kind,
		"x_label": xLabel,
		"y_label": "Goals",
		"points":  points,
	}, nil
}

// Nationalities returns the squad nationality counts
func (ds *DataService) Nationalities(ctx context.Context, league, season string) ([]map[string]interface{}, error) {
	dir, err := ds.seasonDir(league, season)
	if err != nil {
		return nil, err
	}
	return ds.readDataset(filepath.Join(dir, config.NationalitiesCSV))
}

// Clubs lists the teams present in a season's metrics
func (ds *DataService) Clubs(ctx context.Context, league, season string) ([]string, error) {
	rows, err := ds.TeamMetrics(ctx, league, season)
	if err != nil {
		return nil, err
	}
	clubs := make([]string, 0, len(rows))
	for _, row := range rows {
		if team, ok := row["team"].(string); ok && team != "" {
			clubs = append(clubs, team)
		}
	}
	sort.Strings(clubs)
	return clubs, nil
}

// ClubForm returns a club's most recent played fixtures, newest first.
func (ds *DataService) ClubForm(ctx context.Context, league, season, club string, limit int) ([]map[string]interface{}, error) {
	dir, err := ds.seasonDir(league, season)
	if err != nil {
		return nil, err
	}
	rows, err := ds.readDataset(filepath.Join(dir, config.FixturesCSV))
	if err != nil {
		return nil, err
	}

	var form []map[string]interface{}
	found := false
	for _, row := range rows {
		home, _ := row["home"].(string)
		away, _ := row["away"].(string)
		if home != club && away != club {
			continue
		}
		found = true
		if status, _ := row["status"].(string); status != "Played" {
			continue
		}

		isHome := home == club
		opponent := away
		scored := toInt(row["home_score"])
		conceded := toInt(row["away_score"])
		if !isHome {
			opponent = home
			scored, conceded = conceded, scored
		}

		form = append(form, map[string]interface{}{
			"match_id": row["match_id"],
			"date":     row["date"],
			"week":     row["week"],
			"opponent": opponent,
			"home":     isHome,
			"scored":   scored,
			"conceded": conceded,
			"result":   formResult(scored, conceded),
		})
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrClubNotFound, club)
	}

	// Fixture rows are date-sorted, newest last
	for i, j := 0, len(form)-1; i < j; i, j = i+1, j-1 {
		form[i], form[j] = form[j], form[i]
	}
	if limit > 0 && len(form) > limit {
		form = form[:limit]
	}
	return form, nil
}

// Players returns the season player roll-up rows
func (ds *DataService) Players(ctx context.Context, league, season string) ([]map[string]interface{}, error) {
	dir, err := ds.seasonDir(league, season)
	if err != nil {
		return nil, err
	}
	return ds.readDataset(filepath.Join(dir, config.PlayersCSV))
}

// PlayerStats returns a player's per-match lines
func (ds *DataService) PlayerStats(ctx context.Context, league, season, playerID string) ([]map[string]interface{}, error) {
	dir, err := ds.seasonDir(league, season)
	if err != nil {
		return nil, err
	}
	if err := validateName(playerID); err != nil {
		return nil, err
	}
	rows, err := ds.readDataset(filepath.Join(dir, config.PlayerStatsSubdir, playerID+".csv"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return rows, nil
}

// PlayerShotMap returns a player's shot points in pitch coordinates
func (ds *DataService) PlayerShotMap(ctx context.Context, league, season, playerID string) (map[string]interface{}, error) {
	dir, err := ds.seasonDir(league, season)
	if err != nil {
		return nil, err
	}
	if err := validateName(playerID); err != nil {
		return nil, err
	}
	rows, err := ds.readDataset(filepath.Join(dir, config.ShotsSubdir, playerID+".csv"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return map[string]interface{}{
		"player_id":    playerID,
		"pitch_length": 105.0,
		"pitch_width":  68.0,
		"shots":        rows,
	}, nil
}

// DownloadFile streams a dataset file to the client. Only CSV and
// workbook files inside the season's dataset directory are served.
func (ds *DataService) DownloadFile(w http.ResponseWriter, r *http.Request, league, season, filename string) error {
	dir, err := ds.seasonDir(league, season)
	if err != nil {
		return err
	}
	if err := validateName(filename); err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		w.Header().Set("Content-Type", "text/csv")
	case ".xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	default:
		return fmt.Errorf("%w: %s", ErrInvalidFileType, filename)
	}

	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrFileNotFound, filename)
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)

	ds.logger.InfoContext(r.Context(), "dataset file served",
		slog.String("league", league),
		slog.String("season", season),
		slog.String("filename", filename),
	)
	return nil
}

// seasonDir resolves and checks the dataset directory for a season
func (ds *DataService) seasonDir(league, season string) (string, error) {
	if err := validateName(league); err != nil {
		return "", err
	}
	if err := validateName(season); err != nil {
		return "", err
	}
	dir := ds.paths.SeasonDatasetsDir(league, season)
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("%w: %s/%s", ErrSeasonNotFound, league, season)
	}
	return dir, nil
}

// readDataset parses a BOM-prefixed CSV into one map per row, with
// numeric-looking values converted.
func (ds *DataService) readDataset(path string) ([]map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDatasetMissing, filepath.Base(path))
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return []map[string]interface{}{}, nil
	}

	headers := records[0]
	rows := make([]map[string]interface{}, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]interface{}, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = convertValue(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// convertValue turns a CSV cell into an int, float or string
func convertValue(s string) interface{} {
	if s == "" {
		return ""
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func formResult(scored, conceded int) string {
	switch {
	case scored > conceded:
		return "W"
	case scored < conceded:
		return "L"
	default:
		return "D"
	}
}

// validateName rejects path components that could escape the data tree
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: empty or reserved name", ErrInvalidRequest)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q contains path separators", ErrInvalidRequest, name)
	}
	return nil
}

func listSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
