package http

import (
	"context"
	"net/http"
)

// DataServiceInterface defines the dataset queries the data handler needs
type DataServiceInterface interface {
	Leagues(ctx context.Context) ([]string, error)
	Seasons(ctx context.Context, league string) ([]string, error)
	LeagueSummary(ctx context.Context, league, season string) (map[string]interface{}, error)
	LeagueTable(ctx context.Context, league, season string) ([]map[string]interface{}, error)
	TeamMetrics(ctx context.Context, league, season string) ([]map[string]interface{}, error)
	MetricChart(ctx context.Context, league, season, metric string) (map[string]interface{}, error)
	Scatter(ctx context.Context, league, season, kind string) (map[string]interface{}, error)
	DuelTimeseries(ctx context.Context, league, season string) (map[string]interface{}, error)
	Nationalities(ctx context.Context, league, season string) ([]map[string]interface{}, error)
	Clubs(ctx context.Context, league, season string) ([]string, error)
	ClubForm(ctx context.Context, league, season, club string, limit int) ([]map[string]interface{}, error)
	Players(ctx context.Context, league, season string) ([]map[string]interface{}, error)
	PlayerStats(ctx context.Context, league, season, playerID string) ([]map[string]interface{}, error)
	PlayerShotMap(ctx context.Context, league, season, playerID string) (map[string]interface{}, error)
	DownloadFile(w http.ResponseWriter, r *http.Request, league, season, filename string) error
}
