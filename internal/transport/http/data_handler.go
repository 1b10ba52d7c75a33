package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "pitchpulse/internal/errors"
	"pitchpulse/internal/services"
)

// defaultFormLength is how many recent results a club form query returns
// when no limit is given.
const defaultFormLength = 5

// DataHandler handles dataset HTTP requests
type DataHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/leagues", h.GetLeagues)
	r.Get("/leagues/{league}/seasons", h.GetSeasons)

	r.Route("/leagues/{league}/{season}", func(r chi.Router) {
		r.Use(h.SeasonCtx)
		r.Get("/summary", h.GetLeagueSummary)
		r.Get("/table", h.GetLeagueTable)
		r.Get("/metrics", h.GetTeamMetrics)
		r.Get("/metrics/{metric}", h.GetMetricChart)
		r.Get("/scatter/{kind}", h.GetScatter)
		r.Get("/duels", h.GetDuelTimeseries)
		r.Get("/nationalities", h.GetNationalities)
		r.Get("/clubs", h.GetClubs)
		r.Get("/clubs/{club}/form", h.GetClubForm)
		r.Get("/players", h.GetPlayers)
		r.Get("/players/{player}/stats", h.GetPlayerStats)
		r.Get("/players/{player}/shotmap", h.GetPlayerShotMap)
		r.Get("/download/{filename}", h.DownloadFile)
	})

	return r
}

// SeasonCtx validates the league and season URL parameters
func (h *DataHandler) SeasonCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "league") == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("league", "League is required"))
			return
		}
		if chi.URLParam(r, "season") == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("season", "Season is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetLeagues handles GET /api/data/leagues
func (h *DataHandler) GetLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := h.service.Leagues(r.Context())
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   leagues,
		"count":  len(leagues),
	})
}

// GetSeasons handles GET /api/data/leagues/{league}/seasons
func (h *DataHandler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	league := chi.URLParam(r, "league")
	seasons, err := h.service.Seasons(r.Context(), league)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"league": league,
		"data":   seasons,
		"count":  len(seasons),
	})
}

// GetLeagueSummary handles GET /api/data/leagues/{league}/{season}/summary
func (h *DataHandler) GetLeagueSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.LeagueSummary(r.Context(), chi.URLParam(r, "league"), chi.URLParam(r, "season"))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetLeagueTable handles GET /api/data/leagues/{league}/{season}/table
func (h *DataHandler) GetLeagueTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.LeagueTable(r.Context(), chi.URLParam(r, "league"), chi.URLParam(r, "season"))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   table,
		"count":  len(table),
	})
}

// GetTeamMetrics handles GET /api/data/leagues/{league}/{season}/metrics
func (h *DataHandler) GetTeamMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.service.TeamMetrics(r.Context(), chi.URLParam(r, "league"), chi.URLParam(r, "season"))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   metrics,
		"count":  len(metrics),
	})
}

// GetMetricChart handles GET /api/data/leagues/{league}/{season}/metrics/{metric}
func (h *DataHandler) GetMetricChart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.service.MetricChart(r.Context(),
		chi.URLParam(r, "league"), chi.URLParam(r, "season"), chi.URLParam(r, "metric"))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   chart,
	})
}

// GetScatter handles GET /api/data/leagues/{league}/{season}/scatter/{kind}
func (h *DataHandler) GetScatter(w http.ResponseWriter, r *http.Request) {
	scatter, err := h.service.Scatter(r.Context(),
		chi.URLParam(r, "league"), chi.URLParam(r, "season"), chi.URLParam(r, "kind"))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   scatter,
	})
}

// GetDuelTimeseries handles GET /api/data/leagues/{league}/{season}/duels
func (h *DataHandler) GetDuelTimeseries(w http.ResponseWriter, r *http.Request) {
	chart, err := h.service.DuelTimeseries(r.Context(), chi.URLParam(r, "league"), chi.URLParam(r, "season"))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   chart,
	})
}

// GetNationalities handles GET /api/data/leagues/{league}/{season}/nationalities
func (h *DataHandler) GetNationalities(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Nationalities(r.Context(), chi.URLParam(r, "league"), chi.URLParam(r, "season"))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// GetClubs handles GET /api/data/leagues/{league}/{season}/clubs
func (h *DataHandler) GetClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.service.Clubs(r.Context(), chi.URLParam(r, "league"), chi.URLParam(r, "season"))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   clubs,
		"count":  len(clubs),
	})
}

// GetClubForm handles GET /api/data/leagues/{league}/{season}/clubs/{club}/form
func (h *DataHandler) GetClubForm(w http.ResponseWriter, r *http.Request) {
	limit := defaultFormLength
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", "limit must be between 1 and 50"))
			return
		}
		limit = n
	}

	club := chi.URLParam(r, "club")
	form, err := h.service.ClubForm(r.Context(),
		chi.URLParam(r, "league"), chi.URLParam(r, "season"), club, limit)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"club":   club,
		"data":   form,
		"count":  len(form),
	})
}

// GetPlayers handles GET /api/data/leagues/{league}/{season}/players
func (h *DataHandler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.Players(r.Context(), chi.URLParam(r, "league"), chi.URLParam(r, "season"))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   players,
		"count":  len(players),
	})
}

// GetPlayerStats handles GET /api/data/leagues/{league}/{season}/players/{player}/stats
func (h *DataHandler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")
	stats, err := h.service.PlayerStats(r.Context(),
		chi.URLParam(r, "league"), chi.URLParam(r, "season"), player)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":    "success",
		"player_id": player,
		"data":      stats,
		"count":     len(stats),
	})
}

// GetPlayerShotMap handles GET /api/data/leagues/{league}/{season}/players/{player}/shotmap
func (h *DataHandler) GetPlayerShotMap(w http.ResponseWriter, r *http.Request) {
	shotmap, err := h.service.PlayerShotMap(r.Context(),
		chi.URLParam(r, "league"), chi.URLParam(r, "season"), chi.URLParam(r, "player"))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   shotmap,
	})
}

// DownloadFile handles GET /api/data/leagues/{league}/{season}/download/{filename}
func (h *DataHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	league := chi.URLParam(r, "league")
	season := chi.URLParam(r, "season")
	filename := chi.URLParam(r, "filename")

	if err := h.service.DownloadFile(w, r, league, season, filename); err != nil {
		h.logger.WarnContext(r.Context(), "download rejected",
			slog.String("league", league),
			slog.String("season", season),
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		h.renderServiceError(w, r, err)
	}
}

// renderServiceError maps service errors onto API error responses
func (h *DataHandler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrLeagueNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound, "LEAGUE_NOT_FOUND", "League dataset not found", err.Error()))
	case errors.Is(err, services.ErrSeasonNotFound),
		errors.Is(err, services.ErrDatasetMissing):
		h.errorHandler.HandleError(w, r, apierrors.SeasonNotFoundError(
			chi.URLParam(r, "league"), chi.URLParam(r, "season")))
	case errors.Is(err, services.ErrClubNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("club"))
	case errors.Is(err, services.ErrPlayerNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("player"))
	case errors.Is(err, services.ErrFileNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("file"))
	case errors.Is(err, services.ErrInvalidFileType),
		errors.Is(err, services.ErrInvalidRequest):
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
	default:
		h.logger.ErrorContext(r.Context(), "data query failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
	}
}
