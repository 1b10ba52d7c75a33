package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "pitchpulse/internal/errors"
	"pitchpulse/internal/operations"
	"pitchpulse/internal/services"
)

// validOperationStatuses guards the list filter query parameter
var validOperationStatuses = map[string]operations.OperationStatusValue{
	"pending":   operations.OperationStatusPending,
	"running":   operations.OperationStatusRunning,
	"completed": operations.OperationStatusCompleted,
	"failed":    operations.OperationStatusFailed,
	"cancelled": operations.OperationStatusCancelled,
}

// OperationsHandler handles pipeline run HTTP requests
type OperationsHandler struct {
	service      OperationServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewOperationsHandler creates a new operations handler
func NewOperationsHandler(service OperationServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *OperationsHandler {
	return &OperationsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "operations_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the operations routes
func (h *OperationsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.StartOperation)
	r.Get("/", h.ListOperations)
	r.Get("/metrics", h.GetOperationMetrics)
	r.Get("/{id}", h.GetOperation)
	r.Delete("/{id}", h.CancelOperation)

	return r
}

// StartOperation handles POST /api/operations
func (h *OperationsHandler) StartOperation(w http.ResponseWriter, r *http.Request) {
	var req operations.OperationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	id, err := h.service.StartOperation(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to start operation",
			slog.String("competition", req.Competition),
			slog.String("season", req.Season),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "operation accepted",
		slog.String("id", id),
		slog.String("competition", req.Competition),
		slog.String("season", req.Season))

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]interface{}{
		"status": "accepted",
		"id":     id,
	})
}

// ListOperations handles GET /api/operations
func (h *OperationsHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	var states []*operations.OperationState
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := validOperationStatuses[raw]
		if !ok {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("status", "unknown operation status"))
			return
		}
		states = h.service.ListOperationsByStatus(r.Context(), status)
	} else {
		states = h.service.ListOperations(r.Context())
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   states,
		"count":  len(states),
	})
}

// GetOperation handles GET /api/operations/{id}
func (h *OperationsHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := h.service.GetOperationStatus(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrOperationNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.ErrOperationNotFound)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   state,
	})
}

// CancelOperation handles DELETE /api/operations/{id}
func (h *OperationsHandler) CancelOperation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.CancelOperation(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrOperationNotFound):
			h.errorHandler.HandleError(w, r, apierrors.ErrOperationNotFound)
		case operations.GetErrorType(err) == operations.ErrorTypeInvalidState:
			h.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusConflict, "OPERATION_NOT_RUNNING", "operation is not running"))
		default:
			h.errorHandler.HandleError(w, r, err)
		}
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "cancelled",
		"id":     id,
	})
}

// GetOperationMetrics handles GET /api/operations/metrics
func (h *OperationsHandler) GetOperationMetrics(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.GetOperationMetrics(r.Context()),
	})
}
