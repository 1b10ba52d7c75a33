package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"pitchpulse/internal/operations"
)

// seasonPattern matches dataset season names, e.g. "2023" or "2023_2024".
var seasonPattern = regexp.MustCompile(`^\d{4}(_\d{4})?$`)

// OperationService starts and tracks pipeline runs
type OperationService struct {
	manager     *operations.Manager
	broadcaster *operations.StatusBroadcaster
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewOperationService creates a new operation service
func NewOperationService(manager *operations.Manager, broadcaster *operations.StatusBroadcaster, logger *slog.Logger) *OperationService {
	if logger == nil {
		logger = slog.Default()
	}

	validate := validator.New()
	validate.RegisterValidation("season", func(fl validator.FieldLevel) bool {
		return seasonPattern.MatchString(fl.Field().String())
	})

	return &OperationService{
		manager:     manager,
		broadcaster: broadcaster,
		validate:    validate,
		logger:      logger.With(slog.String("component", "operation_service")),
	}
}

// StartOperation validates the request and launches the pipeline in the
// background. It returns the operation ID immediately; progress arrives
// over the WebSocket hub.
func (os *OperationService) StartOperation(ctx context.Context, req *operations.OperationRequest) (string, error) {
	if req == nil {
		return "", fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if err := os.validate.Struct(req); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	os.logger.InfoContext(ctx, "starting operation",
		slog.String("id", req.ID),
		slog.String("competition", req.Competition),
		slog.String("season", req.Season),
		slog.String("mode", req.Mode))

	// The run outlives the HTTP request that started it.
	runCtx := context.WithoutCancel(ctx)
	go func() {
		resp, err := os.manager.Execute(runCtx, req)
		if err != nil {
			os.logger.Error("operation finished with error",
				slog.String("id", req.ID),
				slog.String("error", err.Error()))
			return
		}
		os.logger.Info("operation finished",
			slog.String("id", resp.ID),
			slog.String("status", string(resp.Status)),
			slog.Duration("duration", resp.Duration))
	}()

	return req.ID, nil
}

// ExecuteOperation runs the pipeline synchronously
func (os *OperationService) ExecuteOperation(ctx context.Context, req *operations.OperationRequest) (*operations.OperationResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if err := os.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	resp, err := os.manager.Execute(ctx, req)
	if err != nil {
		return resp, fmt.Errorf("execute operation: %w", err)
	}
	return resp, nil
}

// GetOperationStatus returns the state of a specific operation
func (os *OperationService) GetOperationStatus(ctx context.Context, operationID string) (*operations.OperationState, error) {
	state, err := os.manager.GetOperation(operationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
	}
	return state, nil
}

// ListOperations returns all tracked operations
func (os *OperationService) ListOperations(ctx context.Context) []*operations.OperationState {
	return os.manager.ListOperations()
}

// ListOperationsByStatus returns tracked operations filtered by status
func (os *OperationService) ListOperationsByStatus(ctx context.Context, status operations.OperationStatusValue) []*operations.OperationState {
	var filtered []*operations.OperationState
	for _, state := range os.manager.ListOperations() {
		if state.Status == status {
			filtered = append(filtered, state)
		}
	}
	return filtered
}

// CancelOperation cancels a running operation
func (os *OperationService) CancelOperation(ctx context.Context, operationID string) error {
	if err := os.manager.CancelOperation(operationID); err != nil {
		if operations.GetErrorType(err) == operations.ErrorTypeNotFound {
			return fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
		}
		return err
	}

	os.logger.InfoContext(ctx, "operation cancelled", slog.String("id", operationID))
	return nil
}

// GetOperationMetrics returns per-status operation counts
func (os *OperationService) GetOperationMetrics(ctx context.Context) map[string]int {
	counts := map[string]int{
		string(operations.OperationStatusPending):   0,
		string(operations.OperationStatusRunning):   0,
		string(operations.OperationStatusCompleted): 0,
		string(operations.OperationStatusFailed):    0,
		string(operations.OperationStatusCancelled): 0,
	}
	for _, state := range os.manager.ListOperations() {
		counts[string(state.Status)]++
	}
	return counts
}

// Snapshot returns the broadcaster's view of one operation
func (os *OperationService) Snapshot(operationID string) (*operations.OperationSnapshot, bool) {
	return os.broadcaster.GetSnapshot(operationID)
}
