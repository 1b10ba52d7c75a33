package http

import (
	"context"

	"pitchpulse/internal/operations"
)

// OperationServiceInterface defines the pipeline control surface the
// operations handler needs.
type OperationServiceInterface interface {
	StartOperation(ctx context.Context, req *operations.OperationRequest) (string, error)
	GetOperationStatus(ctx context.Context, operationID string) (*operations.OperationState, error)
	CancelOperation(ctx context.Context, operationID string) error
	ListOperations(ctx context.Context) []*operations.OperationState
	ListOperationsByStatus(ctx context.Context, status operations.OperationStatusValue) []*operations.OperationState
	GetOperationMetrics(ctx context.Context) map[string]int
}
