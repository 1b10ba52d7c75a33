package operations

import (
	"fmt"
)

// ErrorType classifies an operation error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeDependency   ErrorType = "dependency"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeCancellation ErrorType = "cancellation"
	ErrorTypeFatal        ErrorType = "fatal"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeInvalidState ErrorType = "invalid_state"
)

// OperationError is a pipeline-specific error with a step attribution.
type OperationError struct {
	Type      ErrorType              `json:"type"`
	StepID    string                 `json:"step_id,omitempty"`
	Message   string                 `json:"message"`
	Cause     error                  `json:"cause,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Retryable bool                   `json:"retryable"`
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e == nil {
		return "unknown operation error"
	}
	if e.StepID != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.StepID, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewValidationError creates a validation error
func NewValidationError(stepID, message string) *OperationError {
	return &OperationError{
		Type:    ErrorTypeValidation,
		StepID:  stepID,
		Message: message,
	}
}

// NewDependencyError creates a dependency error
func NewDependencyError(stepID, dependsOn, message string) *OperationError {
	return &OperationError{
		Type:    ErrorTypeDependency,
		StepID:  stepID,
		Message: message,
		Context: map[string]interface{}{
			"depends_on": dependsOn,
		},
	}
}

// NewExecutionError creates an execution error
func NewExecutionError(stepID string, cause error, retryable bool) *OperationError {
	return &OperationError{
		Type:      ErrorTypeExecution,
		StepID:    stepID,
		Message:   "step execution failed",
		Cause:     cause,
		Retryable: retryable,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(stepID string, timeout string) *OperationError {
	return &OperationError{
		Type:    ErrorTypeTimeout,
		StepID:  stepID,
		Message: fmt.Sprintf("step exceeded timeout of %s", timeout),
		Context: map[string]interface{}{
			"timeout": timeout,
		},
		Retryable: true,
	}
}

// NewCancellationError creates a cancellation error
func NewCancellationError(stepID string) *OperationError {
	return &OperationError{
		Type:    ErrorTypeCancellation,
		StepID:  stepID,
		Message: "operation was cancelled",
	}
}

// NewFatalError creates a fatal error
func NewFatalError(message string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeFatal,
		Message: message,
		Cause:   cause,
	}
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if opErr, ok := err.(*OperationError); ok {
		return opErr.Retryable
	}
	return false
}

// GetErrorType returns the type of the error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	if opErr, ok := err.(*OperationError); ok {
		return opErr.Type
	}
	return ErrorTypeExecution
}

// WrapError wraps an error with operation context
func WrapError(err error, stepID string, message string) *OperationError {
	if err == nil {
		return nil
	}

	if opErr, ok := err.(*OperationError); ok {
		if opErr.StepID == "" {
			opErr.StepID = stepID
		}
		if message != "" {
			opErr.Message = fmt.Sprintf("%s: %s", message, opErr.Message)
		}
		return opErr
	}

	return &OperationError{
		Type:    ErrorTypeExecution,
		StepID:  stepID,
		Message: message,
		Cause:   err,
	}
}

// Common operation errors
var (
	// ErrOperationNotFound is returned when an operation cannot be found
	ErrOperationNotFound = &OperationError{
		Type:    ErrorTypeNotFound,
		Message: "operation not found",
	}

	// ErrOperationNotRunning is returned when cancelling an operation
	// that already finished
	ErrOperationNotRunning = &OperationError{
		Type:    ErrorTypeInvalidState,
		Message: "operation is not running",
	}
)
