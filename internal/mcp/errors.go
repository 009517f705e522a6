package mcp

import (
	"errors"
	"fmt"

	"github.com/gepes/criagil/internal/domain/activity"
	"github.com/gepes/criagil/internal/domain/demand"
	"github.com/gepes/criagil/internal/domain/project"
	"github.com/gepes/criagil/internal/domain/user"
)

// Error codes carried by APIError.
const (
	CodeDemandNotFound  = "DEMAND_NOT_FOUND"
	CodeProjectNotFound = "PROJECT_NOT_FOUND"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeInvalidStatus   = "INVALID_STATUS"
	CodeInvalidParams   = "INVALID_PARAMS"
	CodeMethodNotFound  = "METHOD_NOT_FOUND"
)

var (
	// ErrInvalidParams indicates arguments that could not be decoded.
	ErrInvalidParams = errors.New("invalid params")
	// ErrUnknownMethod indicates a method outside the tool catalog.
	ErrUnknownMethod = errors.New("unknown method")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, demand.ErrDemandNotFound):
		return &APIError{Code: CodeDemandNotFound, Message: err.Error(), RecoveryHint: "Call board_view to list demand IDs"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: CodeProjectNotFound, Message: err.Error(), RecoveryHint: "Call list_projects to list project IDs"}
	case errors.Is(err, user.ErrUserNotFound):
		return &APIError{Code: CodeUserNotFound, Message: err.Error(), RecoveryHint: "Call list_users to list assignee IDs"}
	case errors.Is(err, demand.ErrInvalidStatus):
		return &APIError{Code: CodeInvalidStatus, Message: err.Error(), Details: demand.Statuses, RecoveryHint: "Use one of the six board columns"}
	case errors.Is(err, demand.ErrInvalidInput),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: CodeInvalidInput, Message: err.Error(), RecoveryHint: "Fix the listed field and retry"}
	case errors.Is(err, ErrInvalidParams):
		return &APIError{Code: CodeInvalidParams, Message: err.Error(), RecoveryHint: "Check argument names and types against the tool schema"}
	case errors.Is(err, ErrUnknownMethod):
		return &APIError{Code: CodeMethodNotFound, Message: err.Error(), RecoveryHint: "Call tools/list for available tools"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
