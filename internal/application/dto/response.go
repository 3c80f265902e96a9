// Package dto defines the request/response shapes of the HTTP API.
package dto

import (
	"fmt"
	"time"

	"github.com/turtacn/jalak-hijau/pkg/errors"
)

// APIResponse is the envelope for every API response.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorDTO   `json:"error,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// ErrorDTO carries a machine-readable error to the client.
type ErrorDTO struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// PaginationResponse is the paging metadata attached to list responses.
type PaginationResponse struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// SuccessResponse wraps data in a success envelope.
func SuccessResponse(data interface{}, traceID string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// ErrorResponse wraps an error in a failure envelope. Application errors keep
// their code; everything else is reported as internal.
func ErrorResponse(err error, traceID string) *APIResponse {
	var errorDTO *ErrorDTO
	if appErr, ok := errors.As(err); ok {
		var details map[string]string
		if md := appErr.Metadata(); len(md) > 0 {
			details = make(map[string]string, len(md))
			for k, v := range md {
				details[k] = fmt.Sprintf("%v", v)
			}
		}
		errorDTO = &ErrorDTO{
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Details: details,
		}
	} else {
		errorDTO = &ErrorDTO{
			Code:    string(errors.CodeInternal),
			Message: "internal server error",
		}
	}
	return &APIResponse{
		Success:   false,
		Error:     errorDTO,
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}
