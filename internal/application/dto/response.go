// Package dto holds the request and response shapes exchanged at the service boundary.
package dto

import (
	"time"

	"github.com/turtacn/pslrisk/pkg/errors"
)

// APIResponse 通用 API 响应结构
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorDTO   `json:"error,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// ErrorDTO 错误信息 DTO
type ErrorDTO struct {
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Description string                 `json:"description,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// SuccessResponse 创建成功响应
func SuccessResponse(data interface{}, traceID string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// ErrorResponse 创建错误响应。非 ServiceError 统一转换为 server_error 并保留原始消息。
func ErrorResponse(err error, traceID string) *APIResponse {
	resp := errors.ToGenericErrorResponse(err)
	return &APIResponse{
		Success: false,
		Error: &ErrorDTO{
			Code:        resp.Error,
			Message:     resp.Message,
			Description: resp.ErrorDescription,
			Details:     resp.Metadata,
		},
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// MessageResponse is the body of acknowledgement-only operations.
type MessageResponse struct {
	Message string `json:"message"`
}

//Personal.AI order the ending
