package errors

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/haierkeys/note-share-service/internal/middleware"
	pkgapp "github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// AppError 统一应用错误结构体
// 包含错误码、消息、详情、追踪ID和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Status 固定为 false
	Status bool `json:"status"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选）
	Details string `json:"details,omitempty"`
	// TraceID 请求追踪ID
	TraceID string `json:"traceId,omitempty"`
	// HTTPStatus 输出的 HTTP 状态码
	HTTPStatus int `json:"-"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap 实现 errors.Unwrap 接口，支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:       c.Code(),
		Message:    c.Msg(),
		Details:    strings.Join(c.Details(), ","),
		HTTPStatus: c.StatusCode(),
		Cause:      cause,
		Timestamp:  time.Now(),
	}
}

// WithTraceID 设置 TraceID 并返回自身（链式调用）
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// ErrorResponse renders err. Codes keep their message, details and HTTP status.
// Anything else becomes a 500 without internal detail.
// ErrorResponse 统一错误响应处理；未知错误返回不含内部细节的 500
func ErrorResponse(c *gin.Context, err error) {
	traceID := middleware.GetTraceIDFromGin(c)

	var appErr *AppError
	if errors.As(err, &appErr) {
		out := *appErr
		out.TraceID = traceID
		out.Cause = nil
		status := out.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.Set("status_code", status)
		c.JSON(status, &out)
		return
	}

	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		response := &AppError{
			Code:      codeErr.Code(),
			Message:   codeErr.MsgFor(pkgapp.GetLang(c)),
			Details:   strings.Join(codeErr.Details(), ","),
			TraceID:   traceID,
			Timestamp: time.Now(),
		}
		c.Set("status_code", codeErr.StatusCode())
		c.JSON(codeErr.StatusCode(), response)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		ErrorResponse(c, code.ErrorRequestTimeout)
		return
	}

	// 未知错误，返回内部错误
	internal := code.ErrorServerInternal
	c.Set("status_code", internal.StatusCode())
	c.JSON(internal.StatusCode(), &AppError{
		Code:      internal.Code(),
		Message:   internal.MsgFor(pkgapp.GetLang(c)),
		TraceID:   traceID,
		Timestamp: time.Now(),
	})
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// CodeOf returns the *code.Code carried by err, or ErrorServerInternal.
// CodeOf 返回错误链中的 Code，没有时返回 ErrorServerInternal
func CodeOf(err error) *code.Code {
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return codeErr
	}
	return code.ErrorServerInternal
}
