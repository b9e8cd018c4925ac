package common

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies pipeline failures. Only InputError, EngineUnavailable and
// QuotaExceeded ever reach a caller; the rest are logged and replaced with a default.
type Kind string

const (
	KindInput                  Kind = "INPUT_ERROR"
	KindEngineUnavailable      Kind = "ENGINE_UNAVAILABLE"
	KindQuotaExceeded          Kind = "EXTERNAL_GENERATION_QUOTA_EXCEEDED"
	KindStyleInferenceDegraded Kind = "STYLE_INFERENCE_DEGRADED"
	KindRenderResourceMissing  Kind = "RENDER_RESOURCE_MISSING"
	KindNotFound               Kind = "NOT_FOUND"
	KindInternal               Kind = "INTERNAL"
)

// AppError represents application-specific errors
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// GRPCStatus lets status.FromError and status.Code understand AppError.
// Only the code is exposed; the message and cause stay in the server log.
func (e *AppError) GRPCStatus() *status.Status {
	code := e.Kind.grpcCode()
	return status.New(code, code.String())
}

// Surfaced reports whether errors of this kind are returned to the caller.
func (k Kind) Surfaced() bool {
	switch k {
	case KindInput, KindEngineUnavailable, KindQuotaExceeded, KindNotFound:
		return true
	default:
		return false
	}
}

func (k Kind) grpcCode() codes.Code {
	switch k {
	case KindInput:
		return codes.InvalidArgument
	case KindEngineUnavailable:
		return codes.Unavailable
	case KindQuotaExceeded:
		return codes.ResourceExhausted
	case KindNotFound:
		return codes.NotFound
	default:
		return codes.Internal
	}
}

func (k Kind) httpStatus() int {
	switch k {
	case KindInput:
		return http.StatusBadRequest
	case KindEngineUnavailable:
		return http.StatusServiceUnavailable
	case KindQuotaExceeded:
		return http.StatusTooManyRequests
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func NewAppError(kind Kind, message string, cause error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

func InputErrorf(format string, args ...any) error {
	return NewAppError(KindInput, fmt.Sprintf(format, args...), nil)
}

func InputError(message string, cause error) error {
	return NewAppError(KindInput, message, cause)
}

func EngineUnavailable(message string, cause error) error {
	return NewAppError(KindEngineUnavailable, message, cause)
}

func QuotaExceeded(message string, cause error) error {
	return NewAppError(KindQuotaExceeded, message, cause)
}

func NotFound(message string) error {
	return NewAppError(KindNotFound, message, nil)
}

func StyleInferenceDegraded(cause error) error {
	return NewAppError(KindStyleInferenceDegraded, "style inference replaced with defaults", cause)
}

func RenderResourceMissing(message string, cause error) error {
	return NewAppError(KindRenderResourceMissing, message, cause)
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// GRPCError converts err into the status error returned by RPC handlers.
// Kinds that are not surfaced become Internal.
func GRPCError(err error) error {
	kind := KindOf(err)
	if !kind.Surfaced() {
		kind = KindInternal
	}
	code := kind.grpcCode()
	return status.Error(code, code.String())
}

// HTTPStatus maps err to the status code of a REST response.
func HTTPStatus(err error) int {
	kind := KindOf(err)
	if !kind.Surfaced() {
		return http.StatusInternalServerError
	}
	return kind.httpStatus()
}

// PublicMessage is the message shown to REST callers. Internal details are never exposed.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind.Surfaced() {
		return appErr.Message
	}
	return "internal error"
}
