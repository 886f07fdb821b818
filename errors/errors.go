package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/pos-terminal/services"
)

// Error represents an application error as returned to HTTP clients.
type Error struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

var (
	ErrBadRequest      = New(http.StatusBadRequest, "Bad request", nil)
	ErrNotFound        = New(http.StatusNotFound, "Not found", nil)
	ErrTooManyRequests = New(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
	ErrInternalServer  = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrRequestTimeout  = New(http.StatusGatewayTimeout, "Request timed out", nil)
)

// From converts any error into an *Error. Service rejections keep their
// status code, reason and message; an expired request deadline is a timeout;
// anything else is an internal error.
func From(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	var svcErr *services.ServiceError
	if stderrors.As(err, &svcErr) {
		return &Error{
			Code:    svcErr.StatusCode,
			Reason:  string(svcErr.Reason),
			Message: svcErr.Message,
			Err:     err,
		}
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return New(ErrRequestTimeout.Code, ErrRequestTimeout.Message, err)
	}
	return New(ErrInternalServer.Code, ErrInternalServer.Message, err)
}

// Validation wraps a request binding failure.
func Validation(err error) *Error {
	return New(ErrBadRequest.Code, "Invalid request body", err)
}

// Abort writes err as JSON and stops the handler chain.
func Abort(c *gin.Context, err error) {
	appErr := From(err)
	_ = c.Error(appErr)
	c.AbortWithStatusJSON(appErr.Code, appErr)
}

// ErrorMiddleware renders the last error attached by a handler that did not
// write a response itself.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := From(c.Errors.Last().Err)
		c.JSON(appErr.Code, appErr)
		c.Abort()
	}
}
