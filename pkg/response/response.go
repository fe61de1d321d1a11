package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/prefixid/pkg/log"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorInfo contains error details. Code is stable and meant for clients;
// Message is for humans.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Generic error codes. Identifier rejections use their taxonomy code instead.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeInternal     = "INTERNAL_ERROR"
)

// Success sends a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope(c, data, nil))
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope(c, data, nil))
}

// Error aborts the request with an error envelope. The code is also left on
// the gin context so the request log carries it.
func Error(c *gin.Context, statusCode int, code, message string) {
	c.Set(log.FieldErrorCode, code)
	c.AbortWithStatusJSON(statusCode, envelope(c, nil, &ErrorInfo{Code: code, Message: message}))
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, CodeForbidden, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, CodeInternal, message)
}

// ServiceUnavailable sends a 503 for a dependency that may recover, such as
// a payload source.
func ServiceUnavailable(c *gin.Context, code, message string) {
	Error(c, http.StatusServiceUnavailable, code, message)
}

func envelope(c *gin.Context, data interface{}, errInfo *ErrorInfo) Response {
	return Response{
		Success:   errInfo == nil,
		Data:      data,
		Error:     errInfo,
		RequestID: c.GetString(log.FieldRequestID),
	}
}
