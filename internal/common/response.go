package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "requestID"

// APIResponse is the JSON envelope returned by every endpoint.
type APIResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError contains error details in the response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Success writes data inside a successful envelope.
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, APIResponse{
		Success:   true,
		Data:      data,
		RequestID: c.GetString(RequestIDKey),
	})
}

// Error writes a failed envelope carrying message.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Error: &APIError{
			Code:    statusCode,
			Message: message,
		},
		RequestID: c.GetString(RequestIDKey),
	})
}

// Abort writes a failed envelope and stops the handler chain.
func Abort(c *gin.Context, statusCode int, message string) {
	Error(c, statusCode, message)
	c.Abort()
}

// HandleError maps err to a status code and writes the failed envelope.
func HandleError(c *gin.Context, err error) {
	status, message := StatusOf(err)
	Error(c, status, message)
}

// StatusOf returns the HTTP status and client-facing message for err.
// Wrapped errors are matched through the whole chain. Provider and unknown
// errors get a generic message so upstream details are not leaked.
func StatusOf(err error) (int, string) {
	var (
		notFound    *NotFoundError
		validation  *ValidationError
		limited     *RateLimitError
		unavailable *UnavailableError
		provider    *ProviderError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case errors.As(err, &limited):
		return http.StatusTooManyRequests, limited.Error()
	case errors.As(err, &unavailable):
		return http.StatusNotImplemented, unavailable.Error()
	case errors.As(err, &provider):
		return http.StatusBadGateway, "email delivery failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
