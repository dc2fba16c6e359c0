package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler renders the last error pushed with c.Error. Classified
// errors keep their message; anything else is logged and reported as an
// internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		traceID := c.GetString(ContextRequestID)
		lastErr := c.Errors.Last().Err

		resp := ErrorResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "internal server error",
			TraceID: traceID,
		}

		var appErr *apperrors.AppError
		if errors.As(lastErr, &appErr) {
			resp.Code = appErr.StatusCode()
			resp.Message = appErr.Message
			resp.Field = appErr.Field
		}

		event := log.Warn()
		if resp.Code >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Err(lastErr).
			Str("trace_id", traceID).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Str("client_ip", c.ClientIP()).
			Msg("Request error")

		// Streams may already have written their headers.
		if c.Writer.Written() {
			return
		}
		c.JSON(resp.Code, resp)
	}
}
