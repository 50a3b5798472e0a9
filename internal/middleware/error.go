package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/mealmatch/backend/internal/matching"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error codes rendered in ErrorResponse.Error
const (
	CodeValidation       = "validation_error"
	CodeInsufficientData = "insufficient_data"
	CodeModelNotTrained  = "model_not_trained"
	CodeNotFound         = "not_found"
	CodeInternal         = "internal_error"
)

// Classify maps an error to its HTTP status and error code
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, matching.ErrInvalidInput):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, matching.ErrInsufficientData):
		return http.StatusBadRequest, CodeInsufficientData
	case errors.Is(err, matching.ErrModelNotTrained):
		return http.StatusServiceUnavailable, CodeModelNotTrained
	case errors.Is(err, matching.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Internal errors are logged and replaced by a generic message.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, code := Classify(err)
		resp := ErrorResponse{Error: code, Message: err.Error()}

		var verr *matching.ValidationError
		if errors.As(err, &verr) {
			resp.Field = verr.Field
			resp.Message = verr.Message
		}

		if status == http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err))
			resp.Message = "Internal Server Error"
		}

		c.JSON(status, resp)
	}
}
