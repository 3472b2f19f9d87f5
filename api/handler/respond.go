package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/shopsight/models"
)

// respondError logs the classified failure and writes an error envelope.
// Only the supplemental endpoints surface errors this way; the analyze
// endpoint collapses failures into the uniform negative result instead.
func respondError(c *gin.Context, err error, message string) {
	code := models.ErrorCode(err)
	slog.Error("request failed",
		"code", code,
		"path", c.FullPath(),
		"error", err,
	)
	c.JSON(mapErrorToStatus(code), models.ErrorResponse{
		Message: message,
		Error:   err.Error(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(code string) int {
	switch code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation, models.ErrCodeEmptyHTML,
		models.ErrCodeExtraction, models.ErrCodeExtractionAuth:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}
