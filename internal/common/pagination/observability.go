package pagination

import (
	"log/slog"
	"time"
)

// LogRequest logs a listing request with structured fields.
func LogRequest(logger *slog.Logger, requestID string, req Request) {
	logger.Info("Listing request",
		"request_id", requestID,
		"page", req.Page,
		"search", req.Search,
		"tag", req.Tag)
}

// LogResponse logs the outcome of a listing request.
func LogResponse(logger *slog.Logger, requestID string, req Request, status string, returnedCount int, duration time.Duration) {
	logger.Info("Listing response",
		"request_id", requestID,
		"page", req.Page,
		"status", status,
		"returned_count", returnedCount,
		"duration_ms", duration.Milliseconds())
}

// LogError logs a listing failure with structured fields.
func LogError(logger *slog.Logger, requestID string, req Request, err error, errorType string) {
	logger.Error("Listing error",
		"request_id", requestID,
		"page", req.Page,
		"search", req.Search,
		"tag", req.Tag,
		"error", err.Error(),
		"error_type", errorType)
}
