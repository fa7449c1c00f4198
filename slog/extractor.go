// Package slog provides logging decorators for distill interfaces.
package slog

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/distillhq/distill"
)

// Ensure LoggingExtractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with structured logging. Each call is
// tagged with a generated request id so concurrent extractions can be told
// apart in the logs.
type LoggingExtractor struct {
	next   distill.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next distill.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(rawHTML string, pageURL string, opts distill.Options) (*distill.ArticleResult, error) {
	requestID := uuid.NewString()
	begin := time.Now()

	result, err := e.next.Extract(rawHTML, pageURL, opts)
	if err != nil {
		e.logger.Error("extraction failed",
			"request_id", requestID,
			"url", pageURL,
			"duration", time.Since(begin),
			"error", distill.ErrorMessage(err),
		)
		return nil, err
	}

	e.logger.Info("extraction",
		"request_id", requestID,
		"url", pageURL,
		"duration", time.Since(begin),
		"success", result.Success,
		"words", result.WordCount,
		"warnings", len(result.Warnings),
	)
	return result, nil
}
