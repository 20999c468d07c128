// Package logger provides API request logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// APILogger provides dedicated logging for GraphQL requests.
type APILogger struct {
	*logrus.Entry
}

// NewAPILogger creates a new API logger.
func NewAPILogger(baseLogger *logrus.Logger) *APILogger {
	return &APILogger{
		Entry: baseLogger.WithField("component", "api"),
	}
}

// LogRequest logs a completed GraphQL request.
func (l *APILogger) LogRequest(operation, requestID string, status int, durationMs float64, cached bool) {
	l.WithFields(logrus.Fields{
		"operation":   operation,
		"request_id":  requestID,
		"status":      status,
		"duration_ms": durationMs,
		"cached":      cached,
	}).Debug("GraphQL request completed")
}

// LogRequestError logs a failed GraphQL request.
func (l *APILogger) LogRequestError(operation, requestID string, err error) {
	l.WithFields(logrus.Fields{
		"operation":  operation,
		"request_id": requestID,
	}).WithError(err).Warn("GraphQL request failed")
}

// LogCacheInvalidation logs explicit invalidation of cached queries.
func (l *APILogger) LogCacheInvalidation(operations []string, reason string) {
	l.WithFields(logrus.Fields{
		"operations": operations,
		"reason":     reason,
	}).Debug("Query cache invalidated")
}
