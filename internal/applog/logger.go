// Package applog provides structured logging with trace ID propagation.
package applog

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ContextKey is the type for context keys carried alongside a request
// or job.
type ContextKey string

const (
	TraceIDKey ContextKey = "trace_id"
	JobIDKey   ContextKey = "job_id"
)

// Logger wraps logrus.Logger with the fields this service always
// attaches: its own name and whatever trace/job ID is in context.
type Logger struct {
	*logrus.Logger
	service string
}

// New creates a Logger for service, with level parsed from a string
// (falling back to info on a bad value) and format one of
// "json"/"text".
func New(service, level, format string) *Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	logger.SetOutput(os.Stdout)

	return &Logger{Logger: logger, service: service}
}

// NewFromEnv builds a Logger from LOG_LEVEL/LOG_FORMAT, defaulting to
// info/json when unset.
func NewFromEnv(service string) *Logger {
	level := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if level == "" {
		level = "info"
	}
	format := strings.TrimSpace(os.Getenv("LOG_FORMAT"))
	if format == "" {
		format = "json"
	}
	return New(service, level, format)
}

// WithContext returns a logrus.Entry carrying the service name plus
// any trace/job ID found in ctx.
func (l *Logger) WithContext(ctx context.Context) *logrus.Entry {
	entry := l.Logger.WithField("service", l.service)
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok && traceID != "" {
		entry = entry.WithField("trace_id", traceID)
	}
	if jobID, ok := ctx.Value(JobIDKey).(string); ok && jobID != "" {
		entry = entry.WithField("job_id", jobID)
	}
	return entry
}

// WithFields returns a logrus.Entry carrying the service name plus the
// given fields.
func (l *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["service"] = l.service
	return l.Logger.WithFields(fields)
}

// WithTraceID adds a trace ID to ctx.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// TraceID retrieves the trace ID from ctx, if any.
func TraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithJobID adds a bulk job ID to ctx.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, JobIDKey, jobID)
}

// LogHTTPRequest logs one served HTTP request.
func (l *Logger) LogHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	l.WithContext(ctx).WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
	}).Info("http request")
}

// LogJobTransition logs a bulk job status transition.
func (l *Logger) LogJobTransition(ctx context.Context, jobID, from, to string) {
	l.WithContext(ctx).WithFields(logrus.Fields{
		"job_id": jobID,
		"from":   from,
		"to":     to,
	}).Info("job transition")
}

// LogJobProgress logs a chunk boundary within a running bulk job.
func (l *Logger) LogJobProgress(ctx context.Context, jobID string, processed, total, matched int) {
	l.WithContext(ctx).WithFields(logrus.Fields{
		"job_id":    jobID,
		"processed": processed,
		"total":     total,
		"matched":   matched,
	}).Info("job progress")
}

// LogParseError logs a skipped malformed NDJSON line.
func (l *Logger) LogParseError(ctx context.Context, jobID string, line int, err error) {
	l.WithContext(ctx).WithFields(logrus.Fields{
		"job_id": jobID,
		"line":   line,
		"error":  err.Error(),
	}).Warn("malformed record, skipping")
}

// LogScoringError logs a recovered scoring failure for a single item.
func (l *Logger) LogScoringError(ctx context.Context, jobID, requestID string, err error) {
	l.WithContext(ctx).WithFields(logrus.Fields{
		"job_id":     jobID,
		"request_id": requestID,
		"error":      err.Error(),
	}).Warn("scoring error, treating item as zero matches")
}

// LogJobFailure logs a job's transition to FAILED with its cause.
func (l *Logger) LogJobFailure(ctx context.Context, jobID string, err error) {
	l.WithContext(ctx).WithFields(logrus.Fields{
		"job_id": jobID,
	}).WithError(err).Error("job failed")
}

var defaultLogger *Logger

// InitDefault sets the package-level default logger.
func InitDefault(service, level, format string) {
	defaultLogger = New(service, level, format)
}

// Default returns the package-level logger, lazily constructing a
// fallback if InitDefault was never called.
func Default() *Logger {
	if defaultLogger == nil {
		defaultLogger = New("screening-engine", "info", "json")
	}
	return defaultLogger
}
