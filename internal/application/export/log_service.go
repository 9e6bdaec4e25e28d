// Package export contains the application services of the data exporter:
// the run logger that derives and persists per-run log records, and the job
// service that orchestrates fetch, mapping, upload and logging.
package export

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// logContainer is the logical custom-object container all run logs are
// written to.
const logContainer = "cron-job-log"

// Run log statuses
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// logTimestampLayout renders run-log timestamps as ISO-8601 with
// millisecond precision.
const logTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// now is the clock used for log timestamps and keys; replaced in tests.
var now = time.Now

// ProcessLogData is the structured record persisted for each job run.
type ProcessLogData struct {
	Timestamp string            `json:"timestamp"`
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Details   ProcessLogDetails `json:"details"`
}

// ProcessLogDetails carries the run metrics. TotalOrdersProcessed is only
// present when every upload succeeded; the field is omitted entirely
// otherwise.
type ProcessLogDetails struct {
	DurationInMilliseconds int64 `json:"durationInMilliseconds"`
	TotalOrdersProcessed   *int  `json:"totalOrdersProcessed,omitempty"`
}

// LogSink persists run-log records in an external store.
type LogSink interface {
	WriteRunLog(ctx context.Context, container, key string, value any) error
}

// PrepareLogData derives a run-log record from the upload outcome flags.
// Status is "success" iff every flag is true. Duration is always included;
// the processed-order count only on full success.
func PrepareLogData(message string, totalOrdersProcessed int, startTime time.Time, uploadOK ...bool) ProcessLogData {
	allOK := true
	for _, ok := range uploadOK {
		if !ok {
			allOK = false
			break
		}
	}

	current := now()
	data := ProcessLogData{
		Timestamp: current.UTC().Format(logTimestampLayout),
		Status:    StatusFailed,
		Message:   message,
		Details: ProcessLogDetails{
			DurationInMilliseconds: current.Sub(startTime).Milliseconds(),
		},
	}

	if allOK {
		data.Status = StatusSuccess
		data.Details.TotalOrdersProcessed = &totalOrdersProcessed
	}

	return data
}

// RunLogger persists run-log records through a LogSink.
type RunLogger struct {
	sink   LogSink
	logger *zap.Logger
}

// NewRunLogger creates a RunLogger writing to the given sink.
func NewRunLogger(sink LogSink, logger *zap.Logger) *RunLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunLogger{sink: sink, logger: logger}
}

// Write derives the log record and persists it under a generated
// cron-log-<epoch-millis> key. Sink failures propagate unmodified.
func (l *RunLogger) Write(ctx context.Context, message string, totalOrdersProcessed int, startTime time.Time, uploadOK ...bool) error {
	data := PrepareLogData(message, totalOrdersProcessed, startTime, uploadOK...)
	key := fmt.Sprintf("cron-log-%d", now().UnixMilli())

	l.logger.Debug("Persisting run log",
		zap.String("container", logContainer),
		zap.String("key", key),
		zap.String("status", data.Status),
	)

	return l.sink.WriteRunLog(ctx, logContainer, key, data)
}
