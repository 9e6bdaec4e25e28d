// Package scheduler provides the cron trigger for the daily export job.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// cronTickerInterval is the interval at which the cron trigger checks for execution
const cronTickerInterval = 1 * time.Minute

var (
	// ErrInvalidConfig indicates an invalid scheduler configuration
	ErrInvalidConfig = errors.New("scheduler: invalid configuration")
	// ErrSchedulerNotRunning indicates the scheduler has not been started
	ErrSchedulerNotRunning = errors.New("scheduler: not running")
)

// JobRunner executes a single export run
type JobRunner interface {
	Run(ctx context.Context) (string, error)
}

// ExportCronConfig holds configuration for the cron-based export trigger
type ExportCronConfig struct {
	// Enabled indicates if the cron trigger is enabled
	Enabled bool
	// DailyCronSchedule is the cron expression (parsed to extract hour/minute)
	DailyCronSchedule string
	// JobTimeout is the maximum time a single export run can take
	JobTimeout time.Duration
}

// DefaultExportCronConfig returns the default trigger configuration.
// Defaults to running at 2:00 AM daily.
func DefaultExportCronConfig() ExportCronConfig {
	return ExportCronConfig{
		Enabled:           true,
		DailyCronSchedule: "0 2 * * *",
		JobTimeout:        10 * time.Minute,
	}
}

// ParseCronSchedule parses a cron expression "minute hour * * *" to extract hour and minute.
// Returns defaults (2:00) if parsing fails or expression is empty.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	hour = 2
	minute = 0

	if cronExpr == "" {
		return hour, minute, nil
	}

	parts := strings.Fields(cronExpr)
	if len(parts) < 2 {
		return hour, minute, nil
	}

	if parts[0] != "*" {
		if val, parseErr := parseIntOrDefault(parts[0], 0); parseErr == nil {
			minute = val
		}
	}
	if parts[1] != "*" {
		if val, parseErr := parseIntOrDefault(parts[1], 2); parseErr == nil {
			hour = val
		}
	}

	if minute < 0 || minute > 59 {
		return 2, 0, fmt.Errorf("minute must be 0-59, got %d", minute)
	}
	if hour < 0 || hour > 23 {
		return 2, 0, fmt.Errorf("hour must be 0-23, got %d", hour)
	}

	return hour, minute, nil
}

// parseIntOrDefault parses an int string or returns default
func parseIntOrDefault(s string, defaultVal int) (int, error) {
	if s == "" || s == "*" {
		return defaultVal, nil
	}
	var val int
	for _, c := range s {
		if c < '0' || c > '9' {
			return defaultVal, ErrInvalidConfig
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// ExportCronScheduler fires the export job once a day at the configured time
type ExportCronScheduler struct {
	config     ExportCronConfig
	runner     JobRunner
	logger     *zap.Logger
	cronHour   int
	cronMinute int

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewExportCronScheduler creates a new cron-based export trigger
func NewExportCronScheduler(config ExportCronConfig, runner JobRunner, logger *zap.Logger) (*ExportCronScheduler, error) {
	hour, minute, err := ParseCronSchedule(config.DailyCronSchedule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultExportCronConfig().JobTimeout
	}

	return &ExportCronScheduler{
		config:     config,
		runner:     runner,
		logger:     logger,
		cronHour:   hour,
		cronMinute: minute,
	}, nil
}

// Start starts the cron trigger
func (s *ExportCronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Export cron scheduler started",
		zap.Int("cron_hour", s.cronHour),
		zap.Int("cron_minute", s.cronMinute),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	return nil
}

// Stop stops the cron trigger and waits for an in-flight run to finish
func (s *ExportCronScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Export cron scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Export cron scheduler stop timed out")
		return ctx.Err()
	}
}

// cronLoop runs the main cron loop
func (s *ExportCronScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.runExport(ctx)
				s.calculateNextRunTime()
			}
		}
	}
}

// shouldRun checks if the trigger should fire at the given time
func (s *ExportCronScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.cronHour && now.Minute() == s.cronMinute
}

// calculateNextRunTime calculates the next run time
func (s *ExportCronScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.cronHour, s.cronMinute, 0, 0, now.Location())

	// If we've already passed today's run time, schedule for tomorrow
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// runExport executes a single export run under the configured timeout
func (s *ExportCronScheduler) runExport(ctx context.Context) {
	started := time.Now()
	s.mu.Lock()
	s.lastRunAt = &started
	s.mu.Unlock()

	s.logger.Info("Starting scheduled export run")

	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	message, err := s.runner.Run(runCtx)
	if err != nil {
		s.logger.Error("Scheduled export run failed",
			zap.Duration("duration", time.Since(started)),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Scheduled export run completed",
		zap.Duration("duration", time.Since(started)),
		zap.String("result", message),
	)
}

// TriggerManualRun triggers an export run outside the daily schedule.
// The run uses a background context so it outlives the caller.
func (s *ExportCronScheduler) TriggerManualRun() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runExport(context.Background())
	return nil
}

// GetStatus returns the current status of the cron trigger
func (s *ExportCronScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":     s.config.Enabled,
		"is_running":  s.isRunning,
		"cron_hour":   s.cronHour,
		"cron_minute": s.cronMinute,
		"last_run_at": s.lastRunAt,
		"next_run_at": s.nextRunAt,
	}
}

// GetNextRunAt returns when the next scheduled run will occur
func (s *ExportCronScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}
