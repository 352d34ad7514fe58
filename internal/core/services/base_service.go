package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/SscSPs/pos_ledger/internal/platform/metrics"
)

const (
	defaultRetryAttempts = 3
	retryBackoff         = 10 * time.Millisecond
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock         func() time.Time
	location      *time.Location
	retryAttempts int
}

// Option configures the shared parts of a service.
type Option func(*BaseService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(b *BaseService) { b.clock = clock }
}

// WithLocation sets the calendar used for invoice prefixes and report days.
func WithLocation(loc *time.Location) Option {
	return func(b *BaseService) {
		if loc != nil {
			b.location = loc
		}
	}
}

// WithRetryAttempts bounds how often a unit of work is retried after a concurrency conflict.
func WithRetryAttempts(n int) Option {
	return func(b *BaseService) {
		if n > 0 {
			b.retryAttempts = n
		}
	}
}

func newBaseService(opts ...Option) BaseService {
	b := BaseService{
		clock:         time.Now,
		location:      time.Local,
		retryAttempts: defaultRetryAttempts,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (s *BaseService) now() time.Time {
	return s.clock().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// withRetry runs fn until it succeeds, fails with something other than
// apperrors.ErrConcurrency, or the attempts run out.
func (s *BaseService) withRetry(ctx context.Context, operation string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= s.retryAttempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, apperrors.ErrConcurrency) {
			return err
		}
		if attempt == s.retryAttempts {
			break
		}
		metrics.RetryAttempts.WithLabelValues(operation).Inc()
		s.LogDebug(ctx, "Retrying after concurrency conflict",
			slog.String("operation", operation),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
	return err
}
