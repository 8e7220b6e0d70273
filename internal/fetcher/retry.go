package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/brlaws/leiscache/internal/law"
	"github.com/brlaws/leiscache/internal/metrics"
)

// BackoffFunc returns how long to wait before retry number attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// LinearBackoff waits attempt × base, so the delay grows with each retry.
func LinearBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * base
	}
}

// Retry decorates a law.Fetcher with a bounded retry budget. Transient
// network failures and 5xx responses are retried; everything else fails
// immediately. Backoff sleeps respect the context.
type Retry struct {
	next       law.Fetcher
	maxRetries int
	backoff    BackoffFunc
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *zap.Logger
}

// NewRetry builds a Retry around next. maxRetries counts attempts beyond
// the initial one.
func NewRetry(next law.Fetcher, maxRetries int, backoff BackoffFunc, logger *zap.Logger) *Retry {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	return &Retry{
		next:       next,
		maxRetries: maxRetries,
		backoff:    backoff,
		sleep:      sleepContext,
		logger:     logger,
	}
}

// Fetch attempts the wrapped fetch, retrying on transient failures.
func (r *Retry) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			delay := r.backoff(attempt)
			r.logger.Warn("retrying fetch",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			metrics.ObserveFetchRetry(url)
			if err := r.sleep(ctx, delay); err != nil {
				return "", fmt.Errorf("retry wait: %w", err)
			}
		}
		text, err := r.next.Fetch(ctx, url)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("fetch %s: retries exhausted: %w", url, lastErr)
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	// Timeouts, connection resets and DNS failures all surface as net.Error
	// (url.Error, *net.OpError, *net.DNSError).
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
