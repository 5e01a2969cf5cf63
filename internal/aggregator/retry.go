package aggregator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/travelsearch/internal/providers"
)

func withRetry[T any](ctx context.Context, a *Aggregator, endpoint string, call func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		if attempt > 0 && len(a.config.RetryDelays) > 0 {
			delayIdx := attempt - 1
			if delayIdx >= len(a.config.RetryDelays) {
				delayIdx = len(a.config.RetryDelays) - 1
			}
			delay := a.config.RetryDelays[delayIdx]

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := call(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !providers.IsRetryable(err) {
			return zero, err
		}

		a.log.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"attempt":  attempt + 1,
			"error":    err.Error(),
		}).Warn("upstream attempt failed")
	}

	return zero, lastErr
}
