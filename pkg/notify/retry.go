package notify

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
)

// Retrying repeats failed deliveries with exponential backoff and jitter.
// Errors that report Temporary() == false are not retried.
type Retrying struct {
	next       Notifier
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewRetrying(next Notifier, maxRetries int, baseDelay time.Duration) *Retrying {
	return &Retrying{
		next:       next,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   baseDelay * 16,
	}
}

func (r *Retrying) Notify(ctx context.Context, msg Message) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = r.next.Notify(ctx, msg); err == nil {
			return nil
		}
		if attempt >= r.maxRetries || !retryable(err) {
			return err
		}

		delay := r.backoff(attempt)
		logrus.WithFields(logrus.Fields{
			"kind":    msg.Kind,
			"attempt": attempt + 1,
			"delay":   delay.String(),
		}).Warnf("Notification failed, retrying: %v", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) {
		return temp.Temporary()
	}
	return true
}

// backoff is base * 2^attempt, +-25% jitter, capped at maxDelay.
func (r *Retrying) backoff(attempt int) time.Duration {
	if r.baseDelay <= 0 {
		return 0
	}

	d := r.baseDelay << attempt
	if d <= 0 || d > r.maxDelay {
		d = r.maxDelay
	}
	if quarter := int64(d / 4); quarter > 0 {
		d += time.Duration(rand.Int64N(2*quarter) - quarter)
	}
	if d > r.maxDelay {
		d = r.maxDelay
	}
	return d
}
