package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper removes sessions idle for longer than idle.
type Sweeper interface {
	Sweep(ctx context.Context, idle time.Duration) (int, error)
}

type SessionSweepWorker struct {
	sessions Sweeper
	interval time.Duration
	idle     time.Duration
}

func NewSessionSweepWorker(sessions Sweeper, interval, idle time.Duration) *SessionSweepWorker {
	return &SessionSweepWorker{
		sessions: sessions,
		interval: interval,
		idle:     idle,
	}
}

// Start blocks until ctx is cancelled.
func (w *SessionSweepWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.WithFields(logrus.Fields{
		"interval": w.interval.String(),
		"idle":     w.idle.String(),
	}).Info("Session sweep worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Session sweep worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SessionSweepWorker) sweep(ctx context.Context) int {
	removed, err := w.sessions.Sweep(ctx, w.idle)
	if err != nil {
		logrus.Errorf("Failed to sweep idle sessions: %v", err)
		return removed
	}

	if removed == 0 {
		logrus.Debug("No idle sessions found")
		return 0
	}

	logrus.Infof("Removed %d idle sessions", removed)
	return removed
}
