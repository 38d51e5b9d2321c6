// Package notify fans domain messages out to the configured channels.
package notify

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

type Kind string

const (
	KindRSVP     Kind = "rsvp"
	KindReminder Kind = "reminder"
)

type Message struct {
	Kind      Kind
	SessionID string
	Recipient string
	Subject   string
	Body      string
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// LogNotifier writes every message to the log. It is the default channel.
type LogNotifier struct {
	logger logrus.FieldLogger
}

func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	n.logger.WithFields(logrus.Fields{
		"kind":       msg.Kind,
		"session_id": msg.SessionID,
		"recipient":  msg.Recipient,
		"subject":    msg.Subject,
	}).Info(msg.Body)
	return nil
}

// Multi delivers to every notifier and joins the errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
