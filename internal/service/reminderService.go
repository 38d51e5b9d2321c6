package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ds124wfegd/campus-events/internal/entity"
	"github.com/ds124wfegd/campus-events/internal/session"
	"github.com/ds124wfegd/campus-events/pkg/notify"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const (
	reminderWindowHours = 24

	remindersDisabledMessage = "Email reminders are currently disabled. Enable them in settings above."
	noRemindersMessage       = "No upcoming events with reminders."
	noCancelledMessage       = "No cancelled RSVPs"
	cancelledNote            = "No reminder will be sent (RSVP cancelled)"
)

// ClassifyReminder derives the reminder status of an event starting at
// eventTime as seen at now.
func ClassifyReminder(eventTime, now time.Time) (int, entity.ReminderStatus, string) {
	hours := int(math.Floor(eventTime.Sub(now).Hours()))
	switch {
	case hours <= 0:
		return hours, entity.ReminderSent, "Event has started"
	case hours <= reminderWindowHours:
		return hours, entity.ReminderScheduled, fmt.Sprintf("Reminder in %d hours", hours)
	default:
		return hours, entity.ReminderScheduled, "Reminder 24h before event"
	}
}

type ReminderList struct {
	Enabled   bool              `json:"enabled"`
	Email     string            `json:"email"`
	Reminders []entity.Reminder `json:"reminders"`
	Empty     bool              `json:"empty"`
	Message   string            `json:"message,omitempty"`
}

type CancelledItem struct {
	entity.Event
	Note string `json:"note"`
}

type CancelledList struct {
	Items   []CancelledItem `json:"items"`
	Empty   bool            `json:"empty"`
	Message string          `json:"message,omitempty"`
}

// UpdateSettingsRequest changes only the fields that are set.
type UpdateSettingsRequest struct {
	Enabled *bool   `json:"enabled"`
	Email   *string `json:"email" binding:"omitempty,max=254"`
}

// SendResult reports a simulated send. Reminders keep their classified
// status; sending does not mark them as sent.
type SendResult struct {
	Sent         int                 `json:"sent"`
	Notification entity.Notification `json:"notification"`
	Reminders    []entity.Reminder   `json:"reminders"`
}

type reminderService struct {
	sessions SessionManager
	notifier notify.Notifier
	location *time.Location
	now      func() time.Time
	validate *validator.Validate
}

// NewReminderService classifies event dates as midnight in loc.
func NewReminderService(sessions SessionManager, notifier notify.Notifier, loc *time.Location, now func() time.Time) ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &reminderService{
		sessions: sessions,
		notifier: notifier,
		location: loc,
		now:      now,
		validate: validator.New(),
	}
}

func (s *reminderService) classify(events []entity.Event) []entity.Reminder {
	now := s.now()
	reminders := make([]entity.Reminder, 0, len(events))
	for _, ev := range events {
		hours, status, label := ClassifyReminder(ev.Date.In(s.location), now)
		reminders = append(reminders, entity.Reminder{
			Event:      ev,
			HoursUntil: hours,
			Status:     status,
			Label:      label,
		})
	}
	return reminders
}

func (s *reminderService) List(ctx context.Context, sessionID string) (*ReminderList, error) {
	list := &ReminderList{Reminders: []entity.Reminder{}}
	err := s.sessions.View(ctx, sessionID, func(sess *session.Session) error {
		list.Enabled = sess.Settings.Enabled
		list.Email = sess.Settings.Recipient()

		switch {
		case !sess.Settings.Enabled:
			list.Empty = true
			list.Message = remindersDisabledMessage
		case len(sess.RSVPd) == 0:
			list.Empty = true
			list.Message = noRemindersMessage
		default:
			list.Reminders = s.classify(sess.RSVPd)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *reminderService) Cancelled(ctx context.Context, sessionID string) (*CancelledList, error) {
	list := &CancelledList{Items: []CancelledItem{}}
	err := s.sessions.View(ctx, sessionID, func(sess *session.Session) error {
		for _, ev := range sess.Cancelled {
			list.Items = append(list.Items, CancelledItem{Event: ev, Note: cancelledNote})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(list.Items) == 0 {
		list.Empty = true
		list.Message = noCancelledMessage
	}
	return list, nil
}

func (s *reminderService) UpdateSettings(ctx context.Context, sessionID string, req *UpdateSettingsRequest) (*entity.ReminderSettings, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty settings request", entity.ErrInvalidInput)
	}
	if req.Email != nil && *req.Email != "" {
		if err := s.validate.Var(*req.Email, "email"); err != nil {
			return nil, fmt.Errorf("%w: %q", entity.ErrInvalidEmail, *req.Email)
		}
	}

	var settings entity.ReminderSettings
	err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		if req.Enabled != nil {
			sess.Settings.Enabled = *req.Enabled
		}
		if req.Email != nil {
			sess.Settings.Email = *req.Email
		}
		settings = sess.Settings
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *reminderService) Send(ctx context.Context, sessionID string) (*SendResult, error) {
	var (
		settings entity.ReminderSettings
		rsvpd    []entity.Event
	)
	err := s.sessions.View(ctx, sessionID, func(sess *session.Session) error {
		settings = sess.Settings
		rsvpd = append(rsvpd, sess.RSVPd...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &SendResult{Reminders: []entity.Reminder{}}
	switch {
	case !settings.Enabled:
		result.Notification = entity.Notification{
			Title:   "Reminders Disabled",
			Message: "Please enable email reminders in settings.",
			Type:    entity.NotificationInfo,
		}
		return result, nil
	case len(rsvpd) == 0:
		result.Notification = entity.Notification{
			Title:   "No Events",
			Message: "You have no upcoming events to send reminders for.",
			Type:    entity.NotificationInfo,
		}
		return result, nil
	}

	recipient := settings.Recipient()
	result.Reminders = s.classify(rsvpd)
	result.Sent = len(result.Reminders)
	result.Notification = entity.Notification{
		Title:   "Reminders Sent",
		Message: fmt.Sprintf("%d reminder email(s) sent to %s", result.Sent, recipient),
		Type:    entity.NotificationSuccess,
	}

	for _, r := range result.Reminders {
		msg := notify.Message{
			Kind:      notify.KindReminder,
			SessionID: sessionID,
			Recipient: recipient,
			Subject:   "Reminder: " + r.Event.Title,
			Body: fmt.Sprintf("%s on %s at %s, %s (%s)",
				r.Event.Title, r.Event.Date, r.Event.Time, r.Event.Location, r.Label),
		}
		if s.notifier == nil {
			continue
		}
		if err := s.notifier.Notify(ctx, msg); err != nil {
			logrus.WithFields(logrus.Fields{
				"session_id": sessionID,
				"event_id":   r.Event.ID,
			}).Warnf("Failed to deliver reminder: %v", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"session_id": sessionID,
		"recipient":  recipient,
		"sent":       result.Sent,
	}).Info("Reminders sent")

	return result, nil
}
