package service

import (
	"context"
	"fmt"

	"github.com/ds124wfegd/campus-events/internal/entity"
	"github.com/ds124wfegd/campus-events/internal/session"
	"github.com/ds124wfegd/campus-events/pkg/notify"

	"github.com/sirupsen/logrus"
)

// RSVPCard is one event as the RSVP view shows it.
type RSVPCard struct {
	entity.RSVPEvent
	State  entity.RSVPState  `json:"state"`
	Button entity.RSVPButton `json:"button"`
	// SpotsLeft is only shown for open events the session has not joined.
	SpotsLeft *int `json:"spots_left,omitempty"`
}

type RSVPList struct {
	Cards   []RSVPCard `json:"cards"`
	Total   int        `json:"total"`
	Empty   bool       `json:"empty"`
	Message string     `json:"message,omitempty"`
}

// ToggleResult describes one RSVP toggle. Applied is false when a join was
// refused because the event is full; nothing changed in that case.
type ToggleResult struct {
	EventID      int64               `json:"event_id"`
	Applied      bool                `json:"applied"`
	State        entity.RSVPState    `json:"state"`
	Card         RSVPCard            `json:"card"`
	Notification entity.Notification `json:"notification"`
}

type rsvpService struct {
	sessions SessionManager
	notifier notify.Notifier
}

func NewRSVPService(sessions SessionManager, notifier notify.Notifier) RSVPService {
	return &rsvpService{sessions: sessions, notifier: notifier}
}

func cardFor(s *session.Session, ev *entity.RSVPEvent) RSVPCard {
	state := s.State(ev.ID)
	card := RSVPCard{
		RSVPEvent: *ev,
		State:     state,
		Button:    entity.ButtonFor(state, ev.IsFull()),
	}
	if state == entity.RSVPStateNotJoined && !ev.IsFull() {
		spots := ev.SpotsLeft()
		card.SpotsLeft = &spots
	}
	return card
}

// ListEvents always orders by date ascending; the sort control is ignored in
// this view.
func (s *rsvpService) ListEvents(ctx context.Context, sessionID string, query EventQuery) (*RSVPList, error) {
	category, err := entity.ParseCategory(string(query.Category))
	if err != nil {
		return nil, err
	}
	query.Category = category
	query.Sort = SortDateAsc

	list := &RSVPList{}
	err = s.sessions.View(ctx, sessionID, func(sess *session.Session) error {
		for _, ev := range filterRSVPEvents(sess.Events, query) {
			list.Cards = append(list.Cards, cardFor(sess, ev))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	list.Total = len(list.Cards)
	if list.Total == 0 {
		list.Cards = []RSVPCard{}
		list.Empty = true
		list.Message = EmptyListMessage
	}
	return list, nil
}

func (s *rsvpService) Toggle(ctx context.Context, sessionID string, eventID int64) (*ToggleResult, error) {
	var result *ToggleResult
	err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		ev := sess.FindEvent(eventID)
		if ev == nil {
			return fmt.Errorf("%w: %d", entity.ErrEventNotFound, eventID)
		}
		result = toggle(sess, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"session_id": sessionID,
		"event_id":   eventID,
		"applied":    result.Applied,
		"state":      result.State,
		"rsvp_count": result.Card.RSVPCount,
	}).Info("RSVP toggled")

	if result.Applied && s.notifier != nil {
		msg := notify.Message{
			Kind:      notify.KindRSVP,
			SessionID: sessionID,
			Subject:   result.Notification.Title,
			Body:      result.Notification.Message,
		}
		if err := s.notifier.Notify(ctx, msg); err != nil {
			logrus.WithField("session_id", sessionID).Warnf("Failed to deliver RSVP notification: %v", err)
		}
	}

	return result, nil
}

// toggle applies NOT_JOINED <-> JOINED. A join never takes rsvpCount past
// capacity, and rsvpCount moves together with the membership set.
func toggle(sess *session.Session, ev *entity.RSVPEvent) *ToggleResult {
	result := &ToggleResult{EventID: ev.ID}

	switch {
	case sess.IsMember(ev.ID):
		ev.RSVPCount--
		sess.RemoveMember(ev.ID)
		result.Applied = true
		result.Notification = entity.Notification{
			Title:   "RSVP Cancelled",
			Message: fmt.Sprintf("You are no longer registered for %s.", ev.Title),
			Type:    entity.NotificationInfo,
		}
	case ev.IsFull():
		result.Notification = entity.Notification{
			Title:   "Event Full",
			Message: fmt.Sprintf("Sorry, %s has reached capacity.", ev.Title),
			Type:    entity.NotificationError,
		}
	default:
		ev.RSVPCount++
		sess.AddMember(ev.ID)
		result.Applied = true
		result.Notification = entity.Notification{
			Title:   "RSVP Confirmed! ⚡",
			Message: fmt.Sprintf("You're registered for %s. Check your email for reminders!", ev.Title),
			Type:    entity.NotificationSuccess,
		}
	}

	result.State = sess.State(ev.ID)
	result.Card = cardFor(sess, ev)
	return result
}

func (s *rsvpService) Memberships(ctx context.Context, sessionID string) ([]int64, error) {
	var ids []int64
	err := s.sessions.View(ctx, sessionID, func(sess *session.Session) error {
		ids = append([]int64{}, sess.Members...)
		return nil
	})
	return ids, err
}
