package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ds124wfegd/campus-events/internal/entity"
	"github.com/ds124wfegd/campus-events/internal/session"

	ical "github.com/arran4/golang-ical"
)

const (
	calendarProductID = "-//campus-events//RSVP export//EN"
	displayTimeLayout = "3:04 PM"
	defaultDuration   = 2 * time.Hour
)

// ExportCalendar renders the events the session has joined as iCalendar.
func (s *rsvpService) ExportCalendar(ctx context.Context, sessionID string) (string, error) {
	var joined []entity.RSVPEvent
	err := s.sessions.View(ctx, sessionID, func(sess *session.Session) error {
		for _, id := range sess.Members {
			if ev := sess.FindEvent(id); ev != nil {
				joined = append(joined, *ev)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return buildCalendar(joined, time.Now().UTC()), nil
}

func buildCalendar(events []entity.RSVPEvent, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(calendarProductID)

	for _, ev := range events {
		vevent := cal.AddEvent(fmt.Sprintf("event-%d@campus-events", ev.ID))
		vevent.SetDtStampTime(stamp)
		vevent.SetSummary(ev.Title)
		vevent.SetLocation(ev.Location)
		vevent.SetDescription(ev.Description)

		if start, ok := startOf(ev.Event); ok {
			vevent.SetStartAt(start)
			vevent.SetEndAt(start.Add(defaultDuration))
		} else {
			day := ev.Date.In(time.UTC)
			vevent.SetAllDayStartAt(day)
			vevent.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}
	}

	return cal.Serialize()
}

// startOf combines the calendar date with the display time when it parses.
func startOf(ev entity.Event) (time.Time, bool) {
	clock, err := time.Parse(displayTimeLayout, strings.TrimSpace(ev.Time))
	if err != nil {
		return time.Time{}, false
	}
	day := ev.Date.In(time.UTC)
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), true
}
