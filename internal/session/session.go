// Package session keeps the mutable state of one visitor: RSVP counters,
// the membership set and reminder settings. A new session is a page reload.
package session

import (
	"context"
	"time"

	"github.com/ds124wfegd/campus-events/internal/entity"
)

type Session struct {
	ID        string                  `json:"id"`
	Events    []*entity.RSVPEvent     `json:"events"`
	Members   []int64                 `json:"members"`
	RSVPd     []entity.Event          `json:"rsvpd"`
	Cancelled []entity.Event          `json:"cancelled"`
	Settings  entity.ReminderSettings `json:"settings"`
	CreatedAt time.Time               `json:"created_at"`
	LastSeen  time.Time               `json:"last_seen"`
}

// Store persists session snapshots.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	IdleSince(ctx context.Context, before time.Time) ([]string, error)
}

func (s *Session) FindEvent(id int64) *entity.RSVPEvent {
	for _, ev := range s.Events {
		if ev.ID == id {
			return ev
		}
	}
	return nil
}

func (s *Session) IsMember(id int64) bool {
	for _, m := range s.Members {
		if m == id {
			return true
		}
	}
	return false
}

func (s *Session) AddMember(id int64) {
	if !s.IsMember(id) {
		s.Members = append(s.Members, id)
	}
}

func (s *Session) RemoveMember(id int64) {
	kept := s.Members[:0]
	for _, m := range s.Members {
		if m != id {
			kept = append(kept, m)
		}
	}
	s.Members = kept
}

func (s *Session) State(id int64) entity.RSVPState {
	if s.IsMember(id) {
		return entity.RSVPStateJoined
	}
	return entity.RSVPStateNotJoined
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.Events = make([]*entity.RSVPEvent, len(s.Events))
	for i, ev := range s.Events {
		c.Events[i] = ev.Clone()
	}
	c.Members = append([]int64(nil), s.Members...)
	c.RSVPd = append([]entity.Event(nil), s.RSVPd...)
	c.Cancelled = append([]entity.Event(nil), s.Cancelled...)
	return &c
}
