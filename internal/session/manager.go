package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ds124wfegd/campus-events/internal/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SeedFunc builds the initial state of a new session.
type SeedFunc func(id string) *Session

// Manager serialises access per session id: a handler runs to completion
// before the next one for the same session starts.
type Manager struct {
	store Store
	seed  SeedFunc
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(store Store, seed SeedFunc) *Manager {
	return &Manager{
		store: store,
		seed:  seed,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
}

// WithClock overrides the time source, for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func NewID() string {
	return uuid.NewString()
}

// lock returns the held mutex for id. Sweep may drop the map entry while a
// caller waits on the old mutex, so the entry is checked again after locking.
func (m *Manager) lock(id string) *sync.Mutex {
	for {
		m.mu.Lock()
		l, ok := m.locks[id]
		if !ok {
			l = &sync.Mutex{}
			m.locks[id] = l
		}
		m.mu.Unlock()

		l.Lock()
		m.mu.Lock()
		current := m.locks[id]
		m.mu.Unlock()
		if current == l {
			return l
		}
		l.Unlock()
	}
}

// Acquire makes sure a session exists for id and returns its id. An empty
// id starts a new session.
func (m *Manager) Acquire(ctx context.Context, id string) (string, error) {
	if id == "" {
		id = NewID()
	}
	err := m.View(ctx, id, func(*Session) error { return nil })
	return id, err
}

// View runs fn on a snapshot. Changes made by fn are discarded; a missing
// session is seeded and saved before fn runs.
func (m *Manager) View(ctx context.Context, id string, fn func(*Session) error) error {
	return m.run(ctx, id, false, fn)
}

// Update runs fn and saves the session when fn succeeds.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Session) error) error {
	return m.run(ctx, id, true, fn)
}

func (m *Manager) run(ctx context.Context, id string, save bool, fn func(*Session) error) error {
	if id == "" {
		return fmt.Errorf("%w: empty session id", entity.ErrInvalidInput)
	}

	l := m.lock(id)
	defer l.Unlock()

	s, err := m.store.Get(ctx, id)
	if errors.Is(err, entity.ErrSessionNotFound) {
		s = m.seed(id)
		s.ID = id
		s.CreatedAt = m.now()
		s.LastSeen = s.CreatedAt
		if err := m.store.Save(ctx, s.Clone()); err != nil {
			return err
		}
		logrus.WithField("session_id", id).Debug("Session created")
	} else if err != nil {
		return err
	}

	if err := fn(s); err != nil {
		return err
	}

	// View also refreshes LastSeen so active readers are not swept.
	s.LastSeen = m.now()
	if !save {
		if err := m.touch(ctx, s); err != nil {
			return err
		}
		return nil
	}
	return m.store.Save(ctx, s)
}

func (m *Manager) touch(ctx context.Context, viewed *Session) error {
	s, err := m.store.Get(ctx, viewed.ID)
	if err != nil {
		return err
	}
	s.LastSeen = viewed.LastSeen
	return m.store.Save(ctx, s)
}

// Sweep deletes sessions idle for longer than idle and returns how many
// were removed.
func (m *Manager) Sweep(ctx context.Context, idle time.Duration) (int, error) {
	ids, err := m.store.IdleSince(ctx, m.now().Add(-idle))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		ok, err := m.sweepOne(ctx, id, idle)
		if err != nil {
			logrus.WithField("session_id", id).Errorf("Failed to delete idle session: %v", err)
			continue
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}

// sweepOne deletes id under its lock, unless it was used after the idle
// cutoff was computed.
func (m *Manager) sweepOne(ctx context.Context, id string, idle time.Duration) (bool, error) {
	l := m.lock(id)
	defer l.Unlock()

	s, err := m.store.Get(ctx, id)
	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		m.forget(id)
		return false, nil
	case err != nil:
		return false, err
	case !s.LastSeen.Before(m.now().Add(-idle)):
		return false, nil
	}

	if err := m.store.Delete(ctx, id); err != nil {
		return false, err
	}
	m.forget(id)
	return true, nil
}

// forget drops the lock entry. The caller holds the lock for id.
func (m *Manager) forget(id string) {
	m.mu.Lock()
	delete(m.locks, id)
	m.mu.Unlock()
}
