package service

import (
	"context"

	"github.com/ds124wfegd/campus-events/internal/entity"
	"github.com/ds124wfegd/campus-events/internal/session"
)

// CatalogService serves the read-only event catalog.
type CatalogService interface {
	ListEvents(ctx context.Context, query EventQuery) (*EventList, error)
	GetEvent(ctx context.Context, id int64) (*entity.Event, error)
	Categories() []entity.Category
}

// RSVPService holds the per-session RSVP toggle.
type RSVPService interface {
	ListEvents(ctx context.Context, sessionID string, query EventQuery) (*RSVPList, error)
	Toggle(ctx context.Context, sessionID string, eventID int64) (*ToggleResult, error)
	Memberships(ctx context.Context, sessionID string) ([]int64, error)
	ExportCalendar(ctx context.Context, sessionID string) (string, error)
}

// ReminderService classifies reminders and simulates sending them.
type ReminderService interface {
	List(ctx context.Context, sessionID string) (*ReminderList, error)
	Cancelled(ctx context.Context, sessionID string) (*CancelledList, error)
	UpdateSettings(ctx context.Context, sessionID string, req *UpdateSettingsRequest) (*entity.ReminderSettings, error)
	Send(ctx context.Context, sessionID string) (*SendResult, error)
}

// SessionManager is the part of session.Manager the services use.
type SessionManager interface {
	View(ctx context.Context, id string, fn func(*session.Session) error) error
	Update(ctx context.Context, id string, fn func(*session.Session) error) error
}

// EmptyListMessage replaces an empty result set.
const EmptyListMessage = "No events match your criteria."
