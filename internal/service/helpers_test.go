package service

import (
	"context"
	"testing"

	"github.com/ds124wfegd/campus-events/internal/dataset"
	"github.com/ds124wfegd/campus-events/internal/entity"
	"github.com/ds124wfegd/campus-events/internal/session"
	"github.com/ds124wfegd/campus-events/pkg/notify"

	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	messages []notify.Message
}

func (r *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func loadDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load("")
	require.NoError(t, err)
	return ds
}

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	ds := loadDataset(t)
	return session.NewManager(session.NewMemoryStore(), func(id string) *session.Session {
		return &session.Session{
			ID:        id,
			Events:    ds.RSVPEvents(),
			RSVPd:     ds.RSVPd(),
			Cancelled: ds.Cancelled(),
			Settings:  entity.ReminderSettings{Enabled: true},
		}
	})
}

func titles(events []entity.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Title)
	}
	return out
}

func ids(events []entity.Event) []int64 {
	out := make([]int64, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.ID)
	}
	return out
}
