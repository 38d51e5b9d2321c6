package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ds124wfegd/campus-events/internal/dataset"
	"github.com/ds124wfegd/campus-events/internal/entity"
	"github.com/ds124wfegd/campus-events/internal/service"
	"github.com/ds124wfegd/campus-events/internal/session"
	"github.com/ds124wfegd/campus-events/internal/transport/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ds, err := dataset.Load("")
	require.NoError(t, err)

	manager := session.NewManager(session.NewMemoryStore(), func(id string) *session.Session {
		return &session.Session{
			ID:        id,
			Events:    ds.RSVPEvents(),
			RSVPd:     ds.RSVPd(),
			Cancelled: ds.Cancelled(),
			Settings:  entity.ReminderSettings{Enabled: true},
		}
	})
	now := func() time.Time { return time.Date(2023, 11, 14, 12, 0, 0, 0, time.UTC) }

	return InitRoutes(
		RouterOptions{Sessions: manager, SessionTTL: time.Hour, RequestTimeout: 5 * time.Second},
		NewEventHandler(service.NewCatalogService(ds.Events())),
		NewRSVPHandler(service.NewRSVPService(manager, nil)),
		NewReminderHandler(service.NewReminderService(manager, nil, time.UTC, now)),
	)
}

func do(router *gin.Engine, method, path, sessionID, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCatalogEndpoints(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		path   string
		status int
		ids    []int64
	}{
		{"default sort is date ascending", "/api/v1/events", http.StatusOK, []int64{2, 4, 3, 1, 5}},
		{"empty sort keeps insertion order", "/api/v1/events?sort=", http.StatusOK, []int64{1, 2, 3, 4, 5}},
		{"descending", "/api/v1/events?sort=date-desc", http.StatusOK, []int64{5, 1, 3, 4, 2}},
		{"category and search", "/api/v1/events?category=Academic&search=grad", http.StatusOK, []int64{2, 4}},
		{"no match", "/api/v1/events?search=chess", http.StatusOK, []int64{}},
		{"unknown sort", "/api/v1/events?sort=popular", http.StatusBadRequest, nil},
		{"unknown category", "/api/v1/events?category=Music", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodGet, tt.path, "", "")
			require.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				assert.Contains(t, w.Body.String(), "error")
				return
			}

			list := decode[service.EventList](t, w)
			got := make([]int64, 0, len(list.Events))
			for _, ev := range list.Events {
				got = append(got, ev.ID)
			}
			assert.Equal(t, tt.ids, got)
			assert.Equal(t, len(tt.ids) == 0, list.Empty)
			if list.Empty {
				assert.Equal(t, service.EmptyListMessage, list.Message)
			}
		})
	}
}

func TestGetEvent(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/v1/events/3", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	ev := decode[entity.Event](t, w)
	assert.Equal(t, "Lemonade Day Concert", ev.Title)
	assert.Equal(t, "2023-11-15", ev.Date.String())

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/v1/events/99", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/api/v1/events/abc", "", "").Code)

	w = do(router, http.MethodGet, "/api/v1/categories", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"categories":["Sports","Academic","Social"]}`, w.Body.String())
}

func TestSessionIsIssuedAndReused(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/v1/rsvp/events", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(middleware.SessionHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.SessionCookie+"="+id)

	w = do(router, http.MethodGet, "/api/v1/rsvp/events", id, "")
	assert.Equal(t, id, w.Header().Get(middleware.SessionHeader))

	// cookie works as well as the header
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rsvp/memberships", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: id})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(middleware.SessionHeader))

	w = do(router, http.MethodGet, "/api/v1/rsvp/events", "not-a-uuid", "")
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(middleware.SessionHeader))
}

func TestRSVPToggleEndpoint(t *testing.T) {
	router := newTestRouter(t)
	id := uuid.NewString()

	w := do(router, http.MethodPost, "/api/v1/rsvp/events/4/toggle", id, "")
	require.Equal(t, http.StatusConflict, w.Code)
	refused := decode[service.ToggleResult](t, w)
	assert.False(t, refused.Applied)
	assert.Equal(t, 30, refused.Card.RSVPCount)
	assert.Equal(t, "Event Full", refused.Notification.Title)

	w = do(router, http.MethodPost, "/api/v1/rsvp/events/5/toggle", id, "")
	require.Equal(t, http.StatusOK, w.Code)
	joined := decode[service.ToggleResult](t, w)
	assert.True(t, joined.Applied)
	assert.Equal(t, entity.RSVPStateJoined, joined.State)
	assert.Equal(t, 13, joined.Card.RSVPCount)
	assert.Equal(t, "Cancel RSVP", joined.Card.Button.Label)

	w = do(router, http.MethodGet, "/api/v1/rsvp/memberships", id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"event_ids":[5]}`, w.Body.String())

	// another visitor still sees the seeded count
	w = do(router, http.MethodGet, "/api/v1/rsvp/events", uuid.NewString(), "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[service.RSVPList](t, w)
	for _, card := range list.Cards {
		if card.ID == 5 {
			assert.Equal(t, 12, card.RSVPCount)
		}
	}

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, "/api/v1/rsvp/events/42/toggle", id, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/v1/rsvp/events/x/toggle", id, "").Code)
}

func TestCalendarExportEndpoint(t *testing.T) {
	router := newTestRouter(t)
	id := uuid.NewString()

	require.Equal(t, http.StatusOK, do(router, http.MethodPost, "/api/v1/rsvp/events/1/toggle", id, "").Code)

	w := do(router, http.MethodGet, "/api/v1/rsvp/calendar.ics", id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "campus-events.ics")
	assert.Contains(t, w.Body.String(), "SUMMARY:Sun Devil Football vs. UCLA")
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
}

func TestReminderEndpoints(t *testing.T) {
	router := newTestRouter(t)
	id := uuid.NewString()

	w := do(router, http.MethodGet, "/api/v1/reminders", id, "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[service.ReminderList](t, w)
	assert.True(t, list.Enabled)
	assert.Len(t, list.Reminders, 3)

	w = do(router, http.MethodGet, "/api/v1/reminders/cancelled", id, "")
	require.Equal(t, http.StatusOK, w.Code)
	cancelled := decode[service.CancelledList](t, w)
	require.Len(t, cancelled.Items, 1)
	assert.Equal(t, "Graduate School Prep Workshop", cancelled.Items[0].Title)

	settingsTests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"enabled":`, http.StatusBadRequest},
		{"invalid email", `{"email":"nope"}`, http.StatusBadRequest},
		{"new address", `{"email":"sparky@asu.edu"}`, http.StatusOK},
	}
	for _, tt := range settingsTests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPut, "/api/v1/reminders/settings", id, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w = do(router, http.MethodPost, "/api/v1/reminders/send", id, "")
	require.Equal(t, http.StatusOK, w.Code)
	sent := decode[service.SendResult](t, w)
	assert.Equal(t, 3, sent.Sent)
	assert.Equal(t, "3 reminder email(s) sent to sparky@asu.edu", sent.Notification.Message)

	w = do(router, http.MethodPut, "/api/v1/reminders/settings", id, `{"enabled":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"enabled":false,"email":"sparky@asu.edu"}`, w.Body.String())

	w = do(router, http.MethodPost, "/api/v1/reminders/send", id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Reminders Disabled", decode[service.SendResult](t, w).Notification.Title)
}

func TestCORSPreflight(t *testing.T) {
	w := do(newTestRouter(t), http.MethodOptions, "/api/v1/rsvp/events", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), middleware.SessionHeader)
}
