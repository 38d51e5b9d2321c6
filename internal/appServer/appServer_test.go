package appServer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ds124wfegd/campus-events/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v, err := config.LoadConfigFrom(t.TempDir())
	require.NoError(t, err)
	cfg, err := config.ParseConfig(v)
	require.NoError(t, err)
	return cfg
}

func TestNewAppServesRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		redis bool
	}{
		{"memory store", false},
		{"redis store", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			if tt.redis {
				cfg.Redis.Addr = miniredis.RunT(t).Addr()
			}

			app, err := NewApp(context.Background(), cfg, time.Now)
			require.NoError(t, err)
			defer app.Close()

			w := httptest.NewRecorder()
			app.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/rsvp/events/5/toggle", nil))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			id := w.Header().Get("X-Session-ID")
			require.NotEmpty(t, id)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/rsvp/memberships", nil)
			req.Header.Set("X-Session-ID", id)
			w = httptest.NewRecorder()
			app.Handler.ServeHTTP(w, req)
			assert.JSONEq(t, `{"event_ids":[5]}`, w.Body.String())

			removed, err := app.Sessions.Sweep(context.Background(), -time.Minute)
			require.NoError(t, err)
			assert.Equal(t, 1, removed)
		})
	}
}

func TestNewAppSendsTelegramNotifications(t *testing.T) {
	gin.SetMode(gin.TestMode)

	texts := make(chan string, 4)
	bot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		texts <- r.PostForm.Get("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer bot.Close()

	cfg := testConfig(t)
	cfg.Telegram = config.TelegramConfig{
		Enabled:  true,
		BotToken: "token",
		ChatID:   "1",
		APIURL:   bot.URL,
	}

	app, err := NewApp(context.Background(), cfg, time.Now)
	require.NoError(t, err)
	defer app.Close()

	w := httptest.NewRecorder()
	app.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/rsvp/events/3/toggle", nil))
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case text := <-texts:
		assert.Equal(t, "RSVP Confirmed! ⚡\n\nYou're registered for Lemonade Day Concert. Check your email for reminders!", text)
	default:
		t.Fatal("no telegram message sent")
	}
}

func TestNewAppRejectsUnreachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.Redis.Addr = addr
	cfg.Redis.MaxRetries = -1
	cfg.Redis.DialTimeout = 200 * time.Millisecond

	_, err := NewApp(context.Background(), cfg, time.Now)
	assert.Error(t, err)
}

func TestNewAppRejectsMissingDataset(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.Path = "/does/not/exist.yaml"

	_, err := NewApp(context.Background(), cfg, time.Now)
	assert.Error(t, err)
}
