package appServer

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/campus-events/config"
	"github.com/ds124wfegd/campus-events/internal/dataset"
	"github.com/ds124wfegd/campus-events/internal/service"
	"github.com/ds124wfegd/campus-events/internal/session"
	"github.com/ds124wfegd/campus-events/internal/transport"
	"github.com/ds124wfegd/campus-events/internal/worker"
	"github.com/ds124wfegd/campus-events/pkg/notify"
	"github.com/ds124wfegd/campus-events/pkg/redis"
	"github.com/ds124wfegd/campus-events/pkg/telegram"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(logrus.StandardLogger().WriterLevel(logrus.ErrorLevel), "", 0),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// App holds everything NewServer wires together.
type App struct {
	Handler  http.Handler
	Sessions *session.Manager
	Sweeper  *worker.SessionSweepWorker

	closers []func() error
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logrus.Errorf("error occured on closing resource: %s", err.Error())
		}
	}
}

func setupLogger(cfg *config.LogConfig) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func newSessionStore(ctx context.Context, cfg *config.Config, app *App) (session.Store, error) {
	if cfg.Redis.Addr == "" {
		logrus.Info("Using in-memory session store")
		return session.NewMemoryStore(), nil
	}

	client, err := redis.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, client.Close)
	logrus.Info("Using Redis session store")
	return session.NewRedisStore(client, cfg.Session.TTL), nil
}

func newNotifier(cfg *config.TelegramConfig) notify.Notifier {
	notifiers := notify.Multi{notify.NewLogNotifier(nil)}

	if cfg.Enabled {
		bot := telegram.NewBot(cfg.BotToken)
		if cfg.APIURL != "" {
			bot.WithAPIURL(cfg.APIURL)
		}
		notifiers = append(notifiers, notify.NewRetrying(
			notify.NewTelegramNotifier(bot, cfg.ChatID), cfg.MaxRetries, cfg.RetryDelay))
		logrus.Info("Telegram bot initialized")
	} else {
		logrus.Warn("Telegram notifications disabled")
	}
	return notifiers
}

// NewApp builds the handler and its dependencies without starting anything.
func NewApp(ctx context.Context, cfg *config.Config, now func() time.Time) (*App, error) {
	app := &App{}

	ds, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := newSessionStore(ctx, cfg, app)
	if err != nil {
		return nil, err
	}

	remindersEnabled := cfg.Session.RemindersEnabled
	app.Sessions = session.NewManager(store, func(id string) *session.Session {
		s := &session.Session{
			ID:        id,
			Events:    ds.RSVPEvents(),
			RSVPd:     ds.RSVPd(),
			Cancelled: ds.Cancelled(),
		}
		s.Settings.Enabled = remindersEnabled
		return s
	})
	app.Sweeper = worker.NewSessionSweepWorker(app.Sessions, cfg.Worker.SweepInterval, cfg.Session.TTL)

	notifier := newNotifier(&cfg.Telegram)

	catalogService := service.NewCatalogService(ds.Events())
	rsvpService := service.NewRSVPService(app.Sessions, notifier)
	reminderService := service.NewReminderService(app.Sessions, notifier, loc, now)

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	app.Handler = transport.InitRoutes(
		transport.RouterOptions{
			Sessions:       app.Sessions,
			SessionTTL:     cfg.Session.TTL,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		transport.NewEventHandler(catalogService),
		transport.NewRSVPHandler(rsvpService),
		transport.NewReminderHandler(reminderService),
	)

	return app, nil
}

func NewServer(cfg *config.Config) {
	setupLogger(&cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(ctx, cfg, time.Now)
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	go app.Sweeper.Start(ctx)

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, app.Handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithField("addr", cfg.ServerAddress()).Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
