package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/heartmarshall/gratitude-backend/internal/adapter/blob"
	"github.com/heartmarshall/gratitude-backend/internal/adapter/provider/twilio"
	"github.com/heartmarshall/gratitude-backend/internal/adapter/redis"
	"github.com/heartmarshall/gratitude-backend/internal/auth"
	"github.com/heartmarshall/gratitude-backend/internal/config"
	"github.com/heartmarshall/gratitude-backend/internal/metrics"
	"github.com/heartmarshall/gratitude-backend/internal/service/admin"
	"github.com/heartmarshall/gratitude-backend/internal/service/backup"
	"github.com/heartmarshall/gratitude-backend/internal/service/contactio"
	"github.com/heartmarshall/gratitude-backend/internal/service/messaging"
	"github.com/heartmarshall/gratitude-backend/internal/service/profile"
	"github.com/heartmarshall/gratitude-backend/internal/service/reminder"
	"github.com/heartmarshall/gratitude-backend/internal/store"
	"github.com/heartmarshall/gratitude-backend/internal/transport/dataloader"
	"github.com/heartmarshall/gratitude-backend/internal/transport/middleware"
	"github.com/heartmarshall/gratitude-backend/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, connects the
// backend, wires services and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("database", cfg.Database.Driver),
	)

	be, err := OpenBackend(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer be.Close()

	c, err := NewContainer(ctx, cfg, be, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	// Reminders.
	var sched *reminder.Scheduler
	if cfg.Reminder.Schedule != "" {
		sched, err = reminder.Schedule(ctx, logger, c.Reminders, cfg.Reminder.Schedule)
		if err != nil {
			return err
		}
	}

	// HTTP.
	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	components := []rest.Component{{Name: "database", Pinger: be}}
	if c.markerStore != nil {
		components = append(components, rest.Component{Name: "redis", Pinger: c.markerStore, Optional: true})
	}

	handler := rest.NewRouter(rest.Routes{
		Health:   rest.NewHealthHandler(BuildVersion(), components...),
		Profile:  rest.NewProfileHandler(c.Profiles, logger),
		Sessions: rest.NewSessionHandler(c.EntryStores, logger),
		Contacts: rest.NewContactHandler(c.EntryStores, c.ContactIO, cfg.Journal.UpcomingDays, logger),
		Messages: rest.NewMessageHandler(c.Messaging, logger),
		Admin:    rest.NewAdminHandler(c.Admin, logger),
		Metrics:  c.Metrics.Handler(),
		Global: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.Recovery(logger),
			middleware.Logger(logger),
			middleware.Metrics(c.Metrics),
			middleware.CORS(cfg.CORS),
			limiter.Limit(cfg.RateLimit.RequestsPerMinute),
		},
		API: []func(http.Handler) http.Handler{
			middleware.Auth(c.JWT),
			middleware.Active(be.Profiles, logger),
			dataloader.Middleware(be.Contacts),
		},
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if sched != nil {
			sched.Stop(shutdownCtx)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

// Container holds the wired services shared by the server and the CLI.
type Container struct {
	Base        *store.Store
	EntryStores rest.StoreFunc
	Metrics     *metrics.Metrics
	JWT         *auth.JWTManager

	Profiles  *profile.Service
	Admin     *admin.Service
	Messaging *messaging.Service
	ContactIO *contactio.Service
	Reminders *reminder.Service
	Backup    *backup.Service // nil when no bucket is configured

	markerStore *redis.MarkerStore
}

// NewContainer wires every service over be.
func NewContainer(ctx context.Context, cfg *config.Config, be *Backend, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Base:    store.New(logger, be.Sessions, be.Contacts, be.Tx),
		Metrics: metrics.New(),
		JWT: auth.NewJWTManager(
			cfg.Auth.JWTSecret,
			cfg.Auth.JWTIssuer,
			cfg.Auth.AccessTokenTTL,
			cfg.Auth.ResetTokenTTL,
			cfg.Auth.ResetURL,
		),
	}
	c.EntryStores = func(uid string) (rest.EntryStore, error) { return c.Base.ForUser(uid) }

	c.Profiles = profile.NewService(logger, be.Profiles, be.Audit, be.Tx, cfg.Auth.SuperAdminEmail)
	c.Admin = admin.NewService(logger, be.Profiles, be.Sessions, be.Contacts, be.Audit, c.JWT, be.Tx)
	c.ContactIO = contactio.NewService(logger,
		func(uid string) (contactio.ContactStore, error) { return c.Base.ForUser(uid) },
		be.Audit,
	)

	// Messaging. The limiter spaces gateway calls across all users.
	lim := rate.NewLimiter(rate.Limit(cfg.Messaging.RatePerSecond), cfg.Messaging.Burst)
	contactLog := func(uid string) (messaging.ContactLog, error) { return c.Base.ForUser(uid) }
	if cfg.Messaging.Configured() {
		gw := twilio.NewProviderWithURL(cfg.Messaging.BaseURL, cfg.Messaging.AccountSID, cfg.Messaging.AuthToken, logger)
		c.Messaging = messaging.NewService(logger, cfg.Messaging, gw, lim, contactLog, c.Metrics.MessagesSent)
	} else {
		logger.Warn("messaging disabled: twilio credentials not set")
		c.Messaging = messaging.NewService(logger, cfg.Messaging, nil, lim, contactLog, c.Metrics.MessagesSent)
	}

	// Reminder markers live in Redis when configured so that replicas do
	// not send the same digest twice.
	var marker reminder.Marker = reminder.NewMemoryMarker()
	if cfg.Redis.Addr != "" {
		ms, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, reminder markers kept in memory", slog.String("error", err.Error()))
		} else {
			c.markerStore = ms
			marker = ms
		}
	}
	c.Reminders = reminder.NewService(logger, be.Profiles,
		func(uid string) (reminder.ContactSource, error) { return c.Base.ForUser(uid) },
		c.Messaging, marker, cfg.Reminder.DaysAhead, c.Metrics.Reminders,
	)

	if cfg.Backup.Enabled() {
		s3, err := blob.New(ctx, cfg.Backup, logger)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Backup = backup.NewService(logger,
			func(uid string) (backup.Source, error) { return c.Base.ForUser(uid) },
			s3, c.Metrics.Backups,
		)
	}

	return c, nil
}

// Close releases connections opened by NewContainer.
func (c *Container) Close() {
	if c.markerStore != nil {
		_ = c.markerStore.Close()
	}
}
