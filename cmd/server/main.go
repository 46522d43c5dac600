package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"trainerweb/internal/adapters/email"
	web "trainerweb/internal/adapters/http"
	"trainerweb/internal/adapters/http/middleware"
	"trainerweb/internal/adapters/http/perf"
	"trainerweb/internal/adapters/storage"
	assignmentStore "trainerweb/internal/adapters/storage/assignment"
	auditStore "trainerweb/internal/adapters/storage/audit"
	monthStore "trainerweb/internal/adapters/storage/monthstatus"
	rateStore "trainerweb/internal/adapters/storage/rolerate"
	sessionStore "trainerweb/internal/adapters/storage/session"
	tournamentStore "trainerweb/internal/adapters/storage/tournament"
	trainerStore "trainerweb/internal/adapters/storage/trainer"
	trainingStore "trainerweb/internal/adapters/storage/training"
	planStore "trainerweb/internal/adapters/storage/trainingplan"
	noticeStore "trainerweb/internal/adapters/storage/unavailability"
	"trainerweb/internal/application/orchestrators"
	"trainerweb/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))

	if err := run(cfg); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := storage.MigrateDB(db, cfg.DBDriver); err != nil {
		return err
	}

	collector := perf.NewCollector()
	timedDB := storage.NewTimedDB(db, cfg.DBDriver, collector).WithSlowThreshold(cfg.SlowQuery)

	stores := &web.Stores{
		Trainers:    trainerStore.NewSQLStore(timedDB),
		Sessions:    sessionStore.NewSQLStore(timedDB),
		Trainings:   trainingStore.NewSQLStore(timedDB),
		Assignments: assignmentStore.NewSQLStore(timedDB),
		Notices:     noticeStore.NewSQLStore(timedDB),
		Plans:       planStore.NewSQLStore(timedDB),
		Tournaments: tournamentStore.NewSQLStore(timedDB),
		Months:      monthStore.NewSQLStore(timedDB),
		Audit:       auditStore.NewSQLStore(timedDB),
		RoleRates:   rateStore.NewSQLStore(timedDB),
	}

	created, err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.AdminSeedInput{
		ID:   cfg.AdminID,
		Name: cfg.AdminName,
		Pin:  cfg.AdminPin,
	}, orchestrators.AdminSeedDeps{TrainerStore: stores.Trainers})
	if err != nil {
		return err
	}
	if created {
		slog.Info("admin_seeded", "trainer_id", cfg.AdminID)
	}

	var sender email.Sender
	if cfg.EmailEnabled() {
		sender = email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.EmailReplyTo)
		slog.Info("email_configured", "provider", "resend")
	} else {
		sender = email.NewNoopSender()
		slog.Warn("email_disabled", "hint", "set RESEND_API_KEY to mail reset PINs")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}
	csrfKey, err := cfg.CSRFKey()
	if err != nil {
		return err
	}
	if cfg.CSRFSecret == "" {
		slog.Warn("csrf_secret_missing", "hint", "set TRAINERWEB_CSRF_SECRET to keep forms valid across restarts")
	}
	middleware.SecureCookies = cfg.SecureCookies

	srv := web.New(web.Options{
		Stores:         stores,
		Collector:      collector,
		Email:          sender,
		SessionTTL:     cfg.SessionTTL,
		Location:       loc,
		CSRFKey:        csrfKey,
		CORSOrigins:    cfg.CORSOrigins,
		LoginPerMinute: cfg.LoginRatePerMinute,
		SlowRequest:    cfg.SlowRequest,
	})
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "driver", cfg.DBDriver, "schema", storage.LatestSchemaVersion())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return orchestrators.RunSessionSweeper(gctx, cfg.SweepInterval, orchestrators.SweepSessionsDeps{
			SessionStore: stores.Sessions,
			Now:          time.Now,
			TTL:          cfg.SessionTTL,
		})
	})
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("server_stopping")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
