package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/krishh26/locker-backend-sub000/internal/curriculum"
	"github.com/krishh26/locker-backend-sub000/internal/enrollment"
	"github.com/krishh26/locker-backend-sub000/internal/extraction"
	"github.com/krishh26/locker-backend-sub000/internal/platform/cache"
	"github.com/krishh26/locker-backend-sub000/internal/platform/config"
	"github.com/krishh26/locker-backend-sub000/internal/platform/database"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	a, cleanup, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      newMux(a),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newLogger builds the default logger. Unknown levels fall back to info.
func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// newApp connects the configured backends, seeds courses and returns the
// handler dependencies with a cleanup func that closes them.
func newApp(ctx context.Context, cfg *config.Config) (*app, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	a := &app{
		ids:         curriculum.UUIDGenerator{},
		defaultKind: curriculum.ParseKind(cfg.Curriculum.Kind),
		maxUpload:   cfg.Server.MaxUploadBytes,
		checks:      make(map[string]func(context.Context) error),
	}

	var (
		store  enrollment.Store
		events enrollment.EventLogger = enrollment.NopEventLogger{}
	)
	switch cfg.Store.Driver {
	case "postgres":
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, db.Close)
		if err := db.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
		pg, err := enrollment.NewPostgresStore(db.Pool)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		store = pg
		events = enrollment.NewPostgresEventLogger(db.Pool)
		a.checks["database"] = db.HealthCheck
	default:
		store = enrollment.NewMemoryStore()
	}
	a.svc = enrollment.NewService(store, enrollment.WithEventLogger(events))

	if err := seedCourses(ctx, a.svc, cfg.Curriculum.Path, a.ids); err != nil {
		cleanup()
		return nil, nil, err
	}

	var extractor extraction.Extractor = extraction.NewCommandExtractor(extraction.Config{
		Command: cfg.Extraction.Command,
		Script:  cfg.Extraction.Script,
		WorkDir: cfg.Extraction.WorkDir,
		Timeout: cfg.Extraction.Timeout,
	})
	if cfg.Cache.Enabled {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			slog.Warn("extraction cache unavailable, continuing without it", "error", err)
		} else {
			closers = append(closers, func() { c.Close() })
			extractor = extraction.NewCachedExtractor(extractor, c, cfg.Cache.TTL)
			a.checks["cache"] = c.HealthCheck
		}
	}
	a.extractor = extractor

	return a, cleanup, nil
}

// seedCourses saves every course seed found under dir.
func seedCourses(ctx context.Context, svc *enrollment.Service, dir string, ids curriculum.IDGenerator) error {
	loader, err := curriculum.NewLoader(dir, ids)
	if err != nil {
		return fmt.Errorf("loading course seeds: %w", err)
	}
	for _, course := range loader.AllCourses() {
		if _, err := svc.SaveCourse(ctx, course); err != nil {
			return fmt.Errorf("seeding course %s: %w", course.ID, err)
		}
	}
	return nil
}
