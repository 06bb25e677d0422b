package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/m-ou-se/mstd/internal/adapter/httpapi"
	"github.com/m-ou-se/mstd/internal/adapter/scheduler"
	"github.com/m-ou-se/mstd/internal/config"
	"github.com/m-ou-se/mstd/internal/platform/logger"
	"github.com/m-ou-se/mstd/internal/soak"
	"github.com/m-ou-se/mstd/pkg/refcount"
)

const shutdownTimeout = 10 * time.Second

// App wires the soak service together.
type App struct {
	cfg    config.Config
	log    *logger.Logger
	runner *soak.Runner
	reg    *prometheus.Registry
}

// New loads configuration and builds the components.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logger.New(logger.Options{
		Env:          cfg.Env,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		FileLevel:    cfg.Log.FileLevel,
		File:         cfg.Log.File,
		App:          "mstd-soak",
	})
	refcount.SetLogger(log.With("component", "refcount"))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	soak.RegisterMetrics(reg)

	return &App{
		cfg: cfg,
		log: log,
		runner: soak.NewRunner(soak.Config{
			Workers:    cfg.Soak.Workers,
			Iterations: cfg.Soak.Iterations,
			Logger:     log.Logger,
		}),
		reg: reg,
	}, nil
}

// Run serves HTTP and runs scheduled rounds until SIGINT or SIGTERM.
func (a *App) Run() error {
	defer a.log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.log.Info("starting",
		"schedule", a.cfg.Soak.Schedule,
		"workers", a.cfg.Soak.Workers,
		"iterations", a.cfg.Soak.Iterations,
		"addr", a.cfg.HTTP.Addr,
	)

	sched := scheduler.New(ctx, scheduler.Config{Logger: a.log.Logger})
	_, err := sched.Add(a.cfg.Soak.Schedule, a.runner.Run, scheduler.Options{
		Name:          "soak",
		Timeout:       a.cfg.Soak.RoundTimeout,
		OverlapPolicy: scheduler.Skip,
	})
	if err != nil {
		return err
	}

	if a.cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           httpapi.NewRouter(a.runner, a.reg, a.log.Logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		sched.Start()
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(
			sched.Stop(shutdownCtx),
			srv.Shutdown(shutdownCtx),
		)
	})

	err = g.Wait()
	if err != nil {
		a.log.Error("stopped", slog.Any("error", err))
		return err
	}
	a.log.Info("stopped")
	return nil
}
