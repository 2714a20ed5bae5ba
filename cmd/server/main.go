package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"consentry/internal/consent/workers/retention"
	"consentry/internal/platform/config"
	"consentry/internal/platform/logger"
	"consentry/internal/seeder"
)

const poolStatsInterval = 15 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	log.Info("initializing consentry",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"cookie_name", cfg.Cookie.Name,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	wired := buildApp(cfg, deps, log)
	defer wired.publisher.Close()

	if cfg.SeedFile != "" {
		if err := seeder.New(deps.websites, deps.registry, log).SeedFile(ctx, cfg.SeedFile); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           wired.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		w := retention.New(wired.service,
			retention.WithLogger(log),
			retention.WithInterval(cfg.Retention.CleanupInterval),
		)
		return ignoreCanceled(w.Start(gctx))
	})
	if wired.templates != nil && cfg.Templates.Watch {
		g.Go(func() error {
			if err := wired.templates.Watch(gctx); err != nil && !errors.Is(err, context.Canceled) {
				// A missing template directory only disables hot reload.
				log.Warn("template watcher stopped", "dir", cfg.Templates.Dir, "error", err)
			}
			return nil
		})
	}
	if deps.redis != nil {
		g.Go(func() error {
			return deps.redis.RunPoolStats(gctx, poolStatsInterval)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
