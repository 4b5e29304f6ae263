package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"leadgate-engine/internal/config"
	"leadgate-engine/internal/events"
	"leadgate-engine/internal/logger"
	"leadgate-engine/internal/poll"
	"leadgate-engine/internal/scheduler"
	"leadgate-engine/internal/store"
)

func main() {
	jsonLogs := flag.Bool("json", false, "log as json")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	log, err := logger.New(*jsonLogs, *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log); err != nil {
		log.Fatal("engine exited", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	dataDir := os.Getenv("LEADGATE_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// one engine per data dir
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another engine already runs on %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	userCfgPath, err := config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
	if err != nil {
		return fmt.Errorf("config bootstrap: %w", err)
	}

	var cfgVal atomic.Value
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		if err := config.OverlayTargets(&cfg, filepath.Join(dataDir, "targets.yml")); err != nil {
			return cfg, fmt.Errorf("targets overlay: %w", err)
		}
		cfg, v := config.NormalizeAndValidate(cfg)
		for _, w := range v.Warnings {
			log.Warn("config warning", zap.String("warning", w))
		}
		if !v.OK() {
			return cfg, fmt.Errorf("invalid config: %v", v.Errors)
		}
		return cfg, nil
	}

	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load (%s): %w", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	st, err := store.Open(filepath.Join(dataDir, "leadgate.db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	hub := events.NewHub()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// config reload on SIGHUP
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			next, err := loadCfg()
			if err != nil {
				log.Warn("config reload failed", zap.Error(err))
				continue
			}
			cfgVal.Store(next)
			log.Info("config reloaded")
		}
	}()

	snapshot := func() config.Config { return cfgVal.Load().(config.Config) }
	poller := poll.New(st, hub, log, snapshot)

	// log every event the pollers publish
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)
	go func() {
		for evt := range sub {
			log.Info("event", zap.String("payload", evt))
		}
	}()

	log.Info("engine started",
		zap.String("data_dir", dataDir),
		zap.Bool("email", cfg.Email.Enabled),
		zap.Int("feeds", len(cfg.Feeds.Sources)),
		zap.Int("targets", len(cfg.Targets)),
	)

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Email.Enabled {
		g.Go(func() error {
			scheduler.Every(ctx, time.Duration(cfg.Polling.EmailSeconds)*time.Second, "email_poll", log, func(ctx context.Context) error {
				added, err := poller.RunEmailOnce(ctx)
				if added > 0 {
					log.Info("email poll", zap.Int("added", added))
				}
				return err
			})
			return nil
		})
	}
	if cfg.Feeds.Enabled {
		g.Go(func() error {
			scheduler.Every(ctx, time.Duration(cfg.Polling.FeedSeconds)*time.Second, "feed_poll", log, func(ctx context.Context) error {
				added, err := poller.RunFeedsOnce(ctx)
				if added > 0 {
					log.Info("feed poll", zap.Int("added", added))
				}
				return err
			})
			return nil
		})
	}

	<-ctx.Done()
	log.Info("shutting down")
	return g.Wait()
}
