package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/partydeck/partydeck/internal/catalog"
	"github.com/partydeck/partydeck/internal/game"
	"github.com/partydeck/partydeck/internal/randutil"
	"github.com/partydeck/partydeck/internal/server"
	"github.com/partydeck/partydeck/internal/store"
)

// ServeCmd contains core server configuration. Flags override the config
// file.
type ServeCmd struct {
	Config   string `kong:"default='partydeck.hcl',help='Path to HCL config file'"`
	Addr     string `kong:"help='Listen address, overrides config (host:port)'"`
	Catalog  string `kong:"help='Path to HCL catalog file, overrides config'"`
	HandSize int    `kong:"help='Cards of each playable type per hand, overrides config'"`
	Seed     *int64 `kong:"help='Deterministic shuffle seed (optional)'"`
	Debug    bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Catalog != "" {
		cfg.Game.Catalog = c.Catalog
	}
	if c.HandSize > 0 {
		cfg.Game.HandSize = c.HandSize
	}
	if c.Seed != nil {
		cfg.Game.Seed = *c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := setupLogger(c.Debug, cfg.Server.LogLevel)

	// Seed the shuffle RNG
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("Using random seed", "seed", seed)
	} else {
		logger.Info("Using deterministic seed", "seed", seed)
	}
	rng := randutil.New(seed)

	// Load the card catalog
	cat := catalog.Default()
	if cfg.Game.Catalog != "" {
		cat, err = catalog.LoadFile(cfg.Game.Catalog)
		if err != nil {
			return err
		}
		logger.Info("Loaded catalog", "file", cfg.Game.Catalog, "types", len(cat.Types), "cards", len(cat.Cards))
	} else {
		logger.Info("Using built-in catalog", "types", len(cat.Types), "cards", len(cat.Cards))
	}
	if err := cat.ValidateHandSize(cfg.Game.HandSize); err != nil {
		return err
	}

	engine := game.NewEngine(rng, game.Config{HandSize: cfg.Game.HandSize}, logger)
	st := store.New(engine, game.State{}, logger)

	addr := cfg.ListenAddress()
	if c.Addr != "" {
		addr = c.Addr
	}
	srv := server.NewServer(st, logger)

	logger.Info("Starting partydeck server",
		"addr", addr,
		"hand_size", cfg.Game.HandSize,
		"seed", seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := st.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	// Install the catalog before accepting connections; these are the
	// trusted administrative actions, never reachable from the wire.
	if _, err := st.Dispatch(ctx, store.Action{Type: store.ActionSetCardTypes, CardTypes: cat.TypeDefs()}); err != nil {
		stop()
		_ = g.Wait()
		return err
	}
	if _, err := st.Dispatch(ctx, store.Action{Type: store.ActionSetCards, Cards: cat.Cards}); err != nil {
		stop()
		_ = g.Wait()
		return err
	}

	g.Go(func() error {
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		return srv.Stop()
	})

	return g.Wait()
}

func setupLogger(debug bool, level string) *log.Logger {
	logLevel := log.InfoLevel
	if parsed, err := log.ParseLevel(level); err == nil {
		logLevel = parsed
	}
	if debug {
		logLevel = log.DebugLevel
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           logLevel,
	})
}
