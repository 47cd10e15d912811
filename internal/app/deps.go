package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Poper173/Kilamix/internal/api"
	"github.com/Poper173/Kilamix/internal/config"
	"github.com/Poper173/Kilamix/internal/gateway"
	"github.com/Poper173/Kilamix/internal/playback"
	"github.com/Poper173/Kilamix/internal/session"
)

// dependencies bundles everything a command needs to run.
type dependencies struct {
	cfg   config.Config
	log   *slog.Logger
	gw    *gateway.Gateway
	rules playback.Rules

	in  io.Reader
	out io.Writer
}

// defaultLoopbackOrigins are the development-server addresses commonly
// embedded in media URLs returned by local backends.
var defaultLoopbackOrigins = []string{
	"http://localhost:8000",
	"http://127.0.0.1:8000",
	"https://localhost:8000",
	"https://127.0.0.1:8000",
}

// buildDependencies wires together the concrete implementations used by the
// CLI commands. The returned cleanup releases the session backend.
func buildDependencies(cfg config.Config, logger *slog.Logger) (*dependencies, func(context.Context) error, error) {
	client, err := api.New(api.Options{
		BaseURL:        cfg.BaseURL,
		ConnectTimeout: cfg.ConnectTimeout,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
		VerboseBodies:  cfg.VerboseBodies,
	})
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := buildSessionStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	var throttle *api.Throttle
	if cfg.ThrottleEvents > 0 {
		throttle = api.NewThrottle(cfg.ThrottleEvents, cfg.ThrottleWindow, 1, 5*time.Minute)
	}

	deps := &dependencies{
		cfg: cfg,
		log: logger,
		gw: gateway.New(gateway.Options{
			Client:   client,
			Sessions: store,
			Throttle: throttle,
			Logger:   logger,
			CacheTTL: cfg.CacheTTL,
		}),
		rules: playback.Rules{
			Origin:          cfg.PlaybackOrigin,
			LoopbackOrigins: defaultLoopbackOrigins,
			DowngradeTLS:    cfg.PlaybackDowngradeTLS,
		},
		in:  os.Stdin,
		out: os.Stdout,
	}

	cleanup := func(context.Context) error {
		if closeStore != nil {
			return closeStore()
		}
		return nil
	}
	return deps, cleanup, nil
}

// buildSessionStore selects the credential backend from configuration.
func buildSessionStore(cfg config.Config) (session.Store, func() error, error) {
	switch cfg.SessionBackend {
	case "memory":
		return session.NewMemoryStore(), nil, nil
	case "file", "":
		path := cfg.SessionPath
		if path == "" {
			path = defaultSessionPath("session.json")
		}
		if path == "" {
			return nil, nil, fmt.Errorf("no session path available; set KILAMIX_SESSION_PATH")
		}
		return session.NewFileStore(path), nil, nil
	case "sqlite":
		path := cfg.SessionPath
		if path == "" {
			path = defaultSessionPath("session.db")
		}
		if path == "" {
			return nil, nil, fmt.Errorf("no session path available; set KILAMIX_SESSION_PATH")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("create session directory: %w", err)
		}
		store, err := session.NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

func defaultSessionPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "kilamix", name)
}
