// Package gateway exposes one typed operation per backend capability,
// mapping wire envelopes to domain records and the error taxonomy.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/Poper173/Kilamix/internal/api"
	"github.com/Poper173/Kilamix/internal/models"
	"github.com/Poper173/Kilamix/internal/session"
)

// Options configures a Gateway.
type Options struct {
	Client   *api.Client
	Sessions session.Store
	// Throttle guards mutation endpoints; nil disables throttling.
	Throttle *api.Throttle
	Logger   *slog.Logger
	// CacheTTL bounds how long channel and stats reads are served from
	// memory. Zero disables the cache.
	CacheTTL time.Duration
}

// Gateway is the typed client surface for the video-sharing backend.
type Gateway struct {
	api      *api.Client
	sessions session.Store
	throttle *api.Throttle
	log      *slog.Logger

	channelCache *ttlCache[models.Channel]
	statsCache   *ttlCache[models.AdminStats]
}

// New wires a Gateway from its dependencies.
func New(opts Options) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		api:          opts.Client,
		sessions:     opts.Sessions,
		throttle:     opts.Throttle,
		log:          logger,
		channelCache: newTTLCache[models.Channel](opts.CacheTTL),
		statsCache:   newTTLCache[models.AdminStats](opts.CacheTTL),
	}
}

// Session returns the stored credential record, if any.
func (g *Gateway) Session(ctx context.Context) (session.Record, bool, error) {
	return g.sessions.Load(ctx)
}

// token returns the active bearer token, or ErrNotAuthenticated when the
// store holds no session.
func (g *Gateway) token(ctx context.Context) (string, error) {
	rec, ok, err := g.sessions.Load(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", api.ErrNotAuthenticated
	}
	return rec.Token, nil
}

// optionalToken returns the bearer token when a session exists and empty
// otherwise, for endpoints that personalise but do not require auth.
func (g *Gateway) optionalToken(ctx context.Context) string {
	rec, ok, err := g.sessions.Load(ctx)
	if err != nil || !ok {
		return ""
	}
	return rec.Token
}

// allow consults the mutation throttle before a state-changing request.
func (g *Gateway) allow(key string) error {
	if g.throttle.Allow(key) {
		return nil
	}
	g.log.Warn("mutation throttled", "key", key)
	return api.ErrThrottled
}
