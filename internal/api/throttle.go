package api

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type action struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Throttle guards state-changing endpoints against rapid repeats of the
// same user action (a double-tapped like, a hammered toggle). Keys are
// per action and entity, so unrelated mutations never block each other.
type Throttle struct {
	mu      sync.Mutex
	actions map[string]*action
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	now     func() time.Time
}

// NewThrottle allows up to `events` actions per `window` for each key, with
// an additional burst capacity. Idle keys are forgotten after ttl.
func NewThrottle(events int, window time.Duration, burst int, ttl time.Duration) *Throttle {
	if events <= 0 {
		events = 1
	}
	if window <= 0 {
		window = time.Second
	}
	if burst <= 0 {
		burst = 1
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Throttle{
		actions: make(map[string]*action),
		limit:   rate.Every(window / time.Duration(events)),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Allow reports whether the keyed action may proceed right now.
func (t *Throttle) Allow(key string) bool {
	if t == nil {
		return true
	}
	if key == "" {
		key = "unknown"
	}

	now := t.now()

	t.mu.Lock()
	a := t.actionLocked(key, now)
	t.gcLocked(now)
	t.mu.Unlock()

	return a.limiter.Allow()
}

func (t *Throttle) actionLocked(key string, now time.Time) *action {
	if a, ok := t.actions[key]; ok {
		a.lastSeen = now
		return a
	}

	a := &action{limiter: rate.NewLimiter(t.limit, t.burst), lastSeen: now}
	t.actions[key] = a
	return a
}

func (t *Throttle) gcLocked(now time.Time) {
	for key, a := range t.actions {
		if now.Sub(a.lastSeen) > t.ttl {
			delete(t.actions, key)
		}
	}
}

// WithNowFunc allows tests to override the time source.
func (t *Throttle) WithNowFunc(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}
