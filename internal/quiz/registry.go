package quiz

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Registry holds every in-flight session, keyed by session id. It is
// the single source of truth for quizzes in progress: a session exists
// from Put until exactly one Consume wins, or until its deadline passes
// and the sweeper evicts it.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	grace  time.Duration
	sweep  time.Duration
	logger zerolog.Logger
}

// RegistryOptions tunes session expiry.
type RegistryOptions struct {
	// Grace extends a session's advisory duration before eviction, to
	// tolerate slow clients. Default 5 minutes.
	Grace time.Duration
	// SweepInterval controls how often expired sessions are evicted.
	// Default 1 minute.
	SweepInterval time.Duration
}

// NewRegistry creates an empty session registry.
func NewRegistry(opts RegistryOptions, logger zerolog.Logger) *Registry {
	grace := opts.Grace
	if grace <= 0 {
		grace = 5 * time.Minute
	}
	sweep := opts.SweepInterval
	if sweep <= 0 {
		sweep = time.Minute
	}
	return &Registry{
		sessions: make(map[string]*Session),
		grace:    grace,
		sweep:    sweep,
		logger:   logger.With().Str("component", "session_registry").Logger(),
	}
}

// Put registers a new session and stamps its eviction deadline.
func (r *Registry) Put(sess *Session) {
	sess.ExpiresAt = sess.CreatedAt.Add(sess.Duration + r.grace)
	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()
}

// Get returns a copy of a still-live session, or ErrSessionNotFound.
func (r *Registry) Get(id string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return Session{}, ErrSessionNotFound
	}
	return *sess, nil
}

// Consume atomically removes and returns a session. A second call with
// the same id, and any call racing a winner, gets ErrSessionNotFound:
// this is the exactly-once scoring guarantee.
func (r *Registry) Consume(id string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	delete(r.sessions, id)
	if time.Now().After(sess.ExpiresAt) {
		return Session{}, ErrSessionNotFound
	}
	return *sess, nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run evicts expired sessions until ctx is canceled. Abandoned quizzes
// would otherwise accumulate forever.
func (r *Registry) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if evicted := r.evictExpired(now); evicted > 0 {
				r.logger.Info().Int("evicted", evicted).Msg("expired sessions evicted")
				sessionsExpired.Add(float64(evicted))
			}
		}
	}
}

func (r *Registry) evictExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, sess := range r.sessions {
		if now.After(sess.ExpiresAt) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}
