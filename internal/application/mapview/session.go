package mapview

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/prometheus"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

// SurfaceFactory creates the rendering surface for a new session.
type SurfaceFactory func(sessionID string) (MapSurface, error)

// Session is one user's map view: a surface created exactly once at session
// start and closed exactly once at session end, the two layers that own its
// markers and edges, and the active filter state.  All access goes through
// the session mutex; surface implementations stay lock-free.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	surface    MapSurface
	markers    *MarkerLayer
	network    *NetworkLayer
	criteria   FilterCriteria
	tab        Tab
	lastActive time.Time
	closeOnce  sync.Once
	closed     bool
}

// Touch records activity for idle expiry.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// Close tears down the network and marker layers and releases the surface.
// Safe to call more than once; the surface is closed exactly once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.closed = true
		if clearErr := s.network.Clear(); clearErr != nil && err == nil {
			err = clearErr
		}
		if clearErr := s.markers.Clear(); clearErr != nil && err == nil {
			err = clearErr
		}
		if closeErr := s.surface.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, errors.CodeSurfaceFailure, "close surface")
		}
	})
	return err
}

// Registry tracks live sessions and expires idle ones.
type Registry struct {
	factory     SurfaceFactory
	idleTimeout time.Duration
	logger      logging.Logger
	metrics     *prometheus.AppMetrics
	newSession  func(id string, surface MapSurface) *Session

	mu       sync.RWMutex
	sessions map[string]*Session
}

// RegistryConfig holds registry construction parameters.
type RegistryConfig struct {
	Factory     SurfaceFactory
	IdleTimeout time.Duration
	NewSession  func(id string, surface MapSurface) *Session
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig, log logging.Logger, metrics *prometheus.AppMetrics) *Registry {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	return &Registry{
		factory:     cfg.Factory,
		idleTimeout: cfg.IdleTimeout,
		logger:      log.Named("sessions"),
		metrics:     metrics,
		newSession:  cfg.NewSession,
		sessions:    make(map[string]*Session),
	}
}

// Create opens a new session with a fresh surface.
func (r *Registry) Create() (*Session, error) {
	id := uuid.NewString()
	surface, err := r.factory(id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSurfaceFailure, "create surface")
	}

	session := r.newSession(id, surface)

	r.mu.Lock()
	r.sessions[id] = session
	count := len(r.sessions)
	r.mu.Unlock()

	r.metrics.MapSessionsActive.WithLabelValues().Set(float64(count))
	r.logger.Info("session created", logging.String("session_id", id))
	return session, nil
}

// Get returns a live session by id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.CodeSessionNotFound, "session not found").WithDetail(id)
	}
	return session, nil
}

// Close ends a session and removes it from the registry.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	count := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return errors.New(errors.CodeSessionNotFound, "session not found").WithDetail(id)
	}

	r.metrics.MapSessionsActive.WithLabelValues().Set(float64(count))
	r.logger.Info("session closed", logging.String("session_id", id))
	return session.Close()
}

// CloseAll ends every session, for shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		if err := s.Close(); err != nil {
			r.logger.Warn("session close failed", logging.String("session_id", s.ID), logging.Err(err))
		}
	}
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RunJanitor expires idle sessions until the context is cancelled.
func (r *Registry) RunJanitor(ctx context.Context) {
	if r.idleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(r.idleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.expireIdle()
		}
	}
}

func (r *Registry) expireIdle() {
	cutoff := time.Now().Add(-r.idleTimeout)

	r.mu.RLock()
	var expired []string
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := s.lastActive.Before(cutoff)
		s.mu.Unlock()
		if idle {
			expired = append(expired, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range expired {
		if err := r.Close(id); err != nil {
			r.logger.Warn("idle session close failed", logging.String("session_id", id), logging.Err(err))
		} else {
			r.logger.Info("idle session expired", logging.String("session_id", id))
		}
	}
}
