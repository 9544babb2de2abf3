package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/asclepius/internal/mapview"
	"github.com/UnknownOlympus/asclepius/internal/metrics"
	"github.com/UnknownOlympus/asclepius/internal/models"
	"github.com/google/uuid"
)

// sweepInterval is how often the manager looks for idle sessions.
const sweepInterval = time.Minute

// Manager owns every live session and evicts the ones that have been idle for
// longer than the configured TTL.
type Manager struct {
	log     *slog.Logger     // Logger for logging manager activities
	metrics *metrics.Metrics // Metrics for tracking live sessions
	ttl     time.Duration    // Idle lifetime of a session

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager with the given idle TTL.
func NewManager(log *slog.Logger, appMetrics *metrics.Metrics, ttl time.Duration) *Manager {
	return &Manager{
		log:      log,
		metrics:  appMetrics,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with its map view centred on the default point.
func (m *Manager) Create(center models.GeoPoint, zoom int) *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		view:     mapview.New(center, zoom),
		lastSeen: time.Now(),
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	m.metrics.ActiveSessions.Inc()

	return sess
}

// Get returns the session with the given id and marks it as active.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	m.mu.Unlock()

	if ok {
		sess.touch(time.Now())
	}

	return sess, ok
}

// Run sweeps idle sessions until the context is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	m.log.InfoContext(ctx, "Session manager started...")

	for {
		select {
		case <-ctx.Done():
			m.log.InfoContext(ctx, "Session manager stopped.")
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

// sweep removes every session idle for longer than the TTL.
func (m *Manager) sweep(ctx context.Context) {
	deadline := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []string
	for id, sess := range m.sessions {
		if sess.idleSince().Before(deadline) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for range expired {
		m.metrics.ActiveSessions.Dec()
	}

	if len(expired) > 0 {
		m.log.DebugContext(ctx, "Evicted idle sessions", "count", len(expired))
	}
}
