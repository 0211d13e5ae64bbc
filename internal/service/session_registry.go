package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type registryEntry struct {
	session  *CatalogSession
	lastSeen atomic.Int64
}

// SessionRegistry keeps one CatalogSession per student id.
type SessionRegistry struct {
	cache   *CacheService
	catalog ProgrammeLister
	engine  *FilterEngine
	metrics *MetricsService
	logger  *zap.Logger
	perPage int

	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*registryEntry
}

// NewSessionRegistry creates an empty registry whose sessions persist through cache.
func NewSessionRegistry(cache *CacheService, catalog ProgrammeLister, engine *FilterEngine, metrics *MetricsService, perPage int, logger *zap.Logger) *SessionRegistry {
	if engine == nil {
		engine = NewFilterEngine()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRegistry{
		cache:    cache,
		catalog:  catalog,
		engine:   engine,
		metrics:  metrics,
		logger:   logger,
		perPage:  perPage,
		now:      time.Now,
		sessions: make(map[string]*registryEntry),
	}
}

// Store returns the key-value namespace of studentID.
func (r *SessionRegistry) Store(studentID string) *SessionStore {
	return NewSessionStore(r.cache, studentID)
}

// Get returns the session of studentID, creating it on first use.
func (r *SessionRegistry) Get(studentID string) *CatalogSession {
	r.mu.RLock()
	entry, ok := r.sessions[studentID]
	r.mu.RUnlock()
	if ok {
		entry.lastSeen.Store(r.now().UnixNano())
		return entry.session
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok = r.sessions[studentID]; ok {
		entry.lastSeen.Store(r.now().UnixNano())
		return entry.session
	}
	entry = &registryEntry{session: NewCatalogSession(studentID, CatalogSessionOptions{
		Store:   r.Store(studentID),
		Catalog: r.catalog,
		Engine:  r.engine,
		Metrics: r.metrics,
		Logger:  r.logger,
		PerPage: r.perPage,
	})}
	entry.lastSeen.Store(r.now().UnixNano())
	r.sessions[studentID] = entry
	r.metrics.SetActiveSessions(len(r.sessions))
	return entry.session
}

// EvictIdle forgets sessions untouched for longer than maxIdle. Persisted keys
// stay in the store so a returning student still gets the stale fallback.
// Sessions with a fetch in flight are kept.
func (r *SessionRegistry) EvictIdle(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-maxIdle).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, entry := range r.sessions {
		if entry.lastSeen.Load() > cutoff {
			continue
		}
		if entry.session.Snapshot().State == StateLoading {
			continue
		}
		delete(r.sessions, id)
		evicted++
	}
	if evicted > 0 {
		r.metrics.SetActiveSessions(len(r.sessions))
		r.logger.Debug("evicted idle sessions", zap.Int("count", evicted), zap.Int("remaining", len(r.sessions)))
	}
	return evicted
}

// Drop forgets the session of studentID and clears its persisted keys.
func (r *SessionRegistry) Drop(ctx context.Context, studentID string) error {
	r.mu.Lock()
	delete(r.sessions, studentID)
	r.metrics.SetActiveSessions(len(r.sessions))
	r.mu.Unlock()
	return r.Store(studentID).Clear(ctx)
}

// Len reports the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
