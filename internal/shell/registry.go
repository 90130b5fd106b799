package shell

import (
	"context"
	"sync"
	"time"

	"studyapp/internal/observability"
	contextutils "studyapp/internal/utils"

	"github.com/google/uuid"
)

type session struct {
	shell    *Shell
	lastSeen time.Time
}

// Registry maps session owner ids to shells and drops sessions that have
// been idle longer than the TTL.
type Registry struct {
	deps   Deps
	ttl    time.Duration
	logger *observability.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewRegistry creates a registry whose shells share deps.
func NewRegistry(deps Deps, ttl time.Duration) *Registry {
	logger := deps.Logger
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &Registry{
		deps:     deps,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// NewOwnerID returns a fresh session owner id.
func NewOwnerID() string {
	return uuid.NewString()
}

// Get returns the shell of owner, creating it on first use.
func (r *Registry) Get(ctx context.Context, owner string) (*Shell, error) {
	if !contextutils.IsValidUUID(owner) {
		return nil, contextutils.WrapErrorf(contextutils.ErrInvalidFormat, "invalid owner id %q", owner)
	}

	r.mu.Lock()
	if sess, ok := r.sessions[owner]; ok {
		sess.lastSeen = r.now()
		r.mu.Unlock()
		return sess.shell, nil
	}
	r.mu.Unlock()

	// Built outside the lock: loading preferences may hit the network.
	sh, err := New(ctx, owner, r.deps)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[owner]; ok {
		sess.lastSeen = r.now()
		sh.Close()
		return sess.shell, nil
	}
	r.sessions[owner] = &session{shell: sh, lastSeen: r.now()}
	r.logger.Debug(ctx, "Created session shell", map[string]interface{}{"owner_id": owner})
	return sh, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// ResetAll marks every tab of every session Unrendered. Used after content
// changes on disk.
func (r *Registry) ResetAll() {
	r.mu.Lock()
	shells := make([]*Shell, 0, len(r.sessions))
	for _, sess := range r.sessions {
		shells = append(shells, sess.shell)
	}
	r.mu.Unlock()
	for _, sh := range shells {
		sh.Reset()
	}
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep(ctx context.Context) int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Shell
	for owner, sess := range r.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess.shell)
			delete(r.sessions, owner)
		}
	}
	r.mu.Unlock()

	for _, sh := range expired {
		sh.Close()
	}
	if len(expired) > 0 {
		r.logger.Info(ctx, "Swept idle sessions", map[string]interface{}{"count": len(expired)})
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}
