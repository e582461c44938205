package generator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store keeps one Workflow per admin session.
type Store struct {
	backend Backend
	opts    Options
	idleTTL time.Duration
	log     *logrus.Entry

	workflows map[uuid.UUID]*Workflow
	mu        sync.RWMutex
}

func NewStore(backend Backend, opts Options, idleTTL time.Duration) *Store {
	opts = opts.withDefaults()
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &Store{
		backend:   backend,
		opts:      opts,
		idleTTL:   idleTTL,
		log:       opts.Logger.WithField("component", "workflow-store"),
		workflows: make(map[uuid.UUID]*Workflow),
	}
}

// Get returns the session's workflow, creating it on first use or when the
// previous one was closed. The workflow is marked used while the store lock
// is held, so CleanupIdle cannot close it right after it is handed out.
func (s *Store) Get(owner Owner) *Workflow {
	s.mu.RLock()
	w, ok := s.workflows[owner.SessionID]
	if ok && !w.isClosed() {
		w.touch()
		s.mu.RUnlock()
		return w
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.workflows[owner.SessionID]; ok {
		if !w.isClosed() {
			w.touch()
			return w
		}
		s.log.WithField("session_id", owner.SessionID).Debug("Replacing closed workflow")
	}
	w = NewWorkflow(s.backend, owner, s.opts)
	s.workflows[owner.SessionID] = w
	return w
}

// Lookup returns the session's workflow without creating one.
func (s *Store) Lookup(sessionID uuid.UUID) (*Workflow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workflows[sessionID]
	return w, ok
}

// Close stops and forgets the session's workflow.
func (s *Store) Close(sessionID uuid.UUID) {
	s.mu.Lock()
	w, ok := s.workflows[sessionID]
	delete(s.workflows, sessionID)
	s.mu.Unlock()

	if ok {
		w.Close()
	}
}

// CleanupIdle closes workflows unused since before now minus the idle TTL.
func (s *Store) CleanupIdle(now time.Time) int {
	cutoff := now.Add(-s.idleTTL)

	s.mu.Lock()
	var stale []*Workflow
	for id, w := range s.workflows {
		if w.IdleSince().Before(cutoff) {
			stale = append(stale, w)
			delete(s.workflows, id)
		}
	}
	s.mu.Unlock()

	for _, w := range stale {
		w.Close()
	}
	return len(stale)
}

// Run sweeps idle workflows every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.CleanupIdle(now); n > 0 {
				s.log.WithField("workflows", n).Info("Closed idle workflows")
			}
		}
	}
}

// Shutdown closes every workflow.
func (s *Store) Shutdown() {
	s.mu.Lock()
	all := s.workflows
	s.workflows = make(map[uuid.UUID]*Workflow)
	s.mu.Unlock()

	for _, w := range all {
		w.Close()
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workflows)
}
