// Package session keeps independent puzzle instances for concurrent visitors.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/untangle/internal/untangle"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Factory creates a fresh, ungenerated puzzle for a new session.
type Factory func() *untangle.Puzzle

// Result is the outcome of an Update.
type Result struct {
	State untangle.State
	// JustSolved is set the first time a round is seen solved with no node held.
	JustSolved bool
}

type entry struct {
	mu          sync.Mutex
	puzzle      *untangle.Puzzle
	lastSeen    time.Time
	solvedRound int
}

// Store maps session ids to puzzles. Each puzzle is only ever touched by one
// operation at a time.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	factory  Factory
	ttl      time.Duration
	now      func() time.Time
}

// NewStore returns an empty store. Sessions idle longer than ttl are removed
// by Sweep; a ttl of zero keeps them forever.
func NewStore(factory Factory, ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new session on the given level.
func (s *Store) Create(level int) (string, untangle.State) {
	p := s.factory()
	state := p.Generate(level)

	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = &entry{puzzle: p, lastSeen: s.now()}
	s.mu.Unlock()
	return id, state
}

// Get returns the current state of a session.
func (s *Store) Get(id string) (untangle.State, error) {
	res, err := s.Update(id, func(p *untangle.Puzzle) untangle.State {
		return p.State()
	})
	return res.State, err
}

// Update runs fn against the session's puzzle while holding its lock.
func (s *Store) Update(id string, fn func(p *untangle.Puzzle) untangle.State) (Result, error) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return Result{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	state := fn(e.puzzle)
	e.lastSeen = s.now()

	res := Result{State: state}
	if state.Solved && state.Dragging == nil && e.solvedRound != state.Round {
		e.solvedRound = state.Round
		res.JustSolved = true
	}
	return res, nil
}

// Delete drops a session. Unknown ids are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the store's ttl and returns how
// many were removed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, every time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
