package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/Zachkp/untangle/internal/untangle"
)

// pairFactory lays out two nodes and one edge, which is solved on its first evaluation.
func pairFactory() *untangle.Puzzle {
	return untangle.New(untangle.Config{
		Canvas: untangle.Canvas{Width: 100, Height: 100, NodeRadius: 1},
		Levels: untangle.Levels{{Nodes: 2, Edges: 1}},
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
}

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(pairFactory, ttl)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	id, state := s.Create(1)
	if id == "" {
		t.Fatal("expected a session id")
	}
	if state.Round != 1 || len(state.Nodes) != 2 {
		t.Errorf("expected generated level, got round %d with %d nodes", state.Round, len(state.Nodes))
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Round != state.Round || len(got.Edges) != len(state.Edges) {
		t.Errorf("expected stored state, got %+v", got)
	}

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateReportsFirstSolve(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	id, _ := s.Create(1)

	// Two nodes joined by one edge have nothing to cross.
	solve := func(p *untangle.Puzzle) untangle.State {
		p.EndDrag()
		return p.State()
	}

	held, err := s.Update(id, func(p *untangle.Puzzle) untangle.State {
		n := p.State().Nodes[0]
		p.BeginDrag(n.Point())
		return p.UpdateDrag(untangle.Point{X: 50, Y: 50})
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !held.State.Solved || held.JustSolved {
		t.Fatalf("expected live solve while held to go unreported, got solved=%v just=%v", held.State.Solved, held.JustSolved)
	}

	res, err := s.Update(id, solve)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !res.State.Solved || !res.JustSolved {
		t.Fatalf("expected first solve to be reported, got solved=%v just=%v", res.State.Solved, res.JustSolved)
	}

	res, _ = s.Update(id, solve)
	if res.JustSolved {
		t.Error("expected repeat solve in the same round not to be reported")
	}

	res, _ = s.Update(id, func(p *untangle.Puzzle) untangle.State { return p.Advance() })
	if res.State.Round != 2 || res.State.Solved {
		t.Fatalf("expected fresh round 2, got round %d solved=%v", res.State.Round, res.State.Solved)
	}
	res, _ = s.Update(id, solve)
	if !res.JustSolved {
		t.Error("expected solve in a new round to be reported")
	}
}

func TestDeleteAndSweep(t *testing.T) {
	s, now := newTestStore(10 * time.Minute)

	stale, _ := s.Create(1)
	*now = now.Add(8 * time.Minute)
	fresh, _ := s.Create(1)
	*now = now.Add(5 * time.Minute)

	if removed := s.Sweep(); removed != 1 {
		t.Errorf("expected 1 session swept, got %d", removed)
	}
	if _, err := s.Get(stale); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected stale session gone, got %v", err)
	}
	if _, err := s.Get(fresh); err != nil {
		t.Errorf("expected fresh session kept, got %v", err)
	}

	s.Delete(fresh)
	s.Delete("never-existed")
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}

func TestSweepWithoutTTL(t *testing.T) {
	s, now := newTestStore(0)
	s.Create(1)
	*now = now.Add(24 * time.Hour)
	if removed := s.Sweep(); removed != 0 {
		t.Errorf("expected nothing swept without a ttl, got %d", removed)
	}
}

func TestConcurrentSessions(t *testing.T) {
	s := NewStore(pairFactory, time.Minute)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, state := s.Create(1)
			for range 50 {
				n := state.Nodes[0]
				s.Update(id, func(p *untangle.Puzzle) untangle.State {
					p.BeginDrag(untangle.Point{X: n.X, Y: n.Y})
					p.UpdateDrag(untangle.Point{X: 50, Y: 50})
					return p.EndDrag()
				})
			}
		}()
	}
	wg.Wait()

	if s.Len() != 8 {
		t.Errorf("expected 8 sessions, got %d", s.Len())
	}
}

func TestRunStopsWithContext(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond, nil)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
