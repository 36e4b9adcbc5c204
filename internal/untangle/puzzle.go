// Package untangle implements the planar untangle puzzle: a random graph whose
// nodes the player drags until no two edges cross.
//
// A Puzzle is not safe for concurrent use. Callers that share one between
// goroutines must serialize access (see internal/session).
package untangle

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// hitSlop widens the grab area around a node relative to its radius.
const hitSlop = 1.5

// ErrInvalidGraph is returned when an explicit drawing breaks the node/edge invariants.
var ErrInvalidGraph = errors.New("invalid graph")

// Node is a draggable point. Its ID equals its index in the node list.
type Node struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Point returns the node's position.
func (n Node) Point() Point {
	return Point{X: n.X, Y: n.Y}
}

// Edge is an undirected connection between two distinct nodes.
type Edge struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// SameAs reports whether e and o connect the same pair of nodes in either direction.
func (e Edge) SameAs(o Edge) bool {
	return (e.Source == o.Source && e.Target == o.Target) ||
		(e.Source == o.Target && e.Target == o.Source)
}

// SharesEndpoint reports whether e and o meet at a node.
func (e Edge) SharesEndpoint(o Edge) bool {
	return e.Source == o.Source || e.Source == o.Target ||
		e.Target == o.Source || e.Target == o.Target
}

// Crossing identifies two crossing edges by their index in the edge list, I < J.
type Crossing struct {
	I int `json:"i"`
	J int `json:"j"`
}

// Config parameterizes a Puzzle. Zero values fall back to WideCanvas,
// DefaultLevels and a randomly seeded source.
type Config struct {
	Canvas Canvas
	Levels Levels
	Rand   *rand.Rand
}

// State is a snapshot of a puzzle handed to the host for rendering.
type State struct {
	Level     int    `json:"level"`
	Round     int    `json:"round"`
	Canvas    Canvas `json:"canvas"`
	Nodes     []Node `json:"nodes"`
	Edges     []Edge `json:"edges"`
	Solved    bool   `json:"solved"`
	Crossings int    `json:"crossings"`
	Dragging  *int   `json:"dragging,omitempty"`
	Moves     int    `json:"moves"`
}

// Puzzle is one untangle game instance.
type Puzzle struct {
	canvas Canvas
	levels Levels
	rng    *rand.Rand

	level     int
	round     int
	nodes     []Node
	edges     []Edge
	solved    bool
	crossings []Crossing
	dragged   int
	moves     int
}

// New returns an empty puzzle. Call Generate to lay out a level.
func New(cfg Config) *Puzzle {
	if cfg.Canvas == (Canvas{}) {
		cfg.Canvas = WideCanvas
	}
	if len(cfg.Levels) == 0 {
		cfg.Levels = DefaultLevels()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Puzzle{
		canvas:  cfg.Canvas,
		levels:  cfg.Levels,
		rng:     cfg.Rand,
		dragged: -1,
	}
}

// FromGraph builds a puzzle from an explicit drawing and evaluates it once.
// Node i must carry ID i, and edges must join distinct, existing nodes at most once.
func FromGraph(cfg Config, nodes []Node, edges []Edge) (*Puzzle, error) {
	for i, n := range nodes {
		if n.ID != i {
			return nil, fmt.Errorf("%w: node at index %d has id %d", ErrInvalidGraph, i, n.ID)
		}
	}
	for i, e := range edges {
		if e.Source < 0 || e.Source >= len(nodes) || e.Target < 0 || e.Target >= len(nodes) {
			return nil, fmt.Errorf("%w: edge %d (%d-%d) references a missing node", ErrInvalidGraph, i, e.Source, e.Target)
		}
		if e.Source == e.Target {
			return nil, fmt.Errorf("%w: edge %d is a self-loop on node %d", ErrInvalidGraph, i, e.Source)
		}
		for _, prev := range edges[:i] {
			if e.SameAs(prev) {
				return nil, fmt.Errorf("%w: edge %d duplicates %d-%d", ErrInvalidGraph, i, prev.Source, prev.Target)
			}
		}
	}

	p := New(cfg)
	p.nodes = append([]Node(nil), nodes...)
	p.edges = append([]Edge(nil), edges...)
	p.EvaluateSolved()
	return p, nil
}

// Generate discards the current drawing and lays out a fresh random level.
//
// Edges are sampled exactly cfg.Edges times; self-pairs are re-rolled but
// duplicate pairs are dropped, so a level may end up with fewer edges than
// configured. The graph is not guaranteed to be planar.
func (p *Puzzle) Generate(level int) State {
	cfg := p.levels.For(level)
	r := p.canvas.NodeRadius

	nodes := make([]Node, cfg.Nodes)
	for i := range nodes {
		nodes[i] = Node{
			ID: i,
			X:  r + p.rng.Float64()*(p.canvas.Width-2*r),
			Y:  r + p.rng.Float64()*(p.canvas.Height-2*r),
		}
	}

	var edges []Edge
	if cfg.Nodes >= 2 {
		for range cfg.Edges {
			e := Edge{Source: p.rng.IntN(cfg.Nodes)}
			e.Target = p.rng.IntN(cfg.Nodes)
			for e.Target == e.Source {
				e.Target = p.rng.IntN(cfg.Nodes)
			}
			if !containsEdge(edges, e) {
				edges = append(edges, e)
			}
		}
	}

	p.level = level
	p.round++
	p.nodes = nodes
	p.edges = edges
	p.solved = false
	p.crossings = nil
	p.dragged = -1
	p.moves = 0
	return p.State()
}

// Reset regenerates the current level.
func (p *Puzzle) Reset() State {
	return p.Generate(p.level)
}

// Advance moves to the next level once the current one is solved.
// It does nothing while the drawing is still tangled.
func (p *Puzzle) Advance() State {
	if !p.solved {
		return p.State()
	}
	return p.Generate(p.level + 1)
}

// BeginDrag grabs the first node within reach of pt. A miss is ignored.
func (p *Puzzle) BeginDrag(pt Point) State {
	reach := p.canvas.NodeRadius * hitSlop
	for _, n := range p.nodes {
		if distance(n.Point(), pt) < reach {
			p.dragged = n.ID
			break
		}
	}
	return p.State()
}

// UpdateDrag moves the grabbed node to pt, clamped to the play field, and
// re-evaluates the puzzle. Without a grabbed node it does nothing.
func (p *Puzzle) UpdateDrag(pt Point) State {
	if p.dragged < 0 {
		return p.State()
	}
	pt = p.canvas.Clamp(pt)
	p.nodes[p.dragged].X = pt.X
	p.nodes[p.dragged].Y = pt.Y
	p.EvaluateSolved()
	return p.State()
}

// EndDrag releases the grabbed node and re-evaluates the puzzle.
func (p *Puzzle) EndDrag() State {
	if p.dragged >= 0 {
		p.moves++
	}
	p.dragged = -1
	p.EvaluateSolved()
	return p.State()
}

// EvaluateSolved counts crossing edge pairs and updates the solved flag.
// Edges sharing a node never cross, and a drawing without edges is never solved.
func (p *Puzzle) EvaluateSolved() bool {
	var crossings []Crossing
	for i := 0; i < len(p.edges); i++ {
		for j := i + 1; j < len(p.edges); j++ {
			e1, e2 := p.edges[i], p.edges[j]
			if e1.SharesEndpoint(e2) {
				continue
			}
			if SegmentsCross(
				p.nodes[e1.Source].Point(), p.nodes[e1.Target].Point(),
				p.nodes[e2.Source].Point(), p.nodes[e2.Target].Point(),
			) {
				crossings = append(crossings, Crossing{I: i, J: j})
			}
		}
	}
	p.crossings = crossings
	p.solved = len(crossings) == 0 && len(p.edges) > 0
	return p.solved
}

// Crossings returns the crossing pairs found by the last evaluation.
func (p *Puzzle) Crossings() []Crossing {
	return append([]Crossing(nil), p.crossings...)
}

// Solved reports the result of the last evaluation.
func (p *Puzzle) Solved() bool {
	return p.solved
}

// Level is the difficulty index the current drawing was generated for.
func (p *Puzzle) Level() int {
	return p.level
}

// Canvas returns the play field dimensions.
func (p *Puzzle) Canvas() Canvas {
	return p.canvas
}

// Levels returns the difficulty table.
func (p *Puzzle) Levels() Levels {
	return append(Levels(nil), p.levels...)
}

// State returns a copy of the puzzle safe to hand to another goroutine.
func (p *Puzzle) State() State {
	s := State{
		Level:     p.level,
		Round:     p.round,
		Canvas:    p.canvas,
		Nodes:     append([]Node{}, p.nodes...),
		Edges:     append([]Edge{}, p.edges...),
		Solved:    p.solved,
		Crossings: len(p.crossings),
		Moves:     p.moves,
	}
	if p.dragged >= 0 {
		id := p.dragged
		s.Dragging = &id
	}
	return s
}

func containsEdge(edges []Edge, e Edge) bool {
	for _, x := range edges {
		if x.SameAs(e) {
			return true
		}
	}
	return false
}
