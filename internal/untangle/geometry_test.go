package untangle

import "testing"

func TestSegmentsCross(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, p3, p4 Point
		want           bool
	}{
		{"diagonals of a square", Point{0, 0}, Point{10, 10}, Point{10, 0}, Point{0, 10}, true},
		{"parallel", Point{0, 0}, Point{10, 0}, Point{0, 5}, Point{10, 5}, false},
		{"disjoint", Point{0, 0}, Point{1, 1}, Point{5, 0}, Point{0, 5}, false},
		{"collinear overlap", Point{0, 0}, Point{10, 0}, Point{5, 0}, Point{15, 0}, false},
		{"plus sign", Point{5, 0}, Point{5, 10}, Point{0, 5}, Point{10, 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentsCross(tt.p1, tt.p2, tt.p3, tt.p4); got != tt.want {
				t.Errorf("SegmentsCross() = %v, want %v", got, tt.want)
			}
			if got := SegmentsCross(tt.p3, tt.p4, tt.p1, tt.p2); got != tt.want {
				t.Errorf("SegmentsCross() swapped = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanvasClamp(t *testing.T) {
	c := WideCanvas

	t.Run("inside point unchanged", func(t *testing.T) {
		p := c.Clamp(Point{100, 200})
		if p != (Point{100, 200}) {
			t.Errorf("expected (100,200), got %v", p)
		}
	})

	t.Run("far outside clamps to margin", func(t *testing.T) {
		p := c.Clamp(Point{-1e9, 1e9})
		if p.X != c.NodeRadius {
			t.Errorf("expected X=%f, got %f", c.NodeRadius, p.X)
		}
		if p.Y != c.Height-c.NodeRadius {
			t.Errorf("expected Y=%f, got %f", c.Height-c.NodeRadius, p.Y)
		}
		if !c.Contains(p) {
			t.Errorf("expected clamped point %v inside play field", p)
		}
	})
}

func TestViewportToCanvas(t *testing.T) {
	t.Run("scales displayed size to canvas size", func(t *testing.T) {
		v := Viewport{Left: 10, Top: 20, Width: 225, Height: 150}
		p := v.ToCanvas(CompactCanvas, 10+112.5, 20+75)
		if p.X != 225 || p.Y != 150 {
			t.Errorf("expected (225,150), got %v", p)
		}
	})

	t.Run("zero size viewport only offsets", func(t *testing.T) {
		v := Viewport{Left: 5, Top: 5}
		p := v.ToCanvas(WideCanvas, 50, 60)
		if p.X != 45 || p.Y != 55 {
			t.Errorf("expected (45,55), got %v", p)
		}
	})
}

func TestLevelsFor(t *testing.T) {
	levels := DefaultLevels()

	if got := levels.For(1); got != (LevelConfig{Nodes: 6, Edges: 8}) {
		t.Errorf("level 1: got %+v", got)
	}
	if got := levels.For(3); got != (LevelConfig{Nodes: 10, Edges: 15}) {
		t.Errorf("level 3: got %+v", got)
	}

	hardest := LevelConfig{Nodes: 12, Edges: 20}
	for _, lvl := range []int{4, 5, 99, 0, -3} {
		if got := levels.For(lvl); got != hardest {
			t.Errorf("level %d: expected hardest %+v, got %+v", lvl, hardest, got)
		}
	}

	if levels.Max() != 4 {
		t.Errorf("expected Max()=4, got %d", levels.Max())
	}
}
