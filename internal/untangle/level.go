package untangle

// LevelConfig is the size of the graph generated for one difficulty.
type LevelConfig struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// Levels maps 1-based difficulty indices to their configuration.
type Levels []LevelConfig

// DefaultLevels returns the built-in difficulty table.
func DefaultLevels() Levels {
	return Levels{
		{Nodes: 6, Edges: 8},
		{Nodes: 8, Edges: 12},
		{Nodes: 10, Edges: 15},
		{Nodes: 12, Edges: 20},
	}
}

// For returns the configuration of level. Any index without its own entry,
// including zero and negatives, gets the hardest (last) entry.
func (l Levels) For(level int) LevelConfig {
	if len(l) == 0 {
		return DefaultLevels().For(level)
	}
	if level >= 1 && level <= len(l) {
		return l[level-1]
	}
	return l[len(l)-1]
}

// Max is the highest level with its own configuration.
func (l Levels) Max() int {
	return len(l)
}
