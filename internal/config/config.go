// Package config loads server settings from the environment and the optional
// puzzle level table from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Zachkp/untangle/internal/untangle"
)

// Config holds the server settings.
type Config struct {
	Port             string
	DBPath           string
	StaticDir        string
	AdminUsername    string
	AdminPassword    string
	PuzzleFile       string
	Canvas           string
	SessionTTL       time.Duration
	NewPuzzleRate    float64
	NewPuzzleBurst   int
	VisitorRetention time.Duration

	// DefaultCredentials is set when the admin login fell back to the built-in pair.
	DefaultCredentials bool
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		DBPath:        getenv("DB_PATH", "./portfolio.db"),
		StaticDir:     getenv("STATIC_DIR", "./static"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		PuzzleFile:    os.Getenv("PUZZLE_FILE"),
		Canvas:        getenv("PUZZLE_CANVAS", "wide"),
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		cfg.DefaultCredentials = true
		if cfg.AdminUsername == "" {
			cfg.AdminUsername = "admin"
		}
		if cfg.AdminPassword == "" {
			cfg.AdminPassword = "admin123"
		}
	}

	var err error
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.VisitorRetention, err = durationEnv("VISITOR_RETENTION", 365*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.NewPuzzleRate, err = floatEnv("NEW_PUZZLE_RATE", 2); err != nil {
		return nil, err
	}
	if cfg.NewPuzzleBurst, err = intEnv("NEW_PUZZLE_BURST", 10); err != nil {
		return nil, err
	}

	if _, err := CanvasPreset(cfg.Canvas); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CanvasPreset resolves a named canvas size.
func CanvasPreset(name string) (untangle.Canvas, error) {
	switch name {
	case "", "wide":
		return untangle.WideCanvas, nil
	case "compact":
		return untangle.CompactCanvas, nil
	default:
		return untangle.Canvas{}, fmt.Errorf("unknown canvas %q (want wide or compact)", name)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return f, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be at least 1", key)
	}
	return n, nil
}

// PuzzleFile is the YAML layout of a level table.
type PuzzleFile struct {
	Canvas *CanvasSpec `yaml:"canvas,omitempty"`
	Levels []LevelSpec `yaml:"levels"`
}

// CanvasSpec overrides the canvas preset.
type CanvasSpec struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	NodeRadius float64 `yaml:"node_radius"`
}

// LevelSpec is one difficulty entry.
type LevelSpec struct {
	Nodes int `yaml:"nodes"`
	Edges int `yaml:"edges"`
}

// ErrInvalidPuzzleFile is returned for level tables that cannot be played.
var ErrInvalidPuzzleFile = errors.New("invalid puzzle file")

// LoadPuzzle returns the canvas and level table to play with. An empty path
// keeps the built-in levels on the given canvas.
func LoadPuzzle(path string, canvas untangle.Canvas) (untangle.Canvas, untangle.Levels, error) {
	if path == "" {
		return canvas, untangle.DefaultLevels(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return canvas, nil, fmt.Errorf("reading puzzle file: %w", err)
	}
	return ParsePuzzle(data, canvas)
}

// ParsePuzzle decodes and validates a YAML level table.
func ParsePuzzle(data []byte, canvas untangle.Canvas) (untangle.Canvas, untangle.Levels, error) {
	var f PuzzleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return canvas, nil, fmt.Errorf("parsing puzzle file: %w", err)
	}

	if f.Canvas != nil {
		canvas = untangle.Canvas{Width: f.Canvas.Width, Height: f.Canvas.Height, NodeRadius: f.Canvas.NodeRadius}
	}
	if canvas.NodeRadius <= 0 {
		return canvas, nil, fmt.Errorf("%w: node_radius must be positive", ErrInvalidPuzzleFile)
	}
	if canvas.Width <= 2*canvas.NodeRadius || canvas.Height <= 2*canvas.NodeRadius {
		return canvas, nil, fmt.Errorf("%w: canvas %gx%g too small for radius %g",
			ErrInvalidPuzzleFile, canvas.Width, canvas.Height, canvas.NodeRadius)
	}

	if len(f.Levels) == 0 {
		return canvas, nil, fmt.Errorf("%w: no levels", ErrInvalidPuzzleFile)
	}
	levels := make(untangle.Levels, len(f.Levels))
	for i, l := range f.Levels {
		if l.Nodes < 2 {
			return canvas, nil, fmt.Errorf("%w: level %d needs at least 2 nodes", ErrInvalidPuzzleFile, i+1)
		}
		if l.Edges < 0 {
			return canvas, nil, fmt.Errorf("%w: level %d has negative edges", ErrInvalidPuzzleFile, i+1)
		}
		levels[i] = untangle.LevelConfig{Nodes: l.Nodes, Edges: l.Edges}
	}
	return canvas, levels, nil
}
