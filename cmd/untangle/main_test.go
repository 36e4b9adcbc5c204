package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const crossed = `{
  "nodes": [{"id":0,"x":50,"y":50},{"id":1,"x":150,"y":150},{"id":2,"x":150,"y":50},{"id":3,"x":50,"y":150}],
  "edges": [{"source":0,"target":1},{"source":2,"target":3}]
}`

const untangled = `{
  "nodes": [{"id":0,"x":50,"y":50},{"id":1,"x":150,"y":50},{"id":2,"x":150,"y":150},{"id":3,"x":50,"y":150}],
  "edges": [{"source":0,"target":1},{"source":2,"target":3}]
}`

func TestLevelsCommand(t *testing.T) {
	out, err := run(t, "", "levels")
	if err != nil {
		t.Fatalf("levels error = %v", err)
	}
	if !strings.Contains(out, "600x400") {
		t.Errorf("expected wide canvas in output, got:\n%s", out)
	}
	if !strings.Contains(out, "12      20") && !strings.Contains(out, "12     20") {
		t.Errorf("expected hardest level row in output, got:\n%s", out)
	}

	out, err = run(t, "", "levels", "--canvas", "compact")
	if err != nil {
		t.Fatalf("levels error = %v", err)
	}
	if !strings.Contains(out, "450x300") {
		t.Errorf("expected compact canvas in output, got:\n%s", out)
	}

	if _, err := run(t, "", "levels", "--canvas", "giant"); err == nil {
		t.Error("expected error for unknown canvas")
	}
}

func TestCheckCommand(t *testing.T) {
	t.Run("crossing drawing fails", func(t *testing.T) {
		out, err := run(t, crossed, "check")
		if !errors.Is(err, errTangled) {
			t.Fatalf("expected errTangled, got %v", err)
		}
		if !strings.Contains(out, "edge 0 (0-1) crosses edge 1 (2-3)") {
			t.Errorf("expected crossing report, got:\n%s", out)
		}
	})

	t.Run("clear drawing passes", func(t *testing.T) {
		out, err := run(t, untangled, "check", "-")
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if !strings.Contains(out, "Untangled") {
			t.Errorf("expected untangled report, got:\n%s", out)
		}
	})

	t.Run("reads a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "drawing.json")
		if err := os.WriteFile(path, []byte(untangled), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := run(t, "", "check", path); err != nil {
			t.Errorf("expected success, got %v", err)
		}
	})

	t.Run("invalid graph", func(t *testing.T) {
		_, err := run(t, `{"nodes":[{"id":0,"x":1,"y":1}],"edges":[{"source":0,"target":0}]}`, "check")
		if err == nil || errors.Is(err, errTangled) {
			t.Errorf("expected a validation error, got %v", err)
		}
	})
}

func TestGenerateRoundTrip(t *testing.T) {
	out, err := run(t, "", "generate", "--level", "2", "--seed", "7", "--json")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}

	d, err := readDrawing(strings.NewReader(out))
	if err != nil {
		t.Fatalf("readDrawing() error = %v", err)
	}
	if d.Level != 2 || len(d.Nodes) != 8 || len(d.Edges) == 0 || len(d.Edges) > 12 {
		t.Fatalf("unexpected drawing: level %d, %d nodes, %d edges", d.Level, len(d.Nodes), len(d.Edges))
	}

	// The generated drawing is valid input for check, tangled or not.
	_, err = run(t, out, "check")
	if err != nil && !errors.Is(err, errTangled) {
		t.Errorf("check rejected generated drawing: %v", err)
	}

	again, _ := run(t, "", "generate", "--level", "2", "--seed", "7", "--json")
	if again != out {
		t.Error("expected the same seed to produce the same drawing")
	}
}
