package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/Zachkp/untangle/internal/untangle"
)

// drawing is the JSON form of a puzzle layout read by check and written by generate.
type drawing struct {
	Canvas *untangle.Canvas `json:"canvas,omitempty"`
	Level  int              `json:"level,omitempty"`
	Nodes  []untangle.Node  `json:"nodes"`
	Edges  []untangle.Edge  `json:"edges"`
}

func readDrawing(r io.Reader) (*drawing, error) {
	var d drawing
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding drawing: %w", err)
	}
	return &d, nil
}

func writeDrawing(w io.Writer, s untangle.State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(drawing{
		Canvas: &s.Canvas,
		Level:  s.Level,
		Nodes:  s.Nodes,
		Edges:  s.Edges,
	})
}

func printSummary(w io.Writer, s untangle.State, crossings []untangle.Crossing) {
	nodeRows := make([][]string, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		nodeRows = append(nodeRows, []string{strconv.Itoa(n.ID), fmt.Sprintf("%.1f", n.X), fmt.Sprintf("%.1f", n.Y)})
	}
	table(w, []string{"NODE", "X", "Y"}, nodeRows)
	fmt.Fprintln(w)

	crossed := make(map[int]bool)
	for _, c := range crossings {
		crossed[c.I] = true
		crossed[c.J] = true
	}
	edgeRows := make([][]string, 0, len(s.Edges))
	for i, e := range s.Edges {
		edgeRows = append(edgeRows, []string{strconv.Itoa(i), fmt.Sprintf("%d-%d", e.Source, e.Target), statusIcon(!crossed[i])})
	}
	table(w, []string{"EDGE", "NODES", "CLEAR"}, edgeRows)
	fmt.Fprintln(w)
}
