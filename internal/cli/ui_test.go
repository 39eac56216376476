package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/stemma/pkg/graph"
	"github.com/matzehuels/stemma/pkg/render"
)

// captureOutput redirects user-facing output for the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })
	return &buf
}

func TestStatsLine(t *testing.T) {
	l := &graph.Layout{
		Style:  graph.StyleChord,
		Stats:  render.Stats{Nodes: 3, Edges: 2},
		Groups: []graph.Group{{ID: "a"}, {ID: "b"}},
	}

	got := statsLine(l, true)
	for _, want := range []string{"3 nodes", "2 edges", "2 groups", "cached"} {
		if !strings.Contains(got, want) {
			t.Errorf("statsLine() = %q, missing %q", got, want)
		}
	}
	if got := statsLine(&graph.Layout{}, false); strings.Contains(got, "nodes") || !strings.Contains(got, "fresh") {
		t.Errorf("empty layout statsLine() = %q", got)
	}
}

func TestPrintLayoutSummary(t *testing.T) {
	buf := captureOutput(t)

	printLayoutSummary(&graph.Layout{
		Style:     graph.StyleChord,
		Title:     "Acts 1:2",
		Crossings: 4,
		Stats:     render.Stats{Nodes: 2, Skipped: 1},
	}, false)

	got := buf.String()
	for _, want := range []string{"Acts 1:2", "crossings", "4", "1 elements skipped"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}

	buf.Reset()
	printLayoutSummary(&graph.Layout{Style: graph.StyleStemma}, true)
	if strings.Contains(buf.String(), "crossings") {
		t.Errorf("stemma summary reports crossings:\n%s", buf.String())
	}
}
