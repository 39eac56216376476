package session

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stemma/pkg/dot"
	"github.com/matzehuels/stemma/pkg/errors"
	"github.com/matzehuels/stemma/pkg/fetch"
	"github.com/matzehuels/stemma/pkg/render"
)

// fixtures maps description text to the statements a parser would return.
var fixtures = map[string][]dot.Statement{
	"stemma": {
		dot.Attr(dot.ScopeGraph, map[string]string{"bb": "0,0,100,50"}),
		dot.NodeStmt("A", map[string]string{"pos": "20,25", "width": "0.5", "height": "0.5"}),
		dot.NodeStmt("B", map[string]string{"pos": "80,25", "width": "0.5", "height": "0.5"}),
		dot.EdgeStmt("A", "B", map[string]string{"pos": "e,62,25 38,25 45,25 52,25 56,25"}),
		dot.EdgeStmt("A", "ghost", nil),
	},
	"chord": {
		dot.SubgraphStmt("a",
			dot.Attr(dot.ScopeGraph, map[string]string{"label": "a"}),
			dot.NodeStmt("1", map[string]string{"labez": "a"}),
			dot.NodeStmt("2", map[string]string{"labez": "a"}),
		),
		dot.SubgraphStmt("b",
			dot.Attr(dot.ScopeGraph, map[string]string{"label": "b"}),
			dot.NodeStmt("3", map[string]string{"labez": "b"}),
			dot.NodeStmt("4", map[string]string{"labez": "b"}),
		),
		dot.EdgeStmt("1", "3", nil),
		dot.EdgeStmt("2", "4", nil),
	},
	"empty": {},
}

var fixtureParser = dot.ParserFunc(func(ctx context.Context, text []byte) ([]dot.Statement, error) {
	stmts, ok := fixtures[string(text)]
	if !ok {
		return nil, errors.New(errors.ErrCodeParse, "syntax error in %q", text)
	}
	return stmts, nil
})

var sources = fetch.Static{
	"stemma.dot":   "stemma",
	"chord.dot":    "chord",
	"empty.dot":    "empty",
	"broken.dot":   "digraph {",
	"passage.json": `{"pass_id": 3, "hr": "Acts 1:3", "reading": "b"}`,
}

func newTestSession() (*Session, *render.Recorder, *[]Transition) {
	rec := render.NewRecorder()
	s := New(Config{Fetcher: sources, Parser: fixtureParser, Surface: rec})
	var seen []Transition
	s.Subscribe(func(t Transition) { seen = append(seen, t) })
	return s, rec, &seen
}

func states(ts []Transition) []State {
	out := make([]State, len(ts))
	for i, t := range ts {
		out[i] = t.To
	}
	return out
}

func TestLoadStemma(t *testing.T) {
	s, rec, seen := newTestSession()

	res, err := s.Load(context.Background(), Request{Source: "stemma.dot"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := []State{Fetching, Adapting, Emitting, Done}
	if got := states(*seen); !slices.Equal(got, want) {
		t.Errorf("transitions = %v, want %v", got, want)
	}
	if s.State() != Done {
		t.Errorf("State() = %v, want done", s.State())
	}
	if res.Stats.Nodes != 2 || res.Stats.Edges != 1 || res.Stats.Skipped != 1 {
		t.Errorf("Stats = %+v, want 2 nodes, 1 edge, unresolved edge skipped", res.Stats)
	}
	if len(res.Description.Edges) != 2 {
		t.Errorf("unresolved edge should stay in the description")
	}
	if rec.Log[0] != "clear" {
		t.Errorf("first surface call = %s, want clear", rec.Log[0])
	}
	if res.ViewBox != rec.ViewBox || res.ViewBox.Width == 0 {
		t.Errorf("ViewBox = %+v, surface has %+v", res.ViewBox, rec.ViewBox)
	}
	if res.ID != s.ID() || len(s.ID()) != 36 {
		t.Errorf("result ID %q, session ID %q", res.ID, s.ID())
	}
}

func TestLoadChordWithPassage(t *testing.T) {
	s, rec, seen := newTestSession()

	res, err := s.Load(context.Background(), Request{
		Source:        "chord.dot",
		PassageSource: "passage.json",
		Style:         StyleChord,
	})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := []State{Fetching, Adapting, Clustering, Emitting, Done}
	if got := states(*seen); !slices.Equal(got, want) {
		t.Errorf("transitions = %v, want %v", got, want)
	}
	if res.Layout == nil || len(res.Layout.Leaves) != 4 {
		t.Fatalf("Layout = %+v, want 4 leaves", res.Layout)
	}
	if res.Crossings < 0 || res.Crossings > 1 {
		t.Errorf("Crossings = %d, want at most 1 for two links", res.Crossings)
	}
	if res.Passage == nil || res.Passage.ID != 3 {
		t.Errorf("Passage = %+v", res.Passage)
	}

	var title string
	for _, sh := range rec.Shapes {
		if txt, ok := sh.(*render.Text); ok && txt.Class == "title" {
			title = txt.Text
		}
	}
	if title != "Acts 1:3 (b)" {
		t.Errorf("title = %q, want passage title", title)
	}
}

func TestLoadInlineText(t *testing.T) {
	rec := render.NewRecorder()
	s := New(Config{Parser: fixtureParser, Surface: rec})

	if _, err := s.Load(context.Background(), Request{Text: []byte("stemma")}); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if rec.Count("ellipse") != 2 {
		t.Errorf("ellipses = %d, want 2", rec.Count("ellipse"))
	}
}

func TestLoadFailuresKeepPreviousDrawing(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		code errors.Code
	}{
		{"fetch", Request{Source: "missing.dot"}, errors.ErrCodeFetch},
		{"passage", Request{Source: "stemma.dot", PassageSource: "missing.json"}, errors.ErrCodeFetch},
		{"parse", Request{Source: "broken.dot"}, errors.ErrCodeParse},
		{"empty", Request{Source: "empty.dot"}, errors.ErrCodeEmptyGraph},
		{"style", Request{Source: "stemma.dot", Style: "radial"}, errors.ErrCodeInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec, seen := newTestSession()
			if _, err := s.Load(context.Background(), Request{Source: "stemma.dot"}); err != nil {
				t.Fatal(err)
			}
			shapes := len(rec.Shapes)
			rec.Log = nil
			*seen = nil

			_, err := s.Load(context.Background(), tt.req)
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if len(rec.Log) != 0 || len(rec.Shapes) != shapes {
				t.Errorf("surface touched: %v", rec.Log)
			}
			if s.State() != Failed {
				t.Errorf("State() = %v, want failed", s.State())
			}
			last := (*seen)[len(*seen)-1]
			if last.To != Failed || last.Err == nil {
				t.Errorf("last transition = %+v, want failed with error", last)
			}
		})
	}
}

func TestLoadFailureLogLevel(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		warn bool
	}{
		{"parse", Request{Source: "broken.dot"}, true},
		{"empty", Request{Source: "empty.dot"}, true},
		{"fetch", Request{Source: "missing.dot"}, true},
		{"style", Request{Source: "stemma.dot", Style: "radial"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := New(Config{
				Fetcher: sources,
				Parser:  fixtureParser,
				Surface: render.NewRecorder(),
				Logger:  log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel}),
			})
			if _, err := s.Load(context.Background(), tt.req); err == nil {
				t.Fatal("expected error")
			}
			if got := strings.Contains(buf.String(), "load aborted"); got != tt.warn {
				t.Errorf("warned = %v, want %v: %q", got, tt.warn, buf.String())
			}
		})
	}
}

func TestLoadSuperseded(t *testing.T) {
	s, rec, _ := newTestSession()
	tracker := &Tracker{}

	stale := tracker.Next()
	fresh := tracker.Next()

	_, err := s.Load(context.Background(), Request{Source: "stemma.dot", Ticket: &stale})
	if err != ErrSuperseded {
		t.Fatalf("error = %v, want ErrSuperseded", err)
	}
	if len(rec.Log) != 0 {
		t.Errorf("superseded load touched the surface: %v", rec.Log)
	}

	if _, err := s.Load(context.Background(), Request{Source: "stemma.dot", Ticket: &fresh}); err != nil {
		t.Errorf("current ticket: %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	s := New(Config{Fetcher: sources, Parser: fixtureParser, Surface: render.NewRecorder()})
	var a, b int
	unsubscribe := s.Subscribe(func(Transition) { a++ })
	s.Subscribe(func(Transition) { b++ })

	if _, err := s.Load(context.Background(), Request{Source: "stemma.dot"}); err != nil {
		t.Fatal(err)
	}
	unsubscribe()
	if _, err := s.Load(context.Background(), Request{Source: "stemma.dot"}); err != nil {
		t.Fatal(err)
	}
	if a != 4 || b != 8 {
		t.Errorf("observer calls = %d, %d; want 4, 8", a, b)
	}
}

func TestTracker(t *testing.T) {
	var tr Tracker
	var zero Ticket
	if !zero.Current() {
		t.Error("zero ticket should be current")
	}

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Next()
		}()
	}
	wg.Wait()
	if tr.Generation() != 50 {
		t.Errorf("Generation() = %d, want 50", tr.Generation())
	}

	last := tr.Next()
	if !last.Current() || last.Check() != nil {
		t.Error("latest ticket should be current")
	}
	tr.Next()
	if last.Current() || !errors.Is(last.Check(), errors.ErrCodeSuperseded) {
		t.Error("older ticket should be superseded")
	}
}

func TestStateString(t *testing.T) {
	if Clustering.String() != "clustering" || State(99).String() != "unknown" {
		t.Error("unexpected state names")
	}
	if !Done.Terminal() || !Failed.Terminal() || Emitting.Terminal() {
		t.Error("unexpected terminal states")
	}
}

func TestLoadWithGraphviz(t *testing.T) {
	rec := render.NewRecorder()
	s := New(Config{Surface: rec})

	res, err := s.Load(context.Background(), Request{
		Text:  []byte(`digraph { subgraph cluster_a { label="a"; A; B } C; A -> C; B -> C }`),
		Style: StyleStemma,
	})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if res.Stats.Nodes != 3 || res.Stats.Edges != 2 {
		t.Errorf("Stats = %+v, want 3 nodes, 2 edges", res.Stats)
	}
}
