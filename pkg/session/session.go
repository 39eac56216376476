package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stemma/pkg/chord"
	"github.com/matzehuels/stemma/pkg/dot"
	"github.com/matzehuels/stemma/pkg/errors"
	"github.com/matzehuels/stemma/pkg/fetch"
	"github.com/matzehuels/stemma/pkg/geom"
	"github.com/matzehuels/stemma/pkg/observability"
	"github.com/matzehuels/stemma/pkg/render"
)

const tracerName = "github.com/matzehuels/stemma/pkg/session"

// Style selects how a description is drawn.
type Style string

const (
	// StyleStemma draws the description with its own coordinates.
	StyleStemma Style = "stemma"

	// StyleChord draws the radial chord layout.
	StyleChord Style = "chord"
)

// Valid reports whether s is a known style.
func (s Style) Valid() bool { return s == StyleStemma || s == StyleChord }

// Request describes one load.
type Request struct {
	// Source is handed to the fetcher. Ignored when Text is set.
	Source string

	// Text is an inline description.
	Text []byte

	// PassageSource, when set, is fetched alongside the description and
	// provides the diagram title.
	PassageSource string

	// Style defaults to StyleStemma.
	Style Style

	Chord  chord.Options
	Render render.Options

	// Ticket, when set, aborts the load before the surface is cleared if
	// a newer ticket was issued meanwhile.
	Ticket *Ticket
}

// Result describes a finished load.
type Result struct {
	ID          string
	Style       Style
	Description *dot.Description
	Layout      *chord.Layout // StyleChord only
	Passage     *fetch.Passage
	ViewBox     geom.BBox
	Stats       render.Stats
	Crossings   int // StyleChord only
	Duration    time.Duration
}

// Config configures a [Session].
type Config struct {
	Fetcher fetch.Fetcher
	Parser  dot.Parser
	Surface render.Surface
	Logger  *log.Logger
	Tracer  trace.Tracer
}

// Session runs loads against one surface.
type Session struct {
	id      string
	fetcher fetch.Fetcher
	parser  dot.Parser
	surface render.Surface
	logger  *log.Logger
	tracer  trace.Tracer

	mu        sync.Mutex
	state     State
	observers map[int]Observer
	nextObs   int
}

// New creates an idle session. Parser defaults to [dot.GraphvizParser]
// with auto layout; Fetcher may be nil when every request carries Text.
func New(cfg Config) *Session {
	if cfg.Parser == nil {
		cfg.Parser = dot.GraphvizParser{AutoLayout: true}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(tracerName)
	}
	id := uuid.NewString()
	return &Session{
		id:        id,
		fetcher:   cfg.Fetcher,
		parser:    cfg.Parser,
		surface:   cfg.Surface,
		logger:    cfg.Logger.With("session", id[:8]),
		tracer:    cfg.Tracer,
		observers: make(map[int]Observer),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers an observer and returns a function removing it.
func (s *Session) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = o
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Session) transition(ctx context.Context, to State, err error) {
	s.mu.Lock()
	from := s.state
	s.state = to
	obs := make([]Observer, 0, len(s.observers))
	for i := 0; i < s.nextObs; i++ {
		if o, ok := s.observers[i]; ok {
			obs = append(obs, o)
		}
	}
	s.mu.Unlock()

	s.logger.Debug("state", "from", from, "to", to)
	observability.Session().OnStateChange(ctx, from.String(), to.String())
	trace.SpanFromContext(ctx).AddEvent(to.String())
	t := Transition{SessionID: s.id, From: from, To: to, Err: err}
	for _, o := range obs {
		o(t)
	}
}

// Load runs one cycle. Structural failures (FETCH_ERROR, PARSE_ERROR,
// EMPTY_GRAPH) and [ErrSuperseded] leave the surface untouched. The call
// returns once every draw instruction has been handed to the surface.
func (s *Session) Load(ctx context.Context, req Request) (res *Result, err error) {
	if req.Style == "" {
		req.Style = StyleStemma
	}
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "session.Load",
		trace.WithAttributes(
			attribute.String("session.id", s.id),
			attribute.String("style", string(req.Style)),
			attribute.String("source", req.Source),
		),
	)
	defer span.End()
	observability.Session().OnLoadStart(ctx, string(req.Style))

	defer func() {
		var stats observability.LoadStats
		if res != nil {
			stats = observability.LoadStats(res.Stats)
		}
		observability.Session().OnLoadComplete(ctx, string(req.Style), stats, time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, errors.UserMessage(err))
			structural := errors.IsStructural(err)
			span.SetAttributes(attribute.Bool("error.structural", structural))
			s.transition(ctx, Failed, err)
			if structural {
				s.logger.Warn("load aborted, keeping previous drawing", "code", errors.GetCode(err), "err", err)
			} else {
				s.logger.Debug("load failed", "err", err)
			}
		}
	}()

	if !req.Style.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q", req.Style)
	}
	if s.surface == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "session has no surface")
	}

	s.transition(ctx, Fetching, nil)
	text, passage, err := s.fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	s.transition(ctx, Adapting, nil)
	d, err := dot.Parse(ctx, s.parser, text)
	if err != nil {
		return nil, err
	}
	for _, diag := range d.Diagnostics {
		s.logger.Warn("skipping malformed geometry", "err", diag)
	}
	if len(d.Nodes) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGraph, "description has no nodes")
	}

	res = &Result{ID: s.id, Style: req.Style, Description: d, Passage: passage}

	if req.Style == StyleChord {
		s.transition(ctx, Clustering, nil)
		opts := req.Chord
		if opts.Logger == nil {
			opts.Logger = s.logger
		}
		if res.Layout, err = chord.Compute(d, opts); err != nil {
			return nil, err
		}
		res.Crossings = chord.CountCrossings(res.Layout)
		span.SetAttributes(attribute.Int("chord.crossings", res.Crossings))
	}

	if req.Ticket != nil {
		if err := req.Ticket.Check(); err != nil {
			return nil, err
		}
	}

	s.transition(ctx, Emitting, nil)
	ropts := req.Render
	if ropts.Logger == nil {
		ropts.Logger = s.logger
	}
	if ropts.Title == "" {
		ropts.Title = passage.Title()
	}
	surface := viewBoxTap{Surface: s.surface, box: &res.ViewBox}
	if req.Style == StyleChord {
		res.Stats, err = render.EmitChord(surface, res.Layout, ropts)
	} else {
		res.Stats, err = render.EmitStemma(surface, d, ropts)
	}
	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("nodes", res.Stats.Nodes),
		attribute.Int("edges", res.Stats.Edges),
		attribute.Int("skipped", res.Stats.Skipped),
	)
	s.transition(ctx, Done, nil)
	s.logger.Debug("load done", "nodes", res.Stats.Nodes, "edges", res.Stats.Edges,
		"skipped", res.Stats.Skipped, "elapsed", res.Duration)
	return res, nil
}

// fetch retrieves the description and, concurrently, the passage.
func (s *Session) fetch(ctx context.Context, req Request) ([]byte, *fetch.Passage, error) {
	if len(req.Text) == 0 && req.Source == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "request needs a source or text")
	}
	if (len(req.Text) == 0 || req.PassageSource != "") && s.fetcher == nil {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "session has no fetcher")
	}

	var (
		text    = req.Text
		passage *fetch.Passage
	)
	g, gctx := errgroup.WithContext(ctx)
	if len(text) == 0 {
		g.Go(func() error {
			data, err := s.fetcher.Fetch(gctx, req.Source)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFetch, err, "fetch %s", req.Source)
			}
			text = data
			return nil
		})
	}
	if req.PassageSource != "" {
		g.Go(func() error {
			p, err := fetch.FetchPassage(gctx, s.fetcher, req.PassageSource)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFetch, err, "fetch passage %s", req.PassageSource)
			}
			passage = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return text, passage, nil
}

// viewBoxTap forwards to a surface and remembers the last view box.
type viewBoxTap struct {
	render.Surface
	box *geom.BBox
}

func (v viewBoxTap) SetViewBox(b geom.BBox) {
	*v.box = b
	v.Surface.SetViewBox(b)
}
