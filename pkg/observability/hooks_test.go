package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stemma/pkg/errors"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSessionHooks{}
	s.OnLoadStart(ctx, "chord")
	s.OnStateChange(ctx, "idle", "fetching")
	s.OnLoadComplete(ctx, "chord", LoadStats{Nodes: 3}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "text")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	f := NoopFetchHooks{}
	f.OnResponse(ctx, "example.org", 200, time.Second)
	f.OnError(ctx, "example.org", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Session().(NoopSessionHooks); !ok {
		t.Error("Session() should return NoopSessionHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Fetch().(NoopFetchHooks); !ok {
		t.Error("Fetch() should return NoopFetchHooks by default")
	}

	p := NewPrometheus("test")
	SetSessionHooks(p)
	SetCacheHooks(p)
	SetFetchHooks(p)
	if Session() != SessionHooks(p) || Cache() != CacheHooks(p) || Fetch() != FetchHooks(p) {
		t.Error("Set*Hooks should register the given hooks")
	}

	SetSessionHooks(nil)
	if Session() != SessionHooks(p) {
		t.Error("SetSessionHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Session().(NoopSessionHooks); !ok {
		t.Error("Reset() should restore NoopSessionHooks")
	}
}

func TestPrometheus(t *testing.T) {
	ctx := context.Background()
	p := NewPrometheus("stemma")

	p.OnStateChange(ctx, "idle", "fetching")
	p.OnLoadComplete(ctx, "chord", LoadStats{Nodes: 4, Edges: 2, Skipped: 1}, time.Millisecond, nil)
	p.OnLoadComplete(ctx, "chord", LoadStats{}, time.Millisecond, errors.New(errors.ErrCodeParse, "bad"))
	p.OnCacheHit(ctx, "text")
	p.OnCacheSet(ctx, "layout", 2048)
	p.OnResponse(ctx, "example.org", 200, time.Millisecond)
	p.OnError(ctx, "example.org", io.EOF)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	out := rec.Body.String()

	for _, want := range []string{
		`stemma_loads_total{code="OK",style="chord"} 1`,
		`stemma_loads_total{code="PARSE_ERROR",style="chord"} 1`,
		`stemma_elements_total{kind="skipped"} 1`,
		`stemma_session_transitions_total{from="idle",to="fetching"} 1`,
		`stemma_upstream_requests_total{host="example.org",status="error"} 1`,
		`stemma_cache_operations_total{op="hit",type="text"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
