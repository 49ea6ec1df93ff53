package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type recordingHooks struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks
	events []string
}

func (r *recordingHooks) OnLayoutStart(_ context.Context, measure string, n int) {
	r.events = append(r.events, "layout:"+measure)
}

func (r *recordingHooks) OnCacheMiss(_ context.Context, kind string) {
	r.events = append(r.events, "miss:"+kind)
}

func (r *recordingHooks) OnRequest(_ context.Context, method, path string) {
	r.events = append(r.events, method+" "+path)
}

func TestNoopDefaults(t *testing.T) {
	Reset()
	ctx := context.Background()

	Pipeline().OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)
	Cache().OnCacheSet(ctx, "artifact", 1024)
	HTTP().OnError(ctx, "POST", "/render", nil)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}
}

func TestSetHooks(t *testing.T) {
	defer Reset()
	rec := &recordingHooks{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	SetHTTPHooks(rec)

	// nil never replaces a backend
	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	ctx := context.Background()
	Pipeline().OnLayoutStart(ctx, "cell", 4)
	Cache().OnCacheMiss(ctx, "layout")
	HTTP().OnRequest(ctx, "GET", "/fonts")

	want := []string{"layout:cell", "miss:layout", "GET /fonts"}
	if strings.Join(rec.events, "|") != strings.Join(want, "|") {
		t.Errorf("events = %v, want %v", rec.events, want)
	}

	Reset()
	if Pipeline() == PipelineHooks(rec) {
		t.Error("Reset() kept the recording pipeline backend")
	}
}

func TestLogHooks(t *testing.T) {
	defer Reset()
	var buf bytes.Buffer
	NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})).Register()

	ctx := context.Background()
	Pipeline().OnParseComplete(ctx, "example.orca", 10, time.Millisecond, nil)
	Pipeline().OnLayoutComplete(ctx, "cell", time.Millisecond, errors.New("no glyph"))
	Cache().OnCacheHit(ctx, "artifact")
	HTTP().OnResponse(ctx, "POST", "/render", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"Parse complete", "nodes=10", "Layout failed", "no glyph", "Cache hit", "type=artifact", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksRespectLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnCacheMiss(context.Background(), "layout")
	if buf.Len() != 0 {
		t.Errorf("debug event logged at info level: %q", buf.String())
	}
}
