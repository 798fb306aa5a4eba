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

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnStageStart(ctx, "assemble")
	p.OnStageComplete(ctx, "assemble", 42, time.Second, nil)
	p.OnNodesDropped(ctx, 3)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "obo")
	c.OnCacheMiss(ctx, "build")
	c.OnCacheSet(ctx, "build", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "purl.obolibrary.org", "/obo/hp.obo")
	h.OnResponse(ctx, "GET", "purl.obolibrary.org", "/obo/hp.obo", 200, time.Second)
	h.OnError(ctx, "GET", "purl.obolibrary.org", "/obo/hp.obo", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() default is not NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() default is not NoopCacheHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() default is not NoopHTTPHooks")
	}

	hooks := NewLogHooks(log.New(&bytes.Buffer{}))
	SetPipelineHooks(hooks)
	SetCacheHooks(hooks)
	SetHTTPHooks(hooks)
	if Pipeline() != hooks || Cache() != hooks || HTTP() != hooks {
		t.Error("Set*Hooks() did not register the hooks")
	}

	SetPipelineHooks(nil)
	if Pipeline() != hooks {
		t.Error("SetPipelineHooks(nil) replaced the hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() did not restore NoopPipelineHooks")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnStageComplete(ctx, "assemble", 12, time.Millisecond, nil)
	h.OnStageComplete(ctx, "aggregate", 0, time.Millisecond, errors.New("boom"))
	h.OnCacheHit(ctx, "obo")
	h.OnError(ctx, "GET", "example.org", "/x.obo", errors.New("reset"))

	out := buf.String()
	for _, want := range []string{"stage complete", "nodes=12", "stage failed", "err=boom", "cache hit", "http error"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
