package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Errors and
// dropped nodes are logged as warnings.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks creates hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnStageStart(ctx context.Context, stage string) {
	h.Logger.Debug("stage started", "stage", stage)
}

func (h *LogHooks) OnStageComplete(ctx context.Context, stage string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("stage failed", "stage", stage, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("stage complete", "stage", stage, "nodes", nodeCount, "duration", d)
}

func (h *LogHooks) OnNodesDropped(ctx context.Context, count int) {
	h.Logger.Debug("nodes dropped", "count", count)
}

func (h *LogHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(ctx context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(ctx context.Context, method, host, path string, err error) {
	h.Logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
