package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level; failures are
// logged as warnings.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

// Register installs h as the pipeline, cache, and HTTP hooks.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnFetchStart(_ context.Context, database string) {
	h.Logger.Debug("fetch started", "database", database)
}

func (h *LogHooks) OnFetchComplete(_ context.Context, database string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("fetch failed", "database", database, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("fetch complete", "database", database, "nodes", nodeCount, "duration", d)
}

func (h *LogHooks) OnConcentrateStart(_ context.Context, strategy string, nodeCount, edgeCount int) {
	h.Logger.Debug("concentrate started", "strategy", strategy, "nodes", nodeCount, "edges", edgeCount)
}

func (h *LogHooks) OnConcentrateComplete(_ context.Context, strategy string, concentrations int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("concentrate failed", "strategy", strategy, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("concentrate complete", "strategy", strategy, "concentrations", concentrations, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.Logger.Warn("request failed", "method", method, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
