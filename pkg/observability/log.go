package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline, cache and HTTP events to a logger at debug
// level, and failures at warn level. It implements all three hook
// interfaces and is what the CLI registers under --verbose.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger. A nil logger uses the
// charmbracelet default.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("obs")}
}

func (h *LogHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load start", "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, features int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("load failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("load done", "source", source, "features", features, "took", d)
}

func (h *LogHooks) OnComposeStart(_ context.Context, layers int) {
	h.logger.Debug("compose start", "layers", layers)
}

func (h *LogHooks) OnComposeComplete(_ context.Context, shapes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("compose failed", "err", err)
		return
	}
	h.logger.Debug("compose done", "shapes", shapes, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "took", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
