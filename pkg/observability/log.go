package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level log
// lines, and errors at error level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnImportStart(_ context.Context, source, mode string) {
	h.logger.Debug("import", "source", source, "mode", mode)
}

func (h *LogHooks) OnImportComplete(_ context.Context, source string, records int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("import failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("imported", "source", source, "records", records, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, mode string, records int) {
	h.logger.Debug("layout", "mode", mode, "records", records)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, mode string, bars int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("layout failed", "mode", mode, "err", err)
		return
	}
	h.logger.Debug("laid out", "mode", mode, "bars", bars, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("rendered", "formats", formats, "duration", d)
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
	h.logger.Info("served", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.logger.Error("request failed", "method", method, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
