package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Exported 3 files (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a context carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("loading document", "path", path)
}

func (h logHooks) OnLoadComplete(_ context.Context, path string, shapes int, d time.Duration, err error) {
	h.logger.Debug("loaded document", "path", path, "shapes", shapes, "duration", d, "err", err)
}

func (h logHooks) OnValidate(_ context.Context, errs, warnings int) {
	h.logger.Debug("validated document", "errors", errs, "warnings", warnings)
}

func (h logHooks) OnExportStart(_ context.Context, formats []string) {
	h.logger.Debug("exporting", "formats", formats)
}

func (h logHooks) OnExportComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("export finished", "formats", formats, "duration", d, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, format string) {
	h.logger.Debug("cache hit", "format", format)
}

func (h logHooks) OnCacheMiss(_ context.Context, format string) {
	h.logger.Debug("cache miss", "format", format)
}

func (h logHooks) OnCacheSet(_ context.Context, format string, size int) {
	h.logger.Debug("cache store", "format", format, "bytes", size)
}
