package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawkit/pkg/cache"
	"github.com/matzehuels/drawkit/pkg/document"
	derrors "github.com/matzehuels/drawkit/pkg/errors"
	pkgio "github.com/matzehuels/drawkit/pkg/io"
	"github.com/matzehuels/drawkit/pkg/observability"
)

// Runner executes pipelines with artifact caching. It holds no per-run
// state and may be shared between goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the lifetime of cached artifacts.
	TTL time.Duration
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer
// uses the default keyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, TTL: cache.TTLArtifact}
}

// Execute loads, validates and exports a document.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{}

	// Stage 1: Load
	start := time.Now()
	doc, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats.LoadTime = time.Since(start)
	result.Stats.LayerCount = doc.Layers().LayerCount()
	result.Stats.ShapeCount = doc.TotalShapeCount()
	opts.Logger.Info("loaded document",
		"title", doc.Metadata.Title,
		"layers", result.Stats.LayerCount,
		"shapes", result.Stats.ShapeCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Validate
	start = time.Now()
	result.Report, err = r.Validate(ctx, doc, opts)
	result.Stats.ValidateTime = time.Since(start)
	if err != nil {
		return result, err
	}

	// Stage 3: Export
	start = time.Now()
	hash, err := DocumentHash(doc)
	if err != nil {
		return result, err
	}
	result.DocumentHash = hash
	artifacts, hits, err := r.ExportWithCacheInfo(ctx, doc, hash, opts)
	if err != nil {
		return result, err
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(start)
	result.CacheInfo.Hits = hits
	result.CacheInfo.ExportHit = len(hits) == len(opts.Formats)
	opts.Logger.Info("exported document",
		"formats", opts.Formats,
		"cached", len(hits),
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Load returns opts.Document, or decodes opts.Input.
func (r *Runner) Load(ctx context.Context, opts Options) (*document.Document, error) {
	if opts.Document != nil {
		return opts.Document, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Input)
	start := time.Now()
	doc, err := pkgio.ImportFile(opts.Input)
	shapes := 0
	if doc != nil {
		shapes = doc.TotalShapeCount()
	}
	hooks.OnLoadComplete(ctx, opts.Input, shapes, time.Since(start), err)
	return doc, err
}

// Validate logs the document's validation report. It fails when the report
// has errors unless opts.Force is set.
func (r *Runner) Validate(ctx context.Context, doc *document.Document, opts Options) (document.Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}
	report := doc.Validate()
	observability.Pipeline().OnValidate(ctx, len(report.Errors), len(report.Warnings))
	for _, w := range report.Warnings {
		logger.Warn(w)
	}
	for _, e := range report.Errors {
		logger.Error(e)
	}
	if !report.OK() && !opts.Force {
		return report, derrors.New(derrors.ErrCodeInvalidDocument,
			"document has %d validation errors: %s", len(report.Errors), strings.Join(report.Errors, "; "))
	}
	return report, nil
}

// ExportWithCacheInfo renders every format of opts, serving cached
// artifacts where possible. It returns the formats that hit the cache.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, doc *document.Document, hash string, opts Options) (map[string][]byte, []string, error) {
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	hooks.OnExportStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var hits []string
	var err error
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, cerr := r.Cache.Get(ctx, key); cerr == nil && hit {
				cacheHooks.OnCacheHit(ctx, format)
				artifacts[format] = data
				hits = append(hits, format)
				continue
			}
			cacheHooks.OnCacheMiss(ctx, format)
		}

		var data []byte
		if data, err = exportFormat(ctx, doc, format, opts); err != nil {
			break
		}
		artifacts[format] = data
		if serr := r.Cache.Set(ctx, key, data, r.TTL); serr == nil {
			cacheHooks.OnCacheSet(ctx, format, len(data))
		} else {
			r.Logger.Debug("cache write failed", "format", format, "err", serr)
		}
	}

	hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return artifacts, hits, nil
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// DocumentHash returns the SHA-256 of doc's JSON encoding.
func DocumentHash(doc *document.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", derrors.Wrap(derrors.ErrCodeInternal, err, "encode document")
	}
	return cache.Hash(data), nil
}
