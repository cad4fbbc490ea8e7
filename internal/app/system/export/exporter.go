// internal/app/system/export/exporter.go
package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/trainingplanner/internal/app/system/timeouts"
	"github.com/dalemusser/trainingplanner/internal/domain/models"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// ErrExportFailed wraps every failure in the rasterise-paginate-assemble
// pipeline.
var ErrExportFailed = errors.New("export failed")

// FailureMessage is the single message shown to the user when an export
// fails.
const FailureMessage = "PDF download failed. Please try again."

// Default tuning used when Config leaves a field zero.
const (
	DefaultTimeout       = 60 * time.Second
	DefaultMaxConcurrent = 2
)

// Filename is the download name for a plan exported on day t.
func Filename(t time.Time) string {
	return "Training_Plan_Summary_" + t.Format("2006-01-02") + ".pdf"
}

// Request is one export.
type Request struct {
	Role   models.Role
	Region Region
}

// Document is a finished export.
type Document struct {
	Filename string
	Data     []byte
	Pages    int
}

// Config tunes the Exporter.
type Config struct {
	Timeout       time.Duration
	MaxConcurrent int64
	// CacheTTL keeps finished documents for repeat downloads. Zero disables
	// the cache.
	CacheTTL time.Duration
}

// Exporter runs the export pipeline. Identical concurrent requests share one
// render, the number of renders in flight is capped, and finished documents
// may be cached. Failures are never retried.
type Exporter struct {
	raster  Rasterizer
	asm     Assembler
	cfg     Config
	log     *zap.Logger
	metrics *Metrics
	now     func() time.Time

	sem   *semaphore.Weighted
	group singleflight.Group
	cache *gocache.Cache
}

// Option customises an Exporter.
type Option func(*Exporter)

// WithMetrics records export metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Exporter) { e.metrics = m }
}

// WithClock replaces time.Now, which dates the filename.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// New creates an Exporter.
func New(r Rasterizer, a Assembler, cfg Config, logger *zap.Logger, opts ...Option) *Exporter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Exporter{
		raster: r,
		asm:    a,
		cfg:    cfg,
		log:    logger,
		now:    time.Now,
		sem:    semaphore.NewWeighted(cfg.MaxConcurrent),
	}
	if cfg.CacheTTL > 0 {
		e.cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export produces the document for req.
func (e *Exporter) Export(ctx context.Context, req Request) (Document, error) {
	start := e.now()
	filename := Filename(start)
	key := cacheKey(req, filename)
	role := string(req.Role)

	if e.cache != nil {
		if v, ok := e.cache.Get(key); ok {
			e.metrics.IncrementOutcome(role, "cached")
			return v.(Document), nil
		}
	}

	v, err, shared := e.group.Do(key, func() (any, error) {
		return e.render(ctx, req, filename)
	})
	if err != nil {
		e.metrics.IncrementOutcome(role, "error")
		e.log.Warn("pdf export failed",
			zap.String("role", role),
			zap.Bool("shared", shared),
			zap.Error(err))
		return Document{}, err
	}

	doc := v.(Document)
	if e.cache != nil {
		e.cache.SetDefault(key, doc)
	}
	e.metrics.IncrementOutcome(role, "ok")
	e.metrics.ObserveDuration(e.now().Sub(start))
	e.log.Info("pdf exported",
		zap.String("role", role),
		zap.String("filename", doc.Filename),
		zap.Int("pages", doc.Pages),
		zap.Int("bytes", len(doc.Data)),
		zap.Bool("shared", shared))
	return doc, nil
}

func (e *Exporter) render(ctx context.Context, req Request, filename string) (Document, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return Document{}, fmt.Errorf("%w: waiting for renderer: %w", ErrExportFailed, err)
	}
	defer e.sem.Release(1)

	e.metrics.renderStarted()
	defer e.metrics.renderDone()

	ctx, cancel := timeouts.WithTimeout(ctx, e.cfg.Timeout, e.log, "pdf export")
	defer cancel()

	bm, err := e.raster.Rasterize(ctx, req.Region)
	if err != nil {
		return Document{}, fmt.Errorf("%w: rasterize: %w", ErrExportFailed, err)
	}

	layout, err := Paginate(bm.Width, bm.Height, A4Width, A4Height)
	if err != nil {
		return Document{}, fmt.Errorf("%w: paginate: %w", ErrExportFailed, err)
	}

	var buf bytes.Buffer
	if err := e.asm.Assemble(bm, layout, &buf); err != nil {
		return Document{}, fmt.Errorf("%w: assemble: %w", ErrExportFailed, err)
	}

	e.metrics.ObservePages(layout.Pages())
	return Document{Filename: filename, Data: buf.Bytes(), Pages: layout.Pages()}, nil
}

// cacheKey identifies a render by role, day and document content.
func cacheKey(req Request, filename string) string {
	h := sha256.New()
	h.Write([]byte(req.Role))
	h.Write([]byte{0})
	h.Write([]byte(filename))
	h.Write([]byte{0})
	h.Write([]byte(req.Region.Container))
	h.Write([]byte{0})
	h.Write([]byte(req.Region.HTML))
	return hex.EncodeToString(h.Sum(nil))
}
