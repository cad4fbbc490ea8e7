// internal/app/system/export/rasterizer.go
package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// ScaleFactor is the supersampling factor used when capturing.
const ScaleFactor = 2

// Region is a rendered document to capture.
type Region struct {
	// HTML is a complete, self-contained document (styles inlined).
	HTML string
	// Container is the CSS selector of the scroll container whose height
	// clamp is lifted during capture. Defaults to "body".
	Container string
	// ViewportWidth is the CSS pixel width the document is laid out at.
	ViewportWidth int
}

// Bitmap is a captured PNG and its pixel size.
type Bitmap struct {
	PNG    []byte
	Width  int
	Height int
}

// Rasterizer captures a Region as a single bitmap.
type Rasterizer interface {
	Rasterize(ctx context.Context, region Region) (Bitmap, error)
}

const (
	defaultContainer     = "body"
	defaultViewportWidth = 1100
	initialViewportH     = 800

	// cleanupTimeout bounds closing a page and restoring its style.
	cleanupTimeout = 5 * time.Second
)

const unclampJS = `(sel) => {
	const el = document.querySelector(sel) || document.body;
	el.setAttribute('data-tp-prev-style', el.getAttribute('style') || '');
	el.style.overflow = 'visible';
	el.style.height = 'auto';
	el.style.maxHeight = 'none';
	return true;
}`

const restoreJS = `(sel) => {
	const el = document.querySelector(sel) || document.body;
	const prev = el.getAttribute('data-tp-prev-style');
	if (prev === null) return false;
	if (prev === '') el.removeAttribute('style'); else el.setAttribute('style', prev);
	el.removeAttribute('data-tp-prev-style');
	return true;
}`

const nextFrameJS = `() => new Promise((resolve) => requestAnimationFrame(() => resolve(true)))`

// RodConfig configures the headless Chrome rasterizer.
type RodConfig struct {
	// ControlURL connects to an already running browser when set.
	ControlURL string
	// Bin is the Chrome/Chromium binary to launch. Empty lets rod locate or
	// download one.
	Bin string
}

// RodRasterizer renders regions in headless Chrome via go-rod. The browser is
// started on first use and shared by all captures; each capture gets its own
// page.
type RodRasterizer struct {
	cfg RodConfig
	log *zap.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// NewRodRasterizer creates a rasterizer. No browser is started until the
// first Rasterize call.
func NewRodRasterizer(cfg RodConfig, logger *zap.Logger) *RodRasterizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RodRasterizer{cfg: cfg, log: logger}
}

func (r *RodRasterizer) connect(ctx context.Context) (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		if _, err := r.browser.Version(); err == nil {
			return r.browser, nil
		}
		r.log.Warn("stale browser connection; reconnecting")
		_ = r.browser.Close()
		r.browser = nil
	}

	controlURL := r.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if r.cfg.Bin != "" {
			l = l.Bin(r.cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		r.launcher = l
		controlURL = u
		r.log.Info("headless chrome launched", zap.String("control_url", controlURL))
	}

	// The browser outlives the request that started it.
	b := rod.New().ControlURL(controlURL).Context(context.WithoutCancel(ctx))
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	r.browser = b
	return b, nil
}

// Rasterize loads region into a fresh page, lifts the container's height
// clamp, waits one animation frame, and captures the full page at
// ScaleFactor. The style override is restored whether or not capture
// succeeds, and the page is closed even when ctx is done.
func (r *RodRasterizer) Rasterize(ctx context.Context, region Region) (Bitmap, error) {
	b, err := r.connect(ctx)
	if err != nil {
		return Bitmap{}, err
	}

	// page stays on the browser's context so cleanup still reaches Chrome
	// after ctx is canceled.
	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return Bitmap{}, fmt.Errorf("create page: %w", err)
	}
	defer func() {
		if cerr := page.Timeout(cleanupTimeout).Close(); cerr != nil {
			r.log.Warn("closing export page failed", zap.Error(cerr))
		}
	}()

	return r.capture(ctx, page, region)
}

// capture renders region on page. Work is bound to ctx; the style restore is
// not.
func (r *RodRasterizer) capture(ctx context.Context, page *rod.Page, region Region) (Bitmap, error) {
	p := page.Context(ctx)

	width := region.ViewportWidth
	if width <= 0 {
		width = defaultViewportWidth
	}
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            initialViewportH,
		DeviceScaleFactor: ScaleFactor,
		Mobile:            false,
	}).Call(p); err != nil {
		return Bitmap{}, fmt.Errorf("set viewport: %w", err)
	}

	if err := p.SetDocumentContent(region.HTML); err != nil {
		return Bitmap{}, fmt.Errorf("load document: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return Bitmap{}, fmt.Errorf("wait load: %w", err)
	}

	container := region.Container
	if container == "" {
		container = defaultContainer
	}
	if _, err := p.Eval(unclampJS, container); err != nil {
		return Bitmap{}, fmt.Errorf("unclamp container: %w", err)
	}
	defer func() {
		if _, rerr := page.Timeout(cleanupTimeout).Eval(restoreJS, container); rerr != nil {
			r.log.Debug("restore container style failed", zap.Error(rerr))
		}
	}()

	if _, err := p.Eval(nextFrameJS); err != nil {
		return Bitmap{}, fmt.Errorf("wait for layout: %w", err)
	}

	data, err := p.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return Bitmap{}, fmt.Errorf("capture: %w", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Bitmap{}, fmt.Errorf("decode capture: %w", err)
	}
	return Bitmap{PNG: data, Width: cfg.Width, Height: cfg.Height}, nil
}

// Close shuts the browser down and kills a launched process.
func (r *RodRasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}
