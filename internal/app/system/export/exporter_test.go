package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/trainingplanner/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

type fakeRasterizer struct {
	bm      Bitmap
	err     error
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, _ Region) (Bitmap, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return Bitmap{}, ctx.Err()
		}
	}
	return f.bm, f.err
}

type fakeAssembler struct {
	err   error
	pages int
}

func (f *fakeAssembler) Assemble(_ Bitmap, layout Layout, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	f.pages = layout.Pages()
	_, err := w.Write([]byte("%PDF-fake"))
	return err
}

func fixedClock() time.Time {
	return time.Date(2026, time.March, 5, 14, 30, 0, 0, time.UTC)
}

func instrumentRequest(html string) Request {
	return Request{
		Role:   models.RoleInstrumentTechnicians,
		Region: Region{HTML: html, Container: "#summary"},
	}
}

func TestFilename(t *testing.T) {
	got := Filename(fixedClock())
	if got != "Training_Plan_Summary_2026-03-05.pdf" {
		t.Errorf("Filename = %q", got)
	}
}

func TestExport_Success(t *testing.T) {
	r := &fakeRasterizer{bm: Bitmap{PNG: []byte{1}, Width: 1000, Height: 3000}}
	a := &fakeAssembler{}
	e := New(r, a, Config{}, zap.NewNop(), WithClock(fixedClock))

	doc, err := e.Export(context.Background(), instrumentRequest("<p>plan</p>"))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if doc.Filename != "Training_Plan_Summary_2026-03-05.pdf" {
		t.Errorf("Filename = %q", doc.Filename)
	}
	if doc.Pages != 3 || a.pages != 3 {
		t.Errorf("pages = %d (assembler saw %d), want 3", doc.Pages, a.pages)
	}
	if !bytes.Equal(doc.Data, []byte("%PDF-fake")) {
		t.Errorf("Data = %q", doc.Data)
	}
}

func TestExport_FailuresWrapErrExportFailed(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		r    *fakeRasterizer
		a    *fakeAssembler
	}{
		{"rasterize", &fakeRasterizer{err: boom}, &fakeAssembler{}},
		{"empty bitmap", &fakeRasterizer{bm: Bitmap{}}, &fakeAssembler{}},
		{"assemble", &fakeRasterizer{bm: Bitmap{PNG: []byte{1}, Width: 10, Height: 10}}, &fakeAssembler{err: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.r, tt.a, Config{CacheTTL: time.Minute}, zap.NewNop())
			doc, err := e.Export(context.Background(), instrumentRequest("x"))
			if !errors.Is(err, ErrExportFailed) {
				t.Fatalf("err = %v, want ErrExportFailed", err)
			}
			if len(doc.Data) != 0 {
				t.Errorf("partial document returned: %d bytes", len(doc.Data))
			}
		})
	}
}

func TestExport_FailureIsNotRetriedOrCached(t *testing.T) {
	r := &fakeRasterizer{err: errors.New("chrome crashed")}
	e := New(r, &fakeAssembler{}, Config{CacheTTL: time.Minute}, zap.NewNop())

	for i := 0; i < 2; i++ {
		if _, err := e.Export(context.Background(), instrumentRequest("x")); err == nil {
			t.Fatalf("attempt %d: expected error", i)
		}
	}
	if got := r.calls.Load(); got != 2 {
		t.Errorf("rasterize calls = %d, want 2 (one per attempt)", got)
	}
}

func TestExport_CacheHit(t *testing.T) {
	r := &fakeRasterizer{bm: Bitmap{PNG: []byte{1}, Width: 100, Height: 100}}
	e := New(r, &fakeAssembler{}, Config{CacheTTL: time.Minute}, zap.NewNop(), WithClock(fixedClock))

	for i := 0; i < 3; i++ {
		if _, err := e.Export(context.Background(), instrumentRequest("same")); err != nil {
			t.Fatalf("Export %d: %v", i, err)
		}
	}
	if got := r.calls.Load(); got != 1 {
		t.Errorf("rasterize calls = %d, want 1", got)
	}

	if _, err := e.Export(context.Background(), instrumentRequest("changed")); err != nil {
		t.Fatalf("Export changed: %v", err)
	}
	if got := r.calls.Load(); got != 2 {
		t.Errorf("rasterize calls after content change = %d, want 2", got)
	}
}

func TestExport_CacheDisabled(t *testing.T) {
	r := &fakeRasterizer{bm: Bitmap{PNG: []byte{1}, Width: 100, Height: 100}}
	e := New(r, &fakeAssembler{}, Config{}, zap.NewNop())

	for i := 0; i < 2; i++ {
		if _, err := e.Export(context.Background(), instrumentRequest("same")); err != nil {
			t.Fatalf("Export %d: %v", i, err)
		}
	}
	if got := r.calls.Load(); got != 2 {
		t.Errorf("rasterize calls = %d, want 2", got)
	}
}

func TestExport_ConcurrencyCap(t *testing.T) {
	r := &fakeRasterizer{
		bm:      Bitmap{PNG: []byte{1}, Width: 100, Height: 100},
		started: make(chan struct{}, 4),
		release: make(chan struct{}),
	}
	e := New(r, &fakeAssembler{}, Config{MaxConcurrent: 1}, zap.NewNop())

	var wg sync.WaitGroup
	for _, html := range []string{"first", "second"} {
		wg.Add(1)
		go func(html string) {
			defer wg.Done()
			if _, err := e.Export(context.Background(), instrumentRequest(html)); err != nil {
				t.Errorf("Export %s: %v", html, err)
			}
		}(html)
	}

	<-r.started
	select {
	case <-r.started:
		t.Fatal("second render started while the first held the only slot")
	case <-time.After(50 * time.Millisecond):
	}

	close(r.release)
	wg.Wait()

	if got := r.calls.Load(); got != 2 {
		t.Errorf("rasterize calls = %d, want 2", got)
	}
}

func TestExport_ContextCanceledWhileWaiting(t *testing.T) {
	r := &fakeRasterizer{
		bm:      Bitmap{PNG: []byte{1}, Width: 100, Height: 100},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	e := New(r, &fakeAssembler{}, Config{MaxConcurrent: 1}, zap.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = e.Export(context.Background(), instrumentRequest("holder"))
	}()
	<-r.started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Export(ctx, instrumentRequest("waiter"))
	if !errors.Is(err, ErrExportFailed) || !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want ErrExportFailed wrapping context.Canceled", err)
	}

	close(r.release)
	<-done
}

func TestExport_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ok := &fakeRasterizer{bm: Bitmap{PNG: []byte{1}, Width: 100, Height: 100}}
	e := New(ok, &fakeAssembler{}, Config{CacheTTL: time.Minute}, zap.NewNop(), WithMetrics(m))
	for i := 0; i < 2; i++ {
		if _, err := e.Export(context.Background(), instrumentRequest("m")); err != nil {
			t.Fatalf("Export: %v", err)
		}
	}

	bad := New(&fakeRasterizer{err: errors.New("x")}, &fakeAssembler{}, Config{}, zap.NewNop(), WithMetrics(m))
	_, _ = bad.Export(context.Background(), instrumentRequest("m"))

	role := string(models.RoleInstrumentTechnicians)
	for outcome, want := range map[string]float64{"ok": 1, "cached": 1, "error": 1} {
		got := promtest.ToFloat64(m.Outcomes.WithLabelValues(role, outcome))
		if got != want {
			t.Errorf("outcome %q = %v, want %v", outcome, got, want)
		}
	}
	if got := promtest.ToFloat64(m.InFlight); got != 0 {
		t.Errorf("in-flight gauge = %v, want 0", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.IncrementOutcome("r", "ok")
	m.ObserveDuration(time.Second)
	m.ObservePages(2)
	m.renderStarted()
	m.renderDone()
}
