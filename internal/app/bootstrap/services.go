// internal/app/bootstrap/services.go
package bootstrap

import (
	"github.com/dalemusser/trainingplanner/internal/app/catalog"
	"github.com/dalemusser/trainingplanner/internal/app/store/selections"
	"github.com/dalemusser/trainingplanner/internal/app/system/export"
	"github.com/dalemusser/trainingplanner/internal/app/system/ratelimit"
	"github.com/dalemusser/trainingplanner/internal/app/system/workers"
	"github.com/prometheus/client_golang/prometheus"
)

// Services are the long-lived components built once at startup.
type Services struct {
	Catalogs   *catalog.Library
	Selections selections.Backend
	Rasterizer *export.RodRasterizer
	Exporter   *export.Exporter
	Registry   *prometheus.Registry

	// ExportLimit is nil when export_rate_limit is 0.
	ExportLimit *ratelimit.Limiter

	// Cleanup runs only with the mongo selection store.
	Cleanup *workers.SelectionCleanup
}
