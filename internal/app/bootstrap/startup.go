// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/trainingplanner/internal/app/catalog"
	"github.com/dalemusser/trainingplanner/internal/app/resources"
	"github.com/dalemusser/trainingplanner/internal/app/store/selections"
	"github.com/dalemusser/trainingplanner/internal/app/system/export"
	"github.com/dalemusser/trainingplanner/internal/app/system/ratelimit"
	"github.com/dalemusser/trainingplanner/internal/app/system/timeouts"
	"github.com/dalemusser/trainingplanner/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// selectionCleanupInterval is how often stale Mongo selections are swept.
const selectionCleanupInterval = time.Hour

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// the catalogs and templates and builds the selection store and exporter.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts configured from environment", zap.Int("count", n))
	}
	resources.LoadSharedTemplates()

	svc := deps.Services
	if svc == nil {
		return fmt.Errorf("startup: services not allocated")
	}

	cats, err := catalog.Load(appCfg.CatalogDir)
	if err != nil {
		logger.Error("catalog load failed", zap.String("dir", appCfg.CatalogDir), zap.Error(err))
		return err
	}
	svc.Catalogs = cats
	logger.Info("catalogs loaded", zap.Int("roles", len(cats.Roles())))

	secure := coreCfg.Env == "prod"
	svc.Selections, err = newSelectionBackend(appCfg, deps, secure, logger)
	if err != nil {
		return err
	}

	svc.Registry = prometheus.NewRegistry()
	svc.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc.Rasterizer = export.NewRodRasterizer(export.RodConfig{
		ControlURL: appCfg.ChromeControlURL,
		Bin:        appCfg.ChromeBin,
	}, logger.Named("rasterizer"))

	svc.Exporter = export.New(svc.Rasterizer, export.PDFAssembler{}, export.Config{
		Timeout:       appCfg.ExportTimeout,
		MaxConcurrent: int64(appCfg.ExportMaxConcurrent),
		CacheTTL:      appCfg.ExportCacheTTL,
	}, logger.Named("export"), export.WithMetrics(export.NewMetrics(svc.Registry)))

	if appCfg.ExportRateLimit > 0 {
		svc.ExportLimit = ratelimit.New(appCfg.ExportRateLimit, time.Minute)
	}

	if mb, ok := svc.Selections.(*selections.MongoBackend); ok {
		svc.Cleanup = workers.NewSelectionCleanup(mb, logger, selectionCleanupInterval, appCfg.SelectionRetention)
		svc.Cleanup.Start()
	}

	return nil
}

// newSelectionBackend builds the configured selection store.
func newSelectionBackend(appCfg AppConfig, deps DBDeps, secure bool, logger *zap.Logger) (selections.Backend, error) {
	switch appCfg.SelectionStore {
	case StoreMemory:
		logger.Warn("selections are kept in memory and lost on restart")
		return selections.NewMemoryBackend(selections.DefaultVisitorCookie, appCfg.SessionDomain, secure), nil
	case StoreMongo:
		if deps.MongoDatabase == nil {
			return nil, fmt.Errorf("selection_store=mongo but no database connected")
		}
		return selections.NewMongoBackend(deps.MongoDatabase, selections.DefaultVisitorCookie, appCfg.SessionDomain, secure, logger), nil
	default:
		b, err := selections.NewCookieBackend(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
		if err != nil {
			logger.Error("cookie selection store init failed", zap.Error(err))
			return nil, err
		}
		return b, nil
	}
}
