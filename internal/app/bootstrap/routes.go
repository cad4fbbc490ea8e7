// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	errorsfeature "github.com/dalemusser/trainingplanner/internal/app/features/errors"
	healthfeature "github.com/dalemusser/trainingplanner/internal/app/features/health"
	homefeature "github.com/dalemusser/trainingplanner/internal/app/features/home"
	plannerfeature "github.com/dalemusser/trainingplanner/internal/app/features/planner"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It boots the template engine and mounts
// the landing page, the planner wizard, health, metrics and static assets.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	svc := deps.Services
	if svc == nil || svc.Catalogs == nil || svc.Selections == nil || svc.Exporter == nil {
		return nil, fmt.Errorf("build handler: startup did not complete")
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, svc.Selections.Name(), len(svc.Catalogs.Roles()), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus exposition
	r.Handle("/metrics", promhttp.HandlerFor(svc.Registry, promhttp.HandlerOpts{}))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Landing page
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Planner wizard and PDF export
	plannerHandler := plannerfeature.NewHandler(svc.Catalogs, svc.Selections, svc.Exporter, errLog, logger)
	plannerHandler.PruneOrphans = appCfg.PruneOrphanCourses
	plannerHandler.ExportLimit = svc.ExportLimit
	r.Mount("/planner", plannerfeature.Routes(plannerHandler))

	logger.Info("routes built",
		zap.String("selection_store", svc.Selections.Name()),
		zap.Bool("prune_orphan_courses", appCfg.PruneOrphanCourses))
	return r, nil
}
