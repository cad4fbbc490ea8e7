package planner

import (
	"context"
	"net/http"

	"github.com/dalemusser/trainingplanner/internal/app/catalog"
	errorsfeature "github.com/dalemusser/trainingplanner/internal/app/features/errors"
	"github.com/dalemusser/trainingplanner/internal/app/store/selections"
	"github.com/dalemusser/trainingplanner/internal/app/system/export"
	"github.com/dalemusser/trainingplanner/internal/app/system/limits"
	"github.com/dalemusser/trainingplanner/internal/app/system/ratelimit"
	"github.com/dalemusser/trainingplanner/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Exporter turns a rendered plan into a downloadable document.
type Exporter interface {
	Export(ctx context.Context, req export.Request) (export.Document, error)
}

// Handler serves the four planner steps and the PDF download.
type Handler struct {
	Catalogs *catalog.Library
	Store    selections.Backend
	Exporter Exporter
	ErrLog   *errorsfeature.ErrorLogger
	Log      *zap.Logger

	// PruneOrphans drops stored courses that no longer belong to a chosen
	// competency when the course step is committed.
	PruneOrphans bool

	// ExportLimit throttles PDF downloads per client IP. Nil disables it.
	ExportLimit *ratelimit.Limiter
}

func NewHandler(cats *catalog.Library, store selections.Backend, exp Exporter, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Catalogs: cats,
		Store:    store,
		Exporter: exp,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// catalogFor resolves the {role} URL segment. Unknown roles get the 404 page.
func (h *Handler) catalogFor(w http.ResponseWriter, r *http.Request) (*catalog.Catalog, bool) {
	role, ok := models.ParseRole(chi.URLParam(r, "role"))
	if !ok {
		errorsfeature.RenderNotFound(w, r, "There is no planner for that role.")
		return nil, false
	}
	cat, err := h.Catalogs.ForRole(role)
	if err != nil {
		errorsfeature.RenderNotFound(w, r, "There is no planner for that role.")
		return nil, false
	}
	return cat, true
}

// parseStepForm reads a bounded step submission. It writes 400 and returns
// false when the body is malformed or too large.
func parseStepForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxPlannerFormSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return false
	}
	return true
}

// postedCompetencies returns the competency IDs in the posted draft that the
// catalog knows.
func postedCompetencies(r *http.Request, cat *catalog.Catalog) []string {
	var ids []string
	for _, id := range r.PostForm["selected"] {
		if cat.Has(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// postedCourses returns the course IDs in the posted draft that belong to any
// competency of the catalog, in posted order.
func postedCourses(r *http.Request, cat *catalog.Catalog) []string {
	var ids []string
	for _, id := range r.PostForm["selected"] {
		if _, ok := cat.OwnerOf(id); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
