package planner

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/dalemusser/trainingplanner/internal/app/catalog"
	"github.com/dalemusser/trainingplanner/internal/app/store/selections"
	"github.com/dalemusser/trainingplanner/internal/app/system/export"
	"github.com/dalemusser/trainingplanner/internal/app/system/ratelimit"
	"github.com/dalemusser/trainingplanner/internal/app/system/recommend"
	"github.com/dalemusser/trainingplanner/internal/app/system/viewdata"
	"github.com/dalemusser/trainingplanner/internal/app/system/wizard"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// RateLimitMessage is shown when a client asks for too many PDFs in a minute.
const RateLimitMessage = "Too many PDF downloads. Please wait a minute before trying again."

// printViewportWidth is the CSS width the plan is laid out at for capture.
const printViewportWidth = 1100

// DownloadCookie echoes the posted download_token once an export finishes,
// so the page can tell when to re-enable its download button.
const DownloadCookie = "tp_download"

// maxDownloadToken bounds the token the page generates (a millisecond clock).
const maxDownloadToken = 32

type summaryData struct {
	viewdata.BaseVM
	RoleLabel   string
	ExportURL   string
	PrintURL    string
	Plan        template.HTML
	CardCount   int
	ExportError string
}

// loadPlan reads both stored documents and filters the catalog by them.
func (h *Handler) loadPlan(w http.ResponseWriter, r *http.Request, cat *catalog.Catalog) planVM {
	store := h.Store.Bind(w, r)
	doc, _ := selections.LoadSelection(store, cat.Role, h.Log)
	courses, _ := selections.LoadCourses(store, h.Log)
	return newPlanVM(cat, recommend.Filter(cat, doc.Items, courses))
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /planner/{role}/summary – step 4, filtered plan + export               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.catalogFor(w, r)
	if !ok {
		return
	}
	h.renderSummary(w, r, cat, h.loadPlan(w, r, cat), http.StatusOK, "")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /planner/{role}/summary/print – the bare document the PDF is made from  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePrint(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.catalogFor(w, r)
	if !ok {
		return
	}

	doc, err := renderPrintDocument(h.loadPlan(w, r, cat))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "render print document failed", err,
			"The plan could not be displayed.", wizard.StepSummary.URL(cat.Role))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /planner/{role}/summary/pdf – export the plan as a PDF download        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.catalogFor(w, r)
	if !ok {
		return
	}
	if !parseStepForm(w, r) {
		return
	}
	markDownloadDone(w, r.PostForm.Get("download_token"))

	vm := h.loadPlan(w, r, cat)
	if ip := ratelimit.ClientIP(r); !h.ExportLimit.Allow(ip) {
		h.Log.Info("pdf download rate limited", zap.String("ip", ip))
		h.renderSummary(w, r, cat, vm, http.StatusTooManyRequests, RateLimitMessage)
		return
	}

	html, err := renderPrintDocument(vm)
	if err != nil {
		h.Log.Error("render print document failed", zap.Error(err))
		h.renderSummary(w, r, cat, vm, http.StatusInternalServerError, export.FailureMessage)
		return
	}

	doc, err := h.Exporter.Export(r.Context(), export.Request{
		Role: cat.Role,
		Region: export.Region{
			HTML:          html,
			Container:     planContainer,
			ViewportWidth: printViewportWidth,
		},
	})
	if err != nil {
		h.Log.Warn("pdf download failed",
			zap.String("role", string(cat.Role)),
			zap.Error(err))
		h.renderSummary(w, r, cat, vm, http.StatusInternalServerError, export.FailureMessage)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(doc.Data)
}

// markDownloadDone sets DownloadCookie to token. Every response of the export
// handler carries it, whether it is the PDF or the summary with an error.
func markDownloadDone(w http.ResponseWriter, token string) {
	if token == "" || len(token) > maxDownloadToken {
		return
	}
	for _, c := range token {
		if c < '0' || c > '9' {
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     DownloadCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   60,
		SameSite: http.SameSiteLaxMode,
	})
}

// renderSummary writes step 4 with status. A failure to render the plan
// replaces it with the 500 error page.
func (h *Handler) renderSummary(w http.ResponseWriter, r *http.Request, cat *catalog.Catalog, vm planVM, status int, exportErr string) {
	s := wizard.StepSummary
	plan, err := renderPlan(vm)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "render plan failed", err,
			"The plan could not be displayed.", s.BackURL(cat.Role))
		return
	}

	data := summaryData{
		BaseVM: viewdata.NewBaseVM(r, "Step 4 · Summary", s.BackURL(cat.Role)).
			WithStep(s.Number(), int(wizard.StepSummary), s.BackURL(cat.Role)),
		RoleLabel:   cat.Role.Label(),
		ExportURL:   s.URL(cat.Role) + "/pdf",
		PrintURL:    s.URL(cat.Role) + "/print",
		Plan:        plan,
		CardCount:   len(vm.Cards),
		ExportError: exportErr,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "planner_summary", data)
}
