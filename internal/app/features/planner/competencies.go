package planner

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/trainingplanner/internal/app/catalog"
	"github.com/dalemusser/trainingplanner/internal/app/store/selections"
	"github.com/dalemusser/trainingplanner/internal/app/system/htmlsanitize"
	"github.com/dalemusser/trainingplanner/internal/app/system/viewdata"
	"github.com/dalemusser/trainingplanner/internal/app/system/wizard"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type competenciesData struct {
	viewdata.BaseVM
	RoleLabel string
	Lead      template.HTML
	Reference template.HTML
	Action    string
	Options   []wizard.CompetencyOption
	Selected  []string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /planner/{role} – step 2, competency checklist                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCompetencies(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.catalogFor(w, r)
	if !ok {
		return
	}

	store := h.Store.Bind(w, r)
	doc, _ := selections.LoadSelection(store, cat.Role, h.Log)
	h.renderCompetencies(w, r, cat, wizard.NewCompetencyStep(cat, doc.Items))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /planner/{role} – toggle (re-render) or next (commit + 303)            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCompetencies(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.catalogFor(w, r)
	if !ok {
		return
	}
	if !parseStepForm(w, r) {
		return
	}

	step := wizard.NewCompetencyStep(cat, postedCompetencies(r, cat))

	if id := r.PostFormValue("toggle"); id != "" {
		if cat.Has(id) {
			step.Toggle(id)
		}
		h.renderCompetencies(w, r, cat, step)
		return
	}

	if r.PostFormValue("action") != "next" {
		h.renderCompetencies(w, r, cat, step)
		return
	}

	store := h.Store.Bind(w, r)
	next, err := step.Commit(store)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "save competency selection failed", err,
			"Your selection could not be saved. Please try again.", wizard.StepCompetencies.URL(cat.Role))
		return
	}
	h.Log.Info("competencies committed",
		zap.String("role", string(cat.Role)),
		zap.Strings("competencies", step.Selected()))

	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *Handler) renderCompetencies(w http.ResponseWriter, r *http.Request, cat *catalog.Catalog, step *wizard.CompetencyStep) {
	s := wizard.StepCompetencies
	data := competenciesData{
		BaseVM: viewdata.NewBaseVM(r, "Step 2 · Select competencies", s.BackURL(cat.Role)).
			WithStep(s.Number(), int(wizard.StepSummary), s.BackURL(cat.Role)),
		RoleLabel: cat.Role.Label(),
		Lead:      htmlsanitize.PrepareForDisplay(cat.Lead),
		Reference: htmlsanitize.PrepareForDisplay(cat.Reference),
		Action:    s.URL(cat.Role),
		Options:   step.Options(),
		Selected:  step.Selected(),
	}

	templates.Render(w, r, "planner_competencies", data)
}
