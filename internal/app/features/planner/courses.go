package planner

import (
	"net/http"

	"github.com/dalemusser/trainingplanner/internal/app/catalog"
	"github.com/dalemusser/trainingplanner/internal/app/store/selections"
	"github.com/dalemusser/trainingplanner/internal/app/system/viewdata"
	"github.com/dalemusser/trainingplanner/internal/app/system/wizard"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type coursesData struct {
	viewdata.BaseVM
	RoleLabel   string
	Action      string
	Empty       bool
	Groups      []wizard.CourseGroup
	AllSelected bool
	Selection   []string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /planner/{role}/recommendation – step 3, courses for the competencies   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCourses(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.catalogFor(w, r)
	if !ok {
		return
	}

	store := h.Store.Bind(w, r)
	doc, _ := selections.LoadSelection(store, cat.Role, h.Log)
	courses, _ := selections.LoadCourses(store, h.Log)
	h.renderCourses(w, r, cat, h.newCourseStep(cat, doc.Items, courses))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /planner/{role}/recommendation – toggle / select_all / continue        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCourses(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.catalogFor(w, r)
	if !ok {
		return
	}
	if !parseStepForm(w, r) {
		return
	}

	// The competency set comes from the store; only the course draft is posted.
	store := h.Store.Bind(w, r)
	doc, _ := selections.LoadSelection(store, cat.Role, h.Log)
	step := h.newCourseStep(cat, doc.Items, postedCourses(r, cat))

	if id := r.PostFormValue("toggle"); id != "" {
		if _, known := cat.OwnerOf(id); known {
			step.ToggleCourse(id)
		}
		h.renderCourses(w, r, cat, step)
		return
	}

	switch r.PostFormValue("action") {
	case "select_all":
		step.ToggleSelectAll()
		h.renderCourses(w, r, cat, step)
		return
	case "continue":
	default:
		h.renderCourses(w, r, cat, step)
		return
	}

	next, err := step.Commit(store)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "save course selection failed", err,
			"Your selection could not be saved. Please try again.", wizard.StepCourses.URL(cat.Role))
		return
	}
	h.Log.Info("courses committed",
		zap.String("role", string(cat.Role)),
		zap.Int("courses", len(step.Selection())),
		zap.Bool("pruned", h.PruneOrphans))

	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *Handler) newCourseStep(cat *catalog.Catalog, competencyIDs, courseIDs []string) *wizard.CourseStep {
	step := wizard.NewCourseStep(cat, competencyIDs, courseIDs)
	step.PruneOrphans = h.PruneOrphans
	return step
}

func (h *Handler) renderCourses(w http.ResponseWriter, r *http.Request, cat *catalog.Catalog, step *wizard.CourseStep) {
	s := wizard.StepCourses
	data := coursesData{
		BaseVM: viewdata.NewBaseVM(r, "Step 3 · Recommended courses", s.BackURL(cat.Role)).
			WithStep(s.Number(), int(wizard.StepSummary), s.BackURL(cat.Role)),
		RoleLabel:   cat.Role.Label(),
		Action:      s.URL(cat.Role),
		Empty:       step.Empty(),
		Groups:      step.Groups(),
		AllSelected: step.AllSelected(),
		Selection:   step.Selection(),
	}

	templates.Render(w, r, "planner_courses", data)
}
