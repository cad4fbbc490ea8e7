package planner

import (
	"net/http"

	"github.com/dalemusser/trainingplanner/internal/app/system/viewdata"
	"github.com/dalemusser/trainingplanner/internal/app/system/wizard"
	"github.com/dalemusser/waffle/pantry/templates"
)

type roleCard struct {
	Label       string
	Description string
	URL         string
}

type rolesData struct {
	viewdata.BaseVM
	Roles []roleCard
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /planner – step 1, choose a role                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoles(w http.ResponseWriter, r *http.Request) {
	step := wizard.StepRole
	data := rolesData{
		BaseVM: viewdata.NewBaseVM(r, "Step 1 · Select role", "/").
			WithStep(step.Number(), int(wizard.StepSummary), step.BackURL("")),
	}
	for _, role := range h.Catalogs.Roles() {
		data.Roles = append(data.Roles, roleCard{
			Label:       role.Label(),
			Description: "Select competencies to strengthen (Annex " + role.Annex() + " of WMO No. 8).",
			URL:         wizard.StepCompetencies.URL(role),
		})
	}

	templates.Render(w, r, "planner_roles", data)
}
