package home

import (
	"net/http"

	"github.com/dalemusser/trainingplanner/internal/app/system/viewdata"
	"github.com/dalemusser/trainingplanner/internal/app/system/wizard"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the landing page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		Log: logger,
	}
}

type homeData struct {
	viewdata.BaseVM
	StartURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := homeData{
		BaseVM:   viewdata.NewBaseVM(r, "", "/"),
		StartURL: wizard.StepRole.URL(""),
	}

	templates.Render(w, r, "home", data)
}
