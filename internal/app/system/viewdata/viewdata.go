package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// SiteName is shown in the page header and title.
const SiteName = "Training Planner"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// Wizard progress; zero outside the planner.
	StepNumber int
	StepCount  int

	// CSRF protection
	CSRFToken string // Token for form submission
}

// NewBaseVM creates a populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	return BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
}

// WithStep sets wizard progress and pins the back button to the previous
// step, which is never taken from the request.
func (vm BaseVM) WithStep(number, count int, backURL string) BaseVM {
	vm.StepNumber = number
	vm.StepCount = count
	vm.BackURL = backURL
	return vm
}
