// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/trainingplanner/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderNotFound shows a friendly "page not found" page with a 404 status.
// If msg is empty a generic message is used.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "The page you were looking for does not exist."
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Page not found", "/"),
		Heading: "Page not found",
		Message: msg,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "error_page", data)
}

// RenderServerError shows a friendly error page with a 500 status.
// If backURL is empty, the back button returns to the landing page.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Something went wrong", backURL),
		Heading: "Something went wrong",
		Message: msg,
	}
	data.BackURL = backURL

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	templates.Render(w, r, "error_page", data)
}
