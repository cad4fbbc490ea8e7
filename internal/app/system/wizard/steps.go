// internal/app/system/wizard/steps.go
package wizard

import "github.com/dalemusser/trainingplanner/internal/domain/models"

// Step is a position in the planning flow.
type Step int

const (
	StepRole Step = iota + 1
	StepCompetencies
	StepCourses
	StepSummary
)

// Number is the 1-based step number shown to the user.
func (s Step) Number() int { return int(s) }

// Title is the short label shown in the step header.
func (s Step) Title() string {
	switch s {
	case StepRole:
		return "Select role"
	case StepCompetencies:
		return "Select competencies"
	case StepCourses:
		return "Recommended courses"
	case StepSummary:
		return "Summary"
	}
	return ""
}

// Prev returns the preceding step. StepRole has none and returns itself.
func (s Step) Prev() Step {
	if s <= StepRole {
		return StepRole
	}
	return s - 1
}

// URL returns the path of the step for role.
func (s Step) URL(role models.Role) string {
	base := "/planner"
	if s == StepRole {
		return base
	}
	base += "/" + role.Slug()
	switch s {
	case StepCourses:
		return base + "/recommendation"
	case StepSummary:
		return base + "/summary"
	}
	return base
}

// BackURL returns the URL of the preceding step. The role step goes back to
// the landing page.
func (s Step) BackURL(role models.Role) string {
	if s == StepRole {
		return "/"
	}
	return s.Prev().URL(role)
}
