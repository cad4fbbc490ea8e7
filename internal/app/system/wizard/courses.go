// internal/app/system/wizard/courses.go
package wizard

import (
	"github.com/dalemusser/trainingplanner/internal/app/catalog"
	"github.com/dalemusser/trainingplanner/internal/app/store/selections"
	"github.com/dalemusser/trainingplanner/internal/domain/models"
)

// CourseStep holds the course choice for the competencies committed in the
// previous step.
//
// The selection keeps insertion order and may contain course IDs outside the
// current flat list (left over from competencies chosen on an earlier
// visit). Those survive Commit unless PruneOrphans is set.
type CourseStep struct {
	cat   *catalog.Catalog
	comps []models.Competency
	flat  []string

	order    []string
	selected map[string]struct{}

	// PruneOrphans drops selected courses that no longer belong to a chosen
	// competency when committing.
	PruneOrphans bool
}

// CourseGroup is one competency with its course checklist.
type CourseGroup struct {
	models.Competency
	Courses []CourseOption
}

// CourseOption is one course checkbox.
type CourseOption struct {
	models.Course
	Checked bool
}

// NewCourseStep builds the step from the committed competency IDs and a seed
// course selection.
func NewCourseStep(cat *catalog.Catalog, competencyIDs, seed []string) *CourseStep {
	s := &CourseStep{
		cat:      cat,
		comps:    cat.Lookup(competencyIDs),
		selected: make(map[string]struct{}, len(seed)),
	}
	for _, c := range s.comps {
		s.flat = append(s.flat, c.CourseIDs()...)
	}
	for _, id := range seed {
		s.add(id)
	}
	return s
}

func (s *CourseStep) add(id string) {
	if _, ok := s.selected[id]; ok {
		return
	}
	s.selected[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *CourseStep) remove(ids ...string) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.selected[id]; ok {
			delete(s.selected, id)
			drop[id] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if _, gone := drop[id]; !gone {
			kept = append(kept, id)
		}
	}
	s.order = kept
}

// Role is the role whose catalog the step renders.
func (s *CourseStep) Role() models.Role { return s.cat.Role }

// Empty reports whether no known competency was committed.
func (s *CourseStep) Empty() bool { return len(s.comps) == 0 }

// Competencies returns the committed competencies in number order.
func (s *CourseStep) Competencies() []models.Competency {
	return append([]models.Competency(nil), s.comps...)
}

// FlatCourseIDs returns every course of the committed competencies in
// competency-then-course order.
func (s *CourseStep) FlatCourseIDs() []string {
	return append([]string(nil), s.flat...)
}

// ToggleCourse flips membership of id.
func (s *CourseStep) ToggleCourse(id string) {
	if s.IsSelected(id) {
		s.remove(id)
		return
	}
	s.add(id)
}

// IsSelected reports whether id is currently chosen.
func (s *CourseStep) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// AllSelected is true iff the flat list is non-empty and every member of it
// is selected.
func (s *CourseStep) AllSelected() bool {
	if len(s.flat) == 0 {
		return false
	}
	for _, id := range s.flat {
		if !s.IsSelected(id) {
			return false
		}
	}
	return true
}

// ToggleSelectAll deselects exactly the flat list when it is fully selected,
// and otherwise adds every member of it. Selections outside the flat list are
// never touched.
func (s *CourseStep) ToggleSelectAll() {
	if s.AllSelected() {
		s.remove(s.flat...)
		return
	}
	for _, id := range s.flat {
		s.add(id)
	}
}

// Selection returns the chosen course IDs in insertion order.
func (s *CourseStep) Selection() []string {
	return append([]string(nil), s.order...)
}

// Groups returns the committed competencies with their course checkboxes.
func (s *CourseStep) Groups() []CourseGroup {
	out := make([]CourseGroup, 0, len(s.comps))
	for _, c := range s.comps {
		g := CourseGroup{Competency: c, Courses: make([]CourseOption, 0, len(c.Courses))}
		for _, course := range c.Courses {
			g.Courses = append(g.Courses, CourseOption{Course: course, Checked: s.IsSelected(course.ID)})
		}
		out = append(out, g)
	}
	return out
}

// Commit persists the selection verbatim and returns the URL of the next
// step. With PruneOrphans set, IDs outside the flat list are dropped first.
func (s *CourseStep) Commit(store selections.Store) (string, error) {
	ids := s.Selection()
	if s.PruneOrphans {
		inScope := make(map[string]struct{}, len(s.flat))
		for _, id := range s.flat {
			inScope[id] = struct{}{}
		}
		kept := ids[:0]
		for _, id := range ids {
			if _, ok := inScope[id]; ok {
				kept = append(kept, id)
			}
		}
		ids = kept
	}
	if err := selections.SaveCourses(store, ids); err != nil {
		return "", err
	}
	return StepSummary.URL(s.cat.Role), nil
}
