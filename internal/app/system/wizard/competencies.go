// internal/app/system/wizard/competencies.go
package wizard

import (
	"fmt"

	"github.com/dalemusser/trainingplanner/internal/app/catalog"
	"github.com/dalemusser/trainingplanner/internal/app/store/selections"
	"github.com/dalemusser/trainingplanner/internal/domain/models"
)

// CompetencyStep holds the in-progress competency choice for one role.
// Toggles are in memory only; nothing is persisted until Commit.
type CompetencyStep struct {
	cat      *catalog.Catalog
	selected map[string]struct{}
}

// CompetencyOption is one checklist entry.
type CompetencyOption struct {
	models.Competency
	Checked bool
}

// NewCompetencyStep seeds the step with ids, typically the stored selection
// for the catalog's role or the draft posted back by the form.
func NewCompetencyStep(cat *catalog.Catalog, seed []string) *CompetencyStep {
	s := &CompetencyStep{cat: cat, selected: make(map[string]struct{}, len(seed))}
	for _, id := range seed {
		s.selected[id] = struct{}{}
	}
	return s
}

// Role is the role whose catalog the step renders.
func (s *CompetencyStep) Role() models.Role { return s.cat.Role }

// Toggle flips membership of id. Applying it twice restores the prior state.
func (s *CompetencyStep) Toggle(id string) {
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.selected[id] = struct{}{}
}

// IsSelected reports whether id is currently chosen.
func (s *CompetencyStep) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// Selected returns the chosen IDs in catalog number order.
func (s *CompetencyStep) Selected() []string {
	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	return s.cat.SortIDs(ids)
}

// Options returns every catalog entry with its checked state.
func (s *CompetencyStep) Options() []CompetencyOption {
	comps := s.cat.Competencies()
	out := make([]CompetencyOption, 0, len(comps))
	for _, c := range comps {
		out = append(out, CompetencyOption{Competency: c, Checked: s.IsSelected(c.ID)})
	}
	return out
}

// Commit persists {role, items} and returns the URL of the next step. A
// stored document for a different role is cleared first, along with the
// course selection that depended on it.
func (s *CompetencyStep) Commit(store selections.Store) (string, error) {
	if _, err := selections.ResetOnRoleChange(store, s.cat.Role); err != nil {
		return "", fmt.Errorf("reset on role change: %w", err)
	}
	if err := selections.SaveSelection(store, s.cat.Role, s.Selected()); err != nil {
		return "", err
	}
	return StepCourses.URL(s.cat.Role), nil
}
