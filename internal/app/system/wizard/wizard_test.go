package wizard_test

import (
	"sort"
	"testing"

	"github.com/dalemusser/trainingplanner/internal/app/catalog"
	"github.com/dalemusser/trainingplanner/internal/app/store/selections"
	"github.com/dalemusser/trainingplanner/internal/app/system/wizard"
	"github.com/dalemusser/trainingplanner/internal/domain/models"
	"github.com/google/go-cmp/cmp"
)

func instrumentCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.MustLoadEmbedded().ForRole(models.RoleInstrumentTechnicians)
	if err != nil {
		t.Fatalf("ForRole: %v", err)
	}
	return c
}

func observersCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.MustLoadEmbedded().ForRole(models.RoleObservers)
	if err != nil {
		t.Fatalf("ForRole: %v", err)
	}
	return c
}

func TestCompetencyStep_ToggleInvolution(t *testing.T) {
	cat := instrumentCatalog(t)
	seeds := [][]string{
		nil,
		{"inst_1"},
		{"inst_1", "inst_3", "inst_6"},
	}

	for _, seed := range seeds {
		for _, comp := range cat.Competencies() {
			s := wizard.NewCompetencyStep(cat, seed)
			before := s.Selected()
			s.Toggle(comp.ID)
			s.Toggle(comp.ID)
			if diff := cmp.Diff(before, s.Selected()); diff != "" {
				t.Errorf("seed %v, toggle %s twice (-before +after):\n%s", seed, comp.ID, diff)
			}
		}
	}
}

func TestCompetencyStep_SelectedInNumberOrder(t *testing.T) {
	s := wizard.NewCompetencyStep(instrumentCatalog(t), []string{"inst_6", "inst_1"})
	s.Toggle("inst_3")

	want := []string{"inst_1", "inst_3", "inst_6"}
	if diff := cmp.Diff(want, s.Selected()); diff != "" {
		t.Errorf("Selected mismatch (-want +got):\n%s", diff)
	}
	if !s.IsSelected("inst_3") || s.IsSelected("inst_2") {
		t.Error("IsSelected disagrees with Selected")
	}

	checked := 0
	for _, opt := range s.Options() {
		if opt.Checked {
			checked++
		}
	}
	if checked != 3 {
		t.Errorf("Options: %d checked, want 3", checked)
	}
}

func TestCompetencyStep_Commit(t *testing.T) {
	store := selections.MapStore{}
	s := wizard.NewCompetencyStep(instrumentCatalog(t), []string{"inst_3", "inst_1"})

	next, err := s.Commit(store)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if next != "/planner/instrument/recommendation" {
		t.Errorf("next URL: got %q", next)
	}

	doc, ok := selections.LoadSelection(store, models.RoleInstrumentTechnicians, nil)
	if !ok {
		t.Fatal("expected stored selection")
	}
	if diff := cmp.Diff([]string{"inst_1", "inst_3"}, doc.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestCompetencyStep_CommitResetsOtherRole(t *testing.T) {
	store := selections.MapStore{}
	_ = selections.SaveSelection(store, models.RoleObservers, []string{"obs_5"})
	_ = selections.SaveCourses(store, []string{"obs5_c1"})

	s := wizard.NewCompetencyStep(instrumentCatalog(t), []string{"inst_1"})
	if _, err := s.Commit(store); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if ids, _ := selections.LoadCourses(store, nil); len(ids) != 0 {
		t.Errorf("courses from the previous role should be cleared, got %v", ids)
	}
	if _, ok := selections.LoadSelection(store, models.RoleObservers, nil); ok {
		t.Error("Observers selection should no longer load")
	}
}

func TestCourseStep_FlatListOrder(t *testing.T) {
	s := wizard.NewCourseStep(instrumentCatalog(t), []string{"inst_5", "inst_1", "bogus"}, nil)

	comps := s.Competencies()
	if len(comps) != 2 || comps[0].ID != "inst_1" || comps[1].ID != "inst_5" {
		t.Fatalf("Competencies: got %v", comps)
	}

	want := []string{
		"c1_1", "c1_2", "c1_3", "c1_4", "c1_5", "c1_6", "c1_7", "c1_8",
		"c5_1", "c5_2", "c5_3", "c5_4",
	}
	if diff := cmp.Diff(want, s.FlatCourseIDs()); diff != "" {
		t.Errorf("flat list mismatch (-want +got):\n%s", diff)
	}
}

func TestCourseStep_ToggleInvolution(t *testing.T) {
	s := wizard.NewCourseStep(instrumentCatalog(t), []string{"inst_1"}, []string{"c1_2", "c1_5"})
	before := s.Selection()

	for _, id := range s.FlatCourseIDs() {
		s.ToggleCourse(id)
		s.ToggleCourse(id)
	}

	got := s.Selection()
	sort.Strings(before)
	sort.Strings(got)
	if diff := cmp.Diff(before, got); diff != "" {
		t.Errorf("selection changed (-before +after):\n%s", diff)
	}
}

func TestCourseStep_ToggleSelectAll(t *testing.T) {
	// c6_1 belongs to a competency that is not in scope: it must survive.
	s := wizard.NewCourseStep(instrumentCatalog(t), []string{"inst_5"}, []string{"c6_1", "c5_2"})

	if s.AllSelected() {
		t.Fatal("AllSelected should be false with a partial selection")
	}

	s.ToggleSelectAll()
	if !s.AllSelected() {
		t.Fatal("AllSelected should be true after selecting all")
	}
	want := []string{"c6_1", "c5_2", "c5_1", "c5_3", "c5_4"}
	if diff := cmp.Diff(want, s.Selection()); diff != "" {
		t.Errorf("after select all (-want +got):\n%s", diff)
	}

	s.ToggleSelectAll()
	if diff := cmp.Diff([]string{"c6_1"}, s.Selection()); diff != "" {
		t.Errorf("after deselect all (-want +got):\n%s", diff)
	}

	s.ToggleSelectAll()
	for _, id := range s.FlatCourseIDs() {
		if !s.IsSelected(id) {
			t.Errorf("%s should be reselected", id)
		}
	}
	if !s.IsSelected("c6_1") {
		t.Error("out-of-scope selection should be untouched")
	}
}

func TestCourseStep_AllSelectedDefinition(t *testing.T) {
	cat := instrumentCatalog(t)

	tests := []struct {
		name  string
		comps []string
		seed  []string
		want  bool
	}{
		{"empty flat list", nil, []string{"c1_1"}, false},
		{"empty selection", []string{"inst_5"}, nil, false},
		{"subset", []string{"inst_5"}, []string{"c5_1", "c5_2", "c5_3"}, false},
		{"exact", []string{"inst_5"}, []string{"c5_4", "c5_3", "c5_2", "c5_1"}, true},
		{"superset", []string{"inst_5"}, []string{"c5_1", "c5_2", "c5_3", "c5_4", "c1_1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := wizard.NewCourseStep(cat, tt.comps, tt.seed)
			if got := s.AllSelected(); got != tt.want {
				t.Errorf("AllSelected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCourseStep_CommitVerbatim(t *testing.T) {
	store := selections.MapStore{}
	s := wizard.NewCourseStep(instrumentCatalog(t), []string{"inst_1"}, []string{"c6_1"})
	s.ToggleCourse("c1_3")
	s.ToggleCourse("c1_1")

	next, err := s.Commit(store)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if next != "/planner/instrument/summary" {
		t.Errorf("next URL: got %q", next)
	}

	got, _ := selections.LoadCourses(store, nil)
	if diff := cmp.Diff([]string{"c6_1", "c1_3", "c1_1"}, got); diff != "" {
		t.Errorf("stored courses (-want +got):\n%s", diff)
	}
}

func TestCourseStep_CommitPruneOrphans(t *testing.T) {
	store := selections.MapStore{}
	s := wizard.NewCourseStep(instrumentCatalog(t), []string{"inst_1"}, []string{"c6_1", "c1_3"})
	s.PruneOrphans = true

	if _, err := s.Commit(store); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, _ := selections.LoadCourses(store, nil)
	if diff := cmp.Diff([]string{"c1_3"}, got); diff != "" {
		t.Errorf("stored courses (-want +got):\n%s", diff)
	}
}

func TestCourseStep_Empty(t *testing.T) {
	s := wizard.NewCourseStep(observersCatalog(t), nil, nil)
	if !s.Empty() {
		t.Error("expected Empty() with no competencies")
	}
	if len(s.Groups()) != 0 {
		t.Error("expected no groups")
	}
}

func TestStep_URLs(t *testing.T) {
	role := models.RoleObservers
	tests := []struct {
		step wizard.Step
		url  string
		back string
	}{
		{wizard.StepRole, "/planner", "/"},
		{wizard.StepCompetencies, "/planner/observers", "/planner"},
		{wizard.StepCourses, "/planner/observers/recommendation", "/planner/observers"},
		{wizard.StepSummary, "/planner/observers/summary", "/planner/observers/recommendation"},
	}
	for _, tt := range tests {
		if got := tt.step.URL(role); got != tt.url {
			t.Errorf("step %d URL: got %q, want %q", tt.step, got, tt.url)
		}
		if got := tt.step.BackURL(role); got != tt.back {
			t.Errorf("step %d BackURL: got %q, want %q", tt.step, got, tt.back)
		}
	}
}
