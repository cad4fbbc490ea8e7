package testutil

import (
	"testing"

	"github.com/dalemusser/trainingplanner/internal/app/store/selections"
	"github.com/dalemusser/trainingplanner/internal/domain/models"
)

// Fixtures seeds selection documents into a Store.
type Fixtures struct {
	store selections.Store
	t     *testing.T
}

// NewFixtures creates a new Fixtures instance over store.
func NewFixtures(t *testing.T, store selections.Store) *Fixtures {
	t.Helper()
	return &Fixtures{store: store, t: t}
}

// Competencies writes a competency selection document for role.
func (f *Fixtures) Competencies(role models.Role, ids ...string) *Fixtures {
	f.t.Helper()
	if err := selections.SaveSelection(f.store, role, ids); err != nil {
		f.t.Fatalf("failed to seed competencies: %v", err)
	}
	return f
}

// Courses writes a course selection document.
func (f *Fixtures) Courses(ids ...string) *Fixtures {
	f.t.Helper()
	if err := selections.SaveCourses(f.store, ids); err != nil {
		f.t.Fatalf("failed to seed courses: %v", err)
	}
	return f
}

// Raw writes an arbitrary value under key, for malformed-document cases.
func (f *Fixtures) Raw(key, value string) *Fixtures {
	f.t.Helper()
	if err := f.store.Set(key, []byte(value)); err != nil {
		f.t.Fatalf("failed to seed %s: %v", key, err)
	}
	return f
}
